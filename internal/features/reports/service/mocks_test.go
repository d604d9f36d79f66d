package service

import (
	"context"

	"patrol-verifier/internal/features/reports/domain"

	"github.com/stretchr/testify/mock"
)

// MockReportRepository is a mock implementation of ports.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.Report) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *MockReportRepository) Finalize(ctx context.Context, reportID string, f domain.Finalization) error {
	args := m.Called(ctx, reportID, f)
	return args.Error(0)
}

func (m *MockReportRepository) Get(ctx context.Context, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) Outcomes(ctx context.Context, reportID string) ([]domain.OutcomeRecord, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutcomeRecord), args.Error(1)
}

// MockShiftRepository is a mock implementation of ports.ShiftRepository
type MockShiftRepository struct {
	mock.Mock
}

func (m *MockShiftRepository) GetShift(ctx context.Context, shiftID int64) (*domain.Shift, error) {
	args := m.Called(ctx, shiftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

// MockRouteRepository is a mock implementation of ports.RouteRepository
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) PlannedCheckpoints(ctx context.Context, routeID int64) ([]domain.PlannedCheckpoint, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlannedCheckpoint), args.Error(1)
}

// MockFileStore is a mock implementation of ports.FileStore
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, data []byte, clientID int64, reportID, filename string) (string, error) {
	args := m.Called(ctx, data, clientID, reportID, filename)
	return args.String(0), args.Error(1)
}

// MockReportNotifier is a mock implementation of ports.ReportNotifier
type MockReportNotifier struct {
	mock.Mock
}

func (m *MockReportNotifier) ReportFinalized(ctx context.Context, report domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
