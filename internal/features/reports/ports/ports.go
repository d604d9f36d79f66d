package ports

import (
	"context"

	"patrol-verifier/internal/features/reports/domain"
)

// ReportSubmitter defines the primary port for patrol report submission.
type ReportSubmitter interface {
	// SubmitReport runs one upload end to end. It never returns an error;
	// every failure is folded into the result.
	SubmitReport(ctx context.Context, req domain.SubmitRequest) domain.SubmissionResult
	// ReportDetails returns a stored report with its per-checkpoint outcomes.
	ReportDetails(ctx context.Context, reportID string) (*domain.ReportDetails, error)
}

// FileStore persists uploaded report artifacts.
type FileStore interface {
	// Save stores data and returns an opaque handle to the stored artifact.
	Save(ctx context.Context, data []byte, clientID int64, reportID, filename string) (string, error)
}

// RouteRepository provides read access to a route's planned checkpoints.
type RouteRepository interface {
	// PlannedCheckpoints returns the route's checkpoints ordered by sequence.
	PlannedCheckpoints(ctx context.Context, routeID int64) ([]domain.PlannedCheckpoint, error)
}

// ShiftRepository provides read access to shifts.
type ShiftRepository interface {
	// GetShift returns domain.ErrShiftNotFound for unknown ids.
	GetShift(ctx context.Context, shiftID int64) (*domain.Shift, error)
}

// ReportRepository persists patrol reports and their outcomes.
type ReportRepository interface {
	// Create inserts the report and returns its id.
	Create(ctx context.Context, report *domain.Report) (string, error)
	// Finalize moves a processing report to a terminal status and writes its
	// locations and outcomes in the same transaction.
	Finalize(ctx context.Context, reportID string, f domain.Finalization) error
	// Get returns domain.ErrReportNotFound for unknown ids.
	Get(ctx context.Context, reportID string) (*domain.Report, error)
	// Outcomes returns the stored outcomes ordered by sequence.
	Outcomes(ctx context.Context, reportID string) ([]domain.OutcomeRecord, error)
}

// ReportNotifier is told about every report that reaches a terminal status.
type ReportNotifier interface {
	ReportFinalized(ctx context.Context, report domain.Report) error
}
