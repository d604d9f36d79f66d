package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"patrol-verifier/internal/features/reports/domain"
	"patrol-verifier/internal/features/reports/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultProcessingTimeout bounds parsing, the device check and matching.
const DefaultProcessingTimeout = 30 * time.Second

// Messages returned to the submitter.
const (
	MessageCompleted     = "Report uploaded and all checkpoints verified successfully!"
	MessageShiftNotFound = "Selected shift not found."
	MessageUnexpected    = "A critical unexpected error occurred. Please contact support."

	detailUnexpected = "A critical unexpected error occurred during processing."
)

// Options configures a SubmissionService.
type Options struct {
	// Timeout bounds parsing, the device check and matching. Zero disables it.
	Timeout time.Duration
}

// SubmissionService drives one report upload from raw bytes to a terminal status.
// Every upload attempt leaves a report row behind whenever the store accepts one.
type SubmissionService struct {
	reports  ports.ReportRepository
	shifts   ports.ShiftRepository
	routes   ports.RouteRepository
	files    ports.FileStore
	notifier ports.ReportNotifier

	parser  *TrackParser
	matcher *Matcher
	logger  *zap.Logger
	timeout time.Duration

	now   func() time.Time
	newID func() string
}

// NewSubmissionService creates a new SubmissionService. notifier may be nil.
func NewSubmissionService(
	reports ports.ReportRepository,
	shifts ports.ShiftRepository,
	routes ports.RouteRepository,
	files ports.FileStore,
	notifier ports.ReportNotifier,
	logger *zap.Logger,
	opts Options,
) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		reports:  reports,
		shifts:   shifts,
		routes:   routes,
		files:    files,
		notifier: notifier,
		parser:   NewTrackParser(logger),
		matcher:  NewMatcher(),
		logger:   logger,
		timeout:  opts.Timeout,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// SubmitReport implements ports.ReportSubmitter.
func (s *SubmissionService) SubmitReport(ctx context.Context, req domain.SubmitRequest) (result domain.SubmissionResult) {
	log := s.logger.With(
		zap.Int64("shift_id", req.ShiftID),
		zap.Int64("client_id", req.ClientID),
		zap.String("filename", req.Filename),
	)

	var report *domain.Report
	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while processing report", zap.Any("panic", r), zap.Stack("stack"))
			result = s.failSafely(ctx, log, report, req, domain.Unexpected(fmt.Errorf("panic: %v", r)))
		}
	}()

	shift, err := s.shifts.GetShift(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, domain.ErrShiftNotFound) {
			log.Warn("Report submitted for unknown shift")
			return domain.SubmissionResult{Category: domain.CategoryError, Message: MessageShiftNotFound, Cause: err}
		}
		return s.fail(ctx, log, nil, req, domain.Unexpected(fmt.Errorf("failed to load shift: %w", err)))
	}

	now := s.now()
	created := &domain.Report{
		ID:         s.newID(),
		ShiftID:    req.ShiftID,
		ClientID:   req.ClientID,
		UploadedBy: req.SubmittedBy,
		Filename:   domain.SecureFilename(req.Filename),
		Status:     domain.ReportStatusProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	id, err := s.reports.Create(ctx, created)
	if err != nil {
		return s.fail(ctx, log, nil, req, domain.Unexpected(fmt.Errorf("failed to create report: %w", err)))
	}
	created.ID = id
	report = created
	log = log.With(zap.String("report_id", id))

	fin, err := s.process(ctx, log, shift, report, req)
	if err != nil {
		return s.fail(ctx, log, report, req, err)
	}
	return s.complete(ctx, log, report, req, fin)
}

// process runs file storage, parsing, the device check and matching.
func (s *SubmissionService) process(ctx context.Context, log *zap.Logger, shift *domain.Shift, report *domain.Report, req domain.SubmitRequest) (domain.Finalization, error) {
	if !strings.EqualFold(filepath.Ext(req.Filename), ".csv") {
		return domain.Finalization{}, domain.InvalidFileFormat(req.Filename)
	}

	path, err := s.files.Save(ctx, req.Data, req.ClientID, report.ID, req.Filename)
	if err != nil {
		return domain.Finalization{}, domain.UploadFailure(err)
	}
	report.FilePath = path
	log.Debug("Report file stored", zap.String("path", path), zap.Int("bytes", len(req.Data)))

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	track, err := s.parser.Parse(ctx, req.Data)
	if err != nil {
		return domain.Finalization{}, err
	}
	report.DeviceIdentifier = track.DeviceIdentifier

	if !sameDevice(track.DeviceIdentifier, shift.DeviceIdentifier) {
		return domain.Finalization{}, domain.DeviceMismatch(track.DeviceIdentifier, shift.DeviceIdentifier)
	}

	planned, err := s.routes.PlannedCheckpoints(ctx, shift.RouteID)
	if err != nil {
		return domain.Finalization{}, fmt.Errorf("failed to load planned checkpoints: %w", err)
	}

	match, err := s.matcher.Match(ctx, planned, track.Records)
	if err != nil {
		return domain.Finalization{}, err
	}

	fin := domain.Finalization{
		Status:           domain.ReportStatusCompleted,
		DeviceIdentifier: track.DeviceIdentifier,
		FilePath:         path,
		Locations:        track.Records,
		Outcomes:         match.Outcomes(),
	}
	if len(match.Missed) > 0 {
		fin.Status = domain.ReportStatusCompletedWithMissed
		fin.Detail = match.MissedSummary()
	}

	log.Info("Report verified",
		zap.Int("locations", len(track.Records)),
		zap.Int("verified", len(match.Verified)),
		zap.Int("missed", len(match.Missed)),
	)
	return fin, nil
}

// complete commits a successful verification.
func (s *SubmissionService) complete(ctx context.Context, log *zap.Logger, report *domain.Report, req domain.SubmitRequest, fin domain.Finalization) domain.SubmissionResult {
	if err := s.reports.Finalize(context.WithoutCancel(ctx), report.ID, fin); err != nil {
		return s.fail(ctx, log, report, req, domain.Unexpected(fmt.Errorf("failed to finalize report: %w", err)))
	}
	s.applyFinalization(report, fin)
	s.notify(ctx, log, *report)

	result := domain.SubmissionResult{
		Success:  true,
		Category: fin.Status.Category(),
		Status:   fin.Status,
		Message:  MessageCompleted,
		ReportID: report.ID,
	}
	if fin.Status == domain.ReportStatusCompletedWithMissed {
		result.Message = fmt.Sprintf("Report processed. %d checkpoint(s) were missed.", countMissed(fin.Outcomes))
	}
	return result
}

// fail folds err into a terminal status. When report is nil a minimal row is
// created directly in the terminal status.
func (s *SubmissionService) fail(ctx context.Context, log *zap.Logger, report *domain.Report, req domain.SubmitRequest, err error) domain.SubmissionResult {
	ctx = context.WithoutCancel(ctx)
	kind := domain.KindOf(err)
	status := kind.Status()
	detail := failureDetail(kind, err)

	switch kind {
	case domain.KindInvalidFileFormat, domain.KindSchemaViolation, domain.KindDeviceMismatch:
		log.Warn("Report rejected", zap.String("kind", kind.String()), zap.Error(err))
	default:
		log.Error("Report processing failed", zap.String("kind", kind.String()), zap.Error(err))
	}

	result := domain.SubmissionResult{
		Category: domain.CategoryError,
		Status:   status,
		Message:  failureMessage(kind, err),
		Cause:    err,
	}

	if report != nil {
		result.ReportID = report.ID
		fin := domain.Finalization{
			Status:           status,
			Detail:           detail,
			DeviceIdentifier: report.DeviceIdentifier,
			FilePath:         report.FilePath,
		}
		if ferr := s.reports.Finalize(ctx, report.ID, fin); ferr != nil {
			log.Error("Failed to record report failure", zap.Error(ferr))
			return result
		}
		s.applyFinalization(report, fin)
		s.notify(ctx, log, *report)
		return result
	}

	now := s.now()
	row := &domain.Report{
		ID:          s.newID(),
		ShiftID:     req.ShiftID,
		ClientID:    req.ClientID,
		UploadedBy:  req.SubmittedBy,
		Filename:    domain.SecureFilename(req.Filename),
		Status:      status,
		ErrorDetail: detail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, cerr := s.reports.Create(ctx, row)
	if cerr != nil {
		log.Error("Failed to record report failure", zap.Error(cerr))
		return result
	}
	row.ID = id
	result.ReportID = id
	s.notify(ctx, log, *row)
	return result
}

// failSafely is fail for the recovery path. A panic while recording the
// failure is logged and the caller still gets an error_processing result.
func (s *SubmissionService) failSafely(ctx context.Context, log *zap.Logger, report *domain.Report, req domain.SubmitRequest, err error) (result domain.SubmissionResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while recording report failure", zap.Any("panic", r))
			result = domain.SubmissionResult{
				Category: domain.CategoryError,
				Status:   domain.ReportStatusErrorProcessing,
				Message:  MessageUnexpected,
				Cause:    err,
			}
			if report != nil {
				result.ReportID = report.ID
			}
		}
	}()
	return s.fail(ctx, log, report, req, err)
}

func (s *SubmissionService) applyFinalization(report *domain.Report, fin domain.Finalization) {
	report.Status = fin.Status
	report.ErrorDetail = fin.Detail
	report.DeviceIdentifier = fin.DeviceIdentifier
	report.FilePath = fin.FilePath
	report.UpdatedAt = s.now()
}

// notify runs after the report row is terminal, so its failures and panics
// are logged and never change the submission result.
func (s *SubmissionService) notify(ctx context.Context, log *zap.Logger, report domain.Report) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while notifying finalized report", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	if err := s.notifier.ReportFinalized(context.WithoutCancel(ctx), report); err != nil {
		log.Warn("Failed to notify finalized report", zap.Error(err))
	}
}

// ReportDetails implements ports.ReportSubmitter.
func (s *SubmissionService) ReportDetails(ctx context.Context, reportID string) (*domain.ReportDetails, error) {
	report, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get report: %w", err)
	}

	outcomes, err := s.reports.Outcomes(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get report outcomes: %w", err)
	}

	return &domain.ReportDetails{Report: *report, Outcomes: outcomes}, nil
}

func sameDevice(claimed, expected string) bool {
	claimed = strings.TrimSpace(claimed)
	return claimed != "" && strings.EqualFold(claimed, strings.TrimSpace(expected))
}

func countMissed(outcomes []domain.VisitOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Kind == domain.OutcomeMissed {
			n++
		}
	}
	return n
}

func failureDetail(kind domain.ErrorKind, err error) string {
	switch kind {
	case domain.KindUnexpectedFailure:
		return detailUnexpected
	case domain.KindVerificationFailure:
		return "Verification Error: " + err.Error()
	default:
		return err.Error()
	}
}

func failureMessage(kind domain.ErrorKind, err error) string {
	switch kind {
	case domain.KindUploadFailure:
		return "Upload Failed: " + err.Error()
	case domain.KindInvalidFileFormat, domain.KindSchemaViolation, domain.KindDeviceMismatch:
		return "Invalid Report Data: " + err.Error()
	case domain.KindVerificationFailure:
		return "Verification Error: " + err.Error()
	case domain.KindUnexpectedFailure:
		return MessageUnexpected
	}
	return MessageUnexpected
}
