package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ReportStatus is the processing state of an uploaded patrol report.
type ReportStatus string

const (
	// ReportStatusProcessing is the initial state, written before any other step runs.
	ReportStatusProcessing ReportStatus = "processing"
	// ReportStatusCompleted indicates every planned checkpoint was verified.
	ReportStatusCompleted ReportStatus = "completed"
	// ReportStatusCompletedWithMissed indicates verification ran but some checkpoints were missed.
	ReportStatusCompletedWithMissed ReportStatus = "completed_with_missed_checkpoints"
	// ReportStatusErrorUpload indicates the artifact could not be stored.
	ReportStatusErrorUpload ReportStatus = "error_upload"
	// ReportStatusErrorValidation indicates the file was rejected by the schema validator.
	ReportStatusErrorValidation ReportStatus = "error_validation"
	// ReportStatusErrorDeviceMismatch indicates the track came from a device other than the shift's.
	ReportStatusErrorDeviceMismatch ReportStatus = "error_device_mismatch"
	// ReportStatusErrorVerification indicates matching could not run.
	ReportStatusErrorVerification ReportStatus = "error_verification"
	// ReportStatusErrorProcessing covers every unanticipated failure.
	ReportStatusErrorProcessing ReportStatus = "error_processing"
)

// IsTerminal reports whether the status can no longer change.
func (s ReportStatus) IsTerminal() bool {
	return s != ReportStatusProcessing && s != ""
}

// Category classifies the status for the caller.
func (s ReportStatus) Category() Category {
	switch s {
	case ReportStatusCompleted:
		return CategorySuccess
	case ReportStatusCompletedWithMissed:
		return CategoryWarning
	default:
		return CategoryError
	}
}

// Category is the tri-state outcome shown to whoever submitted a report.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryError   Category = "error"
)

// Report is the persisted audit record of one upload attempt.
type Report struct {
	ID         string `json:"id"`
	ShiftID    int64  `json:"shift_id"`
	ClientID   int64  `json:"client_id"`
	UploadedBy int64  `json:"uploaded_by"`
	// Filename is the name the file was uploaded with.
	Filename string `json:"filename"`
	// FilePath is the storage handle returned by the file store, empty until stored.
	FilePath string `json:"file_path,omitempty"`
	// DeviceIdentifier is the device the track claims, empty until parsed.
	DeviceIdentifier string       `json:"device_identifier,omitempty"`
	Status           ReportStatus `json:"processing_status"`
	ErrorDetail      string       `json:"error_message,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// VerifiedVisit binds one location record to the checkpoint it satisfied.
type VerifiedVisit struct {
	Checkpoint PlannedCheckpoint `json:"checkpoint"`
	Location   LocationRecord    `json:"location"`
}

// OutcomeKind tells whether a planned checkpoint was verified or missed.
type OutcomeKind string

const (
	OutcomeVerified OutcomeKind = "verified"
	OutcomeMissed   OutcomeKind = "missed"
)

// VisitOutcome is the verdict for a single planned checkpoint.
type VisitOutcome struct {
	Checkpoint PlannedCheckpoint `json:"checkpoint"`
	Kind       OutcomeKind       `json:"outcome"`
	// Location is the matched record; nil when Kind is OutcomeMissed.
	Location *LocationRecord `json:"location,omitempty"`
}

// MatchResult is the output of matching a track against a route.
type MatchResult struct {
	Verified []VerifiedVisit
	Missed   []PlannedCheckpoint
}

// Outcomes returns exactly one outcome per planned checkpoint, ordered by sequence.
func (r *MatchResult) Outcomes() []VisitOutcome {
	out := make([]VisitOutcome, 0, len(r.Verified)+len(r.Missed))
	for _, v := range r.Verified {
		loc := v.Location
		out = append(out, VisitOutcome{Checkpoint: v.Checkpoint, Kind: OutcomeVerified, Location: &loc})
	}
	for _, cp := range r.Missed {
		out = append(out, VisitOutcome{Checkpoint: cp, Kind: OutcomeMissed})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Checkpoint.SequenceOrder < out[j].Checkpoint.SequenceOrder
	})
	return out
}

// MissedSummary describes the missed checkpoints, or returns "" when none were missed.
func (r *MatchResult) MissedSummary() string {
	if len(r.Missed) == 0 {
		return ""
	}
	names := make([]string, 0, len(r.Missed))
	for _, cp := range r.Missed {
		names = append(names, cp.Name)
	}
	return fmt.Sprintf("Missed %d checkpoints: %s", len(r.Missed), strings.Join(names, ", "))
}

// Finalization is everything committed together with a terminal status.
type Finalization struct {
	Status           ReportStatus
	Detail           string
	DeviceIdentifier string
	FilePath         string
	// Locations and Outcomes are only set when verification ran.
	Locations []LocationRecord
	Outcomes  []VisitOutcome
}

// OutcomeRecord is a persisted visit outcome as read back for the report view.
type OutcomeRecord struct {
	RouteCheckpointID int64       `json:"route_checkpoint_id"`
	CheckpointName    string      `json:"checkpoint_name"`
	SequenceOrder     int         `json:"sequence_order"`
	Outcome           OutcomeKind `json:"outcome"`
	VisitTimestamp    *time.Time  `json:"visit_timestamp,omitempty"`
	VisitLatitude     *float64    `json:"visit_latitude,omitempty"`
	VisitLongitude    *float64    `json:"visit_longitude,omitempty"`
}

// ReportDetails is a report together with its per-checkpoint outcomes.
type ReportDetails struct {
	Report   Report          `json:"report"`
	Outcomes []OutcomeRecord `json:"outcomes"`
}

// SubmitRequest carries one uploaded track.
type SubmitRequest struct {
	ShiftID     int64
	ClientID    int64
	SubmittedBy int64
	Filename    string
	Data        []byte
}

// SubmissionResult is what the caller of a submission always receives.
type SubmissionResult struct {
	Success  bool         `json:"success"`
	Category Category     `json:"category"`
	Message  string       `json:"message"`
	Status   ReportStatus `json:"status,omitempty"`
	// ReportID is set whenever a report row could be written.
	ReportID string `json:"report_id,omitempty"`
	// Cause is the failure behind an unsuccessful result.
	Cause error `json:"-"`
}
