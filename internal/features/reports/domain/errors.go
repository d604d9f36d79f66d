package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the closed set of failure categories a submission can end with.
type ErrorKind int

const (
	KindUnexpectedFailure ErrorKind = iota
	KindUploadFailure
	KindInvalidFileFormat
	KindSchemaViolation
	KindDeviceMismatch
	KindVerificationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindUploadFailure:
		return "upload_failure"
	case KindInvalidFileFormat:
		return "invalid_file_format"
	case KindSchemaViolation:
		return "schema_violation"
	case KindDeviceMismatch:
		return "device_mismatch"
	case KindVerificationFailure:
		return "verification_failure"
	case KindUnexpectedFailure:
		return "unexpected_failure"
	}
	return fmt.Sprintf("error_kind(%d)", int(k))
}

// Status returns the terminal report status a failure of this kind ends in.
func (k ErrorKind) Status() ReportStatus {
	switch k {
	case KindUploadFailure:
		return ReportStatusErrorUpload
	case KindInvalidFileFormat, KindSchemaViolation:
		return ReportStatusErrorValidation
	case KindDeviceMismatch:
		return ReportStatusErrorDeviceMismatch
	case KindVerificationFailure:
		return ReportStatusErrorVerification
	case KindUnexpectedFailure:
		return ReportStatusErrorProcessing
	}
	return ReportStatusErrorProcessing
}

var (
	// ErrMissingColumns is the reason when required CSV headers are absent.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrInvalidRow is the reason when a data row fails validation.
	ErrInvalidRow = errors.New("invalid row")
	// ErrEmptyDocument is the reason when the file holds no data rows.
	ErrEmptyDocument = errors.New("empty document")
	// ErrInvalidEncoding is the reason when the file is not UTF-8.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrMalformedDocument is the reason when the file is not parseable CSV.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrInvalidFileType is the reason when the upload is not a CSV file.
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrDeviceMismatch is the reason when the track's device is not the shift's device.
	ErrDeviceMismatch = errors.New("device identifier mismatch")
	// ErrNoCheckpointsConfigured is the reason when the route has no planned checkpoints.
	ErrNoCheckpointsConfigured = errors.New("no checkpoints configured")
	// ErrNoLocationData is the reason when there is nothing to match.
	ErrNoLocationData = errors.New("no location data")

	// ErrShiftNotFound is returned by shift lookups for unknown ids.
	ErrShiftNotFound = errors.New("shift not found")
	// ErrReportNotFound is returned by report lookups for unknown ids.
	ErrReportNotFound = errors.New("report not found")
	// ErrReportFinalized is returned when a terminal report is asked to change status.
	ErrReportFinalized = errors.New("report already finalized")
)

// Error is a classified submission failure.
type Error struct {
	Kind ErrorKind
	// Reason is one of the sentinel errors above, if any.
	Reason error
	// Message is the human readable description.
	Message string
	// Column and Row address the offending cell for row-level failures.
	Column string
	Row    int
	// Missing lists absent columns for ErrMissingColumns.
	Missing []string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the reason and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Reason != nil {
		errs = append(errs, e.Reason)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf classifies err. Anything that is not an *Error is unexpected.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpectedFailure
}

// MissingColumns reports absent required headers.
func MissingColumns(names []string) *Error {
	return &Error{
		Kind:    KindSchemaViolation,
		Reason:  ErrMissingColumns,
		Message: "Missing required CSV headers. Missing: " + strings.Join(names, ", "),
		Missing: names,
	}
}

// InvalidRow reports a row whose column does not hold the expected value.
func InvalidRow(column string, row int, expected string) *Error {
	return &Error{
		Kind:    KindSchemaViolation,
		Reason:  ErrInvalidRow,
		Message: fmt.Sprintf("Incorrect data type in CSV. Column '%s' (expected %s) at row %d", column, expected, row),
		Column:  column,
		Row:     row,
	}
}

// EmptyDocument reports a file without data rows.
func EmptyDocument(message string) *Error {
	return &Error{Kind: KindSchemaViolation, Reason: ErrEmptyDocument, Message: message}
}

// InvalidEncoding reports a file that is not valid UTF-8.
func InvalidEncoding() *Error {
	return &Error{
		Kind:    KindSchemaViolation,
		Reason:  ErrInvalidEncoding,
		Message: "Invalid file encoding. Please ensure the file is UTF-8 encoded.",
	}
}

// MalformedDocument reports a CSV syntax error.
func MalformedDocument(row int, err error) *Error {
	return &Error{
		Kind:    KindSchemaViolation,
		Reason:  ErrMalformedDocument,
		Message: fmt.Sprintf("Malformed CSV at row %d", row),
		Row:     row,
		Err:     err,
	}
}

// InvalidFileFormat reports an upload that is not a CSV file.
func InvalidFileFormat(filename string) *Error {
	return &Error{
		Kind:    KindInvalidFileFormat,
		Reason:  ErrInvalidFileType,
		Message: fmt.Sprintf("Invalid file type %q. Only CSV files are allowed.", filename),
	}
}

// UploadFailure wraps a file store failure.
func UploadFailure(err error) *Error {
	return &Error{Kind: KindUploadFailure, Message: "Failed to save uploaded file", Err: err}
}

// DeviceMismatch reports a track recorded by a device other than the expected one.
func DeviceMismatch(claimed, expected string) *Error {
	if claimed == "" {
		claimed = "Not Found"
	}
	return &Error{
		Kind:   KindDeviceMismatch,
		Reason: ErrDeviceMismatch,
		Message: fmt.Sprintf("Device ID in report ('%s') does not match expected device IMEI ('%s') for the selected shift.",
			claimed, expected),
	}
}

// VerificationFailure reports that matching could not run.
func VerificationFailure(reason error, message string) *Error {
	return &Error{Kind: KindVerificationFailure, Reason: reason, Message: message}
}

// Unexpected wraps any failure the pipeline does not anticipate.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpectedFailure, Err: err}
}
