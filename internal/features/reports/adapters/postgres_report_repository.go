package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"patrol-verifier/internal/features/reports/domain"

	"github.com/jmoiron/sqlx"
)

// insertBatchSize keeps batched inserts well below the PostgreSQL bind parameter limit.
const insertBatchSize = 500

// PostgresReportRepository implements ports.ReportRepository on PostgreSQL.
type PostgresReportRepository struct {
	db *sqlx.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository.
func NewPostgresReportRepository(db *sqlx.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

type reportRow struct {
	ID               string         `db:"id"`
	ShiftID          int64          `db:"shift_id"`
	ClientID         int64          `db:"client_id"`
	UploadedBy       int64          `db:"uploaded_by"`
	Filename         string         `db:"filename"`
	FilePath         sql.NullString `db:"file_path"`
	DeviceIdentifier sql.NullString `db:"device_identifier"`
	Status           string         `db:"processing_status"`
	ErrorMessage     sql.NullString `db:"error_message"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type locationRow struct {
	ReportID         string         `db:"report_id"`
	SourceRow        int            `db:"source_row"`
	DeviceIdentifier string         `db:"device_identifier"`
	RecordedAt       time.Time      `db:"recorded_at"`
	Latitude         float64        `db:"latitude"`
	Longitude        float64        `db:"longitude"`
	EventType        sql.NullString `db:"event_type"`
	EventDetails     sql.NullString `db:"event_details"`
}

type outcomeRow struct {
	ReportID          string          `db:"report_id"`
	RouteCheckpointID int64           `db:"route_checkpoint_id"`
	CheckpointName    string          `db:"checkpoint_name"`
	SequenceOrder     int             `db:"sequence_order"`
	Outcome           string          `db:"outcome"`
	VisitTimestamp    sql.NullTime    `db:"visit_timestamp"`
	VisitLatitude     sql.NullFloat64 `db:"visit_latitude"`
	VisitLongitude    sql.NullFloat64 `db:"visit_longitude"`
}

const (
	insertReportQuery = `
		INSERT INTO patrol_reports (id, shift_id, client_id, uploaded_by, filename, file_path,
			device_identifier, processing_status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	lockReportQuery = `SELECT processing_status FROM patrol_reports WHERE id = $1 FOR UPDATE`

	finalizeReportQuery = `
		UPDATE patrol_reports
		SET processing_status = $2, error_message = $3, device_identifier = $4, file_path = $5, updated_at = NOW()
		WHERE id = $1`

	insertLocationsQuery = `
		INSERT INTO reported_locations (report_id, source_row, device_identifier, recorded_at,
			latitude, longitude, event_type, event_details)
		VALUES (:report_id, :source_row, :device_identifier, :recorded_at,
			:latitude, :longitude, :event_type, :event_details)`

	insertOutcomesQuery = `
		INSERT INTO visit_outcomes (report_id, route_checkpoint_id, checkpoint_name, sequence_order,
			outcome, visit_timestamp, visit_latitude, visit_longitude)
		VALUES (:report_id, :route_checkpoint_id, :checkpoint_name, :sequence_order,
			:outcome, :visit_timestamp, :visit_latitude, :visit_longitude)`

	selectReportQuery = `
		SELECT id, shift_id, client_id, uploaded_by, filename, file_path, device_identifier,
			processing_status, error_message, created_at, updated_at
		FROM patrol_reports WHERE id = $1`

	selectOutcomesQuery = `
		SELECT report_id, route_checkpoint_id, checkpoint_name, sequence_order, outcome,
			visit_timestamp, visit_latitude, visit_longitude
		FROM visit_outcomes WHERE report_id = $1
		ORDER BY sequence_order`
)

// Create inserts the report row.
func (r *PostgresReportRepository) Create(ctx context.Context, report *domain.Report) (string, error) {
	var id string
	err := r.db.QueryRowxContext(ctx, insertReportQuery,
		report.ID,
		report.ShiftID,
		report.ClientID,
		report.UploadedBy,
		report.Filename,
		nullString(report.FilePath),
		nullString(report.DeviceIdentifier),
		string(report.Status),
		nullString(report.ErrorDetail),
		report.CreatedAt,
		report.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert report: %w", err)
	}
	return id, nil
}

// Finalize writes the terminal status, locations and outcomes in one transaction.
func (r *PostgresReportRepository) Finalize(ctx context.Context, reportID string, f domain.Finalization) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	if err := tx.GetContext(ctx, &current, lockReportQuery, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrReportNotFound
		}
		return fmt.Errorf("failed to lock report: %w", err)
	}
	if domain.ReportStatus(current).IsTerminal() {
		return fmt.Errorf("%w: %s is %s", domain.ErrReportFinalized, reportID, current)
	}

	if _, err := tx.ExecContext(ctx, finalizeReportQuery,
		reportID,
		string(f.Status),
		nullString(f.Detail),
		nullString(f.DeviceIdentifier),
		nullString(f.FilePath),
	); err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}

	if err := insertBatches(ctx, tx, insertLocationsQuery, toLocationRows(reportID, f.Locations)); err != nil {
		return fmt.Errorf("failed to insert reported locations: %w", err)
	}
	if err := insertBatches(ctx, tx, insertOutcomesQuery, toOutcomeRows(reportID, f.Outcomes)); err != nil {
		return fmt.Errorf("failed to insert visit outcomes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

// Get returns the report with the given id.
func (r *PostgresReportRepository) Get(ctx context.Context, reportID string) (*domain.Report, error) {
	var row reportRow
	if err := r.db.GetContext(ctx, &row, selectReportQuery, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &domain.Report{
		ID:               row.ID,
		ShiftID:          row.ShiftID,
		ClientID:         row.ClientID,
		UploadedBy:       row.UploadedBy,
		Filename:         row.Filename,
		FilePath:         row.FilePath.String,
		DeviceIdentifier: row.DeviceIdentifier.String,
		Status:           domain.ReportStatus(row.Status),
		ErrorDetail:      row.ErrorMessage.String,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

// Outcomes returns the stored outcomes of a report ordered by sequence.
func (r *PostgresReportRepository) Outcomes(ctx context.Context, reportID string) ([]domain.OutcomeRecord, error) {
	var rows []outcomeRow
	if err := r.db.SelectContext(ctx, &rows, selectOutcomesQuery, reportID); err != nil {
		return nil, fmt.Errorf("failed to get visit outcomes: %w", err)
	}

	outcomes := make([]domain.OutcomeRecord, 0, len(rows))
	for _, row := range rows {
		rec := domain.OutcomeRecord{
			RouteCheckpointID: row.RouteCheckpointID,
			CheckpointName:    row.CheckpointName,
			SequenceOrder:     row.SequenceOrder,
			Outcome:           domain.OutcomeKind(row.Outcome),
		}
		if row.VisitTimestamp.Valid {
			ts := row.VisitTimestamp.Time
			rec.VisitTimestamp = &ts
		}
		if row.VisitLatitude.Valid && row.VisitLongitude.Valid {
			lat, lon := row.VisitLatitude.Float64, row.VisitLongitude.Float64
			rec.VisitLatitude = &lat
			rec.VisitLongitude = &lon
		}
		outcomes = append(outcomes, rec)
	}
	return outcomes, nil
}

func insertBatches[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func toLocationRows(reportID string, locations []domain.LocationRecord) []locationRow {
	rows := make([]locationRow, 0, len(locations))
	for _, loc := range locations {
		rows = append(rows, locationRow{
			ReportID:         reportID,
			SourceRow:        loc.Row,
			DeviceIdentifier: loc.DeviceIdentifier,
			RecordedAt:       loc.Timestamp,
			Latitude:         loc.Latitude,
			Longitude:        loc.Longitude,
			EventType:        nullString(loc.EventType),
			EventDetails:     nullString(loc.EventDetails),
		})
	}
	return rows
}

func toOutcomeRows(reportID string, outcomes []domain.VisitOutcome) []outcomeRow {
	rows := make([]outcomeRow, 0, len(outcomes))
	for _, o := range outcomes {
		row := outcomeRow{
			ReportID:          reportID,
			RouteCheckpointID: o.Checkpoint.RouteCheckpointID,
			CheckpointName:    o.Checkpoint.Name,
			SequenceOrder:     o.Checkpoint.SequenceOrder,
			Outcome:           string(o.Kind),
		}
		if o.Location != nil {
			row.VisitTimestamp = sql.NullTime{Time: o.Location.Timestamp, Valid: true}
			row.VisitLatitude = sql.NullFloat64{Float64: o.Location.Latitude, Valid: true}
			row.VisitLongitude = sql.NullFloat64{Float64: o.Location.Longitude, Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
