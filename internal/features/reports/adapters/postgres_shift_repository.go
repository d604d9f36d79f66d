package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"patrol-verifier/internal/features/reports/domain"

	"github.com/jmoiron/sqlx"
)

const selectShiftQuery = `
	SELECT s.id, s.route_id, s.client_id, d.imei AS device_identifier
	FROM shifts s
	JOIN devices d ON d.id = s.device_id
	WHERE s.id = $1`

type shiftRow struct {
	ID               int64  `db:"id"`
	RouteID          int64  `db:"route_id"`
	ClientID         int64  `db:"client_id"`
	DeviceIdentifier string `db:"device_identifier"`
}

// PostgresShiftRepository implements ports.ShiftRepository on PostgreSQL.
type PostgresShiftRepository struct {
	db *sqlx.DB
}

// NewPostgresShiftRepository creates a new PostgresShiftRepository.
func NewPostgresShiftRepository(db *sqlx.DB) *PostgresShiftRepository {
	return &PostgresShiftRepository{db: db}
}

// GetShift returns the shift together with the IMEI of its assigned device.
func (r *PostgresShiftRepository) GetShift(ctx context.Context, shiftID int64) (*domain.Shift, error) {
	var row shiftRow
	if err := r.db.GetContext(ctx, &row, selectShiftQuery, shiftID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift %d: %w", shiftID, err)
	}

	return &domain.Shift{
		ID:               row.ID,
		RouteID:          row.RouteID,
		DeviceIdentifier: row.DeviceIdentifier,
		ClientID:         row.ClientID,
	}, nil
}
