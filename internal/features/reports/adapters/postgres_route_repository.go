package adapters

import (
	"context"
	"database/sql"
	"fmt"

	"patrol-verifier/internal/features/reports/domain"

	"github.com/jmoiron/sqlx"
)

const selectPlannedCheckpointsQuery = `
	SELECT rc.id AS route_checkpoint_id,
		c.id AS checkpoint_id,
		c.name,
		rc.sequence_order,
		c.latitude,
		c.longitude,
		c.radius_meters,
		to_char(rc.expected_window_start, 'HH24:MI:SS') AS window_start,
		to_char(rc.expected_window_end, 'HH24:MI:SS') AS window_end
	FROM route_checkpoints rc
	JOIN checkpoints c ON c.id = rc.checkpoint_id
	WHERE rc.route_id = $1
	ORDER BY rc.sequence_order`

type plannedCheckpointRow struct {
	RouteCheckpointID int64          `db:"route_checkpoint_id"`
	CheckpointID      int64          `db:"checkpoint_id"`
	Name              string         `db:"name"`
	SequenceOrder     int            `db:"sequence_order"`
	Latitude          float64        `db:"latitude"`
	Longitude         float64        `db:"longitude"`
	RadiusMeters      float64        `db:"radius_meters"`
	WindowStart       sql.NullString `db:"window_start"`
	WindowEnd         sql.NullString `db:"window_end"`
}

// PostgresRouteRepository implements ports.RouteRepository on PostgreSQL.
type PostgresRouteRepository struct {
	db *sqlx.DB
}

// NewPostgresRouteRepository creates a new PostgresRouteRepository.
func NewPostgresRouteRepository(db *sqlx.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{db: db}
}

// PlannedCheckpoints returns the route's checkpoints ordered by sequence.
// A window is only attached when both of its ends are configured.
func (r *PostgresRouteRepository) PlannedCheckpoints(ctx context.Context, routeID int64) ([]domain.PlannedCheckpoint, error) {
	var rows []plannedCheckpointRow
	if err := r.db.SelectContext(ctx, &rows, selectPlannedCheckpointsQuery, routeID); err != nil {
		return nil, fmt.Errorf("failed to get planned checkpoints for route %d: %w", routeID, err)
	}

	planned := make([]domain.PlannedCheckpoint, 0, len(rows))
	for _, row := range rows {
		cp := domain.PlannedCheckpoint{
			RouteCheckpointID: row.RouteCheckpointID,
			CheckpointID:      row.CheckpointID,
			Name:              row.Name,
			SequenceOrder:     row.SequenceOrder,
			Latitude:          row.Latitude,
			Longitude:         row.Longitude,
			RadiusMeters:      row.RadiusMeters,
		}
		if row.WindowStart.Valid && row.WindowEnd.Valid {
			start, err := domain.ParseTimeOfDay(row.WindowStart.String)
			if err != nil {
				return nil, fmt.Errorf("invalid window start for route checkpoint %d: %w", row.RouteCheckpointID, err)
			}
			end, err := domain.ParseTimeOfDay(row.WindowEnd.String)
			if err != nil {
				return nil, fmt.Errorf("invalid window end for route checkpoint %d: %w", row.RouteCheckpointID, err)
			}
			cp.Window = &domain.TimeWindow{Start: start, End: end}
		}
		planned = append(planned, cp)
	}
	return planned, nil
}
