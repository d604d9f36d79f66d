package database

import (
	"context"
	"fmt"
	"time"

	"patrol-verifier/internal/core/config"
	"patrol-verifier/internal/core/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Connect opens the PostgreSQL pool described by cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Get().Info("Database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)
	return db, nil
}

// Migrate creates the schema if it does not exist. All statements run in one transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	logger.Get().Info("Database schema up to date", zap.Int("statements", len(migrations)))
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS devices (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT NOT NULL,
		imei TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS checkpoints (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
		longitude DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
		radius_meters DOUBLE PRECISION NOT NULL CHECK (radius_meters > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS routes (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT NOT NULL,
		name TEXT NOT NULL
	)`,

	// Checkpoints may be shared by several routes; the binding carries the order and window.
	`CREATE TABLE IF NOT EXISTS route_checkpoints (
		id BIGSERIAL PRIMARY KEY,
		route_id BIGINT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
		checkpoint_id BIGINT NOT NULL REFERENCES checkpoints(id),
		sequence_order INT NOT NULL CHECK (sequence_order > 0),
		expected_window_start TIME,
		expected_window_end TIME,
		UNIQUE (route_id, sequence_order)
	)`,

	`CREATE TABLE IF NOT EXISTS shifts (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT NOT NULL,
		route_id BIGINT NOT NULL REFERENCES routes(id),
		device_id BIGINT NOT NULL REFERENCES devices(id),
		scheduled_start TIMESTAMPTZ,
		scheduled_end TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS patrol_reports (
		id UUID PRIMARY KEY,
		shift_id BIGINT NOT NULL REFERENCES shifts(id),
		client_id BIGINT NOT NULL,
		uploaded_by BIGINT NOT NULL,
		filename TEXT NOT NULL,
		file_path TEXT,
		device_identifier TEXT,
		processing_status TEXT NOT NULL CHECK (processing_status IN (
			'processing', 'completed', 'completed_with_missed_checkpoints',
			'error_upload', 'error_validation', 'error_device_mismatch',
			'error_verification', 'error_processing'
		)),
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_patrol_reports_shift ON patrol_reports(shift_id)`,

	`CREATE TABLE IF NOT EXISTS reported_locations (
		id BIGSERIAL PRIMARY KEY,
		report_id UUID NOT NULL REFERENCES patrol_reports(id) ON DELETE CASCADE,
		source_row INT NOT NULL,
		device_identifier TEXT NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		event_type TEXT,
		event_details TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reported_locations_report ON reported_locations(report_id)`,

	`CREATE TABLE IF NOT EXISTS visit_outcomes (
		id BIGSERIAL PRIMARY KEY,
		report_id UUID NOT NULL REFERENCES patrol_reports(id) ON DELETE CASCADE,
		route_checkpoint_id BIGINT NOT NULL,
		checkpoint_name TEXT NOT NULL,
		sequence_order INT NOT NULL,
		outcome TEXT NOT NULL CHECK (outcome IN ('verified', 'missed')),
		visit_timestamp TIMESTAMP,
		visit_latitude DOUBLE PRECISION,
		visit_longitude DOUBLE PRECISION,
		UNIQUE (report_id, route_checkpoint_id)
	)`,
}
