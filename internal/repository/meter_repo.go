package repository

import (
	"context"
	"database/sql"
	"time"

	"fleetenergy/internal/models"
)

// MeterRepository persists meter telemetry: an append-only history table plus a
// one-row-per-meter current status table.
type MeterRepository struct {
	db *sql.DB
}

// NewMeterRepository returns repository.
func NewMeterRepository(db *sql.DB) *MeterRepository {
	return &MeterRepository{db: db}
}

// InsertHistory appends one immutable reading. Rows are never updated or deleted.
func (r *MeterRepository) InsertHistory(ctx context.Context, t *models.MeterTelemetry) error {
	const query = `
		INSERT INTO meter_telemetry_history (meter_id, kwh_consumed_ac, voltage, timestamp, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		t.MeterID,
		t.KwhConsumedAc,
		t.Voltage,
		t.Timestamp,
	).Scan(&t.ID, &t.CreatedAt)
}

// ReplaceStatus upserts the meter's current status with the incoming values
// verbatim. There is no ordering check against the stored last_timestamp: the
// most recently ingested reading wins even when it is chronologically older.
// This write is independent of InsertHistory; the pair is not atomic.
func (r *MeterRepository) ReplaceStatus(ctx context.Context, s *models.MeterStatus) error {
	const query = `
		INSERT INTO meter_current_status (meter_id, kwh_consumed_ac, voltage, last_timestamp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (meter_id) DO UPDATE SET
			kwh_consumed_ac = EXCLUDED.kwh_consumed_ac,
			voltage = EXCLUDED.voltage,
			last_timestamp = EXCLUDED.last_timestamp,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		s.MeterID,
		s.KwhConsumedAc,
		s.Voltage,
		s.LastTimestamp,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// ListBetween returns every meter reading in [from, to] across all meters,
// ascending by timestamp. Served by the timestamp index.
func (r *MeterRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.MeterTelemetry, error) {
	const query = `
		SELECT id, meter_id, kwh_consumed_ac, voltage, timestamp, created_at
		FROM meter_telemetry_history
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp ASC
	`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []models.MeterTelemetry
	for rows.Next() {
		var t models.MeterTelemetry
		if err := rows.Scan(
			&t.ID,
			&t.MeterID,
			&t.KwhConsumedAc,
			&t.Voltage,
			&t.Timestamp,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		readings = append(readings, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}
