package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetenergy/internal/models"
)

// VehicleRepository persists vehicle telemetry with the same dual-table contract
// as MeterRepository.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// InsertHistory appends one immutable reading.
func (r *VehicleRepository) InsertHistory(ctx context.Context, t *models.VehicleTelemetry) error {
	const query = `
		INSERT INTO vehicle_telemetry_history (vehicle_id, soc, kwh_delivered_dc, battery_temp, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		t.VehicleID,
		t.Soc,
		t.KwhDeliveredDc,
		t.BatteryTemp,
		t.Timestamp,
	).Scan(&t.ID, &t.CreatedAt)
}

// ReplaceStatus upserts the vehicle's current status verbatim, last write wins
// regardless of timestamp ordering. Not atomic with InsertHistory.
func (r *VehicleRepository) ReplaceStatus(ctx context.Context, s *models.VehicleStatus) error {
	const query = `
		INSERT INTO vehicle_current_status (vehicle_id, soc, kwh_delivered_dc, battery_temp, last_timestamp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (vehicle_id) DO UPDATE SET
			soc = EXCLUDED.soc,
			kwh_delivered_dc = EXCLUDED.kwh_delivered_dc,
			battery_temp = EXCLUDED.battery_temp,
			last_timestamp = EXCLUDED.last_timestamp,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		s.VehicleID,
		s.Soc,
		s.KwhDeliveredDc,
		s.BatteryTemp,
		s.LastTimestamp,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// StatusByID returns the vehicle's current status, or (nil, nil) when the
// vehicle has never been sighted.
func (r *VehicleRepository) StatusByID(ctx context.Context, vehicleID string) (*models.VehicleStatus, error) {
	const query = `
		SELECT vehicle_id, soc, kwh_delivered_dc, battery_temp, last_timestamp, created_at, updated_at
		FROM vehicle_current_status
		WHERE vehicle_id = $1
	`
	var s models.VehicleStatus
	err := r.db.QueryRowContext(ctx, query, vehicleID).Scan(
		&s.VehicleID,
		&s.Soc,
		&s.KwhDeliveredDc,
		&s.BatteryTemp,
		&s.LastTimestamp,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByVehicleBetween returns the vehicle's readings in [from, to], ascending
// by timestamp. Served by the (vehicle_id, timestamp) index.
func (r *VehicleRepository) ListByVehicleBetween(ctx context.Context, vehicleID string, from, to time.Time) ([]models.VehicleTelemetry, error) {
	const query = `
		SELECT id, vehicle_id, soc, kwh_delivered_dc, battery_temp, timestamp, created_at
		FROM vehicle_telemetry_history
		WHERE vehicle_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC
	`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []models.VehicleTelemetry
	for rows.Next() {
		var t models.VehicleTelemetry
		if err := rows.Scan(
			&t.ID,
			&t.VehicleID,
			&t.Soc,
			&t.KwhDeliveredDc,
			&t.BatteryTemp,
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
