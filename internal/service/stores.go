package service

import (
	"context"
	"time"

	"fleetenergy/internal/models"
)

// MeterStore is the persistence surface for meter telemetry: an append-only
// history stream plus a single replace-on-write status row per meter.
type MeterStore interface {
	InsertHistory(ctx context.Context, t *models.MeterTelemetry) error
	ReplaceStatus(ctx context.Context, s *models.MeterStatus) error
	// ListBetween returns every meter reading in [from, to], ascending by
	// timestamp, across all meters.
	ListBetween(ctx context.Context, from, to time.Time) ([]models.MeterTelemetry, error)
}

// VehicleStore is the persistence surface for vehicle telemetry.
type VehicleStore interface {
	InsertHistory(ctx context.Context, t *models.VehicleTelemetry) error
	ReplaceStatus(ctx context.Context, s *models.VehicleStatus) error
	// StatusByID returns (nil, nil) when the vehicle has never been sighted.
	StatusByID(ctx context.Context, vehicleID string) (*models.VehicleStatus, error)
	// ListByVehicleBetween returns the vehicle's readings in [from, to],
	// ascending by timestamp.
	ListByVehicleBetween(ctx context.Context, vehicleID string, from, to time.Time) ([]models.VehicleTelemetry, error)
}
