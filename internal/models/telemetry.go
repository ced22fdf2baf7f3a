package models

import "time"

// MeterTelemetry is one append-only AC consumption reading from a charge-point meter.
type MeterTelemetry struct {
	ID            string    `db:"id" json:"id"`
	MeterID       string    `db:"meter_id" json:"meterId"`
	KwhConsumedAc float64   `db:"kwh_consumed_ac" json:"kwhConsumedAc"`
	Voltage       float64   `db:"voltage" json:"voltage"`
	Timestamp     time.Time `db:"timestamp" json:"timestamp"`
	CreatedAt     time.Time `db:"created_at" json:"receivedAt"`
}

// MeterStatus is the latest-ingested reading per meter. Overwritten verbatim on
// every accepted ingestion, so it tracks ingestion order, not timestamp order.
type MeterStatus struct {
	MeterID       string    `db:"meter_id" json:"meterId"`
	KwhConsumedAc float64   `db:"kwh_consumed_ac" json:"kwhConsumedAc"`
	Voltage       float64   `db:"voltage" json:"voltage"`
	LastTimestamp time.Time `db:"last_timestamp" json:"lastTimestamp"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// VehicleTelemetry is one append-only DC delivery / battery reading from a vehicle.
type VehicleTelemetry struct {
	ID             string    `db:"id" json:"id"`
	VehicleID      string    `db:"vehicle_id" json:"vehicleId"`
	Soc            float64   `db:"soc" json:"soc"`
	KwhDeliveredDc float64   `db:"kwh_delivered_dc" json:"kwhDeliveredDc"`
	BatteryTemp    float64   `db:"battery_temp" json:"batteryTemp"`
	Timestamp      time.Time `db:"timestamp" json:"timestamp"`
	CreatedAt      time.Time `db:"created_at" json:"receivedAt"`
}

// VehicleStatus is the latest-ingested reading per vehicle, same contract as MeterStatus.
type VehicleStatus struct {
	VehicleID      string    `db:"vehicle_id" json:"vehicleId"`
	Soc            float64   `db:"soc" json:"soc"`
	KwhDeliveredDc float64   `db:"kwh_delivered_dc" json:"kwhDeliveredDc"`
	BatteryTemp    float64   `db:"battery_temp" json:"batteryTemp"`
	LastTimestamp  time.Time `db:"last_timestamp" json:"lastTimestamp"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// VehicleMeterMapping associates a vehicle with the meter feeding its charge point.
// Persisted for future per-vehicle correlation; analytics does not consult it yet,
// the efficiency ratio stays a fleet-wide approximation.
type VehicleMeterMapping struct {
	ID        string    `db:"id" json:"id"`
	VehicleID string    `db:"vehicle_id" json:"vehicleId"`
	MeterID   string    `db:"meter_id" json:"meterId"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
