package service

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the two telemetry variants. The set is closed.
type Kind string

// Telemetry kinds.
const (
	KindMeter   Kind = "meter"
	KindVehicle Kind = "vehicle"
)

// MeterInput is an accepted meter payload.
type MeterInput struct {
	MeterID       string
	KwhConsumedAc float64
	Voltage       float64
	Timestamp     time.Time
}

// VehicleInput is an accepted vehicle payload.
type VehicleInput struct {
	VehicleID      string
	Soc            float64
	KwhDeliveredDc float64
	BatteryTemp    float64
	Timestamp      time.Time
}

// Telemetry is the tagged variant produced once at the API boundary; exactly one
// of Meter/Vehicle is set, matching Kind.
type Telemetry struct {
	Kind    Kind
	Meter   *MeterInput
	Vehicle *VehicleInput
}

// rawPayload keeps every field optional so presence can be inspected.
type rawPayload struct {
	MeterID        *string    `json:"meterId"`
	KwhConsumedAc  *float64   `json:"kwhConsumedAc"`
	Voltage        *float64   `json:"voltage"`
	VehicleID      *string    `json:"vehicleId"`
	Soc            *float64   `json:"soc"`
	KwhDeliveredDc *float64   `json:"kwhDeliveredDc"`
	BatteryTemp    *float64   `json:"batteryTemp"`
	Timestamp      *time.Time `json:"timestamp"`
}

func (p *rawPayload) isMeter() bool {
	return p.MeterID != nil && *p.MeterID != "" && p.KwhConsumedAc != nil && p.Voltage != nil
}

func (p *rawPayload) isVehicle() bool {
	return p.VehicleID != nil && *p.VehicleID != "" && p.Soc != nil && p.KwhDeliveredDc != nil && p.BatteryTemp != nil
}

// Classify discriminates a raw JSON payload into one of the two telemetry kinds by
// checking for kind-specific required fields. The meter shape is checked first; a
// payload matching neither is rejected.
func Classify(raw []byte) (Telemetry, error) {
	var p rawPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Telemetry{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if p.Timestamp == nil {
		return Telemetry{}, fmt.Errorf("%w: timestamp is required", ErrInvalidFormat)
	}

	switch {
	case p.isMeter():
		return Telemetry{
			Kind: KindMeter,
			Meter: &MeterInput{
				MeterID:       *p.MeterID,
				KwhConsumedAc: *p.KwhConsumedAc,
				Voltage:       *p.Voltage,
				Timestamp:     p.Timestamp.UTC(),
			},
		}, nil
	case p.isVehicle():
		return Telemetry{
			Kind: KindVehicle,
			Vehicle: &VehicleInput{
				VehicleID:      *p.VehicleID,
				Soc:            *p.Soc,
				KwhDeliveredDc: *p.KwhDeliveredDc,
				BatteryTemp:    *p.BatteryTemp,
				Timestamp:      p.Timestamp.UTC(),
			},
		}, nil
	default:
		return Telemetry{}, ErrInvalidFormat
	}
}

func (t Telemetry) timestamp() time.Time {
	switch t.Kind {
	case KindMeter:
		return t.Meter.Timestamp
	default:
		return t.Vehicle.Timestamp
	}
}
