package service

import (
	"fmt"
	"time"
)

// SkewTolerance is the accepted band around server time for ingested timestamps.
const SkewTolerance = 5 * time.Minute

// Validate applies the recency check and the kind-specific bounds. It is pure:
// no storage is touched, and a nil result means the record is safe to persist.
// The recency check runs first and identically for both kinds.
func Validate(t Telemetry, now time.Time) error {
	ts := t.timestamp()
	if ts.Before(now.Add(-SkewTolerance)) || ts.After(now.Add(SkewTolerance)) {
		return fmt.Errorf("%w (timestamp=%s, now=%s)", ErrOutOfWindow, ts.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	switch t.Kind {
	case KindMeter:
		return validateMeter(t.Meter)
	case KindVehicle:
		return validateVehicle(t.Vehicle)
	default:
		return ErrInvalidFormat
	}
}

func validateMeter(in *MeterInput) error {
	if in.KwhConsumedAc < 0 {
		return fmt.Errorf("%w: kwhConsumedAc must be non-negative", ErrFieldOutOfRange)
	}
	if in.Voltage < 0 || in.Voltage > 1000 {
		return fmt.Errorf("%w: voltage must be between 0 and 1000", ErrFieldOutOfRange)
	}
	return nil
}

func validateVehicle(in *VehicleInput) error {
	if in.Soc < 0 || in.Soc > 100 {
		return fmt.Errorf("%w: soc must be between 0 and 100", ErrFieldOutOfRange)
	}
	if in.KwhDeliveredDc < 0 {
		return fmt.Errorf("%w: kwhDeliveredDc must be non-negative", ErrFieldOutOfRange)
	}
	if in.BatteryTemp < -50 || in.BatteryTemp > 100 {
		return fmt.Errorf("%w: batteryTemp must be between -50 and 100 degrees Celsius", ErrFieldOutOfRange)
	}
	return nil
}
