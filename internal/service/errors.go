package service

import "errors"

// Rejection reasons surfaced to clients. Bound violations wrap ErrFieldOutOfRange
// with the offending field and limit; storage failures propagate unwrapped so the
// caller decides on retries.
var (
	ErrInvalidFormat   = errors.New("invalid telemetry format: must be either meter or vehicle telemetry")
	ErrOutOfWindow     = errors.New("timestamp must be within 5 minutes of current time")
	ErrFieldOutOfRange = errors.New("field out of range")
	ErrVehicleNotFound = errors.New("vehicle not found")
)
