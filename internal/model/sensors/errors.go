package sensors

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every error produced while building a reading.
var ErrValidation = errors.New("invalid sensor reading")

var (
	ErrEmptyDeviceID   error = validationError("device_id must not be empty")
	ErrFutureTimestamp error = validationError("timestamp must not be in the future")
)

type validationError string

func (e validationError) Error() string { return string(e) }

func (e validationError) Is(target error) bool { return target == ErrValidation }

// OutOfRangeError reports a value outside the inclusive bounds of its sensor kind.
type OutOfRangeError struct {
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %g is out of range [%g, %g]", e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrValidation }

// InvalidUnitError carries the unit text exactly as it was received.
type InvalidUnitError struct {
	Unit string
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("invalid unit: %s", e.Unit)
}

func (e *InvalidUnitError) Is(target error) bool { return target == ErrValidation }

// Reason returns a short machine-readable tag for a validation error,
// or "" when err is not one.
func Reason(err error) string {
	var rangeErr *OutOfRangeError
	var unitErr *InvalidUnitError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyDeviceID):
		return "empty_device_id"
	case errors.Is(err, ErrFutureTimestamp):
		return "future_timestamp"
	case errors.As(err, &rangeErr):
		return "out_of_range"
	case errors.As(err, &unitErr):
		return "invalid_unit"
	}
	return ""
}
