package sensors

import (
	"math"
	"time"
)

// Kind names a built-in sensor kind.
type Kind string

const (
	KindTemperature Kind = "temperature"
	KindHumidity    Kind = "humidity"
	KindCO2         Kind = "co2"
)

// Kinds lists the built-in kinds in their canonical order.
var Kinds = []Kind{KindTemperature, KindHumidity, KindCO2}

func (k Kind) String() string { return string(k) }

// Reading is the read-only view shared by every validated sensor kind.
type Reading interface {
	DeviceID() string
	Timestamp() time.Time
	Value() float64
	// UnitLabel is the canonical label of the reading's unit, e.g. "Celsius".
	UnitLabel() string
	Kind() Kind
}

type bounds struct {
	min float64
	max float64
}

func (b bounds) contains(v float64) bool {
	return !math.IsNaN(v) && v >= b.min && v <= b.max
}

// reading holds the fields common to all sensor kinds. It is only ever
// built through newReading, so every instance has passed validation.
type reading[U ~int] struct {
	deviceID  string
	timestamp time.Time
	value     float64
	unit      U
}

// CheckEnvelope runs the device id and timestamp checks that precede the
// range check of every sensor kind.
func CheckEnvelope(clock Clock, deviceID string, ts time.Time) error {
	if deviceID == "" {
		return ErrEmptyDeviceID
	}
	if ts.After(clock.Now()) {
		return ErrFutureTimestamp
	}
	return nil
}

func newReading[U ~int](clock Clock, b bounds, deviceID string, ts time.Time, value float64, unit U) (reading[U], error) {
	if err := CheckEnvelope(clock, deviceID, ts); err != nil {
		return reading[U]{}, err
	}
	if !b.contains(value) {
		return reading[U]{}, &OutOfRangeError{Value: value, Min: b.min, Max: b.max}
	}
	return reading[U]{
		deviceID:  deviceID,
		timestamp: ts.UTC(),
		value:     value,
		unit:      unit,
	}, nil
}

func (r reading[U]) DeviceID() string { return r.deviceID }

func (r reading[U]) Timestamp() time.Time { return r.timestamp }

func (r reading[U]) Value() float64 { return r.value }

func (r reading[U]) Unit() U { return r.unit }

func (r reading[U]) equal(o reading[U]) bool {
	return r.deviceID == o.deviceID &&
		r.timestamp.Equal(o.timestamp) &&
		r.value == o.value &&
		r.unit == o.unit
}
