package sensors

import (
	"fmt"
	"time"
)

// Inclusive bounds per sensor kind.
const (
	TemperatureMin = -50.0
	TemperatureMax = 150.0
	HumidityMin    = 0.0
	HumidityMax    = 100.0
	CO2Min         = 0.0
	CO2Max         = 50000.0
)

var (
	temperatureBounds = bounds{min: TemperatureMin, max: TemperatureMax}
	humidityBounds    = bounds{min: HumidityMin, max: HumidityMax}
	co2Bounds         = bounds{min: CO2Min, max: CO2Max}
)

// Temperature is a validated temperature reading.
type Temperature struct {
	reading[TemperatureUnit]
}

// NewTemperature validates against the wall clock.
func NewTemperature(deviceID string, ts time.Time, value float64, unit TemperatureUnit) (Temperature, error) {
	return NewTemperatureAt(SystemClock(), deviceID, ts, value, unit)
}

func NewTemperatureAt(clock Clock, deviceID string, ts time.Time, value float64, unit TemperatureUnit) (Temperature, error) {
	r, err := newReading(clock, temperatureBounds, deviceID, ts, value, unit)
	if err != nil {
		return Temperature{}, err
	}
	return Temperature{r}, nil
}

func (t Temperature) UnitLabel() string { return t.unit.String() }

func (t Temperature) Kind() Kind { return KindTemperature }

func (t Temperature) Equal(o Temperature) bool { return t.equal(o.reading) }

// Humidity is a validated relative humidity reading.
type Humidity struct {
	reading[HumidityUnit]
}

// NewHumidity validates against the wall clock.
func NewHumidity(deviceID string, ts time.Time, value float64, unit HumidityUnit) (Humidity, error) {
	return NewHumidityAt(SystemClock(), deviceID, ts, value, unit)
}

func NewHumidityAt(clock Clock, deviceID string, ts time.Time, value float64, unit HumidityUnit) (Humidity, error) {
	r, err := newReading(clock, humidityBounds, deviceID, ts, value, unit)
	if err != nil {
		return Humidity{}, err
	}
	return Humidity{r}, nil
}

func (h Humidity) UnitLabel() string { return h.unit.String() }

func (h Humidity) Kind() Kind { return KindHumidity }

func (h Humidity) Equal(o Humidity) bool { return h.equal(o.reading) }

// CO2 is a validated carbon dioxide concentration reading.
type CO2 struct {
	reading[CO2Unit]
}

// NewCO2 validates against the wall clock.
func NewCO2(deviceID string, ts time.Time, value float64, unit CO2Unit) (CO2, error) {
	return NewCO2At(SystemClock(), deviceID, ts, value, unit)
}

func NewCO2At(clock Clock, deviceID string, ts time.Time, value float64, unit CO2Unit) (CO2, error) {
	r, err := newReading(clock, co2Bounds, deviceID, ts, value, unit)
	if err != nil {
		return CO2{}, err
	}
	return CO2{r}, nil
}

func (c CO2) UnitLabel() string { return c.unit.String() }

func (c CO2) Kind() Kind { return KindCO2 }

func (c CO2) Equal(o CO2) bool { return c.equal(o.reading) }

var (
	_ Reading = Temperature{}
	_ Reading = Humidity{}
	_ Reading = CO2{}
)

// ParseReading parses unitText against the vocabulary of kind and then
// builds the matching validated reading.
func ParseReading(clock Clock, kind Kind, deviceID string, ts time.Time, value float64, unitText string) (Reading, error) {
	var (
		r   Reading
		err error
	)
	switch kind {
	case KindTemperature:
		var u TemperatureUnit
		if u, err = ParseTemperatureUnit(unitText); err == nil {
			r, err = NewTemperatureAt(clock, deviceID, ts, value, u)
		}
	case KindHumidity:
		var u HumidityUnit
		if u, err = ParseHumidityUnit(unitText); err == nil {
			r, err = NewHumidityAt(clock, deviceID, ts, value, u)
		}
	case KindCO2:
		var u CO2Unit
		if u, err = ParseCO2Unit(unitText); err == nil {
			r, err = NewCO2At(clock, deviceID, ts, value, u)
		}
	default:
		return nil, fmt.Errorf("sensors: unknown kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}
