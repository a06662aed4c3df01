package entities

import (
	"maps"
	"sort"
	"time"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/sensors"
)

// Measurement is an unvalidated value with a free-text unit label.
type Measurement struct {
	Value float64
	Unit  string
}

// SensorData is one device's full reading at one instant, in the shape it
// is persisted. Nothing here is validated; readings are checked by the
// sensors package before they are attached.
type SensorData struct {
	DeviceID          string
	Timestamp         time.Time
	Temperature       *Measurement
	Humidity          *Measurement
	CO2               *Measurement
	AdditionalSensors map[string]Measurement
}

func NewSensorData(deviceID string, ts time.Time) SensorData {
	return SensorData{
		DeviceID:          deviceID,
		Timestamp:         ts,
		AdditionalSensors: map[string]Measurement{},
	}
}

func (s SensorData) WithTemperature(value float64, unit string) SensorData {
	s.Temperature = &Measurement{Value: value, Unit: unit}
	return s
}

func (s SensorData) WithHumidity(value float64, unit string) SensorData {
	s.Humidity = &Measurement{Value: value, Unit: unit}
	return s
}

func (s SensorData) WithCO2(value float64, unit string) SensorData {
	s.CO2 = &Measurement{Value: value, Unit: unit}
	return s
}

// WithAdditionalSensor sets the named slot, replacing any earlier value.
func (s SensorData) WithAdditionalSensor(name string, value float64, unit string) SensorData {
	extra := make(map[string]Measurement, len(s.AdditionalSensors)+1)
	maps.Copy(extra, s.AdditionalSensors)
	extra[name] = Measurement{Value: value, Unit: unit}
	s.AdditionalSensors = extra
	return s
}

// WithReading stores a validated reading in the built-in slot for its kind,
// using the canonical unit label.
func (s SensorData) WithReading(r sensors.Reading) SensorData {
	switch r.Kind() {
	case sensors.KindTemperature:
		return s.WithTemperature(r.Value(), r.UnitLabel())
	case sensors.KindHumidity:
		return s.WithHumidity(r.Value(), r.UnitLabel())
	case sensors.KindCO2:
		return s.WithCO2(r.Value(), r.UnitLabel())
	}
	return s.WithAdditionalSensor(string(r.Kind()), r.Value(), r.UnitLabel())
}

// Slot returns the built-in measurement for kind, or nil.
func (s SensorData) Slot(kind sensors.Kind) *Measurement {
	switch kind {
	case sensors.KindTemperature:
		return s.Temperature
	case sensors.KindHumidity:
		return s.Humidity
	case sensors.KindCO2:
		return s.CO2
	}
	return nil
}

// NamedMeasurement is a measurement together with the slot it occupies.
type NamedMeasurement struct {
	Name    string
	BuiltIn bool
	Measurement
}

// Measurements lists the populated slots: built-in kinds first in their
// canonical order, then additional sensors sorted by name.
func (s SensorData) Measurements() []NamedMeasurement {
	out := make([]NamedMeasurement, 0, 3+len(s.AdditionalSensors))
	for _, k := range sensors.Kinds {
		if m := s.Slot(k); m != nil {
			out = append(out, NamedMeasurement{Name: string(k), BuiltIn: true, Measurement: *m})
		}
	}
	names := make([]string, 0, len(s.AdditionalSensors))
	for name := range s.AdditionalSensors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, NamedMeasurement{Name: name, Measurement: s.AdditionalSensors[name]})
	}
	return out
}

func (s SensorData) IsEmpty() bool {
	return s.Temperature == nil && s.Humidity == nil && s.CO2 == nil && len(s.AdditionalSensors) == 0
}

// Clone returns a copy that shares no pointers or maps with s.
func (s SensorData) Clone() SensorData {
	c := s
	c.Temperature = cloneMeasurement(s.Temperature)
	c.Humidity = cloneMeasurement(s.Humidity)
	c.CO2 = cloneMeasurement(s.CO2)
	c.AdditionalSensors = maps.Clone(s.AdditionalSensors)
	if c.AdditionalSensors == nil {
		c.AdditionalSensors = map[string]Measurement{}
	}
	return c
}

func cloneMeasurement(m *Measurement) *Measurement {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}
