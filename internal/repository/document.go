package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
)

type MeasurementDoc struct {
	Value float64 `json:"value" dynamo:"value"`
	Unit  string  `json:"unit" dynamo:"unit"`
}

// Document is the stored form of entities.SensorData. Absent slots are
// omitted rather than written as null.
type Document struct {
	DeviceID          string                    `json:"device_id" dynamo:"device_id,hash"`
	RecordKey         string                    `json:"-" dynamo:"record_key,range"`
	Timestamp         time.Time                 `json:"timestamp" dynamo:"timestamp"`
	Temperature       *MeasurementDoc           `json:"temperature,omitempty" dynamo:"temperature,omitempty"`
	Humidity          *MeasurementDoc           `json:"humidity,omitempty" dynamo:"humidity,omitempty"`
	CO2               *MeasurementDoc           `json:"co2,omitempty" dynamo:"co2,omitempty"`
	AdditionalSensors map[string]MeasurementDoc `json:"additional_sensors,omitempty" dynamo:"additional_sensors,omitempty"`
}

func ToDocument(sd entities.SensorData) Document {
	d := Document{
		DeviceID:    sd.DeviceID,
		Timestamp:   sd.Timestamp.UTC(),
		Temperature: toMeasurementDoc(sd.Temperature),
		Humidity:    toMeasurementDoc(sd.Humidity),
		CO2:         toMeasurementDoc(sd.CO2),
	}
	if len(sd.AdditionalSensors) > 0 {
		d.AdditionalSensors = make(map[string]MeasurementDoc, len(sd.AdditionalSensors))
		for name, m := range sd.AdditionalSensors {
			d.AdditionalSensors[name] = MeasurementDoc{Value: m.Value, Unit: m.Unit}
		}
	}
	return d
}

func (d Document) SensorData() entities.SensorData {
	sd := entities.NewSensorData(d.DeviceID, d.Timestamp.UTC())
	if m := d.Temperature; m != nil {
		sd = sd.WithTemperature(m.Value, m.Unit)
	}
	if m := d.Humidity; m != nil {
		sd = sd.WithHumidity(m.Value, m.Unit)
	}
	if m := d.CO2; m != nil {
		sd = sd.WithCO2(m.Value, m.Unit)
	}
	for name, m := range d.AdditionalSensors {
		sd.AdditionalSensors[name] = entities.Measurement{Value: m.Value, Unit: m.Unit}
	}
	return sd
}

func toMeasurementDoc(m *entities.Measurement) *MeasurementDoc {
	if m == nil {
		return nil
	}
	return &MeasurementDoc{Value: m.Value, Unit: m.Unit}
}

// Fixed-width so that record keys sort lexically in time order.
const recordKeyLayout = "2006-01-02T15:04:05.000000000Z07:00"

// recordKey orders records of one device by time and keeps two records
// with the same timestamp apart.
func recordKey(ts time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%s#%s", ts.UTC().Format(recordKeyLayout), id)
}
