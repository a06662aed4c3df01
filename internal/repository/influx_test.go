package repository

import (
	"context"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
)

func fixedZone() *time.Location { return time.FixedZone("CEST", 2*3600) }

func tagMap(p *write.Point) map[string]string {
	out := map[string]string{}
	for _, tag := range p.TagList() {
		out[tag.Key] = tag.Value
	}
	return out
}

func fieldMap(p *write.Point) map[string]interface{} {
	out := map[string]interface{}{}
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

func TestInfluxPointsPerSlot(t *testing.T) {
	r := &InfluxRepository{measurement: "sensor_data"}
	sd := entities.NewSensorData("d", ts).
		WithTemperature(22.5, "celsius").
		WithAdditionalSensor("pressure", 1013.25, "hPa")

	pts := r.points(sd, "rec-1")
	require.Len(t, pts, 3)

	assert.Equal(t, map[string]string{"device_id": "d", "record_id": "rec-1", "slot": "record"}, tagMap(pts[0]))
	assert.Equal(t, map[string]interface{}{"measurements": int64(2)}, fieldMap(pts[0]))

	assert.Equal(t, map[string]string{"device_id": "d", "record_id": "rec-1", "slot": "builtin", "sensor": "temperature"}, tagMap(pts[1]))
	assert.Equal(t, map[string]interface{}{"value": 22.5, "unit": "celsius"}, fieldMap(pts[1]))

	assert.Equal(t, "additional", tagMap(pts[2])["slot"])
	assert.Equal(t, "pressure", tagMap(pts[2])["sensor"])
	for _, p := range pts {
		assert.Equal(t, "sensor_data", p.Name())
		assert.True(t, ts.Equal(p.Time()))
	}
}

func TestAssembleRecords(t *testing.T) {
	later := ts.Add(time.Minute)
	rows := []influxRow{
		{Time: later, RecordID: "b", Slot: slotRecord},
		{Time: later, RecordID: "b", Slot: slotBuiltIn, Sensor: "co2", Value: 900, Unit: "ppm"},
		{Time: ts, RecordID: "a", Slot: slotRecord},
		{Time: ts, RecordID: "a", Slot: slotBuiltIn, Sensor: "temperature", Value: 22.5, Unit: "celsius"},
		{Time: ts, RecordID: "a", Slot: slotBuiltIn, Sensor: "humidity", Value: 40, Unit: "%"},
		{Time: ts, RecordID: "a", Slot: slotAdditional, Sensor: "pressure", Value: 1013.25, Unit: "hPa"},
		{Time: ts, RecordID: "c", Slot: slotRecord},
	}

	got := assembleRecords("d", rows)
	require.Len(t, got, 3)

	a := got[0]
	assert.Equal(t, "d", a.DeviceID)
	assert.Equal(t, 22.5, a.Temperature.Value)
	assert.Equal(t, "%", a.Humidity.Unit)
	assert.Nil(t, a.CO2)
	assert.Equal(t, 1013.25, a.AdditionalSensors["pressure"].Value)

	assert.True(t, got[1].IsEmpty())
	assert.Equal(t, 900.0, got[2].CO2.Value)
	assert.True(t, later.Equal(got[2].Timestamp))
}

func TestAssembleRecordsEmpty(t *testing.T) {
	got := assembleRecords("d", nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFluxByDevice(t *testing.T) {
	r := &InfluxRepository{bucket: "sensors", measurement: "sensor_data"}
	flux := r.fluxByDevice(`dev"1`)
	assert.Contains(t, flux, `from(bucket: "sensors")`)
	assert.Contains(t, flux, `r._measurement == "sensor_data"`)
	assert.Contains(t, flux, `r.device_id == "dev\"1"`)
	assert.Contains(t, flux, "pivot(")
	assert.Contains(t, flux, `range(start: time(v: "1677-09-21T00:12:43.145224194Z"), stop: time(v: "2262-04-11T23:47:16.854775807Z"))`)
	assert.NotContains(t, flux, "start: 0")
}

func TestSaveRejectsEmptyDeviceTag(t *testing.T) {
	r := &InfluxRepository{measurement: "sensor_data"}
	assert.Error(t, r.Save(context.Background(), entities.NewSensorData("", ts)))
}

func TestValueHelpers(t *testing.T) {
	assert.Equal(t, 1.5, floatValue(1.5))
	assert.Equal(t, 3.0, floatValue(int64(3)))
	assert.Equal(t, 2.25, floatValue(" 2.25 "))
	assert.Equal(t, 0.0, floatValue(nil))
	assert.Equal(t, "x", stringValue("x"))
	assert.Equal(t, "", stringValue(nil))
}

func TestSanitizeMeasurement(t *testing.T) {
	assert.Equal(t, "sensor_data", sanitizeMeasurement("sensor data"))
	assert.Equal(t, "a-b:c_1", sanitizeMeasurement("a-b:c_1"))
}
