package repository

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
)

func TestDocumentOmitsAbsentSlots(t *testing.T) {
	doc := ToDocument(entities.NewSensorData("d", ts).WithTemperature(21, "Celsius"))
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"device_id":"d","timestamp":"2024-05-14T10:30:00Z","temperature":{"value":21,"unit":"Celsius"}}`,
		string(raw))
	assert.NotContains(t, string(raw), "null")
	assert.NotContains(t, string(raw), "additional_sensors")
}

func TestDocumentTimestampIsUTC(t *testing.T) {
	doc := ToDocument(entities.NewSensorData("d", ts.In(fixedZone())))
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"timestamp":"2024-05-14T10:30:00Z"`), string(raw))
}

func TestDocumentRoundTrip(t *testing.T) {
	sd := entities.NewSensorData("d", ts).
		WithHumidity(55, "%").
		WithCO2(700, "ppm").
		WithAdditionalSensor("pressure", 1013.25, "hPa")

	raw, err := json.Marshal(ToDocument(sd))
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	back := doc.SensorData()

	assert.Equal(t, "d", back.DeviceID)
	assert.True(t, ts.Equal(back.Timestamp))
	assert.Nil(t, back.Temperature)
	assert.Equal(t, entities.Measurement{Value: 55, Unit: "%"}, *back.Humidity)
	assert.Equal(t, entities.Measurement{Value: 700, Unit: "ppm"}, *back.CO2)
	assert.Equal(t, entities.Measurement{Value: 1013.25, Unit: "hPa"}, back.AdditionalSensors["pressure"])
}

func TestRecordKeyOrdersByTime(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	a := recordKey(ts, id)
	b := recordKey(ts.Add(1), id)
	assert.Equal(t, "2024-05-14T10:30:00.000000000Z#00000000-0000-0000-0000-000000000001", a)
	assert.Less(t, a, b)
}
