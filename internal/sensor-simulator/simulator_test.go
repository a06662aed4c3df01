package sensor_simulator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/messages"
	"github.com/LeonardoBeccarini/sensor_store/internal/model/sensors"
	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq"
	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq/rabbitmqtest"
)

func TestGeneratedReadingsValidate(t *testing.T) {
	g := NewDataGenerator(42, 0)
	fixed := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }
	clock := sensors.FixedClock(fixed)

	for i := 0; i < 500; i++ {
		r := g.Next("dev")
		slots := map[sensors.Kind]*messages.Measurement{
			sensors.KindTemperature: r.Temperature,
			sensors.KindHumidity:    r.Humidity,
			sensors.KindCO2:         r.CO2,
		}
		for kind, m := range slots {
			_, err := sensors.ParseReading(clock, kind, r.DeviceID, r.Timestamp, m.Value, m.Unit)
			require.NoError(t, err, "step %d %s=%v", i, kind, m.Value)
		}
		p := r.AdditionalSensors["pressure"]
		assert.Equal(t, "hPa", p.Unit)
		assert.True(t, p.Value >= 950 && p.Value <= 1050)
	}
}

func TestGeneratorIsDeterministicPerSeed(t *testing.T) {
	a := NewDataGenerator(7, 0)
	b := NewDataGenerator(7, 0)
	for i := 0; i < 10; i++ {
		ra, rb := a.Next("d"), b.Next("d")
		assert.Equal(t, ra.Temperature, rb.Temperature)
		assert.Equal(t, ra.CO2, rb.CO2)
	}
}

func TestOutliers(t *testing.T) {
	g := NewDataGenerator(1, 1)
	r := g.Next("d")
	_, err := sensors.ParseReading(sensors.SystemClock(), sensors.KindTemperature, "d", r.Timestamp, r.Temperature.Value, r.Temperature.Unit)
	var rangeErr *sensors.OutOfRangeError
	assert.ErrorAs(t, err, &rangeErr)
}

func TestPublishOnce(t *testing.T) {
	client := rabbitmqtest.NewClient()
	sim := NewSensorSimulator(rabbitmq.NewPublisher(client, ""), NewDataGenerator(3, 0), "dev-9", "sensor/data/{device}")
	require.NoError(t, sim.PublishOnce())

	sent := client.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "sensor/data/dev-9", sent[0].Topic)
	assert.Equal(t, byte(1), sent[0].QoS)

	var r messages.SensorReading
	require.NoError(t, json.Unmarshal(sent[0].Payload, &r))
	assert.Equal(t, "dev-9", r.DeviceID)
	assert.NotNil(t, r.CO2)
}
