package sensor_simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/messages"
)

// walk is one random-walk channel kept inside [min, max].
type walk struct {
	value float64
	min   float64
	max   float64
	step  float64
	unit  string
}

func (w *walk) next(rng *rand.Rand) messages.Measurement {
	w.value += (rng.Float64()*2 - 1) * w.step
	w.value = math.Max(w.min, math.Min(w.max, w.value))
	return messages.Measurement{Value: round2(w.value), Unit: w.unit}
}

// DataGenerator produces plausible indoor readings for one device. With a
// non-zero outlier rate it occasionally emits a temperature far outside the
// accepted range, to exercise the rejection path downstream.
type DataGenerator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	now         func() time.Time
	outlierRate float64

	temperature walk
	humidity    walk
	co2         walk
	pressure    walk
}

func NewDataGenerator(seed int64, outlierRate float64) *DataGenerator {
	return &DataGenerator{
		rng:         rand.New(rand.NewSource(seed)),
		now:         time.Now,
		outlierRate: math.Max(0, math.Min(1, outlierRate)),
		temperature: walk{value: 21, min: -10, max: 45, step: 0.3, unit: "celsius"},
		humidity:    walk{value: 45, min: 5, max: 95, step: 1, unit: "%"},
		co2:         walk{value: 600, min: 350, max: 5000, step: 25, unit: "ppm"},
		pressure:    walk{value: 1013, min: 950, max: 1050, step: 0.5, unit: "hPa"},
	}
}

// Next advances every channel and returns the reading for deviceID.
func (g *DataGenerator) Next(deviceID string) messages.SensorReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	temp := g.temperature.next(g.rng)
	if g.outlierRate > 0 && g.rng.Float64() < g.outlierRate {
		temp.Value = 500
	}
	hum := g.humidity.next(g.rng)
	co2 := g.co2.next(g.rng)

	return messages.SensorReading{
		DeviceID:    deviceID,
		Timestamp:   g.now().UTC(),
		Temperature: &temp,
		Humidity:    &hum,
		CO2:         &co2,
		AdditionalSensors: map[string]messages.Measurement{
			"pressure": g.pressure.next(g.rng),
		},
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
