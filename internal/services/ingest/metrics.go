package ingest

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/sensors"
)

// Metrics are the ingest counters and per-device gauges. A nil *Metrics
// records nothing.
type Metrics struct {
	recordsSaved  prometheus.Counter
	readings      *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	storageErrors prometheus.Counter
	lastValue     *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recordsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensor_records_saved_total",
			Help: "Aggregate sensor records written to storage.",
		}),
		readings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensor_readings_ingested_total",
			Help: "Validated readings stored, by sensor kind.",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensor_readings_rejected_total",
			Help: "Inbound readings rejected before storage, by reason.",
		}, []string{"reason"}),
		storageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensor_storage_errors_total",
			Help: "Failed repository saves.",
		}),
		lastValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sensor_last_value",
			Help: "Most recent validated value per device and kind.",
		}, []string{"device_id", "kind", "unit"}),
	}
	reg.MustRegister(m.recordsSaved, m.readings, m.rejected, m.storageErrors, m.lastValue)
	return m
}

func (m *Metrics) observe(readings []sensors.Reading) {
	if m == nil {
		return
	}
	m.recordsSaved.Inc()
	for _, r := range readings {
		m.readings.WithLabelValues(r.Kind().String()).Inc()
		m.lastValue.WithLabelValues(r.DeviceID(), r.Kind().String(), r.UnitLabel()).Set(r.Value())
	}
}

func (m *Metrics) reject(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) storageError() {
	if m == nil {
		return
	}
	m.storageErrors.Inc()
}
