package ingest

import (
	"context"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
	"github.com/LeonardoBeccarini/sensor_store/internal/model/messages"
	"github.com/LeonardoBeccarini/sensor_store/internal/model/sensors"
	"github.com/LeonardoBeccarini/sensor_store/internal/repository"
	"github.com/LeonardoBeccarini/sensor_store/pkg/dedup"
	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq"
)

const defaultSaveTimeout = 5 * time.Second

// Service validates inbound readings and stores them as aggregate records.
// Each reading is handled on its own: decode, validate, save once.
type Service struct {
	repo          repository.SensorRepository
	clock         sensors.Clock
	metrics       *Metrics
	consumer      rabbitmq.IConsumer
	publisher     rabbitmq.IPublisher
	rejectedTopic string
	deduper       *dedup.Deduper
	saveTimeout   time.Duration
}

type Option func(*Service)

func WithClock(c sensors.Clock) Option { return func(s *Service) { s.clock = c } }

func WithMetrics(m *Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithConsumer attaches the MQTT consumer driven by Start.
func WithConsumer(c rabbitmq.IConsumer) Option { return func(s *Service) { s.consumer = c } }

// WithRejections publishes a ReadingRejectedEvent on topicTemplate, with
// {device} replaced by the device id, for every invalid MQTT reading.
func WithRejections(p rabbitmq.IPublisher, topicTemplate string) Option {
	return func(s *Service) {
		s.publisher = p
		s.rejectedTopic = topicTemplate
	}
}

func WithDeduper(d *dedup.Deduper) Option { return func(s *Service) { s.deduper = d } }

func WithSaveTimeout(d time.Duration) Option { return func(s *Service) { s.saveTimeout = d } }

func NewService(repo repository.SensorRepository, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		clock:       sensors.SystemClock(),
		saveTimeout: defaultSaveTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = defaultSaveTimeout
	}
	return s
}

// Ingest validates every built-in slot of msg, builds the aggregate record
// and saves it within the save timeout. Validation errors come from the
// sensors package; repository errors are returned as they are.
func (s *Service) Ingest(ctx context.Context, msg messages.SensorReading) (entities.SensorData, error) {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = s.clock.Now()
	}
	if err := sensors.CheckEnvelope(s.clock, msg.DeviceID, ts); err != nil {
		s.metrics.reject(sensors.Reason(err))
		return entities.SensorData{}, err
	}

	slots := []struct {
		kind sensors.Kind
		m    *messages.Measurement
	}{
		{sensors.KindTemperature, msg.Temperature},
		{sensors.KindHumidity, msg.Humidity},
		{sensors.KindCO2, msg.CO2},
	}

	sd := entities.NewSensorData(msg.DeviceID, ts)
	readings := make([]sensors.Reading, 0, len(slots))
	for _, slot := range slots {
		if slot.m == nil {
			continue
		}
		r, err := sensors.ParseReading(s.clock, slot.kind, msg.DeviceID, ts, slot.m.Value, slot.m.Unit)
		if err != nil {
			s.metrics.reject(sensors.Reason(err))
			return entities.SensorData{}, err
		}
		readings = append(readings, r)
		sd = sd.WithReading(r)
	}
	for name, m := range msg.AdditionalSensors {
		sd = sd.WithAdditionalSensor(name, m.Value, m.Unit)
	}

	saveCtx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()
	if err := s.repo.Save(saveCtx, sd); err != nil {
		s.metrics.storageError()
		return entities.SensorData{}, err
	}
	s.metrics.observe(readings)

	log.WithFields(log.Fields{
		"device_id": sd.DeviceID,
		"slots":     len(sd.Measurements()),
	}).Debug("ingest: record saved")
	return sd, nil
}

// Start hands MQTT messages to HandleMessage until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	if s.consumer == nil {
		log.Warn("ingest: no consumer configured, MQTT ingestion disabled")
		return
	}
	s.consumer.SetHandler(func(topic string, msg mqtt.Message) error {
		return s.handle(ctx, topic, msg)
	})
	s.consumer.ConsumeMessage(ctx)
}
