package sensor_simulator

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq"
)

type SensorSimulator struct {
	deviceID  string
	generator *DataGenerator
	publisher rabbitmq.IPublisher
	topic     string
}

// NewSensorSimulator publishes readings for deviceID on topicTemplate with
// {device} filled in.
func NewSensorSimulator(publisher rabbitmq.IPublisher, gen *DataGenerator, deviceID, topicTemplate string) *SensorSimulator {
	return &SensorSimulator{
		deviceID:  deviceID,
		generator: gen,
		publisher: publisher,
		topic:     rabbitmq.TopicFor(topicTemplate, deviceID),
	}
}

func (s *SensorSimulator) PublishOnce() error {
	sd := s.generator.Next(s.deviceID)
	payload, err := json.Marshal(sd)
	if err != nil {
		return err
	}
	log.WithField("device_id", s.deviceID).Debugf("sensor: pub temp=%.2f hum=%.2f co2=%.0f",
		sd.Temperature.Value, sd.Humidity.Value, sd.CO2.Value)
	return s.publisher.PublishTo(s.topic, payload)
}

// Start publishes one reading per interval until ctx is cancelled.
func (s *SensorSimulator) Start(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-t.C:
			if err := s.PublishOnce(); err != nil {
				log.Errorf("publish error: %v", err)
			}
		}
	}
}
