package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/messages"
	"github.com/LeonardoBeccarini/sensor_store/internal/model/sensors"
	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq"
)

// HandleMessage is the MQTT entry point. Malformed and invalid readings
// are logged and dropped so they do not block the stream; storage errors
// are returned to the consumer.
func (s *Service) HandleMessage(topic string, msg mqtt.Message) error {
	return s.handle(context.Background(), topic, msg)
}

func (s *Service) handle(ctx context.Context, topic string, msg mqtt.Message) error {
	// QoS1 redelivery carries the same payload
	if s.deduper != nil && !s.deduper.ShouldProcessPayload(msg.Payload()) {
		log.WithField("topic", topic).Debug("ingest: duplicate payload dropped")
		return nil
	}

	var in messages.SensorReading
	if err := json.Unmarshal(msg.Payload(), &in); err != nil {
		log.WithField("topic", topic).Warnf("ingest: invalid JSON: %v", err)
		s.metrics.reject("malformed")
		return nil
	}
	if in.DeviceID == "" {
		in.DeviceID = deviceFromTopic(topic)
	}

	_, err := s.Ingest(ctx, in)
	if errors.Is(err, sensors.ErrValidation) {
		log.WithFields(log.Fields{
			"topic":     topic,
			"device_id": in.DeviceID,
			"reason":    sensors.Reason(err),
		}).Warnf("ingest: reading rejected: %v", err)
		s.publishRejection(in, err)
		return nil
	}
	return err
}

func (s *Service) publishRejection(in messages.SensorReading, cause error) {
	if s.publisher == nil || s.rejectedTopic == "" {
		return
	}
	evt := messages.ReadingRejectedEvent{
		DeviceID:   in.DeviceID,
		Reason:     sensors.Reason(cause),
		Error:      cause.Error(),
		ReceivedAt: s.clock.Now().UTC(),
	}
	if !in.Timestamp.IsZero() {
		ts := in.Timestamp.UTC()
		evt.Timestamp = &ts
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Errorf("ingest: marshal rejection: %v", err)
		return
	}
	device := in.DeviceID
	if device == "" {
		device = "unknown"
	}
	if err := s.publisher.PublishTo(rabbitmq.TopicFor(s.rejectedTopic, device), payload); err != nil {
		log.Errorf("ingest: publish rejection: %v", err)
	}
}

// deviceFromTopic extracts {device} from sensor/data/{device}.
func deviceFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) >= 3 && parts[0] == "sensor" && parts[1] == "data" {
		return parts[2]
	}
	return ""
}
