package rabbitmq

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

type IPublisher interface {
	PublishMessage(message interface{}) error
	PublishTo(topic string, message interface{}) error
	Close()
}

// Publisher sends string or []byte payloads on a shared MQTT client.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher returns a publisher whose PublishMessage targets topic.
func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{
		client: client,
		topic:  topic,
	}
}

func (p *Publisher) PublishMessage(message interface{}) error {
	return p.PublishTo(p.topic, message)
}

func (p *Publisher) PublishTo(topic string, message interface{}) error {
	switch message.(type) {
	case string, []byte:
	default:
		return fmt.Errorf("invalid message format, expected string or []byte, got %T", message)
	}

	token := p.client.Publish(topic, qosFor(topic), false, message)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish message: %w", token.Error())
	}

	log.Debugf("Message published to topic '%s'", topic)
	return nil
}

func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Info("MQTT client disconnected")
	}
}
