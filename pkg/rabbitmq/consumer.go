package rabbitmq

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Handler processes one message received on topic.
type Handler func(topic string, message mqtt.Message) error

type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

// Consumer subscribes a handler to one or more topics on a shared client.
type Consumer struct {
	client  mqtt.Client
	topics  []string
	handler Handler
}

func NewConsumer(client mqtt.Client, topics []string, handler Handler) *Consumer {
	return &Consumer{
		client:  client,
		topics:  topics,
		handler: handler,
	}
}

func (c *Consumer) SetHandler(handler Handler) {
	c.handler = handler
}

// ConsumeMessage subscribes to every topic and blocks until ctx is cancelled,
// then unsubscribes.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	for _, topic := range c.topics {
		topic := topic
		token := c.client.Subscribe(
			topic,
			qosFor(topic),
			func(_ mqtt.Client, msg mqtt.Message) {
				if c.handler == nil {
					log.Warnf("No handler set for topic %s", topic)
					return
				}
				if err := c.handler(msg.Topic(), msg); err != nil {
					log.WithField("topic", msg.Topic()).Errorf("Error handling message: %v", err)
				}
			},
		)
		if token.Wait() && token.Error() != nil {
			log.Errorf("Error subscribing to topic %s: %v", topic, token.Error())
			continue
		}
		log.Infof("Successfully subscribed to topic %s", topic)
	}

	<-ctx.Done()

	for _, topic := range c.topics {
		c.client.Unsubscribe(topic).Wait()
	}
}
