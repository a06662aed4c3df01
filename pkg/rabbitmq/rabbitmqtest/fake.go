// Package rabbitmqtest provides in-memory stand-ins for the MQTT client and
// messages, for tests of code built on pkg/rabbitmq.
package rabbitmqtest

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Token is an already-completed mqtt.Token.
type Token struct {
	Err error
}

func (t *Token) Wait() bool                     { return true }
func (t *Token) WaitTimeout(time.Duration) bool { return true }
func (t *Token) Error() error                   { return t.Err }

func (t *Token) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Published is one message sent through Client.Publish.
type Published struct {
	Topic   string
	QoS     byte
	Payload []byte
}

// Client records publishes and subscriptions. Deliver routes a message to
// the handler subscribed on its topic.
type Client struct {
	mqtt.Client

	mu           sync.Mutex
	PublishErr   error
	SubscribeErr error
	Published    []Published
	handlers     map[string]mqtt.MessageHandler
	Unsubscribed []string
	connected    bool
}

func NewClient() *Client {
	return &Client{handlers: map[string]mqtt.MessageHandler{}, connected: true}
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) IsConnectionOpen() bool { return c.IsConnected() }

func (c *Client) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
}

func (c *Client) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PublishErr != nil {
		return &Token{Err: c.PublishErr}
	}
	var b []byte
	switch p := payload.(type) {
	case string:
		b = []byte(p)
	case []byte:
		b = p
	}
	c.Published = append(c.Published, Published{Topic: topic, QoS: qos, Payload: b})
	return &Token{}
}

func (c *Client) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SubscribeErr != nil {
		return &Token{Err: c.SubscribeErr}
	}
	c.handlers[topic] = callback
	return &Token{}
}

func (c *Client) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range topics {
		delete(c.handlers, t)
	}
	c.Unsubscribed = append(c.Unsubscribed, topics...)
	return &Token{}
}

// Subscribed reports whether a handler is registered for filter.
func (c *Client) Subscribed(filter string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.handlers[filter]
	return ok
}

// Deliver invokes the handler registered under filter with msg.
func (c *Client) Deliver(filter string, msg mqtt.Message) bool {
	c.mu.Lock()
	h, ok := c.handlers[filter]
	c.mu.Unlock()
	if !ok {
		return false
	}
	h(c, msg)
	return true
}

func (c *Client) Messages() []Published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Published(nil), c.Published...)
}

// Message is a received MQTT message.
type Message struct {
	TopicName string
	Body      []byte
	QoS       byte
}

func NewMessage(topic string, payload []byte) *Message {
	return &Message{TopicName: topic, Body: payload, QoS: 1}
}

func (m *Message) Duplicate() bool   { return false }
func (m *Message) Qos() byte         { return m.QoS }
func (m *Message) Retained() bool    { return false }
func (m *Message) Topic() string     { return m.TopicName }
func (m *Message) MessageID() uint16 { return 0 }
func (m *Message) Payload() []byte   { return m.Body }
func (m *Message) Ack()              {}
