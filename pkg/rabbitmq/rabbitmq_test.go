package rabbitmq_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq"
	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq/rabbitmqtest"
)

func TestTopicFor(t *testing.T) {
	assert.Equal(t, "sensor/rejected/dev-1", rabbitmq.TopicFor("sensor/rejected/{device}", "dev-1"))
	assert.Equal(t, "static", rabbitmq.TopicFor("static", "dev-1"))
}

func TestPublisherQoSPerTopic(t *testing.T) {
	client := rabbitmqtest.NewClient()
	p := rabbitmq.NewPublisher(client, "sensor/data/dev-1")

	require.NoError(t, p.PublishMessage(`{"a":1}`))
	require.NoError(t, p.PublishTo("status/dev-1", []byte("up")))

	msgs := client.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, rabbitmqtest.Published{Topic: "sensor/data/dev-1", QoS: 1, Payload: []byte(`{"a":1}`)}, msgs[0])
	assert.Equal(t, byte(0), msgs[1].QoS)
}

func TestPublisherRejectsUnsupportedPayload(t *testing.T) {
	p := rabbitmq.NewPublisher(rabbitmqtest.NewClient(), "x")
	assert.Error(t, p.PublishMessage(42))
}

func TestPublisherSurfacesBrokerErrors(t *testing.T) {
	client := rabbitmqtest.NewClient()
	client.PublishErr = errors.New("not connected")
	p := rabbitmq.NewPublisher(client, "x")
	assert.ErrorIs(t, p.PublishMessage("m"), client.PublishErr)
}

func TestPublisherClose(t *testing.T) {
	client := rabbitmqtest.NewClient()
	rabbitmq.NewPublisher(client, "x").Close()
	assert.False(t, client.IsConnected())
}

func TestConsumerDeliversUntilCancelled(t *testing.T) {
	client := rabbitmqtest.NewClient()
	var calls atomic.Int32
	c := rabbitmq.NewConsumer(client, []string{"sensor/data/#"}, nil)
	c.SetHandler(func(topic string, m mqtt.Message) error {
		assert.Equal(t, "sensor/data/dev-1", topic)
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.ConsumeMessage(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return client.Subscribed("sensor/data/#") }, time.Second, 5*time.Millisecond)
	client.Deliver("sensor/data/#", rabbitmqtest.NewMessage("sensor/data/dev-1", []byte("{}")))
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	<-done
	assert.Equal(t, []string{"sensor/data/#"}, client.Unsubscribed)
}
