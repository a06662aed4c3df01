package rabbitmq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// RabbitMQConfig addresses a RabbitMQ broker through its MQTT plugin.
type RabbitMQConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	ClientID   string
	MaxRetries int
}

func NewRabbitMQConn(cfg *RabbitMQConfig, ctx context.Context) (mqtt.Client, error) {
	connAddr := fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(connAddr)
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Warnf("Failed to connect to MQTT broker: %v", token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries-1)), ctx))
	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection after retries: %w", err)
	}

	log.Infof("Connected to MQTT broker at %s", connAddr)

	go func() {
		<-ctx.Done()
		client.Disconnect(250)
		log.Info("MQTT connection is closed")
	}()

	return client, nil
}

func CloseRabbitMQConn(client mqtt.Client) {
	if client.IsConnected() {
		client.Disconnect(250)
		log.Info("MQTT connection successfully closed.")
	}
}

// TopicFor fills the {device} placeholder of a topic template.
func TopicFor(template, deviceID string) string {
	return strings.ReplaceAll(template, "{device}", deviceID)
}

// Readings and rejections are delivered at least once; everything else at most once.
func qosFor(topic string) byte {
	t := strings.TrimSpace(topic)
	if strings.HasPrefix(t, "sensor/data") || strings.HasPrefix(t, "sensor/rejected") {
		return 1
	}
	return 0
}
