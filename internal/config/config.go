package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/LeonardoBeccarini/sensor_store/internal/repository"
	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq"
)

// Config is the environment-driven configuration shared by the service binaries.
type Config struct {
	HTTPPort int
	GRPCPort int
	LogLevel string

	StorageBackend string
	Influx         repository.InfluxConfig
	Dynamo         repository.DynamoConfig

	MQTTEnabled    bool
	Rabbit         rabbitmq.RabbitMQConfig
	SubTopics      []string
	RejectedTopic  string
	DedupTTL       time.Duration
	SaveTimeout    time.Duration
	ReadyTimeout   time.Duration
	BreakerFails   int
	BreakerOpen    time.Duration
	HealthInterval time.Duration
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// envDuration accepts Go duration strings ("5s") or plain milliseconds.
func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	return def
}

func envList(key, def string) []string {
	parts := strings.Split(env(key, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func Load() Config {
	return Config{
		HTTPPort: envInt("PORT", 8080),
		GRPCPort: envInt("GRPC_PORT", 50051),
		LogLevel: env("LOG_LEVEL", "info"),

		StorageBackend: env("STORAGE_BACKEND", repository.BackendMemory),
		Influx: repository.InfluxConfig{
			URL:         env("INFLUX_URL", "http://localhost:8086"),
			Token:       os.Getenv("INFLUX_TOKEN"),
			Org:         env("INFLUX_ORG", "sensors"),
			Bucket:      env("INFLUX_BUCKET", "readings"),
			Measurement: env("MEASUREMENT", "sensor_data"),
		},
		Dynamo: repository.DynamoConfig{
			Table:    env("DYNAMO_TABLE", "sensor_data"),
			Region:   os.Getenv("AWS_REGION"),
			Endpoint: os.Getenv("DYNAMODB_ENDPOINT"),
		},

		MQTTEnabled: envBool("MQTT_ENABLED", false),
		Rabbit: rabbitmq.RabbitMQConfig{
			Host:       env("RABBITMQ_HOST", "localhost"),
			Port:       envInt("RABBITMQ_PORT", 1883),
			User:       env("RABBITMQ_USER", "guest"),
			Password:   env("RABBITMQ_PASSWORD", "guest"),
			ClientID:   env("MQTT_CLIENT_ID", env("HOSTNAME", "sensor-store")),
			MaxRetries: envInt("MQTT_CONNECT_RETRIES", 5),
		},
		SubTopics:      envList("SENSOR_SUB_TOPICS", "sensor/data/#"),
		RejectedTopic:  env("REJECTED_TOPIC_TEMPLATE", "sensor/rejected/{device}"),
		DedupTTL:       envDuration("DEDUP_TTL", 10*time.Minute),
		SaveTimeout:    envDuration("SAVE_TIMEOUT", 5*time.Second),
		ReadyTimeout:   envDuration("READY_TIMEOUT", 2*time.Second),
		BreakerFails:   envInt("BREAKER_FAILURES", 3),
		BreakerOpen:    envDuration("BREAKER_OPEN_MS", 10*time.Second),
		HealthInterval: envDuration("HEALTH_INTERVAL", 15*time.Second),
	}
}

// SetupLogging configures the logrus text formatter and level.
func SetupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown LOG_LEVEL %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
