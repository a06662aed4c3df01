package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/LeonardoBeccarini/sensor_store/internal/config"
	sensorSimulator "github.com/LeonardoBeccarini/sensor_store/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq"
)

func main() {
	deviceID := flag.String("device-id", "device-1", "unique device identifier")
	clientID := flag.String("client-id", "sensorPublisher1", "MQTT client ID")
	interval := flag.Duration("interval", 10*time.Second, "publish interval")
	topic := flag.String("topic", "sensor/data/{device}", "topic template")
	outliers := flag.Float64("outlier-rate", 0, "fraction of readings with an out-of-range temperature")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel)
	cfg.Rabbit.ClientID = *clientID

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := rabbitmq.NewRabbitMQConn(&cfg.Rabbit, ctx)
	if err != nil {
		log.Fatal(err)
	}

	publisher := rabbitmq.NewPublisher(client, "")
	generator := sensorSimulator.NewDataGenerator(*seed, *outliers)
	sim := sensorSimulator.NewSensorSimulator(publisher, generator, *deviceID, *topic)

	log.Infof("sensor: publishing %s every %s", *deviceID, *interval)
	sim.Start(ctx, *interval)
}
