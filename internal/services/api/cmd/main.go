package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/LeonardoBeccarini/sensor_store/internal/config"
	"github.com/LeonardoBeccarini/sensor_store/internal/repository"
	"github.com/LeonardoBeccarini/sensor_store/internal/services/api"
	"github.com/LeonardoBeccarini/sensor_store/internal/services/ingest"
	"github.com/LeonardoBeccarini/sensor_store/pkg/dedup"
	"github.com/LeonardoBeccarini/sensor_store/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === Storage ===
	store, err := repository.Open(cfg.StorageBackend, cfg.Influx, cfg.Dynamo)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()
	log.Infof("sensor-store: storage backend %q", cfg.StorageBackend)

	// === Ingest ===
	prometheus.MustRegister(collectors.NewBuildInfoCollector())
	opts := []ingest.Option{
		ingest.WithMetrics(ingest.NewMetrics(prometheus.DefaultRegisterer)),
		ingest.WithSaveTimeout(cfg.SaveTimeout),
	}

	// === MQTT (optional) ===
	if cfg.MQTTEnabled {
		client, err := rabbitmq.NewRabbitMQConn(&cfg.Rabbit, ctx)
		if err != nil {
			log.Fatalf("mqtt connection error: %v", err)
		}
		defer rabbitmq.CloseRabbitMQConn(client)
		opts = append(opts,
			ingest.WithConsumer(rabbitmq.NewConsumer(client, cfg.SubTopics, nil)),
			ingest.WithRejections(rabbitmq.NewPublisher(client, ""), cfg.RejectedTopic),
			ingest.WithDeduper(dedup.New(cfg.DedupTTL, 20000)),
		)
	}
	svc := ingest.NewService(store, opts...)
	if cfg.MQTTEnabled {
		go svc.Start(ctx)
	}

	ready := api.NewReadiness(store, cfg.BreakerFails, cfg.BreakerOpen, cfg.ReadyTimeout)

	// === gRPC health ===
	gs, hs := api.NewGRPCServer()
	lis, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.GRPCPort))
	if err != nil {
		log.Fatalf("grpc listen: %v", err)
	}
	go api.WatchReadiness(ctx, hs, ready, cfg.HealthInterval)
	go func() {
		log.Infof("sensor-store: gRPC health listening on :%d", cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil {
			log.Errorf("grpc server error: %v", err)
		}
	}()

	// === HTTP ===
	router := api.NewRouter(svc, store, ready, prometheus.DefaultGatherer)
	hsrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           api.NewHandler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("sensor-store: HTTP listening on :%d", cfg.HTTPPort)
		if err := hsrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	// === Wait for signal ===
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info("sensor-store: shutting down...")

	cancel()
	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = hsrv.Shutdown(shCtx)
	gs.GracefulStop()
}
