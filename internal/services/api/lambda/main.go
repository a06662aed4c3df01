// Command lambda serves the sensor-store HTTP API from AWS Lambda behind API
// Gateway. MQTT ingestion and the gRPC health server are not available here.
package main

import (
	"net/http"
	"os"

	"github.com/akrylysov/algnhsa"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/LeonardoBeccarini/sensor_store/internal/config"
	"github.com/LeonardoBeccarini/sensor_store/internal/repository"
	"github.com/LeonardoBeccarini/sensor_store/internal/services/api"
	"github.com/LeonardoBeccarini/sensor_store/internal/services/ingest"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel)

	store, err := repository.Open(cfg.StorageBackend, cfg.Influx, cfg.Dynamo)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	svc := ingest.NewService(store,
		ingest.WithMetrics(ingest.NewMetrics(prometheus.DefaultRegisterer)),
		ingest.WithSaveTimeout(cfg.SaveTimeout))
	ready := api.NewReadiness(store, cfg.BreakerFails, cfg.BreakerOpen, cfg.ReadyTimeout)
	handler := api.NewHandler(api.NewRouter(svc, store, ready, prometheus.DefaultGatherer))

	if os.Getenv("SENSOR_STORE_ENV") == "development" {
		log.Panic(http.ListenAndServe(":8000", handler))
	}
	algnhsa.ListenAndServe(handler, &algnhsa.Options{RequestType: algnhsa.RequestTypeAPIGateway})
}
