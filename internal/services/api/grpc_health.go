package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name that tracks storage readiness.
// The empty name tracks liveness and is always SERVING.
const ServiceName = "sensorstore.SensorStore"

func NewGRPCServer() (*grpc.Server, *health.Server) {
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return gs, hs
}

// WatchReadiness mirrors ready into hs every interval until ctx ends, then
// marks every service NOT_SERVING.
func WatchReadiness(ctx context.Context, hs *health.Server, ready *Readiness, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	updateServingStatus(ctx, hs, ready)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
			updateServingStatus(ctx, hs, ready)
		}
	}
}

func updateServingStatus(ctx context.Context, hs *health.Server, ready *Readiness) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := ready.Check(ctx); err != nil {
		log.Warnf("api: storage not ready: %v", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus(ServiceName, status)
}
