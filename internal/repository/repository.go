package repository

import (
	"context"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
)

// SensorRepository persists aggregate sensor records keyed by device id.
type SensorRepository interface {
	// Save stores one record. It neither validates nor deduplicates.
	Save(ctx context.Context, data entities.SensorData) error
	// FindByDeviceID returns every record saved for deviceID, in no
	// guaranteed order. No matches is an empty slice and a nil error.
	FindByDeviceID(ctx context.Context, deviceID string) ([]entities.SensorData, error)
}

// Store is a SensorRepository backed by a live connection.
type Store interface {
	SensorRepository
	Ping(ctx context.Context) error
	Close()
}
