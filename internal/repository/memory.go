package repository

import (
	"context"
	"sync"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
)

// MemoryRepository keeps records in process memory, in insertion order.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string][]entities.SensorData
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string][]entities.SensorData)}
}

func (m *MemoryRepository) Save(ctx context.Context, data entities.SensorData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[data.DeviceID] = append(m.records[data.DeviceID], data.Clone())
	return nil
}

func (m *MemoryRepository) FindByDeviceID(ctx context.Context, deviceID string) ([]entities.SensorData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.records[deviceID]
	out := make([]entities.SensorData, 0, len(stored))
	for _, sd := range stored {
		out = append(out, sd.Clone())
	}
	return out, nil
}

func (m *MemoryRepository) Ping(context.Context) error { return nil }

func (m *MemoryRepository) Close() {}
