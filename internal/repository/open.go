package repository

import (
	"fmt"
	"strings"
)

const (
	BackendMemory = "memory"
	BackendInflux = "influx"
	BackendDynamo = "dynamo"
)

// Open builds the Store named by backend.
func Open(backend string, influx InfluxConfig, dyn DynamoConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryRepository(), nil
	case BackendInflux:
		return NewInfluxRepository(influx)
	case BackendDynamo:
		return NewDynamoRepository(dyn)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
