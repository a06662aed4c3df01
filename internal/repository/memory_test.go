package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
)

var ts = time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)

func TestSaveAndFindRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	sd := entities.NewSensorData("d", ts).
		WithTemperature(22.5, "celsius").
		WithAdditionalSensor("pressure", 1013.25, "hPa")
	require.NoError(t, repo.Save(ctx, sd))

	got, err := repo.FindByDeviceID(ctx, "d")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 22.5, got[0].Temperature.Value)
	assert.Equal(t, 1013.25, got[0].AdditionalSensors["pressure"].Value)
}

func TestFindUnknownDeviceIsEmpty(t *testing.T) {
	repo := NewMemoryRepository()
	got, err := repo.FindByDeviceID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSaveDoesNotDeduplicate(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	sd := entities.NewSensorData("d", ts).WithCO2(500, "ppm")
	require.NoError(t, repo.Save(ctx, sd))
	require.NoError(t, repo.Save(ctx, sd))
	require.NoError(t, repo.Save(ctx, entities.NewSensorData("other", ts)))

	got, err := repo.FindByDeviceID(ctx, "d")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStoredRecordsAreIsolated(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	sd := entities.NewSensorData("d", ts).WithHumidity(40, "%")
	require.NoError(t, repo.Save(ctx, sd))
	sd.Humidity.Value = 99

	got, _ := repo.FindByDeviceID(ctx, "d")
	got[0].AdditionalSensors["x"] = entities.Measurement{Value: 1}

	again, _ := repo.FindByDeviceID(ctx, "d")
	assert.Equal(t, 40.0, again[0].Humidity.Value)
	assert.Empty(t, again[0].AdditionalSensors)
}

func TestCancelledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Save(ctx, entities.NewSensorData("d", ts)), context.Canceled)
	_, err := repo.FindByDeviceID(ctx, "d")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentSaves(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Save(ctx, entities.NewSensorData(fmt.Sprintf("d%d", i%5), ts))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		got, err := repo.FindByDeviceID(ctx, fmt.Sprintf("d%d", i))
		require.NoError(t, err)
		assert.Len(t, got, 10)
	}
}

func TestOpenBackends(t *testing.T) {
	s, err := Open("", InfluxConfig{}, DynamoConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, s)

	_, err = Open("influx", InfluxConfig{}, DynamoConfig{})
	assert.Error(t, err)

	_, err = Open("dynamo", InfluxConfig{}, DynamoConfig{})
	assert.Error(t, err)

	_, err = Open("mongo", InfluxConfig{}, DynamoConfig{})
	assert.Error(t, err)
}
