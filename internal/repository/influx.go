package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/pkg/errors"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
)

// Tag values for the "slot" tag. Every record writes one header point so
// that a record without measurements still comes back from a query.
const (
	slotRecord     = "record"
	slotBuiltIn    = "builtin"
	slotAdditional = "additional"
)

const defaultMeasurement = "sensor_data"

// InfluxConfig holds the InfluxDB v2 connection settings.
type InfluxConfig struct {
	URL         string
	Token       string
	Org         string
	Bucket      string
	Measurement string
}

// InfluxRepository stores each record as a group of points sharing a
// record_id tag and timestamp: one header point plus one point per slot.
type InfluxRepository struct {
	client      influxdb2.Client
	write       api.WriteAPIBlocking
	query       api.QueryAPI
	bucket      string
	measurement string
	newID       func() uuid.UUID
}

func NewInfluxRepository(cfg InfluxConfig) (*InfluxRepository, error) {
	if cfg.URL == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return newInfluxRepository(client, cfg), nil
}

func newInfluxRepository(client influxdb2.Client, cfg InfluxConfig) *InfluxRepository {
	measurement := cfg.Measurement
	if measurement == "" {
		measurement = defaultMeasurement
	}
	return &InfluxRepository{
		client:      client,
		write:       client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		query:       client.QueryAPI(cfg.Org),
		bucket:      cfg.Bucket,
		measurement: sanitizeMeasurement(measurement),
		newID:       uuid.New,
	}
}

func (r *InfluxRepository) Save(ctx context.Context, data entities.SensorData) error {
	if data.DeviceID == "" {
		return errors.New("influx: device_id is required as a tag")
	}
	points := r.points(data, r.newID().String())
	if err := r.write.WritePoint(ctx, points...); err != nil {
		return errors.Wrapf(err, "influx: write record for %s", data.DeviceID)
	}
	return nil
}

func (r *InfluxRepository) points(data entities.SensorData, recordID string) []*write.Point {
	tags := func(slot, sensor string) map[string]string {
		t := map[string]string{
			"device_id": data.DeviceID,
			"record_id": recordID,
			"slot":      slot,
		}
		if sensor != "" {
			t["sensor"] = sensor
		}
		return t
	}

	ms := data.Measurements()
	pts := make([]*write.Point, 0, len(ms)+1)
	pts = append(pts, influxdb2.NewPoint(r.measurement,
		tags(slotRecord, ""),
		map[string]interface{}{"measurements": len(ms)},
		data.Timestamp))
	for _, m := range ms {
		slot := slotAdditional
		if m.BuiltIn {
			slot = slotBuiltIn
		}
		pts = append(pts, influxdb2.NewPoint(r.measurement,
			tags(slot, m.Name),
			map[string]interface{}{"value": m.Value, "unit": m.Unit},
			data.Timestamp))
	}
	return pts
}

// Bounds of the int64 nanosecond timestamps InfluxDB can store. Records may be
// dated in the future or before 1970.
const (
	fluxRangeStart = "1677-09-21T00:12:43.145224194Z"
	fluxRangeStop  = "2262-04-11T23:47:16.854775807Z"
)

func (r *InfluxRepository) fluxByDevice(deviceID string) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: time(v: %q), stop: time(v: %q))
  |> filter(fn: (r) => r._measurement == %q and r.device_id == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
`, r.bucket, fluxRangeStart, fluxRangeStop, r.measurement, deviceID)
}

func (r *InfluxRepository) FindByDeviceID(ctx context.Context, deviceID string) ([]entities.SensorData, error) {
	res, err := r.query.Query(ctx, r.fluxByDevice(deviceID))
	if err != nil {
		return nil, errors.Wrapf(err, "influx: query records for %s", deviceID)
	}
	defer func() { _ = res.Close() }()

	var rows []influxRow
	for res.Next() {
		rec := res.Record()
		rows = append(rows, influxRow{
			Time:     rec.Time(),
			RecordID: stringValue(rec.ValueByKey("record_id")),
			Slot:     stringValue(rec.ValueByKey("slot")),
			Sensor:   stringValue(rec.ValueByKey("sensor")),
			Unit:     stringValue(rec.ValueByKey("unit")),
			Value:    floatValue(rec.ValueByKey("value")),
		})
	}
	if err := res.Err(); err != nil {
		return nil, errors.Wrapf(err, "influx: read records for %s", deviceID)
	}
	return assembleRecords(deviceID, rows), nil
}

func (r *InfluxRepository) Ping(ctx context.Context) error {
	ok, err := r.client.Ping(ctx)
	if err != nil {
		return errors.Wrap(err, "influx: ping")
	}
	if !ok {
		return errors.New("influx: server not ready")
	}
	return nil
}

func (r *InfluxRepository) Close() { r.client.Close() }

// influxRow is one pivoted query row.
type influxRow struct {
	Time     time.Time
	RecordID string
	Slot     string
	Sensor   string
	Unit     string
	Value    float64
}

// assembleRecords groups rows by record_id back into records, oldest first.
func assembleRecords(deviceID string, rows []influxRow) []entities.SensorData {
	byID := make(map[string]*entities.SensorData)
	order := make([]string, 0)
	for _, row := range rows {
		sd, ok := byID[row.RecordID]
		if !ok {
			rec := entities.NewSensorData(deviceID, row.Time.UTC())
			sd = &rec
			byID[row.RecordID] = sd
			order = append(order, row.RecordID)
		}
		switch row.Slot {
		case slotBuiltIn:
			switch row.Sensor {
			case "temperature":
				*sd = sd.WithTemperature(row.Value, row.Unit)
			case "humidity":
				*sd = sd.WithHumidity(row.Value, row.Unit)
			case "co2":
				*sd = sd.WithCO2(row.Value, row.Unit)
			}
		case slotAdditional:
			*sd = sd.WithAdditionalSensor(row.Sensor, row.Value, row.Unit)
		}
	}

	out := make([]entities.SensorData, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func floatValue(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return 0
}

func sanitizeMeasurement(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == ':', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
