package repository

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/google/uuid"
	"github.com/guregu/dynamo"
	"github.com/pkg/errors"

	"github.com/LeonardoBeccarini/sensor_store/internal/model/entities"
)

// DynamoConfig selects the table and, for local runs, a custom endpoint.
type DynamoConfig struct {
	Table    string
	Region   string
	Endpoint string
}

// DynamoRepository stores one item per record, hash key device_id and
// range key record_key.
type DynamoRepository struct {
	table dynamo.Table
	newID func() uuid.UUID
}

func NewDynamoRepository(cfg DynamoConfig) (*DynamoRepository, error) {
	if cfg.Table == "" {
		return nil, errors.New("dynamo: table name is required")
	}
	awsCfg := aws.NewConfig()
	if cfg.Region != "" {
		awsCfg = awsCfg.WithRegion(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	sess, err := session.NewSession()
	if err != nil {
		return nil, errors.Wrap(err, "dynamo: aws session")
	}
	db := dynamo.New(sess, awsCfg)
	return &DynamoRepository{table: db.Table(cfg.Table), newID: uuid.New}, nil
}

// Save rejects an empty device id before calling DynamoDB, which does not
// accept empty key attributes.
func (d *DynamoRepository) Save(ctx context.Context, data entities.SensorData) error {
	if data.DeviceID == "" {
		return errors.New("dynamo: device_id is the hash key and must not be empty")
	}
	doc := ToDocument(data)
	doc.RecordKey = recordKey(data.Timestamp, d.newID())
	if err := d.table.Put(doc).RunWithContext(ctx); err != nil {
		return errors.Wrapf(err, "dynamo: put record for %s", data.DeviceID)
	}
	return nil
}

func (d *DynamoRepository) FindByDeviceID(ctx context.Context, deviceID string) ([]entities.SensorData, error) {
	var docs []Document
	err := d.table.Get("device_id", deviceID).AllWithContext(ctx, &docs)
	if err != nil && !errors.Is(err, dynamo.ErrNotFound) {
		return nil, errors.Wrapf(err, "dynamo: query records for %s", deviceID)
	}
	out := make([]entities.SensorData, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.SensorData())
	}
	return out, nil
}

func (d *DynamoRepository) Ping(ctx context.Context) error {
	if _, err := d.table.Describe().RunWithContext(ctx); err != nil {
		return errors.Wrap(err, "dynamo: describe table")
	}
	return nil
}

func (d *DynamoRepository) Close() {}
