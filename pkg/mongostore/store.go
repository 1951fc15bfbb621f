package mongostore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/iplog"
)

const (
	devicesCollection = "devices"
	ipLogsCollection  = "ip_logs"

	indexFingerprint = "devices_fingerprint_key"
	indexOneActive   = "ip_logs_one_active_per_device"
	indexDeviceID    = "ip_logs_device_id_idx"
)

// EnsureIndexes creates the indexes both stores depend on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(devicesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "fingerprint", Value: 1}},
		Options: options.Index().SetName(indexFingerprint).SetUnique(true),
	})
	if err != nil {
		return errors.Join(device.ErrStorage, err)
	}

	_, err = db.Collection(ipLogsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "device_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName(indexDeviceID),
		},
		{
			Keys: bson.D{{Key: "device_id", Value: 1}},
			Options: options.Index().
				SetName(indexOneActive).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "status", Value: string(iplog.StatusActive)}}),
		},
	})
	if err != nil {
		return errors.Join(iplog.ErrStorage, err)
	}
	return nil
}

// Devices implements device.Store on MongoDB.
type Devices struct {
	coll *mongo.Collection
}

// NewDevices creates a device store on db's devices collection.
func NewDevices(db *mongo.Database) *Devices {
	return &Devices{coll: db.Collection(devicesCollection)}
}

// GetByFingerprint implements device.Store.
func (s *Devices) GetByFingerprint(ctx context.Context, fingerprint string) (*device.Device, error) {
	var doc deviceDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "fingerprint", Value: fingerprint}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, device.ErrNotFound
		}
		return nil, errors.Join(device.ErrStorage, err)
	}
	d, err := doc.toDevice()
	if err != nil {
		return nil, errors.Join(device.ErrStorage, err)
	}
	return d, nil
}

// Create implements device.Store.
func (s *Devices) Create(ctx context.Context, d *device.Device) error {
	if err := d.Validate(); err != nil {
		return err
	}
	_, err := s.coll.InsertOne(ctx, toDeviceDoc(d))
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return device.ErrDuplicateFingerprint
	default:
		return errors.Join(device.ErrStorage, err)
	}
}

// IPLogs implements iplog.Store on MongoDB.
type IPLogs struct {
	coll    *mongo.Collection
	devices *mongo.Collection
}

// NewIPLogs creates an IP log store on db's ip_logs collection.
func NewIPLogs(db *mongo.Database) *IPLogs {
	return &IPLogs{
		coll:    db.Collection(ipLogsCollection),
		devices: db.Collection(devicesCollection),
	}
}

// ActiveForDevice implements iplog.Store.
func (s *IPLogs) ActiveForDevice(ctx context.Context, deviceID uuid.UUID) (*iplog.IPLog, error) {
	var doc ipLogDoc
	err := s.coll.FindOne(ctx, bson.D{
		{Key: "device_id", Value: deviceID.String()},
		{Key: "status", Value: string(iplog.StatusActive)},
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, iplog.ErrNotFound
		}
		return nil, errors.Join(iplog.ErrStorage, err)
	}
	e, err := doc.toIPLog()
	if err != nil {
		return nil, errors.Join(iplog.ErrStorage, err)
	}
	return e, nil
}

// Rotate implements iplog.Store with two writes: deactivate, then insert.
// A failure between them leaves the device without an ACTIVE entry until its
// next sighting. The partial unique index turns a concurrent insert for the
// same device into ErrConcurrentRotation. Entries for a device that is not in
// the devices collection are rejected with iplog.ErrUnknownDevice.
func (s *IPLogs) Rotate(ctx context.Context, entry *iplog.IPLog) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	n, err := s.devices.CountDocuments(ctx, bson.D{{Key: "_id", Value: entry.DeviceID.String()}}, options.Count().SetLimit(1))
	if err != nil {
		return errors.Join(iplog.ErrStorage, err)
	}
	if n == 0 {
		return errors.Join(iplog.ErrStorage, iplog.ErrUnknownDevice)
	}

	_, err = s.coll.UpdateMany(ctx,
		bson.D{
			{Key: "device_id", Value: entry.DeviceID.String()},
			{Key: "status", Value: string(iplog.StatusActive)},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(iplog.StatusInactive)},
			{Key: "updated_at", Value: entry.UpdatedAt},
		}}},
	)
	if err != nil {
		return errors.Join(iplog.ErrStorage, err)
	}

	if _, err := s.coll.InsertOne(ctx, toIPLogDoc(entry)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Join(iplog.ErrStorage, ErrConcurrentRotation, err)
		}
		return errors.Join(iplog.ErrStorage, err)
	}
	return nil
}

// ListByDevice implements iplog.Store.
func (s *IPLogs) ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]iplog.IPLog, error) {
	cur, err := s.coll.Find(ctx,
		bson.D{{Key: "device_id", Value: deviceID.String()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, errors.Join(iplog.ErrStorage, err)
	}

	var docs []ipLogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Join(iplog.ErrStorage, err)
	}

	out := make([]iplog.IPLog, 0, len(docs))
	for _, doc := range docs {
		e, err := doc.toIPLog()
		if err != nil {
			return nil, errors.Join(iplog.ErrStorage, err)
		}
		out = append(out, *e)
	}
	return out, nil
}
