package devicecache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/logger"
)

// Config controls the cache.
type Config struct {
	Enabled   bool          `env:"DEVICE_CACHE_ENABLED" envDefault:"false"`
	TTL       time.Duration `env:"DEVICE_CACHE_TTL" envDefault:"24h"`
	KeyPrefix string        `env:"DEVICE_CACHE_KEY_PREFIX" envDefault:"device:fp:"`
}

// Store is a read-through Redis cache in front of a device.Store.
//
// Devices never change after creation, but they can be deleted outside this
// module. A cached entry for a deleted device lives until Evict or its TTL.
// Redis failures are logged and the call falls through to the wrapped store;
// the cache never makes a request fail.
type Store struct {
	next   device.Store
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// New wraps next with a cache on client.
func New(next device.Store, client redis.UniversalClient, cfg Config, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "device:fp:"
	}
	return &Store{
		next:   next,
		client: client,
		ttl:    cfg.TTL,
		prefix: cfg.KeyPrefix,
		logger: log.With(logger.Component("devicecache")),
	}
}

// GetByFingerprint implements device.Store.
func (s *Store) GetByFingerprint(ctx context.Context, fingerprint string) (*device.Device, error) {
	key := s.prefix + fingerprint

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var d device.Device
		if err := json.Unmarshal(raw, &d); err == nil {
			return &d, nil
		}
		s.logger.WarnContext(ctx, "dropping undecodable cache entry", logger.Fingerprint(fingerprint))
		s.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		s.logger.WarnContext(ctx, "device cache read failed", logger.Fingerprint(fingerprint), logger.Error(err))
	}

	d, err := s.next.GetByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	s.set(ctx, d)
	return d, nil
}

// Create implements device.Store. The device is cached only after the wrapped
// store accepted it.
func (s *Store) Create(ctx context.Context, d *device.Device) error {
	if err := s.next.Create(ctx, d); err != nil {
		return err
	}
	s.set(ctx, d)
	return nil
}

// Evict drops the cached device for fingerprint. Callers use it when storage
// reports that a device returned by GetByFingerprint no longer exists.
func (s *Store) Evict(ctx context.Context, fingerprint string) error {
	if err := s.client.Del(ctx, s.prefix+fingerprint).Err(); err != nil {
		s.logger.WarnContext(ctx, "device cache evict failed", logger.Fingerprint(fingerprint), logger.Error(err))
		return errors.Join(ErrEvict, err)
	}
	return nil
}

func (s *Store) set(ctx context.Context, d *device.Device) {
	raw, err := json.Marshal(d)
	if err != nil {
		s.logger.WarnContext(ctx, "device cache encode failed", logger.Fingerprint(d.Fingerprint), logger.Error(err))
		return
	}
	// SetNX: whichever request cached first wins, matching the stored row
	if err := s.client.SetNX(ctx, s.prefix+d.Fingerprint, raw, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "device cache write failed", logger.Fingerprint(d.Fingerprint), logger.Error(err))
	}
}
