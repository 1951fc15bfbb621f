package devicecache_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/devicetrack/pkg/device"
	"github.com/dmitrymomot/devicetrack/pkg/devicecache"
	"github.com/dmitrymomot/devicetrack/pkg/logger"
	"github.com/dmitrymomot/devicetrack/pkg/useragent"
)

func strPtr(s string) *string { return &s }

type countingStore struct {
	*device.MemoryStore
	gets atomic.Int32
}

func (s *countingStore) GetByFingerprint(ctx context.Context, fp string) (*device.Device, error) {
	s.gets.Add(1)
	return s.MemoryStore.GetByFingerprint(ctx, fp)
}

// mapRedis implements the commands the cache uses on a map. Any other
// command panics on the nil embedded client.
type mapRedis struct {
	redis.UniversalClient
	mu   sync.Mutex
	data map[string]string
}

func newMapRedis() *mapRedis { return &mapRedis{data: map[string]string{}} }

func (m *mapRedis) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mapRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = string(value.([]byte))
	return redis.NewBoolResult(true, nil)
}

func (m *mapRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// deletableStore lets a test remove a device behind the cache's back.
type deletableStore struct {
	*device.MemoryStore
	mu      sync.Mutex
	deleted map[string]bool
}

func (s *deletableStore) delete(fp string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted[fp] = true
}

func (s *deletableStore) GetByFingerprint(ctx context.Context, fp string) (*device.Device, error) {
	s.mu.Lock()
	gone := s.deleted[fp]
	s.mu.Unlock()
	if gone {
		return nil, device.ErrNotFound
	}
	return s.MemoryStore.GetByFingerprint(ctx, fp)
}

func newDevice() *device.Device {
	info := useragent.Classify(strPtr("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"), useragent.ClientHints{})
	return device.New(info, time.Now())
}

func TestStore_RedisUnavailable(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	next := &countingStore{MemoryStore: device.NewMemoryStore()}
	cache := devicecache.New(next, client, devicecache.Config{TTL: time.Minute}, logger.Nop())
	ctx := context.Background()

	d := newDevice()
	require.NoError(t, cache.Create(ctx, d))

	got, err := cache.GetByFingerprint(ctx, d.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, int32(1), next.gets.Load())

	_, err = cache.GetByFingerprint(ctx, "missing")
	require.ErrorIs(t, err, device.ErrNotFound)

	require.ErrorIs(t, cache.Create(ctx, newDevice()), device.ErrDuplicateFingerprint)
}

func TestStore_ReadThrough(t *testing.T) {
	t.Parallel()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	prefix := "devicecache_test:" + uuid.NewString() + ":"
	next := &countingStore{MemoryStore: device.NewMemoryStore()}
	cache := devicecache.New(next, client, devicecache.Config{TTL: time.Minute, KeyPrefix: prefix}, logger.Nop())

	d := newDevice()
	require.NoError(t, next.Create(ctx, d))

	first, err := cache.GetByFingerprint(ctx, d.Fingerprint)
	require.NoError(t, err)
	second, err := cache.GetByFingerprint(ctx, d.Fingerprint)
	require.NoError(t, err)

	assert.Equal(t, *d, *first)
	assert.Equal(t, *d, *second)
	assert.Equal(t, int32(1), next.gets.Load(), "second read is served from redis")

	ttl, err := client.TTL(ctx, prefix+d.Fingerprint).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	_, err = cache.GetByFingerprint(ctx, "missing")
	require.ErrorIs(t, err, device.ErrNotFound)
	exists, err := client.Exists(ctx, prefix+"missing").Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "misses are not cached")

	require.NoError(t, client.Del(ctx, prefix+d.Fingerprint).Err())
}

func TestStore_Evict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rdb := newMapRedis()
	next := &deletableStore{MemoryStore: device.NewMemoryStore(), deleted: map[string]bool{}}
	cache := devicecache.New(next, rdb, devicecache.Config{TTL: time.Hour}, logger.Nop())

	d := newDevice()
	require.NoError(t, cache.Create(ctx, d))
	next.delete(d.Fingerprint)

	stale, err := cache.GetByFingerprint(ctx, d.Fingerprint)
	require.NoError(t, err, "entry is served until evicted")
	assert.Equal(t, d.ID, stale.ID)

	require.NoError(t, cache.Evict(ctx, d.Fingerprint))

	_, err = cache.GetByFingerprint(ctx, d.Fingerprint)
	require.ErrorIs(t, err, device.ErrNotFound)
	assert.Empty(t, rdb.data)

	require.NoError(t, cache.Evict(ctx, d.Fingerprint), "evicting a missing key is fine")
}

func TestStore_EvictRedisUnavailable(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	cache := devicecache.New(device.NewMemoryStore(), client, devicecache.Config{TTL: time.Minute}, logger.Nop())
	require.ErrorIs(t, cache.Evict(context.Background(), "fp"), devicecache.ErrEvict)
}
