package iplog

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	byDevice map[uuid.UUID][]IPLog
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byDevice: make(map[uuid.UUID][]IPLog)}
}

func (s *MemoryStore) ActiveForDevice(ctx context.Context, deviceID uuid.UUID) (*IPLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.byDevice[deviceID] {
		if e.Status == StatusActive {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Rotate(ctx context.Context, entry *IPLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.byDevice[*entry.DeviceID]
	for i := range entries {
		if entries[i].Status == StatusActive {
			entries[i].Status = StatusInactive
			entries[i].UpdatedAt = entry.UpdatedAt
		}
	}
	s.byDevice[*entry.DeviceID] = append(entries, *entry)
	return nil
}

func (s *MemoryStore) ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]IPLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.byDevice[deviceID])
	slices.Reverse(out)
	return out, nil
}

// CountActive returns the number of ACTIVE entries for the device.
func (s *MemoryStore) CountActive(deviceID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.byDevice[deviceID] {
		if e.Status == StatusActive {
			n++
		}
	}
	return n
}
