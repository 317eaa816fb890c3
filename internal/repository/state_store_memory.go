package repository

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	count     int64
	expiresAt time.Time
	hasTTL    bool
}

func (e memEntry) isExpired(now time.Time) bool {
	return e.hasTTL && !now.Before(e.expiresAt)
}

type memoryStateStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryStateStore() StateStore {
	return &memoryStateStore{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (s *memoryStateStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || entry.isExpired(now) {
		entry = memEntry{}
		if ttl > 0 {
			entry.hasTTL = true
			entry.expiresAt = now.Add(ttl)
		}
	}
	entry.count++
	s.entries[key] = entry
	s.sweepLocked(now)
	return entry.count, nil
}

func (s *memoryStateStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || !entry.hasTTL || entry.isExpired(now) {
		return 0, nil
	}
	return entry.expiresAt.Sub(now), nil
}

// sweepLocked drops expired counters once the map grows large.
func (s *memoryStateStore) sweepLocked(now time.Time) {
	if len(s.entries) < 4096 {
		return
	}
	for k, e := range s.entries {
		if e.isExpired(now) {
			delete(s.entries, k)
		}
	}
}
