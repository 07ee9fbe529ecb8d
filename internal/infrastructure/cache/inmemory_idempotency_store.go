package cache

import (
	"context"
	"sync"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
)

// sweepEvery is the number of writes between scans for expired keys
const sweepEvery = 256

// InMemoryIdempotencyStore keeps processed event ids in a map. It is used
// when no redis is configured, which is fine for a single API instance.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time // event id -> expiry
	writes  int
	now     func() time.Time
	closed  bool
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkProcessed records eventID for ttl. It returns false when the id is
// already recorded and has not expired.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiry, ok := s.entries[eventID]; ok && now.Before(expiry) {
		return false, nil
	}
	s.entries[eventID] = now.Add(ttl)

	s.writes++
	if s.writes%sweepEvery == 0 {
		s.sweepLocked(now)
	}
	return true, nil
}

// IsProcessed reports whether eventID is recorded and not expired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.entries[eventID]
	return ok && s.now().Before(expiry), nil
}

// Sweep removes expired ids and returns how many were dropped
func (s *InMemoryIdempotencyStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *InMemoryIdempotencyStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, expiry := range s.entries {
		if !now.Before(expiry) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Close drops every entry. It is safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.entries = make(map[string]time.Time)
		s.closed = true
	}
	return nil
}

// Size returns the number of recorded ids, expired or not
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
