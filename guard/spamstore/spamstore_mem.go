package spamstore

import (
	"context"
	"sync"
	"time"
)

type MemSpamStore struct {
	mu sync.Mutex
	// per-key timestamps in ascending order (insertion order = time order)
	events map[string][]time.Time
}

var _ SpamStore = (*MemSpamStore)(nil)

func NewMemSpamStore() *MemSpamStore {
	return &MemSpamStore{
		events: make(map[string][]time.Time),
	}
}

func (s *MemSpamStore) Observe(ctx context.Context, groupID, userID string, now time.Time, window time.Duration, threshold int) (bool, error) {
	key := bucketKey(groupID, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := append(s.events[key], now)
	cutoff := now.Add(-window)
	// timestamps are sorted, so surviving entries are a suffix
	start := 0
	for start < len(ts) && !ts[start].After(cutoff) {
		start++
	}
	ts = ts[start:]

	if len(ts) >= threshold {
		delete(s.events, key)
		return true, nil
	}
	s.events[key] = ts
	return false, nil
}

// Len reports the current number of retained timestamps for a key. Test
// helper.
func (s *MemSpamStore) Len(groupID, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events[bucketKey(groupID, userID)])
}
