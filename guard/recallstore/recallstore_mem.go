package recallstore

import (
	"context"
	"sync"
	"time"
)

// MemRecallStore sweeps lazily: every Record evicts all expired entries, so
// no background timer is needed and memory is bounded by recent traffic.
type MemRecallStore struct {
	// Now is the clock used for expiry checks; overridable in tests.
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

var _ RecallStore = (*MemRecallStore)(nil)

func NewMemRecallStore() *MemRecallStore {
	return &MemRecallStore{
		Now:     time.Now,
		entries: make(map[string]Entry),
	}
}

func (s *MemRecallStore) Record(ctx context.Context, messageID string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[messageID] = entry
	cutoff := s.Now().Add(-TTL)
	for id, e := range s.entries {
		if !e.Time.After(cutoff) {
			delete(s.entries, id)
		}
	}
	return nil
}

func (s *MemRecallStore) Consume(ctx context.Context, messageID string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[messageID]
	if !ok {
		return nil, nil
	}
	delete(s.entries, messageID)
	// expiry is also enforced on read: sweeps only run on writes, so an idle
	// cache can still hold stale entries
	if !s.Now().Before(e.Time.Add(TTL)) {
		return nil, nil
	}
	return &e, nil
}

// Len reports the number of retained entries. Test helper.
func (s *MemRecallStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
