package report

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps reports in process memory, newest first.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []*Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores a report.
func (s *MemoryStore) Save(ctx context.Context, r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return nil
}

// List returns the most recent reports, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.reports)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
