package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
)

// Ensure SearchLogStore implements the interface.
var _ driven.SearchLogStore = (*SearchLogStore)(nil)

// defaultMaxEntries bounds the in-memory history.
const defaultMaxEntries = 1000

// SearchLogStore is an in-memory implementation of driven.SearchLogStore.
// Oldest entries are dropped once the store holds maxEntries.
type SearchLogStore struct {
	mu         sync.RWMutex
	entries    []domain.SearchLogEntry
	maxEntries int
}

// NewSearchLogStore creates a new in-memory search log.
// A non-positive maxEntries uses the default bound.
func NewSearchLogStore(maxEntries int) *SearchLogStore {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &SearchLogStore{maxEntries: maxEntries}
}

// Record appends an entry.
func (s *SearchLogStore) Record(_ context.Context, entry domain.SearchLogEntry) error {
	if entry.ID == "" {
		return domain.ErrInvalidInput
	}
	entry.Sources = append([]domain.SourceName(nil), entry.Sources...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.maxEntries; over > 0 {
		s.entries = append(s.entries[:0:0], s.entries[over:]...)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SearchLogStore) Recent(_ context.Context, limit int) ([]domain.SearchLogEntry, error) {
	s.mu.RLock()
	out := make([]domain.SearchLogEntry, len(s.entries))
	copy(out, s.entries)
	s.mu.RUnlock()

	// Stable over insertion order so equal timestamps list the later record first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get retrieves an entry by ID.
func (s *SearchLogStore) Get(_ context.Context, id string) (*domain.SearchLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ID == id {
			e := s.entries[i]
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}
