package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// defaultHistoryLimit applies when callers pass a non-positive limit.
const defaultHistoryLimit = 20

// maxHistoryLimit bounds a single listing.
const maxHistoryLimit = 500

// HistoryService reads recorded searches.
type HistoryService struct {
	store driven.SearchLogStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.SearchLogStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns up to limit searches, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	return entries, nil
}

// Get returns a single recorded search.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.SearchLogEntry, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: search id is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}
