package driven

import (
	"context"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// SearchLogStore persists search history.
type SearchLogStore interface {
	// Record appends an entry.
	Record(ctx context.Context, entry domain.SearchLogEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error)

	// Get retrieves an entry by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.SearchLogEntry, error)
}
