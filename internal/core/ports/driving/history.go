package driving

import (
	"context"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// HistoryService exposes recorded searches.
type HistoryService interface {
	// Recent returns up to limit searches, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error)

	// Get returns a single recorded search.
	Get(ctx context.Context, id string) (*domain.SearchLogEntry, error)
}
