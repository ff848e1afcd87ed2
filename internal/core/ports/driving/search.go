package driving

import (
	"context"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// UnifiedSearchService provides cross-source search to external actors.
type UnifiedSearchService interface {
	// Search fans the query out to the relevant connected providers and
	// returns one ranked list. Provider failures degrade the result set
	// instead of returning an error.
	Search(ctx context.Context, query domain.SearchQuery) (domain.RankedResultSet, error)
}
