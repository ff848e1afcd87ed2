package driven

import (
	"context"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// ProviderAdapter searches one external knowledge source.
// Each provider (Google Drive, JIRA, Notion, GitHub) implements this interface.
//
// Adapters are stateless with respect to credentials: the bundle is passed
// on every call and never stored, so one adapter serves concurrent requests
// for different users.
type ProviderAdapter interface {
	// Source returns the provider this adapter serves.
	Source() domain.SourceName

	// Search translates the query into the provider's native syntax and
	// returns normalised items. Zero results is a valid, non-error outcome.
	// Transport, auth and decoding failures return a *domain.ProviderError,
	// never an empty result.
	Search(ctx context.Context, query string, creds domain.Credentials) (domain.AdapterResult, error)
}

// PageSizer is implemented by adapters whose page size can change at runtime.
// The aggregator pushes AggregatorSettings.MaxResultsPerProvider through it.
type PageSizer interface {
	SetPageSize(n int)
}
