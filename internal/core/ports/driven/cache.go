package driven

import "github.com/custodia-labs/sercha-unified/internal/core/domain"

// ResultCache memoises aggregated result sets.
// Implementations must be safe for concurrent use. Expiry is the
// implementation's concern: Get reports false for stale entries.
type ResultCache interface {
	// Get returns the cached set for key if present and fresh.
	Get(key string) (domain.RankedResultSet, bool)

	// Set stores value under key. Last writer wins.
	Set(key string, value domain.RankedResultSet)
}
