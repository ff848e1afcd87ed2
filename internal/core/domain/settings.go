package domain

import "time"

// Default aggregator settings.
const (
	DefaultProviderTimeout       = 20 * time.Second
	DefaultCacheTTL              = 5 * time.Minute
	DefaultMaxResultsPerProvider = 25
)

// AggregatorSettings tunes the unified search orchestrator.
type AggregatorSettings struct {
	// ProviderTimeout bounds each individual adapter call.
	ProviderTimeout time.Duration `json:"provider_timeout"`

	// CacheTTL is how long an aggregated result set is reused.
	CacheTTL time.Duration `json:"cache_ttl"`

	// MaxResultsPerProvider is the page size requested from each provider.
	MaxResultsPerProvider int `json:"max_results_per_provider"`

	// IncludePlaceholders attaches labelled demo items to degraded sources.
	IncludePlaceholders bool `json:"include_placeholders"`

	// BroadenUnconnectedIntent searches every connected provider when the
	// intent names a provider that is not connected. Off by default: such a
	// query returns an empty set.
	BroadenUnconnectedIntent bool `json:"broaden_unconnected_intent"`
}

// DefaultAggregatorSettings returns the default orchestrator settings.
func DefaultAggregatorSettings() AggregatorSettings {
	return AggregatorSettings{
		ProviderTimeout:          DefaultProviderTimeout,
		CacheTTL:                 DefaultCacheTTL,
		MaxResultsPerProvider:    DefaultMaxResultsPerProvider,
		IncludePlaceholders:      true,
		BroadenUnconnectedIntent: false,
	}
}
