package driving

import "github.com/custodia-labs/sercha-unified/internal/core/domain"

// SettingsService manages aggregator settings and configured integrations.
type SettingsService interface {
	// Get returns current aggregator settings with defaults applied.
	Get() (domain.AggregatorSettings, error)

	// Save persists aggregator settings.
	Save(settings domain.AggregatorSettings) error

	// Integrations returns configured credentials per source.
	// Environment overrides take precedence over the config file.
	Integrations() map[domain.SourceName]domain.Credentials

	// SetIntegration stores credentials for one source.
	SetIntegration(source domain.SourceName, creds domain.Credentials) error

	// RemoveIntegration clears stored credentials for one source.
	RemoveIntegration(source domain.SourceName) error
}
