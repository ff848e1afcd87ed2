package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyProviderTimeout     = "search.provider_timeout_seconds"
	keyCacheTTL            = "search.cache_ttl_seconds"
	keyMaxResults          = "search.max_results_per_provider"
	keyIncludePlaceholders = "search.include_placeholders"
	keyBroadenIntent       = "search.broaden_unconnected_intent"

	integrationPrefix = "integrations."
	fieldAccessToken  = "access_token"
	fieldCloudID      = "cloud_id"
	fieldSiteURL      = "site_url"
	fieldWorkspace    = "workspace"
)

// SettingsService manages aggregator settings and integrations.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Useful for testing.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get retrieves current aggregator settings.
func (s *SettingsService) Get() (domain.AggregatorSettings, error) {
	defaults := domain.DefaultAggregatorSettings()

	return domain.AggregatorSettings{
		ProviderTimeout:          s.getSeconds(keyProviderTimeout, defaults.ProviderTimeout),
		CacheTTL:                 s.getSeconds(keyCacheTTL, defaults.CacheTTL),
		MaxResultsPerProvider:    s.getInt(keyMaxResults, defaults.MaxResultsPerProvider),
		IncludePlaceholders:      s.getBool(keyIncludePlaceholders, defaults.IncludePlaceholders),
		BroadenUnconnectedIntent: s.getBool(keyBroadenIntent, defaults.BroadenUnconnectedIntent),
	}, nil
}

// Save persists aggregator settings.
func (s *SettingsService) Save(settings domain.AggregatorSettings) error {
	if settings.ProviderTimeout < time.Second || settings.CacheTTL < time.Second {
		return fmt.Errorf("%w: provider timeout and cache TTL are stored in whole seconds", domain.ErrInvalidInput)
	}
	if settings.MaxResultsPerProvider <= 0 {
		return fmt.Errorf("%w: max results per provider must be positive", domain.ErrInvalidInput)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyProviderTimeout, int64(settings.ProviderTimeout / time.Second)},
		{keyCacheTTL, int64(settings.CacheTTL / time.Second)},
		{keyMaxResults, int64(settings.MaxResultsPerProvider)},
		{keyIncludePlaceholders, settings.IncludePlaceholders},
		{keyBroadenIntent, settings.BroadenUnconnectedIntent},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Integrations returns configured credentials for every known source.
// SERCHA_<SOURCE>_TOKEN, SERCHA_<SOURCE>_CLOUD_ID, SERCHA_<SOURCE>_SITE_URL and
// SERCHA_<SOURCE>_WORKSPACE override the config file.
func (s *SettingsService) Integrations() map[domain.SourceName]domain.Credentials {
	out := make(map[domain.SourceName]domain.Credentials)
	for _, source := range domain.AllSources {
		creds := domain.Credentials{
			AccessToken: s.integrationValue(source, fieldAccessToken, "TOKEN"),
			CloudID:     s.integrationValue(source, fieldCloudID, "CLOUD_ID"),
			SiteURL:     s.integrationValue(source, fieldSiteURL, "SITE_URL"),
			Workspace:   s.integrationValue(source, fieldWorkspace, "WORKSPACE"),
		}
		if creds.Connected() {
			out[source] = creds
		}
	}
	return out
}

// SetIntegration stores credentials for one source.
func (s *SettingsService) SetIntegration(source domain.SourceName, creds domain.Credentials) error {
	canonical, ok := domain.ParseSourceName(string(source))
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSource, source)
	}
	source = canonical
	if !creds.Connected() {
		return fmt.Errorf("%w: access token is required", domain.ErrInvalidInput)
	}
	if source == domain.SourceJira && creds.CloudID == "" {
		return fmt.Errorf("%w: jira requires a cloud id", domain.ErrInvalidInput)
	}

	return s.SetIntegrationFields(source, map[string]string{
		fieldAccessToken: creds.AccessToken,
		fieldCloudID:     creds.CloudID,
		fieldSiteURL:     creds.SiteURL,
		fieldWorkspace:   creds.Workspace,
	})
}

// RemoveIntegration clears stored credentials for one source.
func (s *SettingsService) RemoveIntegration(source domain.SourceName) error {
	return s.SetIntegrationFields(source, map[string]string{
		fieldAccessToken: "",
		fieldCloudID:     "",
		fieldSiteURL:     "",
		fieldWorkspace:   "",
	})
}

// SetIntegrationFields writes raw integration fields without validation.
func (s *SettingsService) SetIntegrationFields(source domain.SourceName, fields map[string]string) error {
	canonical, ok := domain.ParseSourceName(string(source))
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSource, source)
	}
	source = canonical
	for field, value := range fields {
		if err := s.configStore.Set(integrationKey(source, field), value); err != nil {
			return fmt.Errorf("save %s %s: %w", source, field, err)
		}
	}
	return nil
}

// integrationValue reads one credential field, preferring the environment.
func (s *SettingsService) integrationValue(source domain.SourceName, field, envSuffix string) string {
	if s.getenv != nil {
		if v := strings.TrimSpace(s.getenv(envKey(source, envSuffix))); v != "" {
			return v
		}
	}
	return strings.TrimSpace(s.configStore.GetString(integrationKey(source, field)))
}

func integrationKey(source domain.SourceName, field string) string {
	return integrationPrefix + string(source) + "." + field
}

func envKey(source domain.SourceName, suffix string) string {
	return "SERCHA_" + strings.ToUpper(string(source)) + "_" + suffix
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if v := s.configStore.GetInt(key); v > 0 {
		return time.Duration(v) * time.Second
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
