package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.UnifiedSearchService.
type mockSearchService struct {
	set  domain.RankedResultSet
	err  error
	last domain.SearchQuery
}

func (m *mockSearchService) Search(_ context.Context, q domain.SearchQuery) (domain.RankedResultSet, error) {
	m.last = q
	return m.set, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	integrations map[domain.SourceName]domain.Credentials
}

func (m *mockSettingsService) Get() (domain.AggregatorSettings, error) {
	return domain.DefaultAggregatorSettings(), nil
}

func (m *mockSettingsService) Save(domain.AggregatorSettings) error { return nil }

func (m *mockSettingsService) Integrations() map[domain.SourceName]domain.Credentials {
	out := make(map[domain.SourceName]domain.Credentials, len(m.integrations))
	for k, v := range m.integrations {
		out[k] = v
	}
	return out
}

func (m *mockSettingsService) SetIntegration(domain.SourceName, domain.Credentials) error { return nil }

func (m *mockSettingsService) RemoveIntegration(domain.SourceName) error { return nil }

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries []domain.SearchLogEntry
	entry   *domain.SearchLogEntry
	err     error
}

func (m *mockHistoryService) Recent(_ context.Context, _ int) ([]domain.SearchLogEntry, error) {
	return m.entries, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.SearchLogEntry, error) {
	return m.entry, m.err
}

func connectedSettings() *mockSettingsService {
	return &mockSettingsService{integrations: map[domain.SourceName]domain.Credentials{
		domain.SourceJira:   {AccessToken: "jira-token", CloudID: "cloud-1", Workspace: "Acme"},
		domain.SourceNotion: {AccessToken: "notion-token", Workspace: "Acme Notes"},
	}}
}
