package cli

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

type mockSearchService struct {
	set   domain.RankedResultSet
	err   error
	calls []domain.SearchQuery
}

func (m *mockSearchService) Search(_ context.Context, q domain.SearchQuery) (domain.RankedResultSet, error) {
	m.calls = append(m.calls, q)
	return m.set, m.err
}

type mockSettingsService struct {
	settings     domain.AggregatorSettings
	saved        *domain.AggregatorSettings
	saveErr      error
	integrations map[domain.SourceName]domain.Credentials
	setSource    domain.SourceName
	setCreds     domain.Credentials
	removed      []domain.SourceName
}

func (m *mockSettingsService) Get() (domain.AggregatorSettings, error) {
	return m.settings, nil
}

func (m *mockSettingsService) Save(s domain.AggregatorSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &s
	return nil
}

func (m *mockSettingsService) Integrations() map[domain.SourceName]domain.Credentials {
	return m.integrations
}

func (m *mockSettingsService) SetIntegration(source domain.SourceName, creds domain.Credentials) error {
	m.setSource = source
	m.setCreds = creds
	return nil
}

func (m *mockSettingsService) RemoveIntegration(source domain.SourceName) error {
	m.removed = append(m.removed, source)
	return nil
}

type mockHistoryService struct {
	entries []domain.SearchLogEntry
	entry   *domain.SearchLogEntry
	err     error
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if limit > 0 && len(m.entries) > limit {
		return m.entries[:limit], m.err
	}
	return m.entries, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.SearchLogEntry, error) {
	return m.entry, m.err
}

type testServices struct {
	search   *mockSearchService
	settings *mockSettingsService
	history  *mockHistoryService
}

func sampleResultSet() domain.RankedResultSet {
	modified := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return domain.RankedResultSet{
		RequestID: "req-1",
		Query:     "payment retries",
		Intent:    domain.IntentAll,
		Results: []domain.RankedItem{
			{
				ResultItem: domain.ResultItem{
					ID:         "PAY-12",
					Title:      "Payment retries fail on expired cards",
					Source:     domain.SourceJira,
					ItemType:   domain.ItemTypeIssue,
					URL:        "https://acme.atlassian.net/browse/PAY-12",
					Snippet:    "Retries stop after the first decline",
					Timestamps: domain.Timestamps{Modified: modified},
				},
				Relevance: 0.91,
			},
			{
				ResultItem: domain.ResultItem{
					ID:       "doc-1",
					Title:    "Payments runbook",
					Source:   domain.SourceGoogleDrive,
					ItemType: domain.ItemTypeFile,
				},
				Relevance: 0.42,
			},
		},
		Total:     2,
		Sources:   []domain.SourceName{domain.SourceJira, domain.SourceGoogleDrive},
		Timestamp: modified,
	}
}

// setupTestServices installs mock services and resets flag state between runs.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		search: &mockSearchService{set: sampleResultSet()},
		settings: &mockSettingsService{
			settings: domain.DefaultAggregatorSettings(),
			integrations: map[domain.SourceName]domain.Credentials{
				domain.SourceJira:        {AccessToken: "jira-secret-token", CloudID: "cloud-1", Workspace: "Acme"},
				domain.SourceGoogleDrive: {AccessToken: "drive-secret-token"},
			},
		},
		history: &mockHistoryService{},
	}
	SetServices(&Services{Search: ts.search, Settings: ts.settings, History: ts.history})
	resetFlags(rootCmd)

	return ts, func() {
		SetServices(nil)
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		promptInput = strings.NewReader("")
	}
}

// resetFlags restores every flag in the tree to its default and clears Changed.
func resetFlags(cmd *cobra.Command) {
	searchSources = nil
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns combined output.
func run(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
