package notion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
	"github.com/custodia-labs/sercha-unified/internal/connectors/ratelimit"
	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// fakeSearcher answers in order and records each request.
type fakeSearcher struct {
	mu        sync.Mutex
	responses []*notionapi.SearchResponse
	err       error
	requests  []*notionapi.SearchRequest
}

func (f *fakeSearcher) Do(_ context.Context, req *notionapi.SearchRequest) (*notionapi.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &notionapi.SearchResponse{}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeSearcher) queries() []string {
	out := make([]string, len(f.requests))
	for i, r := range f.requests {
		out[i] = r.Query
	}
	return out
}

func rich(s string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: s}}
}

var (
	created = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	edited  = time.Date(2026, 2, 9, 16, 45, 0, 0, time.UTC)
)

func roadmapPage() *notionapi.Page {
	return &notionapi.Page{
		Object:         notionapi.ObjectTypePage,
		ID:             "page-1",
		CreatedTime:    created,
		LastEditedTime: edited,
		CreatedBy:      notionapi.User{Name: "Walter Skinner"},
		URL:            "https://www.notion.so/Q3-Roadmap-page1",
		Parent:         notionapi.Parent{Type: "workspace", Workspace: true},
		Properties: notionapi.Properties{
			"Name":   &notionapi.TitleProperty{Title: rich("Q3 Roadmap")},
			"Status": &notionapi.SelectProperty{Select: notionapi.Option{Name: "Draft"}},
			"Owner":  &notionapi.PeopleProperty{People: []notionapi.User{{Name: "Dana Scully"}}},
			"Notes":  &notionapi.RichTextProperty{RichText: rich("Platform   milestones")},
		},
	}
}

func newTestAdapter(fake *fakeSearcher) *Adapter {
	a := NewAdapter(Config{PageSize: 5})
	a.SetLimiter(ratelimit.New(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 100}))
	a.SetSearcherFactory(func(context.Context, string) Searcher { return fake })
	return a
}

var creds = domain.Credentials{AccessToken: "notion-token", Workspace: "Acme HQ"}

func TestAdapter_Search_MapsPages(t *testing.T) {
	fake := &fakeSearcher{responses: []*notionapi.SearchResponse{
		{Results: []notionapi.Object{roadmapPage()}},
	}}
	a := newTestAdapter(fake)

	res, err := a.Search(context.Background(), "q3 roadmap", creds)

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.Equal(t, "page-1", item.ID)
	assert.Equal(t, "Q3 Roadmap", item.Title)
	assert.Equal(t, domain.SourceNotion, item.Source)
	assert.Equal(t, domain.ItemTypePage, item.ItemType)
	assert.Equal(t, "https://www.notion.so/Q3-Roadmap-page1", item.URL)
	assert.Equal(t, "Notes: Platform milestones · Owner: Dana Scully · Status: Draft", item.Snippet)
	assert.Equal(t, "Acme HQ", item.MetaString(domain.MetaWorkspace))
	assert.Equal(t, "Dana Scully", item.MetaString(domain.MetaOwner))
	assert.Equal(t, "workspace", item.MetaString("parentType"))
	assert.Equal(t, created, item.Timestamps.Created)
	assert.Equal(t, edited, item.Timestamps.Modified)
	assert.Equal(t, 1, res.TotalFound)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "roadmap", req.Query)
	assert.Equal(t, 5, req.PageSize)
	require.NotNil(t, req.Sort)
	assert.Equal(t, notionapi.TimestampLastEdited, req.Sort.Timestamp)
}

func TestAdapter_Search_MapsDatabases(t *testing.T) {
	db := &notionapi.Database{
		Object:         notionapi.ObjectTypeDatabase,
		ID:             "db-1",
		CreatedTime:    created,
		LastEditedTime: edited,
		Title:          rich("Hiring Pipeline"),
		Description:    rich("Candidates and offers"),
		URL:            "https://www.notion.so/db1",
		Parent:         notionapi.Parent{Type: "page_id", PageID: "page-1"},
	}
	fake := &fakeSearcher{responses: []*notionapi.SearchResponse{{Results: []notionapi.Object{db}}}}
	a := newTestAdapter(fake)

	res, err := a.Search(context.Background(), "hiring pipeline", creds)

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, domain.ItemTypeDatabase, res.Items[0].ItemType)
	assert.Equal(t, "Hiring Pipeline", res.Items[0].Title)
	assert.Equal(t, "Candidates and offers", res.Items[0].Snippet)
	assert.Equal(t, "page_id", res.Items[0].MetaString("parentType"))
}

func TestAdapter_Search_BroadensOnZeroResults(t *testing.T) {
	fake := &fakeSearcher{responses: []*notionapi.SearchResponse{
		{},
		{Results: []notionapi.Object{roadmapPage()}},
	}}
	a := newTestAdapter(fake)

	res, err := a.Search(context.Background(), "platform roadmap", creds)

	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, []string{"platform roadmap", "platform"}, fake.queries())
}

func TestAdapter_Search_SkipsArchived(t *testing.T) {
	archived := roadmapPage()
	archived.Archived = true
	fake := &fakeSearcher{responses: []*notionapi.SearchResponse{{Results: []notionapi.Object{archived}}}}
	a := newTestAdapter(fake)

	res, err := a.Search(context.Background(), "roadmap", creds)

	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestAdapter_Search_GeneralQueryListsRecent(t *testing.T) {
	fake := &fakeSearcher{}
	a := newTestAdapter(fake)

	_, err := a.Search(context.Background(), "notion pages", creds)

	require.NoError(t, err)
	assert.Equal(t, []string{""}, fake.queries())
}

func TestAdapter_Search_MissingToken(t *testing.T) {
	fake := &fakeSearcher{}
	a := newTestAdapter(fake)

	_, err := a.Search(context.Background(), "roadmap", domain.Credentials{})

	assert.ErrorIs(t, err, domain.ErrProviderAuth)
	assert.Empty(t, fake.requests)
}

func TestAdapter_Search_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unauthorised", &notionapi.Error{Status: 401, Code: "unauthorized"}, domain.ErrProviderAuth},
		{"rate limited", &notionapi.Error{Status: 429, Code: "rate_limited"}, domain.ErrRateLimited},
		{"server error", &notionapi.Error{Status: 502, Code: "internal_server_error"}, domain.ErrProviderTransport},
		{"network", errors.New("connection reset by peer"), domain.ErrProviderTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(&fakeSearcher{err: tt.err})

			_, err := a.Search(context.Background(), "roadmap", creds)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAdapter_Search_RateLimitBacksOff(t *testing.T) {
	a := newTestAdapter(&fakeSearcher{err: &notionapi.Error{Status: 429, Code: "rate_limited"}})
	limiter := ratelimit.New(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 100})
	a.SetLimiter(limiter)

	_, err := a.Search(context.Background(), "roadmap", creds)

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Greater(t, limiter.BackoffRemaining(), time.Duration(0))
}

func TestBuildQueries(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"recent notion pages", []string{""}},
		{"roadmap", []string{"roadmap"}},
		{"q3 platform roadmap", []string{"platform roadmap", "platform", "roadmap", "q3"}},
		{"alpha beta gamma delta", []string{"alpha beta gamma delta", "alpha", "beta", "gamma"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQueries(connectors.Analyse(tt.query)))
		})
	}
}
