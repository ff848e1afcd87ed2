package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-unified/internal/connectors/ratelimit"
	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

const issueJSON = `{"isLast":true,"issues":[{
	"id":"10001",
	"key":"PLAT-42",
	"self":"https://api.atlassian.com/ex/jira/cloud-1/rest/api/3/issue/10001",
	"fields":{
		"summary":"Login timeout on SSO",
		"description":{"type":"doc","version":1,"content":[
			{"type":"paragraph","content":[{"type":"text","text":"Users are logged out after 5 minutes."}]}
		]},
		"status":{"name":"In Progress","statusCategory":{"key":"indeterminate","name":"In Progress"}},
		"assignee":{"accountId":"a1","displayName":"Fox Mulder"},
		"priority":{"name":"High"},
		"issuetype":{"name":"Bug"},
		"project":{"key":"PLAT","name":"Platform"},
		"created":"2026-03-01T09:00:00.000+0000",
		"updated":"2026-03-04T17:15:30.000+0200"
	}
}]}`

// fakeJira serves canned search responses in order and records each request.
type fakeJira struct {
	mu        sync.Mutex
	responses []string
	status    int
	body      string
	requests  []SearchRequest
	paths     []string
	auth      string
}

func (f *fakeJira) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, r.Method+" "+r.URL.Path)
	f.auth = r.Header.Get("Authorization")

	var req SearchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.requests = append(f.requests, req)

	if f.status != 0 {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(f.status)
		_, _ = fmt.Fprint(w, f.body)
		return
	}

	body := `{"isLast":true,"issues":[]}`
	if len(f.responses) > 0 {
		body = f.responses[0]
		f.responses = f.responses[1:]
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeJira) jqls() []string {
	out := make([]string, len(f.requests))
	for i, r := range f.requests {
		out[i] = r.JQL
	}
	return out
}

func newTestAdapter(t *testing.T, fake *fakeJira) *Adapter {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	a := NewAdapter(Config{APIBase: srv.URL, PageSize: 10, HTTPClient: srv.Client()})
	a.SetLimiter(ratelimit.New(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 100}))
	return a
}

var creds = domain.Credentials{
	AccessToken: "jira-token",
	CloudID:     "cloud-1",
	SiteURL:     "https://acme.atlassian.net/",
}

func TestAdapter_Search_MapsIssues(t *testing.T) {
	fake := &fakeJira{responses: []string{issueJSON}}
	a := newTestAdapter(t, fake)

	res, err := a.Search(context.Background(), "login timeout", creds)

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assert.Equal(t, "PLAT-42", item.ID)
	assert.Equal(t, "Login timeout on SSO", item.Title)
	assert.Equal(t, domain.SourceJira, item.Source)
	assert.Equal(t, domain.ItemTypeIssue, item.ItemType)
	assert.Equal(t, "https://acme.atlassian.net/browse/PLAT-42", item.URL)
	assert.Equal(t, "Users are logged out after 5 minutes.", item.Snippet)
	assert.Equal(t, "In Progress", item.MetaString(domain.MetaStatus))
	assert.Equal(t, "Fox Mulder", item.MetaString(domain.MetaAssignee))
	assert.Equal(t, "PLAT", item.MetaString(domain.MetaProjectKey))
	assert.Equal(t, "Platform", item.MetaString(domain.MetaProjectName))
	assert.Equal(t, "Bug", item.MetaString("issueType"))
	assert.Equal(t, "High", item.MetaString("priority"))
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), item.Timestamps.Created)
	assert.Equal(t, time.Date(2026, 3, 4, 15, 15, 30, 0, time.UTC), item.Timestamps.Updated)
	assert.Equal(t, 1, res.TotalFound)

	assert.Equal(t, "Bearer jira-token", fake.auth)
	assert.Equal(t, []string{"POST /cloud-1/rest/api/3/search/jql"}, fake.paths)
	require.Len(t, fake.requests, 1)
	assert.Equal(t, `text ~ "login timeout" ORDER BY updated DESC`, fake.requests[0].JQL)
	assert.Equal(t, 10, fake.requests[0].MaxResults)
	assert.Contains(t, fake.requests[0].Fields, "summary")
}

func TestAdapter_SetPageSize(t *testing.T) {
	fake := &fakeJira{responses: []string{issueJSON, issueJSON}}
	a := newTestAdapter(t, fake)

	_, err := a.Search(context.Background(), "login timeout", creds)
	require.NoError(t, err)
	a.SetPageSize(50)
	_, err = a.Search(context.Background(), "login timeout", creds)
	require.NoError(t, err)

	require.Len(t, fake.requests, 2)
	assert.Equal(t, 10, fake.requests[0].MaxResults)
	assert.Equal(t, 50, fake.requests[1].MaxResults)
}

func TestAdapter_Search_BroadensOnZeroResults(t *testing.T) {
	fake := &fakeJira{responses: []string{
		`{"isLast":true,"issues":[]}`,
		`{"isLast":true,"issues":[]}`,
		issueJSON,
	}}
	a := newTestAdapter(t, fake)

	res, err := a.Search(context.Background(), "login timeout", creds)

	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, []string{
		`text ~ "login timeout" ORDER BY updated DESC`,
		`(text ~ "login" OR text ~ "timeout") ORDER BY updated DESC`,
		`(summary ~ "login" OR summary ~ "timeout") ORDER BY updated DESC`,
	}, fake.jqls())
}

func TestAdapter_Search_ZeroResultsIsNotAnError(t *testing.T) {
	fake := &fakeJira{}
	a := newTestAdapter(t, fake)

	res, err := a.Search(context.Background(), "nonexistent widget", creds)

	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestAdapter_Search_SelfLinkWithoutSiteURL(t *testing.T) {
	fake := &fakeJira{responses: []string{issueJSON}}
	a := newTestAdapter(t, fake)

	noSite := creds
	noSite.SiteURL = ""
	res, err := a.Search(context.Background(), "login", noSite)

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "https://api.atlassian.com/ex/jira/cloud-1/rest/api/3/issue/10001", res.Items[0].URL)
}

func TestAdapter_Search_CredentialErrors(t *testing.T) {
	fake := &fakeJira{}
	a := newTestAdapter(t, fake)

	_, err := a.Search(context.Background(), "login", domain.Credentials{CloudID: "cloud-1"})
	assert.ErrorIs(t, err, domain.ErrProviderAuth)

	_, err = a.Search(context.Background(), "login", domain.Credentials{AccessToken: "t"})
	assert.ErrorIs(t, err, domain.ErrProviderAuth)
	assert.ErrorIs(t, err, ErrMissingCloudID)

	assert.Empty(t, fake.requests)
}

func TestAdapter_Search_HTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorised", http.StatusUnauthorized, `{"message":"Unauthorized"}`, domain.ErrProviderAuth},
		{"unknown cloud id", http.StatusNotFound, `{"errorMessages":["site not found"]}`, domain.ErrProviderAuth},
		{"rate limited", http.StatusTooManyRequests, ``, domain.ErrRateLimited},
		{"server error", http.StatusBadGateway, `oops`, domain.ErrProviderTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeJira{status: tt.status, body: tt.body}
			a := newTestAdapter(t, fake)

			_, err := a.Search(context.Background(), "login", creds)

			assert.ErrorIs(t, err, tt.want)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestAdapter_Search_RateLimitBacksOff(t *testing.T) {
	fake := &fakeJira{status: http.StatusTooManyRequests}
	a := newTestAdapter(t, fake)
	limiter := ratelimit.New(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 100})
	a.SetLimiter(limiter)

	_, err := a.Search(context.Background(), "login", creds)

	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Greater(t, limiter.BackoffRemaining(), time.Duration(0))
}

func TestAdapter_Search_MalformedResponse(t *testing.T) {
	fake := &fakeJira{responses: []string{`{"issues":"not-a-list"}`}}
	a := newTestAdapter(t, fake)

	_, err := a.Search(context.Background(), "login", creds)

	assert.ErrorIs(t, err, domain.ErrProviderMalformed)
}

func TestIssueToItem_FallbackSnippet(t *testing.T) {
	issue := Issue{
		Key: "OPS-7",
		Fields: IssueFields{
			Summary:  "Rotate certificates",
			Status:   &Status{Name: "To Do"},
			Priority: &Named{Name: "Low"},
		},
	}

	item := IssueToItem(issue, "")

	assert.Equal(t, "Status: To Do · Priority: Low", item.Snippet)
	assert.Equal(t, "OPS-7", item.ID)
	assert.True(t, item.Timestamps.Updated.IsZero())
}

func TestParseTime(t *testing.T) {
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), parseTime("2026-03-01T09:00:00.000+0000"))
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), parseTime("2026-03-01T09:00:00Z"))
	assert.True(t, parseTime("yesterday").IsZero())
	assert.True(t, parseTime("").IsZero())
}
