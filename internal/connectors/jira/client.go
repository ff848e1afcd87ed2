package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-unified/internal/connectors/ratelimit"
)

const (
	// DefaultAPIBase is the Atlassian gateway for OAuth 2.0 (3LO) apps.
	DefaultAPIBase = "https://api.atlassian.com/ex/jira"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// searchPath is the enhanced JQL search endpoint.
	searchPath = "/rest/api/3/search/jql"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 * 1024
)

// searchFields are the issue fields requested from JIRA.
var searchFields = []string{
	"summary", "description", "status", "assignee", "reporter",
	"priority", "issuetype", "project", "created", "updated",
}

// Client is a minimal JIRA Cloud REST client bound to one token and site.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *ratelimit.Limiter
}

// NewClient creates a client for one access token and cloud id.
// base supplies the underlying transport when non-nil.
func NewClient(
	ctx context.Context, apiBase, cloudID, accessToken string, base *http.Client, limiter *ratelimit.Limiter,
) *Client {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = DefaultTimeout

	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(apiBase, "/") + "/" + cloudID,
		limiter: limiter,
	}
}

// SearchRequest is the body of an enhanced JQL search.
type SearchRequest struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

// SearchResponse is the enhanced JQL search response.
type SearchResponse struct {
	Issues        []Issue `json:"issues"`
	IsLast        bool    `json:"isLast"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// Issue is a JIRA issue as returned by search.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields holds the requested issue fields.
type IssueFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description"`
	Status      *Status         `json:"status"`
	Assignee    *User           `json:"assignee"`
	Reporter    *User           `json:"reporter"`
	Priority    *Named          `json:"priority"`
	IssueType   *Named          `json:"issuetype"`
	Project     *Project        `json:"project"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
}

// Status is an issue status with its category.
type Status struct {
	Name           string `json:"name"`
	StatusCategory struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"statusCategory"`
}

// User is a JIRA account reference.
type User struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// Named is any JIRA entity identified by name (priority, issue type).
type Named struct {
	Name string `json:"name"`
}

// Project is a JIRA project reference.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Search runs one JQL query.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) (*SearchResponse, error) {
	body, err := json.Marshal(SearchRequest{JQL: jql, MaxResults: maxResults, Fields: searchFields})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	url := c.baseURL + searchPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, URL: url}
		var eb errorBody
		if data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil {
			if json.Unmarshal(data, &eb) == nil {
				apiErr.Messages = eb.messages()
			}
		}
		if resp.StatusCode == http.StatusTooManyRequests && c.limiter != nil {
			c.limiter.Backoff(ratelimit.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()))
		}
		return nil, apiErr
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}
