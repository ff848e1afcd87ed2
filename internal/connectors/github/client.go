package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with helper methods.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub API client for one access token.
// base supplies the underlying transport when non-nil; apiBase overrides
// the REST endpoint when non-empty.
func NewClient(
	ctx context.Context, accessToken, apiBase string, base *http.Client, limiter *RateLimiter,
) (*Client, error) {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	client := gh.NewClient(tc)
	if apiBase != "" {
		u, err := url.Parse(strings.TrimRight(apiBase, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse api base: %w", err)
		}
		client.BaseURL = u
	}

	if limiter == nil {
		limiter = NewRateLimiter()
	}
	return &Client{gh: client, rateLimiter: limiter}, nil
}

// SearchIssues runs an issue search, covering issues and pull requests.
func (c *Client) SearchIssues(ctx context.Context, query string, perPage int) (*gh.IssuesSearchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	result, resp, err := c.gh.Search.Issues(ctx, query, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "search issues")
	}
	return result, nil
}

// SearchRepositories runs a repository search.
func (c *Client) SearchRepositories(
	ctx context.Context, query string, perPage int,
) (*gh.RepositoriesSearchResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "search repositories")
	}
	return result, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from the parsed quota.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil {
		return
	}
	c.rateLimiter.UpdateFromRate(resp.Rate)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Check for rate limit errors before the generic error response
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.rateLimiter.Exhaust(rateLimitErr.Rate.Reset.Time)
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := time.Now().Add(time.Minute)
		if abuseErr.RetryAfter != nil {
			resetAt = time.Now().Add(*abuseErr.RetryAfter)
		}
		c.rateLimiter.Exhaust(resetAt)
		return &RateLimitError{ResetAt: resetAt, Limit: c.rateLimiter.Limit()}
	}

	// Check for GitHub error response
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		if apiErr.StatusCode == http.StatusTooManyRequests {
			c.rateLimiter.Exhaust(time.Now().Add(time.Minute))
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
