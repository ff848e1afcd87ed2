package github

import (
	"context"
	"errors"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-unified/internal/logger"
)

// Ensure Adapter implements the interface.
var (
	_ driven.ProviderAdapter = (*Adapter)(nil)
	_ driven.PageSizer       = (*Adapter)(nil)
)

// DefaultPageSize is the number of results requested per query.
const DefaultPageSize = 25

var log = logger.For(string(domain.SourceGitHub))

// Config holds GitHub adapter configuration.
type Config struct {
	// APIBase overrides the REST endpoint, e.g. for GitHub Enterprise (optional).
	APIBase string
	// PageSize is the number of results requested per query.
	PageSize int
	// HTTPClient supplies the base transport (optional).
	HTTPClient *http.Client
}

// Adapter searches GitHub issues, pull requests and repositories.
type Adapter struct {
	cfg         Config
	pageSize    *connectors.PageSize
	rateLimiter *RateLimiter
}

// NewAdapter creates a GitHub adapter.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{
		cfg:         cfg,
		pageSize:    connectors.NewPageSize(cfg.PageSize, DefaultPageSize),
		rateLimiter: NewRateLimiter(),
	}
}

// SetPageSize changes the number of results requested by later searches.
func (a *Adapter) SetPageSize(n int) {
	a.pageSize.Set(n)
}

// SetRateLimiter replaces the rate limiter.
func (a *Adapter) SetRateLimiter(r *RateLimiter) {
	a.rateLimiter = r
}

// Source returns the provider this adapter serves.
func (a *Adapter) Source() domain.SourceName {
	return domain.SourceGitHub
}

// Search runs the issue ladder, then falls back to repository search.
// The credentials' workspace names the organisation to search.
func (a *Adapter) Search(ctx context.Context, query string, creds domain.Credentials) (domain.AdapterResult, error) {
	if !creds.Connected() {
		return domain.AdapterResult{}, domain.NewProviderError(domain.SourceGitHub, domain.ProviderErrorAuth,
			errors.New("missing access token"))
	}

	client, err := NewClient(ctx, creds.AccessToken, a.cfg.APIBase, a.cfg.HTTPClient, a.rateLimiter)
	if err != nil {
		return domain.AdapterResult{}, domain.NewProviderError(domain.SourceGitHub, domain.ProviderErrorTransport, err)
	}

	q := BuildQuery(connectors.Analyse(query), strings.TrimSpace(creds.Workspace))
	stages := q.Issues()

	for i, s := range stages {
		result, err := client.SearchIssues(ctx, s, a.pageSize.Get())
		if err != nil {
			return domain.AdapterResult{}, WrapError(err)
		}
		if len(result.Issues) > 0 {
			log.Debug("issue stage %d/%d matched %d of %d", i+1, len(stages), len(result.Issues), result.GetTotal())
			return issueResult(result), nil
		}
		log.Debug("issue stage %d/%d matched nothing: %s", i+1, len(stages), s)
	}

	if repoQuery := q.Repositories(); repoQuery != "" {
		result, err := client.SearchRepositories(ctx, repoQuery, a.pageSize.Get())
		if err != nil {
			return domain.AdapterResult{}, WrapError(err)
		}
		log.Debug("repository search matched %d of %d", len(result.Repositories), result.GetTotal())
		return repositoryResult(result), nil
	}

	return domain.AdapterResult{Items: []domain.ResultItem{}}, nil
}

func issueResult(result *gh.IssuesSearchResult) domain.AdapterResult {
	items := make([]domain.ResultItem, 0, len(result.Issues))
	for _, issue := range result.Issues {
		if issue == nil {
			continue
		}
		items = append(items, IssueToItem(issue))
	}
	return domain.AdapterResult{Items: items, TotalFound: max(result.GetTotal(), len(items))}
}

func repositoryResult(result *gh.RepositoriesSearchResult) domain.AdapterResult {
	items := make([]domain.ResultItem, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		if repo == nil {
			continue
		}
		items = append(items, RepositoryToItem(repo))
	}
	return domain.AdapterResult{Items: items, TotalFound: max(result.GetTotal(), len(items))}
}
