package jira

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-unified/internal/connectors"
	"github.com/custodia-labs/sercha-unified/internal/connectors/ratelimit"
	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-unified/internal/logger"
)

// Ensure Adapter implements the interface.
var (
	_ driven.ProviderAdapter = (*Adapter)(nil)
	_ driven.PageSizer       = (*Adapter)(nil)
)

// DefaultPageSize is the number of issues requested per query.
const DefaultPageSize = 25

// timeLayout is the JIRA Cloud timestamp format.
const timeLayout = "2006-01-02T15:04:05.000-0700"

var log = logger.For(string(domain.SourceJira))

// Config holds JIRA adapter configuration.
type Config struct {
	// APIBase overrides the Atlassian gateway (optional).
	APIBase string
	// PageSize is the number of issues requested per query.
	PageSize int
	// HTTPClient supplies the base transport (optional).
	HTTPClient *http.Client
}

// Adapter searches JIRA Cloud issues.
type Adapter struct {
	cfg      Config
	pageSize *connectors.PageSize
	limiter  *ratelimit.Limiter
}

// NewAdapter creates a JIRA adapter.
func NewAdapter(cfg Config) *Adapter {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	return &Adapter{
		cfg:      cfg,
		pageSize: connectors.NewPageSize(cfg.PageSize, DefaultPageSize),
		limiter:  ratelimit.For(domain.SourceJira),
	}
}

// SetPageSize changes the number of results requested by later searches.
func (a *Adapter) SetPageSize(n int) {
	a.pageSize.Set(n)
}

// SetLimiter replaces the rate limiter.
func (a *Adapter) SetLimiter(l *ratelimit.Limiter) {
	a.limiter = l
}

// Source returns the provider this adapter serves.
func (a *Adapter) Source() domain.SourceName {
	return domain.SourceJira
}

// Search translates the query into JQL and runs the broadening ladder
// until a stage returns issues.
func (a *Adapter) Search(ctx context.Context, query string, creds domain.Credentials) (domain.AdapterResult, error) {
	if !creds.Connected() {
		return domain.AdapterResult{}, domain.NewProviderError(domain.SourceJira, domain.ProviderErrorAuth,
			errors.New("missing access token"))
	}
	if strings.TrimSpace(creds.CloudID) == "" {
		return domain.AdapterResult{}, WrapError(ErrMissingCloudID)
	}

	client := NewClient(ctx, a.cfg.APIBase, creds.CloudID, creds.AccessToken, a.cfg.HTTPClient, a.limiter)
	stages := BuildJQL(connectors.Analyse(query))

	for i, jql := range stages {
		resp, err := client.Search(ctx, jql, a.pageSize.Get())
		if err != nil {
			return domain.AdapterResult{}, WrapError(err)
		}
		if len(resp.Issues) > 0 {
			log.Debug("stage %d/%d matched %d issues", i+1, len(stages), len(resp.Issues))
			return toResult(resp.Issues, creds.SiteURL), nil
		}
		log.Debug("stage %d/%d matched nothing: %s", i+1, len(stages), jql)
	}

	return domain.AdapterResult{Items: []domain.ResultItem{}}, nil
}

func toResult(issues []Issue, siteURL string) domain.AdapterResult {
	items := make([]domain.ResultItem, 0, len(issues))
	for _, issue := range issues {
		items = append(items, IssueToItem(issue, siteURL))
	}
	return domain.AdapterResult{Items: items, TotalFound: len(items)}
}

// IssueToItem converts a JIRA issue to a result item. The browse link is
// built from siteURL when known, else the REST self link is used.
func IssueToItem(issue Issue, siteURL string) domain.ResultItem {
	f := issue.Fields

	meta := map[string]any{"key": issue.Key}
	put := func(key, value string) {
		if value != "" {
			meta[key] = value
		}
	}
	var status, priority string
	if f.Status != nil {
		status = f.Status.Name
	}
	if f.Priority != nil {
		priority = f.Priority.Name
	}
	put(domain.MetaStatus, status)
	put("priority", priority)
	if f.Assignee != nil {
		put(domain.MetaAssignee, f.Assignee.DisplayName)
	}
	if f.Reporter != nil {
		put("reporter", f.Reporter.DisplayName)
	}
	if f.IssueType != nil {
		put("issueType", f.IssueType.Name)
	}
	if f.Project != nil {
		put(domain.MetaProjectKey, f.Project.Key)
		put(domain.MetaProjectName, f.Project.Name)
	}

	snippet := connectors.Snippet(FlattenDescription(f.Description))
	if snippet == "" {
		snippet = fallbackSnippet(status, priority)
	}

	url := issue.Self
	if siteURL != "" && issue.Key != "" {
		url = strings.TrimRight(siteURL, "/") + "/browse/" + issue.Key
	}

	return domain.ResultItem{
		ID:       connectors.FirstNonEmpty(issue.Key, issue.ID),
		Title:    connectors.FirstNonEmpty(f.Summary, issue.Key),
		Source:   domain.SourceJira,
		ItemType: domain.ItemTypeIssue,
		URL:      url,
		Snippet:  snippet,
		Timestamps: domain.Timestamps{
			Created: parseTime(f.Created),
			Updated: parseTime(f.Updated),
		},
		Metadata: meta,
	}
}

func fallbackSnippet(status, priority string) string {
	var parts []string
	if status != "" {
		parts = append(parts, "Status: "+status)
	}
	if priority != "" {
		parts = append(parts, "Priority: "+priority)
	}
	return strings.Join(parts, " · ")
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
