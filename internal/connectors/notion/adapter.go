package notion

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jomei/notionapi"

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

const (
	// DefaultPageSize is the number of results requested per query.
	DefaultPageSize = 25

	// maxStages bounds the title ladder.
	maxStages = 4
)

var log = logger.For(string(domain.SourceNotion))

// Config holds Notion adapter configuration.
type Config struct {
	// PageSize is the number of results requested per query.
	PageSize int
	// HTTPClient supplies the base transport (optional).
	HTTPClient *http.Client
}

// Adapter searches Notion pages and databases.
type Adapter struct {
	cfg         Config
	pageSize    *connectors.PageSize
	limiter     *ratelimit.Limiter
	newSearcher SearcherFactory
}

// NewAdapter creates a Notion adapter.
func NewAdapter(cfg Config) *Adapter {
	return &Adapter{
		cfg:         cfg,
		pageSize:    connectors.NewPageSize(cfg.PageSize, DefaultPageSize),
		limiter:     ratelimit.For(domain.SourceNotion),
		newSearcher: NewSearcherFactory(cfg.HTTPClient),
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

// SetSearcherFactory replaces how API clients are built. Useful for testing.
func (a *Adapter) SetSearcherFactory(f SearcherFactory) {
	a.newSearcher = f
}

// Source returns the provider this adapter serves.
func (a *Adapter) Source() domain.SourceName {
	return domain.SourceNotion
}

// Search runs the title ladder until a stage returns pages or databases.
func (a *Adapter) Search(ctx context.Context, query string, creds domain.Credentials) (domain.AdapterResult, error) {
	if !creds.Connected() {
		return domain.AdapterResult{}, domain.NewProviderError(domain.SourceNotion, domain.ProviderErrorAuth,
			errors.New("missing access token"))
	}

	searcher := a.newSearcher(ctx, creds.AccessToken)
	stages := BuildQueries(connectors.Analyse(query))

	for i, q := range stages {
		resp, err := a.search(ctx, searcher, q)
		if err != nil {
			return domain.AdapterResult{}, WrapError(err)
		}
		items := toItems(resp.Results, creds.Workspace)
		if len(items) > 0 {
			log.Debug("stage %d/%d matched %d results", i+1, len(stages), len(items))
			return domain.AdapterResult{Items: items, TotalFound: len(items)}, nil
		}
		log.Debug("stage %d/%d matched nothing: %q", i+1, len(stages), q)
	}

	return domain.AdapterResult{Items: []domain.ResultItem{}}, nil
}

func (a *Adapter) search(ctx context.Context, s Searcher, q string) (*notionapi.SearchResponse, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.Do(ctx, &notionapi.SearchRequest{
		Query:    q,
		PageSize: a.pageSize.Get(),
		Sort: &notionapi.SortObject{
			Direction: notionapi.SortOrderDESC,
			Timestamp: notionapi.TimestampLastEdited,
		},
	})
	if err != nil {
		if IsRateLimited(err) {
			a.limiter.Backoff(0)
		}
		return nil, err
	}
	if resp == nil {
		return nil, domain.NewProviderError(domain.SourceNotion, domain.ProviderErrorMalformed,
			errors.New("empty search response"))
	}
	return resp, nil
}

// BuildQueries returns the title queries to try in order. A general query
// is a single empty query, which Notion answers with recent items.
func BuildQueries(t connectors.Terms) []string {
	if t.General {
		return []string{""}
	}

	candidates := []string{strings.Join(t.Keywords, " ")}
	candidates = append(candidates, t.Keywords...)
	candidates = append(candidates, t.Tokens...)

	stages := connectors.Ladder(candidates...)
	if len(stages) > maxStages {
		stages = stages[:maxStages]
	}
	return stages
}

func toItems(results []notionapi.Object, workspace string) []domain.ResultItem {
	items := make([]domain.ResultItem, 0, len(results))
	for _, obj := range results {
		switch v := obj.(type) {
		case *notionapi.Page:
			if v.Archived {
				continue
			}
			items = append(items, PageToItem(v, workspace))
		case *notionapi.Database:
			if v.Archived {
				continue
			}
			items = append(items, DatabaseToItem(v, workspace))
		}
	}
	return items
}

// PageToItem converts a Notion page to a result item.
func PageToItem(p *notionapi.Page, workspace string) domain.ResultItem {
	owner := p.CreatedBy.Name
	if owners := PageOwners(p.Properties); len(owners) > 0 {
		owner = owners[0]
	}

	snippet := connectors.Snippet(PageSummary(p.Properties))
	if snippet == "" {
		snippet = fallbackSnippet("page", workspace)
	}

	return domain.ResultItem{
		ID:       string(p.ID),
		Title:    connectors.FirstNonEmpty(PageTitle(p.Properties), "Untitled"),
		Source:   domain.SourceNotion,
		ItemType: domain.ItemTypePage,
		URL:      p.URL,
		Snippet:  snippet,
		Timestamps: domain.Timestamps{
			Created:  p.CreatedTime,
			Modified: p.LastEditedTime,
		},
		Metadata: metadata(workspace, string(p.Parent.Type), owner),
	}
}

// DatabaseToItem converts a Notion database to a result item.
func DatabaseToItem(d *notionapi.Database, workspace string) domain.ResultItem {
	snippet := connectors.Snippet(PlainText(d.Description))
	if snippet == "" {
		snippet = fallbackSnippet("database", workspace)
	}

	return domain.ResultItem{
		ID:       string(d.ID),
		Title:    connectors.FirstNonEmpty(PlainText(d.Title), "Untitled database"),
		Source:   domain.SourceNotion,
		ItemType: domain.ItemTypeDatabase,
		URL:      d.URL,
		Snippet:  snippet,
		Timestamps: domain.Timestamps{
			Created:  d.CreatedTime,
			Modified: d.LastEditedTime,
		},
		Metadata: metadata(workspace, string(d.Parent.Type), d.CreatedBy.Name),
	}
}

func metadata(workspace, parentType, owner string) map[string]any {
	meta := map[string]any{}
	if workspace != "" {
		meta[domain.MetaWorkspace] = workspace
	}
	if parentType != "" {
		meta["parentType"] = parentType
	}
	if owner != "" {
		meta[domain.MetaOwner] = owner
	}
	return meta
}

func fallbackSnippet(kind, workspace string) string {
	if workspace == "" {
		return "Notion " + kind
	}
	return "Notion " + kind + " in " + workspace
}
