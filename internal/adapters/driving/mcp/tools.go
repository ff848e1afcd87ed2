package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// defaultLimit caps the results returned to the assistant.
const defaultLimit = 10

// SearchInput is the input schema for the unified_search tool.
type SearchInput struct {
	Query   string   `json:"query" jsonschema:"the search query, e.g. 'open bugs assigned to me'"`
	Sources []string `json:"sources,omitempty" jsonschema:"restrict to these integrations: jira, gdrive, notion, github"`
	Limit   int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the unified_search tool.
type SearchOutput struct {
	Intent   string               `json:"intent"`
	Total    int                  `json:"total"`
	Count    int                  `json:"count"`
	Results  []SearchResultOutput `json:"results"`
	Degraded []DegradedOutput     `json:"degraded,omitempty"`
	Message  string               `json:"message,omitempty"`
}

// SearchResultOutput represents a single ranked result.
type SearchResultOutput struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Source    string  `json:"source"`
	Type      string  `json:"itemType"`
	URL       string  `json:"url,omitempty"`
	Snippet   string  `json:"snippet,omitempty"`
	Relevance float64 `json:"relevance"`
}

// DegradedOutput names a source that could not be searched.
type DegradedOutput struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "unified_search",
		Description: "Search JIRA, Google Drive, Notion and GitHub at once and return one ranked list",
	}, s.handleSearch)
}

// handleSearch handles the unified_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	creds, err := s.credentials(input.Sources)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	set, err := s.ports.Search.Search(ctx, domain.SearchQuery{Raw: input.Query, Credentials: creds})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results := set.Results
	if len(results) > limit {
		results = results[:limit]
	}

	output := SearchOutput{
		Intent:  string(set.Intent),
		Total:   set.Total,
		Count:   len(results),
		Results: make([]SearchResultOutput, len(results)),
		Message: set.Message,
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			ID:        results[i].ID,
			Title:     results[i].Title,
			Source:    string(results[i].Source),
			Type:      results[i].ItemType,
			URL:       results[i].URL,
			Snippet:   results[i].Snippet,
			Relevance: results[i].Relevance,
		}
	}
	for _, d := range set.DegradedSources {
		output.Degraded = append(output.Degraded, DegradedOutput{Source: string(d.Source), Reason: d.Reason})
	}

	return nil, output, nil
}

// credentials returns configured integrations, narrowed to sources when given.
func (s *Server) credentials(sources []string) (map[domain.SourceName]domain.Credentials, error) {
	all := s.ports.Settings.Integrations()
	if len(sources) == 0 {
		return all, nil
	}
	out := make(map[domain.SourceName]domain.Credentials, len(sources))
	for _, raw := range sources {
		name, ok := domain.ParseSourceName(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, raw)
		}
		if c, ok := all[name]; ok {
			out[name] = c
		}
	}
	return out, nil
}
