package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for sercha-unified resources.
	uriScheme = "sercha://"

	historyLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "integrations",
		Name:        "integrations",
		Description: "Integrations that are connected and searchable",
		MIMEType:    "application/json",
	}, s.handleIntegrationsResource)

	if s.ports.History == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent unified searches, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{searchId}",
		Name:        "search",
		Description: "A single recorded search",
		MIMEType:    "application/json",
	}, s.handleSearchResource)
}

// integrationInfo never carries the token.
type integrationInfo struct {
	Source    string `json:"source"`
	Name      string `json:"name"`
	Workspace string `json:"workspace,omitempty"`
}

// handleIntegrationsResource lists connected integrations in priority order.
func (s *Server) handleIntegrationsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	integrations := s.ports.Settings.Integrations()

	sources := make([]domain.SourceName, 0, len(integrations))
	for name := range integrations {
		sources = append(sources, name)
	}
	domain.SortByPriority(sources)

	infos := make([]integrationInfo, len(sources))
	for i, name := range sources {
		infos[i] = integrationInfo{
			Source:    string(name),
			Name:      name.DisplayName(),
			Workspace: integrations[name].Workspace,
		}
	}
	return jsonResult(req.Params.URI, infos)
}

// handleHistoryResource lists recent searches.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.History.Recent(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	if entries == nil {
		entries = []domain.SearchLogEntry{}
	}
	return jsonResult(req.Params.URI, entries)
}

// handleSearchResource returns one recorded search.
func (s *Server) handleSearchResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSearchID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entry, err := s.ports.History.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting search %s: %w", id, err)
	}
	return jsonResult(req.Params.URI, entry)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSearchID extracts the id from a URI like sercha://history/{searchId}.
func extractSearchID(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
