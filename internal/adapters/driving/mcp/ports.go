package mcp

import (
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs unified searches.
	Search driving.UnifiedSearchService

	// Settings supplies the configured integrations.
	Settings driving.SettingsService

	// History exposes recorded searches. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
