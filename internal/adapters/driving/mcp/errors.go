// Package mcp provides an MCP (Model Context Protocol) server adapter for
// sercha-unified. It lets AI assistants run one search across every
// connected integration.
package mcp

import "errors"

var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingSettingsService is returned when the settings service is not provided.
	ErrMissingSettingsService = errors.New("mcp: settings service is required")
)
