package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// demoLabel prefixes every placeholder title.
const demoLabel = "(Demo)"

// degradedReason maps a provider failure to a short user-facing reason.
func degradedReason(err error) string {
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		return "unavailable"
	}
	switch pe.Kind {
	case domain.ProviderErrorAuth:
		return "authorization expired or invalid"
	case domain.ProviderErrorTimeout:
		return "timed out"
	case domain.ProviderErrorRateLimited:
		return "rate limited"
	case domain.ProviderErrorMalformed:
		return "unexpected response"
	default:
		return "unavailable"
	}
}

// PlaceholderItems returns clearly labelled demo items for a degraded source.
// They are attached to DegradedSource only and never ranked.
func PlaceholderItems(source domain.SourceName, query string) []domain.ResultItem {
	itemType := placeholderItemType(source)
	name := source.DisplayName()
	return []domain.ResultItem{{
		ID:       fmt.Sprintf("demo-%s-1", source),
		Title:    fmt.Sprintf("%s %s result for %q", demoLabel, name, strings.TrimSpace(query)),
		Source:   source,
		ItemType: domain.ItemTypePlaceholder,
		Snippet:  fmt.Sprintf("%s could not be searched right now. This is sample data, not a real %s.", name, itemType),
		Metadata: map[string]any{"demo": true},
	}}
}

func placeholderItemType(source domain.SourceName) string {
	switch source {
	case domain.SourceJira:
		return "issue"
	case domain.SourceGoogleDrive:
		return "file"
	case domain.SourceNotion:
		return "page"
	case domain.SourceGitHub:
		return "repository item"
	default:
		return "item"
	}
}

// degradedMessage builds the warning attached to a degraded result set.
func degradedMessage(degraded []domain.DegradedSource, succeeded int) string {
	if len(degraded) == 0 {
		return ""
	}
	if succeeded == 0 {
		return "All connected sources are temporarily unavailable."
	}
	names := make([]string, len(degraded))
	for i, d := range degraded {
		names[i] = d.Source.DisplayName()
	}
	return fmt.Sprintf("Some sources are temporarily unavailable: %s. Showing results from the remaining sources.",
		strings.Join(names, ", "))
}
