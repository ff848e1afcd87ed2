package domain

import (
	"sort"
	"strings"
)

// SourceName identifies an external knowledge source.
type SourceName string

const (
	// SourceGoogleDrive is the file-storage provider.
	SourceGoogleDrive SourceName = "google_drive"
	// SourceJira is the issue-tracker provider.
	SourceJira SourceName = "jira"
	// SourceNotion is the workspace-notes provider.
	SourceNotion SourceName = "notion"
	// SourceGitHub is the code-host provider.
	SourceGitHub SourceName = "github"
)

// AllSources lists every known source in priority order.
// Intent tie-breaking and dispatch order both follow this order.
var AllSources = []SourceName{SourceJira, SourceGoogleDrive, SourceNotion, SourceGitHub}

// sourceAliases maps accepted spellings to canonical source names.
var sourceAliases = map[string]SourceName{
	"google_drive": SourceGoogleDrive,
	"google-drive": SourceGoogleDrive,
	"googledrive":  SourceGoogleDrive,
	"gdrive":       SourceGoogleDrive,
	"drive":        SourceGoogleDrive,
	"jira":         SourceJira,
	"atlassian":    SourceJira,
	"notion":       SourceNotion,
	"github":       SourceGitHub,
	"gh":           SourceGitHub,
}

// ParseSourceName resolves a user-supplied provider key.
// Matching is case-insensitive; returns false for unknown providers.
func ParseSourceName(s string) (SourceName, bool) {
	name, ok := sourceAliases[strings.ToLower(strings.TrimSpace(s))]
	return name, ok
}

// DisplayName returns a human-readable provider name.
func (s SourceName) DisplayName() string {
	switch s {
	case SourceGoogleDrive:
		return "Google Drive"
	case SourceJira:
		return "JIRA"
	case SourceNotion:
		return "Notion"
	case SourceGitHub:
		return "GitHub"
	default:
		return string(s)
	}
}

// Priority returns the position of the source in AllSources.
// Unknown sources sort last.
func (s SourceName) Priority() int {
	for i, name := range AllSources {
		if name == s {
			return i
		}
	}
	return len(AllSources)
}

// SortByPriority orders sources by AllSources priority in place.
func SortByPriority(sources []SourceName) {
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})
}
