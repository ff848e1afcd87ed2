package domain

import "time"

// Common item types produced by provider adapters.
const (
	ItemTypeFile        = "file"
	ItemTypeFolder      = "folder"
	ItemTypeIssue       = "issue"
	ItemTypePullRequest = "pull_request"
	ItemTypePage        = "page"
	ItemTypeDatabase    = "database"
	ItemTypeRepository  = "repository"
	ItemTypePlaceholder = "placeholder"
)

// Well-known metadata keys read by the relevance scorer.
const (
	MetaMimeType     = "mimeType"
	MetaAssignee     = "assignee"
	MetaOwner        = "owner"
	MetaWorkspace    = "workspace"
	MetaOrganization = "organization"
	MetaProjectKey   = "projectKey"
	MetaProjectName  = "projectName"
	MetaStatus       = "status"
)

// Timestamps holds the optional instants reported by a provider.
// A zero value means the provider did not report it.
type Timestamps struct {
	Created  time.Time `json:"created,omitzero"`
	Modified time.Time `json:"modified,omitzero"`
	Updated  time.Time `json:"updated,omitzero"`
}

// Best returns the modified instant, else the updated instant, else zero.
func (t Timestamps) Best() time.Time {
	if !t.Modified.IsZero() {
		return t.Modified
	}
	return t.Updated
}

// ResultItem is the common shape every provider adapter produces.
// Snippet is always plain text.
type ResultItem struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Source     SourceName     `json:"source"`
	ItemType   string         `json:"itemType"`
	URL        string         `json:"url"`
	Snippet    string         `json:"snippet"`
	Timestamps Timestamps     `json:"timestamps"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// MetaString returns a metadata value as a string, or "" when absent or not a string.
func (r ResultItem) MetaString(key string) string {
	if r.Metadata == nil {
		return ""
	}
	s, _ := r.Metadata[key].(string)
	return s
}

// RankedItem is a ResultItem after the scoring pass.
type RankedItem struct {
	ResultItem
	Relevance float64 `json:"relevance"`
}

// AdapterResult is what a provider adapter returns for one query.
type AdapterResult struct {
	Items []ResultItem
	// TotalFound is the provider-reported match count (may exceed len(Items)).
	TotalFound int
}

// ProviderOutcome is the result of one adapter call inside an aggregation.
// Exactly one of Result or Err is meaningful.
type ProviderOutcome struct {
	Source   SourceName
	Result   AdapterResult
	Err      error
	Duration time.Duration
}

// Failed reports whether the adapter call failed.
func (o ProviderOutcome) Failed() bool {
	return o.Err != nil
}

// DegradedSource describes a provider that could not be searched.
// Placeholder items are labelled demo data and are never part of the ranked results.
type DegradedSource struct {
	Source      SourceName   `json:"source"`
	Label       string       `json:"label"`
	Reason      string       `json:"reason"`
	Placeholder []ResultItem `json:"placeholder,omitempty"`
}

// RankedResultSet is the response of a unified search.
type RankedResultSet struct {
	RequestID       string           `json:"requestId"`
	Query           string           `json:"query"`
	Intent          Intent           `json:"intent"`
	Results         []RankedItem     `json:"results"`
	Total           int              `json:"total"`
	Sources         []SourceName     `json:"sources"`
	Degraded        bool             `json:"degraded,omitempty"`
	Message         string           `json:"message,omitempty"`
	DegradedSources []DegradedSource `json:"degradedSources,omitempty"`
	CacheHit        bool             `json:"cacheHit,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
}

// EmptyResultSet returns a valid result set with no items.
func EmptyResultSet(query string, now time.Time) RankedResultSet {
	return RankedResultSet{
		Query:     query,
		Intent:    IntentAll,
		Results:   []RankedItem{},
		Sources:   []SourceName{},
		Timestamp: now,
	}
}
