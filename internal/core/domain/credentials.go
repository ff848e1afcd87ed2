package domain

import (
	"sort"
	"strings"
)

// Credentials is the per-provider credential bundle handed to the core.
// It is owned by the caller; the core only reads it.
type Credentials struct {
	// AccessToken is the opaque bearer token.
	AccessToken string `json:"accessToken"`
	// CloudID is the tenant identifier for multi-tenant providers (JIRA).
	CloudID string `json:"cloudId,omitempty"`
	// SiteURL is the provider site used to build deep links (e.g. https://acme.atlassian.net).
	SiteURL string `json:"siteUrl,omitempty"`
	// Workspace is the display name of the connected workspace or organisation.
	Workspace string `json:"workspace,omitempty"`
}

// Connected reports whether the bundle carries a usable token.
func (c Credentials) Connected() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

// SearchQuery is a single unified search request.
type SearchQuery struct {
	// Raw is the free-text query as typed by the user.
	Raw string
	// Credentials maps each connected provider to its credential bundle.
	Credentials map[SourceName]Credentials
}

// ConnectedSources returns the recognised providers with a token, sorted by name.
func (q SearchQuery) ConnectedSources() []SourceName {
	sources := make([]SourceName, 0, len(q.Credentials))
	for name, creds := range q.Credentials {
		if canonical, ok := ParseSourceName(string(name)); !ok || canonical != name {
			continue
		}
		if !creds.Connected() {
			continue
		}
		sources = append(sources, name)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// CredentialsFromStrings builds a credentials map from loosely-typed provider keys.
// Unknown providers are dropped.
func CredentialsFromStrings(in map[string]Credentials) map[SourceName]Credentials {
	out := make(map[SourceName]Credentials, len(in))
	for key, creds := range in {
		name, ok := ParseSourceName(key)
		if !ok {
			continue
		}
		out[name] = creds
	}
	return out
}
