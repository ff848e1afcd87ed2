// Package connectors holds the provider search adapters and the helpers
// they share. Each subpackage implements driven.ProviderAdapter for one
// knowledge source (Google Drive, JIRA, Notion, GitHub).
//
// Adapters receive credentials on every call and never store them, so a
// single adapter instance serves concurrent searches for different users.
package connectors
