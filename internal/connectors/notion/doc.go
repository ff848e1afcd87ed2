// Package notion implements the Notion search adapter.
//
// Notion's search endpoint only matches titles, so the adapter walks a
// ladder of progressively shorter title queries. A query with no content
// keywords lists the most recently edited pages and databases.
package notion
