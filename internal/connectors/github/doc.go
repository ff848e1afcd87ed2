// Package github implements the GitHub search adapter.
//
// Queries run against the issue search API first, covering issues and pull
// requests. Structured phrases become search qualifiers:
//
//   - "assigned to me": assignee:@me
//   - "my", "mine": involves:@me
//   - "pull request", "pr", "prs": is:pr
//   - "open" / "closed", "merged": is:open / is:closed
//
// Searches are scoped to the organisation named in the credentials'
// workspace field, or to items involving the authenticated user when no
// organisation is configured. When issue search finds nothing and an
// organisation is known, repositories in that organisation are searched.
//
// # Rate Limiting
//
// The search API allows 30 authenticated requests per minute. The adapter
// throttles proactively with a token bucket and tracks the quota reported
// in each response. An exhausted quota fails fast with a rate limit error
// instead of waiting for the reset.
package github
