// Package domain defines the core business entities for unified search.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceName: A known external knowledge source
//   - Credentials: The caller-owned credential bundle for one source
//   - ResultItem: The normalised shape every provider adapter returns
//   - RankedResultSet: The merged, scored and sorted response
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
