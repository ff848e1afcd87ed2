// Package services implements the driving port interfaces.
//
// The Aggregator is the unified search orchestrator: it classifies a
// query, fans it out to the connected provider adapters, scores and
// merges their results, and degrades gracefully when providers fail.
// Keyword extraction, intent classification and relevance scoring are
// pure functions over package-level tables.
package services
