package domain

import "time"

// SearchLogEntry records one unified search for history and diagnostics.
type SearchLogEntry struct {
	ID        string        `json:"id"`
	Query     string        `json:"query"`
	Intent    Intent        `json:"intent"`
	Sources   []SourceName  `json:"sources"`
	Total     int           `json:"total"`
	Degraded  bool          `json:"degraded"`
	CacheHit  bool          `json:"cache_hit"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}
