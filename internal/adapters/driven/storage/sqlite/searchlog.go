package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
	"github.com/custodia-labs/sercha-unified/internal/core/ports/driven"
)

// searchLogStore implements driven.SearchLogStore.
type searchLogStore struct {
	store *Store
}

var _ driven.SearchLogStore = (*searchLogStore)(nil)

const searchLogColumns = `id, query, intent, sources, total, degraded, cache_hit, duration_ns, created_at`

// Record appends an entry. Recording an existing ID replaces it.
func (s *searchLogStore) Record(ctx context.Context, entry domain.SearchLogEntry) error {
	if entry.ID == "" {
		return domain.ErrInvalidInput
	}

	sources := entry.Sources
	if sources == nil {
		sources = []domain.SourceName{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO search_log (`+searchLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Query, string(entry.Intent), string(sourcesJSON), entry.Total,
		entry.Degraded, entry.CacheHit, int64(entry.Duration), entry.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving search log entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
// A non-positive limit returns every entry.
func (s *searchLogStore) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+searchLogColumns+`
		FROM search_log
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying search log: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.SearchLogEntry, 0)
	for rows.Next() {
		entry, err := scanSearchLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search log: %w", err)
	}
	return entries, nil
}

// Get retrieves an entry by ID.
func (s *searchLogStore) Get(ctx context.Context, id string) (*domain.SearchLogEntry, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+searchLogColumns+` FROM search_log WHERE id = ?
	`, id)

	entry, err := scanSearchLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return entry, err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSearchLog(row scanner) (*domain.SearchLogEntry, error) {
	var entry domain.SearchLogEntry
	var intent, sourcesJSON string
	var durationNs, createdAt int64

	if err := row.Scan(&entry.ID, &entry.Query, &intent, &sourcesJSON, &entry.Total,
		&entry.Degraded, &entry.CacheHit, &durationNs, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning search log entry: %w", err)
	}

	if err := json.Unmarshal([]byte(sourcesJSON), &entry.Sources); err != nil {
		return nil, fmt.Errorf("unmarshaling sources: %w", err)
	}
	entry.Intent = domain.Intent(intent)
	entry.Duration = time.Duration(durationNs)
	entry.CreatedAt = time.Unix(0, createdAt)

	return &entry, nil
}
