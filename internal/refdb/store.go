package refdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store provides lookups over a reference database snapshot backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the snapshot at path, creating an empty one (with schema)
// if none exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Counts summarizes the snapshot contents.
type Counts struct {
	Measured     int64
	TheoreticalM int64
	PredictedCCS int64
	PredictedRT  int64
	Sources      map[string]int64
}

// Stats reports record counts per table and per source tag.
func (s *Store) Stats(ctx context.Context) (Counts, error) {
	counts := Counts{Sources: make(map[string]int64)}
	tables := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(1) FROM measured", &counts.Measured},
		{"SELECT COUNT(1) FROM predicted_mz", &counts.TheoreticalM},
		{"SELECT COUNT(1) FROM predicted_ccs", &counts.PredictedCCS},
		{"SELECT COUNT(1) FROM predicted_rt", &counts.PredictedRT},
	}
	for _, t := range tables {
		if err := s.db.QueryRowContext(ctx, t.query).Scan(t.dest); err != nil {
			return Counts{}, fmt.Errorf("count records: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT src_tag, COUNT(1) FROM measured GROUP BY src_tag")
	if err != nil {
		return Counts{}, fmt.Errorf("count sources: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var tag string
		var n int64
		if err := rows.Scan(&tag, &n); err != nil {
			return Counts{}, fmt.Errorf("scan source count: %w", err)
		}
		counts.Sources[tag] = n
	}
	if err := rows.Err(); err != nil {
		return Counts{}, fmt.Errorf("iterate source counts: %w", err)
	}
	return counts, nil
}
