// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a SQLite log of executed searches. The log is
// informational: it is never consulted to answer a search.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultLimit is the number of entries Recent returns for a zero limit.
const DefaultLimit = 20

// Entry is one logged search.
type Entry struct {
	ID         int64     `json:"id" yaml:"id"`
	Query      string    `json:"query" yaml:"query"`
	Mode       string    `json:"mode" yaml:"mode"`
	Expression string    `json:"expression" yaml:"expression"`
	Count      int       `json:"count" yaml:"count"`
	Total      string    `json:"total" yaml:"total"`
	Returned   int       `json:"returned" yaml:"returned"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	SearchedAt time.Time `json:"searched_at" yaml:"searched_at"`
}

// Failed reports whether the search ended in an error.
func (e Entry) Failed() bool { return e.Error != "" }

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			mode TEXT NOT NULL,
			expression TEXT NOT NULL,
			count INTEGER NOT NULL,
			total TEXT NOT NULL,
			returned INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			searched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_searched_at ON searches(searched_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends e and returns its id. A zero SearchedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.SearchedAt.IsZero() {
		e.SearchedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (query, mode, expression, count, total, returned, error, searched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Query, e.Mode, e.Expression, e.Count, e.Total, e.Returned, e.Error,
		e.SearchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("recording search: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, mode, expression, count, total, returned, error, searched_at
		 FROM searches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.ID, &e.Query, &e.Mode, &e.Expression, &e.Count, &e.Total, &e.Returned, &e.Error, &at); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.SearchedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}
