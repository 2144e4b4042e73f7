// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps a local log of exports in SQLite so users can see
// what was written where, and when.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	path       TEXT NOT NULL,
	format     TEXT NOT NULL,
	count      INTEGER NOT NULL,
	attributes TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_exports_created ON exports(created_at);
`

// ErrClosed is returned after Close.
var ErrClosed = errors.New("history store closed")

// =============================================================================
// TYPES
// =============================================================================

// Record is one export attempt.
type Record struct {
	ID         string
	At         time.Time
	Path       string
	Format     string
	Count      int
	Attributes []string
	Err        string // empty on success
}

// Succeeded reports whether the export wrote its file.
func (r Record) Succeeded() bool {
	return r.Err == ""
}

// Store is the SQLite-backed history log. Safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Open opens (creating if needed) the history database at path. Use
// ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// One connection: SQLite has a single writer, and :memory: databases
	// are per-connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Add stores r, assigning an ID and timestamp when they are unset, and
// returns the stored record.
func (s *Store) Add(ctx context.Context, r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return Record{}, ErrClosed
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.At.IsZero() {
		r.At = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (id, created_at, path, format, count, attributes, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.At.UnixNano(), r.Path, r.Format, r.Count, strings.Join(r.Attributes, ","), r.Err,
	)
	if err != nil {
		return Record{}, fmt.Errorf("failed to record export: %w", err)
	}
	return r, nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, path, format, count, attributes, error
		 FROM exports ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			r     Record
			at    int64
			attrs string
		)
		if err := rows.Scan(&r.ID, &at, &r.Path, &r.Format, &r.Count, &attrs, &r.Err); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		r.At = time.Unix(0, at)
		if attrs != "" {
			r.Attributes = strings.Split(attrs, ",")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Clear deletes every record and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM exports`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
