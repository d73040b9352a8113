// Copyright 2026 The Marmot Authors
// SPDX-License-Identifier: Apache-2.0

// Package store provides the SQLite foundation for plugins that
// persist state.
//
// It wraps zombiezen.com/go/sqlite with chat-bot defaults: WAL
// journal mode so reads never block the single writer, a busy timeout
// instead of immediate SQLITE_BUSY, and a per-store schema script run
// once per connection. Plugins write plain SQL through sqlitex — the
// package deliberately adds no query-builder layer.
//
// Connections are pooled. Callers [Store.Take] a connection, do their
// work, and [Store.Put] it back; individual connections are not safe
// for concurrent use. For the single-threaded dispatch loop a pool
// size of 1 or 2 is plenty.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Options configures Open. Path is required.
type Options struct {
	// Path is the database file, created if missing. ":memory:"
	// keeps the database in RAM; the pool size is then forced to 1
	// because each in-memory connection would otherwise be an
	// independent database.
	Path string

	// PoolSize is the number of pooled connections. Zero means 2.
	PoolSize int

	// Schema is a SQL script executed once per connection before
	// first use: CREATE TABLE IF NOT EXISTS statements, indexes.
	Schema string

	// Logger receives open/close messages. Nil discards them.
	Logger *slog.Logger
}

// Store is a pooled SQLite database handle shared by plugins.
type Store struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
}

// Open opens the database and prepares the connection pool. The
// caller must Close the store when done.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("store: Path is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	size := opts.PoolSize
	if size <= 0 {
		size = 2
	}
	if opts.Path == ":memory:" {
		size = 1
	}

	pool, err := sqlitex.NewPool(opts.Path, sqlitex.PoolOptions{
		PoolSize: size,
		PrepareConn: func(conn *sqlite.Conn) error {
			return prepare(conn, opts.Schema)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", opts.Path, err)
	}

	logger.Info("store opened", "path", opts.Path, "pool_size", size)
	return &Store{pool: pool, logger: logger, path: opts.Path}, nil
}

// Take borrows a connection, blocking until one is free or ctx is
// cancelled. Pair every Take with a deferred Put.
func (s *Store) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: take: %w", err)
	}
	return conn, nil
}

// Put returns a borrowed connection. Safe to call with nil.
func (s *Store) Put(conn *sqlite.Conn) {
	s.pool.Put(conn)
}

// Close closes the pool, blocking until all borrowed connections are
// returned.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("store: closing %s: %w", s.path, err)
	}
	s.logger.Info("store closed", "path", s.path)
	return nil
}

func prepare(conn *sqlite.Conn, schema string) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	if schema != "" {
		if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
			return fmt.Errorf("store: applying schema: %w", err)
		}
	}
	return nil
}
