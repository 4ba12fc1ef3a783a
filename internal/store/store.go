// Package store is the C1 persistence layer: a single SQLite-backed
// repository type covering every entity in the data model (lands,
// domains, expressions, links, words, dictionaries, media, paragraphs,
// embeddings, similarities, tags, tagged content). It follows the
// teacher's store.go shape — CREATE TABLE IF NOT EXISTS for every
// table, with no column-level changes to a table that already exists —
// generalized from a single-table HTTP cache to the full relational model.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mwi/internal/core"
	"mwi/internal/logger"
)

// Store is the sole repository type. It is safe for concurrent use:
// reads go through the pooled *sql.DB directly, writes serialize
// through writeMu so SQLite's single-writer constraint never surfaces
// as a caller-visible "database is locked" error.
type Store struct {
	db      *sql.DB
	writeMu sync.Mutex
}

// Open opens (creating if necessary) the SQLite database at path and
// applies the pragmas the engine depends on: foreign key enforcement,
// WAL journaling for reader/writer concurrency, and NORMAL synchronous
// durability (safe under WAL, and the teacher's own cache store made
// the same durability-for-throughput trade).
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, core.NewError("store.Open", core.KindSchemaError, err)
	}
	db.SetMaxOpenConns(8)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, core.NewError("store.Open", core.KindSchemaError, fmt.Errorf("%s: %w", p, err))
		}
	}

	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates every table that doesn't exist yet. It never drops or
// alters existing data, so it is safe to call on every process start —
// the teacher's migrate step followed the same idempotent, additive
// philosophy.
func (s *Store) Migrate(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, t := range tableDefs {
		if _, err := s.db.ExecContext(ctx, t.ddl); err != nil {
			return core.NewError("store.Migrate", core.KindSchemaError, fmt.Errorf("table %s: %w", t.name, err))
		}
	}
	return nil
}

// Setup destroys and recreates every table. confirm is called before
// anything is dropped; if it returns false, Setup returns a
// KindCancelled error and leaves the database untouched — mirroring
// the teacher's confirmation-gated destructive commands.
func (s *Store) Setup(ctx context.Context, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return core.NewError("store.Setup", core.KindCancelled, fmt.Errorf("setup cancelled"))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, name := range dropOrder() {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name)); err != nil {
			return core.NewError("store.Setup", core.KindSchemaError, fmt.Errorf("drop %s: %w", name, err))
		}
	}
	for _, t := range tableDefs {
		if _, err := s.db.ExecContext(ctx, t.ddl); err != nil {
			return core.NewError("store.Setup", core.KindSchemaError, fmt.Errorf("create %s: %w", t.name, err))
		}
	}
	logger.Info("store setup complete", "tables", len(tableDefs))
	return nil
}

// withTx runs fn inside a single transaction, serialized against every
// other writer via writeMu. Every multi-statement write path in this
// package goes through withTx so a partial failure never leaves
// related tables inconsistent.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewError("store.withTx", core.KindSchemaError, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return core.NewError("store.withTx", core.KindSchemaError, err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
