// Package sqlite persists finished annotation collections in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/inodb/annograph/internal/graph"
	"github.com/inodb/annograph/internal/sink"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store writes collections into relational tables, one transaction per
// collection.
type Store struct {
	db   *sql.DB
	path string
}

var _ sink.Sink = (*Store)(nil)

// Open opens or creates a SQLite database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	for _, t := range sink.Schema {
		defs := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			defs[i] = c.Name + " " + columnType(c.Type)
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(defs, ", "))
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create %s table: %w", t.Name, err)
		}
		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_collection ON %s(collection)", t.Name, t.Name)
		if _, err := s.db.Exec(idx); err != nil {
			return fmt.Errorf("index %s: %w", t.Name, err)
		}
	}
	return nil
}

func columnType(t sink.ColumnType) string {
	switch t {
	case sink.Integer:
		return "INTEGER"
	case sink.Real:
		return "REAL"
	case sink.Timestamp:
		return "TIMESTAMP"
	}
	return "TEXT"
}

// Write replaces the rows of b's collection.
func (s *Store) Write(ctx context.Context, b *graph.Batch) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, t := range sink.Tables(b) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.Name+" WHERE collection = ?", b.Collection); err != nil {
			return fmt.Errorf("clear %s: %w", t.Name, err)
		}
		if len(t.Rows) == 0 {
			continue
		}
		if err := insertRows(ctx, tx, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, t sink.Table) error {
	names := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
		marks[i] = "?"
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s(%s) VALUES(%s)",
		t.Name, strings.Join(names, ","), strings.Join(marks, ",")))
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", t.Name, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range t.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert %s row: %w", t.Name, err)
		}
	}
	return nil
}

// Count returns the number of rows of a collection in table.
func (s *Store) Count(table, collection string) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT count(*) FROM "+table+" WHERE collection = ?", collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
