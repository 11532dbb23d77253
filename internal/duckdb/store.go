// Package duckdb persists finished annotation collections in DuckDB.
// Rows are batch-inserted with the Appender API.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/annograph/internal/graph"
	"github.com/inodb/annograph/internal/sink"
)

// Store manages a DuckDB connection holding loaded collections.
type Store struct {
	db   *sql.DB
	path string
}

var _ sink.Sink = (*Store)(nil)

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, t := range sink.Schema {
		defs := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			defs[i] = c.Name + " " + columnType(c.Type)
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create table %s: %w", t.Name, err)
		}
	}
	return nil
}

func columnType(t sink.ColumnType) string {
	switch t {
	case sink.Integer:
		return "BIGINT"
	case sink.Real:
		return "DOUBLE"
	case sink.Timestamp:
		return "TIMESTAMP"
	}
	return "VARCHAR"
}

// Write replaces the rows of b's collection in a single transaction.
func (s *Store) Write(ctx context.Context, b *graph.Batch) (err error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	for _, t := range sink.Tables(b) {
		if _, err := conn.ExecContext(ctx, "DELETE FROM "+t.Name+" WHERE collection = ?", b.Collection); err != nil {
			return fmt.Errorf("clear %s: %w", t.Name, err)
		}
		if len(t.Rows) == 0 {
			continue
		}
		if err := appendRows(conn, t); err != nil {
			return err
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func appendRows(conn *sql.Conn, t sink.Table) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", t.Name)
		return err
	}); err != nil {
		return fmt.Errorf("create appender for %s: %w", t.Name, err)
	}

	for _, row := range t.Rows {
		if err := appender.AppendRow(toDriverValues(row)...); err != nil {
			appender.Close()
			return fmt.Errorf("append %s row: %w", t.Name, err)
		}
	}
	if err := appender.Close(); err != nil {
		return fmt.Errorf("flush %s: %w", t.Name, err)
	}
	return nil
}

func toDriverValues(row []any) []driver.Value {
	out := make([]driver.Value, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
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

// Collections returns the identifiers of every stored collection.
func (s *Store) Collections() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT collection FROM data_sources ORDER BY collection")
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}
	return out, nil
}
