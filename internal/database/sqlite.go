package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDatabase opens a SQLite database file.
// In-memory databases (":memory:" or "mode=memory" DSNs) are pinned to a single
// connection so every statement sees the same data.
func NewSQLiteDatabase(path string) (*SQLDatabase, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewSQLDatabase(db, "sqlite3"), nil
}

// ExecScript runs a multi-statement SQL script, such as a schema and its fixtures.
func (s *SQLDatabase) ExecScript(ctx context.Context, script string) error {
	if s.isClosed() {
		return fmt.Errorf("database is closed")
	}
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("failed to execute script: %w", err)
	}
	return nil
}
