package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

// SQLDatabase implements the core.Database interface on top of database/sql.
// It works with any registered driver; constructors in this package open the
// MySQL and SQLite flavours.
type SQLDatabase struct {
	mu     sync.RWMutex
	db     *sql.DB
	driver string
	closed bool
}

// NewSQLDatabase wraps an already opened *sql.DB.
// driver is only used in log lines.
func NewSQLDatabase(db *sql.DB, driver string) *SQLDatabase {
	return &SQLDatabase{
		db:     db,
		driver: driver,
	}
}

func (s *SQLDatabase) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Prepare compiles a statement for repeated execution.
func (s *SQLDatabase) Prepare(ctx context.Context, query string) (core.Statement, error) {
	if s.isClosed() {
		return nil, fmt.Errorf("database is closed")
	}
	log.Printf("[SQL] Preparing statement (%s): %s", s.driver, query)
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		log.Printf("[SQL] ERROR: Prepare failed: %v", err)
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &sqlStatement{stmt: stmt, query: query}, nil
}

// Query executes a SELECT query and returns rows.
func (s *SQLDatabase) Query(ctx context.Context, query string, args ...interface{}) (core.Rows, error) {
	if s.isClosed() {
		return nil, fmt.Errorf("database is closed")
	}
	log.Printf("[SQL] Executing query (%s): %s with %d args", s.driver, query, len(args))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("[SQL] ERROR: Query failed: %v", err)
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &sqlRows{rows: rows}, nil
}

// DB returns the underlying *sql.DB.
func (s *SQLDatabase) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLDatabase) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// sqlStatement wraps sql.Stmt to implement core.Statement.
type sqlStatement struct {
	stmt  *sql.Stmt
	query string
}

func (st *sqlStatement) Query(ctx context.Context, args ...interface{}) (core.Rows, error) {
	log.Printf("[SQL] Executing prepared statement: %s with %d args", st.query, len(args))
	rows, err := st.stmt.QueryContext(ctx, args...)
	if err != nil {
		log.Printf("[SQL] ERROR: Prepared statement failed: %v", err)
		return nil, fmt.Errorf("failed to execute prepared statement: %w", err)
	}
	return &sqlRows{rows: rows}, nil
}

func (st *sqlStatement) Close() error {
	return st.stmt.Close()
}

// sqlRows wraps sql.Rows to implement core.Rows.
type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool {
	return r.rows.Next()
}

func (r *sqlRows) Columns() ([]string, error) {
	return r.rows.Columns()
}

func (r *sqlRows) ColumnTypes() ([]string, error) {
	types, err := r.rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.DatabaseTypeName()
	}
	return names, nil
}

func (r *sqlRows) Scan(dest ...interface{}) error {
	return r.rows.Scan(dest...)
}

func (r *sqlRows) Close() error {
	return r.rows.Close()
}

func (r *sqlRows) Err() error {
	return r.rows.Err()
}
