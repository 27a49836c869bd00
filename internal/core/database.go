package core

import (
	"context"
)

// Database defines the connection abstraction consumed by the registry and resolver.
// Implementations must be able to compile a statement once and run it many times,
// and to run an ad-hoc parameterized statement once.
type Database interface {
	// Prepare compiles a parameterized statement for repeated execution.
	Prepare(ctx context.Context, query string) (Statement, error)

	// Query executes an ad-hoc parameterized statement and returns its rows.
	Query(ctx context.Context, query string, args ...interface{}) (Rows, error)

	// Close closes the connection and releases resources.
	Close() error
}

// Statement is a compiled statement bound to a Database.
type Statement interface {
	// Query executes the statement with the given parameter bindings.
	Query(ctx context.Context, args ...interface{}) (Rows, error)

	// Close releases the compiled statement.
	Close() error
}

// Rows is a forward-only cursor over a result set.
type Rows interface {
	Next() bool

	// Columns returns the column names in result order.
	Columns() ([]string, error)

	// ColumnTypes returns the database type name of each column, in result order.
	// An entry may be empty when the driver cannot report it.
	ColumnTypes() ([]string, error)

	Scan(dest ...interface{}) error
	Close() error
	Err() error
}
