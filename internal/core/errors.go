package core

import "errors"

var (
	// ErrUnregisteredTable is returned when an operation references a table that was never registered.
	ErrUnregisteredTable = errors.New("table has not been registered")

	// ErrUnknownOperation is returned when an operation does not match any known verb or token.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrMissingKey is returned when a keyed lookup is called without a usable key.
	ErrMissingKey = errors.New("missing primary key value")

	// ErrInvalidFilter is returned when a select filter is not a valid equality map.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrQueryExecution is returned when the database reports a failure running a statement.
	ErrQueryExecution = errors.New("query execution failed")

	// ErrDanglingForeignKey is returned when a non-null foreign key does not match any row.
	ErrDanglingForeignKey = errors.New("dangling foreign key")

	// ErrUndeclaredProperty is returned when reading a property absent from an object.
	ErrUndeclaredProperty = errors.New("undeclared property")
)
