package rowgate

import (
	"database/sql"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/database"
	"github.com/rzpsarthak13/rowgate/internal/object"
	"github.com/rzpsarthak13/rowgate/internal/resolver"
	"github.com/rzpsarthak13/rowgate/internal/sink"
)

type (
	// Database is the connection consumed by a gateway.
	Database = core.Database

	// Record is a fetched row: ordered column names and values.
	Record = core.Record

	// Object is a resolved object. A nil Object returned without error means "not found".
	Object = core.Object

	// RowObject is the default Object. User types embed *RowObject.
	RowObject = object.RowObject

	// Constructor builds an Object from a fetched record.
	Constructor = core.Constructor

	// Condition is a single equality predicate.
	Condition = core.Condition

	// Filters is an ordered list of equality conditions joined with AND.
	Filters = core.Filters

	// Operation is one of GetByKey, SelectByFilter or RawQuery.
	Operation = resolver.Operation

	// GetByKey fetches a single row by primary key.
	GetByKey = resolver.GetByKey

	// SelectByFilter fetches every row matching equality filters.
	SelectByFilter = resolver.SelectByFilter

	// RawQuery runs an arbitrary parameterized statement.
	RawQuery = resolver.RawQuery

	// Result holds the outcome of an operation.
	Result = resolver.Result

	// Sink is an export target.
	Sink = core.Sink

	// MemorySink keeps exported entries in memory.
	MemorySink = sink.MemorySink
)

var (
	// Where starts a filter list with a single condition.
	Where = core.Where

	// FiltersFromMap converts a map into filters ordered by column name.
	FiltersFromMap = core.FiltersFromMap

	// NewRecord creates an empty record.
	NewRecord = core.NewRecord

	// RecordFromMap builds a record from a map using the given column order.
	RecordFromMap = core.RecordFromMap

	// NewRowObject creates a RowObject holding every column of a record.
	NewRowObject = object.New

	// RegisterType registers the constructor of a user type for a table under a namespace.
	RegisterType = object.RegisterType

	// ParseCall builds an operation from a call name such as "getClient" and textual arguments.
	ParseCall = resolver.ParseCall

	// ParseValue converts a textual argument the way ParseCall does: NULL becomes nil,
	// integers int64 and other numbers float64.
	ParseValue = resolver.ParseValue

	// NewMemorySink creates an empty in-memory sink.
	NewMemorySink = sink.NewMemorySink
)

// WrapDB adapts an opened *sql.DB. driver is only used in log lines.
func WrapDB(db *sql.DB, driver string) Database {
	return database.NewSQLDatabase(db, driver)
}

// Errors returned by gateways. Match them with errors.Is.
var (
	ErrUnregisteredTable  = core.ErrUnregisteredTable
	ErrUnknownOperation   = core.ErrUnknownOperation
	ErrMissingKey         = core.ErrMissingKey
	ErrInvalidFilter      = core.ErrInvalidFilter
	ErrQueryExecution     = core.ErrQueryExecution
	ErrDanglingForeignKey = core.ErrDanglingForeignKey
	ErrUndeclaredProperty = core.ErrUndeclaredProperty
	ErrSinkClosed         = sink.ErrSinkClosed
	ErrSinkNotConfigured  = sink.ErrSinkNotConfigured
)
