package registry

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/schema"
)

// TableMetadata contains metadata about a registered table.
type TableMetadata struct {
	// Schema holds the table name and its primary key column.
	Schema core.TableSchema

	// Query is the SQL text of the compiled single-row statement.
	Query string

	// RegisteredAt is the timestamp when the table was (last) registered.
	RegisteredAt time.Time

	stmt core.Statement
}

// TableRegistry holds, per registered table, a compiled single-row-by-key statement.
// It provides thread-safe operations for registering tables and fetching rows.
type TableRegistry struct {
	mu         sync.RWMutex
	db         core.Database
	tables     map[string]*TableMetadata
	translator *schema.Translator
	validator  *schema.SchemaValidator
}

// NewTableRegistry creates a new table registry bound to a database.
func NewTableRegistry(db core.Database) *TableRegistry {
	return &TableRegistry{
		db:         db,
		tables:     make(map[string]*TableMetadata),
		translator: schema.NewTranslator(),
		validator:  schema.NewSchemaValidator(),
	}
}

// quoteIdentifier quotes a validated identifier. Backticks are understood by
// both MySQL and SQLite.
func quoteIdentifier(name string) string {
	return "`" + name + "`"
}

// Register compiles the single-row statement of a table.
// keyColumn defaults to "id" + tableName when empty. Registering a table again
// replaces its statement.
func (tr *TableRegistry) Register(ctx context.Context, tableName, keyColumn string) error {
	if err := tr.validator.ValidateIdentifier(tableName); err != nil {
		return fmt.Errorf("invalid table name: %w", err)
	}
	if keyColumn == "" {
		keyColumn = core.DefaultPrimaryKey(tableName)
	}
	if err := tr.validator.ValidateIdentifier(keyColumn); err != nil {
		return fmt.Errorf("invalid key column for table %q: %w", tableName, err)
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = ? LIMIT 1", quoteIdentifier(tableName), quoteIdentifier(keyColumn))
	stmt, err := tr.db.Prepare(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare statement for table %q: %v", core.ErrQueryExecution, tableName, err)
	}

	metadata := &TableMetadata{
		Schema: core.TableSchema{
			TableName:  tableName,
			PrimaryKey: keyColumn,
		},
		Query:        query,
		RegisteredAt: time.Now(),
		stmt:         stmt,
	}

	tr.mu.Lock()
	existing, exists := tr.tables[tableName]
	tr.tables[tableName] = metadata
	tr.mu.Unlock()

	if exists {
		if err := existing.stmt.Close(); err != nil {
			log.Printf("[REGISTRY] WARNING: failed to close replaced statement for table %s: %v", tableName, err)
		}
		log.Printf("[REGISTRY] Re-registered table %s (key: %s)", tableName, keyColumn)
	} else {
		log.Printf("[REGISTRY] Registered table %s (key: %s)", tableName, keyColumn)
	}
	return nil
}

// get returns the metadata of a table or an error wrapping ErrUnregisteredTable.
func (tr *TableRegistry) get(tableName string) (*TableMetadata, error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	metadata, exists := tr.tables[tableName]
	if !exists {
		return nil, fmt.Errorf("%w: table '%s'", core.ErrUnregisteredTable, tableName)
	}
	return metadata, nil
}

// GetMetadata returns a copy of the metadata of a registered table.
func (tr *TableRegistry) GetMetadata(tableName string) (*TableMetadata, error) {
	metadata, err := tr.get(tableName)
	if err != nil {
		return nil, err
	}
	return &TableMetadata{
		Schema:       metadata.Schema,
		Query:        metadata.Query,
		RegisteredAt: metadata.RegisteredAt,
	}, nil
}

// IsRegistered reports whether a table has been registered.
func (tr *TableRegistry) IsRegistered(tableName string) bool {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	_, exists := tr.tables[tableName]
	return exists
}

// FetchOne runs the compiled statement of a table with key.
// Returns a nil record and no error when no row matches.
func (tr *TableRegistry) FetchOne(ctx context.Context, tableName string, key interface{}) (*core.Record, error) {
	metadata, err := tr.get(tableName)
	if err != nil {
		return nil, err
	}

	rows, err := metadata.stmt.Query(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: SQL error during request on table '%s': %v", core.ErrQueryExecution, tableName, err)
	}
	defer rows.Close()

	records, err := tr.translator.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: SQL error during request on table '%s': %v", core.ErrQueryExecution, tableName, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// FetchMany selects every row of a table matching all equality filters, in
// result order. Empty filters select the whole table. The statement is built
// per call and not cached.
func (tr *TableRegistry) FetchMany(ctx context.Context, tableName string, filters core.Filters) ([]*core.Record, error) {
	if _, err := tr.get(tableName); err != nil {
		return nil, err
	}

	filters, err := tr.validator.ValidateFilters(filters)
	if err != nil {
		return nil, err
	}

	query, args := buildSelectQuery(tableName, filters)
	rows, err := tr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SQL error during select on table '%s': %v", core.ErrQueryExecution, tableName, err)
	}
	defer rows.Close()

	records, err := tr.translator.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: SQL error during select on table '%s': %v", core.ErrQueryExecution, tableName, err)
	}
	return records, nil
}

// buildSelectQuery builds a SELECT query with one equality predicate per filter.
// A NULL filter value is matched with IS NULL.
func buildSelectQuery(tableName string, filters core.Filters) (string, []interface{}) {
	query := "SELECT * FROM " + quoteIdentifier(tableName)
	if len(filters) == 0 {
		return query, nil
	}

	where := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for _, cond := range filters {
		if cond.Value == nil {
			where = append(where, quoteIdentifier(cond.Column)+" IS NULL")
			continue
		}
		where = append(where, quoteIdentifier(cond.Column)+" = ?")
		args = append(args, cond.Value)
	}
	return query + " WHERE " + strings.Join(where, " AND "), args
}

// List returns the registered table names in sorted order.
func (tr *TableRegistry) List() []string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	names := make([]string, 0, len(tr.tables))
	for name := range tr.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the total number of registered tables.
func (tr *TableRegistry) Count() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.tables)
}

// Unregister removes a table and closes its statement.
func (tr *TableRegistry) Unregister(tableName string) error {
	tr.mu.Lock()
	metadata, exists := tr.tables[tableName]
	if !exists {
		tr.mu.Unlock()
		return fmt.Errorf("%w: table '%s'", core.ErrUnregisteredTable, tableName)
	}
	delete(tr.tables, tableName)
	tr.mu.Unlock()

	return metadata.stmt.Close()
}

// Close closes every compiled statement and empties the registry.
// The database itself is left open.
func (tr *TableRegistry) Close() error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	var errs []error
	for name, metadata := range tr.tables {
		if err := metadata.stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close statement for table %q: %w", name, err))
		}
	}
	tr.tables = make(map[string]*TableMetadata)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
