package resolver

import (
	"context"
	"fmt"
	"log"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/object"
	"github.com/rzpsarthak13/rowgate/internal/registry"
	"github.com/rzpsarthak13/rowgate/internal/schema"
)

// ForeignKeyPrefixSeparator separates the referenced table name from its column
// names in inlined properties, e.g. "Town__town".
const ForeignKeyPrefixSeparator = "__"

// Resolver executes operations against registered tables and turns rows into
// objects with their foreign-key rows inlined.
// It keeps no state between calls besides its collaborators.
type Resolver struct {
	db          core.Database
	tables      *registry.TableRegistry
	foreignKeys *registry.ForeignKeyMap
	factory     *object.Factory
	translator  *schema.Translator
	validator   *schema.SchemaValidator
}

// New creates a resolver. foreignKeys and factory may be nil.
func New(db core.Database, tables *registry.TableRegistry, foreignKeys *registry.ForeignKeyMap, factory *object.Factory) *Resolver {
	if foreignKeys == nil {
		foreignKeys = registry.NewForeignKeyMap(nil)
	}
	if factory == nil {
		factory = object.NewFactory("")
	}
	return &Resolver{
		db:          db,
		tables:      tables,
		foreignKeys: foreignKeys,
		factory:     factory,
		translator:  schema.NewTranslator(),
		validator:   schema.NewSchemaValidator(),
	}
}

// Execute dispatches an operation.
func (r *Resolver) Execute(ctx context.Context, op Operation) (*Result, error) {
	switch op := op.(type) {
	case GetByKey:
		obj, err := r.Get(ctx, op.Table, op.Key)
		if err != nil {
			return nil, err
		}
		result := &Result{Object: obj}
		if obj != nil {
			result.Objects = []core.Object{obj}
		}
		return result, nil
	case SelectByFilter:
		objs, err := r.Select(ctx, op.Table, op.Filters)
		if err != nil {
			return nil, err
		}
		return &Result{Objects: objs}, nil
	case RawQuery:
		objs, err := r.Query(ctx, op.SQL, op.Params...)
		if err != nil {
			return nil, err
		}
		return &Result{Objects: objs}, nil
	case nil:
		return nil, fmt.Errorf("%w: nil operation", core.ErrUnknownOperation)
	default:
		return nil, fmt.Errorf("%w: method '%s' does not exist", core.ErrUnknownOperation, op.Name())
	}
}

func (r *Resolver) checkRegistered(table, call string) error {
	if !r.tables.IsRegistered(table) {
		return fmt.Errorf("%w: table '%s' ; '%s' call failed", core.ErrUnregisteredTable, table, call)
	}
	return nil
}

// Get fetches the row of table whose primary key equals key.
// Returns a nil object and no error when no row matches.
func (r *Resolver) Get(ctx context.Context, table string, key interface{}) (core.Object, error) {
	if err := r.checkRegistered(table, VerbGet+table); err != nil {
		return nil, err
	}
	key, err := r.validator.ValidatePrimaryKey(key)
	if err != nil {
		return nil, fmt.Errorf("'%s%s' call failed: %w", VerbGet, table, err)
	}

	rec, err := r.tables.FetchOne(ctx, table, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		log.Printf("[RESOLVER] %s%s(%v): not found", VerbGet, table, key)
		return nil, nil
	}

	obj := r.factory.Wrap(table, rec)
	if err := r.resolveForeignKeys(ctx, table, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// Select fetches every row of table matching all filters, in result order.
// Empty filters select every row.
func (r *Resolver) Select(ctx context.Context, table string, filters core.Filters) ([]core.Object, error) {
	if err := r.checkRegistered(table, VerbSelect+table); err != nil {
		return nil, err
	}

	records, err := r.tables.FetchMany(ctx, table, filters)
	if err != nil {
		return nil, err
	}

	objs := make([]core.Object, 0, len(records))
	for _, rec := range records {
		obj := r.factory.Wrap(table, rec)
		if err := r.resolveForeignKeys(ctx, table, obj); err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	log.Printf("[RESOLVER] %s%s: %d rows", VerbSelect, table, len(objs))
	return objs, nil
}

// Query runs a parameterized statement without going through table registration.
// Every row is wrapped in a RowObject; foreign keys are not resolved.
func (r *Resolver) Query(ctx context.Context, query string, params ...interface{}) ([]core.Object, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty statement", core.ErrQueryExecution)
	}

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: SQL error during query: %v", core.ErrQueryExecution, err)
	}
	defer rows.Close()

	records, err := r.translator.FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: SQL error during query: %v", core.ErrQueryExecution, err)
	}

	objs := make([]core.Object, 0, len(records))
	for _, rec := range records {
		objs = append(objs, r.factory.WrapDefault(rec))
	}
	return objs, nil
}

// resolveForeignKeys inlines, in declared order, the row of every table
// referenced by obj under the prefix "<Table>__". A NULL reference is skipped;
// any other value, zero included, must match a row. Only one level is resolved.
func (r *Resolver) resolveForeignKeys(ctx context.Context, table string, obj core.Object) error {
	for _, ref := range r.foreignKeys.References(table) {
		column := r.foreignKeys.Column(ref)
		key, err := obj.Get(column)
		if err != nil {
			return fmt.Errorf("foreign key of '%s' to '%s': %w", table, ref, err)
		}
		if key == nil {
			continue
		}

		rec, err := r.tables.FetchOne(ctx, ref, key)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%w: foreign key row of '%s' with primary key '%v' does not exist", core.ErrDanglingForeignKey, ref, key)
		}
		obj.CopyFrom(rec, ref+ForeignKeyPrefixSeparator)
	}
	return nil
}
