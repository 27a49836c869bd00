package rowgate

import (
	"context"
)

// Table is the handle of a registered table.
type Table struct {
	gw         *Gateway
	name       string
	primaryKey string
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// PrimaryKey returns the key column used by Get.
func (t *Table) PrimaryKey() string {
	return t.primaryKey
}

// Get fetches an object by primary key. A nil Object means not found.
func (t *Table) Get(ctx context.Context, key interface{}) (Object, error) {
	return t.gw.Get(ctx, t.name, key)
}

// Select fetches the objects matching all filters.
func (t *Table) Select(ctx context.Context, filters Filters) ([]Object, error) {
	return t.gw.Select(ctx, t.name, filters)
}

// Export writes the objects matching filters into sink.
func (t *Table) Export(ctx context.Context, sink Sink, filters Filters) (int, error) {
	return t.gw.Export(ctx, sink, t.name, filters)
}
