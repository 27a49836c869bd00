package registry

import (
	"fmt"
	"sort"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

// ForeignKeyMap maps a table to the ordered list of tables its rows reference.
// The referencing column for a referenced table F is always "id" + F.
type ForeignKeyMap struct {
	edges map[string][]string
}

// NewForeignKeyMap copies a table => referenced tables map.
func NewForeignKeyMap(edges map[string][]string) *ForeignKeyMap {
	m := &ForeignKeyMap{
		edges: make(map[string][]string, len(edges)),
	}
	for table, refs := range edges {
		copied := make([]string, len(refs))
		copy(copied, refs)
		m.edges[table] = copied
	}
	return m
}

// References returns the tables referenced by table, in declared order.
// A table without an entry has no foreign keys.
func (m *ForeignKeyMap) References(table string) []string {
	if m == nil {
		return nil
	}
	refs := m.edges[table]
	out := make([]string, len(refs))
	copy(out, refs)
	return out
}

// Column returns the name of the column that references table.
func (m *ForeignKeyMap) Column(referenced string) string {
	return core.DefaultPrimaryKey(referenced)
}

// Tables returns the referencing tables in sorted order.
func (m *ForeignKeyMap) Tables() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.edges))
	for table := range m.edges {
		names = append(names, table)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every table of the map, referencing or referenced, is registered.
func (m *ForeignKeyMap) Validate(tables *TableRegistry) error {
	for _, table := range m.Tables() {
		if !tables.IsRegistered(table) {
			return fmt.Errorf("%w: table '%s' declares foreign keys", core.ErrUnregisteredTable, table)
		}
		for _, ref := range m.edges[table] {
			if !tables.IsRegistered(ref) {
				return fmt.Errorf("%w: table '%s' is referenced by '%s'", core.ErrUnregisteredTable, ref, table)
			}
		}
	}
	return nil
}
