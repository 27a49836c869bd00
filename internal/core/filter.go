package core

import "sort"

// Condition is a single equality predicate: Column = Value.
type Condition struct {
	Column string
	Value  interface{}
}

// Filters is an ordered list of equality conditions joined with AND.
// An empty list selects every row.
type Filters []Condition

// Where starts a filter list with a single condition.
func Where(column string, value interface{}) Filters {
	return Filters{{Column: column, Value: value}}
}

// And returns a copy of f with one more condition appended.
func (f Filters) And(column string, value interface{}) Filters {
	out := make(Filters, len(f), len(f)+1)
	copy(out, f)
	return append(out, Condition{Column: column, Value: value})
}

// FiltersFromMap converts a map into filters ordered by column name,
// so that the generated SQL is stable between calls.
func FiltersFromMap(m map[string]interface{}) Filters {
	columns := make([]string, 0, len(m))
	for col := range m {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	out := make(Filters, 0, len(columns))
	for _, col := range columns {
		out = append(out, Condition{Column: col, Value: m[col]})
	}
	return out
}
