package core

// Record is a single fetched row: column names in result order and their values.
// Values are nil, int64, float64, string or bool.
type Record struct {
	columns []string
	values  map[string]interface{}
}

// NewRecord creates an empty record with room for n columns.
func NewRecord(n int) *Record {
	return &Record{
		columns: make([]string, 0, n),
		values:  make(map[string]interface{}, n),
	}
}

// RecordFromMap builds a record from a plain map, using the given column order.
// Columns listed in order but absent from m are stored as nil.
func RecordFromMap(order []string, m map[string]interface{}) *Record {
	rec := NewRecord(len(order))
	for _, col := range order {
		rec.Set(col, m[col])
	}
	return rec
}

// Set stores a value. A column set twice keeps its first position.
func (r *Record) Set(column string, value interface{}) {
	if _, exists := r.values[column]; !exists {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the value of a column and whether the column exists.
func (r *Record) Get(column string) (interface{}, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the column names in order.
func (r *Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns.
func (r *Record) Len() int {
	return len(r.columns)
}

// Map returns a copy of the values keyed by column name.
func (r *Record) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
