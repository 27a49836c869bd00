package core

// TableSchema describes how a registered table is looked up.
type TableSchema struct {
	// TableName is the name of the table.
	TableName string

	// PrimaryKey is the column used for single-row lookups.
	// Defaults to "id" followed by the table name.
	PrimaryKey string
}

// DefaultPrimaryKey returns the conventional key column for a table: "id" + table.
// The same rule names the referencing column of a foreign key.
func DefaultPrimaryKey(tableName string) string {
	return "id" + tableName
}
