package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

// Translator converts database rows into records and resolved objects into
// key-value pairs for export.
type Translator struct {
	mapper    *TypeMapper
	keyFormat string // Format for building keys: "{table}:{primary_key}"
}

// NewTranslator creates a new schema translator.
func NewTranslator() *Translator {
	return &Translator{
		mapper:    NewTypeMapper(),
		keyFormat: "%s:%v", // Default format: table:primary_key
	}
}

// NewTranslatorWithKeyFormat creates a new schema translator with a custom key format.
// The format should contain two placeholders: first for table name, second for primary key value.
func NewTranslatorWithKeyFormat(format string) *Translator {
	return &Translator{
		mapper:    NewTypeMapper(),
		keyFormat: format,
	}
}

// Mapper returns the type mapper used by the translator.
func (t *Translator) Mapper() *TypeMapper {
	return t.mapper
}

// FromRows drains rows into records, preserving result order.
// Column values are normalized using the column type names reported by the driver.
// The caller remains responsible for closing rows.
func (t *Translator) FromRows(rows core.Rows) ([]*core.Record, error) {
	if rows == nil {
		return nil, fmt.Errorf("rows cannot be nil")
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil || len(types) != len(columns) {
		types = make([]string, len(columns))
	}

	records := make([]*core.Record, 0)
	for rows.Next() {
		// Create a slice of interface{} pointers for scanning
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := core.NewRecord(len(columns))
		for i, col := range columns {
			converted, err := t.mapper.ConvertFromDBValue(values[i], types[i])
			if err != nil {
				return nil, fmt.Errorf("failed to convert value for column '%s': %w", col, err)
			}
			record.Set(col, converted)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// BuildKey builds the export key of a row: [namespace:]table:primary_key.
func (t *Translator) BuildKey(namespace, tableName string, pkValue interface{}) string {
	key := fmt.Sprintf(t.keyFormat, tableName, pkValue)
	if namespace != "" {
		return namespace + ":" + key
	}
	return key
}

// ToKV converts a resolved object to a key-value pair.
// The key is built from the value of the object's primary key property and the
// value is the object encoded as a JSON document in property order.
func (t *Translator) ToKV(namespace string, tableSchema *core.TableSchema, obj core.Object) (string, []byte, error) {
	if obj == nil {
		return "", nil, fmt.Errorf("object cannot be nil")
	}
	if tableSchema == nil {
		return "", nil, fmt.Errorf("schema cannot be nil")
	}

	pkValue, err := obj.Get(tableSchema.PrimaryKey)
	if err != nil {
		return "", nil, fmt.Errorf("primary key '%s' not found in object: %w", tableSchema.PrimaryKey, err)
	}
	if pkValue == nil {
		return "", nil, fmt.Errorf("primary key '%s' is NULL", tableSchema.PrimaryKey)
	}

	value, err := EncodeObject(obj)
	if err != nil {
		return "", nil, err
	}

	return t.BuildKey(namespace, tableSchema.TableName, pkValue), value, nil
}

// EncodeObject encodes an object as a JSON document whose members appear in property order.
func EncodeObject(obj core.Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range obj.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal property name '%s': %w", name, err)
		}
		value, err := obj.Get(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal property '%s': %w", name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
