package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the layout used when date and time columns are turned into strings.
const TimeLayout = "2006-01-02 15:04:05"

// TypeMapper normalizes driver values into the row value domain:
// nil, int64, float64, string and bool.
type TypeMapper struct{}

// NewTypeMapper creates a new type mapper.
func NewTypeMapper() *TypeMapper {
	return &TypeMapper{}
}

// baseType strips size/precision and sign information (e.g., VARCHAR(255) -> VARCHAR,
// UNSIGNED INT -> INT).
func baseType(dbType string) string {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if idx := strings.Index(t, "("); idx > 0 {
		t = strings.TrimSpace(t[:idx])
	}
	t = strings.TrimPrefix(t, "UNSIGNED ")
	return t
}

// ConvertFromDBValue converts a scanned database value into the row value domain,
// using the column's database type name to pick the target type.
// When the type is unknown or the value does not fit it (SQLite stores any value
// in any column), the value is normalized on its own Go type instead.
func (tm *TypeMapper) ConvertFromDBValue(value interface{}, dbType string) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	var (
		converted interface{}
		err       error
	)

	switch baseType(dbType) {
	case "INT", "INTEGER", "MEDIUMINT", "BIGINT", "SMALLINT", "TINYINT", "INT2", "INT8", "YEAR":
		converted, err = tm.ToInt64(value)
	case "FLOAT", "DOUBLE", "DOUBLE PRECISION", "REAL":
		converted, err = tm.ToFloat64(value)
	case "DECIMAL", "NUMERIC":
		// Kept as text to preserve precision
		converted, err = tm.ToString(value)
	case "VARCHAR", "CHAR", "TEXT", "LONGTEXT", "MEDIUMTEXT", "TINYTEXT", "CLOB", "NVARCHAR", "NCHAR":
		converted, err = tm.ToString(value)
	case "BINARY", "VARBINARY", "BLOB", "LONGBLOB", "MEDIUMBLOB", "TINYBLOB":
		converted, err = tm.ToString(value)
	case "DATE", "DATETIME", "TIMESTAMP", "TIME":
		converted, err = tm.ToString(value)
	case "BOOLEAN", "BOOL":
		converted, err = tm.ToBool(value)
	case "JSON", "JSONB":
		converted, err = tm.ToString(value)
	default:
		return tm.Normalize(value)
	}

	if err != nil {
		return tm.Normalize(value)
	}
	return converted, nil
}

// Normalize converts a Go value into the row value domain based on its Go type alone.
// Returns an error for values that have no scalar representation (maps, slices, structs).
func (tm *TypeMapper) Normalize(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return v, nil
	case int, int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		return tm.ToInt64(v)
	case float32:
		return float64(v), nil
	case []byte:
		return string(v), nil
	case time.Time:
		return v.Format(TimeLayout), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		return v.Float64()
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}

// ToInt64 converts a value to int64.
func (tm *TypeMapper) ToInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("uint64 value %d overflows int64", v)
		}
		return int64(v), nil
	case float32:
		return tm.ToInt64(float64(v))
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("float64 value %v is not an integer", v)
		}
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return tm.ToInt64(string(v))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string to int64: %w", err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", value)
	}
}

// ToFloat64 converts a value to float64.
func (tm *TypeMapper) ToFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case []byte:
		return tm.ToFloat64(string(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string to float64: %w", err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// ToString converts a value to string.
func (tm *TypeMapper) ToString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32, float64:
		return fmt.Sprintf("%g", v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.Format(TimeLayout), nil
	default:
		// Try JSON encoding for complex types
		bytes, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("cannot convert %T to string: %w", value, err)
		}
		return string(bytes), nil
	}
}

// ToBool converts a value to bool. Non-zero numbers are true.
func (tm *TypeMapper) ToBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int, int8, int16, int32, int64:
		return reflect.ValueOf(v).Int() != 0, nil
	case uint, uint8, uint16, uint32, uint64:
		return reflect.ValueOf(v).Uint() != 0, nil
	case float64:
		return v != 0, nil
	case []byte:
		return tm.ToBool(string(v))
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			// Try numeric string
			if i, err := strconv.ParseInt(v, 10, 64); err == nil {
				return i != 0, nil
			}
			return false, fmt.Errorf("cannot convert string to bool: %w", err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}
