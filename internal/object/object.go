package object

import (
	"fmt"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/schema"
)

var mapper = schema.NewTypeMapper()

// RowObject is the default resolved object: an ordered property bag.
// User types embed *RowObject to get property access for free.
type RowObject struct {
	names  []string
	values map[string]interface{}
}

// New creates a RowObject holding every column of rec.
func New(rec *core.Record) *RowObject {
	o := &RowObject{
		values: make(map[string]interface{}),
	}
	if rec != nil {
		o.CopyFrom(rec, "")
	}
	return o
}

// NewObject is New with the core.Constructor signature.
func NewObject(rec *core.Record) core.Object {
	return New(rec)
}

// CopyFrom stores every column of rec as a property named prefix+column.
func (o *RowObject) CopyFrom(rec *core.Record, prefix string) {
	if rec == nil {
		return
	}
	for _, col := range rec.Columns() {
		v, _ := rec.Get(col)
		o.set(prefix+col, v)
	}
}

func (o *RowObject) set(name string, value interface{}) {
	if _, exists := o.values[name]; !exists {
		o.names = append(o.names, name)
	}
	o.values[name] = value
}

// Get returns the value of a property.
func (o *RowObject) Get(name string) (interface{}, error) {
	v, exists := o.values[name]
	if !exists {
		return nil, fmt.Errorf("%w: property '%s' does not exist in %T", core.ErrUndeclaredProperty, name, o)
	}
	return v, nil
}

// Has reports whether a property exists.
func (o *RowObject) Has(name string) bool {
	_, exists := o.values[name]
	return exists
}

// Names returns the property names in insertion order.
func (o *RowObject) Names() []string {
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// IsNull reports whether a property exists and holds NULL.
func (o *RowObject) IsNull(name string) (bool, error) {
	v, err := o.Get(name)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

// GetString returns a property converted to string. NULL yields "".
func (o *RowObject) GetString(name string) (string, error) {
	v, err := o.Get(name)
	if err != nil || v == nil {
		return "", err
	}
	return mapper.ToString(v)
}

// GetInt returns a property converted to int64. NULL yields 0.
func (o *RowObject) GetInt(name string) (int64, error) {
	v, err := o.Get(name)
	if err != nil || v == nil {
		return 0, err
	}
	return mapper.ToInt64(v)
}

// GetFloat returns a property converted to float64. NULL yields 0.
func (o *RowObject) GetFloat(name string) (float64, error) {
	v, err := o.Get(name)
	if err != nil || v == nil {
		return 0, err
	}
	return mapper.ToFloat64(v)
}

// GetBool returns a property converted to bool. NULL yields false.
func (o *RowObject) GetBool(name string) (bool, error) {
	v, err := o.Get(name)
	if err != nil || v == nil {
		return false, err
	}
	return mapper.ToBool(v)
}

// Map returns a copy of the properties keyed by name.
func (o *RowObject) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the object with its properties in insertion order.
func (o *RowObject) MarshalJSON() ([]byte, error) {
	return schema.EncodeObject(o)
}

// String returns a string representation for debugging.
func (o *RowObject) String() string {
	b, err := o.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("RowObject%v", o.values)
	}
	return "RowObject" + string(b)
}
