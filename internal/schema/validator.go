package schema

import (
	"fmt"
	"regexp"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

// identifierPattern matches names that can be quoted into SQL without escaping.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SchemaValidator validates table names, key values and filters before they reach SQL.
type SchemaValidator struct {
	mapper *TypeMapper
}

// NewSchemaValidator creates a new schema validator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		mapper: NewTypeMapper(),
	}
}

// ValidateIdentifier checks that name is a plain SQL identifier.
func (sv *SchemaValidator) ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("identifier %q contains unsupported characters", name)
	}
	return nil
}

// ValidatePrimaryKey checks a key value and returns it normalized.
// nil keys and keys without a scalar representation are rejected with ErrMissingKey.
func (sv *SchemaValidator) ValidatePrimaryKey(key interface{}) (interface{}, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: primary key cannot be nil", core.ErrMissingKey)
	}
	normalized, err := sv.mapper.Normalize(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMissingKey, err)
	}
	return normalized, nil
}

// ValidateFilters checks every condition and returns the filters with normalized values.
func (sv *SchemaValidator) ValidateFilters(filters core.Filters) (core.Filters, error) {
	out := make(core.Filters, 0, len(filters))
	for i, cond := range filters {
		if err := sv.ValidateIdentifier(cond.Column); err != nil {
			return nil, fmt.Errorf("%w: condition %d: %v", core.ErrInvalidFilter, i, err)
		}
		value, err := sv.mapper.Normalize(cond.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: column '%s': %v", core.ErrInvalidFilter, cond.Column, err)
		}
		out = append(out, core.Condition{Column: cond.Column, Value: value})
	}
	return out, nil
}
