package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

// Verbs and the fixed token understood by ParseCall.
const (
	VerbGet    = "get"
	VerbSelect = "select"
	TokenQuery = "query"
)

// Operation is one of GetByKey, SelectByFilter or RawQuery.
type Operation interface {
	// Name returns the conventional call name of the operation, e.g. "getClient".
	Name() string

	operation()
}

// GetByKey fetches a single row of Table by primary key.
type GetByKey struct {
	Table string
	Key   interface{}
}

// Name implements Operation.
func (op GetByKey) Name() string { return VerbGet + op.Table }

func (GetByKey) operation() {}

// SelectByFilter fetches every row of Table matching all equality Filters.
type SelectByFilter struct {
	Table   string
	Filters core.Filters
}

// Name implements Operation.
func (op SelectByFilter) Name() string { return VerbSelect + op.Table }

func (SelectByFilter) operation() {}

// RawQuery runs an arbitrary parameterized statement.
type RawQuery struct {
	SQL    string
	Params []interface{}
}

// Name implements Operation.
func (RawQuery) Name() string { return TokenQuery }

func (RawQuery) operation() {}

// Result holds the outcome of an operation.
// For GetByKey, Object is nil when no row matched and Objects holds the object
// when one did. For the other operations Objects is the full result in row order.
type Result struct {
	Object  core.Object
	Objects []core.Object
}

// Found reports whether a GetByKey operation matched a row.
func (r *Result) Found() bool {
	return r != nil && r.Object != nil
}

// ParseCall builds an operation from a call name and textual arguments, such as
// the ones given on a command line:
//
//	getClient 1
//	selectTown bigcity=1 name=PARIS
//	query "SELECT * FROM Client WHERE idClient = ?" 1
//
// Argument values are parsed with ParseValue.
func ParseCall(name string, args []string) (Operation, error) {
	if name == TokenQuery {
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return nil, fmt.Errorf("%w: '%s' requires a statement", core.ErrQueryExecution, name)
		}
		params := make([]interface{}, 0, len(args)-1)
		for _, arg := range args[1:] {
			params = append(params, ParseValue(arg))
		}
		return RawQuery{SQL: args[0], Params: params}, nil
	}

	switch {
	case strings.HasPrefix(name, VerbGet) && len(name) > len(VerbGet):
		table := name[len(VerbGet):]
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: '%s' call needs a key", core.ErrMissingKey, name)
		}
		if len(args) > 1 {
			return nil, fmt.Errorf("%w: '%s' call takes a single key, got %d arguments", core.ErrMissingKey, name, len(args))
		}
		return GetByKey{Table: table, Key: ParseValue(args[0])}, nil

	case strings.HasPrefix(name, VerbSelect) && len(name) > len(VerbSelect):
		table := name[len(VerbSelect):]
		filters := make(core.Filters, 0, len(args))
		for _, arg := range args {
			column, value, ok := strings.Cut(arg, "=")
			if !ok || column == "" {
				return nil, fmt.Errorf("%w: expected column=value, got %q", core.ErrInvalidFilter, arg)
			}
			filters = append(filters, core.Condition{Column: column, Value: ParseValue(value)})
		}
		return SelectByFilter{Table: table, Filters: filters}, nil
	}

	return nil, fmt.Errorf("%w: method '%s' does not exist", core.ErrUnknownOperation, name)
}

// ParseValue converts a textual argument to a value: NULL (any case) becomes
// nil, integers become int64, other numbers float64, anything else stays a string.
func ParseValue(s string) interface{} {
	if strings.EqualFold(s, "null") {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if strings.ContainsAny(s, "0123456789") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
