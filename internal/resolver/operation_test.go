package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Operation
	}{
		{"getClient", []string{"1"}, GetByKey{Table: "Client", Key: int64(1)}},
		{"getTown", []string{"PARIS"}, GetByKey{Table: "Town", Key: "PARIS"}},
		{"selectTown", nil, SelectByFilter{Table: "Town", Filters: core.Filters{}}},
		{"selectTown", []string{"bigcity=1", "town=PARIS"}, SelectByFilter{Table: "Town", Filters: core.Filters{
			{Column: "bigcity", Value: int64(1)},
			{Column: "town", Value: "PARIS"},
		}}},
		{"selectClient", []string{"idTown=NULL"}, SelectByFilter{Table: "Client", Filters: core.Filters{
			{Column: "idTown", Value: nil},
		}}},
		{"query", []string{"SELECT * FROM Client WHERE idClient = ?", "2"}, RawQuery{
			SQL:    "SELECT * FROM Client WHERE idClient = ?",
			Params: []interface{}{int64(2)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := ParseCall(tt.name, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
		})
	}
}

func TestParseCallErrors(t *testing.T) {
	_, err := ParseCall("getClient", nil)
	assert.ErrorIs(t, err, core.ErrMissingKey)

	_, err = ParseCall("getClient", []string{"1", "2"})
	assert.ErrorIs(t, err, core.ErrMissingKey)

	_, err = ParseCall("selectTown", []string{"bigcity"})
	assert.ErrorIs(t, err, core.ErrInvalidFilter)

	_, err = ParseCall("selectTown", []string{"=1"})
	assert.ErrorIs(t, err, core.ErrInvalidFilter)

	_, err = ParseCall("query", nil)
	assert.ErrorIs(t, err, core.ErrQueryExecution)

	for _, name := range []string{"get", "select", "deleteClient", "fetchTown", ""} {
		_, err = ParseCall(name, []string{"1"})
		assert.ErrorIs(t, err, core.ErrUnknownOperation, name)
	}
}

func TestOperationNames(t *testing.T) {
	assert.Equal(t, "getClient", GetByKey{Table: "Client"}.Name())
	assert.Equal(t, "selectTown", SelectByFilter{Table: "Town"}.Name())
	assert.Equal(t, "query", RawQuery{}.Name())
}

func TestParseValue(t *testing.T) {
	assert.Nil(t, ParseValue("NULL"))
	assert.Nil(t, ParseValue("null"))
	assert.Equal(t, int64(-3), ParseValue("-3"))
	assert.Equal(t, 2.5, ParseValue("2.5"))
	assert.Equal(t, "inf", ParseValue("inf"))
	assert.Equal(t, "NaN", ParseValue("NaN"))
	assert.Equal(t, "PARIS", ParseValue("PARIS"))
	assert.Equal(t, "", ParseValue(""))
}

func TestResultFound(t *testing.T) {
	var r *Result
	assert.False(t, r.Found())
	assert.False(t, (&Result{}).Found())
}
