package object

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

func townRecord() *core.Record {
	return core.RecordFromMap(
		[]string{"idTown", "town", "population", "bigcity"},
		map[string]interface{}{"idTown": int64(1), "town": "PARIS", "population": int64(1000000), "bigcity": int64(1)},
	)
}

func TestRowObjectProperties(t *testing.T) {
	obj := New(townRecord())

	assert.Equal(t, []string{"idTown", "town", "population", "bigcity"}, obj.Names())
	assert.True(t, obj.Has("town"))

	v, err := obj.Get("town")
	require.NoError(t, err)
	assert.Equal(t, "PARIS", v)

	_, err = obj.Get("mayor")
	assert.ErrorIs(t, err, core.ErrUndeclaredProperty)
	assert.False(t, obj.Has("mayor"))
}

func TestRowObjectCopyFromPrefixes(t *testing.T) {
	client := New(core.RecordFromMap(
		[]string{"idClient", "name", "idTown"},
		map[string]interface{}{"idClient": int64(1), "name": "Dupont", "idTown": int64(1)},
	))
	client.CopyFrom(townRecord(), "Town__")

	assert.Equal(t, []string{
		"idClient", "name", "idTown",
		"Town__idTown", "Town__town", "Town__population", "Town__bigcity",
	}, client.Names())

	town, err := client.GetString("Town__town")
	require.NoError(t, err)
	assert.Equal(t, "PARIS", town)

	client.CopyFrom(nil, "Other__")
	assert.Len(t, client.Names(), 7)
}

func TestRowObjectTypedGetters(t *testing.T) {
	obj := New(core.RecordFromMap(
		[]string{"n", "f", "b", "null"},
		map[string]interface{}{"n": int64(3), "f": 2.5, "b": int64(1)},
	))

	n, err := obj.GetInt("n")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	f, err := obj.GetFloat("f")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	_, err = obj.GetInt("f")
	assert.Error(t, err)

	b, err := obj.GetBool("b")
	require.NoError(t, err)
	assert.True(t, b)

	isNull, err := obj.IsNull("null")
	require.NoError(t, err)
	assert.True(t, isNull)

	s, err := obj.GetString("null")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	_, err = obj.GetInt("missing")
	assert.ErrorIs(t, err, core.ErrUndeclaredProperty)
}

func TestRowObjectMarshalJSON(t *testing.T) {
	obj := New(townRecord())

	b, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"idTown":1,"town":"PARIS","population":1000000,"bigcity":1}`, string(b))
	assert.Equal(t, `RowObject{"idTown":1,"town":"PARIS","population":1000000,"bigcity":1}`, obj.String())
}

func TestRowObjectEmpty(t *testing.T) {
	obj := New(nil)
	assert.Empty(t, obj.Names())

	b, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}
