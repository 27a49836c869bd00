package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/database/dbtest"
)

func newTownClientRegistry(t *testing.T) *TableRegistry {
	t.Helper()
	tr := NewTableRegistry(dbtest.NewTownClientDB(t))
	ctx := context.Background()
	require.NoError(t, tr.Register(ctx, "Town", ""))
	require.NoError(t, tr.Register(ctx, "Client", ""))
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestRegisterDefaultsKeyColumn(t *testing.T) {
	tr := newTownClientRegistry(t)

	metadata, err := tr.GetMetadata("Client")
	require.NoError(t, err)
	assert.Equal(t, "Client", metadata.Schema.TableName)
	assert.Equal(t, "idClient", metadata.Schema.PrimaryKey)
	assert.Equal(t, "SELECT * FROM `Client` WHERE `idClient` = ? LIMIT 1", metadata.Query)
	assert.False(t, metadata.RegisteredAt.IsZero())

	assert.Equal(t, []string{"Client", "Town"}, tr.List())
	assert.Equal(t, 2, tr.Count())
}

func TestRegisterRejectsBadNames(t *testing.T) {
	tr := NewTableRegistry(dbtest.NewTownClientDB(t))
	ctx := context.Background()

	assert.Error(t, tr.Register(ctx, "", ""))
	assert.Error(t, tr.Register(ctx, "Town; DROP TABLE Town", ""))
	assert.Error(t, tr.Register(ctx, "Town", "id Town"))
	assert.False(t, tr.IsRegistered("Town"))
}

func TestRegisterUnknownTable(t *testing.T) {
	tr := NewTableRegistry(dbtest.NewTownClientDB(t))

	err := tr.Register(context.Background(), "Invoice", "")
	assert.ErrorIs(t, err, core.ErrQueryExecution)
	assert.False(t, tr.IsRegistered("Invoice"))
}

func TestReRegisterReplacesStatement(t *testing.T) {
	tr := newTownClientRegistry(t)
	ctx := context.Background()

	require.NoError(t, tr.Register(ctx, "Client", "name"))
	assert.Equal(t, 2, tr.Count())

	rec, err := tr.FetchOne(ctx, "Client", "Durand")
	require.NoError(t, err)
	require.NotNil(t, rec)
	v, _ := rec.Get("idClient")
	assert.Equal(t, int64(2), v)
}

func TestFetchOne(t *testing.T) {
	tr := newTownClientRegistry(t)
	ctx := context.Background()

	rec, err := tr.FetchOne(ctx, "Town", int64(1))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"idTown", "town", "population", "bigcity"}, rec.Columns())
	assert.Equal(t, map[string]interface{}{
		"idTown": int64(1), "town": "PARIS", "population": int64(1000000), "bigcity": int64(1),
	}, rec.Map())

	rec, err = tr.FetchOne(ctx, "Town", int64(0))
	require.NoError(t, err)
	require.NotNil(t, rec)

	rec, err = tr.FetchOne(ctx, "Town", int64(999))
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = tr.FetchOne(ctx, "Invoice", int64(1))
	assert.ErrorIs(t, err, core.ErrUnregisteredTable)
}

func TestFetchMany(t *testing.T) {
	tr := newTownClientRegistry(t)
	ctx := context.Background()

	records, err := tr.FetchMany(ctx, "Town", core.Where("bigcity", 1))
	require.NoError(t, err)
	require.Len(t, records, 2)
	town, _ := records[0].Get("town")
	assert.Equal(t, "PARIS", town)
	town, _ = records[1].Get("town")
	assert.Equal(t, "LYON", town)

	records, err = tr.FetchMany(ctx, "Town", nil)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	records, err = tr.FetchMany(ctx, "Client", core.Where("idTown", nil))
	require.NoError(t, err)
	require.Len(t, records, 1)
	name, _ := records[0].Get("name")
	assert.Equal(t, "Dumas", name)

	records, err = tr.FetchMany(ctx, "Town", core.Where("bigcity", 1).And("town", "NICE"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchManyErrors(t *testing.T) {
	tr := newTownClientRegistry(t)
	ctx := context.Background()

	_, err := tr.FetchMany(ctx, "Invoice", nil)
	assert.ErrorIs(t, err, core.ErrUnregisteredTable)

	_, err = tr.FetchMany(ctx, "Town", core.Where("big city", 1))
	assert.ErrorIs(t, err, core.ErrInvalidFilter)

	_, err = tr.FetchMany(ctx, "Town", core.Where("mayor", "x"))
	assert.ErrorIs(t, err, core.ErrQueryExecution)
}

func TestBuildSelectQuery(t *testing.T) {
	query, args := buildSelectQuery("Town", nil)
	assert.Equal(t, "SELECT * FROM `Town`", query)
	assert.Empty(t, args)

	query, args = buildSelectQuery("Client", core.Where("name", "Dupont").And("idTown", nil))
	assert.Equal(t, "SELECT * FROM `Client` WHERE `name` = ? AND `idTown` IS NULL", query)
	assert.Equal(t, []interface{}{"Dupont"}, args)
}

func TestUnregisterAndClose(t *testing.T) {
	tr := newTownClientRegistry(t)

	require.NoError(t, tr.Unregister("Town"))
	assert.False(t, tr.IsRegistered("Town"))
	assert.ErrorIs(t, tr.Unregister("Town"), core.ErrUnregisteredTable)

	_, err := tr.GetMetadata("Town")
	assert.ErrorIs(t, err, core.ErrUnregisteredTable)

	require.NoError(t, tr.Close())
	assert.Equal(t, 0, tr.Count())
}
