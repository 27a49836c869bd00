package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/database/dbtest"
	"github.com/rzpsarthak13/rowgate/internal/object"
	"github.com/rzpsarthak13/rowgate/internal/registry"
)

func newTownClientResolver(t *testing.T) *Resolver {
	t.Helper()
	db := dbtest.NewTownClientDB(t)
	tables := registry.NewTableRegistry(db)
	ctx := context.Background()
	require.NoError(t, tables.Register(ctx, "Town", ""))
	require.NoError(t, tables.Register(ctx, "Client", ""))
	t.Cleanup(func() { tables.Close() })

	fks := registry.NewForeignKeyMap(map[string][]string{"Client": {"Town"}})
	return New(db, tables, fks, nil)
}

func property(t *testing.T, obj core.Object, name string) interface{} {
	t.Helper()
	v, err := obj.Get(name)
	require.NoError(t, err)
	return v
}

func TestGetInlinesForeignKey(t *testing.T) {
	r := newTownClientResolver(t)

	obj, err := r.Get(context.Background(), "Client", int64(1))
	require.NoError(t, err)
	require.NotNil(t, obj)

	assert.Equal(t, "Dupont", property(t, obj, "name"))
	assert.Equal(t, "PARIS", property(t, obj, "Town__town"))
	assert.Equal(t, int64(1), property(t, obj, "Town__idTown"))
	assert.Equal(t, int64(1000000), property(t, obj, "Town__population"))
	assert.Equal(t, []string{
		"idClient", "name", "idTown",
		"Town__idTown", "Town__town", "Town__population", "Town__bigcity",
	}, obj.Names())
}

func TestGetSkipsNullForeignKey(t *testing.T) {
	r := newTownClientResolver(t)

	obj, err := r.Get(context.Background(), "Client", 4)
	require.NoError(t, err)
	require.NotNil(t, obj)

	assert.Nil(t, property(t, obj, "idTown"))
	assert.False(t, obj.Has("Town__town"))
	assert.Equal(t, []string{"idClient", "name", "idTown"}, obj.Names())
}

func TestGetResolvesZeroForeignKey(t *testing.T) {
	r := newTownClientResolver(t)

	obj, err := r.Get(context.Background(), "Client", 5)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, "NO MAN S LAND", property(t, obj, "Town__town"))
}

func TestGetDanglingForeignKey(t *testing.T) {
	r := newTownClientResolver(t)

	obj, err := r.Get(context.Background(), "Client", 3)
	assert.ErrorIs(t, err, core.ErrDanglingForeignKey)
	assert.Nil(t, obj)
}

func newOrderResolver(t *testing.T) *Resolver {
	t.Helper()
	db := dbtest.NewTownClientDB(t)
	tables := registry.NewTableRegistry(db)
	ctx := context.Background()
	for _, name := range []string{"Town", "Client", "Order"} {
		require.NoError(t, tables.Register(ctx, name, ""))
	}
	t.Cleanup(func() { tables.Close() })

	fks := registry.NewForeignKeyMap(map[string][]string{
		"Order":  {"Client", "Town"},
		"Client": {"Town"},
	})
	return New(db, tables, fks, nil)
}

func TestGetInlinesForeignKeysInDeclaredOrder(t *testing.T) {
	r := newOrderResolver(t)

	obj, err := r.Get(context.Background(), "Order", 1)
	require.NoError(t, err)
	require.NotNil(t, obj)

	assert.Equal(t, []string{
		"idOrder", "label", "idClient", "idTown",
		"Client__idClient", "Client__name", "Client__idTown",
		"Town__idTown", "Town__town", "Town__population", "Town__bigcity",
	}, obj.Names())
	assert.Equal(t, "Dupont", property(t, obj, "Client__name"))
	assert.Equal(t, int64(1), property(t, obj, "Client__idTown"))
	assert.Equal(t, "LYON", property(t, obj, "Town__town"))
	assert.False(t, obj.Has("Client__Town__town"))
}

func TestGetSkipsOnlyNullForeignKey(t *testing.T) {
	r := newOrderResolver(t)

	obj, err := r.Get(context.Background(), "Order", 2)
	require.NoError(t, err)
	require.NotNil(t, obj)

	assert.Equal(t, "Durand", property(t, obj, "Client__name"))
	assert.Nil(t, property(t, obj, "idTown"))
	assert.False(t, obj.Has("Town__town"))
	assert.Equal(t, []string{
		"idOrder", "label", "idClient", "idTown",
		"Client__idClient", "Client__name", "Client__idTown",
	}, obj.Names())
}

func TestGetDanglingSecondForeignKey(t *testing.T) {
	r := newOrderResolver(t)

	obj, err := r.Get(context.Background(), "Order", 3)
	assert.ErrorIs(t, err, core.ErrDanglingForeignKey)
	assert.Contains(t, err.Error(), "'Town'")
	assert.Nil(t, obj)
}

func TestGetRealValueInIntegerColumn(t *testing.T) {
	db := dbtest.NewTownClientDB(t)
	ctx := context.Background()
	require.NoError(t, db.ExecScript(ctx, "INSERT INTO Town VALUES (7, 'HALF', 1.5, 0);"))

	tables := registry.NewTableRegistry(db)
	require.NoError(t, tables.Register(ctx, "Town", ""))
	t.Cleanup(func() { tables.Close() })

	obj, err := New(db, tables, nil, nil).Get(ctx, "Town", 7)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, 1.5, property(t, obj, "population"))
	assert.Equal(t, int64(0), property(t, obj, "bigcity"))
}

func TestGetNotFound(t *testing.T) {
	r := newTownClientResolver(t)

	obj, err := r.Get(context.Background(), "Client", 999)
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestGetErrors(t *testing.T) {
	r := newTownClientResolver(t)
	ctx := context.Background()

	_, err := r.Get(ctx, "Invoice", 1)
	assert.ErrorIs(t, err, core.ErrUnregisteredTable)
	assert.Contains(t, err.Error(), "'getInvoice' call failed")

	_, err = r.Get(ctx, "Client", nil)
	assert.ErrorIs(t, err, core.ErrMissingKey)
}

func TestSelect(t *testing.T) {
	r := newTownClientResolver(t)
	ctx := context.Background()

	objs, err := r.Select(ctx, "Town", core.Where("bigcity", 1))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "PARIS", property(t, objs[0], "town"))
	assert.Equal(t, "LYON", property(t, objs[1], "town"))

	objs, err = r.Select(ctx, "Town", nil)
	require.NoError(t, err)
	assert.Len(t, objs, 3)

	objs, err = r.Select(ctx, "Town", core.Where("town", "NICE"))
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestSelectResolvesForeignKeys(t *testing.T) {
	r := newTownClientResolver(t)

	objs, err := r.Select(context.Background(), "Client", core.Where("idTown", 2))
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "Durand", property(t, objs[0], "name"))
	assert.Equal(t, "LYON", property(t, objs[0], "Town__town"))

	_, err = r.Select(context.Background(), "Client", nil)
	assert.ErrorIs(t, err, core.ErrDanglingForeignKey)
}

func TestSelectErrors(t *testing.T) {
	r := newTownClientResolver(t)
	ctx := context.Background()

	_, err := r.Select(ctx, "Invoice", nil)
	assert.ErrorIs(t, err, core.ErrUnregisteredTable)

	_, err = r.Select(ctx, "Town", core.Where("town;--", "x"))
	assert.ErrorIs(t, err, core.ErrInvalidFilter)
}

func TestQuery(t *testing.T) {
	r := newTownClientResolver(t)
	ctx := context.Background()

	objs, err := r.Query(ctx,
		"SELECT c.name, t.town FROM Client c JOIN Town t ON c.idTown = t.idTown WHERE t.bigcity = ? ORDER BY c.idClient", 1)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, []string{"name", "town"}, objs[0].Names())
	assert.Equal(t, "Dupont", property(t, objs[0], "name"))
	assert.Equal(t, "PARIS", property(t, objs[0], "town"))
	assert.Equal(t, "LYON", property(t, objs[1], "town"))

	// Raw queries never inline foreign keys.
	objs, err = r.Query(ctx, "SELECT * FROM Client WHERE idClient = ?", 3)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.False(t, objs[0].Has("Town__town"))

	_, err = r.Query(ctx, "SELECT * FROM Invoice")
	assert.ErrorIs(t, err, core.ErrQueryExecution)

	_, err = r.Query(ctx, "")
	assert.ErrorIs(t, err, core.ErrQueryExecution)
}

func TestLazyForeignKeyValidation(t *testing.T) {
	db := dbtest.NewTownClientDB(t)
	tables := registry.NewTableRegistry(db)
	require.NoError(t, tables.Register(context.Background(), "Client", ""))
	t.Cleanup(func() { tables.Close() })

	r := New(db, tables, registry.NewForeignKeyMap(map[string][]string{"Client": {"Town"}}), nil)

	obj, err := r.Get(context.Background(), "Client", 4)
	require.NoError(t, err)
	require.NotNil(t, obj)

	_, err = r.Get(context.Background(), "Client", 1)
	assert.ErrorIs(t, err, core.ErrUnregisteredTable)
}

func TestForeignKeyColumnMissing(t *testing.T) {
	db := dbtest.NewTownClientDB(t)
	tables := registry.NewTableRegistry(db)
	ctx := context.Background()
	require.NoError(t, tables.Register(ctx, "Town", ""))
	require.NoError(t, tables.Register(ctx, "Client", ""))
	t.Cleanup(func() { tables.Close() })

	r := New(db, tables, registry.NewForeignKeyMap(map[string][]string{"Town": {"Client"}}), nil)

	_, err := r.Get(ctx, "Town", 1)
	assert.ErrorIs(t, err, core.ErrUndeclaredProperty)
}

// bigTown is a user type for Town rows.
type bigTown struct {
	*object.RowObject
}

func TestGetUsesFactoryConstructor(t *testing.T) {
	db := dbtest.NewTownClientDB(t)
	tables := registry.NewTableRegistry(db)
	require.NoError(t, tables.Register(context.Background(), "Town", ""))
	t.Cleanup(func() { tables.Close() })

	factory := object.NewFactory("")
	require.NoError(t, factory.Register("Town", func(rec *core.Record) core.Object {
		return &bigTown{RowObject: object.New(rec)}
	}))
	r := New(db, tables, nil, factory)

	obj, err := r.Get(context.Background(), "Town", 2)
	require.NoError(t, err)
	_, ok := obj.(*bigTown)
	assert.True(t, ok, "expected *bigTown, got %T", obj)

	objs, err := r.Query(context.Background(), "SELECT * FROM Town WHERE idTown = ?", 2)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	_, ok = objs[0].(*object.RowObject)
	assert.True(t, ok)
}

func TestExecute(t *testing.T) {
	r := newTownClientResolver(t)
	ctx := context.Background()

	result, err := r.Execute(ctx, GetByKey{Table: "Client", Key: int64(2)})
	require.NoError(t, err)
	assert.True(t, result.Found())
	assert.Len(t, result.Objects, 1)

	result, err = r.Execute(ctx, GetByKey{Table: "Client", Key: int64(999)})
	require.NoError(t, err)
	assert.False(t, result.Found())
	assert.Empty(t, result.Objects)

	result, err = r.Execute(ctx, SelectByFilter{Table: "Town", Filters: core.Where("bigcity", 1)})
	require.NoError(t, err)
	assert.Len(t, result.Objects, 2)

	result, err = r.Execute(ctx, RawQuery{SQL: "SELECT COUNT(*) AS n FROM Client"})
	require.NoError(t, err)
	require.Len(t, result.Objects, 1)
	assert.Equal(t, int64(5), property(t, result.Objects[0], "n"))

	_, err = r.Execute(ctx, nil)
	assert.ErrorIs(t, err, core.ErrUnknownOperation)
}

func TestExecuteParsedCall(t *testing.T) {
	r := newTownClientResolver(t)

	op, err := ParseCall("getClient", []string{"1"})
	require.NoError(t, err)

	result, err := r.Execute(context.Background(), op)
	require.NoError(t, err)
	require.True(t, result.Found())
	assert.Equal(t, "PARIS", property(t, result.Object, "Town__town"))
}
