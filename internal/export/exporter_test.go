package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/rowgate/internal/core"
	"github.com/rzpsarthak13/rowgate/internal/database/dbtest"
	"github.com/rzpsarthak13/rowgate/internal/registry"
	"github.com/rzpsarthak13/rowgate/internal/resolver"
	"github.com/rzpsarthak13/rowgate/internal/sink"
)

func newTownClient(t *testing.T) (*resolver.Resolver, *registry.TableRegistry) {
	t.Helper()
	db := dbtest.NewTownClientDB(t)
	tables := registry.NewTableRegistry(db)
	ctx := context.Background()
	require.NoError(t, tables.Register(ctx, "Town", ""))
	require.NoError(t, tables.Register(ctx, "Client", ""))
	t.Cleanup(func() { tables.Close() })

	fks := registry.NewForeignKeyMap(map[string][]string{"Client": {"Town"}})
	return resolver.New(db, tables, fks, nil), tables
}

// failingSink rejects every write after the first n.
type failingSink struct {
	n    int
	puts int
}

func (s *failingSink) Put(ctx context.Context, table, key string, value []byte) error {
	if s.puts >= s.n {
		return errors.New("sink unavailable")
	}
	s.puts++
	return nil
}

func (s *failingSink) Close() error { return nil }

func TestExportTable(t *testing.T) {
	r, tables := newTownClient(t)
	mem := sink.NewMemorySink()
	e := NewExporter(r, tables, mem, Config{Namespace: "shop", Rate: 1000, Burst: 10})

	n, err := e.ExportTable(context.Background(), "Client", core.Where("idTown", 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	value, ok := mem.Get("shop:Client:1")
	require.True(t, ok)
	assert.JSONEq(t, `{
		"idClient": 1, "name": "Dupont", "idTown": 1,
		"Town__idTown": 1, "Town__town": "PARIS", "Town__population": 1000000, "Town__bigcity": 1
	}`, string(value))
	assert.Equal(t, "Client", mem.Entries()[0].Table)
}

func TestExportTables(t *testing.T) {
	r, tables := newTownClient(t)
	mem := sink.NewMemorySink()
	e := NewExporter(r, tables, mem, Config{Rate: 1000, Burst: 10})

	n, err := e.ExportTables(context.Background(), []string{"Town"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var keys []string
	for _, entry := range mem.Entries() {
		keys = append(keys, entry.Key)
	}
	assert.Equal(t, []string{"Town:0", "Town:1", "Town:2"}, keys)

	// Client 3 references a missing town.
	n, err = e.ExportTables(context.Background(), []string{"Town", "Client"})
	assert.ErrorIs(t, err, core.ErrDanglingForeignKey)
	assert.Equal(t, 3, n)
}

func TestExportTableErrors(t *testing.T) {
	r, tables := newTownClient(t)
	ctx := context.Background()

	e := NewExporter(r, tables, sink.NewMemorySink(), DefaultConfig())
	_, err := e.ExportTable(ctx, "Invoice", nil)
	assert.ErrorIs(t, err, core.ErrUnregisteredTable)

	e = NewExporter(r, tables, &failingSink{n: 1}, Config{Rate: 1000, Burst: 10})
	n, err := e.ExportTable(ctx, "Town", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, n)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	e = NewExporter(r, tables, sink.NewMemorySink(), Config{Rate: 1000, Burst: 10})
	n, err = e.ExportTable(cancelled, "Town", nil)
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestNewExporterDefaults(t *testing.T) {
	e := NewExporter(nil, nil, nil, Config{})
	assert.Equal(t, DefaultConfig(), e.GetConfig())
}
