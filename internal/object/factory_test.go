package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzpsarthak13/rowgate/internal/core"
)

// town is a user type embedding RowObject.
type town struct {
	*RowObject
}

func (t *town) IsBig() bool {
	b, _ := t.GetBool("bigcity")
	return b
}

func newTown(rec *core.Record) core.Object {
	return &town{RowObject: New(rec)}
}

func init() {
	RegisterType("objecttest", "Town", newTown)
}

func TestRegisterTypePanics(t *testing.T) {
	assert.Panics(t, func() { RegisterType("objecttest", "Town", newTown) })
	assert.Panics(t, func() { RegisterType("objecttest", "Client", nil) })
	assert.Panics(t, func() { RegisterType("", "Client", newTown) })
}

func TestLookupType(t *testing.T) {
	_, ok := LookupType("objecttest", "Town")
	assert.True(t, ok)

	_, ok = LookupType("objecttest", "Client")
	assert.False(t, ok)
}

func TestFactoryUsesNamespaceRegistry(t *testing.T) {
	f := NewFactory("objecttest")
	assert.Equal(t, "objecttest", f.Namespace())

	obj := f.Wrap("Town", townRecord())
	tw, ok := obj.(*town)
	require.True(t, ok, "expected *town, got %T", obj)
	assert.True(t, tw.IsBig())

	other := f.Wrap("Client", townRecord())
	_, ok = other.(*RowObject)
	assert.True(t, ok)
}

func TestFactoryRegisterOverridesNamespace(t *testing.T) {
	f := NewFactory("objecttest")
	called := false
	require.NoError(t, f.Register("Town", func(rec *core.Record) core.Object {
		called = true
		return New(rec)
	}))

	obj := f.Wrap("Town", townRecord())
	assert.True(t, called)
	_, ok := obj.(*RowObject)
	assert.True(t, ok)

	assert.Error(t, f.Register("", NewObject))
	assert.Error(t, f.Register("Town", nil))
}

func TestFactoryWithoutNamespace(t *testing.T) {
	f := NewFactory("")
	_, ok := f.Wrap("Town", townRecord()).(*RowObject)
	assert.True(t, ok)
}

func TestFactoryNilRecord(t *testing.T) {
	f := NewFactory("objecttest")
	assert.Nil(t, f.Wrap("Town", nil))
	assert.Nil(t, f.WrapDefault(nil))

	_, ok := f.WrapDefault(townRecord()).(*RowObject)
	assert.True(t, ok)
}
