package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadl/internal/state"
)

func TestRegistryMaterializesOnFirstRead(t *testing.T) {
	reg := state.NewRegistry()
	key := state.NewKey("colors")

	m := reg.StateMap(key)
	require.NotNil(t, m)
	assert.Equal(t, 0, m.Len())
	assert.Same(t, m, reg.StateMap(key), "repeated reads must return the same container")
}

func TestKeysAreIdentityTokens(t *testing.T) {
	reg := state.NewRegistry()
	k1 := state.NewKey("colors")
	k2 := state.NewKey("colors")

	reg.StateMap(k1).Set("target", "blue")
	_, ok := reg.StateMap(k2).Get("target")
	assert.False(t, ok, "keys with equal names are distinct slots")
}

func TestMapRoundTrip(t *testing.T) {
	reg := state.NewRegistry()
	key := state.NewKey("k")
	target := &struct{ name string }{"T"}

	m := reg.StateMap(key)
	m.Set(target, 42)
	v, ok := m.Get(target)
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.True(t, m.Has(target))

	m.Delete(target)
	assert.False(t, m.Has(target))
}

func TestSetRoundTrip(t *testing.T) {
	reg := state.NewRegistry()
	key := state.NewKey("k")

	s := reg.StateSet(key)
	s.Add("a")
	s.Add("a")
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has("a"))
	s.Delete("a")
	assert.False(t, s.Has("a"))
}
