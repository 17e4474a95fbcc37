package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("digitalLoot_role", "admin"))
	require.NoError(t, s.SetJSON("carrito", []map[string]any{{"id": 1, "quantity": 2}}))

	reopened, err := Open(path)
	require.NoError(t, err)

	role, ok := reopened.Get("digitalLoot_role")
	require.True(t, ok)
	assert.Equal(t, "admin", role)

	var cart []map[string]any
	found, err := reopened.GetJSON("carrito", &cart)
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, 2, cart[0]["quantity"])
	assert.Equal(t, []string{"carrito", "digitalLoot_role"}, reopened.Keys())

	require.NoError(t, reopened.Remove("carrito"))
	again, err := Open(path)
	require.NoError(t, err)
	_, ok = again.Get("carrito")
	assert.False(t, ok)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}

func TestStore_Memory(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Set("k", "v"))
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	require.NoError(t, s.Remove("missing"))
}
