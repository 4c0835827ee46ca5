package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/store"
	"go.trai.ch/bale/internal/core/domain"
)

func TestStore_SetGetHas(t *testing.T) {
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)

	assert.False(t, s.Has("app-abc.js"))

	require.NoError(t, s.Set("app-abc.js", []byte("alert(1);")))
	assert.True(t, s.Has("app-abc.js"))

	data, err := s.Get("app-abc.js")
	require.NoError(t, err)
	assert.Equal(t, []byte("alert(1);"), data)
}

func TestStore_SetOverwrites(t *testing.T) {
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("k", []byte("one")))
	require.NoError(t, s.Set("k", []byte("two")))

	data, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestStore_GetMissing(t *testing.T) {
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCacheStoreUnavailable))
}

func TestStore_Keys(t *testing.T) {
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("a.js", []byte("a")))
	require.NoError(t, s.Set("b.css", []byte("b")))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.js", "b.css"}, keys)
}

func TestStore_RemoveMissingIsNoError(t *testing.T) {
	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set("k", []byte("v")))
	require.NoError(t, s.Remove("k"))
	assert.False(t, s.Has("k"))

	// Removing again must not fail.
	require.NoError(t, s.Remove("k"))
}
