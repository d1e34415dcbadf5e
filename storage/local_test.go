package storage

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveAndRead(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("not really an mp3")
	id, err := store.Save(data, ".mp3")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id, ".mp3"))

	assert.True(t, store.Exists(id))
	assert.Equal(t, int64(len(data)), store.Size(id))

	handle, err := store.Open(id)
	require.NoError(t, err)
	defer handle.Close()

	got, err := io.ReadAll(handle)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalStoreSaveNormalizesExtension(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	id, err := store.Save([]byte("x"), "wav")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id, ".wav"))
}

func TestLocalStoreSaveNeverOverwrites(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save([]byte("one"), ".mp3")
	require.NoError(t, err)
	second, err := store.Save([]byte("two"), ".mp3")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, int64(3), store.Size(first))
	assert.Equal(t, int64(3), store.Size(second))
}

func TestLocalStoreMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.False(t, store.Exists("nope.mp3"))
	assert.Zero(t, store.Size("nope.mp3"))

	_, err = store.Open("nope.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreDeleteIdempotent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	id, err := store.Save([]byte("data"), ".mp3")
	require.NoError(t, err)

	assert.True(t, store.Delete(id))
	assert.False(t, store.Exists(id))
	assert.False(t, store.Delete(id))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "blobs"))
	require.NoError(t, err)

	for _, id := range []string{"../escape", "a/b", `a\b`, "..", ""} {
		assert.False(t, store.Exists(id), "identifier %q", id)
		_, err := store.Open(id)
		assert.ErrorIs(t, err, ErrNotFound, "identifier %q", id)
	}
}
