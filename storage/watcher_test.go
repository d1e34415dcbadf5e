package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRecognizesStoreWrites(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	w, err := WatchStore(store)
	require.NoError(t, err)
	defer w.Close()

	id, err := store.Save([]byte("blob"), ".mp3")
	require.NoError(t, err)

	// Events for a file the store just wrote are the store's own; anything
	// else in the root is an out-of-band change.
	assert.True(t, w.ownEvent(id))
	assert.False(t, w.ownEvent("external.mp3"))
}

func TestWatcherRecognizesStoreDeletes(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	id, err := store.Save([]byte("blob"), ".mp3")
	require.NoError(t, err)

	w, err := WatchStore(store)
	require.NoError(t, err)
	defer w.Close()

	require.True(t, store.Delete(id))
	assert.True(t, w.ownEvent(id))
}
