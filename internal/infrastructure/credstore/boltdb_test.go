package credstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	token, err := store.Get()
	require.NoError(t, err)
	assert.Empty(t, token, "fresh store is empty")

	require.NoError(t, store.Set("bearer-1"))
	token, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "bearer-1", token)

	require.NoError(t, store.Set("bearer-2"))
	token, _ = store.Get()
	assert.Equal(t, "bearer-2", token, "slot is overwritten, not appended")

	require.NoError(t, store.Clear())
	token, err = store.Get()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSlotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credential.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("persisted"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	token, err := reopened.Get()
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestClosedStoreErrors(t *testing.T) {
	var store *Store
	_, err := store.Get()
	assert.Error(t, err)
	assert.Error(t, store.Set("x"))
	assert.Error(t, store.Clear())
}
