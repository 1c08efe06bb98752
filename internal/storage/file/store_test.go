package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/incident-command/internal/storage"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Load(ctx, storage.KeyIncidents)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Save(ctx, storage.KeyIncidents, []byte(`[{"id":"INC-1"}]`)))

	data, err := store.Load(ctx, storage.KeyIncidents)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"INC-1"}]`, string(data))

	// Save replaces the whole document.
	require.NoError(t, store.Save(ctx, storage.KeyIncidents, []byte(`[]`)))
	data, err = store.Load(ctx, storage.KeyIncidents)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStoreKeysIsolated(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, storage.KeyLOVs, []byte(`{"statuses":[]}`)))

	_, err = store.Load(ctx, storage.KeyUsers)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
