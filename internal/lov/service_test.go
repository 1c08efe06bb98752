package lov

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/storage"
)

// memStore implements storage.Store for testing.
type memStore struct {
	data    map[string][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Load(_ context.Context, key string) ([]byte, error) {
	if d, ok := m.data[key]; ok {
		return d, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) Save(_ context.Context, key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = data
	return nil
}

func (m *memStore) Close() error { return nil }

func TestNewServiceDefaultsWhenEmpty(t *testing.T) {
	svc, err := NewService(context.Background(), newMemStore())
	require.NoError(t, err)

	data := svc.Get(context.Background())
	assert.Len(t, data.Priorities, 4)
	assert.Len(t, data.Statuses, 12)
	assert.Len(t, data.KanbanColumns, 4)
	assert.Equal(t, "col-new", data.KanbanColumns[0].ID)
}

func TestNewServiceMergesStoredOverDefaults(t *testing.T) {
	store := newMemStore()
	stored := domain.LOVData{
		Warrooms: []string{"Night Shift"},
		// No kanbanColumns: older snapshots predate board config.
	}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)
	store.data[storage.KeyLOVs] = payload

	svc, err := NewService(context.Background(), store)
	require.NoError(t, err)

	data := svc.Get(context.Background())
	assert.Equal(t, []string{"Night Shift"}, data.Warrooms)
	// Fields missing from the snapshot come from the defaults.
	assert.Len(t, data.Categories, 13)
	assert.Len(t, data.KanbanColumns, 4)
}

func TestNewServiceUnreadableSnapshotFallsBack(t *testing.T) {
	store := newMemStore()
	store.data[storage.KeyLOVs] = []byte("{not json")

	svc, err := NewService(context.Background(), store)
	require.NoError(t, err)
	assert.Len(t, svc.Get(context.Background()).Statuses, 12)
}

func TestUpdatePersistsAndRefreshesRegistry(t *testing.T) {
	store := newMemStore()
	svc, err := NewService(context.Background(), store)
	require.NoError(t, err)

	data := svc.Get(context.Background())
	data.Statuses = append(data.Statuses, "Escalated to Vendor")
	svc.Update(context.Background(), data)

	reg := svc.Registry()
	assert.Equal(t, domain.StatusGroupNone, reg.Classify("Escalated to Vendor"))
	assert.Contains(t, string(store.data[storage.KeyLOVs]), "Escalated to Vendor")
}

func TestUpdateSurvivesSaveFailure(t *testing.T) {
	store := newMemStore()
	svc, err := NewService(context.Background(), store)
	require.NoError(t, err)

	store.saveErr = assert.AnError
	data := svc.Get(context.Background())
	data.Regions = []string{"Mars"}
	merged := svc.Update(context.Background(), data)

	// In-memory state keeps the change even though the flush failed.
	assert.Equal(t, []string{"Mars"}, merged.Regions)
	assert.Equal(t, []string{"Mars"}, svc.Get(context.Background()).Regions)
}

func TestRegistryClassifyUnlistedStatus(t *testing.T) {
	reg := NewRegistry(domain.LOVData{Statuses: []string{"New"}})

	// Statuses removed from settings still classify by the fixed partitions.
	assert.Equal(t, domain.StatusGroupResolved, reg.Classify("Resolved"))
	assert.Equal(t, domain.StatusGroupActive, reg.Classify("Outage"))
	assert.Equal(t, domain.StatusGroupNone, reg.Classify("Whatever"))
}
