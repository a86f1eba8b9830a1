package territory

import (
	"context"
	"errors"
	"testing"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTerritoryStore struct {
	repository.BaseRepository
	existing  map[string]bool
	created   []string
	createErr error
}

func newFakeTerritoryStore(existingZIPs ...string) *fakeTerritoryStore {
	existing := make(map[string]bool, len(existingZIPs))
	for _, zip := range existingZIPs {
		existing[zip] = true
	}
	return &fakeTerritoryStore{existing: existing}
}

func (f *fakeTerritoryStore) Create(ctx context.Context, mapping *models.ZIPCodeMapping) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.existing[mapping.ZIPCode] {
		return repository.ErrTerritoryExists
	}
	f.existing[mapping.ZIPCode] = true
	f.created = append(f.created, mapping.ZIPCode)
	return nil
}

func (f *fakeTerritoryStore) Update(ctx context.Context, mapping *models.ZIPCodeMapping) error {
	return nil
}
func (f *fakeTerritoryStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeTerritoryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ZIPCodeMapping, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeTerritoryStore) GetByZIP(ctx context.Context, zipCode string) (*models.ZIPCodeMapping, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeTerritoryStore) List(ctx context.Context, filter repository.TerritoryFilter) ([]models.ZIPCodeMapping, error) {
	return nil, nil
}
func (f *fakeTerritoryStore) CountByCity(ctx context.Context, citySlug string) (int, error) {
	return 0, nil
}

func TestSyncSeedInsertsAllMappings(t *testing.T) {
	static, err := NewStaticMap()
	require.NoError(t, err)
	store := newFakeTerritoryStore()

	inserted, err := SyncSeed(context.Background(), store, static)
	require.NoError(t, err)
	assert.Equal(t, static.Len(), inserted)
	assert.Len(t, store.created, static.Len())
	assert.Contains(t, store.created, "75201")
}

func TestSyncSeedSkipsExistingRows(t *testing.T) {
	static, err := NewStaticMap()
	require.NoError(t, err)
	store := newFakeTerritoryStore("75201", "77002")

	inserted, err := SyncSeed(context.Background(), store, static)
	require.NoError(t, err)
	assert.Equal(t, static.Len()-2, inserted)
	assert.NotContains(t, store.created, "75201")
	assert.NotContains(t, store.created, "77002")
}

func TestSyncSeedIdempotent(t *testing.T) {
	static, err := NewStaticMap()
	require.NoError(t, err)
	store := newFakeTerritoryStore()

	_, err = SyncSeed(context.Background(), store, static)
	require.NoError(t, err)

	inserted, err := SyncSeed(context.Background(), store, static)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestSyncSeedStopsOnStoreError(t *testing.T) {
	static, err := NewStaticMap()
	require.NoError(t, err)
	store := newFakeTerritoryStore()
	store.createErr = errors.New("connection refused")

	inserted, err := SyncSeed(context.Background(), store, static)
	require.Error(t, err)
	assert.Zero(t, inserted)
}
