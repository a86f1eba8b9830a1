package plans

import (
	"context"
	"errors"
	"testing"
	"time"

	"powermatch/internal/models"
	"powermatch/internal/pricing"
	"powermatch/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	plans []models.Plan
	err   error
	calls int
}

func (f *fakeFetcher) FetchPlans(ctx context.Context, params pricing.Params) ([]models.Plan, error) {
	f.calls++
	return f.plans, f.err
}

type fakePlanRepo struct {
	repository.BaseRepository
	upserted    [][]models.Plan
	active      []models.Plan
	activeErr   error
	deactivated []string
}

func (f *fakePlanRepo) UpsertPlans(ctx context.Context, plans []models.Plan) error {
	f.upserted = append(f.upserted, plans)
	return nil
}

func (f *fakePlanRepo) GetActivePlans(ctx context.Context, tdspDUNS string, filters models.PlanFilters) ([]models.Plan, error) {
	return f.active, f.activeErr
}

func (f *fakePlanRepo) DeactivateMissing(ctx context.Context, tdspDUNS string, seenExternalIDs []string) error {
	f.deactivated = seenExternalIDs
	return nil
}

type fakeCacheRepo struct {
	repository.BaseRepository
	entries map[string][]models.Plan
	sets    int
	pruned  int64
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string][]models.Plan)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string) ([]models.Plan, error) {
	plans, ok := f.entries[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return plans, nil
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, plans []models.Plan, ttl time.Duration) error {
	f.entries[key] = plans
	f.sets++
	return nil
}

func (f *fakeCacheRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return f.pruned, nil
}

type fakeTerritoryRepo struct {
	repository.BaseRepository
	count    int
	countErr error
}

func (f *fakeTerritoryRepo) Create(ctx context.Context, mapping *models.ZIPCodeMapping) error { return nil }
func (f *fakeTerritoryRepo) Update(ctx context.Context, mapping *models.ZIPCodeMapping) error { return nil }
func (f *fakeTerritoryRepo) Delete(ctx context.Context, id uuid.UUID) error                   { return nil }
func (f *fakeTerritoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ZIPCodeMapping, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeTerritoryRepo) GetByZIP(ctx context.Context, zipCode string) (*models.ZIPCodeMapping, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeTerritoryRepo) List(ctx context.Context, filter repository.TerritoryFilter) ([]models.ZIPCodeMapping, error) {
	return nil, nil
}
func (f *fakeTerritoryRepo) CountByCity(ctx context.Context, citySlug string) (int, error) {
	return f.count, f.countErr
}

func testPlans() []models.Plan {
	return []models.Plan{
		{ExternalID: "p1", TDSPDUNS: "1039940674000", Name: "Eco Saver 12"},
		{ExternalID: "p2", TDSPDUNS: "1039940674000", Name: "Free Nights"},
	}
}

func TestGetPlansCacheHit(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := newFakeCacheRepo()
	params := pricing.Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000}
	cache.entries[params.CacheKey()] = testPlans()

	svc := NewService(fetcher, &fakePlanRepo{}, cache, &fakeTerritoryRepo{}, time.Hour)

	plans, err := svc.GetPlans(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.Equal(t, 0, fetcher.calls, "A fresh cache entry should skip the upstream")
}

func TestGetPlansFetchAndPersist(t *testing.T) {
	fetcher := &fakeFetcher{plans: testPlans()}
	planRepo := &fakePlanRepo{}
	cache := newFakeCacheRepo()
	params := pricing.Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000}

	svc := NewService(fetcher, planRepo, cache, &fakeTerritoryRepo{}, time.Hour)

	plans, err := svc.GetPlans(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.Equal(t, 1, fetcher.calls)
	require.Len(t, planRepo.upserted, 1)
	assert.Contains(t, cache.entries, params.CacheKey())
}

func TestGetPlansStoredFallback(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	planRepo := &fakePlanRepo{active: testPlans()}

	svc := NewService(fetcher, planRepo, newFakeCacheRepo(), &fakeTerritoryRepo{}, time.Hour)

	plans, err := svc.GetPlans(context.Background(), pricing.Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000})
	require.NoError(t, err)
	assert.Len(t, plans, 2, "Last-known-active plans serve as the degraded fallback")
}

func TestGetPlansUnavailable(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}

	svc := NewService(fetcher, &fakePlanRepo{}, newFakeCacheRepo(), &fakeTerritoryRepo{}, time.Hour)

	_, err := svc.GetPlans(context.Background(), pricing.Params{TDSPDUNS: "1039940674000", DisplayUsage: 1000})
	assert.ErrorIs(t, err, ErrPlansUnavailable)
}

func TestRefresh(t *testing.T) {
	fetcher := &fakeFetcher{plans: testPlans()}
	planRepo := &fakePlanRepo{}
	cache := newFakeCacheRepo()

	svc := NewService(fetcher, planRepo, cache, &fakeTerritoryRepo{}, time.Hour)

	count, err := svc.Refresh(context.Background(), "1039940674000")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, planRepo.upserted, 1)
	assert.Equal(t, []string{"p1", "p2"}, planRepo.deactivated)
	assert.Equal(t, 1, cache.sets)
}

func TestRefreshFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	planRepo := &fakePlanRepo{}

	svc := NewService(fetcher, planRepo, newFakeCacheRepo(), &fakeTerritoryRepo{}, time.Hour)

	_, err := svc.Refresh(context.Background(), "1039940674000")
	require.Error(t, err)
	assert.Empty(t, planRepo.upserted)
	assert.Nil(t, planRepo.deactivated, "Nothing should be deactivated when the fetch fails")
}

func TestCityAvailability(t *testing.T) {
	svc := NewService(&fakeFetcher{}, &fakePlanRepo{}, newFakeCacheRepo(), &fakeTerritoryRepo{count: 42}, time.Hour)

	availability, err := svc.CityAvailability(context.Background(), "dallas")
	require.NoError(t, err)
	assert.True(t, availability.PlansAvailable)
	require.NotNil(t, availability.PlanCount)
	assert.Equal(t, 42, *availability.PlanCount)
}

func TestCityAvailabilityNoTerritory(t *testing.T) {
	svc := NewService(&fakeFetcher{}, &fakePlanRepo{}, newFakeCacheRepo(), &fakeTerritoryRepo{count: 0}, time.Hour)

	availability, err := svc.CityAvailability(context.Background(), "el-paso")
	require.NoError(t, err)
	assert.False(t, availability.PlansAvailable)
	assert.NotEmpty(t, availability.Reason)
}

func TestPruneCache(t *testing.T) {
	cache := newFakeCacheRepo()
	cache.pruned = 7

	svc := NewService(&fakeFetcher{}, &fakePlanRepo{}, cache, &fakeTerritoryRepo{}, time.Hour)

	n, err := svc.PruneCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
