package postgres_test

import (
	"context"
	"testing"
	"time"

	"powermatch/internal/models"
	"powermatch/internal/repository"
	"powermatch/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPlan(externalID, tdspDUNS string, rate1000 float64) models.Plan {
	return models.Plan{
		ExternalID:   externalID,
		TDSPDUNS:     tdspDUNS,
		Name:         "Test Plan " + externalID,
		ProviderName: "Gexa Energy",
		ProviderPUCT: "10027",
		Pricing: models.PlanPricing{
			Rate500kWh:   rate1000 + 1.5,
			Rate1000kWh:  rate1000,
			Rate2000kWh:  rate1000 - 0.5,
			Total1000kWh: rate1000 * 10,
		},
		Contract: models.ContractTerms{
			LengthMonths: 12,
			RateType:     models.RateTypeFixed,
		},
		Features: models.PlanFeatures{PercentGreen: 100},
		DocumentLinks: []models.DocumentLink{
			{Type: "efl", Language: "en", URL: "https://docs.example.com/efl.pdf"},
		},
	}
}

func TestUpsertPlansInsertAndUpdate(t *testing.T) {
	tc := testutil.NewTestContext(t)
	ctx := context.Background()

	plan := seedPlan("p1", "1039940674000", 12.9)
	require.NoError(t, tc.PlanRepo.UpsertPlans(ctx, []models.Plan{plan}))

	stored, err := tc.PlanRepo.GetActivePlans(ctx, "1039940674000", models.PlanFilters{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "p1", stored[0].ExternalID)
	assert.InDelta(t, 12.9, stored[0].Pricing.Rate1000kWh, 0.001)
	require.Len(t, stored[0].DocumentLinks, 1)
	assert.Equal(t, "efl", stored[0].DocumentLinks[0].Type)

	// Second upsert with the same key updates in place
	plan.Name = "Renamed Plan"
	plan.Pricing.Rate1000kWh = 11.5
	require.NoError(t, tc.PlanRepo.UpsertPlans(ctx, []models.Plan{plan}))

	stored, err = tc.PlanRepo.GetActivePlans(ctx, "1039940674000", models.PlanFilters{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Renamed Plan", stored[0].Name)
	assert.InDelta(t, 11.5, stored[0].Pricing.Rate1000kWh, 0.001)

	// The provider row is shared and deduplicated by PUCT number
	provider, err := tc.ProviderRepo.GetByPUCTNumber(ctx, "10027")
	require.NoError(t, err)
	assert.Equal(t, "Gexa Energy", provider.Name)
}

func TestGetActivePlansFiltersAndOrder(t *testing.T) {
	tc := testutil.NewTestContext(t)
	ctx := context.Background()

	cheap := seedPlan("cheap", "1039940674000", 10.0)
	pricey := seedPlan("pricey", "1039940674000", 14.0)
	pricey.Contract.LengthMonths = 24
	pricey.Features.PercentGreen = 0
	prepaid := seedPlan("prepaid", "1039940674000", 12.0)
	prepaid.Features.IsPrepaid = true
	other := seedPlan("other", "957877905", 9.0)

	require.NoError(t, tc.PlanRepo.UpsertPlans(ctx, []models.Plan{pricey, cheap, prepaid, other}))

	all, err := tc.PlanRepo.GetActivePlans(ctx, "1039940674000", models.PlanFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3, "Plans from other TDSPs are excluded")
	assert.Equal(t, "cheap", all[0].ExternalID, "Results ordered by 1000 kWh rate")
	assert.Equal(t, "pricey", all[2].ExternalID)

	term24, err := tc.PlanRepo.GetActivePlans(ctx, "1039940674000", models.PlanFilters{
		TermMonths: testutil.Int(24),
	})
	require.NoError(t, err)
	require.Len(t, term24, 1)
	assert.Equal(t, "pricey", term24[0].ExternalID)

	green, err := tc.PlanRepo.GetActivePlans(ctx, "1039940674000", models.PlanFilters{
		PercentGreen: testutil.Int(100),
	})
	require.NoError(t, err)
	assert.Len(t, green, 2)

	prepaidOnly, err := tc.PlanRepo.GetActivePlans(ctx, "1039940674000", models.PlanFilters{
		IsPrepaid: testutil.Bool(true),
	})
	require.NoError(t, err)
	require.Len(t, prepaidOnly, 1)
	assert.Equal(t, "prepaid", prepaidOnly[0].ExternalID)
}

func TestDeactivateMissing(t *testing.T) {
	tc := testutil.NewTestContext(t)
	ctx := context.Background()

	require.NoError(t, tc.PlanRepo.UpsertPlans(ctx, []models.Plan{
		seedPlan("keep", "1039940674000", 12.0),
		seedPlan("drop", "1039940674000", 13.0),
		seedPlan("other", "957877905", 11.0),
	}))

	require.NoError(t, tc.PlanRepo.DeactivateMissing(ctx, "1039940674000", []string{"keep"}))

	active, err := tc.PlanRepo.GetActivePlans(ctx, "1039940674000", models.PlanFilters{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "keep", active[0].ExternalID)

	// Other TDSP territories are untouched
	otherActive, err := tc.PlanRepo.GetActivePlans(ctx, "957877905", models.PlanFilters{})
	require.NoError(t, err)
	assert.Len(t, otherActive, 1)

	// A later refresh that sees the plan again reactivates it
	require.NoError(t, tc.PlanRepo.UpsertPlans(ctx, []models.Plan{seedPlan("drop", "1039940674000", 13.0)}))
	active, err = tc.PlanRepo.GetActivePlans(ctx, "1039940674000", models.PlanFilters{})
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestPlanCacheRoundTrip(t *testing.T) {
	tc := testutil.NewTestContext(t)
	ctx := context.Background()

	_, err := tc.PlanCacheRepo.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	plans := []models.Plan{seedPlan("p1", "1039940674000", 12.9)}
	require.NoError(t, tc.PlanCacheRepo.Set(ctx, "duns=1039940674000&usage=1000", plans, time.Hour))

	cached, err := tc.PlanCacheRepo.Get(ctx, "duns=1039940674000&usage=1000")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "p1", cached[0].ExternalID)

	// Overwriting the same key replaces the entry
	require.NoError(t, tc.PlanCacheRepo.Set(ctx, "duns=1039940674000&usage=1000", nil, time.Hour))
	cached, err = tc.PlanCacheRepo.Get(ctx, "duns=1039940674000&usage=1000")
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestPlanCacheExpiry(t *testing.T) {
	tc := testutil.NewTestContext(t)
	ctx := context.Background()

	plans := []models.Plan{seedPlan("p1", "1039940674000", 12.9)}
	require.NoError(t, tc.PlanCacheRepo.Set(ctx, "stale", plans, -time.Minute))
	require.NoError(t, tc.PlanCacheRepo.Set(ctx, "fresh", plans, time.Hour))

	_, err := tc.PlanCacheRepo.Get(ctx, "stale")
	assert.ErrorIs(t, err, repository.ErrNotFound, "Expired rows are not served")

	deleted, err := tc.PlanCacheRepo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = tc.PlanCacheRepo.Get(ctx, "fresh")
	assert.NoError(t, err)
}
