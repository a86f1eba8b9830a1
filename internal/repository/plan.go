package repository

import (
	"context"
	"powermatch/internal/models"
)

// PlanRepository defines the interface for plan-related database operations.
// Plans are keyed by (external_id, tdsp_duns) with upsert-on-conflict semantics.
type PlanRepository interface {
	Repository
	// UpsertPlans inserts or updates plans fetched from the upstream API and
	// marks them active. Provider rows are created on first sight.
	UpsertPlans(ctx context.Context, plans []models.Plan) error
	// GetActivePlans returns the last-known-active plans for a TDSP, used when
	// the upstream API is unreachable and no cache entry exists.
	GetActivePlans(ctx context.Context, tdspDUNS string, filters models.PlanFilters) ([]models.Plan, error)
	// DeactivateMissing marks plans for a TDSP inactive when they were not part
	// of the latest refresh.
	DeactivateMissing(ctx context.Context, tdspDUNS string, seenExternalIDs []string) error
}

// ProviderRepository defines lookups for retail electric providers
type ProviderRepository interface {
	Repository
	// GetOrCreate looks a provider up by PUCT license number, creating the row
	// if absent, and returns it.
	GetOrCreate(ctx context.Context, provider *models.RetailProvider) error
	GetByPUCTNumber(ctx context.Context, puctNumber string) (*models.RetailProvider, error)
}
