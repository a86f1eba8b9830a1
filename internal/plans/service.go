// Package plans orchestrates plan retrieval across the upstream pricing API,
// the SQL-backed plan cache and the plan repository.
package plans

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"powermatch/internal/models"
	"powermatch/internal/pricing"
	"powermatch/internal/repository"
)

// ErrPlansUnavailable is returned when the upstream API failed and no cached
// or previously stored plans exist for the request.
var ErrPlansUnavailable = errors.New("no plans available for this request")

// Fetcher is the part of the pricing client the service depends on
type Fetcher interface {
	FetchPlans(ctx context.Context, params pricing.Params) ([]models.Plan, error)
}

// Service serves plan queries. Lookup order: SQL cache (fresh), upstream API,
// then last-known-active plans from the repository as a degraded fallback.
type Service struct {
	fetcher   Fetcher
	planRepo  repository.PlanRepository
	cacheRepo repository.PlanCacheRepository
	terrRepo  repository.TerritoryRepository
	cacheTTL  time.Duration
}

// NewService creates a plan service. cacheTTL defaults to one hour.
func NewService(
	fetcher Fetcher,
	planRepo repository.PlanRepository,
	cacheRepo repository.PlanCacheRepository,
	terrRepo repository.TerritoryRepository,
	cacheTTL time.Duration,
) *Service {
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	return &Service{
		fetcher:   fetcher,
		planRepo:  planRepo,
		cacheRepo: cacheRepo,
		terrRepo:  terrRepo,
		cacheTTL:  cacheTTL,
	}
}

// GetPlans returns the plans matching the given parameters
func (s *Service) GetPlans(ctx context.Context, params pricing.Params) ([]models.Plan, error) {
	key := params.CacheKey()

	if s.cacheRepo != nil {
		cached, err := s.cacheRepo.Get(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("Plan cache lookup failed for %s: %v", key, err)
		}
	}

	fetched, fetchErr := s.fetcher.FetchPlans(ctx, params)
	if fetchErr == nil {
		s.persist(ctx, key, fetched)
		return fetched, nil
	}
	log.Printf("Upstream plan fetch failed for %s: %v", key, fetchErr)

	if s.planRepo != nil {
		stored, err := s.planRepo.GetActivePlans(ctx, params.TDSPDUNS, params.Filters)
		if err == nil && len(stored) > 0 {
			return stored, nil
		}
		if err != nil {
			log.Printf("Stored plan fallback failed for %s: %v", params.TDSPDUNS, err)
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrPlansUnavailable, fetchErr)
}

// persist writes fetched plans to the repository and the SQL cache, best effort
func (s *Service) persist(ctx context.Context, key string, fetched []models.Plan) {
	if s.planRepo != nil && len(fetched) > 0 {
		if err := s.planRepo.UpsertPlans(ctx, fetched); err != nil {
			log.Printf("Failed to upsert %d plans: %v", len(fetched), err)
		}
	}
	if s.cacheRepo != nil {
		if err := s.cacheRepo.Set(ctx, key, fetched, s.cacheTTL); err != nil {
			log.Printf("Failed to write plan cache for %s: %v", key, err)
		}
	}
}

// Refresh fetches the unfiltered plan list for a TDSP, upserts it and marks
// plans missing from the response inactive.
func (s *Service) Refresh(ctx context.Context, tdspDUNS string) (int, error) {
	params := pricing.Params{TDSPDUNS: tdspDUNS, DisplayUsage: 1000}

	fetched, err := s.fetcher.FetchPlans(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh plans for %s: %w", tdspDUNS, err)
	}

	if s.planRepo != nil {
		if err := s.planRepo.UpsertPlans(ctx, fetched); err != nil {
			return 0, fmt.Errorf("failed to store refreshed plans for %s: %w", tdspDUNS, err)
		}

		seen := make([]string, 0, len(fetched))
		for _, plan := range fetched {
			seen = append(seen, plan.ExternalID)
		}
		if len(seen) > 0 {
			if err := s.planRepo.DeactivateMissing(ctx, tdspDUNS, seen); err != nil {
				log.Printf("Failed to deactivate stale plans for %s: %v", tdspDUNS, err)
			}
		}
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.Set(ctx, params.CacheKey(), fetched, s.cacheTTL); err != nil {
			log.Printf("Failed to write plan cache for %s: %v", tdspDUNS, err)
		}
	}

	return len(fetched), nil
}

// CityAvailability reports whether plans can be served for a city slug
func (s *Service) CityAvailability(ctx context.Context, citySlug string) (*models.CityPlansAvailability, error) {
	count, err := s.terrRepo.CountByCity(ctx, citySlug)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return &models.CityPlansAvailability{
			PlansAvailable: false,
			Reason:         "no deregulated service territory on record for this city",
		}, nil
	}

	return &models.CityPlansAvailability{
		PlansAvailable: true,
		PlanCount:      &count,
	}, nil
}

// PruneCache deletes expired SQL cache rows
func (s *Service) PruneCache(ctx context.Context) (int64, error) {
	if s.cacheRepo == nil {
		return 0, nil
	}
	return s.cacheRepo.DeleteExpired(ctx)
}
