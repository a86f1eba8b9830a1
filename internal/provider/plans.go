package provider

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"powermatch/internal/plans"
)

// PlansProvider refreshes stored plan data for every covered TDSP territory
type PlansProvider struct {
	BaseProvider
	service *plans.Service
}

// NewPlansProvider creates a provider that refreshes plans via the plan service
func NewPlansProvider(db *sql.DB, config Config, service *plans.Service) *PlansProvider {
	return &PlansProvider{
		BaseProvider: NewBaseProvider(db, config),
		service:      service,
	}
}

// Name returns the unique name of the provider
func (p *PlansProvider) Name() string {
	return "plans"
}

// Run refreshes plans for all covered TDSPs
func (p *PlansProvider) Run(ctx context.Context) error {
	var failed int
	for _, duns := range p.config.SupportedTDSPs {
		count, err := p.service.Refresh(ctx, duns)
		if err != nil {
			log.Printf("Plan refresh failed for TDSP %s: %v", duns, err)
			failed++
			continue
		}
		log.Printf("Refreshed %d plans for TDSP %s", count, duns)
	}

	if _, err := p.service.PruneCache(ctx); err != nil {
		log.Printf("Failed to prune plan cache: %v", err)
	}

	if failed == len(p.config.SupportedTDSPs) && failed > 0 {
		return fmt.Errorf("plan refresh failed for all %d TDSPs", failed)
	}
	return nil
}

// RunWithOptions refreshes plans for a single TDSP
func (p *PlansProvider) RunWithOptions(ctx context.Context, opts RunOptions) error {
	count, err := p.service.Refresh(ctx, opts.TDSPDUNS)
	if err != nil {
		return err
	}
	log.Printf("Refreshed %d plans for TDSP %s", count, opts.TDSPDUNS)
	return nil
}
