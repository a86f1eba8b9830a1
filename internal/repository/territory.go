package repository

import (
	"context"
	"powermatch/internal/models"

	"github.com/google/uuid"
)

// TerritoryRepository defines the interface for ZIP mapping database operations
type TerritoryRepository interface {
	Repository
	Create(ctx context.Context, mapping *models.ZIPCodeMapping) error
	Update(ctx context.Context, mapping *models.ZIPCodeMapping) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ZIPCodeMapping, error)
	GetByZIP(ctx context.Context, zipCode string) (*models.ZIPCodeMapping, error)
	List(ctx context.Context, filter TerritoryFilter) ([]models.ZIPCodeMapping, error)
	// CountByCity returns the number of deregulated ZIP mappings for a city slug
	CountByCity(ctx context.Context, citySlug string) (int, error)
}

// TerritoryFilter defines the filter options for listing ZIP mappings
type TerritoryFilter struct {
	CitySlug   *string
	TDSPDUNS   *string
	MarketZone *models.MarketZone
	Search     *string // Search by city name
	OrderBy    string
	OrderDesc  bool
	Limit      *int
	Offset     *int
}
