package postgres

import (
	"context"
	"database/sql"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"github.com/google/uuid"
)

type providerRepository struct {
	repository.BaseRepository
}

// NewProviderRepository creates a new PostgreSQL retail provider repository
func NewProviderRepository(db *sql.DB) repository.ProviderRepository {
	return &providerRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *providerRepository) GetOrCreate(ctx context.Context, provider *models.RetailProvider) error {
	provider.ID = uuid.New()
	return r.DB().QueryRowContext(ctx, `
		INSERT INTO retail_providers (id, name, puct_number, logo_url, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (puct_number) DO UPDATE
		SET updated_at = NOW()
		RETURNING id, name, logo_url, rating, created_at, updated_at`,
		provider.ID, provider.Name, provider.PUCTNumber, provider.LogoURL, provider.Rating,
	).Scan(
		&provider.ID, &provider.Name, &provider.LogoURL, &provider.Rating,
		&provider.CreatedAt, &provider.UpdatedAt,
	)
}

func (r *providerRepository) GetByPUCTNumber(ctx context.Context, puctNumber string) (*models.RetailProvider, error) {
	provider := &models.RetailProvider{}
	err := r.DB().QueryRowContext(ctx, `
		SELECT id, name, puct_number, logo_url, rating, created_at, updated_at
		FROM retail_providers
		WHERE puct_number = $1`,
		puctNumber,
	).Scan(
		&provider.ID, &provider.Name, &provider.PUCTNumber, &provider.LogoURL,
		&provider.Rating, &provider.CreatedAt, &provider.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return provider, nil
}
