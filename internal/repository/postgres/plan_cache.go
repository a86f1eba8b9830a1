package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"powermatch/internal/models"
	"powermatch/internal/repository"
)

type planCacheRepository struct {
	repository.BaseRepository
}

// NewPlanCacheRepository creates a new PostgreSQL plan cache repository
func NewPlanCacheRepository(db *sql.DB) repository.PlanCacheRepository {
	return &planCacheRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *planCacheRepository) Get(ctx context.Context, key string) ([]models.Plan, error) {
	var data []byte
	err := r.DB().QueryRowContext(ctx, `
		SELECT plans FROM plan_cache
		WHERE cache_key = $1 AND expires_at > NOW()`,
		key,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var plans []models.Plan
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached plans: %w", err)
	}
	return plans, nil
}

func (r *planCacheRepository) Set(ctx context.Context, key string, plans []models.Plan, ttl time.Duration) error {
	data, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("failed to marshal plans: %w", err)
	}

	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO plan_cache (cache_key, plans, inserted_at, expires_at)
		VALUES ($1, $2, NOW(), NOW() + $3 * INTERVAL '1 second')
		ON CONFLICT (cache_key) DO UPDATE
		SET plans = EXCLUDED.plans,
			inserted_at = EXCLUDED.inserted_at,
			expires_at = EXCLUDED.expires_at`,
		key, data, int64(ttl.Seconds()),
	)
	return err
}

func (r *planCacheRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM plan_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
