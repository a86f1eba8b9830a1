package repository

import (
	"context"
	"time"

	"powermatch/internal/models"
)

// PlanCacheRepository persists fetched plan lists keyed by the serialized
// request parameters. At most one row exists per key; writes overwrite.
type PlanCacheRepository interface {
	Repository
	// Get returns the cached plans for a key when the entry is still fresh
	// (expires_at > now). Returns ErrNotFound for missing or expired entries.
	Get(ctx context.Context, key string) ([]models.Plan, error)
	// Set inserts or overwrites the cache row for a key with the given TTL.
	Set(ctx context.Context, key string, plans []models.Plan, ttl time.Duration) error
	// DeleteExpired removes rows whose expiry has passed and returns the count.
	DeleteExpired(ctx context.Context) (int64, error)
}
