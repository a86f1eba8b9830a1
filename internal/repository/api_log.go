package repository

import (
	"context"
	"powermatch/internal/models"
)

// APILogRepository records calls made to the upstream pricing API
type APILogRepository interface {
	Repository
	Create(ctx context.Context, entry *models.APICallLog) error
	List(ctx context.Context, limit int) ([]models.APICallLog, error)
}
