package repository

import (
	"context"
	"powermatch/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Repository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
