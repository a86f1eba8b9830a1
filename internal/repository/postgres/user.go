package postgres

import (
	"context"
	"database/sql"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type userRepository struct {
	repository.BaseRepository
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	err := r.DB().QueryRowContext(ctx, `
		INSERT INTO users (id, username, password, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at`,
		user.ID, user.Username, user.Password, user.IsAdmin,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return repository.ErrDuplicateEntry
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.DB().QueryRowContext(ctx, `
		SELECT id, username, password, is_admin, created_at, updated_at
		FROM users WHERE `+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.Password, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
