package postgres

import (
	"context"
	"database/sql"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"github.com/google/uuid"
)

type apiLogRepository struct {
	repository.BaseRepository
}

// NewAPILogRepository creates a new PostgreSQL API call log repository
func NewAPILogRepository(db *sql.DB) repository.APILogRepository {
	return &apiLogRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *apiLogRepository) Create(ctx context.Context, entry *models.APICallLog) error {
	entry.ID = uuid.New()
	return r.DB().QueryRowContext(ctx, `
		INSERT INTO api_logs (id, endpoint, params, status_code, duration_ms, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`,
		entry.ID, entry.Endpoint, entry.Params, entry.StatusCode, entry.DurationMS, entry.Error,
	).Scan(&entry.CreatedAt)
}

func (r *apiLogRepository) List(ctx context.Context, limit int) ([]models.APICallLog, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, endpoint, params, status_code, duration_ms, error, created_at
		FROM api_logs
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.APICallLog
	for rows.Next() {
		var entry models.APICallLog
		if err := rows.Scan(
			&entry.ID, &entry.Endpoint, &entry.Params, &entry.StatusCode,
			&entry.DurationMS, &entry.Error, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
