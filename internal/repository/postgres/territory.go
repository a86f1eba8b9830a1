package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type territoryRepository struct {
	repository.BaseRepository
}

// NewTerritoryRepository creates a new PostgreSQL ZIP mapping repository
func NewTerritoryRepository(db *sql.DB) repository.TerritoryRepository {
	return &territoryRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const territoryColumns = `id, zip_code, city_slug, city_name, county, tdsp_name, tdsp_duns,
	is_deregulated, market_zone, priority, source, last_validated, created_at, updated_at`

func (r *territoryRepository) Create(ctx context.Context, mapping *models.ZIPCodeMapping) error {
	mapping.ID = uuid.New()
	err := r.DB().QueryRowContext(ctx, `
		INSERT INTO zip_mappings (
			id, zip_code, city_slug, city_name, county, tdsp_name, tdsp_duns,
			is_deregulated, market_zone, priority, source, last_validated, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW(), NOW())
		RETURNING last_validated, created_at, updated_at`,
		mapping.ID, mapping.ZIPCode, mapping.CitySlug, mapping.CityName, mapping.County,
		mapping.TDSPName, mapping.TDSPDUNS, mapping.IsDeregulated, mapping.MarketZone,
		mapping.Priority, mapping.Source,
	).Scan(&mapping.LastValidated, &mapping.CreatedAt, &mapping.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return repository.ErrTerritoryExists
	}
	return err
}

func (r *territoryRepository) Update(ctx context.Context, mapping *models.ZIPCodeMapping) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE zip_mappings
		SET city_slug = $2, city_name = $3, county = $4, tdsp_name = $5, tdsp_duns = $6,
			is_deregulated = $7, market_zone = $8, priority = $9,
			last_validated = NOW(), updated_at = NOW()
		WHERE id = $1`,
		mapping.ID, mapping.CitySlug, mapping.CityName, mapping.County, mapping.TDSPName,
		mapping.TDSPDUNS, mapping.IsDeregulated, mapping.MarketZone, mapping.Priority,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrTerritoryNotFound
	}
	return nil
}

func (r *territoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM zip_mappings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrTerritoryNotFound
	}
	return nil
}

func (r *territoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ZIPCodeMapping, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *territoryRepository) GetByZIP(ctx context.Context, zipCode string) (*models.ZIPCodeMapping, error) {
	return r.getOne(ctx, "zip_code = $1", zipCode)
}

func (r *territoryRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.ZIPCodeMapping, error) {
	mapping := &models.ZIPCodeMapping{}
	err := r.DB().QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM zip_mappings WHERE %s`, territoryColumns, where), arg,
	).Scan(
		&mapping.ID, &mapping.ZIPCode, &mapping.CitySlug, &mapping.CityName, &mapping.County,
		&mapping.TDSPName, &mapping.TDSPDUNS, &mapping.IsDeregulated, &mapping.MarketZone,
		&mapping.Priority, &mapping.Source, &mapping.LastValidated,
		&mapping.CreatedAt, &mapping.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrTerritoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func (r *territoryRepository) List(ctx context.Context, filter repository.TerritoryFilter) ([]models.ZIPCodeMapping, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argCount := 1

	if filter.CitySlug != nil {
		conditions = append(conditions, fmt.Sprintf("city_slug = $%d", argCount))
		args = append(args, *filter.CitySlug)
		argCount++
	}
	if filter.TDSPDUNS != nil {
		conditions = append(conditions, fmt.Sprintf("tdsp_duns = $%d", argCount))
		args = append(args, *filter.TDSPDUNS)
		argCount++
	}
	if filter.MarketZone != nil {
		conditions = append(conditions, fmt.Sprintf("market_zone = $%d", argCount))
		args = append(args, *filter.MarketZone)
		argCount++
	}
	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf("city_name ILIKE $%d", argCount))
		args = append(args, "%"+*filter.Search+"%")
		argCount++
	}

	orderBy := "zip_code"
	switch filter.OrderBy {
	case "city_name", "tdsp_name", "updated_at":
		orderBy = filter.OrderBy
	}
	direction := "ASC"
	if filter.OrderDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM zip_mappings WHERE %s ORDER BY %s %s`,
		territoryColumns, strings.Join(conditions, " AND "), orderBy, direction)

	if filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, *filter.Limit)
		argCount++
	}
	if filter.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, *filter.Offset)
	}

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []models.ZIPCodeMapping
	for rows.Next() {
		var mapping models.ZIPCodeMapping
		if err := rows.Scan(
			&mapping.ID, &mapping.ZIPCode, &mapping.CitySlug, &mapping.CityName, &mapping.County,
			&mapping.TDSPName, &mapping.TDSPDUNS, &mapping.IsDeregulated, &mapping.MarketZone,
			&mapping.Priority, &mapping.Source, &mapping.LastValidated,
			&mapping.CreatedAt, &mapping.UpdatedAt,
		); err != nil {
			return nil, err
		}
		mappings = append(mappings, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *territoryRepository) CountByCity(ctx context.Context, citySlug string) (int, error) {
	var count int
	err := r.DB().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM zip_mappings
		WHERE city_slug = $1 AND is_deregulated = TRUE`,
		citySlug,
	).Scan(&count)
	return count, err
}
