package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"powermatch/internal/models"
	"powermatch/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type planRepository struct {
	repository.BaseRepository
}

// NewPlanRepository creates a new PostgreSQL plan repository
func NewPlanRepository(db *sql.DB) repository.PlanRepository {
	return &planRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *planRepository) UpsertPlans(ctx context.Context, plans []models.Plan) error {
	tx, err := r.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	providerStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO retail_providers (id, name, puct_number, logo_url, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (puct_number) DO UPDATE
		SET name = EXCLUDED.name, logo_url = EXCLUDED.logo_url, rating = EXCLUDED.rating, updated_at = NOW()
		RETURNING id`)
	if err != nil {
		return fmt.Errorf("failed to prepare provider statement: %w", err)
	}
	defer providerStmt.Close()

	planStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO plans (
			id, external_id, tdsp_duns, name, headline, provider_id,
			provider_name, provider_puct, provider_logo, provider_rating,
			rate_500_kwh, rate_1000_kwh, rate_2000_kwh,
			total_500_kwh, total_1000_kwh, total_2000_kwh,
			term_months, rate_type, early_termination_fee,
			percent_green, deposit_required, is_prepaid, time_of_use, auto_pay_required,
			document_links, is_active, last_seen_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16,
			$17, $18, $19,
			$20, $21, $22, $23, $24,
			$25, TRUE, $26, NOW(), NOW()
		)
		ON CONFLICT (external_id, tdsp_duns) DO UPDATE SET
			name = EXCLUDED.name,
			headline = EXCLUDED.headline,
			provider_id = EXCLUDED.provider_id,
			provider_name = EXCLUDED.provider_name,
			provider_puct = EXCLUDED.provider_puct,
			provider_logo = EXCLUDED.provider_logo,
			provider_rating = EXCLUDED.provider_rating,
			rate_500_kwh = EXCLUDED.rate_500_kwh,
			rate_1000_kwh = EXCLUDED.rate_1000_kwh,
			rate_2000_kwh = EXCLUDED.rate_2000_kwh,
			total_500_kwh = EXCLUDED.total_500_kwh,
			total_1000_kwh = EXCLUDED.total_1000_kwh,
			total_2000_kwh = EXCLUDED.total_2000_kwh,
			term_months = EXCLUDED.term_months,
			rate_type = EXCLUDED.rate_type,
			early_termination_fee = EXCLUDED.early_termination_fee,
			percent_green = EXCLUDED.percent_green,
			deposit_required = EXCLUDED.deposit_required,
			is_prepaid = EXCLUDED.is_prepaid,
			time_of_use = EXCLUDED.time_of_use,
			auto_pay_required = EXCLUDED.auto_pay_required,
			document_links = EXCLUDED.document_links,
			is_active = TRUE,
			last_seen_at = EXCLUDED.last_seen_at,
			updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("failed to prepare plan statement: %w", err)
	}
	defer planStmt.Close()

	for _, plan := range plans {
		var providerID *uuid.UUID
		if plan.ProviderPUCT != "" {
			var id uuid.UUID
			err := providerStmt.QueryRowContext(ctx,
				uuid.New(), plan.ProviderName, plan.ProviderPUCT, plan.ProviderLogo, plan.ProviderRating,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to upsert provider %s: %w", plan.ProviderPUCT, err)
			}
			providerID = &id
		}

		links, err := json.Marshal(plan.DocumentLinks)
		if err != nil {
			return fmt.Errorf("failed to marshal document links: %w", err)
		}

		lastSeen := plan.LastSeenAt
		if lastSeen.IsZero() {
			lastSeen = time.Now()
		}

		if _, err := planStmt.ExecContext(ctx,
			uuid.New(), plan.ExternalID, plan.TDSPDUNS, plan.Name, plan.Headline, providerID,
			plan.ProviderName, plan.ProviderPUCT, plan.ProviderLogo, plan.ProviderRating,
			plan.Pricing.Rate500kWh, plan.Pricing.Rate1000kWh, plan.Pricing.Rate2000kWh,
			plan.Pricing.Total500kWh, plan.Pricing.Total1000kWh, plan.Pricing.Total2000kWh,
			plan.Contract.LengthMonths, plan.Contract.RateType, plan.Contract.EarlyTerminationFee,
			plan.Features.PercentGreen, plan.Features.DepositRequired, plan.Features.IsPrepaid,
			plan.Features.TimeOfUse, plan.Features.AutoPayRequired,
			links, lastSeen,
		); err != nil {
			return fmt.Errorf("failed to upsert plan %s: %w", plan.ExternalID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *planRepository) GetActivePlans(ctx context.Context, tdspDUNS string, filters models.PlanFilters) ([]models.Plan, error) {
	conditions := []string{"tdsp_duns = $1", "is_active = TRUE"}
	args := []interface{}{tdspDUNS}
	argCount := 2

	if filters.TermMonths != nil {
		conditions = append(conditions, fmt.Sprintf("term_months = $%d", argCount))
		args = append(args, *filters.TermMonths)
		argCount++
	}
	if filters.PercentGreen != nil {
		conditions = append(conditions, fmt.Sprintf("percent_green >= $%d", argCount))
		args = append(args, *filters.PercentGreen)
		argCount++
	}
	if filters.IsPrepaid != nil {
		conditions = append(conditions, fmt.Sprintf("is_prepaid = $%d", argCount))
		args = append(args, *filters.IsPrepaid)
		argCount++
	}
	if filters.TimeOfUse != nil {
		conditions = append(conditions, fmt.Sprintf("time_of_use = $%d", argCount))
		args = append(args, *filters.TimeOfUse)
		argCount++
	}
	if filters.RequiresAutoPay != nil {
		conditions = append(conditions, fmt.Sprintf("auto_pay_required = $%d", argCount))
		args = append(args, *filters.RequiresAutoPay)
	}

	query := fmt.Sprintf(`
		SELECT id, external_id, tdsp_duns, name, headline,
			provider_name, provider_puct, provider_logo, provider_rating,
			rate_500_kwh, rate_1000_kwh, rate_2000_kwh,
			total_500_kwh, total_1000_kwh, total_2000_kwh,
			term_months, rate_type, early_termination_fee,
			percent_green, deposit_required, is_prepaid, time_of_use, auto_pay_required,
			document_links, is_active, last_seen_at, created_at, updated_at
		FROM plans
		WHERE %s
		ORDER BY rate_1000_kwh ASC`, strings.Join(conditions, " AND "))

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlans(rows)
}

func (r *planRepository) DeactivateMissing(ctx context.Context, tdspDUNS string, seenExternalIDs []string) error {
	_, err := r.DB().ExecContext(ctx, `
		UPDATE plans
		SET is_active = FALSE, updated_at = NOW()
		WHERE tdsp_duns = $1 AND NOT (external_id = ANY($2))`,
		tdspDUNS, pq.Array(seenExternalIDs),
	)
	return err
}

// scanPlans reads plan rows produced by the shared column list
func scanPlans(rows *sql.Rows) ([]models.Plan, error) {
	var plans []models.Plan
	for rows.Next() {
		var plan models.Plan
		var links []byte
		if err := rows.Scan(
			&plan.ID, &plan.ExternalID, &plan.TDSPDUNS, &plan.Name, &plan.Headline,
			&plan.ProviderName, &plan.ProviderPUCT, &plan.ProviderLogo, &plan.ProviderRating,
			&plan.Pricing.Rate500kWh, &plan.Pricing.Rate1000kWh, &plan.Pricing.Rate2000kWh,
			&plan.Pricing.Total500kWh, &plan.Pricing.Total1000kWh, &plan.Pricing.Total2000kWh,
			&plan.Contract.LengthMonths, &plan.Contract.RateType, &plan.Contract.EarlyTerminationFee,
			&plan.Features.PercentGreen, &plan.Features.DepositRequired, &plan.Features.IsPrepaid,
			&plan.Features.TimeOfUse, &plan.Features.AutoPayRequired,
			&links, &plan.IsActive, &plan.LastSeenAt, &plan.CreatedAt, &plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(links) > 0 {
			if err := json.Unmarshal(links, &plan.DocumentLinks); err != nil {
				return nil, fmt.Errorf("failed to unmarshal document links: %w", err)
			}
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}
