package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfluence/backend/internal/models"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `
	c.id, c.store_id, c.title, c.description, c.budget::text, c.currency, c.duration_days,
	c.target_platforms, c.target_audience, c.requirements, c.start_date, c.status,
	c.created_at, c.updated_at, c.published_at`

func scanCampaign(row pgx.Row, c *models.Campaign, extra ...any) error {
	dest := []any{
		&c.ID, &c.StoreID, &c.Title, &c.Description, &c.Budget, &c.Currency, &c.DurationDays,
		&c.TargetPlatforms, &c.TargetAudience, &c.Requirements, &c.StartDate, &c.Status,
		&c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (store_id, title, description, budget, currency, duration_days,
		                       target_platforms, target_audience, requirements, start_date, status)
		VALUES ($1, $2, $3, $4::text::numeric, $5, $6, COALESCE($7::text[], '{}'), $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, c.StoreID, c.Title, c.Description, c.Budget, c.Currency, c.DurationDays,
		c.TargetPlatforms, c.TargetAudience, c.Requirements, c.StartDate, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate(err, "campaign")
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var c models.Campaign
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns c WHERE c.id = $1`, id)
	if err := scanCampaign(row, &c); err != nil {
		return nil, translate(err, "campaign")
	}
	return &c, nil
}

// Update writes the editable fields; status is changed only via UpdateStatus.
func (r *CampaignRepo) Update(ctx context.Context, c *models.Campaign) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE campaigns SET title = $1, description = $2, budget = $3::text::numeric, currency = $4,
		       duration_days = $5, target_platforms = COALESCE($6::text[], '{}'), target_audience = $7,
		       requirements = $8, start_date = $9, updated_at = now()
		WHERE id = $10
		RETURNING updated_at
	`, c.Title, c.Description, c.Budget, c.Currency, c.DurationDays, c.TargetPlatforms,
		c.TargetAudience, c.Requirements, c.StartDate, c.ID,
	).Scan(&c.UpdatedAt)
	return translate(err, "campaign")
}

// UpdateStatus moves the campaign from one status to another. The WHERE clause
// on the current status makes concurrent transitions race-safe: the loser gets
// NotFound and must re-read.
func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Campaign, error) {
	var c models.Campaign
	row := r.pool.QueryRow(ctx, `
		UPDATE campaigns c SET status = $1, updated_at = now(),
		       published_at = CASE WHEN $1 = 'PUBLISHED' THEN now() ELSE c.published_at END
		WHERE c.id = $2 AND c.status = $3
		RETURNING `+campaignColumns, to, id, from)
	if err := scanCampaign(row, &c); err != nil {
		return nil, translate(err, "campaign")
	}
	return &c, nil
}

// DeleteDraft removes the campaign only while it is still a DRAFT and reports
// whether a row was deleted.
func (r *CampaignRepo) DeleteDraft(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1 AND status = $2`, id, models.CampaignStatusDraft)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type CampaignFilter struct {
	StoreID *uuid.UUID
	Status  *string
	Limit   int
	Offset  int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns c`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.StoreID != nil {
		where = append(where, fmt.Sprintf("c.store_id = $%d", argIdx))
		args = append(args, *f.StoreID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("c.status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit, 20, 100), f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		if err := scanCampaign(rows, &c); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// ListAvailable returns published campaigns the influencer has not applied to yet.
func (r *CampaignRepo) ListAvailable(ctx context.Context, influencerID uuid.UUID, limit, offset int) ([]models.CampaignWithStore, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+`, s.name
		FROM campaigns c
		JOIN stores s ON s.id = c.store_id
		WHERE c.status = 'PUBLISHED'
		  AND NOT EXISTS (
			SELECT 1 FROM campaign_influencers ci
			WHERE ci.campaign_id = c.id AND ci.influencer_id = $1
		  )
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`, influencerID, clampLimit(limit, 50, 100), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.CampaignWithStore{}
	for rows.Next() {
		var c models.CampaignWithStore
		if err := scanCampaign(rows, &c.Campaign, &c.StoreName); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
