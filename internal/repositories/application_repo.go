package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfluence/backend/internal/models"
)

type ApplicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

// Create inserts an application. A second application for the same
// (campaign, influencer) pair violates the primary key and yields Conflict.
func (r *ApplicationRepo) Create(ctx context.Context, a *models.CampaignInfluencer) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO campaign_influencers (campaign_id, influencer_id, application_status, message)
		VALUES ($1, $2, $3, $4)
		RETURNING applied_at
	`, a.CampaignID, a.InfluencerID, a.ApplicationStatus, a.Message).Scan(&a.AppliedAt)
	return translate(err, "application")
}

func (r *ApplicationRepo) Get(ctx context.Context, campaignID, influencerID uuid.UUID) (*models.CampaignInfluencer, error) {
	var a models.CampaignInfluencer
	err := r.pool.QueryRow(ctx, `
		SELECT campaign_id, influencer_id, application_status, message, applied_at, selected_at
		FROM campaign_influencers WHERE campaign_id = $1 AND influencer_id = $2
	`, campaignID, influencerID).Scan(&a.CampaignID, &a.InfluencerID, &a.ApplicationStatus,
		&a.Message, &a.AppliedAt, &a.SelectedAt)
	if err != nil {
		return nil, translate(err, "application")
	}
	return &a, nil
}

// UpdateStatus performs a guarded transition; NotFound means the row was not in
// the expected status any more.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, campaignID, influencerID uuid.UUID, from, to string) (*models.CampaignInfluencer, error) {
	var a models.CampaignInfluencer
	err := r.pool.QueryRow(ctx, `
		UPDATE campaign_influencers
		SET application_status = $1,
		    selected_at = CASE WHEN $1 = 'SELECTED' THEN now() ELSE selected_at END
		WHERE campaign_id = $2 AND influencer_id = $3 AND application_status = $4
		RETURNING campaign_id, influencer_id, application_status, message, applied_at, selected_at
	`, to, campaignID, influencerID, from).Scan(&a.CampaignID, &a.InfluencerID, &a.ApplicationStatus,
		&a.Message, &a.AppliedAt, &a.SelectedAt)
	if err != nil {
		return nil, translate(err, "application")
	}
	return &a, nil
}

// ListApplicants returns the campaign's applications newest first, each with
// the influencer card. Social accounts are filled in by a second query.
func (r *ApplicationRepo) ListApplicants(ctx context.Context, campaignID uuid.UUID) ([]models.Applicant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ci.campaign_id, ci.influencer_id, ci.application_status, ci.message, ci.applied_at, ci.selected_at,
		       i.id, i.user_id, i.status, i.display_name, i.bio, i.niche, i.location, i.created_at, i.updated_at
		FROM campaign_influencers ci
		JOIN influencers i ON i.id = ci.influencer_id
		WHERE ci.campaign_id = $1
		ORDER BY ci.applied_at DESC
	`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applicants := []models.Applicant{}
	for rows.Next() {
		var a models.Applicant
		if err := rows.Scan(&a.CampaignID, &a.InfluencerID, &a.ApplicationStatus, &a.Message, &a.AppliedAt, &a.SelectedAt,
			&a.Influencer.ID, &a.Influencer.UserID, &a.Influencer.Status, &a.Influencer.DisplayName,
			&a.Influencer.Bio, &a.Influencer.Niche, &a.Influencer.Location,
			&a.Influencer.CreatedAt, &a.Influencer.UpdatedAt); err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}
	return applicants, rows.Err()
}

// ListByInfluencer returns the influencer's applications newest first with the
// parent campaign and its applicant count.
func (r *ApplicationRepo) ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]models.MyApplication, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ci.campaign_id, ci.influencer_id, ci.application_status, ci.message, ci.applied_at, ci.selected_at,
		       `+campaignColumns+`, s.name,
		       (SELECT count(*) FROM campaign_influencers x WHERE x.campaign_id = ci.campaign_id)
		FROM campaign_influencers ci
		JOIN campaigns c ON c.id = ci.campaign_id
		JOIN stores s ON s.id = c.store_id
		WHERE ci.influencer_id = $1
		ORDER BY ci.applied_at DESC
	`, influencerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.MyApplication{}
	for rows.Next() {
		var a models.MyApplication
		c := &a.Campaign.Campaign
		if err := rows.Scan(&a.CampaignID, &a.InfluencerID, &a.ApplicationStatus, &a.Message, &a.AppliedAt, &a.SelectedAt,
			&c.ID, &c.StoreID, &c.Title, &c.Description, &c.Budget, &c.Currency, &c.DurationDays,
			&c.TargetPlatforms, &c.TargetAudience, &c.Requirements, &c.StartDate, &c.Status,
			&c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
			&a.Campaign.StoreName, &a.ApplicantCount); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
