package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfluence/backend/internal/models"
)

type InfluencerRepo struct {
	pool *pgxpool.Pool
}

func NewInfluencerRepo(pool *pgxpool.Pool) *InfluencerRepo {
	return &InfluencerRepo{pool: pool}
}

const influencerColumns = `id, user_id, status, display_name, bio, niche, location, created_at, updated_at`

func scanInfluencer(row pgx.Row) (*models.Influencer, error) {
	var i models.Influencer
	err := row.Scan(&i.ID, &i.UserID, &i.Status, &i.DisplayName, &i.Bio, &i.Niche, &i.Location, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InfluencerRepo) Create(ctx context.Context, i *models.Influencer) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO influencers (user_id, status, display_name, bio, niche, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, i.UserID, i.Status, i.DisplayName, i.Bio, i.Niche, i.Location).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	return translate(err, "influencer profile")
}

func (r *InfluencerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Influencer, error) {
	i, err := scanInfluencer(r.pool.QueryRow(ctx, `SELECT `+influencerColumns+` FROM influencers WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "influencer")
	}
	return i, nil
}

func (r *InfluencerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Influencer, error) {
	i, err := scanInfluencer(r.pool.QueryRow(ctx, `SELECT `+influencerColumns+` FROM influencers WHERE user_id = $1`, userID))
	if err != nil {
		return nil, translate(err, "influencer profile")
	}
	return i, nil
}

func (r *InfluencerRepo) UpdateProfile(ctx context.Context, i *models.Influencer) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE influencers SET display_name = $1, bio = $2, niche = $3, location = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, i.DisplayName, i.Bio, i.Niche, i.Location, i.ID).Scan(&i.UpdatedAt)
	return translate(err, "influencer")
}

func (r *InfluencerRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Influencer, error) {
	i, err := scanInfluencer(r.pool.QueryRow(ctx, `
		UPDATE influencers SET status = $1, updated_at = now() WHERE id = $2
		RETURNING `+influencerColumns, status, id))
	if err != nil {
		return nil, translate(err, "influencer")
	}
	return i, nil
}

type InfluencerFilter struct {
	Status *string
	Limit  int
	Offset int
}

func (r *InfluencerRepo) List(ctx context.Context, f InfluencerFilter) ([]models.Influencer, error) {
	query := `SELECT ` + influencerColumns + ` FROM influencers`
	args := []any{}
	argIdx := 1
	if f.Status != nil {
		query += fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, *f.Status)
		argIdx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit, 20, 100), f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Influencer{}
	for rows.Next() {
		i, err := scanInfluencer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *i)
	}
	return list, rows.Err()
}

// --- social accounts ---

const socialColumns = `id, influencer_id, platform, handle, url, follower_count, updated_at`

func (r *InfluencerRepo) UpsertSocialAccount(ctx context.Context, a *models.SocialAccount) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO influencer_social_accounts (influencer_id, platform, handle, url, follower_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (influencer_id, platform) DO UPDATE SET
			handle = EXCLUDED.handle,
			url = EXCLUDED.url,
			follower_count = EXCLUDED.follower_count,
			updated_at = now()
		RETURNING id, updated_at
	`, a.InfluencerID, a.Platform, a.Handle, a.URL, a.FollowerCount).Scan(&a.ID, &a.UpdatedAt)
	return err
}

func (r *InfluencerRepo) GetSocialAccount(ctx context.Context, influencerID uuid.UUID, platform string) (*models.SocialAccount, error) {
	var a models.SocialAccount
	err := r.pool.QueryRow(ctx, `
		SELECT `+socialColumns+` FROM influencer_social_accounts WHERE influencer_id = $1 AND platform = $2
	`, influencerID, platform).Scan(&a.ID, &a.InfluencerID, &a.Platform, &a.Handle, &a.URL, &a.FollowerCount, &a.UpdatedAt)
	if err != nil {
		return nil, translate(err, "social account")
	}
	return &a, nil
}

func (r *InfluencerRepo) DeleteSocialAccount(ctx context.Context, influencerID uuid.UUID, platform string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM influencer_social_accounts WHERE influencer_id = $1 AND platform = $2`, influencerID, platform)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListStaleSocialAccounts returns accounts of one platform last updated before
// the cutoff, oldest first.
func (r *InfluencerRepo) ListStaleSocialAccounts(ctx context.Context, platform string, before time.Time, limit int) ([]models.SocialAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+socialColumns+` FROM influencer_social_accounts
		WHERE platform = $1 AND updated_at < $2
		ORDER BY updated_at
		LIMIT $3
	`, platform, before, clampLimit(limit, 50, 500))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.SocialAccount{}
	for rows.Next() {
		var a models.SocialAccount
		if err := rows.Scan(&a.ID, &a.InfluencerID, &a.Platform, &a.Handle, &a.URL, &a.FollowerCount, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// SocialAccountsFor loads the accounts of several influencers in one query.
func (r *InfluencerRepo) SocialAccountsFor(ctx context.Context, influencerIDs []uuid.UUID) (map[uuid.UUID][]models.SocialAccount, error) {
	out := make(map[uuid.UUID][]models.SocialAccount, len(influencerIDs))
	if len(influencerIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+socialColumns+` FROM influencer_social_accounts
		WHERE influencer_id = ANY($1)
		ORDER BY platform
	`, influencerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.SocialAccount
		if err := rows.Scan(&a.ID, &a.InfluencerID, &a.Platform, &a.Handle, &a.URL, &a.FollowerCount, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out[a.InfluencerID] = append(out[a.InfluencerID], a)
	}
	return out, rows.Err()
}
