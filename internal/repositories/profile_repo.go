package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfluence/backend/internal/models"
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `user_id, role, display_name, bio, location, avatar_url, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.UserID, &p.Role, &p.DisplayName, &p.Bio, &p.Location, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Ensure returns the profile of userID, creating a USER profile on first access.
func (r *ProfileRepo) Ensure(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

func (r *ProfileRepo) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		return nil, translate(err, "profile")
	}
	return p, nil
}

// Update writes the user-editable fields. Role is changed only through SetRole.
func (r *ProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE profiles SET display_name = $1, bio = $2, location = $3, avatar_url = $4, updated_at = now()
		WHERE user_id = $5
		RETURNING role, created_at, updated_at
	`, p.DisplayName, p.Bio, p.Location, p.AvatarURL, p.UserID).Scan(&p.Role, &p.CreatedAt, &p.UpdatedAt)
	return translate(err, "profile")
}

func (r *ProfileRepo) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = now()
	`, userID, role)
	return err
}
