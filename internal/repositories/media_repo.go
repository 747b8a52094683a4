package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfluence/backend/internal/models"
)

type MediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

func (r *MediaRepo) Create(ctx context.Context, m *models.MediaUpload) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO media_uploads (owner_user_id, category, storage_key, url, mime_type, size, caption)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, m.OwnerUserID, m.Category, m.StorageKey, m.URL, m.MimeType, m.Size, m.Caption).Scan(&m.ID, &m.CreatedAt)
	return translate(err, "upload")
}

func (r *MediaRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaUpload, error) {
	var m models.MediaUpload
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_user_id, category, storage_key, url, mime_type, size, caption, created_at
		FROM media_uploads WHERE id = $1
	`, id).Scan(&m.ID, &m.OwnerUserID, &m.Category, &m.StorageKey, &m.URL, &m.MimeType, &m.Size, &m.Caption, &m.CreatedAt)
	if err != nil {
		return nil, translate(err, "upload")
	}
	return &m, nil
}

func (r *MediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM media_uploads WHERE id = $1`, id)
	return err
}
