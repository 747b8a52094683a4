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

type StoreRepo struct {
	pool *pgxpool.Pool
}

func NewStoreRepo(pool *pgxpool.Pool) *StoreRepo {
	return &StoreRepo{pool: pool}
}

const storeColumns = `id, owner_user_id, name, slug, description, logo_url, banner_url, category, created_at, updated_at`

func scanStore(row pgx.Row) (*models.Store, error) {
	var s models.Store
	err := row.Scan(&s.ID, &s.OwnerUserID, &s.Name, &s.Slug, &s.Description, &s.LogoURL,
		&s.BannerURL, &s.Category, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepo) Create(ctx context.Context, s *models.Store) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stores (owner_user_id, name, slug, description, logo_url, banner_url, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, s.OwnerUserID, s.Name, s.Slug, s.Description, s.LogoURL, s.BannerURL, s.Category,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err, "store")
}

func (r *StoreRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	s, err := scanStore(r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "store")
	}
	return s, nil
}

func (r *StoreRepo) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Store, error) {
	s, err := scanStore(r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE owner_user_id = $1`, ownerUserID))
	if err != nil {
		return nil, translate(err, "store")
	}
	return s, nil
}

func (r *StoreRepo) Update(ctx context.Context, s *models.Store) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE stores SET name = $1, slug = $2, description = $3, logo_url = $4, banner_url = $5,
		       category = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`, s.Name, s.Slug, s.Description, s.LogoURL, s.BannerURL, s.Category, s.ID).Scan(&s.UpdatedAt)
	return translate(err, "store")
}

type StoreFilter struct {
	Category *string
	Query    string // case-insensitive substring of the name
	Limit    int
	Offset   int
}

func (r *StoreRepo) List(ctx context.Context, f StoreFilter) ([]models.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores`
	args := []any{}
	argIdx := 1
	where := []string{}
	if f.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *f.Category)
		argIdx++
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", argIdx))
		args = append(args, q)
		argIdx++
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit, 20, 100), f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *s)
	}
	return stores, rows.Err()
}
