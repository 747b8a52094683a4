package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopfluence/backend/internal/models"
)

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

const productColumns = `id, store_id, name, description, price::text, currency, stock, image_urls, status, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.Currency,
		&p.Stock, &p.ImageURLs, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (store_id, name, description, price, currency, stock, image_urls, status)
		VALUES ($1, $2, $3, $4::text::numeric, $5, $6, COALESCE($7::text[], '{}'), $8)
		RETURNING id, created_at, updated_at
	`, p.StoreID, p.Name, p.Description, p.Price, p.Currency, p.Stock, p.ImageURLs, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err, "product")
}

func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "product")
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE products SET name = $1, description = $2, price = $3::text::numeric, currency = $4,
		       stock = $5, image_urls = COALESCE($6::text[], '{}'), status = $7, updated_at = now()
		WHERE id = $8
		RETURNING updated_at
	`, p.Name, p.Description, p.Price, p.Currency, p.Stock, p.ImageURLs, p.Status, p.ID).Scan(&p.UpdatedAt)
	return translate(err, "product")
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// ListByStore returns the store's products newest first. Hidden products are
// included only when includeHidden is set.
func (r *ProductRepo) ListByStore(ctx context.Context, storeID uuid.UUID, includeHidden bool, limit, offset int) ([]models.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE store_id = $1 AND ($2 OR status = 'ACTIVE')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, storeID, includeHidden, clampLimit(limit, 50, 100), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
