package stock

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ByID returns (nil, nil) when the product does not exist.
func (r *ProductRepository) ByID(ctx context.Context, id string) (*domain.Product, error) {
	product := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, seller_id, name, price_cents, quantity, categories, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.SellerID, &product.Name, &product.PriceCents,
		&product.Quantity, pq.Array(&product.Categories), &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seller_id, name, price_cents, quantity, categories, created_at, updated_at
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.PriceCents,
			&p.Quantity, pq.Array(&p.Categories), &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
