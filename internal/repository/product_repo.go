package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"go-product-api/internal/model"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, name string, price decimal.Decimal) (model.Product, error) {
	var p model.Product
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, price)
		 VALUES ($1, $2)
		 RETURNING id, name, price, created_at, updated_at`,
		name, price).
		Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Product{}, storeError("create product", err)
	}
	return p, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price, created_at, updated_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, model.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, storeError("find product by id", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price, created_at, updated_at FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, storeError("list products", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, storeError("scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list products", err)
	}
	return products, nil
}

// Update applies a partial update; nil fields keep the stored value.
func (r *ProductRepository) Update(ctx context.Context, id int64, name *string, price *decimal.Decimal) (model.Product, error) {
	var p model.Product
	err := r.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = COALESCE($2, name),
		     price = COALESCE($3, price),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING id, name, price, created_at, updated_at`,
		id, name, price).
		Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, model.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, storeError("update product", err)
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.pool.QueryRow(ctx,
		`DELETE FROM products WHERE id = $1
		 RETURNING id, name, price, created_at, updated_at`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, model.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, storeError("delete product", err)
	}
	return p, nil
}
