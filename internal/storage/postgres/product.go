package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/product"
)

const (
	productColumns = `id, name, description, price, category_id, image_url, stock, created_at, updated_at`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY seq`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	createProductSQL = `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	updateProductSQL = `UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5,
			image_url = $6, stock = $7, updated_at = $8
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products in insertion order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// Create inserts p.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.Name, p.Description, p.Price, p.CategoryID,
		p.ImageURL, p.Stock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "create product %q", p.ID)
	}
	return nil
}

// Update overwrites the stored product with the same id.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Description, p.Price, p.CategoryID,
		p.ImageURL, p.Stock, p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "update product %q", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes the product with the given id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
		&p.ImageURL, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
