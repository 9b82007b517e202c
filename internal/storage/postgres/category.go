package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/product"
)

const (
	listCategoriesSQL = `SELECT id, name, description FROM categories ORDER BY seq`

	// A requested id is kept when free; otherwise the id is the current Unix
	// time in milliseconds, bumped past the largest existing id.
	createCategorySQL = `INSERT INTO categories (id, name, description)
		SELECT CASE
			WHEN $1::BIGINT > 0 AND NOT EXISTS (SELECT 1 FROM categories WHERE id = $1::BIGINT) THEN $1::BIGINT
			ELSE GREATEST(
				(EXTRACT(EPOCH FROM clock_timestamp()) * 1000)::BIGINT,
				COALESCE((SELECT MAX(id) FROM categories), 0) + 1
			)
		END, $2, $3
		RETURNING id`

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`
)

var _ product.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository implements product.CategoryRepository backed by
// PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns all categories in insertion order.
func (r *CategoryRepository) List(ctx context.Context) ([]product.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[product.Category])
}

// Create inserts c and stores the assigned id back into it.
func (r *CategoryRepository) Create(ctx context.Context, c *product.Category) error {
	if err := r.pool.QueryRow(ctx, createCategorySQL, c.ID, c.Name, c.Description).Scan(&c.ID); err != nil {
		return errors.Wrapf(err, "create category %q", c.Name)
	}
	return nil
}

// Delete removes the category with the given id.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete category %d", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}
