package jsonfile

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
)

var _ product.CategoryRepository = (*CategoryRepository)(nil)

type categoryRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryRepository implements product.CategoryRepository on top of
// categories.json. Category ids are creation times in Unix milliseconds.
type CategoryRepository struct {
	table *Table[categoryRecord]
	now   func() time.Time
}

// OpenCategoryRepository opens dir/categories.json.
func OpenCategoryRepository(dir string, lg *zap.Logger) (*CategoryRepository, error) {
	t, err := OpenTable[categoryRecord](dir, "categories", lg)
	if err != nil {
		return nil, err
	}
	return &CategoryRepository{table: t, now: time.Now}, nil
}

// Path returns the backing file path.
func (r *CategoryRepository) Path() string { return r.table.Path() }

// Invalidate drops the cached rows.
func (r *CategoryRepository) Invalidate() { r.table.Invalidate() }

// List returns all categories in file order.
func (r *CategoryRepository) List(_ context.Context) ([]product.Category, error) {
	rows := r.table.All()
	categories := make([]product.Category, len(rows))
	for i, row := range rows {
		categories[i] = product.Category(row)
	}
	return categories, nil
}

// Create assigns c a fresh id and appends it. A non-zero c.ID is kept when
// it is not taken yet, which lets seed data keep its ids.
func (r *CategoryRepository) Create(_ context.Context, c *product.Category) error {
	return r.table.Update(func(rows []categoryRecord) ([]categoryRecord, error) {
		taken := slices.ContainsFunc(rows, func(row categoryRecord) bool { return row.ID == c.ID })
		if c.ID <= 0 || taken {
			c.ID = r.nextID(rows)
		}
		return append(rows, categoryRecord(*c)), nil
	})
}

// Delete removes the category with the given id. Products referencing it
// are left alone.
func (r *CategoryRepository) Delete(_ context.Context, id int64) error {
	return r.table.Update(func(rows []categoryRecord) ([]categoryRecord, error) {
		i := slices.IndexFunc(rows, func(row categoryRecord) bool { return row.ID == id })
		if i < 0 {
			return nil, product.ErrNotFound
		}
		return slices.Delete(rows, i, i+1), nil
	})
}

func (r *CategoryRepository) nextID(rows []categoryRecord) int64 {
	id := r.now().UnixMilli()
	for _, row := range rows {
		if row.ID >= id {
			id = row.ID + 1
		}
	}
	return id
}
