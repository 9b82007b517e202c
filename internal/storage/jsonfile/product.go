package jsonfile

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

type productRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  int64     `json:"categoryId"`
	ImageURL    string    `json:"imageUrl"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductRecord(p *product.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r productRecord) product() product.Product {
	return product.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price),
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		Stock:       r.Stock,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ProductRepository implements product.Repository on top of products.json.
type ProductRepository struct {
	table *Table[productRecord]
}

// OpenProductRepository opens dir/products.json.
func OpenProductRepository(dir string, lg *zap.Logger) (*ProductRepository, error) {
	t, err := OpenTable[productRecord](dir, "products", lg)
	if err != nil {
		return nil, err
	}
	return &ProductRepository{table: t}, nil
}

// Path returns the backing file path.
func (r *ProductRepository) Path() string { return r.table.Path() }

// Invalidate drops the cached rows.
func (r *ProductRepository) Invalidate() { r.table.Invalidate() }

// List returns all products in file order.
func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	rows := r.table.All()
	products := make([]product.Product, len(rows))
	for i, row := range rows {
		products[i] = row.product()
	}
	return products, nil
}

// GetByID returns the product with the given id or product.ErrNotFound.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	for _, row := range r.table.All() {
		if row.ID == id {
			p := row.product()
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

// Create appends p.
func (r *ProductRepository) Create(_ context.Context, p *product.Product) error {
	return r.table.Update(func(rows []productRecord) ([]productRecord, error) {
		return append(rows, toProductRecord(p)), nil
	})
}

// Update replaces the stored product with the same id.
func (r *ProductRepository) Update(_ context.Context, p *product.Product) error {
	return r.table.Update(func(rows []productRecord) ([]productRecord, error) {
		i := slices.IndexFunc(rows, func(row productRecord) bool { return row.ID == p.ID })
		if i < 0 {
			return nil, product.ErrNotFound
		}
		rows[i] = toProductRecord(p)
		return rows, nil
	})
}

// Delete removes the product with the given id.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	return r.table.Update(func(rows []productRecord) ([]productRecord, error) {
		i := slices.IndexFunc(rows, func(row productRecord) bool { return row.ID == id })
		if i < 0 {
			return nil, product.ErrNotFound
		}
		return slices.Delete(rows, i, i+1), nil
	})
}
