package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product or category does not exist.
var ErrNotFound = errors.New("product not found")

// UnknownCategory is the category name reported for products whose category
// does not exist (for example after the category was deleted).
const UnknownCategory = "Unknown"

// PlaceholderImageURL is used when a product is created without an image.
const PlaceholderImageURL = "https://via.placeholder.com/300x300?text=Product"

// Product represents a catalog item available for purchase.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  int64
	// CategoryName is joined on read and never stored.
	CategoryName string
	ImageURL     string
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Available reports whether the product can be shown to customers.
func (p Product) Available() bool {
	return p.Stock > 0
}

// Category groups products for browsing.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Repository defines persistence operations for products. Implementations
// preserve insertion order in List.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
}

// JoinCategories fills CategoryName on every product from the given
// categories, falling back to UnknownCategory.
func JoinCategories(products []Product, categories []Category) {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	for i := range products {
		name, ok := names[products[i].CategoryID]
		if !ok {
			name = UnknownCategory
		}
		products[i].CategoryName = name
	}
}
