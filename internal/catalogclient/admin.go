package catalogclient

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/product"
)

// AdminProducts lists every product, including those out of stock.
func (c *Client) AdminProducts(ctx context.Context) ([]product.Product, error) {
	var out api.Products
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/admin/products", admin: true}, &out); err != nil {
		return nil, err
	}
	return out.Domain(), nil
}

func (c *Client) CreateProduct(ctx context.Context, in product.CreateInput) (*product.Product, error) {
	body := api.FromCreateInput(in)
	var out api.Product
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/admin/products", body: &body, admin: true}, &out); err != nil {
		return nil, err
	}
	p := out.Domain()
	return &p, nil
}

// UpdateProduct sends only the fields set in in.
func (c *Client) UpdateProduct(ctx context.Context, id string, in product.UpdateInput) (*product.Product, error) {
	body := api.FromUpdateInput(in)
	var out api.Product
	if err := c.do(ctx, request{method: http.MethodPut, path: adminProductPath(id), body: &body, admin: true}, &out); err != nil {
		return nil, err
	}
	p := out.Domain()
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: adminProductPath(id), admin: true}, nil)
}

func (c *Client) CreateCategory(ctx context.Context, in product.CreateCategoryInput) (*product.Category, error) {
	body := api.CategoryInput(in)
	var out api.Category
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/admin/categories", body: &body, admin: true}, &out); err != nil {
		return nil, err
	}
	cat := out.Domain()
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: adminCategoryPath(id), admin: true}, nil)
}

// ValidateAdminKey reports whether the server accepts key, by probing the
// admin product listing.
func (c *Client) ValidateAdminKey(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	err := c.WithAdminKey(key).do(ctx, request{method: http.MethodGet, path: "/api/admin/products", admin: true}, nil)
	var apiErr *APIError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &apiErr) && apiErr.Unauthorized():
		return false, nil
	default:
		return false, err
	}
}
