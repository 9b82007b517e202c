package catalogclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/product"
)

// Products lists products in stock matching f.
func (c *Client) Products(ctx context.Context, f product.Filter) ([]product.Product, error) {
	q := url.Values{}
	if f.CategoryID != 0 {
		q.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}

	var out api.Products
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/products", query: q}, &out); err != nil {
		return nil, err
	}
	return out.Domain(), nil
}

// Product fetches one product. Missing and out-of-stock products yield an
// error matching product.ErrNotFound.
func (c *Client) Product(ctx context.Context, id string) (*product.Product, error) {
	var out api.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: productPath(id)}, &out); err != nil {
		return nil, err
	}
	p := out.Domain()
	return &p, nil
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]product.Category, error) {
	var out api.Categories
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/categories"}, &out); err != nil {
		return nil, err
	}
	return out.Domain(), nil
}

// Storefront is everything the home page shows.
type Storefront struct {
	Products   []product.Product
	Categories []product.Category
}

// Storefront fetches products and categories concurrently.
func (c *Client) Storefront(ctx context.Context, f product.Filter) (*Storefront, error) {
	var sf Storefront
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := c.Products(ctx, f)
		if err != nil {
			return errors.Wrap(err, "products")
		}
		sf.Products = products
		return nil
	})
	g.Go(func() error {
		categories, err := c.Categories(ctx)
		if err != nil {
			return errors.Wrap(err, "categories")
		}
		sf.Categories = categories
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sf, nil
}
