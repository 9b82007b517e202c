package main

import (
	"context"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/product"
)

// seedData is the content of a seed file:
//
//	{"categories": [...], "products": [...]}
//
// Entries use the same shape as the HTTP API.
type seedData struct {
	Categories api.Categories
	Products   api.Products
}

func (s *seedData) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "categories":
			if err := s.Categories.Decode(d); err != nil {
				return errors.Wrap(err, "categories")
			}
		case "products":
			if err := s.Products.Decode(d); err != nil {
				return errors.Wrap(err, "products")
			}
		default:
			return d.Skip()
		}
		return nil
	})
}

func readSeedFile(path string) (*seedData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed file")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}
	var data seedData
	if err := api.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "parse seed file")
	}
	return &data, nil
}

type seedStats struct {
	categoriesCreated int
	categoriesSkipped int
	productsCreated   int
	productsUpdated   int
}

// seed inserts missing categories and upserts products by id. Running it
// twice leaves the catalog unchanged.
func seed(
	ctx context.Context,
	products product.Repository,
	categories product.CategoryRepository,
	data *seedData,
) (seedStats, error) {
	var stats seedStats

	existing, err := categories.List(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "list categories")
	}
	for _, c := range data.Categories.Domain() {
		if err := product.Validate(product.CreateCategoryInput{Name: c.Name}); err != nil {
			return stats, errors.Wrapf(err, "category %d", c.ID)
		}
		if slices.ContainsFunc(existing, func(e product.Category) bool { return e.ID == c.ID }) {
			stats.categoriesSkipped++
			continue
		}
		if err := categories.Create(ctx, &c); err != nil {
			return stats, errors.Wrapf(err, "create category %q", c.Name)
		}
		existing = append(existing, c)
		stats.categoriesCreated++
	}

	now := time.Now().UTC()
	for _, p := range data.Products.Domain() {
		if err := product.Validate(product.CreateInput{
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			CategoryID:  p.CategoryID,
			Stock:       p.Stock,
		}); err != nil {
			return stats, errors.Wrapf(err, "product %q", p.ID)
		}
		if strings.TrimSpace(p.ID) == "" {
			return stats, errors.Errorf("product %q: id is required", p.Name)
		}
		if p.ImageURL == "" {
			p.ImageURL = product.PlaceholderImageURL
		}
		p.UpdatedAt = now

		current, err := products.GetByID(ctx, p.ID)
		switch {
		case errors.Is(err, product.ErrNotFound):
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			if err := products.Create(ctx, &p); err != nil {
				return stats, errors.Wrapf(err, "create product %q", p.ID)
			}
			stats.productsCreated++
		case err != nil:
			return stats, errors.Wrapf(err, "get product %q", p.ID)
		default:
			p.CreatedAt = current.CreatedAt
			if err := products.Update(ctx, &p); err != nil {
				return stats, errors.Wrapf(err, "update product %q", p.ID)
			}
			stats.productsUpdated++
		}
	}
	return stats, nil
}
