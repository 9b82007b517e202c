package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/storage/jsonfile"
)

const seedFile = "../../db/seed/catalog.json"

func gzipCopy(t *testing.T, src string) string {
	t.Helper()
	raw, err := os.ReadFile(src)
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "catalog.json.gz")
	f, err := os.Create(dst)
	require.NoError(t, err)
	gz := pgzip.NewWriter(f)
	_, err = gz.Write(raw)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return dst
}

func TestReadSeedFile(t *testing.T) {
	for _, path := range []string{seedFile, gzipCopy(t, seedFile)} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := readSeedFile(path)
			require.NoError(t, err)
			assert.Len(t, data.Categories, 3)
			assert.Len(t, data.Products, 7)
			assert.Equal(t, "Electronics", data.Categories[0].Name)
			assert.True(t, data.Products[1].Price.Equal(decimal.RequireFromString("34.5")))
		})
	}

	_, err := readSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSeed_JSONFiles(t *testing.T) {
	ctx := context.Background()
	lg := zaptest.NewLogger(t)
	dir := t.TempDir()

	opts := options{dataDir: dir, file: seedFile}
	require.NoError(t, run(ctx, lg, opts))

	products, err := jsonfile.OpenProductRepository(dir, lg)
	require.NoError(t, err)
	categories, err := jsonfile.OpenCategoryRepository(dir, lg)
	require.NoError(t, err)

	gotProducts, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, gotProducts, 7)
	assert.Equal(t, "Wireless Headphones", gotProducts[0].Name)
	assert.Equal(t, product.PlaceholderImageURL, gotProducts[1].ImageURL)
	assert.False(t, gotProducts[0].CreatedAt.IsZero())

	gotCategories, err := categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, gotCategories, 3)
	assert.Equal(t, int64(3), gotCategories[2].ID)

	// Second run updates in place.
	data, err := readSeedFile(seedFile)
	require.NoError(t, err)
	stats, err := seed(ctx, products, categories, data)
	require.NoError(t, err)
	assert.Equal(t, seedStats{categoriesSkipped: 3, productsUpdated: 7}, stats)

	again, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, again, 7)
	assert.Equal(t, gotProducts[0].CreatedAt, again[0].CreatedAt)
}

func TestSeed_Invalid(t *testing.T) {
	ctx := context.Background()
	lg := zaptest.NewLogger(t)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "blank category name",
			content: `{"categories":[{"id":1,"name":" "}]}`,
			wantErr: "Category name is required",
		},
		{
			name:    "negative stock",
			content: `{"products":[{"id":"p1","name":"A","description":"B","price":1,"categoryId":1,"stock":-1}]}`,
			wantErr: "Valid stock quantity is required",
		},
		{
			name:    "missing id",
			content: `{"products":[{"name":"A","description":"B","price":1,"categoryId":1,"stock":1}]}`,
			wantErr: "id is required",
		},
		{
			name:    "malformed",
			content: `{"products":{}}`,
			wantErr: "parse seed file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "seed.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			err := run(ctx, lg, options{dataDir: dir, file: path})
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
