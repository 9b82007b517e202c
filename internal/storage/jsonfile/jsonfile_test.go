package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/storefront/internal/domain/product"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestOpenTable_CreatesEmptyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	table, err := OpenTable[categoryRecord](dir, "categories", zaptest.NewLogger(t))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "categories.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
	assert.Empty(t, table.All())
}

func TestTable_CorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	table, err := OpenTable[productRecord](dir, "products", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, table.All())

	// Once fixed on disk, the next read after invalidation sees it.
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"p1","name":"A"}]`), 0o600))
	table.Invalidate()
	rows := table.All()
	require.Len(t, rows, 1)
	assert.Equal(t, "p1", rows[0].ID)
}

func TestTable_UpdateFailureWritesNothing(t *testing.T) {
	table, err := OpenTable[categoryRecord](t.TempDir(), "categories", nil)
	require.NoError(t, err)
	require.NoError(t, table.Update(func(rows []categoryRecord) ([]categoryRecord, error) {
		return append(rows, categoryRecord{ID: 1, Name: "Books"}), nil
	}))

	boom := errors.New("boom")
	err = table.Update(func(rows []categoryRecord) ([]categoryRecord, error) {
		rows[0].Name = "Changed"
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	table.Invalidate()
	assert.Equal(t, []categoryRecord{{ID: 1, Name: "Books"}}, table.All())
}

func TestProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenProductRepository(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &product.Product{
		ID:          "0b8c5f3e-1d2a-4c7b-9e6f-a1b2c3d4e5f6",
		Name:        "Desk Lamp",
		Description: "Warm light",
		Price:       decimal.RequireFromString("49.95"),
		CategoryID:  1700000000000,
		ImageURL:    product.PlaceholderImageURL,
		Stock:       4,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Create(ctx, &product.Product{ID: "second", Name: "Chair", Price: decimal.NewFromInt(80)}))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(p, got, decimalEqual); diff != "" {
		t.Fatalf("GetByID mismatch (-want +got):\n%s", diff)
	}

	p.Stock = 0
	p.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, p))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, p.ID, list[0].ID, "file order is preserved")
	assert.Equal(t, 0, list[0].Stock)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, product.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, p.ID), product.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, p), product.ErrNotFound)
}

func TestProductRepository_FileFormat(t *testing.T) {
	dir := t.TempDir()
	repo, err := OpenProductRepository(dir, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), &product.Product{
		ID:         "p1",
		Name:       "Pen",
		Price:      decimal.RequireFromString("1.5"),
		CategoryID: 7,
		Stock:      3,
		CreatedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}))

	data, err := os.ReadFile(filepath.Join(dir, "products.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"id": "p1",
		"name": "Pen",
		"description": "",
		"price": 1.5,
		"categoryId": 7,
		"imageUrl": "",
		"stock": 3,
		"createdAt": "2024-01-02T03:04:05Z",
		"updatedAt": "2024-01-02T03:04:05Z"
	}]`, string(data))
}

func TestCategoryRepository_IDs(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenCategoryRepository(t.TempDir(), nil)
	require.NoError(t, err)
	now := time.UnixMilli(1_700_000_000_000)
	repo.now = func() time.Time { return now }

	first := &product.Category{Name: "Electronics"}
	second := &product.Category{Name: "Books"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1_700_000_000_000), first.ID)
	assert.Equal(t, int64(1_700_000_000_001), second.ID, "same millisecond is bumped")

	seeded := &product.Category{ID: 5, Name: "Seeded"}
	require.NoError(t, repo.Create(ctx, seeded))
	assert.Equal(t, int64(5), seeded.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []product.Category{*first, *second, *seeded}, list)

	require.NoError(t, repo.Delete(ctx, first.ID))
	require.ErrorIs(t, repo.Delete(ctx, first.ID), product.ErrNotFound)
}

func TestWatcher_InvalidatesOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	repo, err := OpenCategoryRepository(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &product.Category{ID: 1, Name: "Old"}))

	w, err := NewWatcher(zaptest.NewLogger(t), repo)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	require.NoError(t, os.WriteFile(repo.Path(), []byte(`[{"id":2,"name":"Edited by hand","description":""}]`), 0o600))

	assert.Eventually(t, func() bool {
		list, err := repo.List(context.Background())
		return err == nil && len(list) == 1 && list[0].Name == "Edited by hand"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_Close(t *testing.T) {
	repo, err := OpenProductRepository(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)

	w, err := NewWatcher(zaptest.NewLogger(t), repo)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
