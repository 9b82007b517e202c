// Command seed-catalog loads categories and products from a seed file into
// the catalog storage.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/storage/jsonfile"
	"github.com/xenking/storefront/internal/storage/postgres"
)

type options struct {
	dataDir     string
	databaseURL string
	file        string
}

func main() {
	var opts options

	flags := pflag.NewFlagSet("seed-catalog", pflag.ExitOnError)
	flags.StringVar(&opts.dataDir, "data-dir", "data", "directory holding products.json and categories.json")
	flags.StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env); overrides --data-dir")
	flags.StringVarP(&opts.file, "file", "f", "db/seed/catalog.json", "seed file, optionally gzipped (.gz)")
	_ = flags.Parse(os.Args[1:])

	if opts.databaseURL == "" {
		opts.databaseURL = os.Getenv("DATABASE_URL")
	}

	lg, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, opts); err != nil {
		lg.Error("Seed failed", zap.Error(err))
		os.Exit(1)
	}

	lg.Info("Seed completed")
}

func run(ctx context.Context, lg *zap.Logger, opts options) error {
	data, err := readSeedFile(opts.file)
	if err != nil {
		return err
	}
	lg.Info("Read seed file",
		zap.String("path", opts.file),
		zap.Int("categories", len(data.Categories)),
		zap.Int("products", len(data.Products)),
	)

	products, categories, closeFn, err := openRepositories(ctx, lg, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	stats, err := seed(ctx, products, categories, data)
	lg.Info("Seeded catalog",
		zap.Int("categories_created", stats.categoriesCreated),
		zap.Int("categories_skipped", stats.categoriesSkipped),
		zap.Int("products_created", stats.productsCreated),
		zap.Int("products_updated", stats.productsUpdated),
	)
	return err
}

func openRepositories(ctx context.Context, lg *zap.Logger, opts options) (
	product.Repository, product.CategoryRepository, func(), error,
) {
	if opts.databaseURL != "" {
		lg.Info("Connecting to database")
		pool, err := postgres.NewPool(ctx, opts.databaseURL)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "connect to database")
		}
		lg.Info("Running migrations")
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, errors.Wrap(err, "run migrations")
		}
		return postgres.NewProductRepository(pool), postgres.NewCategoryRepository(pool), pool.Close, nil
	}

	lg.Info("Seeding JSON files", zap.String("dir", opts.dataDir))
	products, err := jsonfile.OpenProductRepository(opts.dataDir, lg.Named("products"))
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "open products")
	}
	categories, err := jsonfile.OpenCategoryRepository(opts.dataDir, lg.Named("categories"))
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "open categories")
	}
	return products, categories, func() {}, nil
}
