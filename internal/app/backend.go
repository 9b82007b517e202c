package app

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/storage/jsonfile"
	"github.com/xenking/storefront/internal/storage/postgres"
	"github.com/xenking/storefront/pkg/health"
)

// backend is the catalog storage selected by configuration.
type backend struct {
	products   product.Repository
	categories product.CategoryRepository
	// run blocks serving background work until ctx is done. May be nil.
	run   func(ctx context.Context) error
	close func()
}

func openBackend(ctx context.Context, lg *zap.Logger, cfg *Config, h *health.Health) (*backend, error) {
	if cfg.UsePostgres() {
		return openPostgres(ctx, lg, cfg, h)
	}
	return openJSONFiles(lg, cfg, h)
}

func openPostgres(ctx context.Context, lg *zap.Logger, cfg *Config, h *health.Health) (*backend, error) {
	lg.Info("Using postgres catalog")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	h.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))

	return &backend{
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		close:      pool.Close,
	}, nil
}

func openJSONFiles(lg *zap.Logger, cfg *Config, h *health.Health) (*backend, error) {
	lg.Info("Using JSON file catalog", zap.String("dir", cfg.DataDir))

	products, err := jsonfile.OpenProductRepository(cfg.DataDir, lg.Named("products"))
	if err != nil {
		return nil, errors.Wrap(err, "open products")
	}
	categories, err := jsonfile.OpenCategoryRepository(cfg.DataDir, lg.Named("categories"))
	if err != nil {
		return nil, errors.Wrap(err, "open categories")
	}
	watcher, err := jsonfile.NewWatcher(lg.Named("watcher"), products, categories)
	if err != nil {
		return nil, errors.Wrap(err, "watch data dir")
	}
	h.AddReadinessCheck("data_dir", time.Second, health.DirWritableCheck(cfg.DataDir))

	return &backend{
		products:   products,
		categories: categories,
		run:        watcher.Run,
		close: func() {
			if err := watcher.Close(); err != nil {
				lg.Warn("Close watcher", zap.Error(err))
			}
		},
	}, nil
}
