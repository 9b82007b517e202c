// Package app wires the catalog API server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/events"
	"github.com/xenking/storefront/internal/handler"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

const serviceName = "catalog-api"

// Run creates all dependencies, serves HTTP and shuts down gracefully when
// ctx is cancelled. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m httpmiddleware.TelemetryProvider, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	adminKey, err := auth.NewAdminKey(cfg.AdminKey)
	if err != nil {
		return errors.Wrap(err, "admin key")
	}

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	store, err := openBackend(ctx, lg, cfg, healthSvc)
	if err != nil {
		return err
	}
	defer store.close()

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL, lg.Named("nats"))
		if err != nil {
			return errors.Wrap(err, "connect nats")
		}
		defer func() {
			if err := nc.Close(); err != nil {
				lg.Warn("Close NATS", zap.Error(err))
			}
		}()
		healthSvc.AddReadinessCheck("nats", time.Second, health.ConnectedCheck("nats", nc.Connected))
		publisher = nc
	}

	svc, err := catalog.NewService(store.products, store.categories,
		catalog.WithPublisher(publisher),
		catalog.WithTracerProvider(m.TracerProvider()),
		catalog.WithMeterProvider(m.MeterProvider()),
	)
	if err != nil {
		return errors.Wrap(err, "create catalog service")
	}

	mux := http.NewServeMux()
	healthSvc.Register(mux)
	handler.NewHandler(handler.HandlerConfig{MaxBodyBytes: cfg.MaxBodyBytes}, svc).
		Register(mux, handler.AdminOnly(adminKey))
	routeFinder := httpmiddleware.MakeRouteFinder(mux)

	g, ctx := errgroup.WithContext(ctx)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.InjectLogger(lg),
			httpmiddleware.RequestID(),
			httpmiddleware.Recovery(),
			httpmiddleware.Instrument(serviceName, routeFinder, m),
			httpmiddleware.Labeler(routeFinder),
			httpmiddleware.LogRequests(routeFinder),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "X-Admin-Key", httpmiddleware.RequestIDHeader},
				ExposeHeaders:    []string{httpmiddleware.RequestIDHeader, "Retry-After"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
		),
	}

	if store.run != nil {
		g.Go(func() error {
			return store.run(ctx)
		})
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Graceful shutdown: readiness off, drain, then stop.
	g.Go(func() error {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		defer healthSvc.Stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})

	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	return g.Wait()
}
