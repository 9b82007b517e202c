// Package catalog implements the storefront's product and category use cases.
package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/events"
)

const instrumentationName = "github.com/xenking/storefront/internal/domain/catalog"

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the destination of catalog change events.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithTracerProvider sets the tracer provider used for spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider used for mutation counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.meterProvider = mp }
}

// WithClock overrides the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides product id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// Service serves the public catalog and the admin mutations.
type Service struct {
	products   product.Repository
	categories product.CategoryRepository
	events     events.Publisher
	now        func() time.Time
	newID      func() string

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	mutations      metric.Int64Counter
}

// NewService creates a catalog Service over the given repositories.
func NewService(
	products product.Repository,
	categories product.CategoryRepository,
	opts ...Option,
) (*Service, error) {
	s := &Service{
		products:       products,
		categories:     categories,
		events:         events.Nop{},
		now:            time.Now,
		newID:          uuid.NewString,
		tracerProvider: nooptrace.NewTracerProvider(),
		meterProvider:  noop.NewMeterProvider(),
	}
	for _, o := range opts {
		o(s)
	}

	s.tracer = s.tracerProvider.Tracer(instrumentationName)
	counter, err := s.meterProvider.Meter(instrumentationName).Int64Counter("catalog.mutations",
		metric.WithDescription("Number of admin catalog mutations"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create mutations counter")
	}
	s.mutations = counter
	return s, nil
}

// ListAvailable returns in-stock products matching f, with category names
// joined, in repository order.
func (s *Service) ListAvailable(ctx context.Context, f product.Filter) (_ []product.Product, rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListAvailable")
	defer func() { endSpan(span, rerr) }()

	all, err := s.joined(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]product.Product, 0, len(all))
	for _, p := range all {
		if p.Available() && f.Match(p) {
			available = append(available, p)
		}
	}
	span.SetAttributes(attribute.Int("catalog.products", len(available)))
	return available, nil
}

// GetAvailable returns a single in-stock product. Missing and out-of-stock
// products both yield product.ErrNotFound.
func (s *Service) GetAvailable(ctx context.Context, id string) (_ *product.Product, rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetAvailable",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer func() { endSpan(span, rerr) }()

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	if !p.Available() {
		return nil, product.ErrNotFound
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	one := []product.Product{*p}
	product.JoinCategories(one, categories)
	return &one[0], nil
}

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) (_ []product.Category, rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListCategories")
	defer func() { endSpan(span, rerr) }()

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

// ListAll returns every product, including out-of-stock ones.
func (s *Service) ListAll(ctx context.Context) (_ []product.Product, rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListAll")
	defer func() { endSpan(span, rerr) }()

	return s.joined(ctx)
}

// CreateProduct validates in and stores a new product.
func (s *Service) CreateProduct(ctx context.Context, in product.CreateInput) (_ *product.Product, rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateProduct")
	defer func() { endSpan(span, rerr) }()

	if err := product.Validate(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &product.Product{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.ImageURL == "" {
		p.ImageURL = product.PlaceholderImageURL
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	if err := s.joinOne(ctx, p); err != nil {
		return nil, err
	}

	s.mutated(ctx, events.ProductCreated, p.ID)
	return p, nil
}

// UpdateProduct applies the provided fields of in to the product id.
func (s *Service) UpdateProduct(ctx context.Context, id string, in product.UpdateInput) (_ *product.Product, rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateProduct",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer func() { endSpan(span, rerr) }()

	if err := product.Validate(in); err != nil {
		return nil, err
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	in.Apply(p)
	p.UpdatedAt = s.now().UTC()

	if err := s.products.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	if err := s.joinOne(ctx, p); err != nil {
		return nil, err
	}

	s.mutated(ctx, events.ProductUpdated, p.ID)
	return p, nil
}

// DeleteProduct removes the product id.
func (s *Service) DeleteProduct(ctx context.Context, id string) (rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.DeleteProduct",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer func() { endSpan(span, rerr) }()

	if err := s.products.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete product")
	}

	s.mutated(ctx, events.ProductDeleted, id)
	return nil
}

// CreateCategory validates in and stores a new category.
func (s *Service) CreateCategory(ctx context.Context, in product.CreateCategoryInput) (_ *product.Category, rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateCategory")
	defer func() { endSpan(span, rerr) }()

	if err := product.Validate(in); err != nil {
		return nil, err
	}

	c := &product.Category{Name: in.Name, Description: in.Description}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create category")
	}

	s.mutated(ctx, events.CategoryCreated, strconv.FormatInt(c.ID, 10))
	return c, nil
}

// DeleteCategory removes the category id. Products in it keep their
// category id and show up as uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, id int64) (rerr error) {
	ctx, span := s.tracer.Start(ctx, "catalog.DeleteCategory",
		trace.WithAttributes(attribute.Int64("category.id", id)),
	)
	defer func() { endSpan(span, rerr) }()

	if err := s.categories.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete category")
	}

	s.mutated(ctx, events.CategoryDeleted, strconv.FormatInt(id, 10))
	return nil
}

// joined loads products and categories concurrently and joins them.
func (s *Service) joined(ctx context.Context) ([]product.Product, error) {
	var (
		products   []product.Product
		categories []product.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx)
		if err != nil {
			return errors.Wrap(err, "list products")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(gctx)
		if err != nil {
			return errors.Wrap(err, "list categories")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	product.JoinCategories(products, categories)
	return products, nil
}

func (s *Service) joinOne(ctx context.Context, p *product.Product) error {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list categories")
	}
	one := []product.Product{*p}
	product.JoinCategories(one, categories)
	p.CategoryName = one[0].CategoryName
	return nil
}

// mutated counts a successful mutation and publishes its event. Publish
// failures are logged; the mutation itself already succeeded.
func (s *Service) mutated(ctx context.Context, eventType, id string) {
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("event", eventType)))

	e := events.Event{Type: eventType, ID: id, At: s.now().UTC()}
	if err := s.events.Publish(ctx, e); err != nil {
		zctx.From(ctx).Warn("Failed to publish catalog event",
			zap.String("event", eventType),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
