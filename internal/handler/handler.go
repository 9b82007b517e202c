// Package handler serves the catalog HTTP API.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// Catalog is the set of catalog operations served over HTTP.
type Catalog interface {
	ListAvailable(ctx context.Context, f product.Filter) ([]product.Product, error)
	GetAvailable(ctx context.Context, id string) (*product.Product, error)
	ListCategories(ctx context.Context) ([]product.Category, error)

	ListAll(ctx context.Context) ([]product.Product, error)
	CreateProduct(ctx context.Context, in product.CreateInput) (*product.Product, error)
	UpdateProduct(ctx context.Context, id string, in product.UpdateInput) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, in product.CreateCategoryInput) (*product.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// MaxBodyBytes caps admin request bodies. Zero means 1 MiB.
	MaxBodyBytes int64
}

// Handler maps HTTP requests onto the catalog.
type Handler struct {
	catalog      Catalog
	maxBodyBytes int64
}

// NewHandler constructs a Handler over catalog.
func NewHandler(cfg HandlerConfig, catalog Catalog) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return &Handler{
		catalog:      catalog,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Register mounts the public routes and, behind admin, the admin routes.
func (h *Handler) Register(mux *http.ServeMux, admin httpmiddleware.Middleware) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/categories", h.ListCategories)

	mux.Handle("GET /api/admin/products", admin(http.HandlerFunc(h.AdminListProducts)))
	mux.Handle("POST /api/admin/products", admin(http.HandlerFunc(h.AdminCreateProduct)))
	mux.Handle("PUT /api/admin/products/{id}", admin(http.HandlerFunc(h.AdminUpdateProduct)))
	mux.Handle("DELETE /api/admin/products/{id}", admin(http.HandlerFunc(h.AdminDeleteProduct)))
	mux.Handle("POST /api/admin/categories", admin(http.HandlerFunc(h.AdminCreateCategory)))
	mux.Handle("DELETE /api/admin/categories/{id}", admin(http.HandlerFunc(h.AdminDeleteCategory)))
}

func writeJSON(w http.ResponseWriter, status int, v api.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(api.Marshal(v))
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &api.Message{Message: message})
}

// readBody decodes the request body into v.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request, v api.Decoder) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	return api.Unmarshal(data, v)
}
