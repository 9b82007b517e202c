package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/product"
)

// ListProducts serves GET /api/products. Only products in stock are listed.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := product.Filter{Search: strings.TrimSpace(q.Get("search"))}
	if raw := q.Get("categoryId"); raw != "" && raw != "all" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid categoryId")
			return
		}
		f.CategoryID = id
	}

	products, err := h.catalog.ListAvailable(r.Context(), f)
	if err != nil {
		writeError(w, r, err, msgProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, api.FromProducts(products))
}

// GetProduct serves GET /api/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetAvailable(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, msgProductUnavailable)
		return
	}
	resp := api.FromProduct(*p)
	writeJSON(w, http.StatusOK, &resp)
}

// ListCategories serves GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err, msgCategoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, api.FromCategories(categories))
}
