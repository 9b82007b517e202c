package handler

import (
	"net/http"
	"strconv"

	"github.com/xenking/storefront/internal/api"
)

// AdminListProducts serves GET /api/admin/products, including products out
// of stock.
func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err, msgProductNotFound)
		return
	}
	writeJSON(w, http.StatusOK, api.FromProducts(products))
}

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in api.ProductInput
	if err := h.readBody(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), in.CreateInput())
	if err != nil {
		writeError(w, r, err, msgProductNotFound)
		return
	}
	resp := api.FromProduct(*p)
	writeJSON(w, http.StatusCreated, &resp)
}

// AdminUpdateProduct applies the fields present in the body.
func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in api.ProductInput
	if err := h.readBody(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), r.PathValue("id"), in.UpdateInput())
	if err != nil {
		writeError(w, r, err, msgProductNotFound)
		return
	}
	resp := api.FromProduct(*p)
	writeJSON(w, http.StatusOK, &resp)
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err, msgProductNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

func (h *Handler) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in api.CategoryInput
	if err := h.readBody(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	c, err := h.catalog.CreateCategory(r.Context(), in.Domain())
	if err != nil {
		writeError(w, r, err, msgCategoryNotFound)
		return
	}
	resp := api.FromCategory(*c)
	writeJSON(w, http.StatusCreated, &resp)
}

// AdminDeleteCategory removes a category. Its products are kept.
func (h *Handler) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err, msgCategoryNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Category deleted successfully")
}
