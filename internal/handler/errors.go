package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/product"
)

const (
	msgProductUnavailable = "Product not found or out of stock"
	msgProductNotFound    = "Product not found"
	msgCategoryNotFound   = "Category not found"
	msgValidationFailed   = "Validation failed"
	msgInvalidBody        = "Invalid request body"
	msgInternal           = "internal error"
)

// writeError converts domain errors to HTTP responses. notFound is the
// message used when err is product.ErrNotFound.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *product.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, &api.Message{
			Message: msgValidationFailed,
			Errors:  verr.Messages,
		})
		return
	}

	if errors.Is(err, product.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, notFound)
		return
	}

	zctx.From(r.Context()).Error("Request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeMessage(w, http.StatusInternalServerError, msgInternal)
}
