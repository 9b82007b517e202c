package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/auth"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

// AdminOnly rejects requests whose X-Admin-Key header does not match key.
func AdminOnly(key *auth.AdminKey) httpmiddleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := key.Check(r.Header.Get(api.AdminKeyHeader)); err != nil {
				zctx.From(r.Context()).Debug("Admin key rejected", zap.String("path", r.URL.Path))
				writeMessage(w, http.StatusUnauthorized, "Unauthorized. Admin key required.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
