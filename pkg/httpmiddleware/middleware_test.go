package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/sdk/zctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrap_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Wrap(okHandler(), mark("outer"), mark("middle"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "middle", "inner"}, order)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		cfg        CORSConfig
		method     string
		headers    map[string]string
		wantStatus int
		wantHeader map[string]string
	}{
		{
			name:       "wildcard simple request",
			cfg:        CORSConfig{},
			method:     http.MethodGet,
			headers:    map[string]string{"Origin": "https://shop.example"},
			wantStatus: http.StatusOK,
			wantHeader: map[string]string{"Access-Control-Allow-Origin": "*"},
		},
		{
			name:   "preflight allows admin key header",
			cfg:    CORSConfig{AllowHeaders: []string{"Content-Type", "X-Admin-Key"}, MaxAge: 600},
			method: http.MethodOptions,
			headers: map[string]string{
				"Origin":                         "https://admin.example",
				"Access-Control-Request-Method":  "DELETE",
				"Access-Control-Request-Headers": "x-admin-key",
			},
			wantStatus: http.StatusNoContent,
			wantHeader: map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Headers": "Content-Type, X-Admin-Key",
				"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
				"Access-Control-Max-Age":       "600",
			},
		},
		{
			name:   "preflight echoes requested headers",
			cfg:    CORSConfig{},
			method: http.MethodOptions,
			headers: map[string]string{
				"Origin":                         "https://admin.example",
				"Access-Control-Request-Method":  "PUT",
				"Access-Control-Request-Headers": "content-type",
			},
			wantStatus: http.StatusNoContent,
			wantHeader: map[string]string{"Access-Control-Allow-Headers": "content-type"},
		},
		{
			name:       "credentials echo origin",
			cfg:        CORSConfig{AllowCredentials: true},
			method:     http.MethodGet,
			headers:    map[string]string{"Origin": "https://shop.example"},
			wantStatus: http.StatusOK,
			wantHeader: map[string]string{
				"Access-Control-Allow-Origin":      "https://shop.example",
				"Access-Control-Allow-Credentials": "true",
				"Vary":                             "Origin",
			},
		},
		{
			name:       "allowlist is case insensitive",
			cfg:        CORSConfig{AllowOrigins: []string{"https://Shop.example"}},
			method:     http.MethodGet,
			headers:    map[string]string{"Origin": "https://shop.EXAMPLE"},
			wantStatus: http.StatusOK,
			wantHeader: map[string]string{"Access-Control-Allow-Origin": "https://Shop.example"},
		},
		{
			name:       "origin not allowed",
			cfg:        CORSConfig{AllowOrigins: []string{"https://shop.example"}},
			method:     http.MethodGet,
			headers:    map[string]string{"Origin": "https://evil.example"},
			wantStatus: http.StatusOK,
			wantHeader: map[string]string{"Access-Control-Allow-Origin": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORS(tt.cfg)(okHandler())
			req := httptest.NewRequest(tt.method, "/api/products", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			for k, v := range tt.wantHeader {
				assert.Equal(t, v, w.Header().Get(k), k)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "trace-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "trace-123", seen)
		assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("invalid replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "bad\x01id")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, "bad\x01id", seen)
		assert.Len(t, seen, 36)
	})
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Wrap(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
		InjectLogger(zap.New(core)),
		Recovery(),
	)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500,"message":"internal error"}`, w.Body.String())
	require.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["panic"])
}

func TestLogRequests(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		zctx.From(r.Context()).Info("Handling")
		w.WriteHeader(http.StatusNotFound)
	})
	find := MakeRouteFinder(mux)
	h := Wrap(mux, InjectLogger(zap.New(core)), RequestID(), LogRequests(find))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/42", nil))

	require.Equal(t, 1, logs.FilterMessage("Handling").Len())
	assert.Contains(t, logs.FilterMessage("Handling").All()[0].ContextMap(), "request_id")

	entries := logs.FilterMessage("Request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET /api/products/{id}", fields["route"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
}

func TestMakeRouteFinder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/categories", func(http.ResponseWriter, *http.Request) {})
	find := MakeRouteFinder(mux)

	assert.Equal(t, "GET /api/categories", find(httptest.NewRequest(http.MethodGet, "/api/categories", nil)))
	assert.Equal(t, "", find(httptest.NewRequest(http.MethodGet, "/nope", nil)))
}
