package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type limitedRequest struct {
	remoteAddr string
	header     map[string]string
	wantStatus int
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RateLimitConfig
		requests []limitedRequest
	}{
		{
			name: "under limit",
			cfg:  RateLimitConfig{Max: 3, Window: time.Minute},
			requests: []limitedRequest{
				{remoteAddr: "192.168.1.1:1", wantStatus: http.StatusOK},
				{remoteAddr: "192.168.1.1:2", wantStatus: http.StatusOK},
				{remoteAddr: "192.168.1.1:3", wantStatus: http.StatusOK},
			},
		},
		{
			name: "clients are independent",
			cfg:  RateLimitConfig{Max: 1, Window: time.Minute},
			requests: []limitedRequest{
				{remoteAddr: "10.0.0.1:1234", wantStatus: http.StatusOK},
				{remoteAddr: "10.0.0.2:1234", wantStatus: http.StatusOK},
				{remoteAddr: "10.0.0.1:5678", wantStatus: http.StatusTooManyRequests},
			},
		},
		{
			name: "forwarded client wins over remote addr",
			cfg:  RateLimitConfig{Max: 1, Window: time.Minute},
			requests: []limitedRequest{
				{
					remoteAddr: "192.168.1.1:4444",
					header:     map[string]string{"X-Forwarded-For": "203.0.113.50, 70.41.3.18"},
					wantStatus: http.StatusOK,
				},
				{
					remoteAddr: "192.168.1.2:5555",
					header:     map[string]string{"X-Forwarded-For": "203.0.113.50"},
					wantStatus: http.StatusTooManyRequests,
				},
			},
		},
		{
			name: "real ip header",
			cfg:  RateLimitConfig{Max: 1, Window: time.Minute},
			requests: []limitedRequest{
				{remoteAddr: "192.168.1.1:1", header: map[string]string{"X-Real-IP": "198.51.100.4"}, wantStatus: http.StatusOK},
				{remoteAddr: "192.168.1.1:1", wantStatus: http.StatusOK},
				{remoteAddr: "192.168.1.9:1", header: map[string]string{"X-Real-IP": "198.51.100.4"}, wantStatus: http.StatusTooManyRequests},
			},
		},
		{
			name: "custom key func",
			cfg: RateLimitConfig{
				Max:     1,
				Window:  time.Minute,
				KeyFunc: func(r *http.Request) string { return r.Header.Get("X-Admin-Key") },
			},
			requests: []limitedRequest{
				{header: map[string]string{"X-Admin-Key": "a"}, wantStatus: http.StatusOK},
				{header: map[string]string{"X-Admin-Key": "a"}, wantStatus: http.StatusTooManyRequests},
				{header: map[string]string{"X-Admin-Key": "b"}, wantStatus: http.StatusOK},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RateLimit(tt.cfg)(okHandler())
			for i, lr := range tt.requests {
				req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
				if lr.remoteAddr != "" {
					req.RemoteAddr = lr.remoteAddr
				}
				for k, v := range lr.header {
					req.Header.Set(k, v)
				}
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)
				assert.Equal(t, lr.wantStatus, w.Code, "request %d", i+1)
			}
		})
	}
}

func TestRateLimit_Headers(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())
	serve := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		req.RemoteAddr = "10.1.1.1:9999"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	w := serve()
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	serve()
	w = serve()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":429,"message":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimit_Refill(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 2, Window: time.Second})
	start := time.Unix(1_700_000_000, 0)

	_, _, ok := rl.allow("c", start)
	require.True(t, ok)
	remaining, _, ok := rl.allow("c", start)
	require.True(t, ok)
	assert.Equal(t, 0, remaining)

	_, retry, ok := rl.allow("c", start)
	require.False(t, ok)
	assert.Equal(t, 500*time.Millisecond, retry)

	// Half a window refills one token.
	_, _, ok = rl.allow("c", start.Add(500*time.Millisecond))
	assert.True(t, ok)
}

func TestRateLimit_Cleanup(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Unix(1_700_000_000, 0)

	rl.allow("idle", now)
	rl.allow("busy", now.Add(50*time.Second))
	rl.cleanup(now.Add(70 * time.Second))

	assert.NotContains(t, rl.clients, "idle")
	assert.Contains(t, rl.clients, "busy")
}
