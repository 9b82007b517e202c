package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client token bucket limiter.
type RateLimitConfig struct {
	// Max is the number of requests a client may burst, refilled evenly
	// over Window.
	Max int
	// Window is the time needed to refill Max tokens.
	Window time.Duration
	// KeyFunc extracts the client key. Defaults to the client IP.
	KeyFunc func(*http.Request) string
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	cfg   RateLimitConfig
	limit rate.Limit

	mu      sync.Mutex
	clients map[string]*client
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = defaultKeyFunc
	}
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &rateLimiter{
		cfg:     cfg,
		limit:   rate.Every(cfg.Window / time.Duration(cfg.Max)),
		clients: make(map[string]*client),
	}
}

// allow takes a token for key. When none is left it reports how long the
// client has to wait for the next one.
func (rl *rateLimiter) allow(key string, now time.Time) (remaining int, retryAfter time.Duration, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, found := rl.clients[key]
	if !found {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.cfg.Max)}
		rl.clients[key] = c
	}
	c.lastSeen = now

	if c.limiter.AllowN(now, 1) {
		return max(int(c.limiter.TokensAt(now)), 0), 0, true
	}
	r := c.limiter.ReserveN(now, 1)
	retryAfter = r.DelayFrom(now)
	r.CancelAt(now)
	return 0, retryAfter, false
}

// cleanup forgets clients idle for longer than a full refill.
func (rl *rateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) >= rl.cfg.Window {
			delete(rl.clients, key)
		}
	}
}

func (rl *rateLimiter) startCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(2 * rl.cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.cleanup(now)
			}
		}
	}()
}

// RateLimit returns a middleware enforcing a per-client token bucket. Over
// the limit it answers 429 with a JSON body and Retry-After. Every response
// carries X-RateLimit-Limit and X-RateLimit-Remaining.
//
// Idle clients are never evicted; use RateLimitWithCleanup for long-running
// servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	return rateLimitMiddleware(newRateLimiter(cfg))
}

// RateLimitWithCleanup is like RateLimit but evicts idle clients in the
// background until ctx is cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	rl := newRateLimiter(cfg)
	rl.startCleanup(ctx)
	return rateLimitMiddleware(rl)
}

func rateLimitMiddleware(rl *rateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, retryAfter, ok := rl.allow(rl.cfg.KeyFunc(r), time.Now())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				writeMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// defaultKeyFunc extracts the client IP, preferring X-Forwarded-For, then
// X-Real-IP, then RemoteAddr.
func defaultKeyFunc(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
