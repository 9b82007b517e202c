package httpmiddleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins lists allowed origins. Empty or "*" allows any origin.
	AllowOrigins []string
	// AllowMethods defaults to GET, POST, PUT, DELETE, OPTIONS.
	AllowMethods []string
	// AllowHeaders lists accepted request headers. When empty the headers
	// requested by the preflight are echoed back.
	AllowHeaders []string
	// ExposeHeaders lists response headers readable by the browser.
	ExposeHeaders []string
	// AllowCredentials permits cookies and auth headers. A wildcard origin is
	// then answered with the concrete request origin.
	AllowCredentials bool
	// MaxAge is the preflight cache lifetime in seconds; zero omits it.
	MaxAge int
}

// CORS returns a middleware that answers preflight requests and decorates
// cross-origin responses.
func CORS(cfg CORSConfig) Middleware {
	p := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			if !p.wildcard() {
				h.Add("Vary", "Origin")
			}
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := p.match(origin)
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				if allowOrigin != "" {
					p.preflight(h, allowOrigin, r.Header.Get("Access-Control-Request-Headers"))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if allowOrigin != "" {
				h.Set("Access-Control-Allow-Origin", allowOrigin)
				if p.credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if p.expose != "" {
					h.Set("Access-Control-Expose-Headers", p.expose)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type corsPolicy struct {
	any         bool
	origins     map[string]string // lowercase -> configured form
	methods     string
	headers     string
	expose      string
	credentials bool
	maxAge      string
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	p := corsPolicy{
		any:         len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*"),
		origins:     make(map[string]string, len(cfg.AllowOrigins)),
		methods:     strings.Join(cfg.AllowMethods, ", "),
		headers:     strings.Join(cfg.AllowHeaders, ", "),
		expose:      strings.Join(cfg.ExposeHeaders, ", "),
		credentials: cfg.AllowCredentials,
	}
	for _, o := range cfg.AllowOrigins {
		p.origins[strings.ToLower(o)] = o
	}
	if p.methods == "" {
		p.methods = "GET, POST, PUT, DELETE, OPTIONS"
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return p
}

// wildcard reports whether responses carry a literal "*" origin.
func (p corsPolicy) wildcard() bool {
	return p.any && !p.credentials
}

func (p corsPolicy) match(origin string) string {
	switch {
	case p.wildcard():
		return "*"
	case p.any:
		return origin
	default:
		return p.origins[strings.ToLower(origin)]
	}
}

func (p corsPolicy) preflight(h http.Header, origin, requested string) {
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Methods", p.methods)
	switch {
	case p.headers != "":
		h.Set("Access-Control-Allow-Headers", p.headers)
	case requested != "":
		h.Set("Access-Control-Allow-Headers", requested)
	}
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if p.maxAge != "" {
		h.Set("Access-Control-Max-Age", p.maxAge)
	}
}
