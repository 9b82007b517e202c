// Package catalogclient talks to the catalog HTTP API.
package catalogclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/storefront/internal/api"
	"github.com/xenking/storefront/internal/domain/product"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	return fmt.Sprintf("catalog api: %d %s", e.Status, msg)
}

// Is makes 404 responses match product.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == product.ErrNotFound && e.Status == http.StatusNotFound
}

// Unauthorized reports whether the admin key was rejected.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAdminKey sets the key sent on admin requests.
func WithAdminKey(key string) Option {
	return func(c *Client) { c.adminKey = key }
}

// Client is a catalog API client. It is safe for concurrent use.
type Client struct {
	base     *url.URL
	http     *http.Client
	adminKey string
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// WithAdminKey returns a copy of c that authenticates admin requests with
// key.
func (c *Client) WithAdminKey(key string) *Client {
	cp := *c
	cp.adminKey = key
	return &cp
}

type request struct {
	method string
	path   string
	query  url.Values
	body   api.Encoder
	admin  bool
}

// do sends req and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out api.Decoder) error {
	u := c.base.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(api.Marshal(req.body))
	}
	hreq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	hreq.Header.Set("Accept", "application/json")
	if req.body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if req.admin {
		hreq.Header.Set(api.AdminKeyHeader, c.adminKey)
	}

	resp, err := c.http.Do(hreq)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.method, req.path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg api.Message
		if err := api.Unmarshal(data, &msg); err == nil {
			apiErr.Message = msg.Message
			apiErr.Errors = msg.Errors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := api.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", req.method, req.path)
	}
	return nil
}

func productPath(id string) string {
	return "/api/products/" + url.PathEscape(id)
}

func adminProductPath(id string) string {
	return "/api/admin/products/" + url.PathEscape(id)
}

func adminCategoryPath(id int64) string {
	return "/api/admin/categories/" + strconv.FormatInt(id, 10)
}
