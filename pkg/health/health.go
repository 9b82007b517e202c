// Package health serves liveness and readiness probes.
//
// Every check runs in its own goroutine. A check flips to unhealthy only after
// failureThreshold consecutive failures and back after successThreshold
// consecutive passes, so a single slow ping does not pull the instance out of
// rotation.
package health

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

const (
	failureThreshold = 3
	successThreshold = 1
)

// CheckFunc returns nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

// Kind tells which probe a check belongs to.
type Kind int

const (
	Liveness Kind = iota
	Readiness
)

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	// Owned by the single goroutine calling run.
	fails  int
	passes int
}

func newCheck(name string, timeout time.Duration, fn CheckFunc) *check {
	c := &check{name: name, timeout: timeout, fn: fn}
	c.healthy.Store(true)
	return c
}

func (c *check) isHealthy() bool {
	return c.healthy.Load()
}

func (c *check) err() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// run executes the check once. Must not be called concurrently.
func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(ctx)
	c.lastErr.Store(&err)

	if err != nil {
		c.passes = 0
		c.fails++
		if c.fails >= failureThreshold {
			c.healthy.Store(false)
		}
		return
	}
	c.fails = 0
	c.passes++
	if c.passes >= successThreshold {
		c.healthy.Store(true)
	}
}

// Health tracks the checks of one service.
type Health struct {
	ready atomic.Bool

	mu     sync.RWMutex
	checks [2][]*check
	cancel context.CancelFunc
}

// New returns a Health that reports not ready until SetReady(true).
func New() *Health {
	return &Health{}
}

// Add registers a check for the given probe.
func (h *Health) Add(kind Kind, name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[kind] = append(h.checks[kind], newCheck(name, timeout, fn))
}

// AddLivenessCheck registers a check that decides whether the process should
// be restarted.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.Add(Liveness, name, timeout, fn)
}

// AddReadinessCheck registers a check that decides whether the instance
// should receive traffic.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.Add(Readiness, name, timeout, fn)
}

func (h *Health) snapshot(kind Kind) []*check {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.checks[kind])
}

// Start runs every registered check at interval until Stop or ctx
// cancellation.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	all := slices.Concat(h.checks[Liveness], h.checks[Readiness])
	h.mu.Unlock()

	for _, c := range all {
		go loop(ctx, c, interval)
	}
}

func loop(ctx context.Context, c *check, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.run(ctx)
		}
	}
}

// Stop cancels the check goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady marks the service ready after startup, or not ready while it
// drains.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check passes.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	for _, c := range h.snapshot(Readiness) {
		if !c.isHealthy() {
			return false
		}
	}
	return true
}

// Register mounts GET /livez and GET /readyz on mux.
func (h *Health) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /livez", h.LiveEndpoint)
	mux.HandleFunc("GET /readyz", h.ReadyEndpoint)
}

// LiveEndpoint answers 200 {"status":"ok"} while all liveness checks pass and
// 503 with the failing checks otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, failures(h.snapshot(Liveness)))
}

// ReadyEndpoint is LiveEndpoint for readiness, also failing while the service
// is not marked ready.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failed := failures(h.snapshot(Readiness))
	if !h.ready.Load() {
		failed["_readiness"] = "service is not ready"
	}
	writeStatus(w, failed)
}

func failures(checks []*check) map[string]string {
	out := make(map[string]string)
	for _, c := range checks {
		if c.isHealthy() {
			continue
		}
		if err := c.err(); err != nil {
			out[c.name] = err.Error()
		} else {
			out[c.name] = "check is unhealthy"
		}
	}
	return out
}

func writeStatus(w http.ResponseWriter, failed map[string]string) {
	status := http.StatusOK
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	if len(failed) == 0 {
		e.Str("ok")
	} else {
		status = http.StatusServiceUnavailable
		e.Str("unhealthy")
		e.FieldStart("checks")
		e.ObjStart()
		names := make([]string, 0, len(failed))
		for name := range failed {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			e.FieldStart(name)
			e.Str(failed[name])
		}
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
