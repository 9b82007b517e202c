package health

import (
	"context"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when more than threshold goroutines are running.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// GCMaxPauseCheck fails when any recent stop-the-world pause exceeded
// threshold.
func GCMaxPauseCheck(threshold time.Duration) CheckFunc {
	return func(context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)
		for _, pause := range stats.Pause {
			if pause > threshold {
				return errors.Errorf("GC pause %s exceeds threshold %s", pause, threshold)
			}
		}
		return nil
	}
}

// Pinger is implemented by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck fails when p cannot be reached.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Wrap(err, "ping")
		}
		return nil
	}
}

// DirWritableCheck fails when a file cannot be created in dir.
func DirWritableCheck(dir string) CheckFunc {
	return func(context.Context) error {
		f, err := os.CreateTemp(dir, ".healthz-*")
		if err != nil {
			return errors.Wrap(err, "create probe file")
		}
		name := f.Name()
		if err := f.Close(); err != nil {
			return errors.Wrap(err, "close probe file")
		}
		if err := os.Remove(name); err != nil {
			return errors.Wrap(err, "remove probe file")
		}
		return nil
	}
}

// ConnectedCheck fails while connected reports false. Used for clients that
// reconnect on their own, such as NATS.
func ConnectedCheck(what string, connected func() bool) CheckFunc {
	return func(context.Context) error {
		if !connected() {
			return errors.Errorf("%s disconnected", what)
		}
		return nil
	}
}
