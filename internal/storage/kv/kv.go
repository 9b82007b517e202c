// Package kv provides durable single-value slots addressed by key.
//
// It backs client-side state such as the cart and the stored admin key.
// Three backends are available: a directory of files (FileStore), an
// embedded BadgerDB (BadgerStore) and Redis (RedisStore).
package kv

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key/value slot store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
