package cart

import (
	"bytes"
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/storage/kv"
)

// DefaultKey is the slot key the cart is stored under.
const DefaultKey = "cart"

// MalformedError reports a persisted cart payload that could not be decoded.
type MalformedError struct {
	Err error
}

func (e *MalformedError) Error() string {
	return "malformed cart payload: " + e.Err.Error()
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Persistence loads and saves the full line item list.
type Persistence interface {
	Load(ctx context.Context) ([]LineItem, error)
	Save(ctx context.Context, items []LineItem) error
}

var _ Persistence = (*KVBridge)(nil)

// KVBridge stores the cart as a JSON array under a single key of a kv.Store.
type KVBridge struct {
	store kv.Store
	key   string
}

// NewKVBridge returns a KVBridge writing to key. An empty key selects
// DefaultKey.
func NewKVBridge(store kv.Store, key string) *KVBridge {
	if key == "" {
		key = DefaultKey
	}
	return &KVBridge{store: store, key: key}
}

// Load returns the persisted items. A missing or empty slot yields an empty
// list; an undecodable payload yields a *MalformedError.
func (b *KVBridge) Load(ctx context.Context) ([]LineItem, error) {
	data, err := b.store.Get(ctx, b.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get %q", b.key)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	items, err := decodeItems(data)
	if err != nil {
		return nil, &MalformedError{Err: err}
	}
	return items, nil
}

// Save overwrites the slot with items.
func (b *KVBridge) Save(ctx context.Context, items []LineItem) error {
	if err := b.store.Set(ctx, b.key, encodeItems(items)); err != nil {
		return errors.Wrapf(err, "set %q", b.key)
	}
	return nil
}
