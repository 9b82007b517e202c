package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/notify"
)

// Notifier receives the status message produced by each cart operation.
type Notifier interface {
	Set(text string, kind notify.Kind)
}

// Store owns the cart's line items. Construct it with NewStore, call
// Initialize once, then drive it through its operations. Every change is
// mirrored to the Persistence and reported to the Notifier. Persistence
// failures are logged and never undo the in-memory change.
type Store struct {
	persistence Persistence
	notifier    Notifier
	lg          *zap.Logger

	mu    sync.Mutex
	items []LineItem
}

// NewStore creates an empty Store. A nil logger disables diagnostics.
func NewStore(persistence Persistence, notifier Notifier, lg *zap.Logger) *Store {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Store{
		persistence: persistence,
		notifier:    notifier,
		lg:          lg,
		items:       []LineItem{},
	}
}

// Initialize replaces the current items with the persisted ones. Load
// failures and malformed payloads leave the cart empty.
func (s *Store) Initialize(ctx context.Context) {
	loaded, err := s.persistence.Load(ctx)
	if err != nil {
		var malformed *MalformedError
		if errors.As(err, &malformed) {
			s.lg.Warn("Discarding malformed persisted cart", zap.Error(err))
		} else {
			s.lg.Warn("Failed to load persisted cart", zap.Error(err))
		}
		loaded = nil
	}

	items, reasons := sanitize(loaded)
	for _, reason := range reasons {
		s.lg.Warn("Repaired persisted cart", zap.String("reason", reason))
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// AddItem adds delta units of p. It reports whether the line item can still
// grow afterwards; rejected adds report false.
func (s *Store) AddItem(ctx context.Context, p product.Product, delta int) bool {
	return s.dispatch(ctx, addAction{product: p, delta: delta}).room
}

// RemoveItem deletes the line item for productID. Absent ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.dispatch(ctx, removeAction{productID: productID})
}

// SetQuantity sets the quantity of an existing line item. A quantity of zero
// or less removes it; a quantity above its stock limit is rejected.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) {
	s.dispatch(ctx, setQuantityAction{productID: productID, quantity: quantity})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.dispatch(ctx, clearAction{})
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the line item for productID.
func (s *Store) Item(productID string) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.items, productID); i >= 0 {
		return s.items[i], true
	}
	return LineItem{}, false
}

// Count returns the number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Count(s.items)
}

// Total returns the cart value.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Total(s.items)
}

// Close releases the notifier's pending timer, if it has one.
func (s *Store) Close() {
	if c, ok := s.notifier.(interface{ Close() }); ok {
		c.Close()
	}
}

func (s *Store) dispatch(ctx context.Context, a action) transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := a.apply(s.items)
	if t.changed {
		s.items = t.items
		if err := s.persistence.Save(ctx, s.items); err != nil {
			s.lg.Warn("Failed to persist cart",
				zap.Error(err),
				zap.Int("items", len(s.items)),
			)
		}
	}
	if t.note != nil && s.notifier != nil {
		s.notifier.Set(t.note.text, t.note.kind)
	}
	return t
}
