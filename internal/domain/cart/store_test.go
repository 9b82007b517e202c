package cart

import (
	"context"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/notify"
)

// --- Mock implementations ---

type memPersistence struct {
	items   []LineItem
	loadErr error
	saveErr error
	saves   int
}

func (m *memPersistence) Load(_ context.Context) ([]LineItem, error) {
	return m.items, m.loadErr
}

func (m *memPersistence) Save(_ context.Context, items []LineItem) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = append([]LineItem{}, items...)
	return nil
}

type recordingNotifier struct {
	messages []notify.Message
}

func (r *recordingNotifier) Set(text string, kind notify.Kind) {
	r.messages = append(r.messages, notify.Message{Text: text, Kind: kind})
}

func (r *recordingNotifier) last() notify.Message {
	if len(r.messages) == 0 {
		return notify.Message{}
	}
	return r.messages[len(r.messages)-1]
}

// --- Helpers ---

func newTestProduct(id string, price string, stock int) product.Product {
	return product.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		ImageURL: id + ".jpg",
		Stock:    stock,
	}
}

func newTestStore(t *testing.T) (*Store, *memPersistence, *recordingNotifier) {
	t.Helper()
	p := &memPersistence{}
	n := &recordingNotifier{}
	s := NewStore(p, n, nil)
	s.Initialize(context.Background())
	return s, p, n
}

func requireInvariants(t *testing.T, items []LineItem) {
	t.Helper()
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		require.False(t, seen[it.ProductID], "duplicate product %s", it.ProductID)
		seen[it.ProductID] = true
		require.GreaterOrEqual(t, it.Quantity, 1, "quantity of %s", it.ProductID)
		require.LessOrEqual(t, it.Quantity, it.StockLimit, "quantity of %s", it.ProductID)
	}
}

// --- Tests ---

func TestStore_AddItemToEmptyCart(t *testing.T) {
	ctx := context.Background()
	s, p, n := newTestStore(t)

	room := s.AddItem(ctx, newTestProduct("p1", "10", 2), 1)

	assert.True(t, room)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 2, items[0].StockLimit)
	assert.Equal(t, 1, s.Count())
	assert.True(t, decimal.NewFromInt(10).Equal(s.Total()))
	assert.Equal(t, notify.Message{Text: MsgAdded, Kind: notify.Success}, n.last())
	assert.Equal(t, 1, p.saves)
	assert.Equal(t, items, p.items)
}

func TestStore_AddItemAtStockLimit(t *testing.T) {
	ctx := context.Background()
	s, p, n := newTestStore(t)
	p1 := newTestProduct("p1", "10", 2)

	assert.True(t, s.AddItem(ctx, p1, 1))
	assert.False(t, s.AddItem(ctx, p1, 1), "second unit fills the stock")
	saves := p.saves

	room := s.AddItem(ctx, p1, 1)

	assert.False(t, room)
	it, ok := s.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, notify.Message{Text: MsgStockLimit, Kind: notify.Error}, n.last())
	assert.Equal(t, saves, p.saves, "rejected add must not persist")
}

func TestStore_AddItemOutOfStock(t *testing.T) {
	ctx := context.Background()
	s, p, n := newTestStore(t)

	room := s.AddItem(ctx, newTestProduct("p1", "10", 0), 1)

	assert.False(t, room)
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, notify.Message{Text: MsgOutOfStock, Kind: notify.Error}, n.last())
	assert.Zero(t, p.saves)
}

func TestStore_AddItemClampsDelta(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	s.AddItem(ctx, newTestProduct("p1", "3.50", 5), 4)
	room := s.AddItem(ctx, newTestProduct("p1", "3.50", 5), 10)

	assert.False(t, room)
	it, _ := s.Item("p1")
	assert.Equal(t, 5, it.Quantity)

	s.AddItem(ctx, newTestProduct("p2", "1", 3), 7)
	it, _ = s.Item("p2")
	assert.Equal(t, 3, it.Quantity, "new item is clamped to stock")
}

func TestStore_AddItemRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	s.AddItem(ctx, newTestProduct("p1", "10", 2), 1)

	updated := newTestProduct("p1", "12.25", 6)
	updated.Name = "Renamed"
	s.AddItem(ctx, updated, 1)

	it, _ := s.Item("p1")
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, 6, it.StockLimit)
	assert.Equal(t, "Renamed", it.Name)
	assert.True(t, decimal.RequireFromString("12.25").Equal(it.Price))
}

func TestStore_AddItemInvalidInput(t *testing.T) {
	ctx := context.Background()
	s, _, n := newTestStore(t)

	assert.False(t, s.AddItem(ctx, newTestProduct("p1", "10", 5), 0))
	assert.Equal(t, MsgInvalidQuantity, n.last().Text)

	assert.False(t, s.AddItem(ctx, newTestProduct("", "10", 5), 1))
	assert.Equal(t, MsgInvalidProduct, n.last().Text)

	assert.False(t, s.AddItem(ctx, newTestProduct("p2", "10", -3), 1))
	assert.Equal(t, MsgOutOfStock, n.last().Text)

	assert.Empty(t, s.Items())
}

func TestStore_AddItemInvalidDeltaReportsRoom(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		initial  int
		stock    int
		delta    int
		wantRoom bool
	}{
		{name: "room left", initial: 1, stock: 3, delta: 0, wantRoom: true},
		{name: "negative delta with room", initial: 2, stock: 3, delta: -1, wantRoom: true},
		{name: "at limit", initial: 3, stock: 3, delta: 0, wantRoom: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, p, n := newTestStore(t)
			s.AddItem(ctx, newTestProduct("p1", "10", tt.stock), tt.initial)
			saves := p.saves

			room := s.AddItem(ctx, newTestProduct("p1", "10", tt.stock), tt.delta)

			assert.Equal(t, tt.wantRoom, room)
			assert.Equal(t, MsgInvalidQuantity, n.last().Text)
			assert.Equal(t, saves, p.saves)
			it, ok := s.Item("p1")
			require.True(t, ok)
			assert.Equal(t, tt.initial, it.Quantity)
		})
	}
}

func TestStore_SetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("zero removes", func(t *testing.T) {
		s, _, n := newTestStore(t)
		s.AddItem(ctx, newTestProduct("p1", "10", 5), 3)

		s.SetQuantity(ctx, "p1", 0)

		assert.Empty(t, s.Items())
		assert.Equal(t, 0, s.Count())
		assert.Equal(t, MsgRemoved, n.last().Text)
	})

	t.Run("within limit sets exactly", func(t *testing.T) {
		s, _, n := newTestStore(t)
		s.AddItem(ctx, newTestProduct("p1", "10", 5), 1)

		s.SetQuantity(ctx, "p1", 4)

		it, _ := s.Item("p1")
		assert.Equal(t, 4, it.Quantity)
		assert.Equal(t, notify.Message{Text: MsgUpdated, Kind: notify.Success}, n.last())
	})

	t.Run("above limit is rejected", func(t *testing.T) {
		s, p, n := newTestStore(t)
		s.AddItem(ctx, newTestProduct("p1", "10", 5), 2)
		saves := p.saves

		s.SetQuantity(ctx, "p1", 6)

		it, _ := s.Item("p1")
		assert.Equal(t, 2, it.Quantity)
		assert.Equal(t, notify.Message{Text: MsgExceedsStock, Kind: notify.Error}, n.last())
		assert.Equal(t, saves, p.saves)
	})

	t.Run("absent id is a silent no-op", func(t *testing.T) {
		s, p, n := newTestStore(t)

		s.SetQuantity(ctx, "ghost", 2)

		assert.Empty(t, s.Items())
		assert.Empty(t, n.messages)
		assert.Zero(t, p.saves)
	})
}

func TestStore_RemoveItemIdempotent(t *testing.T) {
	ctx := context.Background()
	s, p, n := newTestStore(t)
	s.AddItem(ctx, newTestProduct("p1", "10", 5), 1)
	s.AddItem(ctx, newTestProduct("p2", "20", 5), 1)

	s.RemoveItem(ctx, "p1")
	once := s.Items()
	saves, notes := p.saves, len(n.messages)

	s.RemoveItem(ctx, "p1")

	assert.Equal(t, once, s.Items())
	assert.Equal(t, saves, p.saves, "no save when nothing was removed")
	assert.Len(t, n.messages, notes, "no notification when nothing was removed")
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, p, n := newTestStore(t)
	s.AddItem(ctx, newTestProduct("p1", "10", 5), 2)
	s.AddItem(ctx, newTestProduct("p2", "15", 5), 1)
	require.True(t, decimal.NewFromInt(35).Equal(s.Total()))

	s.Clear(ctx)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.Count())
	assert.True(t, s.Total().IsZero())
	assert.Equal(t, notify.Message{Text: MsgCleared, Kind: notify.Info}, n.last())
	assert.Empty(t, p.items)

	s.Clear(ctx)
	assert.Empty(t, s.Items())
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	for _, id := range []string{"c", "a", "b"} {
		s.AddItem(ctx, newTestProduct(id, "1", 9), 1)
	}
	s.AddItem(ctx, newTestProduct("a", "1", 9), 1)

	var ids []string
	for _, it := range s.Items() {
		ids = append(ids, it.ProductID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestStore_SaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	p := &memPersistence{saveErr: errors.New("disk full")}
	n := &recordingNotifier{}
	s := NewStore(p, n, nil)
	s.Initialize(ctx)

	room := s.AddItem(ctx, newTestProduct("p1", "10", 3), 1)

	assert.True(t, room)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, MsgAdded, n.last().Text)
}

func TestStore_InitializeFailsSoft(t *testing.T) {
	tests := []struct {
		name string
		p    *memPersistence
		want []LineItem
	}{
		{
			name: "load error yields empty cart",
			p:    &memPersistence{loadErr: errors.New("permission denied")},
			want: []LineItem{},
		},
		{
			name: "malformed payload yields empty cart",
			p:    &memPersistence{loadErr: &MalformedError{Err: errors.New("bad json")}},
			want: []LineItem{},
		},
		{
			name: "invalid rows are repaired",
			p: &memPersistence{items: []LineItem{
				{ProductID: "ok", Price: decimal.NewFromInt(1), Quantity: 1, StockLimit: 2},
				{ProductID: "ok", Price: decimal.NewFromInt(1), Quantity: 1, StockLimit: 2},
				{ProductID: "", Quantity: 1, StockLimit: 1},
				{ProductID: "zero", Quantity: 0, StockLimit: 1},
				{ProductID: "over", Price: decimal.NewFromInt(2), Quantity: 9, StockLimit: 4},
			}},
			want: []LineItem{
				{ProductID: "ok", Price: decimal.NewFromInt(1), Quantity: 1, StockLimit: 2},
				{ProductID: "over", Price: decimal.NewFromInt(2), Quantity: 4, StockLimit: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.p, &recordingNotifier{}, nil)
			s.Initialize(context.Background())
			assert.Equal(t, tt.want, s.Items())
		})
	}
}

func TestStore_CloseKeepsMessage(t *testing.T) {
	slot := notify.NewSlot(0)
	s := NewStore(&memPersistence{}, slot, nil)
	s.Initialize(context.Background())

	s.AddItem(context.Background(), newTestProduct("p1", "1", 1), 1)
	s.Close()

	msg, ok := slot.Current()
	require.True(t, ok)
	assert.Equal(t, MsgAdded, msg.Text)
}

func TestStore_RandomOperationsKeepInvariants(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 2))
	s, p, _ := newTestStore(t)

	catalog := make([]product.Product, 6)
	for i := range catalog {
		catalog[i] = newTestProduct("p"+strconv.Itoa(i), strconv.Itoa(i+1)+".25", rng.IntN(4))
	}

	for range 2000 {
		pr := catalog[rng.IntN(len(catalog))]
		switch rng.IntN(6) {
		case 0, 1:
			// Stock drifts between adds.
			pr.Stock = rng.IntN(5)
			s.AddItem(ctx, pr, rng.IntN(4))
		case 2:
			s.RemoveItem(ctx, pr.ID)
		case 3, 4:
			s.SetQuantity(ctx, pr.ID, rng.IntN(7)-1)
		case 5:
			if rng.IntN(20) == 0 {
				s.Clear(ctx)
			}
		}

		items := s.Items()
		requireInvariants(t, items)
		require.Equal(t, Count(items), s.Count())
		require.True(t, Total(items).Equal(s.Total()))
		if p.saves > 0 {
			require.Equal(t, items, p.items, "persisted list mirrors memory")
		}
	}
}
