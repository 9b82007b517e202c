package cart

import (
	"slices"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/notify"
)

// Messages reported for cart operations.
const (
	MsgAdded           = "Added to cart!"
	MsgOutOfStock      = "Cannot add item. Product is out of stock."
	MsgStockLimit      = "Cannot add more items. Stock limit reached."
	MsgInvalidQuantity = "Quantity must be at least 1."
	MsgInvalidProduct  = "Cannot add item. Product is missing an id."
	MsgRemoved         = "Item removed from cart"
	MsgUpdated         = "Quantity updated"
	MsgExceedsStock    = "Cannot update quantity. Not enough stock."
	MsgCleared         = "Cart cleared"
)

type note struct {
	text string
	kind notify.Kind
}

// transition is the outcome of applying an action to a line item list.
// The input list is never modified; items is a fresh slice when changed.
type transition struct {
	items   []LineItem
	changed bool
	note    *note
	// room reports whether the touched item can still grow.
	room bool
}

func reject(items []LineItem, text string) transition {
	return transition{items: items, note: &note{text: text, kind: notify.Error}}
}

type action interface {
	apply(items []LineItem) transition
}

type addAction struct {
	product product.Product
	delta   int
}

func (a addAction) apply(items []LineItem) transition {
	if a.product.ID == "" {
		return reject(items, MsgInvalidProduct)
	}
	if a.delta < 1 {
		t := reject(items, MsgInvalidQuantity)
		if i := indexOf(items, a.product.ID); i >= 0 {
			t.room = items[i].Quantity < items[i].StockLimit
		}
		return t
	}
	stock := max(a.product.Stock, 0)

	i := indexOf(items, a.product.ID)
	if i < 0 {
		if stock == 0 {
			return reject(items, MsgOutOfStock)
		}
		it := LineItem{
			ProductID:  a.product.ID,
			Name:       a.product.Name,
			Price:      a.product.Price,
			ImageURL:   a.product.ImageURL,
			Quantity:   min(a.delta, stock),
			StockLimit: stock,
		}
		return transition{
			items:   append(slices.Clone(items), it),
			changed: true,
			note:    &note{text: MsgAdded, kind: notify.Success},
			room:    it.Quantity < it.StockLimit,
		}
	}

	cur := items[i]
	if cur.Quantity >= stock {
		return reject(items, MsgStockLimit)
	}
	next := slices.Clone(items)
	it := &next[i]
	it.Quantity = cur.Quantity + min(a.delta, stock-cur.Quantity)
	it.StockLimit = stock
	it.Name = a.product.Name
	it.Price = a.product.Price
	it.ImageURL = a.product.ImageURL
	return transition{
		items:   next,
		changed: true,
		note:    &note{text: MsgAdded, kind: notify.Success},
		room:    it.Quantity < it.StockLimit,
	}
}

type removeAction struct {
	productID string
}

func (a removeAction) apply(items []LineItem) transition {
	i := indexOf(items, a.productID)
	if i < 0 {
		return transition{items: items}
	}
	return transition{
		items:   slices.Delete(slices.Clone(items), i, i+1),
		changed: true,
		note:    &note{text: MsgRemoved, kind: notify.Info},
	}
}

type setQuantityAction struct {
	productID string
	quantity  int
}

func (a setQuantityAction) apply(items []LineItem) transition {
	if a.quantity <= 0 {
		return removeAction{productID: a.productID}.apply(items)
	}
	i := indexOf(items, a.productID)
	if i < 0 {
		return transition{items: items}
	}
	if a.quantity > items[i].StockLimit {
		return reject(items, MsgExceedsStock)
	}
	next := slices.Clone(items)
	next[i].Quantity = a.quantity
	return transition{
		items:   next,
		changed: true,
		note:    &note{text: MsgUpdated, kind: notify.Success},
		room:    a.quantity < next[i].StockLimit,
	}
}

type clearAction struct{}

func (clearAction) apply([]LineItem) transition {
	return transition{
		items:   []LineItem{},
		changed: true,
		note:    &note{text: MsgCleared, kind: notify.Info},
	}
}
