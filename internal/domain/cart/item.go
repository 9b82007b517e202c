// Package cart implements the stock-aware shopping cart.
//
// The cart is an ordered list of line items, one per product. Every line item
// satisfies 1 <= Quantity <= StockLimit; operations that would break that are
// rejected and reported through a Notifier instead of an error. Name, price,
// image and stock limit are snapshots taken when the product was last added
// and are never re-synced with the catalog behind the cart's back.
package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem is one product entry in the cart.
type LineItem struct {
	ProductID  string
	Name       string
	Price      decimal.Decimal
	ImageURL   string
	Quantity   int
	StockLimit int
}

// Subtotal returns Price x Quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Count returns the sum of quantities.
func Count(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Total returns the sum of price x quantity.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func indexOf(items []LineItem, productID string) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// sanitize drops rows that can never be valid line items and clamps
// quantities to their stock limit. It returns the cleaned list and a
// description of every dropped or changed row.
func sanitize(items []LineItem) ([]LineItem, []string) {
	var (
		out     = make([]LineItem, 0, len(items))
		seen    = make(map[string]struct{}, len(items))
		reasons []string
	)
	for _, it := range items {
		switch {
		case it.ProductID == "":
			reasons = append(reasons, "line item without product id")
			continue
		case it.Quantity < 1:
			reasons = append(reasons, "non-positive quantity for "+it.ProductID)
			continue
		case it.Price.IsNegative():
			reasons = append(reasons, "negative price for "+it.ProductID)
			continue
		}
		if _, dup := seen[it.ProductID]; dup {
			reasons = append(reasons, "duplicate line item for "+it.ProductID)
			continue
		}
		if it.StockLimit < 1 {
			reasons = append(reasons, "no stock left for "+it.ProductID)
			continue
		}
		if it.Quantity > it.StockLimit {
			reasons = append(reasons, "quantity clamped to stock limit for "+it.ProductID)
			it.Quantity = it.StockLimit
		}
		seen[it.ProductID] = struct{}{}
		out = append(out, it)
	}
	return out, reasons
}
