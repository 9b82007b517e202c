package product

import "strings"

// Filter narrows a product listing. The zero value matches everything.
type Filter struct {
	// CategoryID restricts results to one category when non-zero.
	CategoryID int64
	// Search is matched case-insensitively against name, description and
	// category name.
	Search string
}

// Match reports whether p satisfies the filter. CategoryName must already be
// joined for search to consider it.
func (f Filter) Match(p Product) bool {
	if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	for _, hay := range []string{p.Name, p.Description, p.CategoryName} {
		if hay != "" && strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// Apply returns the products matching the filter, preserving order.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
