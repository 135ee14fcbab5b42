// Package productlist is the view-state behind the admin product table and
// the shop grid: loaded products, filter criteria and the filtered result.
package productlist

import (
	"slices"

	"lafelle.com/app/internal/catalogapi"
)

// List owns one screen's copy of the catalog.
type List struct {
	Products   []catalogapi.Product
	Categories []catalogapi.Category
	Filter     Filter
	Filtered   []catalogapi.Product

	minDefault string
	maxDefault string
}

// New loads products and categories and presets the price filter to the
// price range of the loaded products.
func New(products []catalogapi.Product, categories []catalogapi.Category) *List {
	l := &List{Products: products, Categories: categories}
	if lo, hi, ok := PriceBounds(products); ok {
		l.minDefault, l.maxDefault = lo.String(), hi.String()
	}
	l.Filter.MinPrice, l.Filter.MaxPrice = l.minDefault, l.maxDefault
	l.Apply()
	return l
}

// Apply recomputes Filtered from Products and Filter.
func (l *List) Apply() {
	l.Filtered = l.Filter.Apply(l.Products)
}

// SetFilter replaces the criteria and reapplies them.
func (l *List) SetFilter(f Filter) {
	l.Filter = f
	l.Apply()
}

func (l *List) ToggleCategory(id string) {
	if i := slices.Index(l.Filter.Categories, id); i >= 0 {
		l.Filter.Categories = slices.Delete(l.Filter.Categories, i, i+1)
	} else {
		l.Filter.Categories = append(l.Filter.Categories, id)
	}
	l.Apply()
}

// SelectAll selects every category, or clears the selection when all are
// already selected.
func (l *List) SelectAll() {
	if len(l.Filter.Categories) == len(l.Categories) {
		l.Filter.Categories = nil
	} else {
		ids := make([]string, 0, len(l.Categories))
		for _, c := range l.Categories {
			ids = append(ids, c.ID)
		}
		l.Filter.Categories = ids
	}
	l.Apply()
}

func (l *List) SetPrice(min, max string) {
	l.Filter.MinPrice, l.Filter.MaxPrice = min, max
	l.Apply()
}

// ClearFilters resets categories, ranges and search, and puts the price
// filter back to the loaded price range.
func (l *List) ClearFilters() {
	l.Filter = Filter{MinPrice: l.minDefault, MaxPrice: l.maxDefault}
	l.Apply()
}

// Remove drops exactly the product with id from both lists. Call it only
// after the remote delete succeeded.
func (l *List) Remove(id string) bool {
	n := len(l.Products)
	l.Products = slices.DeleteFunc(l.Products, func(p catalogapi.Product) bool { return p.ID == id })
	l.Filtered = slices.DeleteFunc(l.Filtered, func(p catalogapi.Product) bool { return p.ID == id })
	return len(l.Products) != n
}

// CategoryName resolves a product's category for display.
func (l *List) CategoryName(ref catalogapi.CategoryRef) string {
	return CategoryName(ref, l.Categories)
}

// CategoryName uses the populated name, then a lookup by id, then
// "Uncategorized".
func CategoryName(ref catalogapi.CategoryRef, categories []catalogapi.Category) string {
	if ref.Name != "" {
		return ref.Name
	}
	for _, c := range categories {
		if c.ID == ref.ID {
			return c.Name
		}
	}
	return "Uncategorized"
}

// UniqueCategories lists the distinct category ids used by products, in
// first-seen order.
func UniqueCategories(products []catalogapi.Product) []catalogapi.CategoryRef {
	seen := map[string]bool{}
	var out []catalogapi.CategoryRef
	for _, p := range products {
		if p.Category.ID == "" || seen[p.Category.ID] {
			continue
		}
		seen[p.Category.ID] = true
		out = append(out, p.Category)
	}
	return out
}
