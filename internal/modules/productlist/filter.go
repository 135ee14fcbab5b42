package productlist

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"lafelle.com/app/internal/catalogapi"
)

// PriceRange is a preset sidebar bucket. Bounds are inclusive; Max nil
// means unbounded.
type PriceRange struct {
	Key   string
	Label string
	Min   decimal.Decimal
	Max   *decimal.Decimal
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var PresetRanges = []PriceRange{
	{Key: "0-10", Label: "0 - 10", Min: decimal.Zero, Max: bound(10)},
	{Key: "10-100", Label: "10 - 100", Min: decimal.NewFromInt(10), Max: bound(100)},
	{Key: "100-500", Label: "100 - 500", Min: decimal.NewFromInt(100), Max: bound(500)},
	{Key: "500-1000", Label: "500 - 1000", Min: decimal.NewFromInt(500), Max: bound(1000)},
	{Key: "1000+", Label: "1000+", Min: decimal.NewFromInt(1000)},
}

func (r PriceRange) contains(p decimal.Decimal) bool {
	if p.LessThan(r.Min) {
		return false
	}
	return r.Max == nil || !p.GreaterThan(*r.Max)
}

func rangeByKey(key string) (PriceRange, bool) {
	for _, r := range PresetRanges {
		if r.Key == key {
			return r, true
		}
	}
	return PriceRange{}, false
}

// Filter holds the list criteria as typed by the admin.
type Filter struct {
	Categories []string // selected category ids; empty = all
	MinPrice   string   // empty or unparsable = 0
	MaxPrice   string   // empty or unparsable = unbounded
	Ranges     []string // PresetRanges keys, any-of
	Search     string   // case-insensitive substring of the name
}

// Match reports whether p passes every criterion.
func (f Filter) Match(p catalogapi.Product) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category.ID) {
		return false
	}

	min := decimal.Zero
	if d, err := decimal.NewFromString(strings.TrimSpace(f.MinPrice)); err == nil {
		min = d
	}
	if p.Price.LessThan(min) {
		return false
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(f.MaxPrice)); err == nil && p.Price.GreaterThan(d) {
		return false
	}

	if len(f.Ranges) > 0 {
		hit := false
		for _, k := range f.Ranges {
			if r, ok := rangeByKey(k); ok && r.contains(p.Price) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// Apply returns the products matching f, keeping their order.
func (f Filter) Apply(products []catalogapi.Product) []catalogapi.Product {
	out := make([]catalogapi.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// PriceBounds returns the lowest and highest price in products.
func PriceBounds(products []catalogapi.Product) (lo, hi decimal.Decimal, ok bool) {
	if len(products) == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	lo, hi = products[0].Price, products[0].Price
	for _, p := range products[1:] {
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
	}
	return lo, hi, true
}
