package view

import (
	"slices"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/modules/productlist"
	"lafelle.com/app/internal/shared/money"
)

type ProductStats struct {
	Count   int    `json:"count"`
	Total   string `json:"total"`
	Average string `json:"average"`
}

type ProductFilter struct {
	Categories []string           `json:"categories"`
	MinPrice   string             `json:"minPrice"`
	MaxPrice   string             `json:"maxPrice"`
	Ranges     []PriceRangeOption `json:"ranges"`
	Search     string             `json:"search"`
}

// ProductListPage is the filtered product list with its sidebar state.
type ProductListPage struct {
	Items      []ProductCard    `json:"items"`
	Categories []CategoryOption `json:"categories"`
	Filter     ProductFilter    `json:"filter"`
	Stats      ProductStats     `json:"stats"`

	// CategoriesError is set when products loaded but categories did not.
	CategoriesError string `json:"categoriesError,omitempty"`
}

func NewProductListPage(l *productlist.List, opt CardOptions) ProductListPage {
	opt.Categories = l.Categories
	stats := productlist.Summarize(l.Products)

	ranges := make([]PriceRangeOption, 0, len(productlist.PresetRanges))
	for _, r := range productlist.PresetRanges {
		ranges = append(ranges, PriceRangeOption{
			Key:      r.Key,
			Label:    r.Label,
			Selected: slices.Contains(l.Filter.Ranges, r.Key),
		})
	}

	cats := NewCategoryOptions(l.Categories)
	if len(cats) == 0 {
		// categories failed to load; offer the ones products reference
		for _, ref := range productlist.UniqueCategories(l.Products) {
			cats = append(cats, CategoryOption{ID: ref.ID, Name: l.CategoryName(ref)})
		}
	}

	selected := l.Filter.Categories
	if selected == nil {
		selected = []string{}
	}

	return ProductListPage{
		Items:      NewProductCards(l.Filtered, opt),
		Categories: cats,
		Filter: ProductFilter{
			Categories: selected,
			MinPrice:   l.Filter.MinPrice,
			MaxPrice:   l.Filter.MaxPrice,
			Ranges:     ranges,
			Search:     l.Filter.Search,
		},
		Stats: ProductStats{
			Count:   stats.Count,
			Total:   money.FormatPrice(stats.Total, opt.Currency),
			Average: money.FormatPrice(stats.Average, opt.Currency),
		},
	}
}

func NewCategoryOptions(cs []catalogapi.Category) []CategoryOption {
	out := make([]CategoryOption, 0, len(cs))
	for _, c := range cs {
		out = append(out, CategoryOption{ID: c.ID, Name: c.Name})
	}
	return out
}
