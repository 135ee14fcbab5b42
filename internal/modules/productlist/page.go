package productlist

// ShopPageSize is the number of products per shop page.
const ShopPageSize = 9

type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Total      int
}

// Paginate slices items into pages of size per, clamping page into
// [1, TotalPages].
func Paginate[T any](items []T, page, per int) Page[T] {
	if per <= 0 {
		per = ShopPageSize
	}
	total := len(items)
	totalPages := (total + per - 1) / per
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * per
	end := min(start+per, total)
	if start > total {
		start = total
	}
	return Page[T]{Items: items[start:end], Page: page, TotalPages: totalPages, Total: total}
}
