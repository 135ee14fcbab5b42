package productlist

import "net/url"

// ApplyQuery applies list criteria from a query string.
//
// Criteria: category and range (both repeatable), q, min and max.
// Actions run after the criteria, in this order: toggle=<id> flips one
// category, all=1 selects every category (or clears them when all are
// already selected). clear=1 resets everything and ignores the rest.
func (l *List) ApplyQuery(q url.Values) {
	if isSet(q, "clear") {
		l.ClearFilters()
		return
	}

	f := l.Filter
	f.Categories = q["category"]
	f.Ranges = q["range"]
	f.Search = q.Get("q")
	l.SetFilter(f)

	lo, hi := l.Filter.MinPrice, l.Filter.MaxPrice
	if q.Has("min") {
		lo = q.Get("min")
	}
	if q.Has("max") {
		hi = q.Get("max")
	}
	l.SetPrice(lo, hi)

	for _, id := range q["toggle"] {
		l.ToggleCategory(id)
	}
	if isSet(q, "all") {
		l.SelectAll()
	}
}

func isSet(q url.Values, key string) bool {
	switch q.Get(key) {
	case "1", "true", "on":
		return true
	}
	return false
}
