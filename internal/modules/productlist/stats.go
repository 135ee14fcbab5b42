package productlist

import (
	"github.com/shopspring/decimal"

	"lafelle.com/app/internal/catalogapi"
)

// Stats is the admin dashboard summary of a product list.
type Stats struct {
	Count   int
	Total   decimal.Decimal
	Average decimal.Decimal
}

func Summarize(products []catalogapi.Product) Stats {
	s := Stats{Count: len(products)}
	for _, p := range products {
		s.Total = s.Total.Add(p.Price)
	}
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}
