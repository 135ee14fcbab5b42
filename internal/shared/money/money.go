package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a price with two decimals and the currency symbol.
// E.g. 12.5 USD -> "$12.50"
func FormatPrice(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s%s", currencySymbol(currency), amount.StringFixed(2))
}

// DiscountPercent returns the rounded "% OFF" value of price against the
// original price, or 0 when there is no discount.
func DiscountPercent(original, price decimal.Decimal) int64 {
	if !original.IsPositive() || !price.LessThan(original) {
		return 0
	}
	pct := original.Sub(price).Div(original).Mul(decimal.NewFromInt(100))
	return pct.Round(0).IntPart()
}

func currencySymbol(code string) string {
	switch code {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "AED":
		return "AED "
	case "INR":
		return "₹"
	default:
		return code + " "
	}
}
