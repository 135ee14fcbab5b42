package view

import (
	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/modules/productlist"
	"lafelle.com/app/internal/modules/whatsapp"
	"lafelle.com/app/internal/shared/money"
)

// ProductCard is one product as shown in the shop grid and the admin table.
type ProductCard struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	PriceLabel      string `json:"priceLabel"`
	OriginalPrice   string `json:"originalPrice,omitempty"`
	DiscountPercent int64  `json:"discountPercent,omitempty"`
	CategoryID      string `json:"categoryId"`
	CategoryName    string `json:"categoryName"`
	ImageURL        string `json:"imageUrl"`
	WhatsAppURL     string `json:"whatsappUrl,omitempty"`
}

// CardOptions carries the settings a card needs besides the product.
type CardOptions struct {
	Currency       string
	WhatsAppNumber string
	Categories     []catalogapi.Category
}

func NewProductCard(p catalogapi.Product, opt CardOptions) ProductCard {
	catName := productlist.CategoryName(p.Category, opt.Categories)
	card := ProductCard{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.StringFixed(2),
		PriceLabel:   money.FormatPrice(p.Price, opt.Currency),
		CategoryID:   p.Category.ID,
		CategoryName: catName,
		ImageURL:     p.ImageURL,
	}
	if p.OriginalPrice.Valid {
		if pct := money.DiscountPercent(p.OriginalPrice.Decimal, p.Price); pct > 0 {
			card.OriginalPrice = money.FormatPrice(p.OriginalPrice.Decimal, opt.Currency)
			card.DiscountPercent = pct
		}
	}
	if opt.WhatsAppNumber != "" {
		// no number configured: the card simply has no buy-now link
		card.WhatsAppURL, _ = whatsapp.BuyNowLink(opt.WhatsAppNumber, whatsapp.Item{
			Name:     p.Name,
			Category: catName,
			Price:    p.Price,
			Currency: opt.Currency,
			ImageURL: p.ImageURL,
		})
	}
	return card
}

func NewProductCards(ps []catalogapi.Product, opt CardOptions) []ProductCard {
	out := make([]ProductCard, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewProductCard(p, opt))
	}
	return out
}
