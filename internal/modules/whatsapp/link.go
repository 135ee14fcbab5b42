// Package whatsapp builds wa.me deep links. Opening the link is the whole
// order flow: there is no payment or order backend.
package whatsapp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"lafelle.com/app/internal/modules/imageintake"
	"lafelle.com/app/internal/shared/money"
)

const baseURL = "https://wa.me/"

var ErrNoNumber = errors.New("whatsapp: number not configured")

// Link returns https://wa.me/<digits>?text=<encoded text>.
func Link(number, text string) (string, error) {
	digits := Digits(number)
	if digits == "" {
		return "", ErrNoNumber
	}
	u := baseURL + digits
	if text != "" {
		u += "?text=" + componentEscape(text)
	}
	return u, nil
}

// componentUnescape undoes the QueryEscape choices that differ from
// encodeURIComponent: spaces become %20 and !'()* stay literal.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func componentEscape(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}

// Digits strips everything but 0-9 ("+971 58-911" -> "97158911").
func Digits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Item is what the buy-now message talks about.
type Item struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Currency string
	ImageURL string
}

// BuyNowMessage is the prefilled order message.
func BuyNowMessage(it Item) string {
	cat := it.Category
	if cat == "" {
		cat = "Uncategorized"
	}
	msg := fmt.Sprintf("Hello! I'm interested in your product \nName: *%s* \nCategory: %s \nprice: %s.",
		it.Name, cat, money.FormatPrice(it.Price, it.Currency))
	// Inline data URLs are far too long for a chat message.
	if it.ImageURL != "" && !imageintake.IsDataURL(it.ImageURL) {
		msg += "\nImage: " + it.ImageURL
	}
	return msg
}

// Contact is a contact form submission.
type Contact struct {
	Name    string
	Email   string
	Message string
}

func ContactMessage(c Contact) string {
	return fmt.Sprintf("New Contact Form Submission:\nName: %s\nEmail: %s\nMessage: %s",
		strings.TrimSpace(c.Name), strings.TrimSpace(c.Email), strings.TrimSpace(c.Message))
}

// BuyNowLink is Link(number, BuyNowMessage(it)).
func BuyNowLink(number string, it Item) (string, error) {
	return Link(number, BuyNowMessage(it))
}

// ContactLink is Link(number, ContactMessage(c)).
func ContactLink(number string, c Contact) (string, error) {
	return Link(number, ContactMessage(c))
}
