package catalogapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Category is a catalog category as stored by the remote API.
type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryRef links a product to a category. The remote API returns either
// the bare id or the populated category object; both decode here.
type CategoryRef struct {
	ID   string
	Name string
}

func (r *CategoryRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = CategoryRef{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = CategoryRef{ID: id}
		return nil
	case len(b) > 0 && b[0] == '{':
		var c Category
		if err := json.Unmarshal(b, &c); err != nil {
			return err
		}
		*r = CategoryRef{ID: c.ID, Name: c.Name}
		return nil
	default:
		return fmt.Errorf("catalogapi: unexpected category value %s", b)
	}
}

func (r CategoryRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Product is a catalog product as returned by the remote API.
type Product struct {
	ID            string              `json:"_id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Category      CategoryRef         `json:"category"`
	ImageURL      string              `json:"imageUrl"`
}

// ProductInput is the create/update payload:
// { name, description, price:number, category:id, imageUrl:string|null }.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	// ImageURL nil is sent as null.
	ImageURL *string
	// OmitImage drops imageUrl from the payload so the remote keeps the
	// stored image.
	OmitImage bool
}

func (in ProductInput) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"name":        in.Name,
		"description": in.Description,
		"price":       json.Number(in.Price.String()),
		"category":    in.Category,
	}
	if !in.OmitImage {
		if in.ImageURL != nil {
			m["imageUrl"] = *in.ImageURL
		} else {
			m["imageUrl"] = nil
		}
	}
	return json.Marshal(m)
}

// User is the authenticated account returned by the login endpoint.
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// LoginResult is the body of POST /v1/auth/login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
