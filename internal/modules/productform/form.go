// Package productform holds the state of the admin create/edit product form
// and turns it into catalog API calls.
package productform

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/http/validation"
	"lafelle.com/app/internal/modules/imageintake"
)

// AddNewCategory is the category select value that opens inline creation.
const AddNewCategory = "add-new"

const (
	MsgName        = "Product name is required"
	MsgDescription = "Description is required"
	MsgPrice       = "Valid price is required"
	MsgCategory    = "Category is required"
	MsgImage       = "Image URL or file is required"
)

var fieldMessages = validation.Messages{
	"name":        MsgName,
	"description": MsgDescription,
	"price":       MsgPrice,
	"category":    MsgCategory,
	"image":       MsgImage,
}

// Form is one create or edit session of the product form.
type Form struct {
	// ID is set when editing an existing product.
	ID string

	Name        string
	Description string
	Price       string
	Category    string
	Image       imageintake.Intake

	Categories []catalogapi.Category

	// AddingCategory is true after the "add-new" option was picked.
	AddingCategory bool

	Errors       validation.FieldErrors
	GeneralError string
}

// New returns an empty create form.
func New(categories []catalogapi.Category) *Form {
	return &Form{Categories: categories, Image: imageintake.Intake{Phase: imageintake.PhaseIdle}}
}

func (f *Form) Editing() bool { return f.ID != "" }

// SetField updates a text field and clears its error.
func (f *Form) SetField(name, value string) error {
	switch name {
	case "name":
		f.Name = value
	case "description":
		f.Description = value
	case "price":
		f.Price = value
	case "category":
		if value == AddNewCategory {
			f.AddingCategory = true
			return nil
		}
		f.Category = value
	default:
		return fmt.Errorf("productform: unknown field %q", name)
	}
	delete(f.Errors, name)
	return nil
}

// SetImageURL switches the image to a typed URL, dropping any selected file.
func (f *Form) SetImageURL(u string) {
	f.Image.SetURL(u)
	if u != "" {
		delete(f.Errors, "image")
	}
}

// SelectFile runs the file through the image pipeline. The typed URL is
// cleared only when the file is accepted.
func (f *Form) SelectFile(ctx context.Context, src imageintake.Source) error {
	err := f.Image.Select(ctx, src)
	if err == nil {
		delete(f.Errors, "image")
	}
	return err
}

func (f *Form) ClearImage() {
	f.Image.Clear()
}

// hasImage is true for a selected file, a typed URL or a restored preview.
func (f *Form) hasImage() bool {
	return f.Image.HasFile() || strings.TrimSpace(f.Image.TypedURL) != "" || f.Image.Preview != ""
}

type fields struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       string `json:"price" validate:"required,numeric"`
	Category    string `json:"category" validate:"required"`
	Image       bool   `json:"image" validate:"required"`
}

// Validate fills Errors and reports whether the form can be submitted.
func (f *Form) Validate() bool {
	in := fields{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Price:       strings.TrimSpace(f.Price),
		Category:    strings.TrimSpace(f.Category),
		Image:       f.hasImage(),
	}
	errs := validation.Struct(&in, fieldMessages)
	if _, bad := errs["price"]; !bad {
		if _, ok := f.price(); !ok {
			if errs == nil {
				errs = validation.FieldErrors{}
			}
			errs["price"] = MsgPrice
		}
	}
	f.Errors = errs
	return len(errs) == 0
}

func (f *Form) price() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// Input builds the API payload. Call it after Validate.
func (f *Form) Input() catalogapi.ProductInput {
	price, _ := f.price()
	in := catalogapi.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Price:       price,
		Category:    f.Category,
	}

	typed := strings.TrimSpace(f.Image.TypedURL)
	switch {
	case f.Editing() && !f.Image.HasFile() && typed == "" && f.Image.Preview != "":
		// untouched stored image
		in.OmitImage = true
	case f.Image.HasFile():
		u := f.Image.Asset.DataURL
		in.ImageURL = &u
	case typed != "":
		in.ImageURL = &typed
	}
	return in
}

// Restore loads a stored product into the form for editing.
func (f *Form) Restore(p catalogapi.Product) {
	f.ID = p.ID
	f.Name = p.Name
	f.Description = p.Description
	f.Price = p.Price.String()
	f.Category = p.Category.ID
	f.Image.Restore(p.ImageURL)
	f.Errors = nil
	f.GeneralError = ""
}
