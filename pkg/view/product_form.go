package view

import (
	"lafelle.com/app/internal/modules/imageintake"
	"lafelle.com/app/internal/modules/productform"
)

// ImagePreview is the state of the form's image field.
type ImagePreview struct {
	Phase          string `json:"phase"`
	Compressing    bool   `json:"compressing"`
	Converting     bool   `json:"converting"`
	Filename       string `json:"filename,omitempty"`
	OriginalSize   string `json:"originalSize,omitempty"`
	CompressedSize string `json:"compressedSize,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	ImageURL       string `json:"imageUrl"`
	Preview        string `json:"preview,omitempty"`
	Base64         string `json:"base64,omitempty"`
	Error          string `json:"error,omitempty"`
	// KeepsStoredImage is true while an edited product's image is shown
	// but no replacement was chosen.
	KeepsStoredImage bool `json:"keepsStoredImage,omitempty"`
}

func NewImagePreview(in *imageintake.Intake, editing bool) ImagePreview {
	v := ImagePreview{
		Phase:       string(in.Phase),
		Compressing: in.Compressing,
		Converting:  in.Converting,
		Filename:    in.Filename,
		ImageURL:    in.TypedURL,
		Preview:     in.Preview,
		Base64:      in.Base64,
		Error:       in.Error,
	}
	if v.Phase == "" {
		v.Phase = string(imageintake.PhaseIdle)
	}
	if a := in.Asset; a != nil {
		v.OriginalSize = FormatBytes(a.OriginalSize)
		v.CompressedSize = FormatBytes(a.CompressedSize)
		v.Width, v.Height = a.Width, a.Height
	}
	v.KeepsStoredImage = editing && !in.HasFile() && in.TypedURL == "" && in.Preview != ""
	return v
}

type ProductForm struct {
	ID             string            `json:"id,omitempty"`
	Editing        bool              `json:"editing"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          string            `json:"price"`
	Category       string            `json:"category"`
	Categories     []CategoryOption  `json:"categories"`
	AddingCategory bool              `json:"addingCategory,omitempty"`
	Image          ImagePreview      `json:"image"`
	Errors         map[string]string `json:"errors,omitempty"`
	GeneralError   string            `json:"generalError,omitempty"`
}

func NewProductForm(f *productform.Form) ProductForm {
	return ProductForm{
		ID:             f.ID,
		Editing:        f.Editing(),
		Name:           f.Name,
		Description:    f.Description,
		Price:          f.Price,
		Category:       f.Category,
		Categories:     NewCategoryOptions(f.Categories),
		AddingCategory: f.AddingCategory,
		Image:          NewImagePreview(&f.Image, f.Editing()),
		Errors:         f.Errors,
		GeneralError:   f.GeneralError,
	}
}
