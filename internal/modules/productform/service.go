package productform

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/modules/imageintake"
	"lafelle.com/app/internal/shared/apperr"
	"lafelle.com/app/internal/storage"
)

const (
	MsgSaveFailed        = "Failed to save product. Please try again."
	MsgLoadFailed        = "Failed to load product data"
	MsgCategoryName      = "Please enter a category name"
	MsgCategoryFailed    = "Failed to create category. Please try again."
	MsgCategoriesMissing = "Failed to load categories"
)

// Catalog is the part of catalogapi.Client the form needs.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (catalogapi.Product, error)
	CreateProduct(ctx context.Context, in catalogapi.ProductInput) (catalogapi.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalogapi.ProductInput) (catalogapi.Product, error)
	ListCategories(ctx context.Context) ([]catalogapi.Category, error)
	CreateCategory(ctx context.Context, in catalogapi.CategoryInput) (catalogapi.Category, error)
}

type Service struct {
	catalog Catalog
	// store is nil in inline delivery mode.
	store storage.Storage
	log   *slog.Logger
}

// NewService wires the form to the catalog. A non-nil store publishes
// compressed uploads and submits their public URL instead of a data URL.
func NewService(c Catalog, store storage.Storage, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{catalog: c, store: store, log: log}
}

// NewForm returns a create form with the category list loaded.
func (s *Service) NewForm(ctx context.Context) (*Form, error) {
	cats, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, upstream(MsgCategoriesMissing, err)
	}
	return New(cats), nil
}

// LoadForEdit fetches a product and its category list into an edit form.
func (s *Service) LoadForEdit(ctx context.Context, id string) (*Form, error) {
	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, upstream(MsgLoadFailed, err)
	}
	cats, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, upstream(MsgLoadFailed, err)
	}
	f := New(cats)
	f.Restore(p)
	return f, nil
}

// Submit validates the form and creates or updates the product. An invalid
// form never reaches the network.
func (s *Service) Submit(ctx context.Context, f *Form) (catalogapi.Product, error) {
	f.GeneralError = ""
	if !f.Validate() {
		return catalogapi.Product{}, apperr.InvalidErr("Please fix the highlighted fields.", f.Errors)
	}

	if err := s.inlineToFile(ctx, f); err != nil {
		return catalogapi.Product{}, err
	}

	in := f.Input()
	var published *storage.PutResult
	if s.store != nil && f.Image.HasFile() {
		res, err := s.publish(ctx, f)
		if err != nil {
			f.GeneralError = MsgSaveFailed
			return catalogapi.Product{}, apperr.WithMessage(apperr.Wrap(err), MsgSaveFailed)
		}
		published = &res
		in.ImageURL = &res.URL
	}

	var (
		p   catalogapi.Product
		err error
	)
	if f.Editing() {
		p, err = s.catalog.UpdateProduct(ctx, f.ID, in)
	} else {
		p, err = s.catalog.CreateProduct(ctx, in)
	}
	if err != nil {
		f.GeneralError = MsgSaveFailed
		s.log.WarnContext(ctx, "product save failed", "product_id", f.ID, "err", err)
		if published != nil {
			// the product never pointed at it
			if derr := s.store.Delete(context.WithoutCancel(ctx), published.Key); derr != nil {
				s.log.WarnContext(ctx, "orphaned image not removed", "key", published.Key, "err", derr)
			}
		}
		return catalogapi.Product{}, upstream(MsgSaveFailed, err)
	}

	s.log.InfoContext(ctx, "product saved", "product_id", p.ID, "editing", f.Editing())
	return p, nil
}

// inlineToFile runs a typed data URL through the image pipeline when images
// are published to storage, so storage mode never sends inline images.
func (s *Service) inlineToFile(ctx context.Context, f *Form) error {
	typed := strings.TrimSpace(f.Image.TypedURL)
	if s.store == nil || f.Image.HasFile() || !imageintake.IsDataURL(typed) {
		return nil
	}
	src, err := imageintake.FromDataURL(typed)
	if err == nil {
		err = f.SelectFile(ctx, src)
	}
	if err != nil {
		msg := imageintake.Message(err)
		f.Errors = map[string]string{"image": msg}
		return apperr.InvalidErr(msg, f.Errors)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, f *Form) (storage.PutResult, error) {
	a := f.Image.Asset
	res, err := s.store.Put(ctx, bytes.NewReader(a.JPEG), storage.PutInput{
		Name:        f.Name,
		Filename:    "image.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(a.JPEG)),
	})
	if err != nil {
		return storage.PutResult{}, fmt.Errorf("publish image: %w", err)
	}
	return res, nil
}

// CreateCategory adds a category inline, appends it to the form's list and
// selects it.
func (s *Service) CreateCategory(ctx context.Context, f *Form, in catalogapi.CategoryInput) (catalogapi.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return catalogapi.Category{}, apperr.InvalidErr(MsgCategoryName, map[string]string{"name": MsgCategoryName})
	}

	c, err := s.catalog.CreateCategory(ctx, in)
	if err != nil {
		return catalogapi.Category{}, upstream(MsgCategoryFailed, err)
	}

	f.Categories = append(f.Categories, c)
	f.Category = c.ID
	f.AddingCategory = false
	delete(f.Errors, "category")
	return c, nil
}

func upstream(msg string, err error) *apperr.AppError {
	return apperr.FromUpstream(catalogapi.StatusOf(err), msg, err)
}
