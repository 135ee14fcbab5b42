package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/http/middleware"
	"lafelle.com/app/internal/http/validation"
	"lafelle.com/app/internal/modules/imageintake"
	"lafelle.com/app/internal/modules/productform"
	"lafelle.com/app/internal/modules/productlist"
	"lafelle.com/app/internal/shared/apperr"
	"lafelle.com/app/pkg/view"
)

const MsgDeleteFailed = "Failed to delete product. Please try again."

// ProductCatalog is what the admin list reads and deletes through.
type ProductCatalog interface {
	productlist.Source
	DeleteProduct(ctx context.Context, id string) error
}

type ProductsHandler struct {
	Forms   *productform.Service
	Catalog ProductCatalog
	Cards   view.CardOptions
	Log     *slog.Logger
}

func NewProductsHandler(forms *productform.Service, d ProductCatalog, cards view.CardOptions, l *slog.Logger) *ProductsHandler {
	return &ProductsHandler{Forms: forms, Catalog: d, Cards: cards, Log: l}
}

// productInput is a partial form update. Nil fields keep their value.
type productInput struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Price       *textOrNumber `json:"price"`
	Category    *string       `json:"category"`
	ImageURL    *string       `json:"imageUrl"`
	ClearImage  bool          `json:"clearImage"`

	file *imageintake.Source
}

func (in productInput) apply(ctx context.Context, f *productform.Form) error {
	set := func(name string, v *string) {
		if v != nil {
			_ = f.SetField(name, *v)
		}
	}
	set("name", in.Name)
	set("description", in.Description)
	if in.Price != nil {
		_ = f.SetField("price", string(*in.Price))
	}
	set("category", in.Category)

	if in.ClearImage {
		f.ClearImage()
	}
	if in.ImageURL != nil {
		f.SetImageURL(strings.TrimSpace(*in.ImageURL))
	}
	// a file wins over a URL sent alongside it
	if in.file != nil {
		if err := f.SelectFile(ctx, *in.file); err != nil {
			return imageError(err)
		}
	}
	return nil
}

// bind reads JSON, or a multipart form with an optional "image" file.
func bind(c *gin.Context) (productInput, func(), error) {
	noop := func() {}
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		var in productInput
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBytes)
		if err := c.ShouldBindJSON(&in); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return in, noop, imageError(imageintake.ErrTooLarge)
			}
			return in, noop, apperr.InvalidErr("Invalid request data.", validation.FromBindError(err, &in, nil))
		}
		return in, noop, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)
	if err := c.Request.ParseMultipartForm(maxFormBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return productInput{}, noop, imageError(imageintake.ErrTooLarge)
		}
		return productInput{}, noop, apperr.InvalidErr("Invalid request data.", nil)
	}
	var in productInput
	for key, dst := range map[string]**string{
		"name":        &in.Name,
		"description": &in.Description,
		"category":    &in.Category,
		"imageUrl":    &in.ImageURL,
	} {
		if v, ok := c.GetPostForm(key); ok {
			*dst = &v
		}
	}
	if v, ok := c.GetPostForm("price"); ok {
		p := textOrNumber(v)
		in.Price = &p
	}
	in.ClearImage = c.PostForm("clearImage") == "true"

	fh, err := c.FormFile("image")
	if err != nil {
		return in, noop, nil
	}
	src, done, err := openSource(fh)
	if err != nil {
		return in, noop, imageError(err)
	}
	in.file = &src
	return in, done, nil
}

// NewForm answers GET /api/admin/products/form.
func (h *ProductsHandler) NewForm(c *gin.Context) {
	f, err := h.Forms.NewForm(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view.NewProductForm(f))
}

// EditForm answers GET /api/admin/products/:id/form.
func (h *ProductsHandler) EditForm(c *gin.Context) {
	f, err := h.Forms.LoadForEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view.NewProductForm(f))
}

func (h *ProductsHandler) Create(c *gin.Context) {
	h.save(c, productform.New(nil))
}

func (h *ProductsHandler) Update(c *gin.Context) {
	f, err := h.Forms.LoadForEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	h.save(c, f)
}

func (h *ProductsHandler) save(c *gin.Context, f *productform.Form) {
	in, done, err := bind(c)
	defer done()
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := in.apply(ctx, f); err != nil {
		middleware.Fail(c, err)
		return
	}

	p, err := h.Forms.Submit(ctx, f)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	status := http.StatusCreated
	if f.Editing() {
		status = http.StatusOK
	}
	opt := h.Cards
	opt.Categories = f.Categories
	c.JSON(status, gin.H{"product": view.NewProductCard(p, opt)})
}

// Delete answers DELETE /api/admin/products/:id. The response carries the
// list as it was on screen, minus the deleted row, filtered by the same
// query parameters as GET /api/products. The list is omitted when it
// could not be loaded.
func (h *ProductsHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	snap, loadErr := productlist.Load(ctx, h.Catalog)
	if err := h.Catalog.DeleteProduct(ctx, id); err != nil {
		middleware.Fail(c, upstream(MsgDeleteFailed, err))
		return
	}
	h.Log.InfoContext(ctx, "product_deleted",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("product_id", id),
	)

	res := gin.H{"id": id, "deleted": true}
	if loadErr != nil {
		h.Log.WarnContext(ctx, "product_list_reload_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.Any("err", loadErr),
		)
		c.JSON(http.StatusOK, res)
		return
	}
	l := snap.List()
	l.Remove(id)
	l.ApplyQuery(c.Request.URL.Query())
	page := view.NewProductListPage(l, h.Cards)
	page.CategoriesError = snap.CategoriesMessage()
	res["list"] = page
	c.JSON(http.StatusOK, res)
}

// CreateCategory answers POST /api/admin/products/form/categories and its
// edit-form twin. The new category is created and selected, and the
// refreshed form is returned.
func (h *ProductsHandler) CreateCategory(c *gin.Context) {
	ctx := c.Request.Context()
	var in catalogapi.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Invalid request data.", validation.FromBindError(err, &in, nil)))
		return
	}

	var (
		f   *productform.Form
		err error
	)
	if id := c.Param("id"); id != "" {
		f, err = h.Forms.LoadForEdit(ctx, id)
	} else {
		f, err = h.Forms.NewForm(ctx)
	}
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	_ = f.SetField("category", productform.AddNewCategory)

	cat, err := h.Forms.CreateCategory(ctx, f, in)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	h.Log.InfoContext(ctx, "category_created_inline",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("category_id", cat.ID),
	)
	c.JSON(http.StatusCreated, view.NewProductForm(f))
}
