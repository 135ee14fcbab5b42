package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/http/middleware"
	"lafelle.com/app/internal/modules/productlist"
	"lafelle.com/app/internal/modules/whatsapp"
	"lafelle.com/app/internal/shared/apperr"
	"lafelle.com/app/pkg/view"
)

const (
	MsgProductsFailed  = "Failed to load products. Please try again."
	MsgProductNotFound = "Product not found"
)

type ProductReader interface {
	ListProducts(ctx context.Context) ([]catalogapi.Product, error)
	GetProduct(ctx context.Context, id string) (catalogapi.Product, error)
	ListCategories(ctx context.Context) ([]catalogapi.Category, error)
}

// ProductsHandler serves the public catalog: list, detail, shop grid and
// the buy-now link.
type ProductsHandler struct {
	Catalog ProductReader
	Cards   view.CardOptions
}

func NewProductsHandler(r ProductReader, cards view.CardOptions) *ProductsHandler {
	return &ProductsHandler{Catalog: r, Cards: cards}
}

func (h *ProductsHandler) load(ctx context.Context) (productlist.Snapshot, error) {
	snap, err := productlist.Load(ctx, h.Catalog)
	if err != nil {
		return snap, upstream(MsgProductsFailed, err)
	}
	return snap, nil
}

// List answers GET /api/products. The query follows List.ApplyQuery:
// category, range, q, min, max, plus the toggle, all and clear actions.
func (h *ProductsHandler) List(c *gin.Context) {
	snap, err := h.load(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	l := snap.List()
	l.ApplyQuery(c.Request.URL.Query())

	page := view.NewProductListPage(l, h.Cards)
	page.CategoriesError = snap.CategoriesMessage()
	c.JSON(http.StatusOK, page)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	p, cats, err := h.product(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	opt := h.Cards
	opt.Categories = cats
	c.JSON(http.StatusOK, view.NewProductCard(p, opt))
}

func (h *ProductsHandler) product(ctx context.Context, id string) (catalogapi.Product, []catalogapi.Category, error) {
	var (
		p    catalogapi.Product
		cats []catalogapi.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = h.Catalog.GetProduct(gctx, id)
		return err
	})
	g.Go(func() error {
		// only needed when the category is not populated
		cats, _ = h.Catalog.ListCategories(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		if catalogapi.IsNotFound(err) {
			return p, nil, apperr.NotFoundErr(MsgProductNotFound)
		}
		return p, nil, upstream(MsgProductsFailed, err)
	}
	return p, cats, nil
}

// Shop answers GET /api/shop?page=N with nine cards per page.
func (h *ProductsHandler) Shop(c *gin.Context) {
	snap, err := h.load(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	opt := h.Cards
	opt.Categories = snap.Categories
	cards := view.NewProductCards(snap.Products, opt)

	p := productlist.Paginate(cards, parseInt(c.Query("page"), 1), productlist.ShopPageSize)
	c.JSON(http.StatusOK, view.ShopPage{
		Items:      p.Items,
		Page:       p.Page,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		PerPage:    productlist.ShopPageSize,
	})
}

// WhatsApp answers GET /api/products/:id/whatsapp with the buy-now link.
func (h *ProductsHandler) WhatsApp(c *gin.Context) {
	p, cats, err := h.product(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	item := whatsapp.Item{
		Name:     p.Name,
		Category: productlist.CategoryName(p.Category, cats),
		Price:    p.Price,
		Currency: h.Cards.Currency,
		ImageURL: p.ImageURL,
	}
	msg := whatsapp.BuyNowMessage(item)
	u, err := whatsapp.Link(h.Cards.WhatsAppNumber, msg)
	if err != nil {
		middleware.Fail(c, apperr.WithMessage(err, MsgWhatsAppMissing))
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u, "message": msg})
}
