package http

import (
	"log/slog"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/config"
	"lafelle.com/app/internal/http/handlers"
	"lafelle.com/app/internal/http/handlers/admin"
	"lafelle.com/app/internal/http/middleware"
	"lafelle.com/app/internal/modules/productform"
	"lafelle.com/app/pkg/view"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Logger   *slog.Logger
	Catalog  *catalogapi.Client
	Session  middleware.SessionCfg
	Forms    *productform.Service
	WhatsApp config.WhatsAppConfig

	// MediaDir is served under MediaPrefix when images are stored locally.
	MediaDir    string
	MediaPrefix string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.ErrorHandler(d.Logger),
		middleware.Session(d.Session),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, gin.H{"status": "ok"})
	})
	if d.MediaDir != "" && d.MediaPrefix != "" {
		r.Static(d.MediaPrefix, d.MediaDir)
	}

	cards := view.CardOptions{Currency: d.WhatsApp.Currency, WhatsAppNumber: d.WhatsApp.Number}

	authH := handlers.NewAuthHandler(d.Catalog, d.Session, d.Logger)
	productsH := handlers.NewProductsHandler(d.Catalog, cards)
	categoriesH := handlers.NewCategoriesHandler(d.Catalog)
	waH := handlers.NewWhatsAppHandler(d.WhatsApp)

	api := r.Group("/api")
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/logout", authH.Logout)
	api.GET("/auth/me", authH.Me)

	api.GET("/products", productsH.List)
	api.GET("/products/:id", productsH.Get)
	api.GET("/products/:id/whatsapp", productsH.WhatsApp)
	api.GET("/shop", productsH.Shop)
	api.GET("/categories", categoriesH.List)
	api.POST("/contact", waH.Contact)
	api.GET("/whatsapp", waH.Greeting)

	adminProducts := admin.NewProductsHandler(d.Forms, d.Catalog, cards, d.Logger)
	adminCategories := admin.NewCategoriesHandler(d.Catalog)
	adminImages := admin.NewImagesHandler(d.Logger)

	ad := api.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())
	ad.POST("/images", adminImages.Upload)
	ad.GET("/products/form", adminProducts.NewForm)
	ad.GET("/products/:id/form", adminProducts.EditForm)
	ad.POST("/products/form/categories", adminProducts.CreateCategory)
	ad.POST("/products/:id/form/categories", adminProducts.CreateCategory)
	ad.POST("/products", adminProducts.Create)
	ad.PUT("/products/:id", adminProducts.Update)
	ad.DELETE("/products/:id", adminProducts.Delete)
	ad.POST("/categories", adminCategories.Create)
	ad.PUT("/categories/:id", adminCategories.Update)
	ad.DELETE("/categories/:id", adminCategories.Delete)

	return r
}
