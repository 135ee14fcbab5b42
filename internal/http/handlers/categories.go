package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/http/middleware"
)

type CategoryLister interface {
	ListCategories(ctx context.Context) ([]catalogapi.Category, error)
}

type CategoriesHandler struct {
	Catalog CategoryLister
}

func NewCategoriesHandler(l CategoryLister) *CategoriesHandler {
	return &CategoriesHandler{Catalog: l}
}

func (h *CategoriesHandler) List(c *gin.Context) {
	cats, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		middleware.Fail(c, upstream("Failed to load categories", err))
		return
	}
	if cats == nil {
		cats = []catalogapi.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"items": cats})
}
