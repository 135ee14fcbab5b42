package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/http/middleware"
	"lafelle.com/app/internal/http/validation"
	"lafelle.com/app/internal/modules/productform"
	"lafelle.com/app/internal/shared/apperr"
)

type CategoryWriter interface {
	CreateCategory(ctx context.Context, in catalogapi.CategoryInput) (catalogapi.Category, error)
	UpdateCategory(ctx context.Context, id string, in catalogapi.CategoryInput) (catalogapi.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoriesHandler struct {
	Catalog CategoryWriter
}

func NewCategoriesHandler(w CategoryWriter) *CategoriesHandler {
	return &CategoriesHandler{Catalog: w}
}

type categoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

var categoryMessages = validation.Messages{"name": productform.MsgCategoryName}

func bindCategory(c *gin.Context) (catalogapi.CategoryInput, bool) {
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fields := validation.FromBindError(err, &in, categoryMessages)
		msg := fields["name"]
		if msg == "" {
			msg = "Invalid request data."
		}
		middleware.Fail(c, apperr.InvalidErr(msg, fields))
		return catalogapi.CategoryInput{}, false
	}
	return catalogapi.CategoryInput{Name: in.Name, Description: in.Description}, true
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	in, ok := bindCategory(c)
	if !ok {
		return
	}
	cat, err := h.Catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		middleware.Fail(c, categoryError(productform.MsgCategoryFailed, err))
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoriesHandler) Update(c *gin.Context) {
	in, ok := bindCategory(c)
	if !ok {
		return
	}
	cat, err := h.Catalog.UpdateCategory(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		middleware.Fail(c, categoryError("Failed to update category. Please try again.", err))
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoriesHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		middleware.Fail(c, categoryError("Failed to delete category. Please try again.", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

// categoryError keeps a remote conflict visible, e.g. a duplicate name.
func categoryError(msg string, err error) *apperr.AppError {
	if catalogapi.StatusOf(err) == http.StatusConflict {
		if m := catalogapi.MessageOf(err); m != "" {
			msg = m
		}
		return &apperr.AppError{Kind: apperr.Conflict, PublicMsg: msg, Err: err}
	}
	return upstream(msg, err)
}
