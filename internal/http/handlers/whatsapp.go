package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/config"
	"lafelle.com/app/internal/http/middleware"
	"lafelle.com/app/internal/http/validation"
	"lafelle.com/app/internal/modules/whatsapp"
	"lafelle.com/app/internal/shared/apperr"
)

const MsgWhatsAppMissing = "WhatsApp ordering is not available right now."

type WhatsAppHandler struct {
	Cfg config.WhatsAppConfig
}

func NewWhatsAppHandler(cfg config.WhatsAppConfig) *WhatsAppHandler {
	return &WhatsAppHandler{Cfg: cfg}
}

type contactInput struct {
	Name    string `json:"name" form:"name" binding:"required,max=100"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Message string `json:"message" form:"message" binding:"required,max=2000"`
}

// Contact turns the contact form into a WhatsApp link.
func (h *WhatsAppHandler) Contact(c *gin.Context) {
	var in contactInput
	if err := c.ShouldBind(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Please fill in all fields.", validation.FromBindError(err, &in, nil)))
		return
	}
	u, err := whatsapp.ContactLink(h.Cfg.ContactNumber, whatsapp.Contact{
		Name: in.Name, Email: in.Email, Message: in.Message,
	})
	if err != nil {
		middleware.Fail(c, apperr.WithMessage(err, MsgWhatsAppMissing))
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u})
}

// Greeting is the floating "chat with us" link.
func (h *WhatsAppHandler) Greeting(c *gin.Context) {
	u, err := whatsapp.Link(h.Cfg.Number, h.Cfg.Greeting)
	if err != nil {
		middleware.Fail(c, apperr.WithMessage(err, MsgWhatsAppMissing))
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u})
}
