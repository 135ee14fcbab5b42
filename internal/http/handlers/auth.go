package handlers

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
	"lafelle.com/app/internal/shared/apperr"
)

const (
	MsgLoginFailed = "Login failed. Please try again."
	MsgUnreachable = "Unable to connect to server. Please check your connection."
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (catalogapi.LoginResult, error)
}

type AuthHandler struct {
	Catalog Authenticator
	Session middleware.SessionCfg
	Log     *slog.Logger
}

func NewAuthHandler(a Authenticator, s middleware.SessionCfg, l *slog.Logger) *AuthHandler {
	return &AuthHandler{Catalog: a, Session: s, Log: l}
}

type loginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBind(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Please enter your email and password.", validation.FromBindError(err, &in, nil)))
		return
	}
	in.Email = strings.TrimSpace(in.Email)

	res, err := h.Catalog.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		middleware.Fail(c, loginError(err))
		return
	}

	if _, err := middleware.StartSession(c, h.Session, res.Token, res.User); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.Log.InfoContext(c.Request.Context(), "admin_login",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("email", res.User.Email),
	)
	c.JSON(http.StatusOK, gin.H{"user": res.User})
}

// loginError prefers the remote message, then a generic one.
func loginError(err error) *apperr.AppError {
	if errors.Is(err, catalogapi.ErrUnreachable) {
		return apperr.UnavailableErr(MsgUnreachable, err)
	}
	msg := catalogapi.MessageOf(err)
	if msg == "" {
		msg = MsgLoginFailed
	}
	status := catalogapi.StatusOf(err)
	if status >= 400 && status < 500 {
		return &apperr.AppError{Kind: apperr.Unauthorized, PublicMsg: msg, Err: err}
	}
	return apperr.UnavailableErr(msg, err)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.EndSession(c, h.Session); err != nil {
		h.Log.WarnContext(c.Request.Context(), "session_delete_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.Any("err", err),
		)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Please log in to continue."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
