package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/http/sessioncookie"
	"lafelle.com/app/internal/modules/sessions"
)

const (
	ctxKeySession = "session"
	ctxKeyUser    = "user"
)

// SessionCfg holds configuration for session middleware.
type SessionCfg struct {
	Store  sessions.Store
	Cookie *sessioncookie.Codec
	TTL    time.Duration
	Logger *slog.Logger
}

// Session restores the signed-in admin from the cookie and puts the
// session, the user and the catalog token on the request context.
func Session(cfg SessionCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := cfg.Cookie.GetID(c)
		if !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		sess, err := cfg.Store.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, sessions.ErrNotFound) {
				cfg.Logger.LogAttrs(ctx, slog.LevelError, "session_load_failed",
					slog.String("request_id", GetRequestID(c)),
					slog.Any("err", err),
				)
			}
			cfg.Cookie.Clear(c)
			c.Next()
			return
		}

		user, err := sess.User()
		if err != nil {
			_ = cfg.Store.Delete(ctx, sess.ID)
			cfg.Cookie.Clear(c)
			c.Next()
			return
		}
		_ = cfg.Store.Touch(ctx, sess.ID)

		c.Set(ctxKeySession, sess)
		c.Set(ctxKeyUser, user)
		c.Request = c.Request.WithContext(catalogapi.WithToken(ctx, sess.Token))
		c.Next()
	}
}

// StartSession stores token and user and sets the session cookie.
func StartSession(c *gin.Context, cfg SessionCfg, token string, user catalogapi.User) (*sessions.Session, error) {
	sess, err := cfg.Store.Create(c.Request.Context(), token, user, cfg.TTL)
	if err != nil {
		return nil, err
	}
	cfg.Cookie.Set(c, sess.ID)
	c.Set(ctxKeySession, sess)
	c.Set(ctxKeyUser, user)
	return sess, nil
}

// EndSession deletes the current session, if any, and clears the cookie.
func EndSession(c *gin.Context, cfg SessionCfg) error {
	defer cfg.Cookie.Clear(c)
	if sess, ok := CurrentSession(c); ok {
		return cfg.Store.Delete(context.WithoutCancel(c.Request.Context()), sess.ID)
	}
	if id, ok := cfg.Cookie.GetID(c); ok {
		return cfg.Store.Delete(context.WithoutCancel(c.Request.Context()), id)
	}
	return nil
}

func CurrentSession(c *gin.Context) (*sessions.Session, bool) {
	v, ok := c.Get(ctxKeySession)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*sessions.Session)
	return sess, ok && sess != nil
}

// CurrentUser retrieves the signed-in user from the gin context.
func CurrentUser(c *gin.Context) (catalogapi.User, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return catalogapi.User{}, false
	}
	u, ok := v.(catalogapi.User)
	return u, ok
}
