package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/shared/apperr"
)

// Fail records err for ErrorHandler and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last handler error as
// {"error", "request_id", "fields"?}.
func ErrorHandler(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		rid := GetRequestID(c)

		level := slog.LevelWarn
		if status >= 500 {
			level = slog.LevelError
		}
		attrs := []slog.Attr{
			slog.String("request_id", rid),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Any("err", err),
		}
		if ae, ok := apperr.As(err); ok {
			attrs = append(attrs, slog.String("kind", string(ae.Kind)))
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed", attrs...)

		payload := gin.H{
			"error":      apperr.PublicMessage(err),
			"request_id": rid,
		}
		if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
			payload["fields"] = ae.Fields
		}
		c.AbortWithStatusJSON(status, payload)
	}
}
