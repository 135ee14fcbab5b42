package middleware

import (
	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/shared/apperr"
)

// RequireAuth answers 401 when no session is present.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		Fail(c, apperr.UnauthorizedErr("Please log in to continue."))
	}
}
