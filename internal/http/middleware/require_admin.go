package middleware

import (
	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/shared/apperr"
)

// RequireAdmin runs after RequireAuth. Users whose role is reported and is
// not "admin" get 403; an empty role is left to the catalog API to enforce.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			Fail(c, apperr.UnauthorizedErr("Please log in to continue."))
			return
		}
		if u.Role != "" && u.Role != "admin" {
			Fail(c, apperr.ForbiddenErr("Admin access required."))
			return
		}
		c.Next()
	}
}
