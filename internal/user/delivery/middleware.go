package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware copies the caller identity installed by the
// upstream gateway into the request context. Token verification happens
// there, not here.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "X-User-ID header required"})
			c.Abort()
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}
