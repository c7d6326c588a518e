package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

// RequireRoles lets the request through when the caller holds any of the roles.
// It must run after AuthMiddleware.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return requireAny(allowed, "insufficient permissions")
}

func RequireAdmin() gin.HandlerFunc {
	return requireAny([]string{models.AdminRole}, "admin access required")
}

func requireAny(allowed []string, denied string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ClientRolesCtx); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if !slices.ContainsFunc(Roles(c), func(r string) bool { return slices.Contains(allowed, r) }) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": denied})
			return
		}
		c.Next()
	}
}
