package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"
	RequestIDCtx   = "request_id"

	RequestIDHeader = "X-Request-ID"
)

// UserID returns the authenticated caller set by the auth middleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(ClientIDCtx)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

func Roles(c *gin.Context) []string {
	roles, _ := c.Get(ClientRolesCtx)
	out, _ := roles.([]string)
	return out
}

func IsAdmin(c *gin.Context) bool {
	return slices.Contains(Roles(c), models.AdminRole)
}
