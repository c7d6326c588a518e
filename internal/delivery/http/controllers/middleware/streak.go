package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type streakToucher interface {
	Touch(ctx context.Context, userID uuid.UUID) (models.StreakState, bool, error)
}

// StreakMiddleware records the caller's daily visit. It runs after AuthMiddleware
// and never fails the request.
func StreakMiddleware(l logger.Log, s streakToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := UserID(c); ok {
			if _, _, err := s.Touch(c.Request.Context(), userID); err != nil {
				l.ErrorErr("streak update", err, "user_id", userID)
			}
		}
		c.Next()
	}
}
