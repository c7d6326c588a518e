package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
)

type followRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	callerID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	var input followRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	if err := h.service.Follow(c.Request.Context(), callerID, input.UserID); err != nil {
		httputil.Fail(c, h.log, "error following user", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Successfully followed user"})
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	callerID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	userID, ok := httputil.UUIDParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.service.Unfollow(c.Request.Context(), callerID, userID); err != nil {
		httputil.Fail(c, h.log, "error unfollowing user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully unfollowed user"})
}

func (h *ProfileHandler) Followers(c *gin.Context) {
	userID, ok := httputil.UUIDParam(c, "user_id")
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, followPageLimit)
	if !ok {
		return
	}
	page, err := h.service.Followers(c.Request.Context(), userID, skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing followers", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProfileHandler) Following(c *gin.Context) {
	userID, ok := httputil.UUIDParam(c, "user_id")
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, followPageLimit)
	if !ok {
		return
	}
	page, err := h.service.Following(c.Request.Context(), userID, skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error listing following", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProfileHandler) SearchUsers(c *gin.Context) {
	callerID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	skip, limit, ok := httputil.Page(c, followPageLimit)
	if !ok {
		return
	}
	page, err := h.service.SearchUsers(c.Request.Context(), callerID, c.Query("query"), skip, limit)
	if err != nil {
		httputil.Fail(c, h.log, "error searching users", err)
		return
	}
	c.JSON(http.StatusOK, page)
}
