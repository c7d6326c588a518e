package profile

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/profile"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const followPageLimit = 20

type ProfileService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, in profile.ProfileInput) (*models.Profile, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.ProfileView, error)
	UserProfile(ctx context.Context, viewerID, userID uuid.UUID) (*models.ProfileView, error)
	StreakInfo(ctx context.Context, userID uuid.UUID) (*models.StreakInfo, error)
	Notifications(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	CreateFeedback(ctx context.Context, userID uuid.UUID, text string) (*models.Feedback, error)
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	Followers(ctx context.Context, userID uuid.UUID, skip, limit int) (*profile.FollowPage, error)
	Following(ctx context.Context, userID uuid.UUID, skip, limit int) (*profile.FollowPage, error)
	SearchUsers(ctx context.Context, callerID uuid.UUID, query string, skip, limit int) (*profile.SearchPage, error)
}

type BadgeService interface {
	Evaluate(ctx context.Context, userID uuid.UUID) (*models.BadgeEvaluation, error)
}

type ProfileHandler struct {
	log     logger.Log
	service ProfileService
	badges  BadgeService
}

func NewProfileHandler(l logger.Log, s ProfileService, b BadgeService) *ProfileHandler {
	return &ProfileHandler{
		log:     l,
		service: s,
		badges:  b,
	}
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}

	var uploads httputil.Uploads
	defer uploads.Close()
	avatar, err := uploads.File(c, "avatar_file")
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	in := profile.ProfileInput{
		Nickname:                 httputil.FormString(c, "nickname"),
		LanguagePreference:       httputil.FormString(c, "language_preference"),
		Pronouns:                 httputil.FormString(c, "pronouns"),
		Location:                 httputil.FormString(c, "location"),
		PersonalizationQuestions: httputil.FormString(c, "personalization_questions"),
		Avatar:                   avatar,
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		httputil.Fail(c, h.log, "error updating profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	view, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving profile", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) UserProfile(c *gin.Context) {
	viewerID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	userID, ok := httputil.UUIDParam(c, "user_id")
	if !ok {
		return
	}
	view, err := h.service.UserProfile(c.Request.Context(), viewerID, userID)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving user profile", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) Streak(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	info, err := h.service.StreakInfo(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving streak", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *ProfileHandler) Notifications(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	list, err := h.service.Notifications(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list, "unread_count": len(list)})
}

func (h *ProfileHandler) Badges(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	eval, err := h.badges.Evaluate(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error evaluating badges", err)
		return
	}
	c.JSON(http.StatusOK, eval)
}

type feedbackRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *ProfileHandler) CreateFeedback(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	var input feedbackRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	fb, err := h.service.CreateFeedback(c.Request.Context(), userID, input.Text)
	if err != nil {
		httputil.Fail(c, h.log, "error creating feedback", err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}
