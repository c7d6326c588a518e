package leaderboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/leaderboard"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type LeaderboardService interface {
	Top(ctx context.Context, userID uuid.UUID) (*leaderboard.Board, error)
	Rank(ctx context.Context, userID uuid.UUID) (*models.RankStats, error)
	Points(ctx context.Context, userID uuid.UUID) (*leaderboard.Points, error)
}

type LeaderboardHandler struct {
	log     logger.Log
	service LeaderboardService
}

func NewLeaderboardHandler(l logger.Log, s LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		log:     l,
		service: s,
	}
}

func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	board, err := h.service.Top(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error building leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *LeaderboardHandler) Rank(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	stats, err := h.service.Rank(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error computing rank", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *LeaderboardHandler) Points(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	points, err := h.service.Points(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving points", err)
		return
	}
	c.JSON(http.StatusOK, points)
}
