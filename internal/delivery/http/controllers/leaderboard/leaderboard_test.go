package leaderboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/leaderboard"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBoard struct {
	err error
}

func (f fakeBoard) Top(_ context.Context, userID uuid.UUID) (*leaderboard.Board, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &leaderboard.Board{
		Leaderboard: []models.LeaderboardEntry{{Rank: 1, UserID: userID, Points: 300}},
		UserRank:    1,
	}, nil
}

func (f fakeBoard) Rank(context.Context, uuid.UUID) (*models.RankStats, error) {
	return nil, f.err
}

func (f fakeBoard) Points(context.Context, uuid.UUID) (*leaderboard.Points, error) {
	return &leaderboard.Points{Points: 120, CompletedQuizzes: 2}, f.err
}

func serve(s LeaderboardService, path string, authed bool) *httptest.ResponseRecorder {
	h := NewLeaderboardHandler(logger.Discard(), s)
	r := gin.New()
	if authed {
		r.Use(func(c *gin.Context) { c.Set(middleware.ClientIDCtx, uuid.New()) })
	}
	r.GET("/leaderboard", h.Leaderboard)
	r.GET("/user/rank", h.Rank)
	r.GET("/user/points", h.Points)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestLeaderboard(t *testing.T) {
	w := serve(fakeBoard{}, "/leaderboard", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_rank":1`)
	assert.Contains(t, w.Body.String(), `"points":300`)
}

func TestPoints(t *testing.T) {
	w := serve(fakeBoard{}, "/user/points", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"points":120,"completed_quizzes":2}`, w.Body.String())
}

func TestErrors(t *testing.T) {
	w := serve(fakeBoard{err: app_errors.ErrProfileNotFound}, "/user/rank", true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(fakeBoard{err: errors.New("redis down")}, "/leaderboard", true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(fakeBoard{}, "/leaderboard", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
