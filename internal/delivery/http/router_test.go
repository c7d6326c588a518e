package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/auth"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/community"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/content"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/game"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/leaderboard"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/profile"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/quiz"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/status"
	"github.com/SocialShift/Knowledge-Backend/internal/metrics"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	l := logger.Discard()
	cfg := &config.Config{
		RateLimit: config.RateLimit{RPS: 100, Burst: 100},
		CORS:      config.CORS{AllowOrigins: []string{"http://localhost:5173"}},
	}

	var r *gin.Engine
	require.NotPanics(t, func() {
		r = InitRoutes(l, cfg, Handlers{
			Status:        status.NewStatusHandler(l, nil),
			Auth:          auth.NewAuthHandler(l, nil),
			Profile:       profile.NewProfileHandler(l, nil, nil),
			Leaderboard:   leaderboard.NewLeaderboardHandler(l, nil),
			Content:       content.NewContentHandler(l, nil),
			Quiz:          quiz.NewQuizHandler(l, nil),
			Game:          game.NewGameHandler(l, nil),
			Community:     community.NewCommunityHandler(l, nil),
			Authenticator: middleware.NewAuthMiddlewareProvider(l, nil),
			Streak:        func(c *gin.Context) { c.Next() },
			Metrics:       metrics.New(),
		})
	})
	return r
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestPublicRoutes(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Available"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/status/ready").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/nope").Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newRouter(t)

	routes := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/auth/user/me"},
		{http.MethodGet, "/api/auth/user/3fa85f64-5717-4562-b3fc-2c963f66afa6"},
		{http.MethodGet, "/api/auth/badges"},
		{http.MethodGet, "/api/leaderboard"},
		{http.MethodGet, "/api/list/timelines"},
		{http.MethodPost, "/api/story/create"},
		{http.MethodPost, "/api/quiz/submit"},
		{http.MethodGet, "/api/onthisday/today"},
		{http.MethodGet, "/api/game/questions"},
		{http.MethodPost, "/api/game/questions/bulk"},
		{http.MethodGet, "/api/community/my-communities"},
		{http.MethodGet, "/api/community/reports"},
		{http.MethodPost, "/api/community/post/vote"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := do(r, rt.method, rt.path)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"not authenticated"}`, w.Body.String())
		})
	}
}
