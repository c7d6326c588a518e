package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	users map[string]*models.User
	roles []string
}

func (f fakeAuth) AccessClaims(_ context.Context, token string) (uuid.UUID, []string, error) {
	if token == "expired" {
		return uuid.Nil, nil, app_errors.ErrTokenExpired
	}
	u, ok := f.users[token]
	if !ok {
		return uuid.Nil, nil, errors.New("bad token")
	}
	return u.ID, f.roles, nil
}

func (f fakeAuth) User(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

type touches struct{ ids []uuid.UUID }

func (t *touches) Touch(_ context.Context, id uuid.UUID) (models.StreakState, bool, error) {
	t.ids = append(t.ids, id)
	return models.StreakState{}, true, nil
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	active := &models.User{ID: uuid.New(), IsActive: true}
	inactive := &models.User{ID: uuid.New()}
	auth := NewAuthMiddlewareProvider(logger.Discard(), fakeAuth{
		users: map[string]*models.User{"good": active, "off": inactive},
		roles: []string{models.ClientRole},
	})
	streaks := &touches{}

	r := gin.New()
	r.GET("/", auth.AuthMiddleware, StreakMiddleware(logger.Discard(), streaks), func(c *gin.Context) {
		id, _ := UserID(c)
		c.String(http.StatusOK, id.String())
	})

	w := do(r, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, active.ID.String(), w.Body.String())
	assert.Equal(t, []uuid.UUID{active.ID}, streaks.ids)

	for _, tc := range []struct {
		header string
		body   string
	}{
		{"", "not authenticated"},
		{"Token good", "not authenticated"},
		{"Bearer expired", app_errors.ErrTokenExpired.Error()},
		{"Bearer forged", "could not validate credentials"},
		{"Bearer off", app_errors.ErrUserInactive.Error()},
	} {
		w := do(r, tc.header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.header)
		assert.Contains(t, w.Body.String(), tc.body, tc.header)
	}
	assert.Len(t, streaks.ids, 1)
}

func TestRequireAdmin(t *testing.T) {
	run := func(roles []string) int {
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			c.Set(ClientRolesCtx, roles)
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return do(r, "").Code
	}
	assert.Equal(t, http.StatusNoContent, run([]string{models.ClientRole, models.AdminRole}))
	assert.Equal(t, http.StatusForbidden, run([]string{models.ClientRole}))

	r := gin.New()
	r.GET("/", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	w := do(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	now = now.Add(limiterIdle + time.Second)
	assert.True(t, l.allow("b"))
	assert.NotContains(t, l.visitors, "a")
}

func TestRateLimiterSweepsOncePerWindow(t *testing.T) {
	l := NewRateLimiter(1, 1)
	start := time.Now()
	now := start
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	now = start.Add(limiterIdle / 2)
	assert.True(t, l.allow("b"))
	assert.Contains(t, l.visitors, "a")
	assert.True(t, l.lastSweep.Equal(start))

	now = start.Add(limiterIdle + time.Second)
	assert.True(t, l.allow("c"))
	assert.NotContains(t, l.visitors, "a")
	assert.Contains(t, l.visitors, "b")
	assert.True(t, l.lastSweep.Equal(now))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	userID := uuid.New()

	r := gin.New()
	r.Use(LoggingMiddleware(logger.NewWithWriter("prod", &buf)))
	r.GET("/missing", func(c *gin.Context) {
		c.Set(ClientIDCtx, userID)
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/missing?q=rome", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET /missing?q=rome", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, userID.String(), line["user_id"])

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
