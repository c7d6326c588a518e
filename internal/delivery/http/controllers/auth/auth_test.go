package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	authservice "github.com/SocialShift/Knowledge-Backend/internal/service/auth"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	AuthService
	user     *models.User
	loginErr error
	deleted  []uuid.UUID
}

func pair() *models.TokenPair {
	return &models.TokenPair{
		AccessToken:  &jwt.Token{Raw: "access"},
		RefreshToken: &jwt.Token{Raw: "refresh"},
	}
}

func (f *fakeService) Register(_ context.Context, email, password, confirm string) (*models.User, *models.TokenPair, error) {
	if password != confirm {
		return nil, nil, app_errors.ErrPasswordMismatch
	}
	return &models.User{ID: f.user.ID, Email: email, Username: "ada_x1"}, pair(), nil
}

func (f *fakeService) Login(_ context.Context, email, _ string) (*authservice.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &authservice.LoginResult{
		User:   &models.User{ID: f.user.ID, Email: email},
		Streak: models.StreakState{Current: 3, Max: 5},
		Tokens: pair(),
	}, nil
}

func (f *fakeService) DeleteUser(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeService) User(context.Context, uuid.UUID) (*models.User, error) {
	return f.user, nil
}

func router(s AuthService, caller uuid.UUID) *gin.Engine {
	h := NewAuthHandler(logger.Discard(), s)
	r := gin.New()
	r.POST("/create-user", h.Register)
	r.POST("/login", h.Login)
	authed := r.Group("", func(c *gin.Context) { c.Set(middleware.ClientIDCtx, caller) })
	authed.DELETE("/delete-user", h.DeleteUser)
	authed.GET("/verification-status", h.VerificationStatus)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	id := uuid.New()
	r := router(&fakeService{user: &models.User{ID: id}}, id)

	w := send(r, http.MethodPost, "/create-user", `{"email":"ada@example.com","password":"password1","confirm_password":"password1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp["access_token"])
	assert.Equal(t, "refresh", resp["refresh_token"])
	user := resp["user"].(map[string]any)
	assert.Equal(t, id.String(), user["id"])
	assert.Equal(t, "ada_x1", user["username"])
	assert.Equal(t, false, user["is_verified"])

	w = send(r, http.MethodPost, "/create-user", `{"email":"ada@example.com","password":"password1","confirm_password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), app_errors.ErrPasswordMismatch.Error())

	w = send(r, http.MethodPost, "/create-user", `{"email":"not-an-email","password":"a","confirm_password":"a"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	id := uuid.New()
	s := &fakeService{user: &models.User{ID: id}}
	r := router(s, id)

	w := send(r, http.MethodPost, "/login", `{"email":"ada@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		User   struct{ Email string } `json:"user"`
		Streak struct{ Current, Max int }
		Token  string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, 3, resp.Streak.Current)
	assert.Equal(t, 5, resp.Streak.Max)
	assert.Equal(t, "access", resp.Token)

	s.loginErr = app_errors.ErrIncorrectPassword
	w = send(r, http.MethodPost, "/login", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.loginErr = app_errors.ErrUserInactive
	w = send(r, http.MethodPost, "/login", `{"email":"ada@example.com","password":"password1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "de-activated")
}

func TestDeleteUser(t *testing.T) {
	id := uuid.New()
	s := &fakeService{user: &models.User{ID: id}}
	w := send(router(s, id), http.MethodDelete, "/delete-user", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uuid.UUID{id}, s.deleted)
}

func TestVerificationStatus(t *testing.T) {
	id := uuid.New()
	s := &fakeService{user: &models.User{ID: id, Email: "ada@example.com", IsVerified: true}}
	w := send(router(s, id), http.MethodGet, "/verification-status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"is_verified":true,"email":"ada@example.com","message":"Email verified"}`, w.Body.String())
}
