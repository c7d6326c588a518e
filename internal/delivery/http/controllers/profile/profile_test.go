package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/profile"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProfiles struct {
	ProfileService
	lastInput  profile.ProfileInput
	avatarName string
	follows    map[uuid.UUID]bool
	lastSkip   int
	lastLimit  int
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, userID uuid.UUID, in profile.ProfileInput) (*models.Profile, error) {
	f.lastInput = in
	if in.Avatar != nil {
		f.avatarName = in.Avatar.Filename
	}
	return &models.Profile{UserID: userID, Nickname: in.Nickname}, nil
}

func (f *fakeProfiles) Notifications(context.Context, uuid.UUID) ([]models.Notification, error) {
	return []models.Notification{{Type: "streak_bonus", Points: 50, Streak: 7}}, nil
}

func (f *fakeProfiles) Follow(_ context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return app_errors.ErrSelfFollow
	}
	if f.follows[followingID] {
		return app_errors.ErrAlreadyFollowing
	}
	f.follows[followingID] = true
	return nil
}

func (f *fakeProfiles) Unfollow(_ context.Context, _, followingID uuid.UUID) error {
	if !f.follows[followingID] {
		return app_errors.ErrNotFollowing
	}
	delete(f.follows, followingID)
	return nil
}

func (f *fakeProfiles) Followers(_ context.Context, _ uuid.UUID, skip, limit int) (*profile.FollowPage, error) {
	f.lastSkip, f.lastLimit = skip, limit
	return &profile.FollowPage{Items: []models.FollowEntry{}, Skip: skip, Limit: limit}, nil
}

func (f *fakeProfiles) SearchUsers(_ context.Context, _ uuid.UUID, query string, skip, limit int) (*profile.SearchPage, error) {
	if len(strings.TrimSpace(query)) < profile.MinSearchQuery {
		return nil, app_errors.ErrSearchQueryTooShort
	}
	return &profile.SearchPage{Items: []models.UserSearchResult{}, Query: query, Skip: skip, Limit: limit}, nil
}

func router(s ProfileService, caller uuid.UUID) *gin.Engine {
	h := NewProfileHandler(logger.Discard(), s, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ClientIDCtx, caller) })
	r.PATCH("/profile/update", h.UpdateProfile)
	r.GET("/notifications", h.Notifications)
	r.POST("/follow", h.Follow)
	r.DELETE("/unfollow/:user_id", h.Unfollow)
	r.GET("/followers/:user_id", h.Followers)
	r.GET("/search", h.SearchUsers)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateProfileMultipart(t *testing.T) {
	s := &fakeProfiles{}
	r := router(s, uuid.New())

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("nickname", "Ada"))
	require.NoError(t, mw.WriteField("pronouns", "She/Her"))
	fw, err := mw.CreateFormFile("avatar_file", "me.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/profile/update", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada", *s.lastInput.Nickname)
	assert.Equal(t, "She/Her", *s.lastInput.Pronouns)
	assert.Nil(t, s.lastInput.Location)
	assert.Equal(t, "me.png", s.avatarName)
}

func TestNotificationsCount(t *testing.T) {
	w := send(router(&fakeProfiles{}, uuid.New()), http.MethodGet, "/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notifications []models.Notification `json:"notifications"`
		UnreadCount   int                   `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.UnreadCount)
	assert.Equal(t, 50, resp.Notifications[0].Points)
}

func TestFollowFlow(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	r := router(&fakeProfiles{follows: map[uuid.UUID]bool{}}, me)

	w := send(r, http.MethodPost, "/follow", `{"user_id":"`+me.String()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/follow", `{"user_id":"`+other.String()+`"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = send(r, http.MethodPost, "/follow", `{"user_id":"`+other.String()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodDelete, "/unfollow/"+other.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodDelete, "/unfollow/"+other.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodDelete, "/unfollow/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowersDefaultPage(t *testing.T) {
	s := &fakeProfiles{}
	w := send(router(s, uuid.New()), http.MethodGet, "/followers/"+uuid.NewString(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, s.lastSkip)
	assert.Equal(t, followPageLimit, s.lastLimit)
}

func TestSearchUsersShortQuery(t *testing.T) {
	r := router(&fakeProfiles{}, uuid.New())

	w := send(r, http.MethodGet, "/search?query=%20a%20", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodGet, "/search?query=ada", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"query":"ada"`)
}
