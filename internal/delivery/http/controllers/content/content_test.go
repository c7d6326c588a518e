package content

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/content"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeContent struct {
	ContentService
	timeline  content.TimelineInput
	story     content.StoryInput
	otd       content.OnThisDayInput
	otdByDate time.Time
	liked     map[uuid.UUID]bool
}

func (f *fakeContent) CreateTimeline(_ context.Context, in content.TimelineInput) (*models.Timeline, error) {
	f.timeline = in
	return &models.Timeline{ID: uuid.New(), Title: *in.Title, Categories: in.Categories}, nil
}

func (f *fakeContent) CreateStory(_ context.Context, in content.StoryInput) (*models.StoryView, error) {
	f.story = in
	return &models.StoryView{}, nil
}

func (f *fakeContent) CreateOnThisDay(_ context.Context, in content.OnThisDayInput) (*models.OnThisDay, error) {
	f.otd = in
	return &models.OnThisDay{ID: uuid.New(), Date: in.Date, Title: in.Title}, nil
}

func (f *fakeContent) OnThisDayByDate(_ context.Context, date time.Time) (*models.OnThisDay, error) {
	f.otdByDate = date
	return nil, app_errors.ErrOnThisDayNotFound
}

func (f *fakeContent) ToggleLike(_ context.Context, _, storyID uuid.UUID) (bool, int, error) {
	f.liked[storyID] = !f.liked[storyID]
	if f.liked[storyID] {
		return true, 1, nil
	}
	return false, 0, nil
}

func (f *fakeContent) Search(_ context.Context, q string) ([]models.SearchHit, error) {
	if len(strings.TrimSpace(q)) < content.SearchMinLength {
		return nil, app_errors.ErrSearchQueryTooShort
	}
	return []models.SearchHit{}, nil
}

func router(s ContentService) *gin.Engine {
	h := NewContentHandler(logger.Discard(), s)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ClientIDCtx, uuid.New()) })
	r.POST("/timeline", h.CreateTimeline)
	r.POST("/story", h.CreateStory)
	r.POST("/story/:story_id/like", h.ToggleLike)
	r.POST("/onthisday", h.CreateOnThisDay)
	r.GET("/onthisday/date/:date", h.OnThisDayByDate)
	r.GET("/search", h.Search)
	return r
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("data"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateTimeline(t *testing.T) {
	s := &fakeContent{}
	r := router(s)
	charID := uuid.New()

	w := serve(r, multipartRequest(t, "/timeline", map[string]string{
		"title":             "Roman Empire",
		"year_range":        "27 BC - 476 AD",
		"main_character_id": charID.String(),
		"categories_json":   `["ancient","europe"]`,
	}, map[string]string{"thumbnail_file": "rome.png"}))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Roman Empire", *s.timeline.Title)
	assert.Equal(t, charID, *s.timeline.MainCharacterID)
	assert.Equal(t, []string{"ancient", "europe"}, s.timeline.Categories)
	assert.Equal(t, "rome.png", s.timeline.Thumbnail.Filename)
	assert.Nil(t, s.timeline.Overview)
}

func TestCreateTimelineBadInput(t *testing.T) {
	r := router(&fakeContent{})

	w := serve(r, multipartRequest(t, "/timeline", map[string]string{"title": "x", "categories_json": "ancient"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, multipartRequest(t, "/timeline", map[string]string{"title": "x", "main_character_id": "nope"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateStoryParsesForm(t *testing.T) {
	s := &fakeContent{}
	timelineID := uuid.New()

	w := serve(router(s), multipartRequest(t, "/story", map[string]string{
		"timeline_id":     timelineID.String(),
		"title":           "Caesar crosses the Rubicon",
		"story_date":      "0049-01-10",
		"story_type":      "4",
		"timestamps_json": `[{"time_sec":30,"label":"Rubicon"}]`,
	}, map[string]string{"video_file": "rubicon.mp4"}))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, timelineID, *s.story.TimelineID)
	assert.Equal(t, 4, *s.story.StoryType)
	assert.Equal(t, 49, s.story.StoryDate.Year())
	assert.Equal(t, []models.Timestamp{{TimeSec: 30, Label: "Rubicon"}}, s.story.Timestamps)
	assert.Equal(t, "rubicon.mp4", s.story.Video.Filename)
	assert.Nil(t, s.story.Thumbnail)
}

func TestCreateStoryRejectsBadDate(t *testing.T) {
	w := serve(router(&fakeContent{}), multipartRequest(t, "/story", map[string]string{
		"title":      "x",
		"story_date": "10/01/49",
	}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "YYYY-MM-DD")
}

func TestOnThisDay(t *testing.T) {
	s := &fakeContent{}
	r := router(s)

	w := serve(r, multipartRequest(t, "/onthisday", map[string]string{"title": "Moon landing"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, multipartRequest(t, "/onthisday", map[string]string{
		"date":       "1969-07-20",
		"title":      " Moon landing ",
		"short_desc": "Apollo 11 lands",
	}, nil))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Moon landing", s.otd.Title)
	assert.Equal(t, time.Date(1969, 7, 20, 0, 0, 0, 0, time.UTC), s.otd.Date)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/onthisday/date/1969-07-21", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 21, s.otdByDate.Day())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/onthisday/date/yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLike(t *testing.T) {
	r := router(&fakeContent{liked: map[uuid.UUID]bool{}})
	id := uuid.NewString()

	w := serve(r, httptest.NewRequest(http.MethodPost, "/story/"+id+"/like", nil))
	assert.JSONEq(t, `{"liked":true,"likes":1}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/story/"+id+"/like", nil))
	assert.JSONEq(t, `{"liked":false,"likes":0}`, w.Body.String())
}

func TestSearch(t *testing.T) {
	r := router(&fakeContent{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/search?q=a", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/search?q=rome", nil))
	assert.JSONEq(t, `{"query":"rome","results":[]}`, w.Body.String())
}
