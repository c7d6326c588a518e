package game

import (
	"context"
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
	"github.com/SocialShift/Knowledge-Backend/internal/service/game"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGames struct {
	GameService
	gameType *int
	page     int
	size     int
	bulk     []game.BulkQuestion
	option   uuid.UUID
}

func (f *fakeGames) Questions(_ context.Context, gameType *int, page, size int) (*models.GameQuestionPage, error) {
	f.gameType, f.page, f.size = gameType, page, size
	if page < 1 || size < 1 || size > game.MaxPageSize {
		return nil, app_errors.ErrInvalidPagination
	}
	return &models.GameQuestionPage{Items: []models.GameQuestion{}, Page: page, Size: size}, nil
}

func (f *fakeGames) CreateQuestions(_ context.Context, _ int, in []game.BulkQuestion) ([]models.GameQuestion, error) {
	f.bulk = in
	return []models.GameQuestion{}, nil
}

func (f *fakeGames) Attempt(_ context.Context, _, questionID, optionID uuid.UUID) (*models.GameAttemptResult, error) {
	if optionID != f.option {
		return nil, app_errors.ErrGameOptionNotFound
	}
	return &models.GameAttemptResult{
		Attempt:         models.GameAttempt{GameID: questionID, SelectedOptionID: optionID, IsCorrect: true},
		IsCorrect:       true,
		PointsEarned:    models.GameCorrectPoints,
		CorrectOptionID: optionID,
	}, nil
}

func router(s GameService) *gin.Engine {
	h := NewGameHandler(logger.Discard(), s)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ClientIDCtx, uuid.New()) })
	r.GET("/questions", h.Questions)
	r.POST("/questions/bulk", h.CreateQuestions)
	r.POST("/attempt", h.Attempt)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestQuestionsQuery(t *testing.T) {
	s := &fakeGames{}
	r := router(s)

	w := send(r, http.MethodGet, "/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, s.gameType)
	assert.Equal(t, 1, s.page)
	assert.Equal(t, game.DefaultPageSize, s.size)

	w = send(r, http.MethodGet, "/questions?game_type=2&page=3&size=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, *s.gameType)
	assert.Equal(t, 3, s.page)
	assert.Equal(t, 5, s.size)

	for _, q := range []string{"page=0", "size=101", "page=abc", "game_type=x"} {
		w = send(r, http.MethodGet, "/questions?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestBulkCreate(t *testing.T) {
	s := &fakeGames{}
	r := router(s)

	body := `{"game_type":1,"questions":[{"title":"When did Rome fall?","options":[{"text":"476","is_correct":true},{"text":"1453","is_correct":false}]}]}`
	w := send(r, http.MethodPost, "/questions/bulk", body)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, s.bulk, 1)
	assert.Equal(t, "When did Rome fall?", s.bulk[0].Title)
	assert.Len(t, s.bulk[0].Options, 2)

	w = send(r, http.MethodPost, "/questions/bulk", `{"game_type":1,"questions":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttempt(t *testing.T) {
	s := &fakeGames{option: uuid.New()}
	r := router(s)
	question := uuid.NewString()

	w := send(r, http.MethodPost, "/attempt", `{"standalone_question_id":"`+question+`","selected_option_id":"`+s.option.String()+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"points_earned":5`)
	assert.Contains(t, w.Body.String(), `"is_correct":true`)

	w = send(r, http.MethodPost, "/attempt", `{"standalone_question_id":"`+question+`","selected_option_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodPost, "/attempt", `{"selected_option_id":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
