package quiz

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
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeQuizzes struct {
	QuizService
	admin     bool
	answers   []models.QuizAnswer
	completed bool
}

func (f *fakeQuizzes) StoryQuiz(_ context.Context, _, storyID uuid.UUID, admin bool) (*models.Quiz, error) {
	f.admin = admin
	return &models.Quiz{StoryID: storyID, Questions: []models.Question{}}, nil
}

func (f *fakeQuizzes) Submit(_ context.Context, _, _ uuid.UUID, answers []models.QuizAnswer) (*models.QuizResult, error) {
	f.answers = answers
	if f.completed {
		return &models.QuizResult{Message: models.QuizAlreadyCompletedMsg, TotalQuestions: 2, NewTotalPoints: 140}, nil
	}
	for _, a := range answers {
		if a.QuestionID == uuid.Nil {
			return nil, app_errors.ErrInvalidQuestion
		}
	}
	return &models.QuizResult{TotalQuestions: 2, CorrectAnswers: 2, PointsEarned: 45, CompletionBonus: 25, NewTotalPoints: 145}, nil
}

func router(s QuizService, roles []string) *gin.Engine {
	h := NewQuizHandler(logger.Discard(), s)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClientIDCtx, uuid.New())
		c.Set(middleware.ClientRolesCtx, roles)
	})
	r.GET("/story/:story_id/quiz", h.StoryQuiz)
	r.POST("/quiz/submit", h.Submit)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestStoryQuizPassesAdminFlag(t *testing.T) {
	s := &fakeQuizzes{}
	w := send(router(s, []string{models.ClientRole}), http.MethodGet, "/story/"+uuid.NewString()+"/quiz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, s.admin)

	w = send(router(s, []string{models.AdminRole}), http.MethodGet, "/story/"+uuid.NewString()+"/quiz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, s.admin)
}

func TestSubmit(t *testing.T) {
	s := &fakeQuizzes{}
	r := router(s, nil)
	q1, o1 := uuid.NewString(), uuid.NewString()

	body := `{"quiz_id":"` + uuid.NewString() + `","answers":[{"question_id":"` + q1 + `","selected_option_id":"` + o1 + `"}]}`
	w := send(r, http.MethodPost, "/quiz/submit", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_questions":2,"correct_answers":2,"points_earned":45,"completion_bonus":25,"new_total_points":145}`, w.Body.String())
	require.Len(t, s.answers, 1)
	assert.Equal(t, q1, s.answers[0].QuestionID.String())

	s.completed = true
	w = send(r, http.MethodPost, "/quiz/submit", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.QuizAlreadyCompletedMsg)
}

func TestSubmitValidation(t *testing.T) {
	r := router(&fakeQuizzes{}, nil)

	w := send(r, http.MethodPost, "/quiz/submit", `{"answers":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/quiz/submit", `{"quiz_id":"`+uuid.NewString()+`","answers":[{"question_id":"`+uuid.NewString()+`"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
