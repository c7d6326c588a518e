package quiz

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type QuizService interface {
	CreateQuiz(ctx context.Context, storyID uuid.UUID, questions []models.Question) (*models.Quiz, error)
	Quiz(ctx context.Context, id uuid.UUID, admin bool) (*models.Quiz, error)
	StoryQuiz(ctx context.Context, userID, storyID uuid.UUID, admin bool) (*models.Quiz, error)
	Quizzes(ctx context.Context, skip, limit int, admin bool) ([]models.Quiz, error)
	UpdateQuiz(ctx context.Context, id uuid.UUID, questions []models.Question) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id uuid.UUID) error
	Submit(ctx context.Context, userID, quizID uuid.UUID, answers []models.QuizAnswer) (*models.QuizResult, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.QuizHistoryEntry, error)
}

type QuizHandler struct {
	log     logger.Log
	service QuizService
}

func NewQuizHandler(l logger.Log, s QuizService) *QuizHandler {
	return &QuizHandler{
		log:     l,
		service: s,
	}
}

type quizRequest struct {
	Questions []models.Question `json:"questions" binding:"required"`
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	storyID, ok := httputil.UUIDParam(c, "story_id")
	if !ok {
		return
	}
	var input quizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	quiz, err := h.service.CreateQuiz(c.Request.Context(), storyID, input.Questions)
	if err != nil {
		httputil.Fail(c, h.log, "error creating quiz", err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) Quiz(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "quiz_id")
	if !ok {
		return
	}
	quiz, err := h.service.Quiz(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving quiz", err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) StoryQuiz(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	storyID, ok := httputil.UUIDParam(c, "story_id")
	if !ok {
		return
	}
	quiz, err := h.service.StoryQuiz(c.Request.Context(), userID, storyID, middleware.IsAdmin(c))
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving story quiz", err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Quizzes(c *gin.Context) {
	skip, limit, ok := httputil.Page(c, httputil.DefaultLimit)
	if !ok {
		return
	}
	list, err := h.service.Quizzes(c.Request.Context(), skip, limit, middleware.IsAdmin(c))
	if err != nil {
		httputil.Fail(c, h.log, "error listing quizzes", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "quiz_id")
	if !ok {
		return
	}
	var input quizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	quiz, err := h.service.UpdateQuiz(c.Request.Context(), id, input.Questions)
	if err != nil {
		httputil.Fail(c, h.log, "error updating quiz", err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "quiz_id")
	if !ok {
		return
	}
	if err := h.service.DeleteQuiz(c.Request.Context(), id); err != nil {
		httputil.Fail(c, h.log, "error deleting quiz", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type submitRequest struct {
	QuizID  uuid.UUID           `json:"quiz_id" binding:"required"`
	Answers []models.QuizAnswer `json:"answers" binding:"required,dive"`
}

func (h *QuizHandler) Submit(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	var input submitRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	res, err := h.service.Submit(c.Request.Context(), userID, input.QuizID, input.Answers)
	if err != nil {
		httputil.Fail(c, h.log, "error submitting quiz", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *QuizHandler) History(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	list, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving quiz history", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
