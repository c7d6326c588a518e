package game

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/game"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type GameService interface {
	CreateQuestion(ctx context.Context, in game.QuestionInput) (*models.GameQuestion, error)
	CreateQuestions(ctx context.Context, gameType int, in []game.BulkQuestion) ([]models.GameQuestion, error)
	Questions(ctx context.Context, gameType *int, page, size int) (*models.GameQuestionPage, error)
	Question(ctx context.Context, id uuid.UUID) (*models.GameQuestion, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, in game.QuestionInput) (*models.GameQuestion, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	Attempt(ctx context.Context, userID, questionID, optionID uuid.UUID) (*models.GameAttemptResult, error)
	Attempts(ctx context.Context, userID uuid.UUID) ([]models.GameAttempt, error)
}

type GameHandler struct {
	log     logger.Log
	service GameService
}

func NewGameHandler(l logger.Log, s GameService) *GameHandler {
	return &GameHandler{
		log:     l,
		service: s,
	}
}

func questionInput(c *gin.Context, uploads *httputil.Uploads) (game.QuestionInput, error) {
	var in game.QuestionInput
	var err error
	if in.GameType, err = httputil.FormInt(c, "game_type"); err != nil {
		return in, err
	}
	if in.StoryID, err = httputil.FormUUID(c, "story_id"); err != nil {
		return in, err
	}
	var options []models.GameOption
	present, err := httputil.FormJSON(c, "options_json", &options)
	if err != nil {
		return in, err
	}
	if present {
		if options == nil {
			options = []models.GameOption{}
		}
		in.Options = options
	}
	if in.Image, err = uploads.File(c, "image_file"); err != nil {
		return in, err
	}
	in.Title = httputil.FormString(c, "title")
	return in, nil
}

func (h *GameHandler) CreateQuestion(c *gin.Context) {
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := questionInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	q, err := h.service.CreateQuestion(c.Request.Context(), in)
	if err != nil {
		httputil.Fail(c, h.log, "error creating game question", err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

type bulkQuestion struct {
	Title   string              `json:"title" binding:"required"`
	StoryID *uuid.UUID          `json:"story_id"`
	Options []models.GameOption `json:"options" binding:"required"`
}

type bulkRequest struct {
	GameType  int            `json:"game_type" binding:"required"`
	Questions []bulkQuestion `json:"questions" binding:"required,min=1,dive"`
}

func (h *GameHandler) CreateQuestions(c *gin.Context) {
	var input bulkRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	batch := make([]game.BulkQuestion, 0, len(input.Questions))
	for _, q := range input.Questions {
		batch = append(batch, game.BulkQuestion{Title: q.Title, StoryID: q.StoryID, Options: q.Options})
	}
	created, err := h.service.CreateQuestions(c.Request.Context(), input.GameType, batch)
	if err != nil {
		httputil.Fail(c, h.log, "error creating game questions", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, app_errors.ErrInvalidPagination
	}
	return v, nil
}

func (h *GameHandler) Questions(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	size, err := queryInt(c, "size", game.DefaultPageSize)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	var gameType *int
	if raw := c.Query("game_type"); raw != "" {
		t, err := strconv.Atoi(raw)
		if err != nil {
			httputil.BadRequest(c, app_errors.ErrInvalidGameType)
			return
		}
		gameType = &t
	}

	res, err := h.service.Questions(c.Request.Context(), gameType, page, size)
	if err != nil {
		httputil.Fail(c, h.log, "error listing game questions", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) Question(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "question_id")
	if !ok {
		return
	}
	q, err := h.service.Question(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, h.log, "error retrieving game question", err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *GameHandler) UpdateQuestion(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "question_id")
	if !ok {
		return
	}
	var uploads httputil.Uploads
	defer uploads.Close()
	in, err := questionInput(c, &uploads)
	if err != nil {
		httputil.BadRequest(c, err)
		return
	}
	q, err := h.service.UpdateQuestion(c.Request.Context(), id, in)
	if err != nil {
		httputil.Fail(c, h.log, "error updating game question", err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *GameHandler) DeleteQuestion(c *gin.Context) {
	id, ok := httputil.UUIDParam(c, "question_id")
	if !ok {
		return
	}
	if err := h.service.DeleteQuestion(c.Request.Context(), id); err != nil {
		httputil.Fail(c, h.log, "error deleting game question", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type attemptRequest struct {
	QuestionID       uuid.UUID `json:"standalone_question_id" binding:"required"`
	SelectedOptionID uuid.UUID `json:"selected_option_id" binding:"required"`
}

func (h *GameHandler) Attempt(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	var input attemptRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	res, err := h.service.Attempt(c.Request.Context(), userID, input.QuestionID, input.SelectedOptionID)
	if err != nil {
		httputil.Fail(c, h.log, "error recording game attempt", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) Attempts(c *gin.Context) {
	userID, ok := httputil.Caller(c)
	if !ok {
		return
	}
	list, err := h.service.Attempts(c.Request.Context(), userID)
	if err != nil {
		httputil.Fail(c, h.log, "error listing game attempts", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
