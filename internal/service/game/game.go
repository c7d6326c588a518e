package game

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type GameRepo interface {
	CreateGameQuestion(ctx context.Context, q models.GameQuestion) (*models.GameQuestion, error)
	CreateGameQuestions(ctx context.Context, qs []models.GameQuestion) ([]models.GameQuestion, error)
	GameQuestion(ctx context.Context, id uuid.UUID) (*models.GameQuestion, error)
	GameQuestions(ctx context.Context, gameType *int, offset, limit int) ([]models.GameQuestion, int, error)
	UpdateGameQuestion(ctx context.Context, id uuid.UUID, upd models.GameQuestionUpdate) (*models.GameQuestion, string, error)
	DeleteGameQuestion(ctx context.Context, id uuid.UUID) (*models.GameQuestion, error)
	RecordAttempt(ctx context.Context, a models.GameAttempt, points int) (*models.GameAttempt, error)
	Attempts(ctx context.Context, userID uuid.UUID) ([]models.GameAttempt, error)
}

type badgeEvaluator interface {
	EvaluateQuietly(ctx context.Context, userID uuid.UUID) *models.BadgeEvaluation
}

type attemptRecorder interface {
	GameAttempted(correct bool)
}

type GameService struct {
	log      logger.Log
	repo     GameRepo
	badges   badgeEvaluator
	recorder attemptRecorder
	media    *media.Store
}

func NewGameService(l logger.Log, r GameRepo, b badgeEvaluator, m attemptRecorder, s *media.Store) *GameService {
	return &GameService{log: l, repo: r, badges: b, recorder: m, media: s}
}

type QuestionInput struct {
	Title    *string
	GameType *int
	StoryID  *uuid.UUID
	Options  []models.GameOption
	Image    *models.Upload
}

// ValidateOptions requires at least two options with exactly one correct.
func ValidateOptions(options []models.GameOption) error {
	if len(options) < 2 {
		return app_errors.ErrInvalidQuiz
	}
	correct := 0
	for _, o := range options {
		if strings.TrimSpace(o.Text) == "" {
			return app_errors.ErrInvalidQuiz
		}
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return app_errors.ErrInvalidQuiz
	}
	return nil
}

func validateType(t *int) error {
	if t != nil && !models.ValidGameType(*t) {
		return app_errors.ErrInvalidGameType
	}
	return nil
}

func (s *GameService) withImage(ctx context.Context, q *models.GameQuestion) *models.GameQuestion {
	q.ImageURL = s.media.URL(ctx, q.ImageKey)
	return q
}

func (s *GameService) CreateQuestion(ctx context.Context, in QuestionInput) (*models.GameQuestion, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" || in.GameType == nil {
		return nil, app_errors.ErrMissingField
	}
	if err := validateType(in.GameType); err != nil {
		return nil, err
	}
	if err := ValidateOptions(in.Options); err != nil {
		return nil, err
	}
	image, err := s.media.PutImage(ctx, media.PrefixGames, in.Image)
	if err != nil {
		return nil, err
	}

	q := models.GameQuestion{
		Title:    strings.TrimSpace(*in.Title),
		GameType: *in.GameType,
		StoryID:  in.StoryID,
		Options:  in.Options,
	}
	if image != nil {
		q.ImageKey = *image
	}
	created, err := s.repo.CreateGameQuestion(ctx, q)
	if err != nil {
		s.media.DiscardNew(ctx, image)
		return nil, err
	}
	return s.withImage(ctx, created), nil
}

type BulkQuestion struct {
	Title   string
	StoryID *uuid.UUID
	Options []models.GameOption
}

// CreateQuestions stores a batch of image-less questions of one type, all or none.
func (s *GameService) CreateQuestions(ctx context.Context, gameType int, in []BulkQuestion) ([]models.GameQuestion, error) {
	if err := validateType(&gameType); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, app_errors.ErrMissingField
	}
	qs := make([]models.GameQuestion, 0, len(in))
	for _, b := range in {
		if strings.TrimSpace(b.Title) == "" {
			return nil, app_errors.ErrMissingField
		}
		if err := ValidateOptions(b.Options); err != nil {
			return nil, err
		}
		qs = append(qs, models.GameQuestion{
			Title:    strings.TrimSpace(b.Title),
			GameType: gameType,
			StoryID:  b.StoryID,
			Options:  b.Options,
		})
	}

	created, err := s.repo.CreateGameQuestions(ctx, qs)
	if err != nil {
		return nil, err
	}
	s.log.Info("game questions created", "game_type", gameType, "count", len(created))
	return created, nil
}

// Pages returns the page count for total items of the given size.
func Pages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func (s *GameService) Questions(ctx context.Context, gameType *int, page, size int) (*models.GameQuestionPage, error) {
	if size == 0 {
		size = DefaultPageSize
	}
	if page < 1 || size < 1 || size > MaxPageSize {
		return nil, app_errors.ErrInvalidPagination
	}
	if err := validateType(gameType); err != nil {
		return nil, err
	}

	items, total, err := s.repo.GameQuestions(ctx, gameType, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	for i := range items {
		s.withImage(ctx, &items[i])
	}
	return &models.GameQuestionPage{
		Total: total,
		Items: items,
		Page:  page,
		Size:  size,
		Pages: Pages(total, size),
	}, nil
}

func (s *GameService) Question(ctx context.Context, id uuid.UUID) (*models.GameQuestion, error) {
	q, err := s.repo.GameQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withImage(ctx, q), nil
}

func (s *GameService) UpdateQuestion(ctx context.Context, id uuid.UUID, in QuestionInput) (*models.GameQuestion, error) {
	if in.Title == nil && in.GameType == nil && in.StoryID == nil && in.Options == nil && in.Image == nil {
		return nil, app_errors.ErrNothingToUpdate
	}
	if err := validateType(in.GameType); err != nil {
		return nil, err
	}
	if in.Options != nil {
		if err := ValidateOptions(in.Options); err != nil {
			return nil, err
		}
	}
	image, err := s.media.PutImage(ctx, media.PrefixGames, in.Image)
	if err != nil {
		return nil, err
	}

	upd := models.GameQuestionUpdate{
		Title:    in.Title,
		GameType: in.GameType,
		StoryID:  in.StoryID,
		ImageKey: image,
		Options:  in.Options,
	}
	updated, replaced, err := s.repo.UpdateGameQuestion(ctx, id, upd)
	if err != nil {
		s.media.DiscardNew(ctx, image)
		return nil, err
	}
	s.media.Discard(ctx, replaced)
	return s.withImage(ctx, updated), nil
}

func (s *GameService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	q, err := s.repo.DeleteGameQuestion(ctx, id)
	if err != nil {
		return err
	}
	s.media.Discard(ctx, q.ImageKey)
	return nil
}

// Attempt grades one answer. Every attempt is recorded; correct ones earn points.
func (s *GameService) Attempt(ctx context.Context, userID, questionID, optionID uuid.UUID) (*models.GameAttemptResult, error) {
	q, err := s.repo.GameQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	var selected *models.GameOption
	var correctID uuid.UUID
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			selected = &q.Options[i]
		}
		if q.Options[i].IsCorrect {
			correctID = q.Options[i].ID
		}
	}
	if selected == nil {
		return nil, app_errors.ErrGameOptionNotFound
	}

	points := 0
	if selected.IsCorrect {
		points = models.GameCorrectPoints
	}
	attempt, err := s.repo.RecordAttempt(ctx, models.GameAttempt{
		UserID:           userID,
		GameID:           questionID,
		SelectedOptionID: optionID,
		IsCorrect:        selected.IsCorrect,
	}, points)
	if err != nil {
		return nil, err
	}
	s.recorder.GameAttempted(selected.IsCorrect)

	res := &models.GameAttemptResult{
		Attempt:         *attempt,
		IsCorrect:       selected.IsCorrect,
		PointsEarned:    points,
		CorrectOptionID: correctID,
	}
	if ev := s.badges.EvaluateQuietly(ctx, userID); ev.HasNew() {
		res.BadgeUpdates = ev
	}
	return res, nil
}

func (s *GameService) Attempts(ctx context.Context, userID uuid.UUID) ([]models.GameAttempt, error) {
	return s.repo.Attempts(ctx, userID)
}
