package quiz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type QuizRepo interface {
	CreateQuiz(ctx context.Context, storyID uuid.UUID, questions []models.Question) (*models.Quiz, error)
	Quiz(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	QuizByStory(ctx context.Context, storyID uuid.UUID) (*models.Quiz, error)
	Quizzes(ctx context.Context, skip, limit int) ([]models.Quiz, error)
	ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []models.Question) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id uuid.UUID) error
	EnsureAttempt(ctx context.Context, userID, quizID uuid.UUID) error
	CompleteAttempt(ctx context.Context, userID, quizID uuid.UUID, score, points int, at time.Time) (int, bool, error)
	IsCompleted(ctx context.Context, userID, quizID uuid.UUID) (bool, error)
	QuizHistory(ctx context.Context, userID uuid.UUID) ([]models.QuizHistoryEntry, error)
}

type badgeEvaluator interface {
	EvaluateQuietly(ctx context.Context, userID uuid.UUID) *models.BadgeEvaluation
}

type profileReader interface {
	Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type submitRecorder interface {
	QuizSubmitted()
}

type QuizService struct {
	log      logger.Log
	repo     QuizRepo
	profiles profileReader
	badges   badgeEvaluator
	recorder submitRecorder
	now      func() time.Time
}

func NewQuizService(l logger.Log, r QuizRepo, p profileReader, b badgeEvaluator, m submitRecorder) *QuizService {
	return &QuizService{log: l, repo: r, profiles: p, badges: b, recorder: m, now: time.Now}
}

// Validate checks that every question has text, at least two options and exactly one correct option.
func Validate(questions []models.Question) error {
	if len(questions) == 0 {
		return app_errors.ErrInvalidQuiz
	}
	for _, q := range questions {
		if strings.TrimSpace(q.Text) == "" || len(q.Options) < 2 {
			return app_errors.ErrInvalidQuiz
		}
		correct := 0
		for _, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				return app_errors.ErrInvalidQuiz
			}
			if o.IsCorrect != nil && *o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return app_errors.ErrInvalidQuiz
		}
	}
	return nil
}

func present(q *models.Quiz, admin bool) *models.Quiz {
	if !admin {
		q.HideAnswers()
	}
	return q
}

func (s *QuizService) CreateQuiz(ctx context.Context, storyID uuid.UUID, questions []models.Question) (*models.Quiz, error) {
	if err := Validate(questions); err != nil {
		return nil, err
	}
	q, err := s.repo.CreateQuiz(ctx, storyID, questions)
	if err != nil {
		return nil, err
	}
	s.log.Info("quiz created", "quiz_id", q.ID, "story_id", storyID, "questions", len(q.Questions))
	return q, nil
}

func (s *QuizService) Quiz(ctx context.Context, id uuid.UUID, admin bool) (*models.Quiz, error) {
	q, err := s.repo.Quiz(ctx, id)
	if err != nil {
		return nil, err
	}
	return present(q, admin), nil
}

// StoryQuiz opens an attempt for the caller unless one exists.
func (s *QuizService) StoryQuiz(ctx context.Context, userID, storyID uuid.UUID, admin bool) (*models.Quiz, error) {
	q, err := s.repo.QuizByStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.EnsureAttempt(ctx, userID, q.ID); err != nil {
		return nil, err
	}
	return present(q, admin), nil
}

func (s *QuizService) Quizzes(ctx context.Context, skip, limit int, admin bool) ([]models.Quiz, error) {
	list, err := s.repo.Quizzes(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range list {
		present(&list[i], admin)
	}
	return list, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, id uuid.UUID, questions []models.Question) (*models.Quiz, error) {
	if err := Validate(questions); err != nil {
		return nil, err
	}
	return s.repo.ReplaceQuestions(ctx, id, questions)
}

func (s *QuizService) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteQuiz(ctx, id)
}

// grade counts correct answers. Repeated answers to one question count once, the first wins.
func grade(q *models.Quiz, answers []models.QuizAnswer) (correct, answered int, err error) {
	questions := make(map[uuid.UUID]*models.Question, len(q.Questions))
	for i := range q.Questions {
		questions[q.Questions[i].ID] = &q.Questions[i]
	}

	done := make(map[uuid.UUID]bool, len(answers))
	for _, a := range answers {
		question, ok := questions[a.QuestionID]
		if !ok {
			return 0, 0, app_errors.ErrInvalidQuestion
		}
		var picked *models.Option
		for i := range question.Options {
			if question.Options[i].ID == a.SelectedOptionID {
				picked = &question.Options[i]
				break
			}
		}
		if picked == nil {
			return 0, 0, app_errors.ErrInvalidOption
		}
		if done[a.QuestionID] {
			continue
		}
		done[a.QuestionID] = true
		if picked.IsCorrect != nil && *picked.IsCorrect {
			correct++
		}
	}
	return correct, len(done), nil
}

// alreadyCompleted reports zero earnings together with the caller's current points.
func (s *QuizService) alreadyCompleted(ctx context.Context, userID uuid.UUID, total int) (*models.QuizResult, error) {
	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.QuizResult{
		Message:        models.QuizAlreadyCompletedMsg,
		TotalQuestions: total,
		NewTotalPoints: p.Points,
	}, nil
}

// Submit grades the answers, completes the attempt and awards points once per quiz.
func (s *QuizService) Submit(ctx context.Context, userID, quizID uuid.UUID, answers []models.QuizAnswer) (*models.QuizResult, error) {
	q, err := s.repo.Quiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	total := len(q.Questions)

	done, err := s.repo.IsCompleted(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if done {
		return s.alreadyCompleted(ctx, userID, total)
	}

	correct, answered, err := grade(q, answers)
	if err != nil {
		return nil, err
	}
	res := &models.QuizResult{TotalQuestions: total, CorrectAnswers: correct}
	if answered == total {
		res.CompletionBonus = models.QuizCompletionBonus
	}
	res.PointsEarned = correct*models.QuizPointsPerCorrect + res.CompletionBonus

	points := res.PointsEarned
	newTotal, already, err := s.repo.CompleteAttempt(ctx, userID, quizID, points, points, s.now())
	if err != nil {
		return nil, err
	}
	if already {
		return s.alreadyCompleted(ctx, userID, total)
	}
	res.NewTotalPoints = newTotal
	s.recorder.QuizSubmitted()

	if ev := s.badges.EvaluateQuietly(ctx, userID); ev.HasNew() {
		res.BadgeUpdates = ev
	}
	s.log.Info("quiz submitted", "user_id", userID, "quiz_id", quizID, "correct", correct, "points", points)
	return res, nil
}

func (s *QuizService) History(ctx context.Context, userID uuid.UUID) ([]models.QuizHistoryEntry, error) {
	return s.repo.QuizHistory(ctx, userID)
}
