package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

type QuizPostgres struct {
	db *pgxpool.Pool
}

func NewQuizPostgres(db *pgxpool.Pool) *QuizPostgres {
	return &QuizPostgres{db: db}
}

func insertQuestions(ctx context.Context, q querier, quizID uuid.UUID, questions []models.Question) error {
	insertQuestion := `INSERT INTO questions (quiz_id, text, position) VALUES ($1, $2, $3) RETURNING id`
	insertOption := `INSERT INTO options (question_id, text, is_correct, position) VALUES ($1, $2, $3, $4)`
	for i, question := range questions {
		var questionID uuid.UUID
		if err := q.QueryRow(ctx, insertQuestion, quizID, question.Text, i).Scan(&questionID); err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		for j, opt := range question.Options {
			correct := opt.IsCorrect != nil && *opt.IsCorrect
			if _, err := q.Exec(ctx, insertOption, questionID, opt.Text, correct, j); err != nil {
				return fmt.Errorf("insert option: %w", err)
			}
		}
	}
	return nil
}

// loadQuestions fills the questions and options of the given quizzes in order.
func loadQuestions(ctx context.Context, q querier, quizzes []*models.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}
	byQuiz := make(map[uuid.UUID]*models.Quiz, len(quizzes))
	ids := make([]uuid.UUID, 0, len(quizzes))
	for _, quiz := range quizzes {
		quiz.Questions = make([]models.Question, 0)
		byQuiz[quiz.ID] = quiz
		ids = append(ids, quiz.ID)
	}

	query := `
		SELECT q.quiz_id, q.id, q.text, o.id, o.text, o.is_correct
		FROM questions q
		LEFT JOIN options o ON o.question_id = q.id
		WHERE q.quiz_id = ANY($1)
		ORDER BY q.quiz_id, q.position, o.position
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var quizID, questionID uuid.UUID
		var questionText string
		var optionID *uuid.UUID
		var optionText *string
		var correct *bool
		if err := rows.Scan(&quizID, &questionID, &questionText, &optionID, &optionText, &correct); err != nil {
			return err
		}

		quiz := byQuiz[quizID]
		n := len(quiz.Questions)
		if n == 0 || quiz.Questions[n-1].ID != questionID {
			quiz.Questions = append(quiz.Questions, models.Question{
				ID: questionID, QuizID: quizID, Text: questionText, Options: make([]models.Option, 0),
			})
			n++
		}
		if optionID != nil {
			quiz.Questions[n-1].Options = append(quiz.Questions[n-1].Options, models.Option{
				ID: *optionID, QuestionID: questionID, Text: *optionText, IsCorrect: correct,
			})
		}
	}
	return rows.Err()
}

func (r *QuizPostgres) CreateQuiz(ctx context.Context, storyID uuid.UUID, questions []models.Question) (*models.Quiz, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	quiz := &models.Quiz{StoryID: storyID}
	err = tx.QueryRow(ctx, `INSERT INTO quizzes (story_id) VALUES ($1) RETURNING id, created_at`, storyID).
		Scan(&quiz.ID, &quiz.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, app_errors.ErrQuizExists
		}
		return nil, notFoundFK(err, app_errors.ErrStoryNotFound)
	}
	if err := insertQuestions(ctx, tx, quiz.ID, questions); err != nil {
		return nil, err
	}
	if err := loadQuestions(ctx, tx, []*models.Quiz{quiz}); err != nil {
		return nil, err
	}
	return quiz, tx.Commit(ctx)
}

func (r *QuizPostgres) quizWhere(ctx context.Context, where string, arg any) (*models.Quiz, error) {
	quiz := &models.Quiz{}
	err := r.db.QueryRow(ctx, `SELECT id, story_id, created_at FROM quizzes WHERE `+where, arg).
		Scan(&quiz.ID, &quiz.StoryID, &quiz.CreatedAt)
	if err != nil {
		return nil, notFound(err, app_errors.ErrQuizNotFound)
	}
	if err := loadQuestions(ctx, r.db, []*models.Quiz{quiz}); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *QuizPostgres) Quiz(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	return r.quizWhere(ctx, "id = $1", id)
}

func (r *QuizPostgres) QuizByStory(ctx context.Context, storyID uuid.UUID) (*models.Quiz, error) {
	return r.quizWhere(ctx, "story_id = $1", storyID)
}

func (r *QuizPostgres) Quizzes(ctx context.Context, skip, limit int) ([]models.Quiz, error) {
	skip, limit = page(skip, limit)
	rows, err := r.db.Query(ctx, `SELECT id, story_id, created_at FROM quizzes ORDER BY created_at DESC OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	quizzes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Quiz, error) {
		q := &models.Quiz{}
		return q, row.Scan(&q.ID, &q.StoryID, &q.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	if err := loadQuestions(ctx, r.db, quizzes); err != nil {
		return nil, err
	}

	out := make([]models.Quiz, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, *q)
	}
	return out, nil
}

// ReplaceQuestions swaps the quiz's questions and options for new ones.
func (r *QuizPostgres) ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []models.Question) (*models.Quiz, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	quiz := &models.Quiz{}
	err = tx.QueryRow(ctx, `SELECT id, story_id, created_at FROM quizzes WHERE id = $1 FOR UPDATE`, quizID).
		Scan(&quiz.ID, &quiz.StoryID, &quiz.CreatedAt)
	if err != nil {
		return nil, notFound(err, app_errors.ErrQuizNotFound)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quizID); err != nil {
		return nil, err
	}
	if err := insertQuestions(ctx, tx, quizID, questions); err != nil {
		return nil, err
	}
	if err := loadQuestions(ctx, tx, []*models.Quiz{quiz}); err != nil {
		return nil, err
	}
	return quiz, tx.Commit(ctx)
}

func (r *QuizPostgres) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return affected(tag, err, app_errors.ErrQuizNotFound)
}

// EnsureAttempt records an open attempt unless one exists.
func (r *QuizPostgres) EnsureAttempt(ctx context.Context, userID, quizID uuid.UUID) error {
	query := `INSERT INTO quiz_attempts (user_id, quiz_id) VALUES ($1, $2) ON CONFLICT (user_id, quiz_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, userID, quizID)
	return notFoundFK(err, app_errors.ErrQuizNotFound)
}

// CompleteAttempt marks the attempt completed and adds points in one transaction.
// It returns alreadyCompleted=true without changes when a completed attempt exists.
func (r *QuizPostgres) CompleteAttempt(ctx context.Context, userID, quizID uuid.UUID, score, points int, at time.Time) (total int, alreadyCompleted bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO quiz_attempts (user_id, quiz_id, completed, score, completed_at)
		VALUES ($1, $2, TRUE, $3, $4)
		ON CONFLICT (user_id, quiz_id) DO UPDATE
		SET completed = TRUE, score = EXCLUDED.score, completed_at = EXCLUDED.completed_at
		WHERE NOT quiz_attempts.completed
	`
	tag, err := tx.Exec(ctx, upsert, userID, quizID, score, at)
	if err != nil {
		return 0, false, notFoundFK(err, app_errors.ErrQuizNotFound)
	}
	if tag.RowsAffected() == 0 {
		return 0, true, nil
	}

	total, err = addPoints(ctx, tx, userID, points)
	if err != nil {
		return 0, false, err
	}
	return total, false, tx.Commit(ctx)
}

func (r *QuizPostgres) IsCompleted(ctx context.Context, userID, quizID uuid.UUID) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM quiz_attempts WHERE user_id = $1 AND quiz_id = $2 AND completed)`
	err := r.db.QueryRow(ctx, query, userID, quizID).Scan(&ok)
	return ok, err
}

func (r *QuizPostgres) QuizHistory(ctx context.Context, userID uuid.UUID) ([]models.QuizHistoryEntry, error) {
	query := `
		SELECT a.id, a.user_id, a.quiz_id, a.completed, a.score, a.created_at, a.completed_at,
		       s.id, s.title
		FROM quiz_attempts a
		JOIN quizzes q ON q.id = a.quiz_id
		JOIN stories s ON s.id = q.story_id
		WHERE a.user_id = $1 AND a.completed
		ORDER BY a.completed_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.QuizHistoryEntry, 0)
	for rows.Next() {
		var e models.QuizHistoryEntry
		a := &e.QuizAttempt
		err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Completed, &a.Score, &a.CreatedAt, &a.CompletedAt,
			&e.StoryID, &e.StoryTitle)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
