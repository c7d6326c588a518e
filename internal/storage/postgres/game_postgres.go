package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

type GamePostgres struct {
	db *pgxpool.Pool
}

func NewGamePostgres(db *pgxpool.Pool) *GamePostgres {
	return &GamePostgres{db: db}
}

const gameQuestionColumns = `id, title, game_type, image, story_id, created_at`

func scanGameQuestion(row pgx.Row) (*models.GameQuestion, error) {
	var q models.GameQuestion
	if err := row.Scan(&q.ID, &q.Title, &q.GameType, &q.ImageKey, &q.StoryID, &q.CreatedAt); err != nil {
		return nil, notFound(err, app_errors.ErrGameQuestionNotFound)
	}
	q.Options = make([]models.GameOption, 0)
	return &q, nil
}

func insertGameQuestion(ctx context.Context, q querier, gq models.GameQuestion) (*models.GameQuestion, error) {
	query := `
		INSERT INTO game_questions (title, game_type, image, story_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + gameQuestionColumns
	created, err := scanGameQuestion(q.QueryRow(ctx, query, gq.Title, gq.GameType, gq.ImageKey, gq.StoryID))
	if err != nil {
		return nil, notFoundFK(err, app_errors.ErrStoryNotFound)
	}
	if created.Options, err = insertGameOptions(ctx, q, created.ID, gq.Options); err != nil {
		return nil, err
	}
	return created, nil
}

func insertGameOptions(ctx context.Context, q querier, questionID uuid.UUID, options []models.GameOption) ([]models.GameOption, error) {
	query := `INSERT INTO game_options (question_id, text, is_correct, position) VALUES ($1, $2, $3, $4) RETURNING id`
	out := make([]models.GameOption, 0, len(options))
	for i, opt := range options {
		opt.QuestionID = questionID
		if err := q.QueryRow(ctx, query, questionID, opt.Text, opt.IsCorrect, i).Scan(&opt.ID); err != nil {
			return nil, fmt.Errorf("insert game option: %w", err)
		}
		out = append(out, opt)
	}
	return out, nil
}

func loadGameOptions(ctx context.Context, q querier, questions []*models.GameQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.GameQuestion, len(questions))
	ids := make([]uuid.UUID, 0, len(questions))
	for _, gq := range questions {
		byID[gq.ID] = gq
		ids = append(ids, gq.ID)
	}

	query := `
		SELECT id, question_id, text, is_correct
		FROM game_options
		WHERE question_id = ANY($1)
		ORDER BY question_id, position
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var o models.GameOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.IsCorrect); err != nil {
			return err
		}
		gq := byID[o.QuestionID]
		gq.Options = append(gq.Options, o)
	}
	return rows.Err()
}

func (r *GamePostgres) CreateGameQuestion(ctx context.Context, gq models.GameQuestion) (*models.GameQuestion, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := insertGameQuestion(ctx, tx, gq)
	if err != nil {
		return nil, err
	}
	return created, tx.Commit(ctx)
}

// CreateGameQuestions inserts all questions or none.
func (r *GamePostgres) CreateGameQuestions(ctx context.Context, questions []models.GameQuestion) ([]models.GameQuestion, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]models.GameQuestion, 0, len(questions))
	for _, gq := range questions {
		created, err := insertGameQuestion(ctx, tx, gq)
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}
	return out, tx.Commit(ctx)
}

func (r *GamePostgres) GameQuestion(ctx context.Context, id uuid.UUID) (*models.GameQuestion, error) {
	gq, err := scanGameQuestion(r.db.QueryRow(ctx, `SELECT `+gameQuestionColumns+` FROM game_questions WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := loadGameOptions(ctx, r.db, []*models.GameQuestion{gq}); err != nil {
		return nil, err
	}
	return gq, nil
}

// GameQuestions pages questions newest first, optionally filtered by type.
func (r *GamePostgres) GameQuestions(ctx context.Context, gameType *int, offset, limit int) ([]models.GameQuestion, int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM game_questions WHERE $1::int IS NULL OR game_type = $1`, gameType).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + gameQuestionColumns + `
		FROM game_questions
		WHERE $1::int IS NULL OR game_type = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, gameType, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	questions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.GameQuestion, error) {
		return scanGameQuestion(row)
	})
	if err != nil {
		return nil, 0, err
	}
	if err := loadGameOptions(ctx, r.db, questions); err != nil {
		return nil, 0, err
	}

	out := make([]models.GameQuestion, 0, len(questions))
	for _, gq := range questions {
		out = append(out, *gq)
	}
	return out, total, nil
}

// UpdateGameQuestion applies the non-nil fields, replaces options when given,
// and returns the image key it replaced.
func (r *GamePostgres) UpdateGameQuestion(ctx context.Context, id uuid.UUID, upd models.GameQuestionUpdate) (*models.GameQuestion, string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback(ctx)

	old, err := scanGameQuestion(tx.QueryRow(ctx, `SELECT `+gameQuestionColumns+` FROM game_questions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, "", err
	}

	query := `
		UPDATE game_questions SET
			title = COALESCE($2, title),
			game_type = COALESCE($3, game_type),
			story_id = COALESCE($4, story_id),
			image = COALESCE($5, image)
		WHERE id = $1
		RETURNING ` + gameQuestionColumns
	updated, err := scanGameQuestion(tx.QueryRow(ctx, query, id, upd.Title, upd.GameType, upd.StoryID, upd.ImageKey))
	if err != nil {
		return nil, "", notFoundFK(err, app_errors.ErrStoryNotFound)
	}

	if upd.Options != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM game_options WHERE question_id = $1`, id); err != nil {
			return nil, "", err
		}
		if updated.Options, err = insertGameOptions(ctx, tx, id, upd.Options); err != nil {
			return nil, "", err
		}
	} else if err := loadGameOptions(ctx, tx, []*models.GameQuestion{updated}); err != nil {
		return nil, "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}

	replaced := ""
	if upd.ImageKey != nil && old.ImageKey != updated.ImageKey {
		replaced = old.ImageKey
	}
	return updated, replaced, nil
}

func (r *GamePostgres) DeleteGameQuestion(ctx context.Context, id uuid.UUID) (*models.GameQuestion, error) {
	return scanGameQuestion(r.db.QueryRow(ctx, `DELETE FROM game_questions WHERE id = $1 RETURNING `+gameQuestionColumns, id))
}

// RecordAttempt stores the attempt and adds points in one transaction.
func (r *GamePostgres) RecordAttempt(ctx context.Context, a models.GameAttempt, points int) (*models.GameAttempt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO game_attempts (user_id, game_id, selected_option_id, is_correct)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, query, a.UserID, a.GameID, a.SelectedOptionID, a.IsCorrect).Scan(&a.ID, &a.CreatedAt); err != nil {
		return nil, notFoundFK(err, app_errors.ErrGameQuestionNotFound)
	}
	if points != 0 {
		if _, err := addPoints(ctx, tx, a.UserID, points); err != nil {
			return nil, err
		}
	}
	return &a, tx.Commit(ctx)
}

func (r *GamePostgres) Attempts(ctx context.Context, userID uuid.UUID) ([]models.GameAttempt, error) {
	query := `
		SELECT id, user_id, game_id, selected_option_id, is_correct, created_at
		FROM game_attempts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.GameAttempt, error) {
		var a models.GameAttempt
		err := row.Scan(&a.ID, &a.UserID, &a.GameID, &a.SelectedOptionID, &a.IsCorrect, &a.CreatedAt)
		return a, err
	})
}
