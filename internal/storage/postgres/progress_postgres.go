package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

// ProgressPostgres derives badge counters from activity tables.
type ProgressPostgres struct {
	db *pgxpool.Pool
}

func NewProgressPostgres(db *pgxpool.Pool) *ProgressPostgres {
	return &ProgressPostgres{db: db}
}

const progressQuery = `
	WITH completed_timelines AS (
		SELECT t.id, t.categories
		FROM timelines t
		WHERE EXISTS (SELECT 1 FROM stories s WHERE s.timeline_id = t.id)
		  AND NOT EXISTS (
			SELECT 1 FROM stories s
			WHERE s.timeline_id = t.id
			  AND NOT EXISTS (
				SELECT 1 FROM story_views v
				WHERE v.story_id = s.id AND v.user_id = $1 AND v.is_seen
			  )
		  )
	),
	type_totals AS (
		SELECT game_type, count(*) AS total FROM game_questions GROUP BY game_type
	),
	type_solved AS (
		SELECT q.game_type, count(DISTINCT a.game_id) AS solved
		FROM game_attempts a
		JOIN game_questions q ON q.id = a.game_id
		WHERE a.user_id = $1 AND a.is_correct
		GROUP BY q.game_type
	)
	SELECT
		(SELECT count(*) FROM story_views WHERE user_id = $1 AND is_seen),
		(SELECT count(*) FROM completed_timelines),
		(SELECT count(DISTINCT c) FROM completed_timelines, unnest(categories) AS c),
		(SELECT count(*) FROM game_attempts WHERE user_id = $1),
		(SELECT count(*) FROM game_attempts WHERE user_id = $1 AND is_correct),
		(SELECT count(DISTINCT q.game_type)
		   FROM game_attempts a JOIN game_questions q ON q.id = a.game_id
		  WHERE a.user_id = $1),
		(SELECT count(*) FROM type_totals t JOIN type_solved s ON s.game_type = t.game_type
		  WHERE s.solved >= t.total),
		(SELECT COALESCE(current_login_streak, 0) FROM profiles WHERE user_id = $1),
		(SELECT count(*) FROM quiz_attempts WHERE user_id = $1 AND completed)
`

func (r *ProgressPostgres) BadgeProgress(ctx context.Context, userID uuid.UUID) (models.Progress, error) {
	var stories, timelines, categories, played, highScore, types, sets, quizzes int
	var streak *int
	err := r.db.QueryRow(ctx, progressQuery, userID).Scan(
		&stories, &timelines, &categories, &played, &highScore, &types, &sets, &streak, &quizzes,
	)
	if err != nil {
		return nil, err
	}

	p := models.Progress{
		models.CounterStoriesCompleted:          stories,
		models.CounterTimelinesCompleted:        timelines,
		models.CounterTimelinesAcrossCategories: categories,
		models.CounterGamesPlayed:               played,
		models.CounterHighScoreGames:            highScore,
		models.CounterGameTypesPlayed:           types,
		models.CounterChallengeSetsCompleted:    sets,
		models.CounterQuizzesCompleted:          quizzes,
	}
	if streak != nil {
		p[models.CounterStreakDays] = *streak
	}
	return p, nil
}

func (r *ProgressPostgres) HasRecentActivity(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM story_views WHERE user_id = $1 AND viewed_at >= $2)
		    OR EXISTS (SELECT 1 FROM timeline_views WHERE user_id = $1 AND viewed_at >= $2)
		    OR EXISTS (SELECT 1 FROM quiz_attempts WHERE user_id = $1 AND completed AND completed_at >= $2)
		    OR EXISTS (SELECT 1 FROM game_attempts WHERE user_id = $1 AND created_at >= $2)
	`
	var active bool
	err := r.db.QueryRow(ctx, query, userID, since).Scan(&active)
	return active, err
}
