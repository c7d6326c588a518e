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

type StoryPostgres struct {
	db *pgxpool.Pool
}

func NewStoryPostgres(db *pgxpool.Pool) *StoryPostgres {
	return &StoryPostgres{db: db}
}

const storyColumns = `id, timeline_id, story_date, title, description, story_type, thumbnail, video, likes, views, created_at`

func scanStory(row pgx.Row) (*models.Story, error) {
	var s models.Story
	err := row.Scan(&s.ID, &s.TimelineID, &s.StoryDate, &s.Title, &s.Desc, &s.StoryType,
		&s.ThumbnailKey, &s.VideoKey, &s.Likes, &s.Views, &s.CreatedAt)
	if err != nil {
		return nil, notFound(err, app_errors.ErrStoryNotFound)
	}
	return &s, nil
}

func collectStories(rows pgx.Rows) ([]models.Story, error) {
	defer rows.Close()
	out := make([]models.Story, 0)
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func insertTimestamps(ctx context.Context, q querier, storyID uuid.UUID, timestamps []models.Timestamp) ([]models.Timestamp, error) {
	out := make([]models.Timestamp, 0, len(timestamps))
	query := `INSERT INTO story_timestamps (story_id, time_sec, label) VALUES ($1, $2, $3) RETURNING id`
	for _, ts := range timestamps {
		ts.StoryID = storyID
		if err := q.QueryRow(ctx, query, storyID, ts.TimeSec, ts.Label).Scan(&ts.ID); err != nil {
			return nil, fmt.Errorf("insert timestamp: %w", err)
		}
		out = append(out, ts)
	}
	return out, nil
}

func (r *StoryPostgres) CreateStory(ctx context.Context, s models.Story, timestamps []models.Timestamp) (*models.Story, []models.Timestamp, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO stories (timeline_id, story_date, title, description, story_type, thumbnail, video)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + storyColumns
	created, err := scanStory(tx.QueryRow(ctx, query, s.TimelineID, s.StoryDate, s.Title, s.Desc,
		s.StoryType, s.ThumbnailKey, s.VideoKey))
	if err != nil {
		return nil, nil, notFoundFK(err, app_errors.ErrTimelineNotFound)
	}

	stored, err := insertTimestamps(ctx, tx, created.ID, timestamps)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return created, stored, nil
}

func (r *StoryPostgres) Story(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	return scanStory(r.db.QueryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = $1`, id))
}

// ViewStory increments the view counter and returns the story.
func (r *StoryPostgres) ViewStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	return scanStory(r.db.QueryRow(ctx, `UPDATE stories SET views = views + 1 WHERE id = $1 RETURNING `+storyColumns, id))
}

func (r *StoryPostgres) Stories(ctx context.Context, skip, limit int) ([]models.Story, error) {
	skip, limit = page(skip, limit)
	rows, err := r.db.Query(ctx, `SELECT `+storyColumns+` FROM stories ORDER BY created_at DESC OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectStories(rows)
}

func (r *StoryPostgres) StoriesByTimeline(ctx context.Context, timelineID uuid.UUID) ([]models.Story, error) {
	rows, err := r.db.Query(ctx, `SELECT `+storyColumns+` FROM stories WHERE timeline_id = $1 ORDER BY story_date, created_at`, timelineID)
	if err != nil {
		return nil, err
	}
	return collectStories(rows)
}

func (r *StoryPostgres) Timestamps(ctx context.Context, storyID uuid.UUID) ([]models.Timestamp, error) {
	rows, err := r.db.Query(ctx, `SELECT id, story_id, time_sec, label FROM story_timestamps WHERE story_id = $1 ORDER BY time_sec`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Timestamp, 0)
	for rows.Next() {
		var ts models.Timestamp
		if err := rows.Scan(&ts.ID, &ts.StoryID, &ts.TimeSec, &ts.Label); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// UpdateStory applies the non-nil fields, replaces timestamps when given,
// and returns the media keys it replaced.
func (r *StoryPostgres) UpdateStory(ctx context.Context, id uuid.UUID, upd models.StoryUpdate) (*models.Story, []string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	old, err := scanStory(tx.QueryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, nil, err
	}

	query := `
		UPDATE stories SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			story_date = COALESCE($4, story_date),
			story_type = COALESCE($5, story_type),
			thumbnail = COALESCE($6, thumbnail),
			video = COALESCE($7, video)
		WHERE id = $1
		RETURNING ` + storyColumns
	updated, err := scanStory(tx.QueryRow(ctx, query, id, upd.Title, upd.Desc, upd.StoryDate, upd.StoryType,
		upd.ThumbnailKey, upd.VideoKey))
	if err != nil {
		return nil, nil, fmt.Errorf("update story: %w", err)
	}

	if upd.Timestamps != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM story_timestamps WHERE story_id = $1`, id); err != nil {
			return nil, nil, err
		}
		if _, err := insertTimestamps(ctx, tx, id, upd.Timestamps); err != nil {
			return nil, nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	var replaced []string
	if upd.ThumbnailKey != nil && old.ThumbnailKey != updated.ThumbnailKey {
		replaced = append(replaced, old.ThumbnailKey)
	}
	if upd.VideoKey != nil && old.VideoKey != updated.VideoKey {
		replaced = append(replaced, old.VideoKey)
	}
	return updated, replaced, nil
}

func (r *StoryPostgres) DeleteStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	return scanStory(r.db.QueryRow(ctx, `DELETE FROM stories WHERE id = $1 RETURNING `+storyColumns, id))
}

// RecordStoryView marks the story seen and awards points on the first view only.
func (r *StoryPostgres) RecordStoryView(ctx context.Context, userID, storyID uuid.UUID, points int) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO story_views (user_id, story_id, is_seen) VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, story_id) DO UPDATE SET is_seen = TRUE
		WHERE NOT story_views.is_seen
	`
	tag, err := tx.Exec(ctx, query, userID, storyID)
	if err != nil {
		return false, notFoundFK(err, app_errors.ErrStoryNotFound)
	}
	first := tag.RowsAffected() == 1
	if first && points != 0 {
		if _, err := addPoints(ctx, tx, userID, points); err != nil {
			return false, err
		}
	}
	return first, tx.Commit(ctx)
}

// SeenStories reports which of the stories the user has seen.
func (r *StoryPostgres) SeenStories(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return seen, nil
	}
	rows, err := r.db.Query(ctx, `SELECT story_id FROM story_views WHERE user_id = $1 AND is_seen AND story_id = ANY($2)`, userID, ids)
	if err != nil {
		return nil, err
	}
	got, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, err
	}
	for _, id := range got {
		seen[id] = true
	}
	return seen, nil
}

// ToggleLike flips the user's like and returns the new state and like count.
func (r *StoryPostgres) ToggleLike(ctx context.Context, userID, storyID uuid.UUID) (bool, int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM story_likes WHERE user_id = $1 AND story_id = $2`, userID, storyID)
	if err != nil {
		return false, 0, err
	}

	liked := tag.RowsAffected() == 0
	counter := `UPDATE stories SET likes = GREATEST(likes - 1, 0) WHERE id = $1 RETURNING likes`
	if liked {
		if _, err := tx.Exec(ctx, `INSERT INTO story_likes (user_id, story_id) VALUES ($1, $2)`, userID, storyID); err != nil {
			return false, 0, notFoundFK(err, app_errors.ErrStoryNotFound)
		}
		counter = `UPDATE stories SET likes = likes + 1 WHERE id = $1 RETURNING likes`
	}

	var likes int
	if err := tx.QueryRow(ctx, counter, storyID).Scan(&likes); err != nil {
		return false, 0, notFound(err, app_errors.ErrStoryNotFound)
	}
	return liked, likes, tx.Commit(ctx)
}

func (r *StoryPostgres) IsLiked(ctx context.Context, userID, storyID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM story_likes WHERE user_id = $1 AND story_id = $2)`, userID, storyID).Scan(&ok)
	return ok, err
}
