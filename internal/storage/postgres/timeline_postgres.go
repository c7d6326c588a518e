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

type TimelinePostgres struct {
	db *pgxpool.Pool
}

func NewTimelinePostgres(db *pgxpool.Pool) *TimelinePostgres {
	return &TimelinePostgres{db: db}
}

const timelineColumns = `id, title, thumbnail, year_range, overview, main_character_id, categories, created_at`

func scanTimeline(row pgx.Row) (*models.Timeline, error) {
	var t models.Timeline
	err := row.Scan(&t.ID, &t.Title, &t.ThumbnailKey, &t.YearRange, &t.Overview, &t.MainCharacterID, &t.Categories, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err, app_errors.ErrTimelineNotFound)
	}
	if t.Categories == nil {
		t.Categories = []string{}
	}
	return &t, nil
}

func collectTimelines(rows pgx.Rows) ([]models.Timeline, error) {
	defer rows.Close()
	out := make([]models.Timeline, 0)
	for rows.Next() {
		t, err := scanTimeline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func timelineWriteErr(err error) error {
	switch {
	case isUniqueViolation(err):
		return app_errors.ErrTimelineExists
	case isForeignKeyViolation(err):
		return app_errors.ErrCharacterNotFound
	}
	return err
}

func (r *TimelinePostgres) CreateTimeline(ctx context.Context, t models.Timeline) (*models.Timeline, error) {
	if t.Categories == nil {
		t.Categories = []string{}
	}
	query := `
		INSERT INTO timelines (title, thumbnail, year_range, overview, main_character_id, categories)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + timelineColumns
	created, err := scanTimeline(r.db.QueryRow(ctx, query, t.Title, t.ThumbnailKey, t.YearRange, t.Overview, t.MainCharacterID, t.Categories))
	if err != nil {
		return nil, timelineWriteErr(err)
	}
	return created, nil
}

func (r *TimelinePostgres) Timeline(ctx context.Context, id uuid.UUID) (*models.Timeline, error) {
	return scanTimeline(r.db.QueryRow(ctx, `SELECT `+timelineColumns+` FROM timelines WHERE id = $1`, id))
}

func (r *TimelinePostgres) Timelines(ctx context.Context, skip, limit int) ([]models.Timeline, error) {
	skip, limit = page(skip, limit)
	rows, err := r.db.Query(ctx, `SELECT `+timelineColumns+` FROM timelines ORDER BY created_at DESC OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectTimelines(rows)
}

// TimelinesByCategories returns timelines sharing at least one category.
func (r *TimelinePostgres) TimelinesByCategories(ctx context.Context, categories []string) ([]models.Timeline, error) {
	rows, err := r.db.Query(ctx, `SELECT `+timelineColumns+` FROM timelines WHERE categories && $1 ORDER BY created_at DESC`, categories)
	if err != nil {
		return nil, err
	}
	return collectTimelines(rows)
}

// UpdateTimeline applies the non-nil fields and returns the thumbnail key it replaced.
func (r *TimelinePostgres) UpdateTimeline(ctx context.Context, id uuid.UUID, upd models.TimelineUpdate) (*models.Timeline, string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback(ctx)

	old, err := scanTimeline(tx.QueryRow(ctx, `SELECT `+timelineColumns+` FROM timelines WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, "", err
	}

	query := `
		UPDATE timelines SET
			title = COALESCE($2, title),
			year_range = COALESCE($3, year_range),
			overview = COALESCE($4, overview),
			main_character_id = COALESCE($5, main_character_id),
			categories = COALESCE($6, categories),
			thumbnail = COALESCE($7, thumbnail)
		WHERE id = $1
		RETURNING ` + timelineColumns
	updated, err := scanTimeline(tx.QueryRow(ctx, query, id, upd.Title, upd.YearRange, upd.Overview,
		upd.MainCharacterID, upd.Categories, upd.ThumbnailKey))
	if err != nil {
		return nil, "", timelineWriteErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}

	replaced := ""
	if upd.ThumbnailKey != nil && old.ThumbnailKey != updated.ThumbnailKey {
		replaced = old.ThumbnailKey
	}
	return updated, replaced, nil
}

// DeleteTimeline removes the timeline with its stories and returns both for cleanup.
func (r *TimelinePostgres) DeleteTimeline(ctx context.Context, id uuid.UUID) (*models.Timeline, []models.Story, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT `+storyColumns+` FROM stories WHERE timeline_id = $1`, id)
	if err != nil {
		return nil, nil, err
	}
	stories, err := collectStories(rows)
	if err != nil {
		return nil, nil, err
	}

	t, err := scanTimeline(tx.QueryRow(ctx, `DELETE FROM timelines WHERE id = $1 RETURNING `+timelineColumns, id))
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("delete timeline: %w", err)
	}
	return t, stories, nil
}

// TimelineFlags reports which of the timelines the user has seen and bookmarked.
func (r *TimelinePostgres) TimelineFlags(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (seen, bookmarked map[uuid.UUID]bool, err error) {
	seen = make(map[uuid.UUID]bool, len(ids))
	bookmarked = make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return seen, bookmarked, nil
	}

	query := `
		SELECT t.id,
		       EXISTS (SELECT 1 FROM timeline_views v WHERE v.timeline_id = t.id AND v.user_id = $1),
		       EXISTS (SELECT 1 FROM timeline_bookmarks b WHERE b.timeline_id = t.id AND b.user_id = $1)
		FROM unnest($2::uuid[]) AS t(id)
	`
	rows, err := r.db.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var s, b bool
		if err := rows.Scan(&id, &s, &b); err != nil {
			return nil, nil, err
		}
		seen[id], bookmarked[id] = s, b
	}
	return seen, bookmarked, rows.Err()
}

// RecordTimelineView reports whether this was the user's first view.
func (r *TimelinePostgres) RecordTimelineView(ctx context.Context, userID, timelineID uuid.UUID) (bool, error) {
	query := `INSERT INTO timeline_views (user_id, timeline_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	tag, err := r.db.Exec(ctx, query, userID, timelineID)
	if err != nil {
		return false, notFoundFK(err, app_errors.ErrTimelineNotFound)
	}
	return tag.RowsAffected() == 1, nil
}

// ToggleBookmark flips the bookmark and returns the new state.
func (r *TimelinePostgres) ToggleBookmark(ctx context.Context, userID, timelineID uuid.UUID) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM timeline_bookmarks WHERE user_id = $1 AND timeline_id = $2`, userID, timelineID)
	if err != nil {
		return false, err
	}
	bookmarked := tag.RowsAffected() == 0
	if bookmarked {
		_, err = tx.Exec(ctx, `INSERT INTO timeline_bookmarks (user_id, timeline_id) VALUES ($1, $2)`, userID, timelineID)
		if err != nil {
			return false, notFoundFK(err, app_errors.ErrTimelineNotFound)
		}
	}
	return bookmarked, tx.Commit(ctx)
}

func (r *TimelinePostgres) IsBookmarked(ctx context.Context, userID, timelineID uuid.UUID) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM timeline_bookmarks WHERE user_id = $1 AND timeline_id = $2)`
	err := r.db.QueryRow(ctx, query, userID, timelineID).Scan(&ok)
	return ok, err
}

func (r *TimelinePostgres) Bookmarks(ctx context.Context, userID uuid.UUID) ([]models.Bookmark, error) {
	query := `
		SELECT t.id, t.title, t.thumbnail, t.year_range, t.overview, t.main_character_id, t.categories, t.created_at,
		       b.created_at
		FROM timeline_bookmarks b
		JOIN timelines t ON t.id = b.timeline_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Bookmark, 0)
	for rows.Next() {
		var b models.Bookmark
		t := &b.Timeline
		err := rows.Scan(&t.ID, &t.Title, &t.ThumbnailKey, &t.YearRange, &t.Overview, &t.MainCharacterID,
			&t.Categories, &t.CreatedAt, &b.BookmarkedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func notFoundFK(err, sentinel error) error {
	if isForeignKeyViolation(err) {
		return sentinel
	}
	return err
}
