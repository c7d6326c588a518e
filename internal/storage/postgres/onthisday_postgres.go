package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

type OnThisDayPostgres struct {
	db *pgxpool.Pool
}

func NewOnThisDayPostgres(db *pgxpool.Pool) *OnThisDayPostgres {
	return &OnThisDayPostgres{db: db}
}

const onThisDayColumns = `id, date, title, short_desc, image, story_id, created_at`

func scanOnThisDay(row pgx.Row) (*models.OnThisDay, error) {
	var e models.OnThisDay
	if err := row.Scan(&e.ID, &e.Date, &e.Title, &e.ShortDesc, &e.ImageKey, &e.StoryID, &e.CreatedAt); err != nil {
		return nil, notFound(err, app_errors.ErrOnThisDayNotFound)
	}
	return &e, nil
}

func (r *OnThisDayPostgres) CreateOnThisDay(ctx context.Context, e models.OnThisDay) (*models.OnThisDay, error) {
	query := `
		INSERT INTO on_this_day (date, title, short_desc, image, story_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + onThisDayColumns
	created, err := scanOnThisDay(r.db.QueryRow(ctx, query, e.Date, e.Title, e.ShortDesc, e.ImageKey, e.StoryID))
	switch {
	case err == nil:
		return created, nil
	case isUniqueViolation(err):
		return nil, app_errors.ErrOnThisDayExists
	case isForeignKeyViolation(err):
		return nil, app_errors.ErrStoryNotFound
	}
	return nil, err
}

func (r *OnThisDayPostgres) OnThisDayByDate(ctx context.Context, date time.Time) (*models.OnThisDay, error) {
	return scanOnThisDay(r.db.QueryRow(ctx, `SELECT `+onThisDayColumns+` FROM on_this_day WHERE date = $1`, date))
}

func (r *OnThisDayPostgres) OnThisDayList(ctx context.Context, skip, limit int) ([]models.OnThisDay, error) {
	skip, limit = page(skip, limit)
	rows, err := r.db.Query(ctx, `SELECT `+onThisDayColumns+` FROM on_this_day ORDER BY date DESC OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.OnThisDay, 0)
	for rows.Next() {
		e, err := scanOnThisDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *OnThisDayPostgres) DeleteOnThisDay(ctx context.Context, id uuid.UUID) (*models.OnThisDay, error) {
	return scanOnThisDay(r.db.QueryRow(ctx, `DELETE FROM on_this_day WHERE id = $1 RETURNING `+onThisDayColumns, id))
}
