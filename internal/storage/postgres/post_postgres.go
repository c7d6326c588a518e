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

type PostPostgres struct {
	db *pgxpool.Pool
}

func NewPostPostgres(db *pgxpool.Pool) *PostPostgres {
	return &PostPostgres{db: db}
}

const (
	postColumns    = `id, community_id, title, body, image, upvote, downvote, created_at, created_by`
	commentColumns = `id, post_id, commented_by, comment, upvote, downvote, created_at`
)

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.CommunityID, &p.Title, &p.Body, &p.ImageKey, &p.Upvote, &p.Downvote, &p.CreatedAt, &p.CreatedBy)
	if err != nil {
		return nil, notFound(err, app_errors.ErrPostNotFound)
	}
	return &p, nil
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.CommentedBy, &c.Comment, &c.Upvote, &c.Downvote, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, app_errors.ErrCommentNotFound)
	}
	return &c, nil
}

func (r *PostPostgres) CreatePost(ctx context.Context, p models.Post) (*models.Post, error) {
	query := `
		INSERT INTO posts (community_id, title, body, image, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + postColumns
	created, err := scanPost(r.db.QueryRow(ctx, query, p.CommunityID, p.Title, p.Body, p.ImageKey, p.CreatedBy))
	if err != nil {
		return nil, notFoundFK(err, app_errors.ErrCommunityNotFound)
	}
	return created, nil
}

func (r *PostPostgres) Post(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

// Posts lists posts newest first, optionally limited to one community.
func (r *PostPostgres) Posts(ctx context.Context, communityID *uuid.UUID, skip, limit int) ([]models.Post, error) {
	skip, limit = page(skip, limit)
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE $1::uuid IS NULL OR community_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, communityID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdatePost applies the non-nil fields and returns the image key it replaced.
func (r *PostPostgres) UpdatePost(ctx context.Context, id uuid.UUID, upd models.PostUpdate) (*models.Post, string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback(ctx)

	old, err := scanPost(tx.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, "", err
	}
	query := `
		UPDATE posts SET
			title = COALESCE($2, title),
			body = COALESCE($3, body),
			image = COALESCE($4, image)
		WHERE id = $1
		RETURNING ` + postColumns
	updated, err := scanPost(tx.QueryRow(ctx, query, id, upd.Title, upd.Body, upd.ImageKey))
	if err != nil {
		return nil, "", fmt.Errorf("update post: %w", err)
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

func (r *PostPostgres) DeletePost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return scanPost(r.db.QueryRow(ctx, `DELETE FROM posts WHERE id = $1 RETURNING `+postColumns, id))
}

func voteColumn(voteType int) string {
	if voteType == models.VoteDown {
		return "downvote"
	}
	return "upvote"
}

func (r *PostPostgres) VotePost(ctx context.Context, id uuid.UUID, voteType int) (*models.Post, error) {
	col := voteColumn(voteType)
	return scanPost(r.db.QueryRow(ctx, `UPDATE posts SET `+col+` = `+col+` + 1 WHERE id = $1 RETURNING `+postColumns, id))
}

func (r *PostPostgres) CreateComment(ctx context.Context, c models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (post_id, commented_by, comment)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns
	created, err := scanComment(r.db.QueryRow(ctx, query, c.PostID, c.CommentedBy, c.Comment))
	if err != nil {
		return nil, notFoundFK(err, app_errors.ErrPostNotFound)
	}
	return created, nil
}

func (r *PostPostgres) Comment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (r *PostPostgres) Comments(ctx context.Context, postID uuid.UUID, skip, limit int) ([]models.Comment, error) {
	skip, limit = page(skip, limit)
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`
	rows, err := r.db.Query(ctx, query, postID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PostPostgres) UpdateComment(ctx context.Context, id uuid.UUID, text string) (*models.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, `UPDATE comments SET comment = $2 WHERE id = $1 RETURNING `+commentColumns, id, text))
}

func (r *PostPostgres) DeleteComment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return affected(tag, err, app_errors.ErrCommentNotFound)
}

func (r *PostPostgres) VoteComment(ctx context.Context, id uuid.UUID, voteType int) (*models.Comment, error) {
	col := voteColumn(voteType)
	return scanComment(r.db.QueryRow(ctx, `UPDATE comments SET `+col+` = `+col+` + 1 WHERE id = $1 RETURNING `+commentColumns, id))
}
