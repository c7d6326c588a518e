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

type CommunityPostgres struct {
	db *pgxpool.Pool
}

func NewCommunityPostgres(db *pgxpool.Pool) *CommunityPostgres {
	return &CommunityPostgres{db: db}
}

// communitySelect needs the viewer id as $1.
const communitySelect = `
	SELECT c.id, c.name, c.description, c.topics, c.banner, c.icon, c.created_at, c.created_by,
	       (SELECT count(*) FROM community_members m WHERE m.community_id = c.id),
	       EXISTS (SELECT 1 FROM community_members m WHERE m.community_id = c.id AND m.user_id = $1)
	FROM communities c
`

func scanCommunity(row pgx.Row) (*models.Community, error) {
	var c models.Community
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Topics, &c.BannerKey, &c.IconKey,
		&c.CreatedAt, &c.CreatedBy, &c.MemberCount, &c.IsMember)
	if err != nil {
		return nil, notFound(err, app_errors.ErrCommunityNotFound)
	}
	if c.Topics == nil {
		c.Topics = []string{}
	}
	return &c, nil
}

func collectCommunities(rows pgx.Rows) ([]models.Community, error) {
	defer rows.Close()
	out := make([]models.Community, 0)
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CreateCommunity inserts the community and makes the creator its first member.
func (r *CommunityPostgres) CreateCommunity(ctx context.Context, c models.Community) (*models.Community, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if c.Topics == nil {
		c.Topics = []string{}
	}
	query := `
		INSERT INTO communities (name, description, topics, banner, icon, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query, c.Name, c.Description, c.Topics, c.BannerKey, c.IconKey, c.CreatedBy).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("insert community: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO community_members (user_id, community_id) VALUES ($1, $2)`, c.CreatedBy, c.ID); err != nil {
		return nil, err
	}

	created, err := scanCommunity(tx.QueryRow(ctx, communitySelect+` WHERE c.id = $2`, c.CreatedBy, c.ID))
	if err != nil {
		return nil, err
	}
	return created, tx.Commit(ctx)
}

func (r *CommunityPostgres) Community(ctx context.Context, viewerID, id uuid.UUID) (*models.Community, error) {
	return scanCommunity(r.db.QueryRow(ctx, communitySelect+` WHERE c.id = $2`, viewerID, id))
}

func (r *CommunityPostgres) Communities(ctx context.Context, viewerID uuid.UUID, skip, limit int) ([]models.Community, error) {
	skip, limit = page(skip, limit)
	rows, err := r.db.Query(ctx, communitySelect+` ORDER BY c.created_at DESC OFFSET $2 LIMIT $3`, viewerID, skip, limit)
	if err != nil {
		return nil, err
	}
	return collectCommunities(rows)
}

func (r *CommunityPostgres) MyCommunities(ctx context.Context, userID uuid.UUID) ([]models.Community, error) {
	query := communitySelect + `
		JOIN community_members me ON me.community_id = c.id AND me.user_id = $1
		ORDER BY me.joined_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectCommunities(rows)
}

// UpdateCommunity applies the non-nil fields and returns the media keys it replaced.
func (r *CommunityPostgres) UpdateCommunity(ctx context.Context, viewerID, id uuid.UUID, upd models.CommunityUpdate) (*models.Community, []string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var oldBanner, oldIcon string
	err = tx.QueryRow(ctx, `SELECT banner, icon FROM communities WHERE id = $1 FOR UPDATE`, id).Scan(&oldBanner, &oldIcon)
	if err != nil {
		return nil, nil, notFound(err, app_errors.ErrCommunityNotFound)
	}

	query := `
		UPDATE communities SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			topics = COALESCE($4, topics),
			banner = COALESCE($5, banner),
			icon = COALESCE($6, icon)
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, query, id, upd.Name, upd.Description, upd.Topics, upd.BannerKey, upd.IconKey); err != nil {
		return nil, nil, fmt.Errorf("update community: %w", err)
	}
	updated, err := scanCommunity(tx.QueryRow(ctx, communitySelect+` WHERE c.id = $2`, viewerID, id))
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	var replaced []string
	if upd.BannerKey != nil && oldBanner != updated.BannerKey {
		replaced = append(replaced, oldBanner)
	}
	if upd.IconKey != nil && oldIcon != updated.IconKey {
		replaced = append(replaced, oldIcon)
	}
	return updated, replaced, nil
}

func (r *CommunityPostgres) DeleteCommunity(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	query := `
		DELETE FROM communities WHERE id = $1
		RETURNING id, name, description, topics, banner, icon, created_at, created_by, 0, FALSE
	`
	return scanCommunity(r.db.QueryRow(ctx, query, id))
}

// Join reports whether the user was added; false means already a member.
func (r *CommunityPostgres) Join(ctx context.Context, userID, communityID uuid.UUID) (bool, error) {
	query := `INSERT INTO community_members (user_id, community_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	tag, err := r.db.Exec(ctx, query, userID, communityID)
	if err != nil {
		return false, notFoundFK(err, app_errors.ErrCommunityNotFound)
	}
	return tag.RowsAffected() == 1, nil
}

// Leave reports whether the user was removed; false means not a member.
func (r *CommunityPostgres) Leave(ctx context.Context, userID, communityID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM community_members WHERE user_id = $1 AND community_id = $2`, userID, communityID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CommunityPostgres) IsMember(ctx context.Context, userID, communityID uuid.UUID) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM community_members WHERE user_id = $1 AND community_id = $2)`
	err := r.db.QueryRow(ctx, query, userID, communityID).Scan(&ok)
	return ok, err
}

func (r *CommunityPostgres) Members(ctx context.Context, communityID uuid.UUID, skip, limit int) ([]models.CommunityMember, error) {
	skip, limit = page(skip, limit)
	query := `
		SELECT user_id, community_id, joined_at
		FROM community_members
		WHERE community_id = $1
		ORDER BY joined_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, communityID, skip, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CommunityMember, error) {
		var m models.CommunityMember
		err := row.Scan(&m.UserID, &m.CommunityID, &m.JoinedAt)
		return m, err
	})
}
