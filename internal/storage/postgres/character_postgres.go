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

type CharacterPostgres struct {
	db *pgxpool.Pool
}

func NewCharacterPostgres(db *pgxpool.Pool) *CharacterPostgres {
	return &CharacterPostgres{db: db}
}

const characterColumns = `id, name, avatar, persona, created_at`

func scanCharacter(row pgx.Row) (*models.Character, error) {
	var c models.Character
	if err := row.Scan(&c.ID, &c.Name, &c.AvatarKey, &c.Persona, &c.CreatedAt); err != nil {
		return nil, notFound(err, app_errors.ErrCharacterNotFound)
	}
	return &c, nil
}

func (r *CharacterPostgres) CreateCharacter(ctx context.Context, c models.Character) (*models.Character, error) {
	query := `
		INSERT INTO characters (name, avatar, persona)
		VALUES ($1, $2, $3)
		RETURNING ` + characterColumns
	return scanCharacter(r.db.QueryRow(ctx, query, c.Name, c.AvatarKey, c.Persona))
}

func (r *CharacterPostgres) Character(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	return scanCharacter(r.db.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
}

func (r *CharacterPostgres) Characters(ctx context.Context, skip, limit int) ([]models.Character, error) {
	skip, limit = page(skip, limit)
	rows, err := r.db.Query(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY created_at DESC OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateCharacter applies the non-nil fields and returns the avatar key it replaced.
func (r *CharacterPostgres) UpdateCharacter(ctx context.Context, id uuid.UUID, name, persona, avatarKey *string) (*models.Character, string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback(ctx)

	old, err := scanCharacter(tx.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, "", err
	}

	query := `
		UPDATE characters SET
			name = COALESCE($2, name),
			persona = COALESCE($3, persona),
			avatar = COALESCE($4, avatar)
		WHERE id = $1
		RETURNING ` + characterColumns
	updated, err := scanCharacter(tx.QueryRow(ctx, query, id, name, persona, avatarKey))
	if err != nil {
		return nil, "", fmt.Errorf("update character: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}

	replaced := ""
	if avatarKey != nil && old.AvatarKey != updated.AvatarKey {
		replaced = old.AvatarKey
	}
	return updated, replaced, nil
}

// DeleteCharacter refuses while a timeline still points at the character.
func (r *CharacterPostgres) DeleteCharacter(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx, `DELETE FROM characters WHERE id = $1 RETURNING `+characterColumns, id))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, app_errors.ErrCharacterInUse
		}
		return nil, err
	}
	return c, nil
}
