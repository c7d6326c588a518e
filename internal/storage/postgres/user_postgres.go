package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

const userColumns = `
	u.id, u.username, u.password, u.email, u.is_active, u.is_verified, u.joined_at,
	COALESCE(array_agg(r.name) FILTER (WHERE r.name IS NOT NULL), '{}')
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Password, &user.Email,
		&user.IsActive, &user.IsVerified, &user.JoinedAt, &user.Roles,
	)
	if err != nil {
		return nil, notFound(err, app_errors.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserPostgres) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN user_roles ur ON u.id = ur.user_id
		LEFT JOIN roles r ON ur.role_id = r.id
		WHERE u.id = $1
		GROUP BY u.id
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserPostgres) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN user_roles ur ON u.id = ur.user_id
		LEFT JOIN roles r ON ur.role_id = r.id
		WHERE lower(u.email) = lower($1)
		GROUP BY u.id
	`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// CreateUser inserts the user, its roles and its profile in one transaction.
func (r *UserPostgres) CreateUser(ctx context.Context, user models.User, profile models.Profile) (*models.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	queryUser := `
		INSERT INTO users (username, password, email)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, is_verified, joined_at
	`
	err = tx.QueryRow(ctx, queryUser, user.Username, user.Password, user.Email).
		Scan(&user.ID, &user.IsActive, &user.IsVerified, &user.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, app_errors.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	queryRole := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
	`
	for _, roleName := range user.Roles {
		if _, err = tx.Exec(ctx, queryRole, user.ID, roleName); err != nil {
			return nil, fmt.Errorf("failed to assign role %s: %w", roleName, err)
		}
	}

	badges, err := json.Marshal(profile.Badges)
	if err != nil {
		return nil, err
	}
	queryProfile := `
		INSERT INTO profiles (user_id, avatar, points, referral_code, badges)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.Exec(ctx, queryProfile, user.ID, profile.AvatarKey, profile.Points, profile.ReferralCode, badges)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgres) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE referral_code = $1)`, code).Scan(&exists)
	return exists, err
}

func (r *UserPostgres) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET email = $2 WHERE id = $1`, id, email)
	if isUniqueViolation(err) {
		return app_errors.ErrUserExists
	}
	return affected(tag, err, app_errors.ErrUserNotFound)
}

func (r *UserPostgres) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password = $2 WHERE id = $1`, id, hash)
	return affected(tag, err, app_errors.ErrUserNotFound)
}

func (r *UserPostgres) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return affected(tag, err, app_errors.ErrUserNotFound)
}

func (r *UserPostgres) CreateOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	query := `INSERT INTO verification_otps (email, code, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, email, code, expiresAt)
	return err
}

// LatestOTP returns the newest unused code for the email.
func (r *UserPostgres) LatestOTP(ctx context.Context, email string) (*models.VerificationOTP, error) {
	query := `
		SELECT id, email, code, expires_at, is_used, created_at
		FROM verification_otps
		WHERE lower(email) = lower($1) AND NOT is_used
		ORDER BY created_at DESC
		LIMIT 1
	`
	var otp models.VerificationOTP
	err := r.db.QueryRow(ctx, query, email).
		Scan(&otp.ID, &otp.Email, &otp.Code, &otp.ExpiresAt, &otp.IsUsed, &otp.CreatedAt)
	if err != nil {
		return nil, notFound(err, app_errors.ErrOTPNotFound)
	}
	return &otp, nil
}

// ConsumeOTP marks the code used and the user verified together.
func (r *UserPostgres) ConsumeOTP(ctx context.Context, otpID uuid.UUID, email string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE verification_otps SET is_used = TRUE WHERE id = $1 AND NOT is_used`, otpID)
	if err := affected(tag, err, app_errors.ErrOTPNotFound); err != nil {
		return err
	}
	tag, err = tx.Exec(ctx, `UPDATE users SET is_verified = TRUE WHERE lower(email) = lower($1)`, email)
	if err := affected(tag, err, app_errors.ErrUserNotFound); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *UserPostgres) DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM verification_otps WHERE expires_at < $1 OR is_used`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func affected(tag pgconn.CommandTag, err, sentinel error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sentinel
	}
	return nil
}
