package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

type ProfilePostgres struct {
	db *pgxpool.Pool
}

func NewProfilePostgres(db *pgxpool.Pool) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

func (r *ProfilePostgres) Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT user_id, nickname, avatar, points, referral_code, total_referrals,
		       current_login_streak, max_login_streak, last_login_date,
		       language_preference, pronouns, location, personalization_questions, badges
		FROM profiles
		WHERE user_id = $1
	`
	var p models.Profile
	var personalization, badges []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Nickname, &p.AvatarKey, &p.Points, &p.ReferralCode, &p.TotalReferrals,
		&p.CurrentLoginStreak, &p.MaxLoginStreak, &p.LastLoginDate,
		&p.LanguagePreference, &p.Pronouns, &p.Location, &personalization, &badges,
	)
	if err != nil {
		return nil, notFound(err, app_errors.ErrProfileNotFound)
	}
	if len(personalization) > 0 {
		p.PersonalizationQuestions = personalization
	}
	if p.Badges, err = decodeBadges(badges); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies the non-nil fields and returns the avatar key it replaced.
func (r *ProfilePostgres) UpdateProfile(ctx context.Context, userID uuid.UUID, upd models.ProfileUpdate) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var oldAvatar string
	err = tx.QueryRow(ctx, `SELECT avatar FROM profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&oldAvatar)
	if err != nil {
		return "", notFound(err, app_errors.ErrProfileNotFound)
	}

	var personalization []byte
	if upd.PersonalizationQuestions != nil {
		personalization = upd.PersonalizationQuestions
	}
	query := `
		UPDATE profiles SET
			nickname = COALESCE($2, nickname),
			language_preference = COALESCE($3, language_preference),
			pronouns = COALESCE($4, pronouns),
			location = COALESCE($5, location),
			personalization_questions = COALESCE($6::jsonb, personalization_questions),
			avatar = COALESCE($7, avatar)
		WHERE user_id = $1
	`
	_, err = tx.Exec(ctx, query, userID, upd.Nickname, upd.LanguagePreference, upd.Pronouns,
		upd.Location, personalization, upd.AvatarKey)
	if err != nil {
		return "", fmt.Errorf("update profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	if upd.AvatarKey == nil || *upd.AvatarKey == oldAvatar {
		return "", nil
	}
	return oldAvatar, nil
}

func decodeBadges(raw []byte) ([]models.Badge, error) {
	var badges []models.Badge
	if len(raw) == 0 {
		return badges, nil
	}
	if err := json.Unmarshal(raw, &badges); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	return badges, nil
}

func (r *ProfilePostgres) Badges(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT badges FROM profiles WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		return nil, notFound(err, app_errors.ErrProfileNotFound)
	}
	return decodeBadges(raw)
}

// UpdateBadges runs fn against the stored badges with the profile row locked.
func (r *ProfilePostgres) UpdateBadges(ctx context.Context, userID uuid.UUID, fn func([]models.Badge) ([]models.Badge, error)) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT badges FROM profiles WHERE user_id = $1 FOR UPDATE`, userID).Scan(&raw)
	if err != nil {
		return notFound(err, app_errors.ErrProfileNotFound)
	}
	current, err := decodeBadges(raw)
	if err != nil {
		return err
	}

	updated, err := fn(current)
	if err != nil {
		return err
	}
	if updated == nil {
		updated = []models.Badge{}
	}
	encoded, err := json.Marshal(updated)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE profiles SET badges = $2 WHERE user_id = $1`, userID, encoded); err != nil {
		return fmt.Errorf("store badges: %w", err)
	}
	return tx.Commit(ctx)
}

// InactiveBadgeHolders lists users holding a badge of the given paths with no activity since the cutoff.
func (r *ProfilePostgres) InactiveBadgeHolders(ctx context.Context, since time.Time, paths []string) ([]uuid.UUID, error) {
	query := `
		SELECT p.user_id
		FROM profiles p
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(p.badges) b WHERE b->>'path' = ANY($2)
		)
		AND NOT EXISTS (SELECT 1 FROM story_views v WHERE v.user_id = p.user_id AND v.viewed_at >= $1)
		AND NOT EXISTS (SELECT 1 FROM timeline_views v WHERE v.user_id = p.user_id AND v.viewed_at >= $1)
		AND NOT EXISTS (SELECT 1 FROM quiz_attempts a WHERE a.user_id = p.user_id AND a.completed_at >= $1)
		AND NOT EXISTS (SELECT 1 FROM game_attempts a WHERE a.user_id = p.user_id AND a.created_at >= $1)
	`
	rows, err := r.db.Query(ctx, query, since, paths)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

// UpdateStreak applies fn with the row locked. When fn reports a change the bonus is added to points.
func (r *ProfilePostgres) UpdateStreak(ctx context.Context, userID uuid.UUID, fn func(models.StreakState) (models.StreakState, int, bool)) (models.StreakState, int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.StreakState{}, 0, err
	}
	defer tx.Rollback(ctx)

	var cur models.StreakState
	query := `
		SELECT current_login_streak, max_login_streak, last_login_date
		FROM profiles WHERE user_id = $1 FOR UPDATE
	`
	if err := tx.QueryRow(ctx, query, userID).Scan(&cur.Current, &cur.Max, &cur.LastLoginDate); err != nil {
		return models.StreakState{}, 0, notFound(err, app_errors.ErrProfileNotFound)
	}

	next, bonus, changed := fn(cur)
	if !changed {
		return cur, 0, nil
	}

	update := `
		UPDATE profiles
		SET current_login_streak = $2, max_login_streak = $3, last_login_date = $4, points = points + $5
		WHERE user_id = $1 AND last_login_date IS DISTINCT FROM $4
	`
	tag, err := tx.Exec(ctx, update, userID, next.Current, next.Max, next.LastLoginDate, bonus)
	if err != nil {
		return models.StreakState{}, 0, fmt.Errorf("update streak: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cur, 0, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return models.StreakState{}, 0, err
	}
	return next, bonus, nil
}

// AddPoints adds delta and returns the new total.
func (r *ProfilePostgres) AddPoints(ctx context.Context, userID uuid.UUID, delta int) (int, error) {
	return addPoints(ctx, r.db, userID, delta)
}

func addPoints(ctx context.Context, q querier, userID uuid.UUID, delta int) (int, error) {
	var total int
	err := q.QueryRow(ctx, `UPDATE profiles SET points = points + $2 WHERE user_id = $1 RETURNING points`, userID, delta).Scan(&total)
	if err != nil {
		return 0, notFound(err, app_errors.ErrProfileNotFound)
	}
	return total, nil
}

func (r *ProfilePostgres) RankStats(ctx context.Context, userID uuid.UUID) (*models.RankStats, error) {
	query := `
		SELECT (SELECT count(*) FROM profiles o WHERE o.points > p.points) + 1,
		       (SELECT count(*) FROM profiles),
		       p.points, p.current_login_streak, p.max_login_streak
		FROM profiles p
		WHERE p.user_id = $1
	`
	var s models.RankStats
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&s.Rank, &s.TotalUsers, &s.Points, &s.CurrentLoginStreak, &s.MaxLoginStreak)
	if err != nil {
		return nil, notFound(err, app_errors.ErrProfileNotFound)
	}
	return &s, nil
}

func (r *ProfilePostgres) TopByPoints(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT p.user_id, COALESCE(NULLIF(p.nickname, ''), split_part(u.email, '@', 1)), p.avatar,
		       p.points, p.current_login_streak, p.max_login_streak
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.points DESC, u.joined_at ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Nickname, &e.AvatarURL, &e.Points, &e.CurrentLoginStreak, &e.MaxLoginStreak); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ProfilePostgres) CompletedQuizzes(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM quiz_attempts WHERE user_id = $1 AND completed`, userID).Scan(&n)
	return n, err
}

func (r *ProfilePostgres) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)`, followerID, followingID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return app_errors.ErrAlreadyFollowing
	case isForeignKeyViolation(err):
		return app_errors.ErrUserNotFound
	}
	return err
}

func (r *ProfilePostgres) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	return affected(tag, err, app_errors.ErrNotFollowing)
}

func (r *ProfilePostgres) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	err := r.db.QueryRow(ctx, query, followerID, followingID).Scan(&ok)
	return ok, err
}

// Followers lists who follows userID, newest first.
func (r *ProfilePostgres) Followers(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.FollowEntry, int, error) {
	return r.follows(ctx, "following_id", "follower_id", userID, skip, limit)
}

// Following lists whom userID follows, newest first.
func (r *ProfilePostgres) Following(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.FollowEntry, int, error) {
	return r.follows(ctx, "follower_id", "following_id", userID, skip, limit)
}

func (r *ProfilePostgres) follows(ctx context.Context, matchCol, otherCol string, userID uuid.UUID, skip, limit int) ([]models.FollowEntry, int, error) {
	var total int
	countQuery := `SELECT count(*) FROM follows WHERE ` + matchCol + ` = $1`
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT f.` + otherCol + `, p.nickname, COALESCE(p.avatar, ''), f.created_at
		FROM follows f
		LEFT JOIN profiles p ON p.user_id = f.` + otherCol + `
		WHERE f.` + matchCol + ` = $1
		ORDER BY f.created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]models.FollowEntry, 0)
	for rows.Next() {
		var e models.FollowEntry
		if err := rows.Scan(&e.UserID, &e.Nickname, &e.AvatarURL, &e.FollowDate); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *ProfilePostgres) SearchUsers(ctx context.Context, callerID uuid.UUID, q string, skip, limit int) ([]models.UserSearchResult, int, error) {
	pattern := "%" + q + "%"
	where := `
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id <> $1 AND (u.username ILIKE $2 OR p.nickname ILIKE $2)
	`
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) `+where, callerID, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.username, p.nickname, p.avatar,
		       EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = $1 AND f.following_id = u.id)
	` + where + `
		ORDER BY u.username
		OFFSET $3 LIMIT $4
	`
	rows, err := r.db.Query(ctx, query, callerID, pattern, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]models.UserSearchResult, 0)
	for rows.Next() {
		var u models.UserSearchResult
		if err := rows.Scan(&u.UserID, &u.Username, &u.Nickname, &u.AvatarURL, &u.IsFollowing); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *ProfilePostgres) CreateFeedback(ctx context.Context, f models.Feedback) (*models.Feedback, error) {
	query := `INSERT INTO feedback (user_id, text) VALUES ($1, $2) RETURNING id, created_at`
	if err := r.db.QueryRow(ctx, query, f.UserID, f.Text).Scan(&f.ID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
