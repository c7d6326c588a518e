package badge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type progressRepo interface {
	BadgeProgress(ctx context.Context, userID uuid.UUID) (models.Progress, error)
	HasRecentActivity(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error)
}

// BadgeRepo persists the badge list stored on a profile.
// UpdateBadges must run fn while holding a lock on the profile row.
type BadgeRepo interface {
	Badges(ctx context.Context, userID uuid.UUID) ([]models.Badge, error)
	UpdateBadges(ctx context.Context, userID uuid.UUID, fn func([]models.Badge) ([]models.Badge, error)) error
	InactiveBadgeHolders(ctx context.Context, since time.Time, paths []string) ([]uuid.UUID, error)
}

type awardRecorder interface {
	BadgeAwarded(badgeID string)
}

type BadgeService struct {
	log      logger.Log
	progress progressRepo
	badges   BadgeRepo
	recorder awardRecorder
	now      func() time.Time
}

func NewBadgeService(l logger.Log, p progressRepo, b BadgeRepo, r awardRecorder) *BadgeService {
	return &BadgeService{
		log:      l,
		progress: p,
		badges:   b,
		recorder: r,
		now:      time.Now,
	}
}

func (s *BadgeService) Evaluate(ctx context.Context, userID uuid.UUID) (*models.BadgeEvaluation, error) {
	progress, err := s.progress.BadgeProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("badge progress: %w", err)
	}

	now := s.now()
	active, err := s.progress.HasRecentActivity(ctx, userID, now.Add(-RetentionWindow))
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	var current, newly []models.Badge
	err = s.badges.UpdateBadges(ctx, userID, func(held []models.Badge) ([]models.Badge, error) {
		current, newly = Evaluate(held, progress, active, now)
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	res := &models.BadgeEvaluation{
		NewlyEarned:    newly,
		Current:        current,
		Progress:       progress,
		UnlockMessages: make([]string, 0, len(newly)),
	}
	if res.NewlyEarned == nil {
		res.NewlyEarned = []models.Badge{}
	}
	if res.Current == nil {
		res.Current = []models.Badge{}
	}
	for _, b := range newly {
		res.UnlockMessages = append(res.UnlockMessages, UnlockMessage(b))
		if s.recorder != nil {
			s.recorder.BadgeAwarded(b.ID)
		}
		s.log.Info("badge awarded", "user_id", userID, "badge", b.ID)
	}
	return res, nil
}

// EvaluateQuietly runs Evaluate for a side effect of a user action and only logs failures.
func (s *BadgeService) EvaluateQuietly(ctx context.Context, userID uuid.UUID) *models.BadgeEvaluation {
	res, err := s.Evaluate(ctx, userID)
	if err != nil {
		s.log.ErrorErr("badge evaluation failed", err, "user_id", userID)
		return nil
	}
	return res
}

func (s *BadgeService) DefaultBadges() []models.Badge {
	return Defaults(s.now())
}

// Initialize replaces the user's badges with the starter set.
func (s *BadgeService) Initialize(ctx context.Context, userID uuid.UUID) error {
	return s.badges.UpdateBadges(ctx, userID, func([]models.Badge) ([]models.Badge, error) {
		return Defaults(s.now()), nil
	})
}

func (s *BadgeService) EnsureDefaults(ctx context.Context, userID uuid.UUID) error {
	return s.badges.UpdateBadges(ctx, userID, func(held []models.Badge) ([]models.Badge, error) {
		out, _ := EnsureDefaults(held, s.now())
		return out, nil
	})
}

// SweepRetention re-evaluates users holding retained badges who have been inactive.
func (s *BadgeService) SweepRetention(ctx context.Context) (int, error) {
	since := s.now().Add(-RetentionWindow)
	users, err := s.badges.InactiveBadgeHolders(ctx, since, RetainedPaths())
	if err != nil {
		return 0, fmt.Errorf("inactive badge holders: %w", err)
	}

	swept := 0
	for _, id := range users {
		if err := ctx.Err(); err != nil {
			return swept, err
		}
		if _, err := s.Evaluate(ctx, id); err != nil {
			s.log.ErrorErr("retention sweep", err, "user_id", id)
			continue
		}
		swept++
	}
	s.log.Info("retention sweep finished", "users", swept)
	return swept, nil
}
