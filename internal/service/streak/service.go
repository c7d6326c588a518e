package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

// StreakRepo applies fn to the stored streak under a row lock and adds the bonus to points when changed.
type StreakRepo interface {
	UpdateStreak(ctx context.Context, userID uuid.UUID, fn func(models.StreakState) (models.StreakState, int, bool)) (models.StreakState, int, error)
}

type dailyGuard interface {
	Acquire(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error)
	Release(ctx context.Context, userID uuid.UUID, day time.Time) error
}

type noticeStore interface {
	Put(ctx context.Context, userID uuid.UUID, notice models.StreakNotice) error
	Take(ctx context.Context, userID uuid.UUID) (*models.StreakNotice, error)
}

type badgeEvaluator interface {
	EvaluateQuietly(ctx context.Context, userID uuid.UUID) *models.BadgeEvaluation
}

type StreakService struct {
	log     logger.Log
	repo    StreakRepo
	guard   dailyGuard
	notices noticeStore
	badges  badgeEvaluator
	now     func() time.Time
}

func NewStreakService(l logger.Log, r StreakRepo, g dailyGuard, n noticeStore, b badgeEvaluator) *StreakService {
	return &StreakService{
		log:     l,
		repo:    r,
		guard:   g,
		notices: n,
		badges:  b,
		now:     time.Now,
	}
}

// Touch records a visit for today. Only the first visit of a UTC day changes anything.
func (s *StreakService) Touch(ctx context.Context, userID uuid.UUID) (models.StreakState, bool, error) {
	today := Day(s.now())

	first, err := s.guard.Acquire(ctx, userID, today)
	if err != nil {
		s.log.ErrorErr("streak guard unavailable", err, "user_id", userID)
		first = true
	}
	if !first {
		return models.StreakState{}, false, nil
	}

	var changed bool
	state, bonus, err := s.repo.UpdateStreak(ctx, userID, func(cur models.StreakState) (models.StreakState, int, bool) {
		next, bonus, ok := Advance(cur, today)
		changed = ok
		return next, bonus, ok
	})
	if err != nil {
		if rerr := s.guard.Release(ctx, userID, today); rerr != nil {
			s.log.ErrorErr("release streak guard", rerr, "user_id", userID)
		}
		return models.StreakState{}, false, fmt.Errorf("update streak: %w", err)
	}
	if !changed {
		return state, false, nil
	}

	if err := s.notices.Put(ctx, userID, models.StreakNotice{Bonus: bonus, Streak: state.Current}); err != nil {
		s.log.ErrorErr("store streak notice", err, "user_id", userID)
	}
	s.log.Debug("streak advanced", "user_id", userID, "streak", state.Current, "bonus", bonus)

	s.badges.EvaluateQuietly(ctx, userID)
	return state, true, nil
}

// ConsumeNotice returns the pending bonus notice once. A missing notice is not an error.
func (s *StreakService) ConsumeNotice(ctx context.Context, userID uuid.UUID) *models.StreakNotice {
	notice, err := s.notices.Take(ctx, userID)
	if err != nil {
		s.log.ErrorErr("take streak notice", err, "user_id", userID)
		return nil
	}
	return notice
}

func (s *StreakService) Info(profile *models.Profile, notice *models.StreakNotice) models.StreakInfo {
	now := s.now()
	milestone, left := NextMilestone(profile.CurrentLoginStreak)
	info := models.StreakInfo{
		CurrentStreak:       profile.CurrentLoginStreak,
		MaxStreak:           profile.MaxLoginStreak,
		StreakStatus:        Status(profile.LastLoginDate, now),
		NextMilestone:       milestone,
		DaysToNextMilestone: left,
	}
	if profile.LastLoginDate != nil {
		info.DaysSinceLastLogin = DaysBetween(*profile.LastLoginDate, now)
		d := profile.LastLoginDate.UTC().Format(time.DateOnly)
		info.LastLoginDate = &d
	}
	if notice != nil {
		info.StreakBonus = notice.Bonus
	}
	return info
}
