package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const (
	JobRetentionSweep = "retention_sweep"
	JobOTPCleanup     = "otp_cleanup"
	JobOnThisDayPush  = "otd_push"
)

type retentionSweeper interface {
	SweepRetention(ctx context.Context) (int, error)
}

type otpCleaner interface {
	DeleteExpiredOTPs(ctx context.Context, before time.Time) (int64, error)
}

type onThisDayFinder interface {
	OnThisDayByDate(ctx context.Context, date time.Time) (*models.OnThisDay, error)
}

type pusher interface {
	SendOnThisDay(ctx context.Context, title string, date time.Time, id uuid.UUID) error
}

type Deps struct {
	Badges    retentionSweeper
	OTPs      otpCleaner
	OnThisDay onThisDayFinder
	Push      pusher
}

// Register adds the platform's recurring jobs.
func Register(s *Scheduler, l logger.Log, cfg config.Scheduler, d Deps) error {
	jobs := []struct {
		name, spec string
		job        Job
	}{
		{JobRetentionSweep, cfg.RetentionSweep, RetentionSweep(l, d.Badges)},
		{JobOTPCleanup, cfg.OTPCleanup, OTPCleanup(l, d.OTPs, time.Now)},
		{JobOnThisDayPush, cfg.OnThisDayPush, OnThisDayPush(d.OnThisDay, d.Push, time.Now)},
	}
	for _, j := range jobs {
		if err := s.Add(j.name, j.spec, j.job); err != nil {
			return err
		}
	}
	return nil
}

func RetentionSweep(l logger.Log, b retentionSweeper) Job {
	return func(ctx context.Context) error {
		n, err := b.SweepRetention(ctx)
		if err != nil {
			return err
		}
		l.Info("badge retention sweep", "users", n)
		return nil
	}
}

func OTPCleanup(l logger.Log, o otpCleaner, now func() time.Time) Job {
	return func(ctx context.Context) error {
		n, err := o.DeleteExpiredOTPs(ctx, now().UTC())
		if err != nil {
			return err
		}
		if n > 0 {
			l.Info("expired verification codes removed", "count", n)
		}
		return nil
	}
}

// OnThisDayPush announces today's event, if one exists.
func OnThisDayPush(f onThisDayFinder, p pusher, now func() time.Time) Job {
	return func(ctx context.Context) error {
		today := now().UTC().Truncate(24 * time.Hour)
		otd, err := f.OnThisDayByDate(ctx, today)
		if errors.Is(err, app_errors.ErrOnThisDayNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find today's event: %w", err)
		}
		return p.SendOnThisDay(ctx, otd.Title, otd.Date, otd.ID)
	}
}
