package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
)

const DateLayout = "2006-01-02"

type OnThisDayInput struct {
	Date      time.Time
	Title     string
	ShortDesc string
	StoryID   *uuid.UUID
	Image     *models.Upload
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *ContentService) withImage(ctx context.Context, e *models.OnThisDay) *models.OnThisDay {
	e.ImageURL = s.media.URL(ctx, e.ImageKey)
	return e
}

// CreateOnThisDay stores the event and pushes it to the topic subscribers.
// A failed push is logged and does not fail the request.
func (s *ContentService) CreateOnThisDay(ctx context.Context, in OnThisDayInput) (*models.OnThisDay, error) {
	if strings.TrimSpace(in.Title) == "" || in.Date.IsZero() {
		return nil, app_errors.ErrMissingField
	}
	image, err := s.media.PutImage(ctx, media.PrefixOnThisDay, in.Image)
	if err != nil {
		return nil, err
	}

	e := models.OnThisDay{
		Date:      day(in.Date),
		Title:     strings.TrimSpace(in.Title),
		ShortDesc: in.ShortDesc,
		StoryID:   in.StoryID,
	}
	if image != nil {
		e.ImageKey = *image
	}
	created, err := s.onThisDay.CreateOnThisDay(ctx, e)
	if err != nil {
		s.media.DiscardNew(ctx, image)
		return nil, err
	}

	if err := s.push.SendOnThisDay(ctx, created.Title, created.Date, created.ID); err != nil {
		s.log.ErrorErr("on this day push", err, "otd_id", created.ID)
	}
	return s.withImage(ctx, created), nil
}

func (s *ContentService) OnThisDayByDate(ctx context.Context, date time.Time) (*models.OnThisDay, error) {
	e, err := s.onThisDay.OnThisDayByDate(ctx, day(date))
	if err != nil {
		return nil, err
	}
	return s.withImage(ctx, e), nil
}

func (s *ContentService) OnThisDayToday(ctx context.Context) (*models.OnThisDay, error) {
	return s.OnThisDayByDate(ctx, s.now().UTC())
}

func (s *ContentService) OnThisDayList(ctx context.Context, skip, limit int) ([]models.OnThisDay, error) {
	list, err := s.onThisDay.OnThisDayList(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.withImage(ctx, &list[i])
	}
	return list, nil
}

func (s *ContentService) DeleteOnThisDay(ctx context.Context, id uuid.UUID) error {
	e, err := s.onThisDay.DeleteOnThisDay(ctx, id)
	if err != nil {
		return err
	}
	s.media.Discard(ctx, e.ImageKey)
	return nil
}
