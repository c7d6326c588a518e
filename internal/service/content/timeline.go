package content

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/app_errors"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
)

type TimelineInput struct {
	Title           *string
	YearRange       *string
	Overview        *string
	MainCharacterID *uuid.UUID
	Categories      []string
	Thumbnail       *models.Upload
}

func timelineDocument(t *models.Timeline) models.SearchDocument {
	return models.SearchDocument{
		ID:          t.ID,
		Kind:        models.SearchKindTimeline,
		Title:       t.Title,
		Description: t.Overview,
		Categories:  t.Categories,
	}
}

func normalizeCategories(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (s *ContentService) CreateTimeline(ctx context.Context, in TimelineInput) (*models.Timeline, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, app_errors.ErrMissingField
	}
	if in.MainCharacterID != nil {
		if _, err := s.characters.Character(ctx, *in.MainCharacterID); err != nil {
			return nil, err
		}
	}
	thumb, err := s.media.PutImage(ctx, media.PrefixTimelines, in.Thumbnail)
	if err != nil {
		return nil, err
	}

	t := models.Timeline{
		Title:           strings.TrimSpace(*in.Title),
		MainCharacterID: in.MainCharacterID,
		Categories:      normalizeCategories(in.Categories),
	}
	if in.YearRange != nil {
		t.YearRange = *in.YearRange
	}
	if in.Overview != nil {
		t.Overview = *in.Overview
	}
	if thumb != nil {
		t.ThumbnailKey = *thumb
	}
	if t.Categories == nil {
		t.Categories = []string{}
	}

	created, err := s.timelines.CreateTimeline(ctx, t)
	if err != nil {
		s.media.DiscardNew(ctx, thumb)
		return nil, err
	}
	s.index(ctx, timelineDocument(created))
	created.ThumbnailURL = s.media.URL(ctx, created.ThumbnailKey)
	return created, nil
}

// views decorates timelines with the caller's seen and bookmarked flags.
func (s *ContentService) views(ctx context.Context, userID uuid.UUID, list []models.Timeline) ([]models.TimelineView, error) {
	ids := make([]uuid.UUID, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
	}
	seen, bookmarked, err := s.timelines.TimelineFlags(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.TimelineView, 0, len(list))
	for _, t := range list {
		t.ThumbnailURL = s.media.URL(ctx, t.ThumbnailKey)
		out = append(out, models.TimelineView{
			Timeline:   t,
			IsSeen:     seen[t.ID],
			Bookmarked: bookmarked[t.ID],
		})
	}
	return out, nil
}

func (s *ContentService) Timelines(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.TimelineView, error) {
	list, err := s.timelines.Timelines(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, userID, list)
}

// FilterTimelines returns timelines sharing any of the categories.
func (s *ContentService) FilterTimelines(ctx context.Context, userID uuid.UUID, categories []string) ([]models.TimelineView, error) {
	categories = normalizeCategories(categories)
	if len(categories) == 0 {
		return []models.TimelineView{}, nil
	}
	list, err := s.timelines.TimelinesByCategories(ctx, categories)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, userID, list)
}

// Timeline records the caller's view. The first view runs badge rules.
func (s *ContentService) Timeline(ctx context.Context, userID, id uuid.UUID) (*models.TimelineView, error) {
	t, err := s.timelines.Timeline(ctx, id)
	if err != nil {
		return nil, err
	}
	first, err := s.timelines.RecordTimelineView(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if first {
		s.badges.EvaluateQuietly(ctx, userID)
	}

	views, err := s.views(ctx, userID, []models.Timeline{*t})
	if err != nil {
		return nil, err
	}
	view := views[0]

	if t.MainCharacterID != nil {
		c, err := s.characters.Character(ctx, *t.MainCharacterID)
		switch {
		case err == nil:
			view.MainCharacter = s.withAvatar(ctx, c)
		case !errors.Is(err, app_errors.ErrCharacterNotFound):
			return nil, err
		}
	}
	return &view, nil
}

func (s *ContentService) UpdateTimeline(ctx context.Context, id uuid.UUID, in TimelineInput) (*models.Timeline, error) {
	if in.Title == nil && in.YearRange == nil && in.Overview == nil && in.MainCharacterID == nil &&
		in.Categories == nil && in.Thumbnail == nil {
		return nil, app_errors.ErrNothingToUpdate
	}
	if in.MainCharacterID != nil {
		if _, err := s.characters.Character(ctx, *in.MainCharacterID); err != nil {
			return nil, err
		}
	}
	thumb, err := s.media.PutImage(ctx, media.PrefixTimelines, in.Thumbnail)
	if err != nil {
		return nil, err
	}

	upd := models.TimelineUpdate{
		Title:           in.Title,
		YearRange:       in.YearRange,
		Overview:        in.Overview,
		MainCharacterID: in.MainCharacterID,
		Categories:      normalizeCategories(in.Categories),
		ThumbnailKey:    thumb,
	}
	updated, replaced, err := s.timelines.UpdateTimeline(ctx, id, upd)
	if err != nil {
		s.media.DiscardNew(ctx, thumb)
		return nil, err
	}
	s.media.Discard(ctx, replaced)
	s.index(ctx, timelineDocument(updated))
	updated.ThumbnailURL = s.media.URL(ctx, updated.ThumbnailKey)
	return updated, nil
}

// DeleteTimeline removes the timeline, its stories, their search documents and media.
func (s *ContentService) DeleteTimeline(ctx context.Context, id uuid.UUID) error {
	t, stories, err := s.timelines.DeleteTimeline(ctx, id)
	if err != nil {
		return err
	}

	ids := []uuid.UUID{t.ID}
	keys := []string{t.ThumbnailKey}
	for _, st := range stories {
		ids = append(ids, st.ID)
		keys = append(keys, st.ThumbnailKey, st.VideoKey)
	}
	s.unindex(ctx, ids...)
	s.media.Discard(ctx, keys...)
	s.log.Info("timeline deleted", "timeline_id", id, "stories", len(stories))
	return nil
}

// ToggleBookmark returns the new bookmark state.
func (s *ContentService) ToggleBookmark(ctx context.Context, userID, timelineID uuid.UUID) (bool, error) {
	return s.timelines.ToggleBookmark(ctx, userID, timelineID)
}

func (s *ContentService) IsBookmarked(ctx context.Context, userID, timelineID uuid.UUID) (bool, error) {
	if _, err := s.timelines.Timeline(ctx, timelineID); err != nil {
		return false, err
	}
	return s.timelines.IsBookmarked(ctx, userID, timelineID)
}

func (s *ContentService) Bookmarks(ctx context.Context, userID uuid.UUID) ([]models.Bookmark, error) {
	list, err := s.timelines.Bookmarks(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Timeline.ThumbnailURL = s.media.URL(ctx, list[i].Timeline.ThumbnailKey)
	}
	return list, nil
}
