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

type StoryInput struct {
	TimelineID *uuid.UUID
	Title      *string
	Desc       *string
	StoryDate  *time.Time
	StoryType  *int
	Thumbnail  *models.Upload
	Video      *models.Upload
	Timestamps []models.Timestamp
}

func (in StoryInput) validate() error {
	if in.StoryType != nil && (*in.StoryType < models.StoryTypeMin || *in.StoryType > models.StoryTypeMax) {
		return app_errors.ErrInvalidStoryType
	}
	for _, ts := range in.Timestamps {
		if ts.TimeSec <= 0 {
			return app_errors.ErrInvalidTimestamp
		}
	}
	return nil
}

func storyDocument(st *models.Story) models.SearchDocument {
	return models.SearchDocument{
		ID:          st.ID,
		Kind:        models.SearchKindStory,
		Title:       st.Title,
		Description: st.Desc,
	}
}

func (s *ContentService) withMedia(ctx context.Context, st *models.Story) {
	st.ThumbnailURL = s.media.URL(ctx, st.ThumbnailKey)
	st.VideoURL = s.media.URL(ctx, st.VideoKey)
}

// putStoryMedia uploads the thumbnail and video, removing the first when the second fails.
func (s *ContentService) putStoryMedia(ctx context.Context, in StoryInput) (thumb, video *string, err error) {
	if thumb, err = s.media.PutImage(ctx, media.PrefixStoryThumbnails, in.Thumbnail); err != nil {
		return nil, nil, err
	}
	if video, err = s.media.PutVideo(ctx, media.PrefixStoryVideos, in.Video); err != nil {
		s.media.DiscardNew(ctx, thumb)
		return nil, nil, err
	}
	return thumb, video, nil
}

func (s *ContentService) CreateStory(ctx context.Context, in StoryInput) (*models.StoryView, error) {
	if in.TimelineID == nil || in.Title == nil || strings.TrimSpace(*in.Title) == "" || in.StoryDate == nil {
		return nil, app_errors.ErrMissingField
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	thumb, video, err := s.putStoryMedia(ctx, in)
	if err != nil {
		return nil, err
	}

	st := models.Story{
		TimelineID: in.TimelineID,
		StoryDate:  *in.StoryDate,
		Title:      strings.TrimSpace(*in.Title),
		StoryType:  in.StoryType,
	}
	if in.Desc != nil {
		st.Desc = *in.Desc
	}
	if thumb != nil {
		st.ThumbnailKey = *thumb
	}
	if video != nil {
		st.VideoKey = *video
	}

	created, timestamps, err := s.stories.CreateStory(ctx, st, in.Timestamps)
	if err != nil {
		s.media.DiscardNew(ctx, thumb, video)
		return nil, err
	}
	s.index(ctx, storyDocument(created))
	s.withMedia(ctx, created)
	return &models.StoryView{Story: *created, Timestamps: timestamps}, nil
}

// Story counts a view. The caller's first view awards points and runs badge rules.
func (s *ContentService) Story(ctx context.Context, userID, id uuid.UUID) (*models.StoryView, error) {
	st, err := s.stories.ViewStory(ctx, id)
	if err != nil {
		return nil, err
	}
	timestamps, err := s.stories.Timestamps(ctx, id)
	if err != nil {
		return nil, err
	}
	first, err := s.stories.RecordStoryView(ctx, userID, id, models.StoryFirstViewPoints)
	if err != nil {
		return nil, err
	}

	view := &models.StoryView{Story: *st, Timestamps: timestamps, IsSeen: true}
	if first {
		view.BadgeUpdates = s.evaluate(ctx, userID)
	}
	s.withMedia(ctx, &view.Story)
	return view, nil
}

func (s *ContentService) storyViews(ctx context.Context, userID uuid.UUID, list []models.Story) ([]models.StoryView, error) {
	ids := make([]uuid.UUID, 0, len(list))
	for _, st := range list {
		ids = append(ids, st.ID)
	}
	seen, err := s.stories.SeenStories(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.StoryView, 0, len(list))
	for _, st := range list {
		s.withMedia(ctx, &st)
		out = append(out, models.StoryView{Story: st, IsSeen: seen[st.ID]})
	}
	return out, nil
}

func (s *ContentService) Stories(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.StoryView, error) {
	list, err := s.stories.Stories(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.storyViews(ctx, userID, list)
}

// TimelineStories lists the timeline's stories by story date.
func (s *ContentService) TimelineStories(ctx context.Context, userID, timelineID uuid.UUID) ([]models.StoryView, error) {
	if _, err := s.timelines.Timeline(ctx, timelineID); err != nil {
		return nil, err
	}
	list, err := s.stories.StoriesByTimeline(ctx, timelineID)
	if err != nil {
		return nil, err
	}
	return s.storyViews(ctx, userID, list)
}

func (s *ContentService) UpdateStory(ctx context.Context, id uuid.UUID, in StoryInput) (*models.StoryView, error) {
	if in.Title == nil && in.Desc == nil && in.StoryDate == nil && in.StoryType == nil &&
		in.Thumbnail == nil && in.Video == nil && in.Timestamps == nil {
		return nil, app_errors.ErrNothingToUpdate
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	thumb, video, err := s.putStoryMedia(ctx, in)
	if err != nil {
		return nil, err
	}

	upd := models.StoryUpdate{
		Title:        in.Title,
		Desc:         in.Desc,
		StoryDate:    in.StoryDate,
		StoryType:    in.StoryType,
		ThumbnailKey: thumb,
		VideoKey:     video,
		Timestamps:   in.Timestamps,
	}
	updated, replaced, err := s.stories.UpdateStory(ctx, id, upd)
	if err != nil {
		s.media.DiscardNew(ctx, thumb, video)
		return nil, err
	}
	s.media.Discard(ctx, replaced...)
	s.index(ctx, storyDocument(updated))

	timestamps, err := s.stories.Timestamps(ctx, id)
	if err != nil {
		return nil, err
	}
	s.withMedia(ctx, updated)
	return &models.StoryView{Story: *updated, Timestamps: timestamps}, nil
}

func (s *ContentService) DeleteStory(ctx context.Context, id uuid.UUID) error {
	st, err := s.stories.DeleteStory(ctx, id)
	if err != nil {
		return err
	}
	s.unindex(ctx, st.ID)
	s.media.Discard(ctx, st.ThumbnailKey, st.VideoKey)
	return nil
}

// ToggleLike returns the new like state and count.
func (s *ContentService) ToggleLike(ctx context.Context, userID, storyID uuid.UUID) (bool, int, error) {
	return s.stories.ToggleLike(ctx, userID, storyID)
}

func (s *ContentService) IsLiked(ctx context.Context, userID, storyID uuid.UUID) (bool, error) {
	if _, err := s.stories.Story(ctx, storyID); err != nil {
		return false, err
	}
	return s.stories.IsLiked(ctx, userID, storyID)
}
