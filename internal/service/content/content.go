package content

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type characterRepo interface {
	CreateCharacter(ctx context.Context, c models.Character) (*models.Character, error)
	Character(ctx context.Context, id uuid.UUID) (*models.Character, error)
	Characters(ctx context.Context, skip, limit int) ([]models.Character, error)
	UpdateCharacter(ctx context.Context, id uuid.UUID, name, persona, avatarKey *string) (*models.Character, string, error)
	DeleteCharacter(ctx context.Context, id uuid.UUID) (*models.Character, error)
}

type timelineRepo interface {
	CreateTimeline(ctx context.Context, t models.Timeline) (*models.Timeline, error)
	Timeline(ctx context.Context, id uuid.UUID) (*models.Timeline, error)
	Timelines(ctx context.Context, skip, limit int) ([]models.Timeline, error)
	TimelinesByCategories(ctx context.Context, categories []string) ([]models.Timeline, error)
	UpdateTimeline(ctx context.Context, id uuid.UUID, upd models.TimelineUpdate) (*models.Timeline, string, error)
	DeleteTimeline(ctx context.Context, id uuid.UUID) (*models.Timeline, []models.Story, error)
	TimelineFlags(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, map[uuid.UUID]bool, error)
	RecordTimelineView(ctx context.Context, userID, timelineID uuid.UUID) (bool, error)
	ToggleBookmark(ctx context.Context, userID, timelineID uuid.UUID) (bool, error)
	IsBookmarked(ctx context.Context, userID, timelineID uuid.UUID) (bool, error)
	Bookmarks(ctx context.Context, userID uuid.UUID) ([]models.Bookmark, error)
}

type storyRepo interface {
	CreateStory(ctx context.Context, s models.Story, timestamps []models.Timestamp) (*models.Story, []models.Timestamp, error)
	Story(ctx context.Context, id uuid.UUID) (*models.Story, error)
	ViewStory(ctx context.Context, id uuid.UUID) (*models.Story, error)
	Stories(ctx context.Context, skip, limit int) ([]models.Story, error)
	StoriesByTimeline(ctx context.Context, timelineID uuid.UUID) ([]models.Story, error)
	Timestamps(ctx context.Context, storyID uuid.UUID) ([]models.Timestamp, error)
	UpdateStory(ctx context.Context, id uuid.UUID, upd models.StoryUpdate) (*models.Story, []string, error)
	DeleteStory(ctx context.Context, id uuid.UUID) (*models.Story, error)
	RecordStoryView(ctx context.Context, userID, storyID uuid.UUID, points int) (bool, error)
	SeenStories(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	ToggleLike(ctx context.Context, userID, storyID uuid.UUID) (bool, int, error)
	IsLiked(ctx context.Context, userID, storyID uuid.UUID) (bool, error)
}

type onThisDayRepo interface {
	CreateOnThisDay(ctx context.Context, e models.OnThisDay) (*models.OnThisDay, error)
	OnThisDayByDate(ctx context.Context, date time.Time) (*models.OnThisDay, error)
	OnThisDayList(ctx context.Context, skip, limit int) ([]models.OnThisDay, error)
	DeleteOnThisDay(ctx context.Context, id uuid.UUID) (*models.OnThisDay, error)
}

type searchRepo interface {
	Index(ctx context.Context, doc models.SearchDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, size int) ([]models.SearchHit, error)
}

type pusher interface {
	SendOnThisDay(ctx context.Context, title string, date time.Time, id uuid.UUID) error
}

type badgeEvaluator interface {
	EvaluateQuietly(ctx context.Context, userID uuid.UUID) *models.BadgeEvaluation
}

type Repos struct {
	Characters characterRepo
	Timelines  timelineRepo
	Stories    storyRepo
	OnThisDay  onThisDayRepo
}

type ContentService struct {
	log        logger.Log
	characters characterRepo
	timelines  timelineRepo
	stories    storyRepo
	onThisDay  onThisDayRepo
	search     searchRepo
	push       pusher
	badges     badgeEvaluator
	media      *media.Store
	now        func() time.Time
}

func NewContentService(l logger.Log, r Repos, s searchRepo, p pusher, b badgeEvaluator, m *media.Store) *ContentService {
	return &ContentService{
		log:        l,
		characters: r.Characters,
		timelines:  r.Timelines,
		stories:    r.Stories,
		onThisDay:  r.OnThisDay,
		search:     s,
		push:       p,
		badges:     b,
		media:      m,
		now:        time.Now,
	}
}

func (s *ContentService) index(ctx context.Context, doc models.SearchDocument) {
	if err := s.search.Index(ctx, doc); err != nil {
		s.log.ErrorErr("search index", err, "id", doc.ID, "kind", doc.Kind)
	}
}

func (s *ContentService) unindex(ctx context.Context, ids ...uuid.UUID) {
	for _, id := range ids {
		if err := s.search.Delete(ctx, id); err != nil {
			s.log.ErrorErr("search delete", err, "id", id)
		}
	}
}

// evaluate runs badge rules after a first view and keeps the result only when something new was earned.
func (s *ContentService) evaluate(ctx context.Context, userID uuid.UUID) *models.BadgeEvaluation {
	res := s.badges.EvaluateQuietly(ctx, userID)
	if !res.HasNew() {
		return nil
	}
	return res
}
