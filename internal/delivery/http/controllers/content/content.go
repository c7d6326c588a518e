package content

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	"github.com/SocialShift/Knowledge-Backend/internal/models"
	"github.com/SocialShift/Knowledge-Backend/internal/service/content"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

type ContentService interface {
	CreateCharacter(ctx context.Context, in content.CharacterInput) (*models.Character, error)
	Character(ctx context.Context, id uuid.UUID) (*models.Character, error)
	Characters(ctx context.Context, skip, limit int) ([]models.Character, error)
	UpdateCharacter(ctx context.Context, id uuid.UUID, in content.CharacterInput) (*models.Character, error)
	DeleteCharacter(ctx context.Context, id uuid.UUID) error

	CreateTimeline(ctx context.Context, in content.TimelineInput) (*models.Timeline, error)
	Timelines(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.TimelineView, error)
	FilterTimelines(ctx context.Context, userID uuid.UUID, categories []string) ([]models.TimelineView, error)
	Timeline(ctx context.Context, userID, id uuid.UUID) (*models.TimelineView, error)
	UpdateTimeline(ctx context.Context, id uuid.UUID, in content.TimelineInput) (*models.Timeline, error)
	DeleteTimeline(ctx context.Context, id uuid.UUID) error
	ToggleBookmark(ctx context.Context, userID, timelineID uuid.UUID) (bool, error)
	IsBookmarked(ctx context.Context, userID, timelineID uuid.UUID) (bool, error)
	Bookmarks(ctx context.Context, userID uuid.UUID) ([]models.Bookmark, error)

	CreateStory(ctx context.Context, in content.StoryInput) (*models.StoryView, error)
	Story(ctx context.Context, userID, id uuid.UUID) (*models.StoryView, error)
	Stories(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.StoryView, error)
	TimelineStories(ctx context.Context, userID, timelineID uuid.UUID) ([]models.StoryView, error)
	UpdateStory(ctx context.Context, id uuid.UUID, in content.StoryInput) (*models.StoryView, error)
	DeleteStory(ctx context.Context, id uuid.UUID) error
	ToggleLike(ctx context.Context, userID, storyID uuid.UUID) (bool, int, error)
	IsLiked(ctx context.Context, userID, storyID uuid.UUID) (bool, error)

	Search(ctx context.Context, query string) ([]models.SearchHit, error)

	CreateOnThisDay(ctx context.Context, in content.OnThisDayInput) (*models.OnThisDay, error)
	OnThisDayByDate(ctx context.Context, date time.Time) (*models.OnThisDay, error)
	OnThisDayToday(ctx context.Context) (*models.OnThisDay, error)
	OnThisDayList(ctx context.Context, skip, limit int) ([]models.OnThisDay, error)
	DeleteOnThisDay(ctx context.Context, id uuid.UUID) error
}

type ContentHandler struct {
	log     logger.Log
	service ContentService
}

func NewContentHandler(l logger.Log, s ContentService) *ContentHandler {
	return &ContentHandler{
		log:     l,
		service: s,
	}
}

func formDate(c *gin.Context, name string) (*time.Time, error) {
	v := httputil.FormString(c, name)
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := time.Parse(content.DateLayout, strings.TrimSpace(*v))
	if err != nil {
		return nil, fmt.Errorf("%s must be formatted as YYYY-MM-DD", name)
	}
	return &t, nil
}

func (h *ContentHandler) Search(c *gin.Context) {
	hits, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		httputil.Fail(c, h.log, "error searching content", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": strings.TrimSpace(c.Query("q")), "results": hits})
}
