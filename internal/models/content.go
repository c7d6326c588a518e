package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StoryTypeMin = 1
	StoryTypeMax = 12
)

type Character struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarKey string    `json:"-"`
	AvatarURL string    `json:"avatar_url"`
	Persona   string    `json:"persona"`
	CreatedAt time.Time `json:"created_at"`
}

type Timeline struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	ThumbnailKey    string     `json:"-"`
	ThumbnailURL    string     `json:"thumbnail_url"`
	YearRange       string     `json:"year_range"`
	Overview        string     `json:"overview"`
	MainCharacterID *uuid.UUID `json:"main_character_id"`
	Categories      []string   `json:"categories"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TimelineView is a timeline as seen by one user.
type TimelineView struct {
	Timeline
	MainCharacter *Character `json:"main_character,omitempty"`
	IsSeen        bool       `json:"is_seen"`
	Bookmarked    bool       `json:"bookmarked"`
}

type TimelineUpdate struct {
	Title           *string
	YearRange       *string
	Overview        *string
	MainCharacterID *uuid.UUID
	Categories      []string
	ThumbnailKey    *string
}

type Timestamp struct {
	ID      uuid.UUID `json:"id"`
	StoryID uuid.UUID `json:"story_id"`
	TimeSec int       `json:"time_sec"`
	Label   string    `json:"label"`
}

type Story struct {
	ID           uuid.UUID  `json:"id"`
	TimelineID   *uuid.UUID `json:"timeline_id"`
	StoryDate    time.Time  `json:"story_date"`
	Title        string     `json:"title"`
	Desc         string     `json:"desc"`
	StoryType    *int       `json:"story_type"`
	ThumbnailKey string     `json:"-"`
	ThumbnailURL string     `json:"thumbnail_url"`
	VideoKey     string     `json:"-"`
	VideoURL     string     `json:"video_url"`
	Likes        int        `json:"likes"`
	Views        int        `json:"views"`
	CreatedAt    time.Time  `json:"created_at"`
}

type StoryView struct {
	Story
	Timestamps   []Timestamp      `json:"timestamps"`
	IsSeen       bool             `json:"is_seen"`
	BadgeUpdates *BadgeEvaluation `json:"badge_updates,omitempty"`
}

type StoryUpdate struct {
	Title        *string
	Desc         *string
	StoryDate    *time.Time
	StoryType    *int
	ThumbnailKey *string
	VideoKey     *string
	Timestamps   []Timestamp
}

type Bookmark struct {
	Timeline     Timeline  `json:"timeline"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
}

type OnThisDay struct {
	ID        uuid.UUID  `json:"id"`
	Date      time.Time  `json:"date"`
	Title     string     `json:"title"`
	ShortDesc string     `json:"short_desc"`
	ImageKey  string     `json:"-"`
	ImageURL  string     `json:"image_url"`
	StoryID   *uuid.UUID `json:"story_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// SearchHit is one full-text match over timelines and stories.
type SearchHit struct {
	ID    uuid.UUID `json:"id"`
	Kind  string    `json:"kind"`
	Title string    `json:"title"`
	Score float64   `json:"score"`
}

const (
	SearchKindTimeline = "timeline"
	SearchKindStory    = "story"
)

// SearchDocument is what gets indexed for a timeline or story.
type SearchDocument struct {
	ID          uuid.UUID
	Kind        string
	Title       string
	Description string
	Categories  []string
}
