package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ReportTypeCommunity = "community"
	ReportTypePost      = "post"

	ReportStatusPending     = "pending"
	ReportStatusUnderReview = "under_review"
	ReportStatusResolved    = "resolved"
	ReportStatusDismissed   = "dismissed"

	VoteUp   = 1
	VoteDown = -1
)

var ReportReasons = []string{
	"spam",
	"harassment",
	"hate_speech",
	"inappropriate_content",
	"misinformation",
	"copyright_violation",
	"violence",
	"nudity_sexual_content",
	"illegal_activities",
	"other",
}

func ValidReportReason(r string) bool {
	for _, v := range ReportReasons {
		if v == r {
			return true
		}
	}
	return false
}

func ValidReportStatus(s string) bool {
	switch s {
	case ReportStatusPending, ReportStatusUnderReview, ReportStatusResolved, ReportStatusDismissed:
		return true
	}
	return false
}

type ReportReason struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ReasonLabel turns "hate_speech" into "Hate Speech".
func ReasonLabel(reason string) string {
	words := strings.Split(reason, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type Community struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Topics      []string  `json:"topics"`
	BannerKey   string    `json:"-"`
	BannerURL   string    `json:"banner_url"`
	IconKey     string    `json:"-"`
	IconURL     string    `json:"icon_url"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   uuid.UUID `json:"created_by"`
	MemberCount int       `json:"member_count"`
	IsMember    bool      `json:"is_member"`
}

type CommunityUpdate struct {
	Name        *string
	Description *string
	Topics      []string
	BannerKey   *string
	IconKey     *string
}

type CommunityMember struct {
	UserID      uuid.UUID `json:"user_id"`
	CommunityID uuid.UUID `json:"community_id"`
	JoinedAt    time.Time `json:"joined_at"`
}

type MembershipStatus struct {
	Message  string `json:"message"`
	IsMember bool   `json:"is_member"`
}

type Post struct {
	ID          uuid.UUID `json:"id"`
	CommunityID uuid.UUID `json:"community_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ImageKey    string    `json:"-"`
	ImageURL    string    `json:"image_url"`
	Upvote      int       `json:"upvote"`
	Downvote    int       `json:"downvote"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   uuid.UUID `json:"created_by"`
}

type PostUpdate struct {
	Title    *string
	Body     *string
	ImageKey *string
}

type Comment struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"post_id"`
	CommentedBy uuid.UUID `json:"commented_by"`
	Comment     string    `json:"comment"`
	Upvote      int       `json:"upvote"`
	Downvote    int       `json:"downvote"`
	CreatedAt   time.Time `json:"created_at"`
}

type Report struct {
	ID                uuid.UUID  `json:"id"`
	ReporterID        uuid.UUID  `json:"reporter_id"`
	ReportType        string     `json:"report_type"`
	ReportedItemID    uuid.UUID  `json:"reported_item_id"`
	Reason            string     `json:"reason"`
	Description       string     `json:"description"`
	Status            string     `json:"status"`
	AdminNotes        *string    `json:"admin_notes"`
	CreatedAt         time.Time  `json:"created_at"`
	ReviewedAt        *time.Time `json:"reviewed_at"`
	ReviewedBy        *uuid.UUID `json:"reviewed_by"`
	ReporterEmail     string     `json:"reporter_email,omitempty"`
	ReportedItemTitle string     `json:"reported_item_title,omitempty"`
}

type ReportUpdate struct {
	Status     *string
	AdminNotes *string
}

type ReportFilter struct {
	Status     string
	ReportType string
	Skip       int
	Limit      int
}
