package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPoints = 100

	StreakStatusActive   = "active"
	StreakStatusInactive = "inactive"
)

var LanguagePreferences = map[string]struct{}{
	"English": {}, "Spanish": {}, "French": {}, "German": {}, "Chinese": {},
}

var PronounOptions = map[string]struct{}{
	"He/Him": {}, "She/Her": {}, "They/Them": {}, "Other": {},
}

var Locations = map[string]struct{}{
	"Alabama": {}, "Alaska": {}, "Arizona": {}, "Arkansas": {}, "California": {},
	"Colorado": {}, "Connecticut": {}, "Delaware": {}, "Florida": {}, "Georgia": {},
	"Hawaii": {}, "Idaho": {}, "Illinois": {}, "Indiana": {}, "Iowa": {},
	"Kansas": {}, "Kentucky": {}, "Louisiana": {}, "Maine": {}, "Maryland": {},
	"Massachusetts": {}, "Michigan": {}, "Minnesota": {}, "Mississippi": {}, "Missouri": {},
	"Montana": {}, "Nebraska": {}, "Nevada": {}, "New Hampshire": {}, "New Jersey": {},
	"New Mexico": {}, "New York": {}, "North Carolina": {}, "North Dakota": {}, "Ohio": {},
	"Oklahoma": {}, "Oregon": {}, "Pennsylvania": {}, "Rhode Island": {}, "South Carolina": {},
	"South Dakota": {}, "Tennessee": {}, "Texas": {}, "Utah": {}, "Vermont": {},
	"Virginia": {}, "Washington": {}, "West Virginia": {}, "Wisconsin": {}, "Wyoming": {},
}

type Profile struct {
	UserID                   uuid.UUID       `json:"user_id"`
	Nickname                 *string         `json:"nickname"`
	AvatarKey                string          `json:"-"`
	AvatarURL                string          `json:"avatar_url"`
	Points                   int             `json:"points"`
	ReferralCode             string          `json:"referral_code"`
	TotalReferrals           int             `json:"total_referrals"`
	CurrentLoginStreak       int             `json:"current_login_streak"`
	MaxLoginStreak           int             `json:"max_login_streak"`
	LastLoginDate            *time.Time      `json:"last_login_date"`
	LanguagePreference       *string         `json:"language_preference"`
	Pronouns                 *string         `json:"pronouns"`
	Location                 *string         `json:"location"`
	PersonalizationQuestions json.RawMessage `json:"personalization_questions,omitempty"`
	Badges                   []Badge         `json:"badges,omitempty"`
}

// ProfileUpdate carries only the fields a caller asked to change.
type ProfileUpdate struct {
	Nickname                 *string
	LanguagePreference       *string
	Pronouns                 *string
	Location                 *string
	PersonalizationQuestions json.RawMessage
	AvatarKey                *string
}

func (u ProfileUpdate) Empty() bool {
	return u.Nickname == nil && u.LanguagePreference == nil && u.Pronouns == nil &&
		u.Location == nil && u.PersonalizationQuestions == nil && u.AvatarKey == nil
}

type FollowEntry struct {
	UserID     uuid.UUID `json:"user_id"`
	Nickname   *string   `json:"nickname"`
	AvatarURL  string    `json:"avatar_url"`
	FollowDate time.Time `json:"follow_date"`
}

type FollowSummary struct {
	Count  int           `json:"count"`
	Recent []FollowEntry `json:"recent"`
}

type UserSearchResult struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	Nickname    *string   `json:"nickname"`
	AvatarURL   string    `json:"avatar_url"`
	IsFollowing bool      `json:"is_following"`
}

type RankStats struct {
	Rank               int `json:"rank"`
	TotalUsers         int `json:"total_users"`
	Percentile         int `json:"percentile"`
	Points             int `json:"points"`
	CurrentLoginStreak int `json:"current_login_streak"`
	MaxLoginStreak     int `json:"max_login_streak"`
}

type ProfileStats struct {
	Rank                int `json:"rank"`
	TotalUsers          int `json:"total_users"`
	Percentile          int `json:"percentile"`
	CompletedQuizzes    int `json:"completed_quizzes"`
	CurrentLoginStreak  int `json:"current_login_streak"`
	MaxLoginStreak      int `json:"max_login_streak"`
	DaysToNextMilestone int `json:"days_to_next_milestone"`
	NextMilestone       int `json:"next_milestone"`
	StreakBonus         int `json:"streak_bonus"`
}

type ProfileView struct {
	User        User          `json:"user"`
	Profile     Profile       `json:"profile"`
	Followers   FollowSummary `json:"followers"`
	Following   FollowSummary `json:"following"`
	IsFollowing bool          `json:"is_following"`
	Stats       ProfileStats  `json:"stats"`
}

type StreakInfo struct {
	CurrentStreak       int     `json:"current_streak"`
	MaxStreak           int     `json:"max_streak"`
	StreakStatus        string  `json:"streak_status"`
	DaysSinceLastLogin  int     `json:"days_since_last_login"`
	DaysToNextMilestone int     `json:"days_to_next_milestone"`
	NextMilestone       int     `json:"next_milestone"`
	StreakBonus         int     `json:"streak_bonus"`
	LastLoginDate       *string `json:"last_login_date"`
}

// StreakState is the persisted part of a login streak.
type StreakState struct {
	Current       int
	Max           int
	LastLoginDate *time.Time
}

// StreakNotice is the one-shot record of a bonus granted by a streak update.
type StreakNotice struct {
	Bonus  int `json:"bonus"`
	Streak int `json:"streak"`
}

type LeaderboardEntry struct {
	Rank               int       `json:"rank"`
	UserID             uuid.UUID `json:"user_id"`
	Nickname           string    `json:"nickname"`
	AvatarURL          string    `json:"avatar_url"`
	Points             int       `json:"points"`
	CurrentLoginStreak int       `json:"current_login_streak"`
	MaxLoginStreak     int       `json:"max_login_streak"`
}
