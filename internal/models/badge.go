package models

import "time"

const (
	BadgePathIllumination = "illumination"
	BadgePathGame         = "game"
	BadgePathReflection   = "reflection"
	BadgePathAllyship     = "allyship"
	BadgePathStreak       = "streak"
	BadgePathStarter      = "starter"
)

// Counter names a derived user-activity metric used by badge criteria.
type Counter string

const (
	CounterStoriesCompleted          Counter = "stories_completed"
	CounterTimelinesCompleted        Counter = "timelines_completed"
	CounterTimelinesAcrossCategories Counter = "timelines_completed_across_categories"
	CounterGamesPlayed               Counter = "games_played"
	CounterHighScoreGames            Counter = "high_score_games"
	CounterGameTypesPlayed           Counter = "game_types_played"
	CounterChallengeSetsCompleted    Counter = "challenge_sets_completed"
	CounterStreakDays                Counter = "streak_days"
	CounterQuizzesCompleted          Counter = "quizzes_completed"
)

// Progress maps each counter to the user's current value.
type Progress map[Counter]int

// Badge is an earned badge as stored on a profile.
type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	Tier        int        `json:"tier"`
	Description string     `json:"description"`
	IconURL     string     `json:"icon_url"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

type BadgeEvaluation struct {
	NewlyEarned    []Badge  `json:"newly_earned_badges"`
	Current        []Badge  `json:"current_badges"`
	Progress       Progress `json:"progress"`
	UnlockMessages []string `json:"unlock_messages"`
}

// HasNew reports whether the evaluation awarded anything.
func (e *BadgeEvaluation) HasNew() bool {
	return e != nil && len(e.NewlyEarned) > 0
}
