package models

const (
	NotificationStreakMilestone = "streak_milestone"
	NotificationDailyLogin      = "daily_login"
	NotificationStreakReminder  = "streak_reminder"
)

type Notification struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Points  int    `json:"points,omitempty"`
	Streak  int    `json:"streak,omitempty"`
}
