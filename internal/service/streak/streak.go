package streak

import (
	"time"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

const (
	DailyBonus     = 5
	WeekBonus      = 50
	MonthBonus     = 200
	WeekMilestone  = 7
	MonthMilestone = 30
	ReminderWeek   = WeekMilestone - 1
	ReminderMonth  = MonthMilestone - 1
)

const oneDay = 24 * time.Hour

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole UTC days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / oneDay)
}

// Advance moves the streak to today. It reports changed=false when today was already counted.
func Advance(s models.StreakState, today time.Time) (next models.StreakState, bonus int, changed bool) {
	today = Day(today)
	next = s

	switch {
	case s.LastLoginDate == nil:
		next.Current = 1
	default:
		gap := DaysBetween(*s.LastLoginDate, today)
		switch {
		case gap <= 0:
			return s, 0, false
		case gap == 1:
			next.Current = s.Current + 1
		default:
			next.Current = 1
		}
	}

	if next.Current > next.Max {
		next.Max = next.Current
	}
	next.LastLoginDate = &today

	return next, Bonus(next.Current), true
}

// Bonus is the point award for reaching the given streak today.
func Bonus(current int) int {
	bonus := DailyBonus
	switch current {
	case WeekMilestone:
		bonus += WeekBonus
	case MonthMilestone:
		bonus += MonthBonus
	}
	return bonus
}

// NextMilestone returns the next milestone and how many days remain to it.
func NextMilestone(current int) (milestone, daysLeft int) {
	milestone = WeekMilestone
	if current >= WeekMilestone {
		milestone = MonthMilestone
	}
	return milestone, milestone - current%milestone
}

// Status is "active" when the last login falls on today.
func Status(last *time.Time, now time.Time) string {
	if last != nil && Day(*last).Equal(Day(now)) {
		return models.StreakStatusActive
	}
	return models.StreakStatusInactive
}

// Notifications builds the messages shown for a consumed bonus notice and the current streak.
func Notifications(notice *models.StreakNotice, current int) []models.Notification {
	out := make([]models.Notification, 0, 2)

	if notice != nil && notice.Bonus > 0 {
		n := models.Notification{Points: notice.Bonus, Streak: notice.Streak}
		switch notice.Streak {
		case WeekMilestone:
			n.Type = models.NotificationStreakMilestone
			n.Title = "7-Day Streak!"
			n.Message = "You've logged in for 7 days in a row and earned bonus points."
		case MonthMilestone:
			n.Type = models.NotificationStreakMilestone
			n.Title = "30-Day Streak!"
			n.Message = "A whole month of learning. You've earned a big bonus."
		default:
			n.Type = models.NotificationDailyLogin
			n.Title = "Daily Login Bonus"
			n.Message = "Thanks for coming back today."
		}
		out = append(out, n)
	}

	switch current {
	case ReminderWeek:
		out = append(out, models.Notification{
			Type:    models.NotificationStreakReminder,
			Title:   "Keep your streak going",
			Message: "Log in tomorrow to reach a 7-day streak and earn bonus points.",
			Streak:  current,
		})
	case ReminderMonth:
		out = append(out, models.Notification{
			Type:    models.NotificationStreakReminder,
			Title:   "One day to go",
			Message: "Log in tomorrow to reach a 30-day streak and earn a big bonus.",
			Streak:  current,
		})
	}
	return out
}
