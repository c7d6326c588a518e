package badge

import (
	"time"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

// Definition is one entry of the badge catalog.
type Definition struct {
	ID          string
	Name        string
	Path        string
	Tier        int
	Criteria    map[models.Counter]int
	Description string
}

func (d Definition) IconURL() string {
	return "media/badges/" + d.ID + ".png"
}

// Earned reports whether every criterion is met. A badge without criteria is always earned.
func (d Definition) Earned(p models.Progress) bool {
	for counter, required := range d.Criteria {
		if p[counter] < required {
			return false
		}
	}
	return true
}

// Award builds the profile record for the badge.
func (d Definition) Award(now time.Time) models.Badge {
	earnedAt := now.UTC()
	b := d.Record()
	b.EarnedAt = &earnedAt
	return b
}

// Record builds the profile record without an earned time.
func (d Definition) Record() models.Badge {
	return models.Badge{
		ID:          d.ID,
		Name:        d.Name,
		Path:        d.Path,
		Tier:        d.Tier,
		Description: d.Description,
		IconURL:     d.IconURL(),
	}
}

// Retained reports whether the badge path loses tiers on inactivity.
func (d Definition) Retained() bool {
	return d.Path == models.BadgePathIllumination || d.Path == models.BadgePathGame
}

var illumination = []Definition{
	{
		ID: "spark", Name: "Spark", Path: models.BadgePathIllumination, Tier: 1,
		Criteria:    map[models.Counter]int{models.CounterStoriesCompleted: 3},
		Description: "You've taken the first step into untold truths",
	},
	{
		ID: "candlebearer", Name: "Candlebearer", Path: models.BadgePathIllumination, Tier: 2,
		Criteria:    map[models.Counter]int{models.CounterStoriesCompleted: 10},
		Description: "You're starting to light the darkness with knowledge",
	},
	{
		ID: "torchbearer", Name: "Torchbearer", Path: models.BadgePathIllumination, Tier: 3,
		Criteria:    map[models.Counter]int{models.CounterStoriesCompleted: 25},
		Description: "You carry the truth forward, one story at a time",
	},
	{
		ID: "flamekeeper", Name: "Flamekeeper", Path: models.BadgePathIllumination, Tier: 4,
		Criteria: map[models.Counter]int{
			models.CounterStoriesCompleted:   50,
			models.CounterTimelinesCompleted: 2,
		},
		Description: "You protect what others tried to extinguish",
	},
	{
		ID: "beacon", Name: "Beacon", Path: models.BadgePathIllumination, Tier: 5,
		Criteria: map[models.Counter]int{
			models.CounterStoriesCompleted:   100,
			models.CounterTimelinesCompleted: 5,
		},
		Description: "You shine so others can see. Your knowledge guides generations",
	},
	{
		ID: "constellation", Name: "Constellation", Path: models.BadgePathIllumination, Tier: 6,
		Criteria:    map[models.Counter]int{models.CounterTimelinesAcrossCategories: 3},
		Description: "You've connected erased histories across communities",
	},
}

var game = []Definition{
	{
		ID: "uncover", Name: "Uncover", Path: models.BadgePathGame, Tier: 1,
		Criteria:    map[models.Counter]int{models.CounterGamesPlayed: 1},
		Description: "Play 1 game of any type",
	},
	{
		ID: "seeker", Name: "Seeker", Path: models.BadgePathGame, Tier: 2,
		Criteria:    map[models.Counter]int{models.CounterGameTypesPlayed: 3},
		Description: "Play 3 different game types",
	},
	{
		ID: "revealer", Name: "Revealer", Path: models.BadgePathGame, Tier: 3,
		Criteria:    map[models.Counter]int{models.CounterHighScoreGames: 3},
		Description: "Score 80%+ on 3 games",
	},
	{
		ID: "historian", Name: "Historian", Path: models.BadgePathGame, Tier: 4,
		Criteria:    map[models.Counter]int{models.CounterGamesPlayed: 10},
		Description: "Play 10 total games",
	},
	{
		ID: "archivist", Name: "Archivist", Path: models.BadgePathGame, Tier: 5,
		Criteria:    map[models.Counter]int{models.CounterChallengeSetsCompleted: 1},
		Description: "Complete all games in a challenge set",
	},
}

var streak = []Definition{
	{
		ID: "ember", Name: "Ember", Path: models.BadgePathStreak, Tier: 1,
		Criteria:    map[models.Counter]int{models.CounterStreakDays: 3},
		Description: "3-day streak",
	},
	{
		ID: "flame", Name: "Flame", Path: models.BadgePathStreak, Tier: 2,
		Criteria:    map[models.Counter]int{models.CounterStreakDays: 7},
		Description: "7-day streak",
	},
	{
		ID: "inferno", Name: "Inferno", Path: models.BadgePathStreak, Tier: 3,
		Criteria:    map[models.Counter]int{models.CounterStreakDays: 30},
		Description: "30-day streak",
	},
	{
		ID: "eternal_flame", Name: "Eternal Flame", Path: models.BadgePathStreak, Tier: 4,
		Criteria:    map[models.Counter]int{models.CounterStreakDays: 90},
		Description: "90-day streak",
	},
}

var starter = []Definition{
	{
		ID: "truth_seeker", Name: "Truth Seeker", Path: models.BadgePathStarter, Tier: 0,
		Description: "Welcome to Knowledge. Your journey to uncover hidden truths begins now.",
	},
	{
		ID: "first_step", Name: "First Step", Path: models.BadgePathStarter, Tier: 0,
		Description: "Every journey begins with a single step. You've taken yours.",
	},
}

// Catalog is every badge in evaluation order.
var Catalog = concat(illumination, game, streak, starter)

var byID = index(Catalog)

func concat(groups ...[]Definition) []Definition {
	var all []Definition
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func index(defs []Definition) map[string]Definition {
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return m
}

func Lookup(id string) (Definition, bool) {
	d, ok := byID[id]
	return d, ok
}

// PreviousTier returns the badge one tier below in the same path. Tiers 0 and 1 have none.
func PreviousTier(path string, tier int) (Definition, bool) {
	if tier <= 1 {
		return Definition{}, false
	}
	for _, d := range Catalog {
		if d.Path == path && d.Tier == tier-1 {
			return d, true
		}
	}
	return Definition{}, false
}

// Defaults returns the starter badges every user gets.
func Defaults(now time.Time) []models.Badge {
	out := make([]models.Badge, 0, len(starter))
	for _, d := range starter {
		out = append(out, d.Award(now))
	}
	return out
}

var unlockMessages = map[string]string{
	"spark":         "🎉 Badge Unlocked: Spark\nYou've taken the first step into untold truths. Keep going.",
	"candlebearer":  "🎉 Badge Unlocked: Candlebearer\nYou're starting to light the darkness with knowledge.",
	"torchbearer":   "🎉 Badge Unlocked: Torchbearer\nYou've completed 25 erased stories. You carry their voices with you. Keep going.",
	"flamekeeper":   "🎉 Badge Unlocked: Flamekeeper\nYou protect what others tried to extinguish.",
	"beacon":        "🎉 Badge Unlocked: Beacon\nYou shine so others can see. Your knowledge guides generations.",
	"constellation": "🎉 Badge Unlocked: Constellation\nYou've connected erased histories across communities. You're one of few to earn this.",
	"ember":         "🔥 3-Day Streak: You're now an Ember.\nYour consistency keeps truth alive.",
	"flame":         "🔥 7-Day Streak: You're now a Flame.\nYour consistency keeps truth alive. Protect your streak and level up to Inferno.",
	"inferno":       "🔥 30-Day Streak: You're now an Inferno.\nYour dedication to learning is extraordinary.",
	"eternal_flame": "🔥 90-Day Streak: You're now an Eternal Flame.\nYour commitment to truth is unbreakable.",
}

func UnlockMessage(b models.Badge) string {
	if msg, ok := unlockMessages[b.ID]; ok {
		return msg
	}
	return "🎉 Badge Unlocked: " + b.Name + "\n" + b.Description
}
