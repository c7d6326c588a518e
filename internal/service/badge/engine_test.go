package badge

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func ids(badges []models.Badge) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		out = append(out, b.ID)
	}
	return out
}

func held(t *testing.T, badgeIDs ...string) []models.Badge {
	t.Helper()
	earned := now.Add(-30 * 24 * time.Hour)
	out := make([]models.Badge, 0, len(badgeIDs))
	for _, id := range badgeIDs {
		def, ok := Lookup(id)
		require.True(t, ok, id)
		out = append(out, def.Award(earned))
	}
	return out
}

func TestCatalog_UniqueIDsAndTiers(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Catalog {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.Equal(t, "media/badges/"+d.ID+".png", d.IconURL())
	}

	prev, ok := PreviousTier(models.BadgePathIllumination, 3)
	require.True(t, ok)
	assert.Equal(t, "candlebearer", prev.ID)

	_, ok = PreviousTier(models.BadgePathGame, 1)
	assert.False(t, ok)
	_, ok = PreviousTier(models.BadgePathStarter, 0)
	assert.False(t, ok)
}

func TestDefinition_Earned(t *testing.T) {
	flamekeeper, _ := Lookup("flamekeeper")

	assert.False(t, flamekeeper.Earned(models.Progress{models.CounterStoriesCompleted: 50}))
	assert.False(t, flamekeeper.Earned(models.Progress{models.CounterTimelinesCompleted: 2}))
	assert.True(t, flamekeeper.Earned(models.Progress{
		models.CounterStoriesCompleted:   50,
		models.CounterTimelinesCompleted: 2,
	}))

	starter, _ := Lookup("truth_seeker")
	assert.True(t, starter.Earned(nil))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		current   []string
		progress  models.Progress
		active    bool
		wantIDs   []string
		wantNewly []string
	}{
		{
			name:      "fresh user earns starters",
			progress:  models.Progress{},
			active:    true,
			wantIDs:   []string{"truth_seeker", "first_step"},
			wantNewly: []string{"truth_seeker", "first_step"},
		},
		{
			name:      "threshold reached",
			current:   []string{"truth_seeker", "first_step"},
			progress:  models.Progress{models.CounterStoriesCompleted: 3, models.CounterStreakDays: 3},
			active:    true,
			wantIDs:   []string{"spark", "ember", "truth_seeker", "first_step"},
			wantNewly: []string{"spark", "ember"},
		},
		{
			name:     "idempotent when nothing changes",
			current:  []string{"spark", "ember", "truth_seeker", "first_step"},
			progress: models.Progress{models.CounterStoriesCompleted: 4, models.CounterStreakDays: 3},
			active:   true,
			wantIDs:  []string{"spark", "ember", "truth_seeker", "first_step"},
		},
		{
			name:     "held badges kept even when progress drops",
			current:  []string{"flame", "truth_seeker", "first_step"},
			progress: models.Progress{models.CounterStreakDays: 1},
			active:   true,
			wantIDs:  []string{"flame", "truth_seeker", "first_step"},
		},
		{
			name:     "inactive user falls back one tier",
			current:  []string{"spark", "candlebearer", "uncover", "truth_seeker", "first_step"},
			progress: models.Progress{models.CounterStoriesCompleted: 12, models.CounterGamesPlayed: 1},
			active:   false,
			wantIDs:  []string{"spark", "truth_seeker", "first_step"},
		},
		{
			name:      "inactive user without the lower tier loses the badge and re-earns it",
			current:   []string{"candlebearer", "truth_seeker", "first_step"},
			progress:  models.Progress{models.CounterStoriesCompleted: 12},
			active:    false,
			wantIDs:   []string{"spark", "truth_seeker", "first_step"},
			wantNewly: []string{"spark"},
		},
		{
			name:      "inactive user still earns new badges",
			current:   []string{"truth_seeker", "first_step"},
			progress:  models.Progress{models.CounterStoriesCompleted: 3, models.CounterGamesPlayed: 1},
			active:    false,
			wantIDs:   []string{"spark", "uncover", "truth_seeker", "first_step"},
			wantNewly: []string{"spark", "uncover"},
		},
		{
			name:      "streak badges ignore inactivity",
			current:   []string{"ember", "truth_seeker", "first_step"},
			progress:  models.Progress{models.CounterStreakDays: 7, models.CounterStoriesCompleted: 3},
			active:    false,
			wantIDs:   []string{"ember", "flame", "truth_seeker", "first_step"},
			wantNewly: []string{"flame"},
		},
		{
			name:      "across categories unlocks constellation",
			current:   []string{"truth_seeker", "first_step"},
			progress:  models.Progress{models.CounterTimelinesAcrossCategories: 3},
			active:    true,
			wantIDs:   []string{"constellation", "truth_seeker", "first_step"},
			wantNewly: []string{"constellation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, newly := Evaluate(held(t, tt.current...), tt.progress, tt.active, now)

			if diff := cmp.Diff(tt.wantIDs, ids(updated)); diff != "" {
				t.Errorf("updated mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantNewly, ids(newly), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("newly mismatch (-want +got):\n%s", diff)
			}
			for _, b := range newly {
				require.NotNil(t, b.EarnedAt)
				assert.True(t, b.EarnedAt.Equal(now))
			}
		})
	}
}

func TestEvaluate_KeepsHeldRecordAndDropsUnknownBadges(t *testing.T) {
	legacy := models.Badge{ID: "beta_tester", Name: "Beta Tester"}
	current := append(held(t, "spark"), legacy, held(t, "spark")[0])

	updated, newly := Evaluate(current, models.Progress{models.CounterStoriesCompleted: 3}, true, now)

	assert.Equal(t, []string{"spark", "truth_seeker", "first_step"}, ids(updated))
	assert.Equal(t, []string{"truth_seeker", "first_step"}, ids(newly))
	assert.Equal(t, current[0].EarnedAt, updated[0].EarnedAt)
}

func TestEnsureDefaults(t *testing.T) {
	out, changed := EnsureDefaults(held(t, "spark", "first_step"), now)
	assert.True(t, changed)
	assert.Equal(t, []string{"spark", "first_step", "truth_seeker"}, ids(out))

	_, changed = EnsureDefaults(out, now)
	assert.False(t, changed)
}

func TestUnlockMessage(t *testing.T) {
	spark, _ := Lookup("spark")
	assert.Contains(t, UnlockMessage(spark.Record()), "Badge Unlocked: Spark")

	uncover, _ := Lookup("uncover")
	assert.Equal(t, "🎉 Badge Unlocked: Uncover\nPlay 1 game of any type", UnlockMessage(uncover.Record()))
}
