package badge

import (
	"time"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

// RetentionWindow is how far back activity must reach for illumination and game badges to be kept.
const RetentionWindow = 7 * 24 * time.Hour

// Evaluate applies the catalog to the badges a user holds.
// When active is false, held illumination and game badges fall back one tier.
// Earned badges are always awarded and badges unknown to the catalog are dropped.
func Evaluate(current []models.Badge, progress models.Progress, active bool, now time.Time) (updated, newly []models.Badge) {
	held := make(map[string]models.Badge, len(current))
	for _, b := range current {
		if _, ok := held[b.ID]; !ok {
			held[b.ID] = b
		}
	}

	seen := make(map[string]struct{}, len(current))
	add := func(b models.Badge) {
		if _, ok := seen[b.ID]; ok {
			return
		}
		seen[b.ID] = struct{}{}
		updated = append(updated, b)
	}

	for _, def := range Catalog {
		record, isHeld := held[def.ID]
		switch {
		case isHeld && def.Retained() && !active:
			if prev, ok := PreviousTier(def.Path, def.Tier); ok {
				if prevRecord, heldPrev := held[prev.ID]; heldPrev {
					add(prevRecord)
				}
			}
		case isHeld:
			add(record)
		case def.Earned(progress):
			b := def.Award(now)
			add(b)
			newly = append(newly, b)
		}
	}

	return updated, newly
}

// EnsureDefaults appends any starter badge the user is missing.
func EnsureDefaults(current []models.Badge, now time.Time) ([]models.Badge, bool) {
	held := make(map[string]struct{}, len(current))
	for _, b := range current {
		held[b.ID] = struct{}{}
	}

	out := append([]models.Badge(nil), current...)
	changed := false
	for _, b := range Defaults(now) {
		if _, ok := held[b.ID]; ok {
			continue
		}
		out = append(out, b)
		changed = true
	}
	return out, changed
}

// RetainedPaths lists the badge paths subject to inactivity fallback.
func RetainedPaths() []string {
	return []string{models.BadgePathIllumination, models.BadgePathGame}
}
