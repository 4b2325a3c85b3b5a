package achievements

import "github.com/abhisek/fluenz/internal/progress"

// Tier is the difficulty band of an achievement.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// AllTiers returns all tiers from lowest to highest.
func AllTiers() []Tier {
	return []Tier{TierBronze, TierSilver, TierGold}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierBronze:
		return "Bronze"
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	default:
		return string(t)
	}
}

// Category groups achievements for display.
type Category string

const (
	CategoryLearning    Category = "learning"
	CategoryConsistency Category = "consistency"
	CategoryMastery     Category = "mastery"
	CategoryExploration Category = "exploration"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{CategoryLearning, CategoryConsistency, CategoryMastery, CategoryExploration}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryLearning:
		return "Learning"
	case CategoryConsistency:
		return "Consistency"
	case CategoryMastery:
		return "Mastery"
	case CategoryExploration:
		return "Exploration"
	default:
		return string(c)
	}
}

// Icon returns the display icon for the category.
func (c Category) Icon() string {
	switch c {
	case CategoryLearning:
		return "📘"
	case CategoryConsistency:
		return "🔥"
	case CategoryMastery:
		return "💎"
	case CategoryExploration:
		return "🧭"
	default:
		return "✦"
	}
}

// Achievement is one entry of the rules table.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Tier        Tier
	// TotalSteps is the progress value at which the achievement is earned.
	TotalSteps int

	progress func(progress.Snapshot) int
	// manual achievements are unlocked by the app, never by Evaluate.
	manual bool
}

// Progress returns the learner's current progress toward the achievement,
// capped at TotalSteps.
func (a Achievement) Progress(snap progress.Snapshot) int {
	if a.manual {
		if snap.IsUnlocked(a.ID) {
			return a.TotalSteps
		}
		return 0
	}
	return min(max(a.progress(snap), 0), a.TotalSteps)
}

// Check reports whether the snapshot satisfies the achievement.
func (a Achievement) Check(snap progress.Snapshot) bool {
	if a.manual {
		return false
	}
	return a.progress(snap) >= a.TotalSteps
}

// Manual reports whether the achievement is unlocked by app logic only.
func (a Achievement) Manual() bool {
	return a.manual
}
