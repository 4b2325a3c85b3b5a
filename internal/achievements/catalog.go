// Package achievements holds the achievement rules table and unlocks
// achievements as a learner's progress satisfies them.
package achievements

import (
	"slices"

	"github.com/abhisek/fluenz/internal/progress"
)

// Manually unlocked achievement ids.
const (
	ExploreTutor = "explore_tutor"
)

func completedTopics(s progress.Snapshot) int {
	return len(s.CompletedTopicsFor(""))
}

func streak(s progress.Snapshot) int {
	return s.Streak
}

func score(s progress.Snapshot) int {
	return s.FluencyScore
}

func perfectTest(s progress.Snapshot) int {
	if slices.ContainsFunc(s.TestHistory, func(r progress.TestResult) bool { return r.Percentage == 100 }) {
		return 1
	}
	return 0
}

func speakingSessions(s progress.Snapshot) int {
	return len(s.SpeakingHistory)
}

func favorites(s progress.Snapshot) int {
	if s.HasFavorite() {
		return 1
	}
	return 0
}

var catalog = []Achievement{
	{ID: "learning_1", Name: "First Steps", Description: "Complete your first topic.",
		Category: CategoryLearning, Tier: TierBronze, TotalSteps: 1, progress: completedTopics},
	{ID: "learning_5", Name: "Explorer", Description: "Complete 5 different topics.",
		Category: CategoryLearning, Tier: TierSilver, TotalSteps: 5, progress: completedTopics},
	{ID: "learning_15", Name: "Scholar", Description: "Complete 15 different topics.",
		Category: CategoryLearning, Tier: TierGold, TotalSteps: 15, progress: completedTopics},

	{ID: "streak_3", Name: "Diligent Learner", Description: "Keep a 3-day learning streak.",
		Category: CategoryConsistency, Tier: TierBronze, TotalSteps: 3, progress: streak},
	{ID: "streak_7", Name: "Devoted Learner", Description: "Keep a 7-day learning streak.",
		Category: CategoryConsistency, Tier: TierSilver, TotalSteps: 7, progress: streak},
	{ID: "streak_30", Name: "Eternal Flame", Description: "Keep a 30-day learning streak.",
		Category: CategoryConsistency, Tier: TierGold, TotalSteps: 30, progress: streak},

	{ID: "mastery_perfect_score", Name: "Flawless", Description: "Score 100% on a test.",
		Category: CategoryMastery, Tier: TierBronze, TotalSteps: 1, progress: perfectTest},
	{ID: "mastery_fluent_250", Name: "Confident Speaker", Description: "Reach a fluency score of 250.",
		Category: CategoryMastery, Tier: TierBronze, TotalSteps: 250, progress: score},
	{ID: "mastery_fluent_500", Name: "Fluent Speaker", Description: "Reach a fluency score of 500.",
		Category: CategoryMastery, Tier: TierSilver, TotalSteps: 500, progress: score},
	{ID: "mastery_fluent_800", Name: "Language Master", Description: "Reach a fluency score of 800.",
		Category: CategoryMastery, Tier: TierGold, TotalSteps: 800, progress: score},

	{ID: "explore_speaking", Name: "Orator", Description: "Finish a mock speaking test.",
		Category: CategoryExploration, Tier: TierBronze, TotalSteps: 1, progress: speakingSessions},
	{ID: ExploreTutor, Name: "Curious", Description: "Chat with the tutor.",
		Category: CategoryExploration, Tier: TierBronze, TotalSteps: 1, manual: true},
	{ID: "explore_favorite", Name: "Collector", Description: "Mark a topic as a favorite.",
		Category: CategoryExploration, Tier: TierBronze, TotalSteps: 1, progress: favorites},
}

// All returns every achievement in catalog order.
func All() []Achievement {
	return slices.Clone(catalog)
}

// ByID looks up an achievement.
func ByID(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Evaluate returns the achievements the snapshot satisfies that are not
// unlocked yet, in catalog order.
func Evaluate(snap progress.Snapshot) []Achievement {
	var out []Achievement
	for _, a := range catalog {
		if snap.IsUnlocked(a.ID) {
			continue
		}
		if a.Check(snap) {
			out = append(out, a)
		}
	}
	return out
}
