package progress

import (
	"slices"

	"github.com/abhisek/fluenz/internal/activity"
	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/spacedrep"
	"github.com/abhisek/fluenz/internal/store"
)

// Activity event kinds.
const (
	KindXP                  = "xp"
	KindDailyTouch          = "daily_touch"
	KindTopicCompleted      = "topic_completed"
	KindFavoriteToggled     = "favorite_toggled"
	KindDifficultToggled    = "difficult_toggled"
	KindTestResult          = "test_result"
	KindSpeakingResult      = "speaking_result"
	KindWeakPointsAdded     = "weak_points_added"
	KindWeakPointsCleared   = "weak_points_cleared"
	KindWordsIntroduced     = "words_introduced"
	KindWordReviewed        = "word_reviewed"
	KindAchievementUnlocked = "achievement_unlocked"
	KindOnboarded           = "onboarded"
	KindDailyGoalSet        = "daily_goal_set"
)

// RecordXP adds earned XP, applying the daily goal bonus at most once a day.
func (s *Store) RecordXP(amount int, isPerfect bool) activity.GoalResult {
	var res activity.GoalResult
	s.apply(KindXP, func(next *Snapshot, today calendar.Day) change {
		res = activity.AddXP(amount, today, next.XPToday, next.DailyGoal, next.DailyGoalCompleted)
		next.TotalXP += res.Awarded
		next.XPToday = activity.XPCounter{Date: today, XP: res.XPToday}
		next.DailyGoalCompleted = activity.GoalFlag{Date: today, Completed: res.Completed}
		return change{
			fields: []string{store.FieldTotalXP, store.FieldXPToday, store.FieldDailyGoalCompleted},
			detail: map[string]any{
				"amount":  max(amount, 0),
				"bonus":   res.BonusXP,
				"perfect": isPerfect,
				"goalMet": res.JustCompleted,
			},
		}
	})
	return res
}

// RecordDailyTouch counts today toward the streak. Repeated calls on the
// same day change nothing.
func (s *Store) RecordDailyTouch() activity.StreakResult {
	var res activity.StreakResult
	s.apply(KindDailyTouch, func(next *Snapshot, today calendar.Day) change {
		res = activity.Touch(next.LastActiveDate, next.Streak, today)
		if !res.Changed {
			return change{}
		}
		next.Streak = res.Streak
		next.LastActiveDate = res.LastActive
		return change{
			fields: []string{store.FieldStreak, store.FieldLastActiveDate},
			detail: map[string]any{"streak": res.Streak, "reset": res.Reset},
		}
	})
	return res
}

// RecordTopicCompletion marks a topic of a level as completed. Returns false
// if it already was.
func (s *Store) RecordTopicCompletion(level, topic string) bool {
	added := false
	s.apply(KindTopicCompleted, func(next *Snapshot, _ calendar.Day) change {
		next.CompletedTopics[level], added = union(next.CompletedTopics[level], []string{topic})
		if !added {
			return change{}
		}
		return change{
			fields: []string{store.FieldCompletedTopics},
			detail: map[string]any{"level": level, "topic": topic},
		}
	})
	return added
}

// ToggleFavorite flips a topic's favorite flag and returns the new state.
func (s *Store) ToggleFavorite(level, topic string) bool {
	return s.toggleTopic(KindFavoriteToggled, store.FieldFavoriteTopics, level, topic,
		func(n *Snapshot) map[string][]string { return n.FavoriteTopics })
}

// ToggleDifficult flips a topic's difficult flag and returns the new state.
func (s *Store) ToggleDifficult(level, topic string) bool {
	return s.toggleTopic(KindDifficultToggled, store.FieldDifficultTopics, level, topic,
		func(n *Snapshot) map[string][]string { return n.DifficultTopics })
}

func (s *Store) toggleTopic(kind, field, level, topic string, sets func(*Snapshot) map[string][]string) bool {
	on := false
	s.apply(kind, func(next *Snapshot, _ calendar.Day) change {
		if topic == "" {
			return change{}
		}
		m := sets(next)
		m[level], on = toggle(m[level], topic)
		return change{
			fields: []string{field},
			detail: map[string]any{"level": level, "topic": topic, "on": on},
		}
	})
	return on
}

// RecordTestResult appends a test percentage (0-100) to the history.
func (s *Store) RecordTestResult(percentage float64) {
	percentage = finite(percentage)
	s.apply(KindTestResult, func(next *Snapshot, _ calendar.Day) change {
		next.TestHistory = append(next.TestHistory, TestResult{Date: s.clock.Now(), Percentage: percentage})
		return change{
			fields: []string{store.FieldTestHistory},
			detail: map[string]any{"percentage": percentage},
		}
	})
}

// RecordSpeakingResult appends a speaking band score (0-9) to the history.
func (s *Store) RecordSpeakingResult(score float64) {
	score = finite(score)
	s.apply(KindSpeakingResult, func(next *Snapshot, _ calendar.Day) change {
		next.SpeakingHistory = append(next.SpeakingHistory, SpeakingResult{Date: s.clock.Now(), Score: score})
		return change{
			fields: []string{store.FieldSpeakingHistory},
			detail: map[string]any{"score": score},
		}
	})
}

// RecordWeakPoints adds items to the weak-point sets and returns how many
// were new.
func (s *Store) RecordWeakPoints(points WeakPoints) int {
	added := 0
	s.apply(KindWeakPointsAdded, func(next *Snapshot, _ calendar.Day) change {
		before := next.WeakPoints.Len()
		next.WeakPoints.Vocabulary, _ = union(next.WeakPoints.Vocabulary, points.Vocabulary)
		next.WeakPoints.Grammar, _ = union(next.WeakPoints.Grammar, points.Grammar)
		added = next.WeakPoints.Len() - before
		if added == 0 {
			return change{}
		}
		return change{
			fields: []string{store.FieldWeakPoints},
			detail: map[string]any{"added": added},
		}
	})
	return added
}

// ClearWeakPoints empties one weak-point set.
func (s *Store) ClearWeakPoints(kind WeakKind) {
	s.apply(KindWeakPointsCleared, func(next *Snapshot, _ calendar.Day) change {
		var cleared int
		switch kind {
		case WeakVocabulary:
			cleared = len(next.WeakPoints.Vocabulary)
			next.WeakPoints.Vocabulary = nil
		case WeakGrammar:
			cleared = len(next.WeakPoints.Grammar)
			next.WeakPoints.Grammar = nil
		}
		if cleared == 0 {
			return change{}
		}
		return change{
			fields: []string{store.FieldWeakPoints},
			detail: map[string]any{"kind": string(kind), "cleared": cleared},
		}
	})
}

// IntroduceWords starts tracking words that are not tracked yet, due today.
// Returns the number of new words.
func (s *Store) IntroduceWords(keys []string) int {
	var introduced []string
	s.apply(KindWordsIntroduced, func(next *Snapshot, today calendar.Day) change {
		for _, key := range keys {
			rec, ok := spacedrep.Introduce(next.WordMastery, key, today)
			if !ok {
				continue
			}
			key = spacedrep.CanonicalKey(key)
			next.WordMastery[key] = rec
			introduced = append(introduced, key)
		}
		if len(introduced) == 0 {
			return change{}
		}
		return change{
			fields: []string{store.FieldWordMastery},
			detail: map[string]any{"words": slices.Clone(introduced)},
		}
	})
	return len(introduced)
}

// ReviewWord applies a review outcome to a tracked word. Untracked words are
// ignored and reported with false.
func (s *Store) ReviewWord(key string, correct bool) (spacedrep.Record, bool) {
	var (
		rec   spacedrep.Record
		found bool
	)
	key = spacedrep.CanonicalKey(key)
	s.apply(KindWordReviewed, func(next *Snapshot, today calendar.Day) change {
		cur, ok := next.WordMastery[key]
		if !ok {
			return change{}
		}
		found = true
		rec = spacedrep.Advance(cur, correct, today)
		next.WordMastery[key] = rec
		return change{
			fields: []string{store.FieldWordMastery},
			detail: map[string]any{
				"word":    key,
				"correct": correct,
				"from":    cur.Level,
				"to":      rec.Level,
			},
		}
	})
	return rec, found
}

// DueWordsNow returns the tracked words due today, sorted.
func (s *Store) DueWordsNow() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.DueWords(s.clock.Today())
}

// UnlockAchievement records an achievement once. Returns false if it was
// already unlocked.
func (s *Store) UnlockAchievement(id string) bool {
	unlocked := false
	s.apply(KindAchievementUnlocked, func(next *Snapshot, _ calendar.Day) change {
		if id == "" || next.IsUnlocked(id) {
			return change{}
		}
		next.UnlockedAchievements[id] = s.clock.Now()
		unlocked = true
		return change{
			fields: []string{store.FieldUnlockedAchievements},
			detail: map[string]any{"id": id},
		}
	})
	return unlocked
}

// MarkOnboarded clears the new-learner flag.
func (s *Store) MarkOnboarded() bool {
	marked := false
	s.apply(KindOnboarded, func(next *Snapshot, _ calendar.Day) change {
		if !next.IsNewUser {
			return change{}
		}
		next.IsNewUser = false
		marked = true
		return change{fields: []string{store.FieldIsNewUser}}
	})
	return marked
}

// SetDailyGoal changes the daily XP target. Non-positive goals are ignored.
func (s *Store) SetDailyGoal(goal int) bool {
	set := false
	s.apply(KindDailyGoalSet, func(next *Snapshot, _ calendar.Day) change {
		if goal <= 0 || goal == next.DailyGoal {
			return change{}
		}
		next.DailyGoal = goal
		set = true
		return change{
			fields: []string{store.FieldDailyGoal},
			detail: map[string]any{"goal": goal},
		}
	})
	return set
}
