package progress

import (
	"slices"
	"time"

	"github.com/abhisek/fluenz/internal/activity"
	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/fluency"
	"github.com/abhisek/fluenz/internal/spacedrep"
)

// WeakKind selects one of the two weak-point sets.
type WeakKind string

const (
	WeakVocabulary WeakKind = "vocabulary"
	WeakGrammar    WeakKind = "grammar"
)

// WeakPoints are outstanding items flagged for review. Each list is a set
// kept in first-flagged order.
type WeakPoints struct {
	Vocabulary []string
	Grammar    []string
}

// Len returns the total number of weak points.
func (w WeakPoints) Len() int {
	return len(w.Vocabulary) + len(w.Grammar)
}

// TestResult is one finished test.
type TestResult struct {
	Date       time.Time
	Percentage float64
}

// SpeakingResult is one analysed speaking session on the 0-9 band scale.
type SpeakingResult struct {
	Date  time.Time
	Score float64
}

// Snapshot is the full progress state of one learner.
type Snapshot struct {
	TotalXP            int
	Streak             int
	LastActiveDate     calendar.Day
	XPToday            activity.XPCounter
	DailyGoal          int
	DailyGoalCompleted activity.GoalFlag
	WeakPoints         WeakPoints
	// TestHistory and SpeakingHistory are append-only, oldest first.
	TestHistory     []TestResult
	SpeakingHistory []SpeakingResult
	WordMastery     spacedrep.Table

	// Topic sets keyed by level.
	CompletedTopics map[string][]string
	FavoriteTopics  map[string][]string
	DifficultTopics map[string][]string

	UnlockedAchievements map[string]time.Time
	IsNewUser            bool

	// FluencyScore is derived from the other fields. Never set it directly.
	FluencyScore int
}

// NewSnapshot returns the state of a learner who has done nothing yet.
func NewSnapshot(today calendar.Day) Snapshot {
	s := Snapshot{
		DailyGoal:            activity.DefaultDailyGoal,
		XPToday:              activity.XPCounter{Date: today},
		WordMastery:          spacedrep.Table{},
		CompletedTopics:      map[string][]string{},
		FavoriteTopics:       map[string][]string{},
		DifficultTopics:      map[string][]string{},
		UnlockedAchievements: map[string]time.Time{},
		IsNewUser:            true,
	}
	s.FluencyScore = fluency.Score(s.Metrics())
	return s
}

// Metrics extracts the inputs of the fluency score.
func (s Snapshot) Metrics() fluency.Metrics {
	m := fluency.Metrics{
		Streak:          s.Streak,
		TotalXP:         s.TotalXP,
		TestPercentages: make([]float64, len(s.TestHistory)),
		SpeakingScores:  make([]float64, len(s.SpeakingHistory)),
		WeakPoints:      s.WeakPoints.Len(),
	}
	for i, r := range s.TestHistory {
		m.TestPercentages[i] = r.Percentage
	}
	for i, r := range s.SpeakingHistory {
		m.SpeakingScores[i] = r.Score
	}
	return m
}

// XPTodayOn returns the XP earned on today.
func (s Snapshot) XPTodayOn(today calendar.Day) int {
	return s.XPToday.On(today)
}

// GoalCompletedOn reports whether the daily goal was reached on today.
func (s Snapshot) GoalCompletedOn(today calendar.Day) bool {
	return s.DailyGoalCompleted.On(today)
}

// DueWords returns the words due for review on today.
func (s Snapshot) DueWords(today calendar.Day) []string {
	return spacedrep.DueItems(s.WordMastery, today)
}

// CompletedTopicsFor returns the completed topics of one level, or of every
// level (in level order) when level is empty.
func (s Snapshot) CompletedTopicsFor(level string) []string {
	if level != "" {
		return slices.Clone(s.CompletedTopics[level])
	}
	levels := make([]string, 0, len(s.CompletedTopics))
	for l := range s.CompletedTopics {
		levels = append(levels, l)
	}
	slices.Sort(levels)
	var all []string
	for _, l := range levels {
		all = append(all, s.CompletedTopics[l]...)
	}
	return all
}

// HasFavorite reports whether any level has a favorite topic.
func (s Snapshot) HasFavorite() bool {
	for _, topics := range s.FavoriteTopics {
		if len(topics) > 0 {
			return true
		}
	}
	return false
}

// IsUnlocked reports whether an achievement has been unlocked.
func (s Snapshot) IsUnlocked(id string) bool {
	_, ok := s.UnlockedAchievements[id]
	return ok
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.WeakPoints = WeakPoints{
		Vocabulary: slices.Clone(s.WeakPoints.Vocabulary),
		Grammar:    slices.Clone(s.WeakPoints.Grammar),
	}
	c.TestHistory = slices.Clone(s.TestHistory)
	c.SpeakingHistory = slices.Clone(s.SpeakingHistory)
	c.WordMastery = s.WordMastery.Clone()
	c.CompletedTopics = cloneTopics(s.CompletedTopics)
	c.FavoriteTopics = cloneTopics(s.FavoriteTopics)
	c.DifficultTopics = cloneTopics(s.DifficultTopics)
	c.UnlockedAchievements = make(map[string]time.Time, len(s.UnlockedAchievements))
	for id, at := range s.UnlockedAchievements {
		c.UnlockedAchievements[id] = at
	}
	return c
}

func cloneTopics(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for level, topics := range m {
		out[level] = slices.Clone(topics)
	}
	return out
}

// union appends the members of add that are not yet in set. Blank entries
// are skipped.
func union(set []string, add []string) ([]string, bool) {
	changed := false
	for _, v := range add {
		if v == "" || slices.Contains(set, v) {
			continue
		}
		set = append(set, v)
		changed = true
	}
	return set, changed
}

// toggle adds v to set when absent and removes it when present.
func toggle(set []string, v string) ([]string, bool) {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(set, i, i+1), false
	}
	return append(set, v), true
}
