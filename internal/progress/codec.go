package progress

import (
	"math"
	"time"

	"github.com/abhisek/fluenz/internal/activity"
	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/spacedrep"
	"github.com/abhisek/fluenz/internal/store"
)

// timestampLayout is the persisted form of instants (millisecond precision).
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseDay returns the zero Day for empty or unreadable input.
func parseDay(s string, loc *time.Location) calendar.Day {
	d, err := calendar.ParseDayIn(s, loc)
	if err != nil {
		return calendar.Day{}
	}
	return d
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// fromData decodes a stored document, filling defaults for missing parts.
// Timestamp dates are read as dates in loc. The stored fluency score is
// kept as is; callers recompute it.
func fromData(d *store.ProgressData, today calendar.Day, loc *time.Location) Snapshot {
	s := Snapshot{
		TotalXP:   max(d.TotalXP, 0),
		Streak:    max(d.Streak, 0),
		DailyGoal: d.DailyGoal,
		XPToday: activity.XPCounter{
			Date: parseDay(d.XPToday.Date, loc),
			XP:   max(d.XPToday.XP, 0),
		},
		DailyGoalCompleted: activity.GoalFlag{
			Date:      parseDay(d.DailyGoalCompleted.Date, loc),
			Completed: d.DailyGoalCompleted.Completed,
		},
		WordMastery:          spacedrep.LoadTable(d.WordMastery, today, loc),
		CompletedTopics:      cloneTopics(d.CompletedTopics),
		FavoriteTopics:       cloneTopics(d.FavoriteTopics),
		DifficultTopics:      cloneTopics(d.DifficultTopics),
		UnlockedAchievements: make(map[string]time.Time, len(d.UnlockedAchievements)),
		IsNewUser:            d.IsNewUser,
		FluencyScore:         d.FluencyScore,
	}
	if s.DailyGoal <= 0 {
		s.DailyGoal = activity.DefaultDailyGoal
	}
	if d.LastActiveDate != nil {
		s.LastActiveDate = parseDay(*d.LastActiveDate, loc)
	}
	s.WeakPoints.Vocabulary, _ = union(nil, d.WeakPoints.Vocabulary)
	s.WeakPoints.Grammar, _ = union(nil, d.WeakPoints.Grammar)

	for _, r := range d.TestHistory {
		s.TestHistory = append(s.TestHistory, TestResult{
			Date:       parseTime(r.Date),
			Percentage: finite(r.Percentage),
		})
	}
	for _, r := range d.SpeakingHistory {
		s.SpeakingHistory = append(s.SpeakingHistory, SpeakingResult{
			Date:  parseTime(r.Date),
			Score: finite(r.Score),
		})
	}
	for id, at := range d.UnlockedAchievements {
		s.UnlockedAchievements[id] = parseTime(at)
	}
	return s
}

// toData encodes a snapshot as a full stored document.
func toData(s *Snapshot) *store.ProgressData {
	d := &store.ProgressData{
		TotalXP:              s.TotalXP,
		Streak:               s.Streak,
		CompletedTopics:      cloneTopics(s.CompletedTopics),
		FavoriteTopics:       cloneTopics(s.FavoriteTopics),
		DifficultTopics:      cloneTopics(s.DifficultTopics),
		UnlockedAchievements: make(map[string]string, len(s.UnlockedAchievements)),
		DailyGoal:            s.DailyGoal,
		XPToday: store.XPTodayData{
			Date: s.XPToday.Date.String(),
			XP:   s.XPToday.XP,
		},
		DailyGoalCompleted: store.GoalCompletedData{
			Date:      s.DailyGoalCompleted.Date.String(),
			Completed: s.DailyGoalCompleted.Completed,
		},
		WeakPoints: store.WeakPointsData{
			Vocabulary: append([]string{}, s.WeakPoints.Vocabulary...),
			Grammar:    append([]string{}, s.WeakPoints.Grammar...),
		},
		FluencyScore:    s.FluencyScore,
		TestHistory:     make([]store.TestResultData, len(s.TestHistory)),
		SpeakingHistory: make([]store.SpeakingResultData, len(s.SpeakingHistory)),
		WordMastery:     spacedrep.ExportTable(s.WordMastery),
		IsNewUser:       s.IsNewUser,
	}
	if !s.LastActiveDate.IsZero() {
		day := s.LastActiveDate.String()
		d.LastActiveDate = &day
	}
	for i, r := range s.TestHistory {
		d.TestHistory[i] = store.TestResultData{Date: formatTime(r.Date), Percentage: r.Percentage}
	}
	for i, r := range s.SpeakingHistory {
		d.SpeakingHistory[i] = store.SpeakingResultData{Date: formatTime(r.Date), Score: r.Score}
	}
	for id, at := range s.UnlockedAchievements {
		d.UnlockedAchievements[id] = formatTime(at)
	}
	return d
}

// patchFor builds a partial update carrying the named fields of s.
func patchFor(s *Snapshot, fields []string) store.ProgressPatch {
	d := toData(s)
	patch := make(store.ProgressPatch, len(fields))
	for _, f := range fields {
		switch f {
		case store.FieldTotalXP:
			patch[f] = d.TotalXP
		case store.FieldStreak:
			patch[f] = d.Streak
		case store.FieldLastActiveDate:
			patch[f] = d.LastActiveDate
		case store.FieldCompletedTopics:
			patch[f] = d.CompletedTopics
		case store.FieldFavoriteTopics:
			patch[f] = d.FavoriteTopics
		case store.FieldDifficultTopics:
			patch[f] = d.DifficultTopics
		case store.FieldUnlockedAchievements:
			patch[f] = d.UnlockedAchievements
		case store.FieldDailyGoal:
			patch[f] = d.DailyGoal
		case store.FieldXPToday:
			patch[f] = d.XPToday
		case store.FieldDailyGoalCompleted:
			patch[f] = d.DailyGoalCompleted
		case store.FieldWeakPoints:
			patch[f] = d.WeakPoints
		case store.FieldFluencyScore:
			patch[f] = d.FluencyScore
		case store.FieldTestHistory:
			patch[f] = d.TestHistory
		case store.FieldSpeakingHistory:
			patch[f] = d.SpeakingHistory
		case store.FieldWordMastery:
			patch[f] = d.WordMastery
		case store.FieldIsNewUser:
			patch[f] = d.IsNewUser
		}
	}
	return patch
}
