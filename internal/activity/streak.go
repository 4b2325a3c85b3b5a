package activity

import "github.com/abhisek/fluenz/internal/calendar"

// StreakResult is the outcome of a daily touch.
type StreakResult struct {
	Streak     int
	LastActive calendar.Day
	// Changed is false when the learner was already active today.
	Changed   bool
	Continued bool
	Reset     bool
}

// Touch applies the first activity of today to a streak.
//
// Active today already: nothing changes. Active yesterday: the streak grows
// by one. Anything else (a gap, no previous activity, or a last-active date
// in the future): the streak restarts at 1.
func Touch(lastActive calendar.Day, streak int, today calendar.Day) StreakResult {
	streak = max(streak, 0)

	if !lastActive.IsZero() && lastActive.Equal(today) {
		return StreakResult{Streak: streak, LastActive: lastActive}
	}

	if !lastActive.IsZero() && lastActive.AddDays(1).Equal(today) {
		return StreakResult{
			Streak:     streak + 1,
			LastActive: today,
			Changed:    true,
			Continued:  true,
		}
	}

	return StreakResult{
		Streak:     1,
		LastActive: today,
		Changed:    true,
		Reset:      streak > 0,
	}
}

// Broken reports whether a streak would restart on the next touch, i.e. the
// learner was last active before yesterday. Used for display only.
func Broken(lastActive calendar.Day, today calendar.Day) bool {
	if lastActive.IsZero() {
		return false
	}
	return lastActive.Before(today.AddDays(-1))
}

// streakMilestones are the streak lengths that unlock consistency achievements.
var streakMilestones = []int{3, 7, 30}

// NextStreakMilestone returns the next milestone above the current streak.
func NextStreakMilestone(current int) int {
	for _, m := range streakMilestones {
		if m > current {
			return m
		}
	}
	// Beyond 30, every 30 days.
	return ((current / 30) + 1) * 30
}
