// Package activity implements the daily-activity rules: the consecutive-day
// streak and the rolling daily XP goal.
package activity

import "github.com/abhisek/fluenz/internal/calendar"

// ValidOn reports whether a value stamped with date still applies on today.
// Rolling per-day counters are only meaningful on the day they were written;
// on any other day they read as zero.
func ValidOn(stamp, today calendar.Day) bool {
	return !stamp.IsZero() && stamp.Equal(today)
}

// XPCounter is the XP earned on a single day.
type XPCounter struct {
	Date calendar.Day
	XP   int
}

// On returns the counter's XP if it belongs to today, otherwise 0.
func (c XPCounter) On(today calendar.Day) int {
	if !ValidOn(c.Date, today) {
		return 0
	}
	return c.XP
}

// GoalFlag records whether the daily goal was reached on a given day.
type GoalFlag struct {
	Date      calendar.Day
	Completed bool
}

// On returns true only if the flag was set today.
func (f GoalFlag) On(today calendar.Day) bool {
	return ValidOn(f.Date, today) && f.Completed
}
