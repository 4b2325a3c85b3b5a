package spacedrep

import "github.com/abhisek/fluenz/internal/calendar"

// Record holds the mastery state of one learned item.
type Record struct {
	Level         int          `json:"level"`
	NextReviewDue calendar.Day `json:"nextReviewDate"`
}

// NewRecord returns a level-0 record that is due on today.
func NewRecord(today calendar.Day) Record {
	return Record{Level: 0, NextReviewDue: today}
}

// IsDue returns true if the item is due on or before today.
func (r Record) IsDue(today calendar.Day) bool {
	return !r.NextReviewDue.After(today)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (r Record) OverdueDays(today calendar.Day) int {
	if !r.IsDue(today) {
		return 0
	}
	return today.DaysSince(r.NextReviewDue)
}

// DaysUntilReview returns the number of days until the item is due.
// Returns 0 if already due.
func (r Record) DaysUntilReview(today calendar.Day) int {
	if r.IsDue(today) {
		return 0
	}
	return r.NextReviewDue.DaysSince(today)
}

// Advance applies one review outcome. A correct answer promotes the item one
// level (capped at MaxLevel), an incorrect one demotes it one level (floored
// at 0). The next due date is today plus the new level's interval.
func Advance(r Record, correct bool, today calendar.Day) Record {
	level := ClampLevel(r.Level)
	if correct {
		level = min(level+1, MaxLevel)
	} else {
		level = max(level-1, 0)
	}
	return Record{
		Level:         level,
		NextReviewDue: today.AddDays(Intervals[level]),
	}
}
