package calendar

import "time"

// Clock is the source of "now" and "today" for scheduling decisions.
type Clock interface {
	Now() time.Time
	// Today is the current date in the learner's location.
	Today() Day
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Local returns a SystemClock in the process's local time zone.
func Local() SystemClock {
	return SystemClock{Location: time.Local}
}

func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

func (c SystemClock) Today() Day {
	return DayOf(c.Now())
}

// FixedClock always reports the same instant. Used by tests and replays.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }
func (c *FixedClock) Today() Day     { return DayOf(c.T) }

// Advance moves the clock forward by n days.
func (c *FixedClock) Advance(days int) {
	c.T = c.T.AddDate(0, 0, days)
}
