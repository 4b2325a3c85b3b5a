package calendar

import (
	"fmt"
	"time"
)

// DayLayout is the wire format for a Day.
const DayLayout = "2006-01-02"

// Day is a calendar date with no time-of-day component.
// The zero Day means "no date".
type Day struct {
	t time.Time // always midnight UTC
}

// NewDay returns the Day for the given year, month and day of month.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay parses "2006-01-02". Full RFC3339 timestamps are also accepted;
// their date part (in the timestamp's own offset) is used.
func ParseDay(s string) (Day, error) {
	return ParseDayIn(s, nil)
}

// ParseDayIn is ParseDay for a learner in loc. A timestamp is an instant,
// so its date is taken in loc: local midnight stored as a UTC instant
// ("2025-01-04T17:00:00Z" for UTC+7) reads back as the local date. Plain
// dates are location-free. A nil loc keeps the timestamp's own offset.
func ParseDayIn(s string, loc *time.Location) (Day, error) {
	if t, err := time.Parse(DayLayout, s); err == nil {
		return DayOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		if loc != nil {
			t = t.In(loc)
		}
		return DayOf(t), nil
	}
	return Day{}, fmt.Errorf("parse day %q: expected YYYY-MM-DD", s)
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d.t.IsZero() }

// AddDays returns d shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }

// DaysSince returns the number of whole days from o to d (negative when d is
// earlier than o).
func (d Day) DaysSince(o Day) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// Time returns midnight UTC of d.
func (d Day) Time() time.Time { return d.t }

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DayLayout)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
