package spacedrep

import (
	"time"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/store"
)

// LoadTable rebuilds a Table from persisted word mastery data. Timestamp
// due dates are read as dates in loc. Records with an unreadable due date
// are kept and made due today so no item is lost.
func LoadTable(data map[string]store.WordMasteryData, today calendar.Day, loc *time.Location) Table {
	t := make(Table, len(data))
	for key, wd := range data {
		key = CanonicalKey(key)
		if key == "" {
			continue
		}
		due, err := calendar.ParseDayIn(wd.NextReviewDate, loc)
		if err != nil {
			due = today
		}
		t[key] = Record{
			Level:         ClampLevel(wd.Level),
			NextReviewDue: due,
		}
	}
	return t
}

// ExportTable converts a Table to its persisted form.
func ExportTable(t Table) map[string]store.WordMasteryData {
	data := make(map[string]store.WordMasteryData, len(t))
	for key, r := range t {
		data[key] = store.WordMasteryData{
			Level:          r.Level,
			NextReviewDate: r.NextReviewDue.String(),
		}
	}
	return data
}
