package spacedrep

import (
	"sort"
	"strings"

	"github.com/abhisek/fluenz/internal/calendar"
)

// Table maps an item key to its mastery record. Items are never removed.
type Table map[string]Record

// CanonicalKey normalizes an item key. Empty results are not tracked.
func CanonicalKey(key string) string {
	return strings.TrimSpace(key)
}

// Introduce returns a fresh record for key when the table does not track it
// yet. The second result is false when the key already exists (its record is
// returned unchanged) or is empty.
func Introduce(t Table, key string, today calendar.Day) (Record, bool) {
	key = CanonicalKey(key)
	if key == "" {
		return Record{}, false
	}
	if existing, ok := t[key]; ok {
		return existing, false
	}
	return NewRecord(today), true
}

// DueItems returns the keys due on or before today, sorted by key.
func DueItems(t Table, today calendar.Day) []string {
	var due []string
	for key, r := range t {
		if r.IsDue(today) {
			due = append(due, key)
		}
	}
	sort.Strings(due)
	return due
}

// MostOverdue returns due keys ordered by how long they have been waiting,
// oldest first, with ties broken by key.
func MostOverdue(t Table, today calendar.Day) []string {
	due := DueItems(t, today)
	sort.SliceStable(due, func(i, j int) bool {
		return t[due[i]].OverdueDays(today) > t[due[j]].OverdueDays(today)
	})
	return due
}

// LevelCounts returns the number of items at each level.
func LevelCounts(t Table) [MaxLevel + 1]int {
	var counts [MaxLevel + 1]int
	for _, r := range t {
		counts[ClampLevel(r.Level)]++
	}
	return counts
}

// Clone returns an independent copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, r := range t {
		out[k] = r
	}
	return out
}
