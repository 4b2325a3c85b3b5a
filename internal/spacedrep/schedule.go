package spacedrep

// Intervals maps a mastery level to the number of days until the next
// review. Level 0 is reviewed the same day. Values must stay strictly
// increasing.
var Intervals = [...]int{0, 1, 3, 7, 14, 30, 90, 180}

// MaxLevel is the highest mastery level.
const MaxLevel = len(Intervals) - 1

// levelLabels are display names for each level.
var levelLabels = [...]string{
	"new",
	"learning",
	"familiar",
	"practiced",
	"confident",
	"strong",
	"retained",
	"mastered",
}

// ClampLevel forces level into [0, MaxLevel].
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// IntervalDays returns the review interval for a level.
func IntervalDays(level int) int {
	return Intervals[ClampLevel(level)]
}

// LevelLabel returns the display name of a level.
func LevelLabel(level int) string {
	return levelLabels[ClampLevel(level)]
}
