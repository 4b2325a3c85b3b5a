package activity

import "github.com/abhisek/fluenz/internal/calendar"

const (
	// DefaultDailyGoal is the XP target for a new learner.
	DefaultDailyGoal = 50

	// GoalBonusXP is awarded once per day when the goal is reached.
	GoalBonusXP = 25
)

// GoalResult is the outcome of adding XP to today's counter.
type GoalResult struct {
	// XPToday is today's accumulated XP after this gain, excluding the bonus.
	XPToday int
	Goal    int
	BonusXP int
	// JustCompleted is true only on the call that crossed the goal.
	JustCompleted bool
	// Completed is true once the goal has been reached today.
	Completed bool
	// Awarded is the XP to add to the cumulative total (gain + bonus).
	Awarded int
}

// AddXP adds gained XP to today's counter and checks the daily goal.
// Negative gains count as zero. A stale counter or flag from an earlier day
// is treated as empty before adding. A non-positive goal falls back to
// DefaultDailyGoal.
func AddXP(gained int, today calendar.Day, counter XPCounter, goal int, flag GoalFlag) GoalResult {
	gained = max(gained, 0)
	if goal <= 0 {
		goal = DefaultDailyGoal
	}

	updated := counter.On(today) + gained
	alreadyDone := flag.On(today)

	res := GoalResult{
		XPToday:   updated,
		Goal:      goal,
		Completed: alreadyDone,
		Awarded:   gained,
	}
	if !alreadyDone && updated >= goal {
		res.BonusXP = GoalBonusXP
		res.JustCompleted = true
		res.Completed = true
		res.Awarded += GoalBonusXP
	}
	return res
}

// Remaining returns the XP still needed today to reach the goal.
func Remaining(today calendar.Day, counter XPCounter, goal int) int {
	if goal <= 0 {
		goal = DefaultDailyGoal
	}
	return max(goal-counter.On(today), 0)
}
