// Package fluency computes the learner's composite fluency score.
package fluency

import "math"

const (
	// Base is awarded to every learner.
	Base = 100.0

	StreakPerDay = 5.0
	StreakCap    = 150.0

	EffortFactor = 20.0
	EffortCap    = 200.0

	// TestWindow is how many of the newest test results are averaged.
	TestWindow = 5
	TestCap    = 250.0

	// SpeakingWindow is how many of the newest speaking results are averaged.
	SpeakingWindow = 3
	SpeakingCap    = 300.0
	// SpeakingScale is the top of the speaking band scale.
	SpeakingScale = 9.0

	WeakPointPenalty = 2.0

	// Max is the highest possible score.
	Max = 1000
)

// Metrics holds the raw learner data the score is derived from.
type Metrics struct {
	Streak  int
	TotalXP int
	// TestPercentages are test results (0-100), oldest first.
	TestPercentages []float64
	// SpeakingScores are speaking band scores (0-9), oldest first.
	SpeakingScores []float64
	// WeakPoints is the number of outstanding vocabulary and grammar items.
	WeakPoints int
}

// Breakdown is the per-signal contribution to a score.
type Breakdown struct {
	Base     float64
	Streak   float64
	Effort   float64
	Test     float64
	Speaking float64
	// Penalty is zero or negative.
	Penalty float64
	Total   int
}

// Compute returns every signal's contribution and the final score.
func Compute(m Metrics) Breakdown {
	b := Breakdown{
		Base:    Base,
		Streak:  clamp(float64(m.Streak)*StreakPerDay, 0, StreakCap),
		Effort:  clamp(math.Log(float64(max(m.TotalXP, 0))+1)*EffortFactor, 0, EffortCap),
		Penalty: -float64(max(m.WeakPoints, 0)) * WeakPointPenalty,
	}

	if avg, ok := recentMean(m.TestPercentages, TestWindow); ok {
		b.Test = clamp(avg/100*TestCap, 0, TestCap)
	}
	if avg, ok := recentMean(m.SpeakingScores, SpeakingWindow); ok {
		b.Speaking = clamp(avg/SpeakingScale*SpeakingCap, 0, SpeakingCap)
	}

	sum := b.Base + b.Streak + b.Effort + b.Test + b.Speaking + b.Penalty
	b.Total = int(math.Round(clamp(sum, 0, Max)))
	return b
}

// Score returns the fluency score in [0, Max].
func Score(m Metrics) int {
	return Compute(m).Total
}

// recentMean averages the last n values. Non-finite values count as 0.
// Returns false when there is nothing to average.
func recentMean(values []float64, n int) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	if len(values) > n {
		values = values[len(values)-n:]
	}
	sum := 0.0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
	}
	return sum / float64(len(values)), true
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
