package fluency

import (
	"math"
	"testing"
)

const epsilon = 0.001

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestScore_NewLearner(t *testing.T) {
	if got := Score(Metrics{}); got != 100 {
		t.Errorf("Score(new learner) = %d, want 100", got)
	}
}

func TestCompute_PerfectSingleTest(t *testing.T) {
	b := Compute(Metrics{TestPercentages: []float64{100}})
	if !almostEqual(b.Test, 250) {
		t.Errorf("Test = %f, want 250", b.Test)
	}
	if b.Total != 350 {
		t.Errorf("Total = %d, want 350", b.Total)
	}
}

func TestCompute_StreakCapped(t *testing.T) {
	b := Compute(Metrics{Streak: 40})
	if !almostEqual(b.Streak, 150) {
		t.Errorf("Streak = %f, want 150", b.Streak)
	}
	if b.Total != 250 {
		t.Errorf("Total = %d, want 250", b.Total)
	}
}

func TestCompute_Effort(t *testing.T) {
	tests := []struct {
		xp   int
		want float64
	}{
		{0, 0},
		{-50, 0},
		{99, math.Log(100) * 20},
		{1000, math.Log(1001) * 20},
		{1_000_000, 200},
	}
	for _, tt := range tests {
		b := Compute(Metrics{TotalXP: tt.xp})
		if !almostEqual(b.Effort, tt.want) {
			t.Errorf("Effort(xp=%d) = %f, want %f", tt.xp, b.Effort, tt.want)
		}
	}
}

func TestCompute_RecentTestWindow(t *testing.T) {
	// Only the newest five count: 60,70,80,90,100 -> mean 80 -> 200.
	b := Compute(Metrics{TestPercentages: []float64{0, 0, 60, 70, 80, 90, 100}})
	if !almostEqual(b.Test, 200) {
		t.Errorf("Test = %f, want 200", b.Test)
	}
}

func TestCompute_RecentSpeakingWindow(t *testing.T) {
	// Newest three: 6, 7.5, 9 -> mean 7.5 -> 250.
	b := Compute(Metrics{SpeakingScores: []float64{1, 6, 7.5, 9}})
	if !almostEqual(b.Speaking, 250) {
		t.Errorf("Speaking = %f, want 250", b.Speaking)
	}

	b = Compute(Metrics{SpeakingScores: []float64{9}})
	if !almostEqual(b.Speaking, 300) {
		t.Errorf("Speaking(9) = %f, want 300", b.Speaking)
	}
}

func TestCompute_Penalty(t *testing.T) {
	b := Compute(Metrics{WeakPoints: 10})
	if !almostEqual(b.Penalty, -20) {
		t.Errorf("Penalty = %f, want -20", b.Penalty)
	}
	if b.Total != 80 {
		t.Errorf("Total = %d, want 80", b.Total)
	}
}

func TestCompute_Rounding(t *testing.T) {
	// 100 + ln(2)*20 = 113.86 -> 114
	if got := Score(Metrics{TotalXP: 1}); got != 114 {
		t.Errorf("Score(xp=1) = %d, want 114", got)
	}
}

func TestScore_Bounded(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name string
		m    Metrics
	}{
		{"zero", Metrics{}},
		{"huge weak points", Metrics{WeakPoints: 1_000_000}},
		{"everything maxed", Metrics{
			Streak:          10_000,
			TotalXP:         math.MaxInt32,
			TestPercentages: []float64{100, 100, 100, 100, 100},
			SpeakingScores:  []float64{9, 9, 9},
		}},
		{"out of range inputs", Metrics{
			Streak:          -5,
			TestPercentages: []float64{500, -300},
			SpeakingScores:  []float64{42},
		}},
		{"non-finite inputs", Metrics{
			TestPercentages: []float64{math.NaN(), inf},
			SpeakingScores:  []float64{math.Inf(-1)},
		}},
	}
	for _, tt := range tests {
		got := Score(tt.m)
		if got < 0 || got > Max {
			t.Errorf("%s: Score = %d, out of [0, %d]", tt.name, got, Max)
		}
	}
}

func TestScore_MaxedIsThousand(t *testing.T) {
	m := Metrics{
		Streak:          30,
		TotalXP:         100_000,
		TestPercentages: []float64{100},
		SpeakingScores:  []float64{9},
	}
	// 100 + 150 + 200 + 250 + 300 = 1000
	if got := Score(m); got != Max {
		t.Errorf("Score = %d, want %d", got, Max)
	}
}

func TestScore_Deterministic(t *testing.T) {
	m := Metrics{
		Streak:          4,
		TotalXP:         730,
		TestPercentages: []float64{55, 80},
		SpeakingScores:  []float64{6.5},
		WeakPoints:      3,
	}
	first := Score(m)
	for i := 0; i < 10; i++ {
		if got := Score(m); got != first {
			t.Fatalf("Score call %d = %d, want %d", i, got, first)
		}
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	tests := []float64{10, 20, 30, 40, 50, 60}
	Compute(Metrics{TestPercentages: tests})
	if len(tests) != 6 || tests[0] != 10 {
		t.Errorf("input mutated: %v", tests)
	}
}
