package spacedrep

import "testing"

func TestIntervals_StrictlyIncreasing(t *testing.T) {
	if Intervals[0] != 0 {
		t.Errorf("Intervals[0] = %d, want 0", Intervals[0])
	}
	for i := 1; i < len(Intervals); i++ {
		if Intervals[i] <= Intervals[i-1] {
			t.Errorf("Intervals[%d] = %d, not greater than Intervals[%d] = %d",
				i, Intervals[i], i-1, Intervals[i-1])
		}
	}
}

func TestClampLevel(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 0},
		{0, 0},
		{4, 4},
		{MaxLevel, MaxLevel},
		{MaxLevel + 5, MaxLevel},
	}
	for _, tt := range tests {
		if got := ClampLevel(tt.in); got != tt.want {
			t.Errorf("ClampLevel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIntervalDays(t *testing.T) {
	tests := []struct {
		level, want int
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{3, 7},
		{4, 14},
		{5, 30},
		{6, 90},
		{7, 180},
		{99, 180},
	}
	for _, tt := range tests {
		if got := IntervalDays(tt.level); got != tt.want {
			t.Errorf("IntervalDays(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLevelLabel(t *testing.T) {
	if got := LevelLabel(0); got != "new" {
		t.Errorf("LevelLabel(0) = %q, want new", got)
	}
	if got := LevelLabel(MaxLevel); got != "mastered" {
		t.Errorf("LevelLabel(MaxLevel) = %q, want mastered", got)
	}
}
