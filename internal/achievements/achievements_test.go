package achievements

import (
	"context"
	"testing"
	"time"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/progress"
)

var today = calendar.NewDay(2025, 3, 10)

func ids(as []Achievement) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

func TestCatalog(t *testing.T) {
	all := All()
	if len(all) != 13 {
		t.Fatalf("len(All()) = %d, want 13", len(all))
	}
	seen := map[string]bool{}
	for _, a := range all {
		if seen[a.ID] {
			t.Errorf("duplicate id %s", a.ID)
		}
		seen[a.ID] = true
		if a.TotalSteps <= 0 {
			t.Errorf("%s: TotalSteps = %d", a.ID, a.TotalSteps)
		}
	}
	if a, ok := ByID(ExploreTutor); !ok || !a.Manual() {
		t.Errorf("ByID(%s) = %+v, %v", ExploreTutor, a, ok)
	}
	if _, ok := ByID("nope"); ok {
		t.Error("ByID(nope) ok = true")
	}
}

func TestEvaluate_NewLearner(t *testing.T) {
	if got := Evaluate(progress.NewSnapshot(today)); len(got) != 0 {
		t.Errorf("Evaluate(new) = %v, want none", ids(got))
	}
}

func TestEvaluate(t *testing.T) {
	snap := progress.NewSnapshot(today)
	snap.Streak = 7
	snap.FluencyScore = 520
	snap.CompletedTopics["Band 6.0-6.5"] = []string{"Travel", "Food"}
	snap.TestHistory = []progress.TestResult{{Percentage: 80}, {Percentage: 100}}
	snap.FavoriteTopics["Band 6.0-6.5"] = []string{"Travel"}
	snap.UnlockedAchievements["streak_3"] = time.Now()

	got := ids(Evaluate(snap))
	want := []string{
		"learning_1",
		"streak_7",
		"mastery_perfect_score",
		"mastery_fluent_250",
		"mastery_fluent_500",
		"explore_favorite",
	}
	if len(got) != len(want) {
		t.Fatalf("Evaluate = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Evaluate[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestProgress(t *testing.T) {
	snap := progress.NewSnapshot(today)
	snap.Streak = 12

	tests := []struct {
		id   string
		want int
	}{
		{"streak_3", 3},
		{"streak_7", 7},
		{"streak_30", 12},
		{"explore_speaking", 0},
		{ExploreTutor, 0},
		{"mastery_fluent_250", 100},
	}
	for _, tt := range tests {
		a, _ := ByID(tt.id)
		if got := a.Progress(snap); got != tt.want {
			t.Errorf("Progress(%s) = %d, want %d", tt.id, got, tt.want)
		}
	}

	fav, _ := ByID("explore_favorite")
	snap.FavoriteTopics["Band 6.0-6.5"] = []string{}
	if got := fav.Progress(snap); got != 0 {
		t.Errorf("Progress(favorite, empty level) = %d, want 0", got)
	}
	snap.FavoriteTopics["Band 7.0-7.5"] = []string{"Science", "Travel"}
	if got := fav.Progress(snap); got != 1 {
		t.Errorf("Progress(favorite, two topics) = %d, want 1", got)
	}

	snap.UnlockedAchievements[ExploreTutor] = time.Now()
	a, _ := ByID(ExploreTutor)
	if got := a.Progress(snap); got != 1 {
		t.Errorf("Progress(tutor, unlocked) = %d, want 1", got)
	}
}

func TestService_CheckAndUnlock(t *testing.T) {
	store, err := progress.Open(context.Background(), progress.Options{
		Clock: &calendar.FixedClock{T: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close(context.Background())

	svc := NewService(store, nil)
	store.RecordSpeakingResult(9)

	got := ids(svc.CheckAndUnlock())
	// 100 base + 300 speaking = 400.
	want := []string{"mastery_fluent_250", "explore_speaking"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("CheckAndUnlock = %v, want %v", got, want)
	}
	if again := svc.CheckAndUnlock(); len(again) != 0 {
		t.Errorf("second CheckAndUnlock = %v, want none", ids(again))
	}
	if len(svc.SessionUnlocks) != 2 {
		t.Errorf("SessionUnlocks = %d, want 2", len(svc.SessionUnlocks))
	}

	if _, ok := svc.UnlockManual("streak_3"); ok {
		t.Error("UnlockManual(automatic) ok = true")
	}
	if _, ok := svc.UnlockManual(ExploreTutor); !ok {
		t.Error("UnlockManual(tutor) ok = false")
	}
	if _, ok := svc.UnlockManual(ExploreTutor); ok {
		t.Error("second UnlockManual(tutor) ok = true")
	}

	svc.ResetSession()
	if len(svc.SessionUnlocks) != 0 {
		t.Error("ResetSession did not clear")
	}
}
