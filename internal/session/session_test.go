package session

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/abhisek/fluenz/internal/achievements"
	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/content"
	"github.com/abhisek/fluenz/internal/progress"
	"github.com/abhisek/fluenz/internal/store"
)

type fakeWords struct {
	err   error
	calls [][]string
}

func (f *fakeWords) WordDetails(_ context.Context, words []string) ([]content.VocabularyWord, error) {
	f.calls = append(f.calls, words)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]content.VocabularyWord, len(words))
	for i, w := range words {
		out[i] = content.VocabularyWord{Word: w, Definition: "definition of " + w}
	}
	return out, nil
}

func testClock() *calendar.FixedClock {
	return &calendar.FixedClock{T: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func newTestService(t *testing.T, words WordSource) *Service {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ps, err := progress.Open(context.Background(), progress.Options{
		UserID: "learner-1",
		Repo:   db.ProgressRepo(),
		Events: db.EventRepo(),
		Clock:  testClock(),
	})
	if err != nil {
		t.Fatalf("open progress: %v", err)
	}
	t.Cleanup(func() {
		ps.Close(context.Background())
		db.Close()
	})
	return New(ps, words, nil)
}

func newGuestService(t *testing.T) *Service {
	t.Helper()
	ps, err := progress.Open(context.Background(), progress.Options{Clock: testClock()})
	if err != nil {
		t.Fatalf("open guest: %v", err)
	}
	t.Cleanup(func() { ps.Close(context.Background()) })
	return New(ps, &fakeWords{}, nil)
}

func unlockedIDs(as []achievements.Achievement) []string {
	ids := make([]string, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	return ids
}

var lessonWords = []string{"ubiquitous", "commute", "thrive", "mitigate", "sustainable"}

func TestFinishTest(t *testing.T) {
	svc := newTestService(t, nil)

	sum := svc.FinishTest(TestOutcome{
		Level:      "Band 6.0-6.5",
		Topic:      "Travel",
		Vocabulary: lessonWords,
		Missed:     []string{"commute"},
		Correct:    8,
		Total:      10,
	})

	if sum.XPEarned != 80 || sum.Percentage != 80 || sum.Perfect {
		t.Errorf("summary = %+v", sum)
	}
	if !sum.Goal.JustCompleted || sum.Goal.Awarded != 105 {
		t.Errorf("goal = %+v, want bonus on first completion", sum.Goal)
	}
	if sum.Streak.Streak != 1 {
		t.Errorf("streak = %d, want 1", sum.Streak.Streak)
	}
	if !sum.TopicCompleted || sum.WordsIntroduced != 5 || sum.WeakAdded != 1 {
		t.Errorf("summary = %+v", sum)
	}

	ids := unlockedIDs(sum.Unlocked)
	for _, want := range []string{"learning_1", "mastery_fluent_250"} {
		if !slices.Contains(ids, want) {
			t.Errorf("unlocked = %v, missing %s", ids, want)
		}
	}

	snap := svc.Store().Snapshot()
	if snap.TotalXP != 105 {
		t.Errorf("TotalXP = %d, want 105", snap.TotalXP)
	}
	if len(snap.TestHistory) != 1 || snap.TestHistory[0].Percentage != 80 {
		t.Errorf("TestHistory = %+v", snap.TestHistory)
	}
	if got := svc.CompletedTopics(""); !slices.Equal(got, []string{"Travel"}) {
		t.Errorf("CompletedTopics = %v", got)
	}
	if len(snap.WordMastery) != 5 {
		t.Errorf("WordMastery = %d words, want 5", len(snap.WordMastery))
	}
}

func TestFinishTest_Thresholds(t *testing.T) {
	tests := []struct {
		name          string
		correct       int
		total         int
		wantPct       float64
		wantPerfect   bool
		wantCompleted bool
	}{
		{"exactly sixty percent", 6, 10, 60, false, false},
		{"just above", 7, 11, 64, false, true},
		{"perfect", 4, 4, 100, true, true},
		{"no questions", 0, 0, 0, false, false},
		{"rounding", 2, 3, 67, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newGuestService(t)
			sum := svc.FinishTest(TestOutcome{Level: "Band 5.0-5.5", Topic: "Food", Correct: tt.correct, Total: tt.total})
			if sum.Percentage != tt.wantPct {
				t.Errorf("Percentage = %v, want %v", sum.Percentage, tt.wantPct)
			}
			if sum.Perfect != tt.wantPerfect {
				t.Errorf("Perfect = %v, want %v", sum.Perfect, tt.wantPerfect)
			}
			if sum.TopicCompleted != tt.wantCompleted {
				t.Errorf("TopicCompleted = %v, want %v", sum.TopicCompleted, tt.wantCompleted)
			}
		})
	}
}

func TestFinishSpeaking(t *testing.T) {
	svc := newTestService(t, nil)

	sum := svc.FinishSpeaking(content.SpeakingFeedback{
		OverallBandScore: 6.5,
		SpeakingWeakPoints: content.SpeakingWeakPoints{
			Vocabulary: []string{"good"},
			Grammar:    []string{"Incorrect tense"},
		},
	})

	if sum.Goal.Awarded != 75 || sum.WeakAdded != 2 || sum.Streak.Streak != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if !slices.Contains(unlockedIDs(sum.Unlocked), "explore_speaking") {
		t.Errorf("unlocked = %v, want explore_speaking", unlockedIDs(sum.Unlocked))
	}
	snap := svc.Store().Snapshot()
	if len(snap.SpeakingHistory) != 1 || snap.SpeakingHistory[0].Score != 6.5 {
		t.Errorf("SpeakingHistory = %+v", snap.SpeakingHistory)
	}
	if len(svc.Unlocked()) != len(sum.Unlocked) {
		t.Errorf("session unlocks = %d, want %d", len(svc.Unlocked()), len(sum.Unlocked))
	}
}

func TestStartWeaknessReview(t *testing.T) {
	words := &fakeWords{}
	svc := newTestService(t, words)

	if _, err := svc.StartWeaknessReview(context.Background()); !errors.Is(err, ErrNothingToReview) {
		t.Fatalf("empty: err = %v, want ErrNothingToReview", err)
	}

	svc.Store().RecordWeakPoints(progress.WeakPoints{
		Vocabulary: []string{"commute", "thrive"},
		Grammar:    []string{"Articles"},
	})

	words.err = errors.New("provider down")
	if _, err := svc.StartWeaknessReview(context.Background()); err == nil {
		t.Fatal("provider failure: want error")
	}
	if got := svc.Store().Snapshot().WeakPoints.Vocabulary; len(got) != 2 {
		t.Fatalf("weak vocabulary after failure = %v, want kept", got)
	}

	words.err = nil
	got, err := svc.StartWeaknessReview(context.Background())
	if err != nil {
		t.Fatalf("StartWeaknessReview: %v", err)
	}
	if !slices.Equal(content.Words(got), []string{"commute", "thrive"}) {
		t.Errorf("words = %v", content.Words(got))
	}
	weak := svc.Store().Snapshot().WeakPoints
	if len(weak.Vocabulary) != 0 || len(weak.Grammar) != 1 {
		t.Errorf("weak points = %+v, want vocabulary cleared only", weak)
	}
}

func TestGuestRestrictions(t *testing.T) {
	svc := newGuestService(t)
	svc.Store().RecordWeakPoints(progress.WeakPoints{Vocabulary: []string{"commute"}})
	svc.Learn([]string{"commute"})

	if _, err := svc.StartWeaknessReview(context.Background()); !errors.Is(err, ErrGuest) {
		t.Errorf("weakness review: err = %v, want ErrGuest", err)
	}
	if _, err := svc.StartReview(0); !errors.Is(err, ErrGuest) {
		t.Errorf("review: err = %v, want ErrGuest", err)
	}

	sum := svc.FinishTest(TestOutcome{Level: "Band 5.0-5.5", Topic: "Food", Correct: 4, Total: 4})
	if len(sum.Unlocked) != 0 || svc.Unlocked() != nil {
		t.Errorf("guest unlocked %v", unlockedIDs(sum.Unlocked))
	}
	if svc.Store().Snapshot().TotalXP == 0 {
		t.Error("guest progress not kept in memory")
	}
}

func TestReview(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.StartReview(0); !errors.Is(err, ErrNothingToReview) {
		t.Fatalf("empty: err = %v, want ErrNothingToReview", err)
	}

	if n := svc.Learn([]string{"thrive", "commute", "mitigate"}); n != 3 {
		t.Fatalf("Learn = %d, want 3", n)
	}

	r, err := svc.StartReview(2)
	if err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	if len(r.Words()) != 2 {
		t.Fatalf("Words = %v, want 2", r.Words())
	}

	first, _ := r.Current()
	res, ok := r.Answer(true)
	if !ok || res.Word != first || res.From != 0 || res.To != 1 {
		t.Errorf("first answer = %+v, %v", res, ok)
	}
	res, _ = r.Answer(false)
	if res.To != 0 {
		t.Errorf("incorrect at level 0 = %+v, want level 0", res)
	}
	if !r.Done() {
		t.Fatal("review not done after every word")
	}
	if _, ok := r.Answer(true); ok {
		t.Error("Answer after done ok = true")
	}

	sum := r.Summary()
	if sum.Total != 2 || sum.Correct != 1 || sum.Promoted != 1 || sum.Demoted != 0 || sum.Accuracy != 0.5 {
		t.Errorf("summary = %+v", sum)
	}

	rec := svc.Store().Snapshot().WordMastery[first]
	if rec.Level != 1 || !rec.NextReviewDue.Equal(calendar.NewDay(2025, 3, 11)) {
		t.Errorf("%s = %+v, want level 1 due tomorrow", first, rec)
	}
}

func TestBegin(t *testing.T) {
	svc := newTestService(t, nil)
	if !svc.Store().Snapshot().IsNewUser {
		t.Fatal("fresh learner IsNewUser = false")
	}

	streak := svc.Begin()
	if streak.Streak != 1 {
		t.Errorf("streak = %+v", streak)
	}
	if svc.Store().Snapshot().IsNewUser {
		t.Error("IsNewUser still set after Begin")
	}

	// Same day: no change.
	if again := svc.Begin(); again.Changed {
		t.Errorf("second Begin = %+v, want unchanged", again)
	}
}

func TestBegin_ClearsSessionUnlocks(t *testing.T) {
	svc := newTestService(t, nil)
	svc.Begin()

	svc.ToggleFavorite("Band 7.0-7.5", "Science")
	if !slices.Contains(unlockedIDs(svc.Unlocked()), "explore_favorite") {
		t.Fatalf("unlocked = %v, want explore_favorite", unlockedIDs(svc.Unlocked()))
	}

	svc.Begin()
	if got := unlockedIDs(svc.Unlocked()); slices.Contains(got, "explore_favorite") {
		t.Errorf("unlocked after Begin = %v, want explore_favorite cleared", got)
	}
	if !svc.Store().Snapshot().IsUnlocked("explore_favorite") {
		t.Errorf("explore_favorite no longer recorded")
	}
}

func TestTopicHelpers(t *testing.T) {
	svc := newTestService(t, nil)

	if !svc.ToggleFavorite("Band 7.0-7.5", "Science") {
		t.Error("ToggleFavorite on = false")
	}
	if !slices.Contains(unlockedIDs(svc.Unlocked()), "explore_favorite") {
		t.Errorf("unlocked = %v, want explore_favorite", unlockedIDs(svc.Unlocked()))
	}
	if !svc.CompleteTopic("Band 7.0-7.5", "Science") {
		t.Error("CompleteTopic = false")
	}
	if svc.CompleteTopic("Band 7.0-7.5", "Science") {
		t.Error("second CompleteTopic = true")
	}
	if got := svc.CompletedTopics(" Band 7.0-7.5 "); !slices.Equal(got, []string{"Science"}) {
		t.Errorf("CompletedTopics = %v", got)
	}
}

func TestUseTutor(t *testing.T) {
	svc := newTestService(t, nil)

	a, ok := svc.UseTutor()
	if !ok || a.ID != achievements.ExploreTutor {
		t.Fatalf("UseTutor = %v, %v, want explore_tutor unlocked", a.ID, ok)
	}
	if _, ok := svc.UseTutor(); ok {
		t.Errorf("second UseTutor unlocked again")
	}
	if !svc.Store().Snapshot().IsUnlocked(achievements.ExploreTutor) {
		t.Errorf("explore_tutor not recorded")
	}

	if _, ok := newGuestService(t).UseTutor(); ok {
		t.Errorf("guest UseTutor unlocked an achievement")
	}
}

func TestReviewWord(t *testing.T) {
	svc := newTestService(t, nil)
	svc.Learn([]string{"thrive"})

	res, err := svc.ReviewWord(" thrive ", true)
	if err != nil {
		t.Fatalf("ReviewWord: %v", err)
	}
	if res.Word != "thrive" || res.From != 0 || res.To != 1 {
		t.Errorf("ReviewWord = %+v, want thrive 0 -> 1", res)
	}

	if _, err := svc.ReviewWord("unknown", true); !errors.Is(err, ErrNotTracked) {
		t.Errorf("untracked: err = %v, want ErrNotTracked", err)
	}
	if _, err := newGuestService(t).ReviewWord("thrive", true); !errors.Is(err, ErrGuest) {
		t.Errorf("guest: err = %v, want ErrGuest", err)
	}
}
