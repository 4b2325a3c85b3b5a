package progress

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/store"
)

func TestReader_SeesOtherSessionWrites(t *testing.T) {
	repo := newFakeRepo()
	clock := newTestClock()
	r := NewReader("u1", repo, clock)

	snap, err := r.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(snap.WordMastery) != 0 || repo.creates != 0 {
		t.Fatalf("missing document: words %d, creates %d", len(snap.WordMastery), repo.creates)
	}

	s := openTestStore(t, repo, clock)
	s.IntroduceWords([]string{"ubiquitous", "cogent"})
	s.ReviewWord("ubiquitous", true)
	flush(t, s)

	snap, err = r.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if due := snap.DueWords(clock.Today()); !slices.Equal(due, []string{"cogent"}) {
		t.Errorf("due = %v, want [cogent]", due)
	}
	if snap.FluencyScore != s.Snapshot().FluencyScore {
		t.Errorf("FluencyScore = %d, want %d", snap.FluencyScore, s.Snapshot().FluencyScore)
	}
}

func TestReader_TimestampsInLearnerLocation(t *testing.T) {
	bangkok := time.FixedZone("UTC+7", 7*60*60)
	clock := &calendar.FixedClock{T: time.Date(2025, 1, 5, 8, 0, 0, 0, bangkok)}
	repo := newFakeRepo()
	last := "2025-01-03T17:00:00.000Z"
	repo.docs["u1"] = &store.ProgressData{
		Streak:         2,
		LastActiveDate: &last,
		WordMastery: map[string]store.WordMasteryData{
			"due":   {Level: 1, NextReviewDate: "2025-01-04T17:00:00.000Z"},
			"later": {Level: 1, NextReviewDate: "2025-01-05T17:00:00.000Z"},
		},
	}

	snap, err := NewReader("u1", repo, clock).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if due := snap.DueWords(clock.Today()); !slices.Equal(due, []string{"due"}) {
		t.Errorf("due = %v, want [due]", due)
	}
	if want := calendar.NewDay(2025, 1, 4); !snap.LastActiveDate.Equal(want) {
		t.Errorf("LastActiveDate = %s, want %s", snap.LastActiveDate, want)
	}
}

func TestReader_NilRepoAndReadError(t *testing.T) {
	snap, err := NewReader("guest", nil, newTestClock()).Latest(context.Background())
	if err != nil || !snap.IsNewUser {
		t.Errorf("nil repo = %+v, %v", snap, err)
	}

	repo := newFakeRepo()
	repo.failRead = errors.New("boom")
	if _, err := NewReader("u1", repo, newTestClock()).Latest(context.Background()); err == nil {
		t.Error("Latest = nil error, want read failure")
	}
}
