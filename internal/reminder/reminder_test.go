package reminder

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/fluenz/internal/activity"
	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/progress"
	"github.com/abhisek/fluenz/internal/spacedrep"
	"github.com/abhisek/fluenz/internal/store"
)

type fakeSource struct {
	today calendar.Day
	snap  progress.Snapshot
	err   error
}

func (f *fakeSource) UserID() string      { return "u1" }
func (f *fakeSource) Today() calendar.Day { return f.today }

func (f *fakeSource) Latest(context.Context) (progress.Snapshot, error) {
	return f.snap, f.err
}

func (f *fakeSource) addDue(words ...string) {
	for _, w := range words {
		if r, ok := spacedrep.Introduce(f.snap.WordMastery, w, f.today); ok {
			f.snap.WordMastery[w] = r
		}
	}
}

type recordingNotifier struct {
	got []Digest
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, d Digest) error {
	r.got = append(r.got, d)
	return r.err
}

var today = calendar.NewDay(2025, time.March, 10)

func newSource() *fakeSource {
	return &fakeSource{today: today, snap: progress.NewSnapshot(today)}
}

func TestBuild(t *testing.T) {
	src := newSource()
	src.snap.Streak = 4
	src.snap.LastActiveDate = today.AddDays(-1)
	src.snap.XPToday = activity.XPCounter{Date: today, XP: 20}
	src.addDue("abate", "benign")

	d := Build(src.UserID(), src.today, src.snap)
	if !d.StreakAtRisk {
		t.Errorf("StreakAtRisk = false, want true")
	}
	if d.XPToday != 20 {
		t.Errorf("XPToday = %d, want 20", d.XPToday)
	}
	if d.XPRemaining != 30 {
		t.Errorf("XPRemaining = %d, want 30", d.XPRemaining)
	}
	if len(d.Due) != 2 {
		t.Errorf("len(Due) = %d, want 2", len(d.Due))
	}
	if d.Empty() {
		t.Errorf("Empty() = true, want false")
	}
}

func TestBuild_ActiveTodayNotAtRisk(t *testing.T) {
	src := newSource()
	src.snap.Streak = 4
	src.snap.LastActiveDate = today

	if d := Build(src.UserID(), src.today, src.snap); d.StreakAtRisk {
		t.Errorf("StreakAtRisk = true, want false")
	}
}

func TestRunOnce_SkipsEmptyDigest(t *testing.T) {
	src := newSource()
	src.snap.DailyGoalCompleted = activity.GoalFlag{Date: today, Completed: true}
	n := &recordingNotifier{}

	s := New(src, n, time.UTC, nil)
	d, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !d.Empty() {
		t.Errorf("Empty() = false, want true")
	}
	if len(n.got) != 0 {
		t.Errorf("notifications = %d, want 0", len(n.got))
	}
}

func TestRunOnce_Notifies(t *testing.T) {
	src := newSource()
	src.addDue("abate")
	n := &recordingNotifier{}

	s := New(src, n, time.UTC, nil)
	if _, err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(n.got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(n.got))
	}
	if n.got[0].UserID != "u1" {
		t.Errorf("UserID = %q, want u1", n.got[0].UserID)
	}
}

func TestRunOnce_NotifierError(t *testing.T) {
	src := newSource()
	src.addDue("abate")
	boom := errors.New("boom")

	s := New(src, &recordingNotifier{err: boom}, time.UTC, nil)
	if _, err := s.RunOnce(context.Background()); !errors.Is(err, boom) {
		t.Errorf("RunOnce error = %v, want %v", err, boom)
	}
}

func TestRunOnce_ReadError(t *testing.T) {
	src := newSource()
	src.err = errors.New("db gone")
	n := &recordingNotifier{}

	if _, err := New(src, n, time.UTC, nil).RunOnce(context.Background()); !errors.Is(err, src.err) {
		t.Errorf("RunOnce error = %v, want %v", err, src.err)
	}
	if len(n.got) != 0 {
		t.Errorf("notifications = %d, want 0", len(n.got))
	}
}

func TestRunOnce_ReadsLatestProgress(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "remind.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	clock := &calendar.FixedClock{T: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	// The scheduler's own session stays open for its whole lifetime.
	running, err := progress.Open(ctx, progress.Options{UserID: "u1", Repo: db.ProgressRepo(), Clock: clock})
	if err != nil {
		t.Fatalf("progress.Open: %v", err)
	}
	t.Cleanup(func() { running.Close(ctx) })

	n := &recordingNotifier{}
	s := New(progress.NewReader(running.UserID(), db.ProgressRepo(), clock), n, time.UTC, nil)
	d, err := s.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(d.Due) != 0 {
		t.Fatalf("Due before learning = %v, want none", d.Due)
	}

	other, err := progress.Open(ctx, progress.Options{UserID: "u1", Repo: db.ProgressRepo(), Clock: clock})
	if err != nil {
		t.Fatalf("progress.Open: %v", err)
	}
	other.IntroduceWords([]string{"ubiquitous", "cogent"})
	other.ReviewWord("ubiquitous", true)
	if err := other.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	d, err = s.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if !slices.Equal(d.Due, []string{"cogent"}) {
		t.Errorf("Due = %v, want [cogent]", d.Due)
	}
	if len(n.got) != 2 || !slices.Equal(n.got[1].Due, []string{"cogent"}) {
		t.Errorf("notifications = %+v", n.got)
	}
}

func TestStart_SchedulesDaily(t *testing.T) {
	s := New(newSource(), &recordingNotifier{}, time.UTC, nil)
	if err := s.Start(9, 30); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	next := s.NextRun()
	if next.Hour() != 9 || next.Minute() != 30 {
		t.Errorf("NextRun = %v, want 09:30", next)
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRun = %v, want a future time", next)
	}
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	d := Digest{
		Date:         today,
		Due:          []string{"a", "b", "c", "d", "e", "f"},
		Streak:       3,
		StreakAtRisk: true,
		XPRemaining:  40,
	}
	if err := (WriterNotifier{W: &buf}).Notify(context.Background(), d); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"2025-03-10", "6 words due: a, b, c, d, e, ...", "3-day streak", "40 XP to go"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
