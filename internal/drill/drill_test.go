package drill

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/progress"
	"github.com/abhisek/fluenz/internal/session"
	"github.com/abhisek/fluenz/internal/store"
)

func newReview(t *testing.T, words ...string) *session.Review {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "drill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ps, err := progress.Open(context.Background(), progress.Options{
		UserID: "learner-1",
		Repo:   db.ProgressRepo(),
		Clock:  &calendar.FixedClock{T: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("open progress: %v", err)
	}
	t.Cleanup(func() {
		ps.Close(context.Background())
		db.Close()
	})

	svc := session.New(ps, nil, nil)
	svc.Learn(words)
	r, err := svc.StartReview(0)
	if err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	return r
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestDrill_RevealThenGrade(t *testing.T) {
	r := newReview(t, "commute", "thrive")
	m := New(r, map[string]string{"commute": "to travel to work"})

	if m.phase != phaseAsk {
		t.Fatalf("phase = %v, want ask", m.phase)
	}

	// Grading keys do nothing before the card is revealed.
	m, _ = send(m, keyPress('y'))
	if done, _ := r.Position(); done != 0 {
		t.Fatalf("answered before reveal: position = %d", done)
	}

	m, _ = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.phase != phaseReveal {
		t.Fatalf("phase = %v, want reveal", m.phase)
	}
	if out := m.render(); !strings.Contains(out, "to travel to work") {
		t.Errorf("reveal view missing hint:\n%s", out)
	}

	m, _ = send(m, keyPress('y'))
	if m.last == nil || !m.last.Correct || m.last.Word != "commute" {
		t.Fatalf("last = %+v, want correct commute", m.last)
	}
	if m.phase != phaseAsk {
		t.Errorf("phase = %v, want ask", m.phase)
	}

	m, _ = send(m, tea.KeyPressMsg{Code: tea.KeyEnter}, keyPress('n'))
	if m.phase != phaseDone {
		t.Fatalf("phase = %v, want done", m.phase)
	}

	sum := m.Summary()
	if sum.Total != 2 || sum.Correct != 1 {
		t.Errorf("summary = %+v, want 2 total 1 correct", sum)
	}
	if !strings.Contains(m.render(), "Accuracy") {
		t.Errorf("done view missing summary")
	}

	_, cmd := send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Errorf("enter on summary should quit")
	}
	if m.Aborted() {
		t.Errorf("Aborted() = true after finishing")
	}
}

func TestDrill_EscapeAborts(t *testing.T) {
	r := newReview(t, "commute", "thrive")
	m := New(r, nil)

	m, cmd := send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if !isQuit(cmd) {
		t.Fatalf("esc should quit")
	}
	if !m.Aborted() {
		t.Errorf("Aborted() = false, want true")
	}
	if done, _ := r.Position(); done != 0 {
		t.Errorf("position = %d, want 0", done)
	}
}

func TestDrill_IgnoresOtherMessages(t *testing.T) {
	m := New(newReview(t, "commute"), nil)
	m, cmd := send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil || m.phase != phaseAsk {
		t.Errorf("window size changed state: phase = %v", m.phase)
	}
}
