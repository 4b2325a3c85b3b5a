// Package reminder sends a daily study digest on a schedule.
package reminder

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/activity"
	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/progress"
)

// Digest summarizes what the learner should do today.
type Digest struct {
	UserID        string
	Date          calendar.Day
	Due           []string
	Streak        int
	StreakAtRisk  bool // active yesterday but not yet today
	XPToday       int
	XPRemaining   int
	GoalCompleted bool
}

// Empty reports whether there is nothing worth nagging about.
func (d Digest) Empty() bool {
	return len(d.Due) == 0 && !d.StreakAtRisk && d.GoalCompleted
}

// Source reads the learner state a digest is built from. Latest is called
// on every run so progress made by other sessions is reflected.
// progress.Reader satisfies it.
type Source interface {
	UserID() string
	Today() calendar.Day
	Latest(ctx context.Context) (progress.Snapshot, error)
}

// Notifier delivers a digest.
type Notifier interface {
	Notify(ctx context.Context, d Digest) error
}

// Scheduler runs the daily digest job.
type Scheduler struct {
	cron     *gocron.Scheduler
	source   Source
	notifier Notifier
	logger   *zap.Logger
}

// New creates a scheduler evaluating job times in loc.
func New(source Source, notifier Notifier, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:     gocron.NewScheduler(loc),
		source:   source,
		notifier: notifier,
		logger:   logger,
	}
}

// Start schedules the digest every day at hour:minute and starts the
// scheduler without blocking.
func (s *Scheduler) Start(hour, minute int) error {
	at := fmt.Sprintf("%02d:%02d", hour, minute)
	if _, err := s.cron.Every(1).Day().At(at).Do(s.run); err != nil {
		return fmt.Errorf("schedule digest at %s: %w", at, err)
	}
	s.cron.StartAsync()
	s.logger.Info("reminder scheduled", zap.String("at", at), zap.String("user_id", s.source.UserID()))
	return nil
}

// NextRun returns when the digest fires next. Zero before Start.
func (s *Scheduler) NextRun() time.Time {
	_, next := s.cron.NextRun()
	return next
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) run() {
	if _, err := s.RunOnce(context.Background()); err != nil {
		s.logger.Warn("reminder failed", zap.String("user_id", s.source.UserID()), zap.Error(err))
	}
}

// RunOnce reads the learner's latest progress, builds today's digest and
// sends it unless there is nothing to report.
func (s *Scheduler) RunOnce(ctx context.Context) (Digest, error) {
	snap, err := s.source.Latest(ctx)
	if err != nil {
		return Digest{}, err
	}
	d := Build(s.source.UserID(), s.source.Today(), snap)
	if d.Empty() {
		s.logger.Debug("reminder skipped", zap.String("user_id", d.UserID))
		return d, nil
	}
	if err := s.notifier.Notify(ctx, d); err != nil {
		return d, fmt.Errorf("notify: %w", err)
	}
	s.logger.Info("reminder sent",
		zap.String("user_id", d.UserID),
		zap.Int("due", len(d.Due)),
		zap.Bool("streak_at_risk", d.StreakAtRisk),
	)
	return d, nil
}

// Build computes the digest of snap on today.
func Build(userID string, today calendar.Day, snap progress.Snapshot) Digest {
	return Digest{
		UserID:        userID,
		Date:          today,
		Due:           snap.DueWords(today),
		Streak:        snap.Streak,
		StreakAtRisk:  snap.Streak > 0 && snap.LastActiveDate.Equal(today.AddDays(-1)),
		XPToday:       snap.XPTodayOn(today),
		XPRemaining:   activity.Remaining(today, snap.XPToday, snap.DailyGoal),
		GoalCompleted: snap.GoalCompletedOn(today),
	}
}

// WriterNotifier prints digests as plain text.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, d Digest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "fluenz reminder for %s\n", d.Date)
	switch {
	case len(d.Due) == 0:
		b.WriteString("  no words due for review\n")
	case len(d.Due) <= 5:
		fmt.Fprintf(&b, "  %d words due: %s\n", len(d.Due), strings.Join(d.Due, ", "))
	default:
		fmt.Fprintf(&b, "  %d words due: %s, ...\n", len(d.Due), strings.Join(d.Due[:5], ", "))
	}
	if d.StreakAtRisk {
		fmt.Fprintf(&b, "  practice today to keep your %d-day streak\n", d.Streak)
	}
	if !d.GoalCompleted {
		fmt.Fprintf(&b, "  %d XP to go for today's goal\n", d.XPRemaining)
	}
	_, err := io.WriteString(n.W, b.String())
	return err
}
