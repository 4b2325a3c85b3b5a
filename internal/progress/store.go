// Package progress owns a learner's progress snapshot for one session. It
// applies the scheduling, streak and goal rules to domain events, keeps the
// fluency score in step with the rest of the state, and writes each change
// to the document store in the background.
package progress

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/fluency"
	"github.com/abhisek/fluenz/internal/store"
)

// Options configures a Store.
type Options struct {
	// UserID identifies the learner's document. Generated for guests when empty.
	UserID string

	// Repo is the document store. Nil means a guest session: nothing is
	// read or written.
	Repo store.ProgressRepo

	// Events receives an activity event per mutation. Optional; ignored
	// for guests.
	Events ActivityRecorder

	// Clock supplies "today". Defaults to the local wall clock.
	Clock calendar.Clock

	Logger *zap.Logger

	// OnPersistError is called from the writer goroutine for every failed
	// background write. Optional.
	OnPersistError func(error)

	// SessionID tags activity events. Generated when empty.
	SessionID string
}

// Store holds the in-memory snapshot of one learner. Mutations are
// serialized; the in-memory state is authoritative and is never rolled back
// when a background write fails.
type Store struct {
	mu   sync.Mutex
	snap Snapshot

	userID    string
	sessionID string
	guest     bool
	clock     calendar.Clock
	logger    *zap.Logger
	w         *writer
}

// Open loads the learner's snapshot, creating a default document for a new
// learner. The stored fluency score is recomputed and written back when it
// no longer matches the current formula.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Clock == nil {
		opts.Clock = calendar.Local()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	guest := opts.Repo == nil
	if guest {
		opts.Events = nil
	}
	if opts.UserID == "" {
		if !guest {
			return nil, fmt.Errorf("open progress: user id is required")
		}
		opts.UserID = "guest-" + uuid.NewString()
	}

	today := opts.Clock.Today()
	logger := opts.Logger.With(zap.String("user_id", opts.UserID))

	var snap Snapshot
	if guest {
		snap = NewSnapshot(today)
	} else {
		var err error
		snap, err = load(ctx, opts.Repo, opts.UserID, opts.Clock, logger, opts.OnPersistError)
		if err != nil {
			return nil, err
		}
	}

	return &Store{
		snap:      snap,
		userID:    opts.UserID,
		sessionID: opts.SessionID,
		guest:     guest,
		clock:     opts.Clock,
		logger:    logger,
		w:         newWriter(opts.UserID, opts.Repo, opts.Events, logger, opts.OnPersistError),
	}, nil
}

func load(ctx context.Context, repo store.ProgressRepo, userID string, clock calendar.Clock, logger *zap.Logger, onErr func(error)) (Snapshot, error) {
	today := clock.Today()
	data, err := repo.Read(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load progress: %w", err)
	}

	if data == nil {
		snap := NewSnapshot(today)
		if err := repo.Create(ctx, userID, toData(&snap)); err != nil {
			return Snapshot{}, fmt.Errorf("create progress: %w", err)
		}
		logger.Info("created progress document")
		return snap, nil
	}

	snap := fromData(data, today, clock.Now().Location())
	fresh := fluency.Score(snap.Metrics())
	if fresh != snap.FluencyScore {
		logger.Info("refreshing stale fluency score",
			zap.Int("stored", snap.FluencyScore),
			zap.Int("fresh", fresh),
		)
		snap.FluencyScore = fresh
		err := repo.Update(ctx, userID, store.ProgressPatch{store.FieldFluencyScore: fresh})
		if err != nil {
			logger.Warn("write refreshed fluency score failed", zap.Error(err))
			if onErr != nil {
				onErr(err)
			}
		}
	}
	return snap, nil
}

// UserID returns the learner's id.
func (s *Store) UserID() string { return s.userID }

// SessionID returns the id attached to this session's activity events.
func (s *Store) SessionID() string { return s.sessionID }

// IsGuest reports whether this session persists nothing.
func (s *Store) IsGuest() bool { return s.guest }

// Today returns the learner's current date.
func (s *Store) Today() calendar.Day { return s.clock.Today() }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Flush waits until all writes queued so far have been attempted.
func (s *Store) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close flushes pending writes and stops the background writer.
func (s *Store) Close(ctx context.Context) error {
	return s.w.close(ctx)
}

// change is the result of one mutation: the top-level document fields it
// touched and the detail recorded with its activity event.
type change struct {
	fields []string
	detail map[string]any
}

// apply runs fn on a copy of the snapshot. When fn reports changed fields,
// the score is recomputed, the copy replaces the snapshot, and the patch is
// queued. fn returning no fields leaves everything untouched.
func (s *Store) apply(kind string, fn func(next *Snapshot, today calendar.Day) change) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	ch := fn(&next, s.clock.Today())
	if len(ch.fields) == 0 {
		return s.snap
	}

	next.FluencyScore = fluency.Score(next.Metrics())
	s.snap = next

	job := writeJob{
		event: &store.ActivityEventData{
			UserID:       s.userID,
			SessionID:    s.sessionID,
			Kind:         kind,
			Detail:       ch.detail,
			FluencyScore: next.FluencyScore,
		},
	}
	if !s.guest {
		fields := append(ch.fields, store.FieldFluencyScore)
		job.patch = patchFor(&next, fields)
	}
	if err := s.w.enqueue(job); err != nil {
		s.logger.Warn("progress change not persisted", zap.String("kind", kind), zap.Error(err))
	}
	return next
}

// Reset replaces a learner's document with a fresh default one. Open stores
// for that learner keep their old in-memory state.
func Reset(ctx context.Context, repo store.ProgressRepo, userID string, today calendar.Day) error {
	snap := NewSnapshot(today)
	if err := repo.Create(ctx, userID, toData(&snap)); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}
