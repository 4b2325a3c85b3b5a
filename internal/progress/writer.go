package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/store"
)

// ErrClosed is reported for writes attempted after Close.
var ErrClosed = errors.New("progress store closed")

// ActivityRecorder receives one event per applied mutation.
// store.EventRepo satisfies it.
type ActivityRecorder interface {
	AppendActivity(ctx context.Context, data store.ActivityEventData) error
}

type writeJob struct {
	patch store.ProgressPatch
	event *store.ActivityEventData
	// flushed is closed when every job queued before it has run.
	flushed chan struct{}
}

// writer applies queued patches in order on a single goroutine. A failed
// write is reported and dropped; later writes are unaffected.
type writer struct {
	userID string
	repo   store.ProgressRepo
	events ActivityRecorder
	logger *zap.Logger
	onErr  func(error)

	mu     sync.Mutex
	queue  []writeJob
	closed bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newWriter(userID string, repo store.ProgressRepo, events ActivityRecorder, logger *zap.Logger, onErr func(error)) *writer {
	w := &writer{
		userID: userID,
		repo:   repo,
		events: events,
		logger: logger,
		onErr:  onErr,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *writer) enqueue(job writeJob) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.queue = append(w.queue, job)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

func (w *writer) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		job := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		w.run(job)
	}
}

func (w *writer) run(job writeJob) {
	if job.flushed != nil {
		close(job.flushed)
		return
	}

	ctx := context.Background()
	if w.repo != nil && len(job.patch) > 0 {
		if err := w.repo.Update(ctx, w.userID, job.patch); err != nil {
			w.report(fmt.Errorf("persist %v: %w", job.patch.Fields(), err))
		}
	}
	if w.events != nil && job.event != nil {
		if err := w.events.AppendActivity(ctx, *job.event); err != nil {
			w.logger.Warn("record activity failed",
				zap.String("user_id", w.userID),
				zap.String("kind", job.event.Kind),
				zap.Error(err),
			)
		}
	}
}

func (w *writer) report(err error) {
	w.logger.Error("progress write failed",
		zap.String("user_id", w.userID),
		zap.Error(err),
	)
	if w.onErr != nil {
		w.onErr(err)
	}
}

// flush waits until every job queued so far has run.
func (w *writer) flush(ctx context.Context) error {
	marker := make(chan struct{})
	if err := w.enqueue(writeJob{flushed: marker}); err != nil {
		return err
	}
	select {
	case <-marker:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the goroutine. Safe to call twice.
func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
