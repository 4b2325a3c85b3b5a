package progress

import (
	"context"
	"fmt"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/fluency"
	"github.com/abhisek/fluenz/internal/store"
)

// Reader reads a learner's stored progress on every call. Unlike Store it
// keeps nothing in memory and never writes, so long-running jobs see the
// changes other sessions make.
type Reader struct {
	userID string
	repo   store.ProgressRepo
	clock  calendar.Clock
}

// NewReader returns a Reader for userID. A nil repo reads as a learner
// who has done nothing yet.
func NewReader(userID string, repo store.ProgressRepo, clock calendar.Clock) *Reader {
	if clock == nil {
		clock = calendar.Local()
	}
	return &Reader{userID: userID, repo: repo, clock: clock}
}

func (r *Reader) UserID() string { return r.userID }

func (r *Reader) Today() calendar.Day { return r.clock.Today() }

// Latest returns the learner's snapshot as currently stored.
func (r *Reader) Latest(ctx context.Context) (Snapshot, error) {
	today := r.clock.Today()
	if r.repo == nil {
		return NewSnapshot(today), nil
	}
	data, err := r.repo.Read(ctx, r.userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read progress: %w", err)
	}
	if data == nil {
		return NewSnapshot(today), nil
	}
	snap := fromData(data, today, r.clock.Now().Location())
	snap.FluencyScore = fluency.Score(snap.Metrics())
	return snap, nil
}
