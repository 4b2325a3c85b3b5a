package progress

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/store"
)

// fakeRepo is an in-memory ProgressRepo that records every patch.
type fakeRepo struct {
	mu         sync.Mutex
	docs       map[string]*store.ProgressData
	patches    []store.ProgressPatch
	creates    int
	failUpdate error
	failRead   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[string]*store.ProgressData)}
}

func (r *fakeRepo) Read(_ context.Context, userID string) (*store.ProgressData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRead != nil {
		return nil, r.failRead
	}
	d, ok := r.docs[userID]
	if !ok {
		return nil, nil
	}
	return roundTrip(d), nil
}

func (r *fakeRepo) Create(_ context.Context, userID string, data *store.ProgressData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	r.docs[userID] = roundTrip(data)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, userID string, patch store.ProgressPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return r.failUpdate
	}
	doc, ok := r.docs[userID]
	if !ok {
		return store.ErrNotFound
	}
	r.patches = append(r.patches, patch)

	raw, _ := json.Marshal(doc)
	fields := map[string]json.RawMessage{}
	_ = json.Unmarshal(raw, &fields)
	for k, v := range patch {
		b, _ := json.Marshal(v)
		fields[k] = b
	}
	merged, _ := json.Marshal(fields)
	var out store.ProgressData
	_ = json.Unmarshal(merged, &out)
	r.docs[userID] = &out
	return nil
}

func (r *fakeRepo) patchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

func (r *fakeRepo) lastPatch() store.ProgressPatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.patches) == 0 {
		return nil
	}
	return r.patches[len(r.patches)-1]
}

func (r *fakeRepo) doc(userID string) *store.ProgressData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[userID]
}

func roundTrip(d *store.ProgressData) *store.ProgressData {
	b, _ := json.Marshal(d)
	var out store.ProgressData
	_ = json.Unmarshal(b, &out)
	return &out
}

// fakeEvents collects activity events.
type fakeEvents struct {
	mu     sync.Mutex
	events []store.ActivityEventData
}

func (f *fakeEvents) AppendActivity(_ context.Context, data store.ActivityEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, data)
	return nil
}

func (f *fakeEvents) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Kind
	}
	return out
}

func newTestClock() *calendar.FixedClock {
	return &calendar.FixedClock{T: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}
