package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a user has no progress document.
var ErrNotFound = errors.New("progress document not found")

// ProgressRepo reads and writes per-user progress documents.
type ProgressRepo interface {
	// Read returns the document for userID, or nil if none exists.
	Read(ctx context.Context, userID string) (*ProgressData, error)

	// Create stores a full document, replacing any existing one.
	Create(ctx context.Context, userID string, data *ProgressData) error

	// Update merges patch into the stored document field by field.
	// Returns ErrNotFound if the user has no document.
	Update(ctx context.Context, userID string, patch ProgressPatch) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Kind   string    // exact kind match (empty = all)
}

// ActivityEventData captures one applied learner action.
type ActivityEventData struct {
	UserID       string
	SessionID    string
	Kind         string
	Detail       map[string]any
	FluencyScore int
}

// ActivityRecord is a stored activity event.
type ActivityRecord struct {
	Sequence     int64
	Timestamp    time.Time
	UserID       string
	SessionID    string
	Kind         string
	Detail       json.RawMessage
	FluencyScore int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestRecord is a stored LLM request event.
type LLMRequestRecord struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendActivity records a learner action.
	AppendActivity(ctx context.Context, data ActivityEventData) error

	// QueryActivity returns a user's activity events, newest first.
	QueryActivity(ctx context.Context, userID string, opts QueryOpts) ([]ActivityRecord, error)

	// ActivityCounts returns the number of events per kind for a user.
	ActivityCounts(ctx context.Context, userID string) (map[string]int, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns LLM request events, newest first. Kind
	// filters by purpose.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error)

	// GetLLMRequest returns one LLM request event by sequence, or
	// ErrNotFound.
	GetLLMRequest(ctx context.Context, sequence int64) (*LLMRequestRecord, error)
}
