package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockJSON returns a canned reply holding v as JSON. It panics if v
// cannot be marshaled.
func MockJSON(v any) MockResponse {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return MockResponse{Content: b}
}

// MockProvider replays canned replies and records every request. Replies
// registered for a schema name are served to requests with that schema
// first; everything else comes from a shared FIFO queue.
type MockProvider struct {
	mu       sync.Mutex
	queue    []MockResponse
	bySchema map[string][]MockResponse
	Calls    []Request
}

// NewMockProvider returns a MockProvider with responses on the shared queue.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses, bySchema: map[string][]MockResponse{}}
}

// AddResponse appends to the shared queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// Respond queues replies for requests using the named schema.
func (m *MockProvider) Respond(schema string, resps ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bySchema[schema] = append(m.bySchema[schema], resps...)
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	next, ok := m.pop(req)
	if !ok {
		return nil, &ErrProviderUnavailable{}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: StopEnd}, nil
}

func (m *MockProvider) pop(req Request) (MockResponse, bool) {
	if req.Schema != nil {
		if q := m.bySchema[req.Schema.Name]; len(q) > 0 {
			m.bySchema[req.Schema.Name] = q[1:]
			return q[0], true
		}
	}
	if len(m.queue) == 0 {
		return MockResponse{}, false
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	return next, true
}

func (m *MockProvider) ModelID() string { return "mock" }

// CallCount returns the number of Generate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
