package publish

import (
	"context"
	"sync"
)

// MockPublisher records published messages. It is used by tests in place of
// a broker.
type MockPublisher struct {
	mu       sync.Mutex
	messages []Message
	err      error
	closed   bool
}

// NewMockPublisher creates a MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// SetError makes every following Publish fail with err.
func (m *MockPublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Publish records msg, even when configured to fail.
func (m *MockPublisher) Publish(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	if m.err != nil {
		return &Error{Topic: "mock", Err: m.err}
	}
	return nil
}

// Messages returns a copy of the recorded messages.
func (m *MockPublisher) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
