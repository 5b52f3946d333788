package mock

import (
	"context"

	"github.com/poiesic/docgraph/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via a function field.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default echo behavior.
	CompleteFunc func(ctx context.Context, messages []ai.Message, temperature float64) (string, error)

	callCount int
	lastCall  []ai.Message
}

// NewMockCompleter creates a mock completer with default echo behavior.
// Note: Returns concrete type to allow test assertions via GetMockCompleter().
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a canned answer derived from the last user message.
func (m *MockCompleter) Complete(ctx context.Context, messages []ai.Message, temperature float64) (string, error) {
	m.callCount++
	m.lastCall = messages

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages, temperature)
	}

	// Default: echo the final user message so tests can assert prompt flow
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return "answer: " + messages[i].Content, nil
		}
	}
	return "answer: (no question)", nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// LastMessages returns the messages passed to the most recent Complete call.
func (m *MockCompleter) LastMessages() []ai.Message {
	return m.lastCall
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.lastCall = nil
	m.CompleteFunc = nil
}
