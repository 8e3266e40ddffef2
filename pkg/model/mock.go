package model

import (
	"context"
	"fmt"
	"sync"
)

// MockModel implements ChatModel for testing. It records every request and
// returns scripted replies in order, falling back to generated ones.
type MockModel struct {
	mu sync.Mutex

	// Replies are returned in order; when exhausted, a generated reply is
	// returned instead.
	Replies []string

	// Err, when set, is returned for every call.
	Err error

	// FailAfter, when > 0, makes the call numbered FailAfter (1-based) and
	// all later calls return Err even if Err alone is unset.
	FailAfter int

	// Requests records the message sequences passed to Complete.
	Requests [][]ChatMessage

	calls int
}

// Complete returns the next scripted reply.
func (m *MockModel) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.calls++
	snapshot := make([]ChatMessage, len(messages))
	copy(snapshot, messages)
	m.Requests = append(m.Requests, snapshot)

	if m.FailAfter > 0 && m.calls >= m.FailAfter {
		if m.Err != nil {
			return "", m.Err
		}
		return "", fmt.Errorf("mock model failure on call %d", m.calls)
	}
	if m.Err != nil {
		return "", m.Err
	}

	if m.calls <= len(m.Replies) {
		return m.Replies[m.calls-1], nil
	}
	return fmt.Sprintf("mock reply %d", m.calls), nil
}

// Calls returns how many times Complete was invoked.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
