package interview

import (
	"context"
	"sync"
	"time"
)

// Checkpoint is a snapshot of a session's history after a completed turn.
type Checkpoint struct {
	SessionID string
	Messages  []Message
	TakenAt   time.Time
}

// Checkpointer saves session snapshots between turns. Snapshots are for
// inspection of aborted runs; the orchestrator never resumes from one.
type Checkpointer interface {
	Save(ctx context.Context, session *Session) error
}

// MemoryCheckpointer keeps checkpoints in memory, one list per session.
type MemoryCheckpointer struct {
	mu          sync.Mutex
	checkpoints map[string][]Checkpoint
}

// NewMemoryCheckpointer creates an in-memory checkpointer.
func NewMemoryCheckpointer() *MemoryCheckpointer {
	return &MemoryCheckpointer{checkpoints: make(map[string][]Checkpoint)}
}

// Save records a snapshot of the session's current history.
func (c *MemoryCheckpointer) Save(ctx context.Context, session *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkpoints[session.ID] = append(c.checkpoints[session.ID], Checkpoint{
		SessionID: session.ID,
		Messages:  session.History(),
		TakenAt:   time.Now(),
	})
	return nil
}

// Checkpoints returns the snapshots taken for a session, oldest first.
func (c *MemoryCheckpointer) Checkpoints(sessionID string) []Checkpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Checkpoint, len(c.checkpoints[sessionID]))
	copy(out, c.checkpoints[sessionID])
	return out
}
