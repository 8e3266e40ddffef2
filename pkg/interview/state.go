package interview

import (
	"github.com/google/uuid"

	"github.com/YvodeRooij/casecoach/pkg/store"
)

// Session is the mutable state threaded through one orchestration run:
// the running message history plus the loaded case study. Created fresh
// per interview, identified by a generated thread id, discarded after the
// run completes.
type Session struct {
	ID        string
	history   History
	caseStudy *store.CaseStudy
}

// NewSession creates a session with a generated thread id.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Append adds messages to the session history, preserving order.
func (s *Session) Append(msgs ...Message) {
	s.history.Append(msgs...)
}

// History returns a copy of the accumulated messages.
func (s *Session) History() []Message {
	return s.history.Messages()
}

// NonSystemCount returns the number of non-system messages so far.
func (s *Session) NonSystemCount() int {
	return s.history.NonSystemCount()
}

// SetCaseStudy sets the loaded case. Intended to be called once by the
// session initializer; a later call overwrites (last write wins).
func (s *Session) SetCaseStudy(c *store.CaseStudy) {
	s.caseStudy = c
}

// CaseStudy returns the loaded case, or nil if none was set.
func (s *Session) CaseStudy() *store.CaseStudy {
	return s.caseStudy
}
