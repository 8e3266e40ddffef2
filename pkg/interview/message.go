// Package interview contains the turn-taking dialogue engine: message
// model, session state, prompt resolution, turn execution, the dialogue
// orchestrator, case selection, and transcript projection.
package interview

import "time"

// Role tags who produced a message.
type Role string

const (
	RoleSystem      Role = "system"
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// Persona is one of the two model-driven participants.
type Persona string

const (
	PersonaInterviewer Persona = "interviewer"
	PersonaCandidate   Persona = "candidate"
)

// Role returns the message role a persona's replies carry.
func (p Persona) Role() Role {
	if p == PersonaCandidate {
		return RoleCandidate
	}
	return RoleInterviewer
}

// Message is a single role-tagged message. Immutable once created.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// IsSystem reports whether this is a system (seed) message.
func (m Message) IsSystem() bool {
	return m.Role == RoleSystem
}

// History is an append-only, insertion-ordered message sequence. New
// messages are always appended after existing ones; nothing is ever
// reordered or deduplicated.
type History struct {
	messages []Message
}

// Append adds messages to the end of the history.
func (h *History) Append(msgs ...Message) {
	h.messages = append(h.messages, msgs...)
}

// Messages returns a copy of the history in insertion order.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the total number of messages.
func (h *History) Len() int {
	return len(h.messages)
}

// NonSystemCount returns the number of non-system messages. The
// orchestrator's termination rule counts these.
func (h *History) NonSystemCount() int {
	count := 0
	for _, m := range h.messages {
		if !m.IsSystem() {
			count++
		}
	}
	return count
}
