// Package model defines the chat-model port the interview engine speaks
// through, plus OpenAI and Gemini backed implementations and a mock for
// tests.
package model

import "context"

// Role tags a chat message the way completion APIs expect.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one role-tagged message in a completion request.
type ChatMessage struct {
	Role    Role
	Content string
}

// ChatModel sends an ordered sequence of role-tagged messages and returns
// one reply. Implementations must respect ctx cancellation and deadlines.
type ChatModel interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
