package interview

import (
	"context"
	"time"

	"github.com/YvodeRooij/casecoach/pkg/model"
)

// TurnExecutor runs one persona turn: it builds the message list as seed
// messages followed by the running history, invokes the chat model, and
// returns exactly one new message tagged with the persona's role. It owns
// no state of its own.
type TurnExecutor struct {
	model   model.ChatModel
	timeout time.Duration
}

// NewTurnExecutor creates a turn executor. A timeout of 0 disables the
// per-turn deadline.
func NewTurnExecutor(m model.ChatModel, timeout time.Duration) *TurnExecutor {
	return &TurnExecutor{model: m, timeout: timeout}
}

// Run executes one turn. Seed messages always precede the history because
// the model treats leading system messages as instructions. Failures
// (including timeouts) are wrapped in a ModelInvocationError and not
// retried.
func (e *TurnExecutor) Run(ctx context.Context, persona Persona, seeds, history []Message) (Message, error) {
	request := make([]model.ChatMessage, 0, len(seeds)+len(history))
	for _, msg := range seeds {
		request = append(request, toChatMessage(msg, persona))
	}
	for _, msg := range history {
		request = append(request, toChatMessage(msg, persona))
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	reply, err := e.model.Complete(ctx, request)
	if err != nil {
		return Message{}, &ModelInvocationError{Persona: persona, Err: err}
	}

	return Message{
		Role:      persona.Role(),
		Content:   reply,
		Timestamp: time.Now(),
	}, nil
}

// toChatMessage maps a history message into the active persona's view:
// its own previous replies are assistant turns, the counterpart's are user
// turns.
func toChatMessage(msg Message, active Persona) model.ChatMessage {
	switch {
	case msg.IsSystem():
		return model.ChatMessage{Role: model.RoleSystem, Content: msg.Content}
	case msg.Role == active.Role():
		return model.ChatMessage{Role: model.RoleAssistant, Content: msg.Content}
	default:
		return model.ChatMessage{Role: model.RoleUser, Content: msg.Content}
	}
}
