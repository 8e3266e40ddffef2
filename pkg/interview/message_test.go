package interview

import "testing"

func TestHistory_AppendPreservesOrder(t *testing.T) {
	var h History
	h.Append(Message{Role: RoleSystem, Content: "a"})
	h.Append(
		Message{Role: RoleInterviewer, Content: "b"},
		Message{Role: RoleCandidate, Content: "c"},
	)

	msgs := h.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if msgs[i].Content != want {
			t.Errorf("message %d: expected %q, got %q", i, want, msgs[i].Content)
		}
	}
}

func TestHistory_MessagesReturnsCopy(t *testing.T) {
	var h History
	h.Append(Message{Role: RoleInterviewer, Content: "original"})

	view := h.Messages()
	view[0].Content = "mutated"

	if h.Messages()[0].Content != "original" {
		t.Error("mutating the returned slice changed the history")
	}
}

func TestHistory_NonSystemCount(t *testing.T) {
	var h History
	h.Append(
		Message{Role: RoleSystem, Content: "seed"},
		Message{Role: RoleInterviewer, Content: "q"},
		Message{Role: RoleSystem, Content: "seed"},
		Message{Role: RoleCandidate, Content: "a"},
	)

	if got := h.NonSystemCount(); got != 2 {
		t.Errorf("expected 2 non-system messages, got %d", got)
	}
	if got := h.Len(); got != 4 {
		t.Errorf("expected total length 4, got %d", got)
	}
}

func TestPersona_Role(t *testing.T) {
	if PersonaInterviewer.Role() != RoleInterviewer {
		t.Error("interviewer persona should produce interviewer-role messages")
	}
	if PersonaCandidate.Role() != RoleCandidate {
		t.Error("candidate persona should produce candidate-role messages")
	}
}
