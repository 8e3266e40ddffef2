package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YvodeRooij/casecoach/pkg/model"
	"github.com/YvodeRooij/casecoach/pkg/store"
)

func testPrompts(t *testing.T) *TemplatePack {
	t.Helper()
	pack, err := LoadBuiltinPrompts()
	if err != nil {
		t.Fatalf("load builtin prompts: %v", err)
	}
	return pack
}

func standardCase() *store.CaseStudy {
	return &store.CaseStudy{
		CaseID:           "case_profitability_01",
		Title:            "Declining Profitability",
		ProblemStatement: "Your client's margins have fallen 10% in two years.",
		CaseType:         store.CaseTypeStandard,
		Company:          "mckinsey",
	}
}

func newTestOrchestrator(t *testing.T, m model.ChatModel) *Orchestrator {
	t.Helper()
	return NewOrchestrator(testPrompts(t), NewTurnExecutor(m, 0), &OrchestratorConfig{
		Candidate: CandidateProfile{Name: "Yvo", Background: "business analytics"},
	})
}

func TestOrchestrator_FullRun(t *testing.T) {
	mock := &model.MockModel{}
	orch := newTestOrchestrator(t, mock)

	session := NewSession()
	session.SetCaseStudy(standardCase())

	err := orch.Run(context.Background(), session)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if orch.State() != StateTerminated {
		t.Errorf("expected terminated state, got %s", orch.State())
	}

	history := session.History()
	if len(history) != 12 {
		t.Fatalf("expected exactly 12 messages in history, got %d", len(history))
	}
	if session.NonSystemCount() != 12 {
		t.Errorf("expected 12 non-system messages, got %d", session.NonSystemCount())
	}

	// Strict alternation starting with the interviewer.
	for i, msg := range history {
		want := RoleInterviewer
		if i%2 == 1 {
			want = RoleCandidate
		}
		if msg.Role != want {
			t.Errorf("message %d: expected role %s, got %s", i, want, msg.Role)
		}
	}

	// Termination is exact: 6 turns per persona, no 13th message.
	if mock.Calls() != 12 {
		t.Errorf("expected 12 model calls, got %d", mock.Calls())
	}
}

func TestOrchestrator_MissingCaseStudy(t *testing.T) {
	mock := &model.MockModel{}
	orch := newTestOrchestrator(t, mock)

	session := NewSession()
	err := orch.Run(context.Background(), session)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCaseStudy)
	// The precondition is checked before any model invocation.
	assert.Equal(t, 0, mock.Calls())
	assert.Empty(t, session.History())
}

func TestOrchestrator_ModelFailureAborts(t *testing.T) {
	modelErr := errors.New("upstream unavailable")
	mock := &model.MockModel{Err: modelErr, FailAfter: 3}
	orch := newTestOrchestrator(t, mock)

	session := NewSession()
	session.SetCaseStudy(standardCase())

	err := orch.Run(context.Background(), session)
	require.Error(t, err)

	var invErr *ModelInvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, PersonaInterviewer, invErr.Persona)
	assert.ErrorIs(t, err, modelErr)

	// The two successful turns remain in history; the run aborted on the
	// third before appending anything.
	assert.Equal(t, 2, session.NonSystemCount())
	assert.NotEqual(t, StateTerminated, orch.State())
}

func TestOrchestrator_ContextCancellation(t *testing.T) {
	mock := &model.MockModel{}
	orch := newTestOrchestrator(t, mock)

	session := NewSession()
	session.SetCaseStudy(standardCase())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := orch.Run(ctx, session)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrchestrator_Checkpointing(t *testing.T) {
	mock := &model.MockModel{}
	checkpointer := NewMemoryCheckpointer()
	orch := NewOrchestrator(testPrompts(t), NewTurnExecutor(mock, 0), &OrchestratorConfig{
		Candidate:    CandidateProfile{Name: "Yvo"},
		Checkpointer: checkpointer,
	})

	session := NewSession()
	session.SetCaseStudy(standardCase())
	require.NoError(t, orch.Run(context.Background(), session))

	checkpoints := checkpointer.Checkpoints(session.ID)
	require.Len(t, checkpoints, 12)
	// Each snapshot grows by exactly one message.
	for i, cp := range checkpoints {
		assert.Len(t, cp.Messages, i+1)
	}
}

func TestNextStateAfterCandidate(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected State
	}{
		{"early in session", 2, StateAwaitingInterviewer},
		{"one pair short", 10, StateAwaitingInterviewer},
		{"eleven messages", 11, StateAwaitingInterviewer},
		{"at threshold", 12, StateTerminated},
		{"past threshold", 13, StateTerminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nextStateAfterCandidate(tt.count, DefaultExchangeMessages))
		})
	}
}

func TestInterviewerVariant(t *testing.T) {
	tests := []struct {
		name     string
		caseType store.CaseType
		style    store.InterviewStyle
		expected PromptVariant
	}{
		{"standard case", store.CaseTypeStandard, "", PromptStandardInterviewer},
		{"standard ignores style", store.CaseTypeStandard, store.StyleCandidateLed, PromptStandardInterviewer},
		{"PEI candidate-led", store.CaseTypePEI, store.StyleCandidateLed, PromptPEICandidateLed},
		{"PEI interviewer-led", store.CaseTypePEI, store.StyleInterviewerLed, PromptPEIInterviewerLed},
		{"PEI missing style defaults to interviewer-led", store.CaseTypePEI, "", PromptPEIInterviewerLed},
		{"PEI unknown style defaults to interviewer-led", store.CaseTypePEI, "panel", PromptPEIInterviewerLed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &store.CaseStudy{CaseType: tt.caseType, InterviewStyle: tt.style}
			assert.Equal(t, tt.expected, InterviewerVariant(c))
		})
	}
}

func TestOrchestrator_PEIVariantUsedEveryInterviewerTurn(t *testing.T) {
	mock := &model.MockModel{}
	orch := newTestOrchestrator(t, mock)

	session := NewSession()
	session.SetCaseStudy(&store.CaseStudy{
		CaseID:         "pei_standard_bcg_2025",
		Title:          "BCG Behavioral",
		CaseType:       store.CaseTypePEI,
		Company:        "bcg",
		InterviewStyle: store.StyleCandidateLed,
		FocusAreas:     []string{"leadership"},
	})
	require.NoError(t, orch.Run(context.Background(), session))

	// Interviewer requests are the even-numbered calls. Every one of them
	// carries the candidate-led seed text.
	for i, req := range mock.Requests {
		if i%2 != 0 {
			continue
		}
		require.NotEmpty(t, req)
		assert.Contains(t, req[0].Content, "CANDIDATE-LED", "interviewer call %d", i)
	}
}
