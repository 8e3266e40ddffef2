package interview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/YvodeRooij/casecoach/pkg/store"
)

// State is the orchestrator's position in the turn-taking cycle.
type State string

const (
	StateAwaitingInterviewer State = "awaiting_interviewer"
	StateAwaitingCandidate   State = "awaiting_candidate"
	StateTerminated          State = "terminated"
)

// DefaultExchangeMessages is the non-system message count at which a
// session terminates: six completed interviewer/candidate pairs.
const DefaultExchangeMessages = 12

// Logger defines the logging interface.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// CandidateProfile parameterizes the candidate persona's prompt.
type CandidateProfile struct {
	Name       string
	Background string
}

// OrchestratorConfig holds optional orchestrator settings.
type OrchestratorConfig struct {
	// ExchangeMessages overrides the termination threshold. Zero means
	// DefaultExchangeMessages.
	ExchangeMessages int

	// Candidate fills the candidate prompt parameters.
	Candidate CandidateProfile

	// Checkpointer, when set, snapshots the session after every turn.
	Checkpointer Checkpointer

	Logger Logger
}

// Orchestrator drives the two personas through strictly alternating turns
// until the termination threshold is reached. One orchestrator is
// constructed per run; it is never shared process-wide.
type Orchestrator struct {
	prompts      PromptResolver
	executor     *TurnExecutor
	logger       Logger
	checkpointer Checkpointer
	candidate    CandidateProfile
	maxMessages  int
	state        State
}

// NewOrchestrator creates an orchestrator over the given prompt resolver
// and turn executor.
func NewOrchestrator(prompts PromptResolver, executor *TurnExecutor, config *OrchestratorConfig) *Orchestrator {
	if config == nil {
		config = &OrchestratorConfig{}
	}

	maxMessages := config.ExchangeMessages
	if maxMessages <= 0 {
		maxMessages = DefaultExchangeMessages
	}
	logger := config.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Orchestrator{
		prompts:      prompts,
		executor:     executor,
		logger:       logger,
		checkpointer: config.Checkpointer,
		candidate:    config.Candidate,
		maxMessages:  maxMessages,
		state:        StateAwaitingInterviewer,
	}
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run executes the session to completion. Turns run strictly sequentially:
// an interviewer turn always completes and its message is appended before
// the candidate turn begins. The loop halts the first time the non-system
// message count reaches the threshold, checked after each candidate turn.
// Any turn failure aborts the run with the session left as-is.
func (o *Orchestrator) Run(ctx context.Context, session *Session) error {
	o.state = StateAwaitingInterviewer
	o.logger.Info("Starting interview session",
		"session", session.ID,
		"exchange_messages", o.maxMessages)

	for o.state != StateTerminated {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("session %s canceled: %w", session.ID, err)
		}

		switch o.state {
		case StateAwaitingInterviewer:
			if err := o.runInterviewerTurn(ctx, session); err != nil {
				return err
			}
			o.state = StateAwaitingCandidate

		case StateAwaitingCandidate:
			if err := o.runCandidateTurn(ctx, session); err != nil {
				return err
			}
			o.state = nextStateAfterCandidate(session.NonSystemCount(), o.maxMessages)
		}

		if o.checkpointer != nil {
			if err := o.checkpointer.Save(ctx, session); err != nil {
				o.logger.Error("Failed to checkpoint session", "session", session.ID, "error", err)
			}
		}
	}

	o.logger.Info("Interview session terminated",
		"session", session.ID,
		"messages", session.NonSystemCount())
	return nil
}

func (o *Orchestrator) runInterviewerTurn(ctx context.Context, session *Session) error {
	caseStudy := session.CaseStudy()
	if caseStudy == nil {
		return fmt.Errorf("interviewer turn: %w", ErrMissingCaseStudy)
	}

	variant := InterviewerVariant(caseStudy)
	params, err := o.interviewerParams(caseStudy)
	if err != nil {
		return err
	}

	o.logger.Debug("Running interviewer turn",
		"session", session.ID,
		"variant", variant,
		"messages", session.NonSystemCount())

	seeds, err := o.prompts.Resolve(variant, params)
	if err != nil {
		return fmt.Errorf("resolve interviewer prompt: %w", err)
	}

	msg, err := o.executor.Run(ctx, PersonaInterviewer, seeds, session.History())
	if err != nil {
		return err
	}
	session.Append(msg)
	return nil
}

func (o *Orchestrator) runCandidateTurn(ctx context.Context, session *Session) error {
	o.logger.Debug("Running candidate turn",
		"session", session.ID,
		"messages", session.NonSystemCount())

	seeds, err := o.prompts.Resolve(PromptCandidate, PromptParams{
		CandidateName:       o.candidate.Name,
		CandidateBackground: o.candidate.Background,
	})
	if err != nil {
		return fmt.Errorf("resolve candidate prompt: %w", err)
	}

	msg, err := o.executor.Run(ctx, PersonaCandidate, seeds, session.History())
	if err != nil {
		return err
	}
	session.Append(msg)
	return nil
}

func (o *Orchestrator) interviewerParams(c *store.CaseStudy) (PromptParams, error) {
	params := PromptParams{CandidateName: o.candidate.Name}

	if c.IsPEI() {
		firm := c.Company
		if firm == "" {
			firm = "the firm"
		}
		params.FirmName = firm

		structure, err := json.MarshalIndent(peiStructure{
			FocusAreas: c.FocusAreas,
			Guidance:   c.InterviewerGuidance,
		}, "", "  ")
		if err != nil {
			return PromptParams{}, fmt.Errorf("encode PEI structure: %w", err)
		}
		params.PEIStructure = string(structure)
	} else {
		params.ProblemStatement = c.ProblemStatement
	}

	return params, nil
}

type peiStructure struct {
	FocusAreas []string `json:"focusAreas,omitempty"`
	Guidance   []string `json:"guidance,omitempty"`
}

// InterviewerVariant selects the interviewer prompt for a case: standard
// cases use the case-interviewer prompt, PEI cases pick interviewer-led or
// candidate-led from the case's interview style, defaulting to
// interviewer-led.
func InterviewerVariant(c *store.CaseStudy) PromptVariant {
	if !c.IsPEI() {
		return PromptStandardInterviewer
	}
	if c.InterviewStyle == store.StyleCandidateLed {
		return PromptPEICandidateLed
	}
	return PromptPEIInterviewerLed
}

// nextStateAfterCandidate applies the termination rule: keep alternating
// until the non-system message count reaches the threshold.
func nextStateAfterCandidate(nonSystemCount, maxMessages int) State {
	if nonSystemCount < maxMessages {
		return StateAwaitingInterviewer
	}
	return StateTerminated
}

// defaultLogger is a logrus-backed Logger.
type defaultLogger struct {
	entry *logrus.Entry
}

// NewDefaultLogger creates the standard structured logger.
func NewDefaultLogger() Logger {
	log := logrus.New()
	return &defaultLogger{entry: logrus.NewEntry(log)}
}

// NewLogrusLogger wraps an existing logrus entry in the Logger interface.
func NewLogrusLogger(entry *logrus.Entry) Logger {
	return &defaultLogger{entry: entry}
}

func (l *defaultLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Info(msg)
}

func (l *defaultLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Error(msg)
}

func (l *defaultLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := make(logrus.Fields)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
