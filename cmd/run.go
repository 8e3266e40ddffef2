package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YvodeRooij/casecoach/pkg/config"
	"github.com/YvodeRooij/casecoach/pkg/interview"
	"github.com/YvodeRooij/casecoach/pkg/store"
)

var (
	runUser string
	runCase string
)

// NewRunCmd constructs the run command: one complete interview session.
func NewRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulated interview session",
		Long: `Run one complete interview session for a user: select a case based on
the user's firm and progress (or an explicitly requested case), drive the
interviewer and candidate personas through the full exchange, save the
transcript, and record the completion.`,
		RunE: runInterview,
	}
	runCmd.Flags().StringVarP(&runUser, "user", "u", "", "User id (required)")
	runCmd.Flags().StringVarP(&runCase, "case", "c", "", "Requested case id (optional)")
	runCmd.MarkFlagRequired("user")
	return runCmd
}

func runInterview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	user, err := st.GetUser(ctx, runUser)
	if err != nil {
		return fmt.Errorf("load user %s: %w", runUser, err)
	}
	firm := user.SelectedFirm()
	logger.WithField("user", user.UserID).WithField("firm", firm).Info("Loaded user")

	engineLogger := interview.NewLogrusLogger(logger)
	policy := interview.NewSelectionPolicy(st, st, engineLogger)
	caseStudy, err := policy.SelectCase(ctx, user, runCase)
	if err != nil {
		return err
	}

	announceSession(caseStudy)

	chatModel, err := newChatModel(ctx, cfg)
	if err != nil {
		return err
	}
	prompts, err := loadPrompts(cfg)
	if err != nil {
		return err
	}

	candidate := interview.CandidateProfile{
		Name:       user.Name,
		Background: user.Background,
	}
	if candidate.Name == "" {
		candidate.Name = cfg.CandidateName
	}
	if candidate.Background == "" {
		candidate.Background = cfg.CandidateBackground
	}

	session := interview.NewSession()
	session.SetCaseStudy(caseStudy)

	orch := interview.NewOrchestrator(
		prompts,
		interview.NewTurnExecutor(chatModel, cfg.TurnTimeout),
		&interview.OrchestratorConfig{
			Candidate:    candidate,
			Checkpointer: interview.NewMemoryCheckpointer(),
			Logger:       engineLogger,
		},
	)

	startedAt := time.Now()
	if err := orch.Run(ctx, session); err != nil {
		return fmt.Errorf("interview session %s: %w", session.ID, err)
	}

	record := interview.Project(session.History(), interview.TranscriptMeta{
		InterviewID:    session.ID,
		UserID:         user.UserID,
		CaseStudyID:    caseStudy.CaseID,
		CaseStudyTitle: caseStudy.Title,
		CandidateName:  candidate.Name,
		StartedAt:      startedAt,
		CompletedAt:    time.Now(),
	})

	interviewID, err := st.InsertTranscript(ctx, &record)
	if err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	color.Green("Transcript saved: %s", interviewID)

	// A failed progress write does not retract the saved transcript; worst
	// case the same case is offered again later.
	if err := policy.RecordCompletion(ctx, user.UserID, firm, caseStudy); err != nil {
		logger.WithError(err).Error("Failed to update progress; transcript is saved")
		color.Yellow("Warning: progress update failed: %v", err)
	}

	return nil
}

func announceSession(c *store.CaseStudy) {
	if c.IsPEI() {
		style := "Interviewer-Led"
		if c.InterviewStyle == store.StyleCandidateLed {
			style = "Candidate-Led"
		}
		firm := c.Company
		if firm == "" {
			firm = "the firm"
		}
		color.Cyan("Starting PEI (%s) for %s with case %s", style, firm, c.CaseID)
		return
	}
	color.Cyan("Starting standard case interview: %s (%s)", c.Title, c.CaseID)
}
