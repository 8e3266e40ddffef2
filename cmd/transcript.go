package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YvodeRooij/casecoach/pkg/config"
	"github.com/YvodeRooij/casecoach/pkg/interview"
)

// NewTranscriptCmd constructs the transcript command: print a stored
// interview transcript.
func NewTranscriptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <interview-id>",
		Short: "Print a stored interview transcript",
		Args:  cobra.ExactArgs(1),
		RunE:  runTranscript,
	}
}

func runTranscript(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rec, err := st.GetTranscript(ctx, args[0])
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Printf("%s — %s\n", rec.CaseStudyTitle, rec.CandidateName)
	fmt.Printf("Interview %s (case %s), completed %s\n\n",
		rec.InterviewID, rec.CaseStudyID, rec.CompletedAt.Format("2006-01-02 15:04"))

	interviewer := color.New(color.FgCyan, color.Bold)
	candidate := color.New(color.FgGreen, color.Bold)
	for _, entry := range rec.Conversation {
		if entry.Role == interview.TranscriptRoleInterviewer {
			interviewer.Printf("%s:\n", entry.Role)
		} else {
			candidate.Printf("%s:\n", entry.Role)
		}
		fmt.Printf("%s\n\n", entry.Content)
	}
	return nil
}
