// Package cmd contains the casecoach CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd constructs the casecoach root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "casecoach",
		Short:         "Practice consulting case interviews against model-driven personas",
		Long: `casecoach runs simulated consulting case interviews: a model-driven
interviewer and a model-driven candidate exchange turns until the session
completes, then the transcript is saved and your per-firm progress updated.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		NewRunCmd(),
		NewCasesCmd(),
		NewSeedCmd(),
		NewTranscriptCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}
