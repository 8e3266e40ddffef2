package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YvodeRooij/casecoach/pkg/config"
)

var casesFirm string

// NewCasesCmd constructs the cases command: list catalog cases for a firm.
func NewCasesCmd() *cobra.Command {
	casesCmd := &cobra.Command{
		Use:   "cases",
		Short: "List the case catalog for a firm",
		RunE:  runCases,
	}
	casesCmd.Flags().StringVarP(&casesFirm, "firm", "f", "", "Firm name (required)")
	casesCmd.MarkFlagRequired("firm")
	return casesCmd
}

func runCases(cmd *cobra.Command, args []string) error {
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

	cases, err := st.ListCases(ctx, casesFirm)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		fmt.Printf("No cases found for firm %q\n", casesFirm)
		return nil
	}

	bold := color.New(color.Bold)
	for _, c := range cases {
		bold.Printf("%s", c.CaseID)
		fmt.Printf("  [%s]", c.CaseType)
		if c.InterviewStyle != "" {
			fmt.Printf(" (%s)", c.InterviewStyle)
		}
		fmt.Printf("  %s\n", c.Title)
	}
	return nil
}
