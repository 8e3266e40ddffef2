package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionJSON bool

// NewVersionCmd constructs the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information for this binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionJSON {
				info := map[string]string{
					"version":   Version,
					"commit":    Commit,
					"buildDate": BuildDate,
				}
				content, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal version info: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(content))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "casecoach %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			return nil
		},
	}

	cmd.Flags().BoolVar(&versionJSON, "json", false, "Output version information in JSON format")

	return cmd
}
