package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YvodeRooij/casecoach/pkg/config"
	"github.com/YvodeRooij/casecoach/pkg/store"
)

var seedDir string

// NewSeedCmd constructs the seed command: import case and user JSON
// documents into the configured store.
func NewSeedCmd() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Import case and user JSON documents into the store",
		Long: `Import JSON documents into the configured store. The source directory is
expected to contain a cases/ subdirectory of case documents and a users/
subdirectory of user documents, one JSON file each.`,
		RunE: runSeed,
	}
	seedCmd.Flags().StringVarP(&seedDir, "dir", "d", "", "Source directory (required)")
	seedCmd.MarkFlagRequired("dir")
	return seedCmd
}

func runSeed(cmd *cobra.Command, args []string) error {
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

	casesImported, err := seedDocuments(ctx, filepath.Join(seedDir, "cases"), func(content []byte) error {
		var c store.CaseStudy
		if err := json.Unmarshal(content, &c); err != nil {
			return err
		}
		return st.PutCase(ctx, &c)
	})
	if err != nil {
		return fmt.Errorf("seed cases: %w", err)
	}

	usersImported, err := seedDocuments(ctx, filepath.Join(seedDir, "users"), func(content []byte) error {
		var u store.User
		if err := json.Unmarshal(content, &u); err != nil {
			return err
		}
		return st.PutUser(ctx, &u)
	})
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	color.Green("Imported %d cases and %d users", casesImported, usersImported)
	return nil
}

func seedDocuments(ctx context.Context, dir string, put func([]byte) error) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return imported, err
		}
		if err := put(content); err != nil {
			return imported, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		imported++
	}
	return imported, nil
}
