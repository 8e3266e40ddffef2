package interview

import (
	"os"
	"path/filepath"
	"testing"
)

func writePromptFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write prompt file %s: %v", name, err)
	}
}
