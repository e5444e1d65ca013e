package util

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateTempDir returns a temp directory removed when the test ends.
func CreateTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "numfield-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// SetHome points HOME at a fresh temp dir for the rest of the test and
// returns it, so ConfigDir and ScriptsDir resolve inside it.
func SetHome(t *testing.T) string {
	t.Helper()
	home := CreateTempDir(t)
	t.Setenv("HOME", home)
	return home
}
