package e2e

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixture writes and reads files under a base directory.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a fixture rooted at baseDir.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{t: t, baseDir: baseDir}
}

// WriteFile writes content to relPath, creating parent directories.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := f.Path(relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		f.t.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// WriteScript writes a replay script named name.yaml.
func (f *Fixture) WriteScript(name, body string) string {
	f.t.Helper()
	return f.WriteFile(name+".yaml", "name: "+name+"\n"+body)
}

// MkdirAll creates relPath and its parents.
func (f *Fixture) MkdirAll(relPath string) string {
	f.t.Helper()
	fullPath := f.Path(relPath)
	if err := os.MkdirAll(fullPath, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// Path returns the absolute path of relPath.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, relPath)
}

// Exists reports whether relPath exists.
func (f *Fixture) Exists(relPath string) bool {
	_, err := os.Stat(f.Path(relPath))
	return err == nil
}

// ReadFile returns the content of relPath.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	// #nosec G304 - path is built from the fixture base and a test-provided name
	data, err := os.ReadFile(f.Path(relPath))
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", f.Path(relPath), err)
	}
	return string(data)
}

// ConfigFixture returns a fixture for ~/.numfield.
func (h *Harness) ConfigFixture() *Fixture {
	h.t.Helper()
	return h.dirFixture(filepath.Join(h.homeDir, ".numfield"))
}

// ScriptsFixture returns a fixture for ~/.numfield/scripts.
func (h *Harness) ScriptsFixture() *Fixture {
	h.t.Helper()
	return h.dirFixture(filepath.Join(h.homeDir, ".numfield", "scripts"))
}

// TempFixture returns a fixture for a new temporary directory.
func (h *Harness) TempFixture() *Fixture {
	h.t.Helper()
	return NewFixture(h.t, h.t.TempDir())
}

func (h *Harness) dirFixture(dir string) *Fixture {
	h.t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		h.t.Fatalf("failed to create %s: %v", dir, err)
	}
	return NewFixture(h.t, dir)
}
