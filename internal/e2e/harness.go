// Package e2e runs the numfield CLI in-process against an isolated home
// directory and captures what it prints.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/klauern/numfield/internal/cli"
)

// Result is the outcome of one CLI invocation.
type Result struct {
	Stdout string
	Stderr string
	// Err is the error returned by cli.Run.
	Err error
	// ExitCode mirrors main: 0 on success, 1 on error.
	ExitCode int
}

// Success reports whether the command returned no error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness runs CLI commands with HOME pointed at a per-test directory and
// every NUMFIELD_* variable cleared.
type Harness struct {
	t       *testing.T
	homeDir string
	env     map[string]string
}

// NewHarness creates a harness with a fresh home directory.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	h := &Harness{
		t:       t,
		homeDir: t.TempDir(),
		env:     make(map[string]string),
	}
	h.SetEnv("HOME", h.homeDir)
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "NUMFIELD_") {
			h.SetEnv(key, "")
		}
	}
	return h
}

// SetEnv sets an environment variable for the rest of the test.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.env[key] = value
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated home directory.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// Run executes numfield with args.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()
	return h.run(nil, args)
}

// RunWithStdin executes numfield with stdin fed from a pipe.
func (h *Harness) RunWithStdin(stdin string, args ...string) *Result {
	h.t.Helper()
	return h.run(&stdin, args)
}

func (h *Harness) run(stdin *string, args []string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "numfield" {
		args = append([]string{"numfield"}, args...)
	}

	if stdin != nil {
		r, w, err := os.Pipe()
		if err != nil {
			h.t.Fatalf("failed to create stdin pipe: %v", err)
		}
		go func() {
			defer func() { _ = w.Close() }()
			_, _ = io.WriteString(w, *stdin)
		}()
		oldStdin := os.Stdin
		os.Stdin = r
		defer func() {
			os.Stdin = oldStdin
			_ = r.Close()
		}()
	}

	stdout := h.capture(&os.Stdout)
	stderr := h.capture(&os.Stderr)

	err := cli.Run(context.Background(), args)

	result := &Result{
		Stdout: stdout(),
		Stderr: stderr(),
		Err:    err,
	}
	if err != nil {
		result.ExitCode = 1
	}
	return result
}

// capture swaps *target for a pipe and returns a function that restores it
// and yields everything written in between. The pipe is drained while the
// command runs so large output cannot block on a full buffer.
func (h *Harness) capture(target **os.File) func() string {
	h.t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create pipe: %v", err)
	}
	old := *target
	*target = w

	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(&buf, r)
		done <- err
	}()

	return func() string {
		if err := w.Close(); err != nil {
			h.t.Fatalf("failed to close pipe writer: %v", err)
		}
		*target = old
		if err := <-done; err != nil {
			h.t.Fatalf("failed to read captured output: %v", err)
		}
		return buf.String()
	}
}
