package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testNow is a Monday
var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local)

// testCLI runs the command line against a private home directory with a
// fixed clock, a scripted editor and a recording notifier.
type testCLI struct {
	t   *testing.T
	Dir string
	Env map[string]string

	// EditorText is written by the editor hook; nil leaves the file alone
	EditorText *string
	EditorErr  error

	Notified  [][]string
	NotifyErr error
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	dir := t.TempDir()
	return &testCLI{
		t:   t,
		Dir: dir,
		Env: map[string]string{
			"HOME":                dir,
			"XDG_CONFIG_HOME":     filepath.Join(dir, "config"),
			"XDG_DATA_HOME":       filepath.Join(dir, "data"),
			"GETITDONE_DRIVER":    "sqlite",
			"GETITDONE_EDITOR":    "test-editor",
			"GETITDONE_LOG_LEVEL": "warn",
		},
	}
}

func (c *testCLI) hooks() hooks {
	return hooks{
		editor: func(_ context.Context, editor, path string) error {
			if editor != "test-editor" {
				c.t.Errorf("editor = %q, want test-editor", editor)
			}
			if c.EditorErr != nil {
				return c.EditorErr
			}
			if c.EditorText == nil {
				return nil
			}
			return os.WriteFile(path, []byte(*c.EditorText), 0o600)
		},
		notify: func(name string, args ...string) error {
			c.Notified = append(c.Notified, append([]string{name}, args...))
			return c.NotifyErr
		},
		now: func() time.Time { return testNow },
	}
}

// Run executes the CLI and returns stdout, stderr and the exit code
func (c *testCLI) Run(args ...string) (string, string, int) {
	return c.RunWithInput("", args...)
}

// RunWithInput executes the CLI with stdin
func (c *testCLI) RunWithInput(stdin string, args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"getitdone"}, args...)
	code := run(context.Background(), strings.NewReader(stdin), &outBuf, &errBuf, fullArgs, c.Env, c.hooks())

	return outBuf.String(), errBuf.String(), code
}

// MustRun fails the test on a non-zero exit and returns trimmed stdout
func (c *testCLI) MustRun(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code != 0 {
		c.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}
	return strings.TrimSpace(stdout)
}

// MustFail fails the test when the command exits 0 and returns trimmed
// stderr
func (c *testCLI) MustFail(args ...string) string {
	c.t.Helper()

	stdout, stderr, code := c.Run(args...)
	if code == 0 {
		c.t.Fatalf("command %v should have failed\nstdout: %s", args, stdout)
	}
	return strings.TrimSpace(stderr)
}

// lines splits trimmed output into lines, nil when empty
func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
