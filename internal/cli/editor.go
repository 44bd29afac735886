package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// editorFunc opens path in editor and returns once the editor exits
type editorFunc func(ctx context.Context, editor, path string) error

// runEditorCmd runs the editor attached to the terminal. The editor setting
// may carry arguments, as in "code --wait".
func runEditorCmd(ctx context.Context, editor, path string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return errors.New("no editor configured")
	}

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// editText hands text to the editor through a temporary file and returns the
// edited text. changed is false when the editor neither saved the file nor
// altered its content. The file is removed on every path.
func editText(ctx context.Context, run editorFunc, editor, text string) (string, bool, error) {
	f, err := os.CreateTemp("", "getitdone-*.txt")
	if err != nil {
		return "", false, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", false, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", false, fmt.Errorf("failed to write temp file: %w", err)
	}

	before, err := os.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to stat temp file: %w", err)
	}

	if err := run(ctx, editor, path); err != nil {
		return "", false, fmt.Errorf("editor %q failed: %w", editor, err)
	}

	after, err := os.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to stat temp file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read temp file: %w", err)
	}
	if after.ModTime().Equal(before.ModTime()) && string(data) == text {
		return "", false, nil
	}
	return string(data), true, nil
}
