package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
)

const shellPrompt = "getitdone> "

// lineReader is the prompt the shell reads commands from
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// ShellCmd returns the shell command. The shell keeps one store open for
// every command it runs.
func ShellCmd(s *session, cmds []*Command) *Command {
	return &Command{
		Usage:   "shell",
		Aliases: []string{"repl"},
		Short:   "Run commands interactively",
		Long: `Read commands line by line and run them against one open database.
Lines are split on whitespace. Type help for the command list and exit,
quit or ctrl+d to leave.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return usageErrorf("shell takes no arguments")
			}
			return runShell(ctx, s, o, cmds)
		},
	}
}

func runShell(ctx context.Context, s *session, o *IO, cmds []*Command) error {
	if s.cfgErr != nil {
		return s.cfgErr
	}
	// Take the lock before the first prompt so a second shell fails fast
	if _, err := s.application(ctx); err != nil {
		return err
	}

	history := filepath.Join(s.cfg.DataDir, "history")
	r := newLineReader(o, history, cmds)
	defer r.Close()

	for ctx.Err() == nil {
		line, err := r.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		r.AppendHistory(line)

		fields := strings.Fields(line)
		switch fields[0] {
		case "exit", "quit":
			return nil
		case "shell", "repl":
			o.ErrPrintln("error: already in the shell")
			continue
		}

		code := dispatch(ctx, o, cmds, fields, nil)
		s.log.Debugw("shell command", "command", fields[0], "exit", code)
	}
	return nil
}

// newLineReader uses a line editor on a terminal and plain line reads
// otherwise.
func newLineReader(o *IO, history string, cmds []*Command) lineReader {
	if f, ok := o.in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return newTermReader(history, cmds)
	}
	return &plainReader{scanner: bufio.NewScanner(o.in)}
}

type termReader struct {
	*liner.State
	history string
}

func newTermReader(history string, cmds []*Command) *termReader {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	l.SetCompleter(func(line string) []string {
		var out []string
		for _, c := range cmds {
			for _, name := range append([]string{c.Name()}, c.Aliases...) {
				if strings.HasPrefix(name, line) {
					out = append(out, name)
				}
			}
		}
		return out
	})

	if f, err := os.Open(history); err == nil {
		_, _ = l.ReadHistory(f)
		f.Close()
	}
	return &termReader{State: l, history: history}
}

// Close saves the history and restores the terminal
func (t *termReader) Close() error {
	var buf bytes.Buffer
	if _, err := t.WriteHistory(&buf); err == nil {
		_ = atomic.WriteFile(t.history, &buf)
	}
	return t.State.Close()
}

type plainReader struct {
	scanner *bufio.Scanner
}

func (p *plainReader) Prompt(string) (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *plainReader) AppendHistory(string) {}

func (p *plainReader) Close() error { return nil }
