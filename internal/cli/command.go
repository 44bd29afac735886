package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks errors caused by a malformed command line
var ErrUsage = errors.New("usage")

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags. Nil for commands that take
	// item tokens, which must reach Exec unparsed.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "getitdone" in help.
	// The first word is the command name.
	Usage string

	// Aliases are alternative names
	Aliases []string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-34s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "getitdone <cmd> --help".
func (c *Command) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: getitdone", c.Usage)
	if len(c.Aliases) > 0 {
		fmt.Fprintln(w, "Aliases:", strings.Join(c.Aliases, ", "))
	}
	fmt.Fprintln(w)

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	fmt.Fprintln(w, desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		fmt.Fprint(w, buf.String())
	}
}

// Run parses flags and executes the command. Returns exit code: 0 on
// success, 1 on failure, 2 on a usage error.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if isHelp(args) {
		c.PrintHelp(o.out)
		return 0
	}

	if c.Flags != nil {
		c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

		if err := c.Flags.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				c.PrintHelp(o.out)
				return 0
			}
			o.ErrPrintln("error:", err)
			o.ErrPrintln()
			c.PrintHelp(o.errOut)
			return 2
		}
		args = c.Flags.Args()
	}

	if err := c.Exec(ctx, o, args); err != nil {
		if errors.Is(err, ErrUsage) {
			o.ErrPrintln("error:", strings.TrimPrefix(err.Error(), ErrUsage.Error()+": "))
			o.ErrPrintln()
			c.PrintHelp(o.errOut)
			return 2
		}
		o.ErrPrintln("error:", err)
		return 1
	}

	return 0
}

func isHelp(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
