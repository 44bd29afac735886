package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/dori/getitdone/internal/config"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "dev"

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, in, out, errOut, args, env, defaultHooks())
}

type globalFlags struct {
	configPath string
	overrides  config.Overrides
	help       bool
	version    bool
	remaining  []string
}

// parseGlobalFlags parses the flags before the command name. Parsing stops
// at the first non-flag so item tokens such as -#tag reach the command.
func parseGlobalFlags(args []string) (globalFlags, *flag.FlagSet, error) {
	var g globalFlags

	fs := flag.NewFlagSet("getitdone", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&g.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/getitdone/config.json)")
	fs.StringVar(&g.overrides.DBPath, "db", "", "database file")
	fs.StringVar(&g.overrides.Driver, "driver", "", "sqlite driver: sqlite3 (cgo) or sqlite (pure Go)")
	fs.StringVar(&g.overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&g.overrides.Theme, "theme", "", "color theme")
	fs.StringVar(&g.overrides.Editor, "editor", "", "editor command for edit")
	fs.BoolVarP(&g.help, "help", "h", false, "show help")
	fs.BoolVarP(&g.version, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return globalFlags{}, fs, err
	}
	g.remaining = fs.Args()
	return g, fs, nil
}

func run(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string, env map[string]string, h hooks) int {
	if len(args) > 0 {
		args = args[1:]
	}

	g, fs, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		printUsage(errOut, fs, nil)
		return 2
	}

	o := NewIO(in, out, errOut)

	if g.version {
		o.Println("getitdone", Version)
		return 0
	}

	workDir, _ := os.Getwd()
	cfg, cfgErr := config.Load(config.LoadInput{
		ConfigPath: g.configPath,
		WorkDir:    workDir,
		Env:        env,
		Overrides:  g.overrides,
	})

	s := &session{
		cfg:        cfg,
		cfgErr:     cfgErr,
		environ:    env,
		configPath: g.configPath,
		log:        newLogger(cfg, cfgErr, errOut),
		out:        out,
		hooks:      h,
	}
	defer func() {
		if err := s.close(); err != nil {
			fmt.Fprintln(errOut, "error:", err)
		}
	}()

	cmds := commands(s, fs)

	if g.help || len(g.remaining) == 0 {
		printUsage(out, fs, cmds)
		return 0
	}

	return dispatch(ctx, o, cmds, g.remaining, fs)
}

func dispatch(ctx context.Context, o *IO, cmds []*Command, args []string, fs *flag.FlagSet) int {
	name := args[0]
	cmd := lookup(cmds, name)
	if cmd == nil {
		o.ErrPrintln("error: unknown command:", name)
		printUsage(o.errOut, fs, cmds)
		return 2
	}
	return cmd.Run(ctx, o, args[1:])
}

func lookup(cmds []*Command, name string) *Command {
	for _, c := range cmds {
		if c.Name() == name {
			return c
		}
		for _, a := range c.Aliases {
			if a == name {
				return c
			}
		}
	}
	return nil
}

// commands returns the command table in help order
func commands(s *session, fs *flag.FlagSet) []*Command {
	cmds := []*Command{
		AddCmd(s),
		GetCmd(s),
		UpdateCmd(s),
		EditCmd(s),
		DeleteCmd(s),
		SQLCmd(s),
		ArchiveCmd(s),
		TemplateCmd(s),
		TagsCmd(s),
		RemindCmd(s),
		BrowseCmd(s),
		ConfigCmd(s),
	}
	cmds = append(cmds, ShellCmd(s, cmds), VersionCmd())
	return append(cmds, HelpCmd(cmds, fs))
}

func printUsage(w io.Writer, fs *flag.FlagSet, cmds []*Command) {
	fmt.Fprintln(w, "Usage: getitdone [flags] <command> [args]")
	fmt.Fprintln(w)
	io.WriteString(w, "Item tokens: words form the title; #tag -#tag %completion -% !priority -! @date -@\n")
	if len(cmds) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Commands:")
		for _, c := range cmds {
			fmt.Fprintln(w, c.HelpLine())
		}
	}
	if fs != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		fs.SetOutput(w)
		fs.PrintDefaults()
		fs.SetOutput(io.Discard)
	}
}

// VersionCmd returns the version command.
func VersionCmd() *Command {
	return &Command{
		Usage: "version",
		Short: "Show version",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			o.Println("getitdone", Version)
			return nil
		},
	}
}

// HelpCmd returns the help command.
func HelpCmd(cmds []*Command, fs *flag.FlagSet) *Command {
	return &Command{
		Usage: "help [command]",
		Short: "Show help for a command",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				printUsage(o.out, fs, cmds)
				return nil
			}
			c := lookup(cmds, args[0])
			if c == nil {
				var names []string
				for _, c := range cmds {
					names = append(names, c.Name())
				}
				sort.Strings(names)
				return usageErrorf("unknown command %q (known: %s)", args[0], strings.Join(names, ", "))
			}
			c.PrintHelp(o.out)
			return nil
		},
	}
}
