package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/dori/getitdone/internal/config"
)

// ConfigCmd returns the config command.
func ConfigCmd(s *session) *Command {
	flags := flag.NewFlagSet("config", flag.ContinueOnError)
	force := flags.BoolP("force", "f", false, "overwrite an existing file (init)")

	return &Command{
		Flags: flags,
		Usage: "config <init|show>",
		Short: "Write the default config file or print the effective config",
		Long: `config init writes a commented default config file to the --config path or
$XDG_CONFIG_HOME/getitdone/config.json. config show prints the effective
configuration after the file, .env, GETITDONE_* variables and flags.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return usageErrorf("expected: config init or config show")
			}

			switch args[0] {
			case "init":
				path := s.configPath
				if path == "" {
					path = config.DefaultPath(s.environ)
				}
				if path == "" {
					return usageErrorf("cannot locate the config directory, pass --config")
				}
				if err := config.WriteDefault(path, s.environ, *force); err != nil {
					return err
				}
				o.Println(path)
				return nil

			case "show":
				cfg, err := s.config()
				if err != nil {
					return err
				}
				if cfg.Source != "" {
					o.Printf("// loaded from %s\n", cfg.Source)
				}
				o.Printf("%s", config.Render(cfg))
				return nil

			default:
				return usageErrorf("unknown config subcommand %q", args[0])
			}
		},
	}
}
