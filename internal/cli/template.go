package cli

import (
	"context"
	"strings"

	"github.com/dori/getitdone/internal/model"
)

// TemplateCmd returns the template command.
func TemplateCmd(s *session) *Command {
	return &Command{
		Usage:   "template <add|del|show|run> ...",
		Aliases: []string{"tmpl"},
		Short:   "Manage and run stored queries",
		Long: `Stored queries over item_view (see "help sql").

  template add <name> <query...>   store a query; ? marks a parameter
  template del <name>...           delete templates
  template show [name...]          list templates as "[name] query"
  template run <name> [param...]   run a template; integer parameters bind
                                   as numbers, others as text

Example:
  getitdone template add open "WHERE completion < 100 OR completion IS NULL"
  getitdone template add due "WHERE deadline < ?"`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return usageErrorf("template subcommand is required")
			}
			sub, rest := args[0], args[1:]

			switch sub {
			case "add":
				return execTemplateAdd(ctx, s, rest)
			case "del", "delete", "rm":
				return execTemplateDel(ctx, s, rest)
			case "show", "ls", "list":
				return execTemplateShow(ctx, s, o, rest)
			case "run":
				return execTemplateRun(ctx, s, o, rest)
			default:
				return usageErrorf("unknown template subcommand %q", sub)
			}
		},
	}
}

func execTemplateAdd(ctx context.Context, s *session, args []string) error {
	if len(args) < 2 {
		return usageErrorf("template add needs a name and a query")
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}
	return store.AddTemplate(model.Template{Name: args[0], Query: strings.Join(args[1:], " ")})
}

func execTemplateDel(ctx context.Context, s *session, args []string) error {
	if len(args) == 0 {
		return usageErrorf("template del needs a name")
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}
	return store.DeleteTemplates(args...)
}

func execTemplateShow(ctx context.Context, s *session, o *IO, args []string) error {
	p, err := s.itemPrinter()
	if err != nil {
		return err
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}
	templates, err := store.ListTemplates(args...)
	if err != nil {
		return err
	}
	p.PrintTemplates(o, templates)
	return nil
}

func execTemplateRun(ctx context.Context, s *session, o *IO, args []string) error {
	if len(args) == 0 {
		return usageErrorf("template run needs a name")
	}
	p, err := s.itemPrinter()
	if err != nil {
		return err
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}
	items, err := store.RunTemplate(args[0], templateParams(args[1:])...)
	if err != nil {
		return err
	}
	p.PrintItems(o, items)
	return nil
}
