package cli

import (
	"context"

	"github.com/dori/getitdone/internal/ui"
)

// BrowseCmd returns the browse command.
func BrowseCmd(s *session) *Command {
	return &Command{
		Usage:   "browse [tokens]",
		Aliases: []string{"ui"},
		Short:   "Browse matching items in a terminal table",
		Long: `Open an interactive table of the items matching the tokens, which work
as for get. Keys: x toggles done, +/- change priority, d archives,
r reloads, ctrl+t cycles the theme, ? shows all keys, q quits.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			criteria, err := criteriaFromArgs(s, args)
			if err != nil {
				return err
			}
			store, err := s.store(ctx)
			if err != nil {
				return err
			}
			return ui.Browse(ctx, store, criteria, s.cfg.Theme, o.in, o.out)
		},
	}
}
