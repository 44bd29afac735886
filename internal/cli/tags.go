package cli

import (
	"context"
)

// TagsCmd returns the tags command.
func TagsCmd(s *session) *Command {
	return &Command{
		Usage: "tags [rename <from> <to>]",
		Short: "List tags with item counts, or rename a tag",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			store, err := s.store(ctx)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				if args[0] != "rename" || len(args) != 3 {
					return usageErrorf("expected: tags rename <from> <to>")
				}
				n, err := store.RenameTag(args[1], args[2])
				if err != nil {
					return err
				}
				o.Printf("renamed %s to %s on %d item(s)\n", args[1], args[2], n)
				return nil
			}

			p, err := s.itemPrinter()
			if err != nil {
				return err
			}
			tags, err := store.ListTags()
			if err != nil {
				return err
			}
			p.PrintTags(o, tags)
			return nil
		},
	}
}
