package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// ArchiveCmd returns the archive command.
func ArchiveCmd(s *session) *Command {
	flags := flag.NewFlagSet("archive", flag.ContinueOnError)
	limit := flags.IntP("limit", "n", 20, "number of records, 0 for all")

	return &Command{
		Flags: flags,
		Usage: "archive [--limit N]",
		Short: "List deleted items, newest first",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			p, err := s.itemPrinter()
			if err != nil {
				return err
			}
			store, err := s.store(ctx)
			if err != nil {
				return err
			}

			records, err := store.ListArchive(*limit)
			if err != nil {
				return err
			}
			p.PrintArchive(o, records)
			return nil
		},
	}
}
