package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
)

const dueQuery = `WHERE deadline IS NOT NULL
	AND (completion IS NULL OR completion < 100)
	AND deadline <= ?
	ORDER BY deadline, id`

// RemindCmd returns the remind command.
func RemindCmd(s *session) *Command {
	flags := flag.NewFlagSet("remind", flag.ContinueOnError)
	within := flags.Duration("within", 0, "look-ahead window (default from config, 24h)")
	dryRun := flags.Bool("dry-run", false, "list due items without notifying")

	return &Command{
		Flags: flags,
		Usage: "remind [--within D] [--dry-run]",
		Short: "Notify about unfinished items due soon",
		Long: `List unfinished items whose deadline falls within the window, overdue items
included, and send a desktop notification (notify-send) for each. Suitable
for cron or a systemd timer.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unexpected arguments: %s", strings.Join(args, " "))
			}
			return execRemind(ctx, s, o, *within, *dryRun)
		},
	}
}

func execRemind(ctx context.Context, s *session, o *IO, within time.Duration, dryRun bool) error {
	if within < 0 {
		return usageErrorf("--within must not be negative")
	}
	if within == 0 {
		within = time.Duration(s.cfg.RemindWithin)
	}

	p, err := s.itemPrinter()
	if err != nil {
		return err
	}
	a, err := s.application(ctx)
	if err != nil {
		return err
	}

	now := s.hooks.now()
	items, err := a.DB.RawQuery(dueQuery, now.Add(within).Unix())
	if err != nil {
		return err
	}

	failed := 0
	for _, item := range items {
		o.Println(p.FormatItem(item))
		if dryRun {
			continue
		}
		dueIn := item.Deadline.Value().Sub(now)
		if err := a.Notifier.SendDueReminder(item.ID, item.Title.Value(), dueIn); err != nil {
			a.Log.Warnw("reminder not sent", "id", item.ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reminder(s) could not be sent", failed, len(items))
	}
	return nil
}
