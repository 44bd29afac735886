package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dori/getitdone/internal/db"
	"github.com/dori/getitdone/internal/model"
)

const tokensHelp = `Tokens:
  #tag     add a tag                -#tag   remove a tag (update only)
  %N       completion (0-100)       -%      clear completion
  !N       priority                 -!      clear priority
  @date    deadline                 -@      clear deadline
  other    words of the title

Dates: yy/mm/dd yyyy/mm/dd dd/mm/yyyy (also with -), yymmdd, yyyymmdd,
today, tomorrow, monday..sunday, nextweek.`

// AddCmd returns the add command.
func AddCmd(s *session) *Command {
	return &Command{
		Usage:   "add <title> [tokens]",
		Aliases: []string{"insert"},
		Short:   "Add an item and print its id",
		Long:    "Add an item. The free words form the title, which is required.\n\n" + tokensHelp,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execAdd(ctx, s, o, args)
		},
	}
}

func execAdd(ctx context.Context, s *session, o *IO, args []string) error {
	tok, err := ParseTokens(args, s.hooks.now())
	if err != nil {
		return err
	}
	if len(tok.RemoveTags) > 0 {
		return usageErrorf("tag removal only applies to update")
	}

	store, err := s.store(ctx)
	if err != nil {
		return err
	}

	item := tok.Item
	if len(tok.Words) > 0 {
		item.Title.Set(tok.Title())
	}
	item.Tags.Set(tok.AddTags...)

	id, err := store.AddItem(item)
	if err != nil {
		return err
	}
	o.Println(id)
	return nil
}

// GetCmd returns the get command.
func GetCmd(s *session) *Command {
	return &Command{
		Usage:   "get [tokens]",
		Aliases: []string{"print", "ls"},
		Short:   "List items matching the tokens",
		Long: `List items. Words match anywhere in the title, tags match items carrying
any of them, other tokens match exactly and their negations match items
without the value. Without tokens every item is listed.

` + tokensHelp,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execGet(ctx, s, o, args)
		},
	}
}

// criteriaFromArgs builds a search item from tokens
func criteriaFromArgs(s *session, args []string) (*model.Item, error) {
	tok, err := ParseTokens(args, s.hooks.now())
	if err != nil {
		return nil, err
	}
	if len(tok.RemoveTags) > 0 {
		return nil, usageErrorf("tag removal only applies to update")
	}

	criteria := tok.Item
	if len(tok.Words) > 0 {
		criteria.Title.Set(tok.Title())
	}
	if len(tok.AddTags) > 0 {
		criteria.Tags.Set(tok.AddTags...)
	}
	return criteria, nil
}

func execGet(ctx context.Context, s *session, o *IO, args []string) error {
	criteria, err := criteriaFromArgs(s, args)
	if err != nil {
		return err
	}

	p, err := s.itemPrinter()
	if err != nil {
		return err
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}

	items, err := store.QueryItems(criteria)
	if err != nil {
		return err
	}
	p.PrintItems(o, items)
	return nil
}

// UpdateCmd returns the update command.
func UpdateCmd(s *session) *Command {
	return &Command{
		Usage: "update <id> [tokens]",
		Short: "Change fields and tags of an item",
		Long: `Change an item. Only the given tokens are written; free words replace the
title. A tag may not be added and removed at once.

` + tokensHelp,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execUpdate(ctx, s, o, args)
		},
	}
}

func execUpdate(ctx context.Context, s *session, o *IO, args []string) error {
	tok, err := ParseTokens(args, s.hooks.now())
	if err != nil {
		return err
	}
	if len(tok.Words) == 0 {
		return model.Preconditionf("update requires an item id")
	}

	id, err := strconv.ParseInt(tok.Words[0], 10, 64)
	if err != nil || id <= 0 {
		return model.Preconditionf("update requires an item id, got %q", tok.Words[0])
	}

	patch := tok.Item
	if len(tok.Words) > 1 {
		patch.Title.Set(strings.Join(tok.Words[1:], " "))
	}

	p, err := s.itemPrinter()
	if err != nil {
		return err
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}

	item, err := store.EditItem(id, db.Modification{
		Patch:      patch,
		AddTags:    tok.AddTags,
		RemoveTags: tok.RemoveTags,
	})
	if err != nil {
		return err
	}
	p.PrintItems(o, []*model.Item{item})
	return nil
}

// EditCmd returns the edit command.
func EditCmd(s *session) *Command {
	return &Command{
		Usage: "edit <id>",
		Short: "Edit an item's description in $EDITOR",
		Long: `Open the item's description in the configured editor. Saving stores the
new text; quitting without saving leaves the item unchanged. An empty file
clears the description.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execEdit(ctx, s, o, args)
		},
	}
}

func execEdit(ctx context.Context, s *session, o *IO, args []string) error {
	if len(args) != 1 {
		return usageErrorf("edit takes exactly one item id")
	}
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	id := ids[0]

	p, err := s.itemPrinter()
	if err != nil {
		return err
	}
	store, err := s.store(ctx)
	if err != nil {
		return err
	}

	item, err := store.GetItem(id)
	if err != nil {
		return err
	}

	text, changed, err := editText(ctx, s.hooks.editor, s.cfg.Editor, item.Description.Value())
	if err != nil {
		return err
	}
	if !changed {
		o.ErrPrintln("description unchanged")
		return nil
	}

	patch := model.NewItem()
	if text = strings.TrimSpace(text); text == "" {
		patch.Description.Unset()
	} else {
		patch.Description.Set(text)
	}

	item, err = store.EditItem(id, db.Modification{Patch: patch})
	if err != nil {
		return err
	}
	p.PrintItems(o, []*model.Item{item})
	return nil
}

// DeleteCmd returns the delete command.
func DeleteCmd(s *session) *Command {
	return &Command{
		Usage:   "del <id>...",
		Aliases: []string{"delete", "rem", "remove"},
		Short:   "Archive and delete items",
		Long: `Move items to the archive. Ids are handled in order; the first unknown id
stops the command and leaves the remaining ids untouched.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return usageErrorf("at least one item id is required")
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			store, err := s.store(ctx)
			if err != nil {
				return err
			}
			return store.DeleteItems(ids...)
		},
	}
}

// SQLCmd returns the sql command.
func SQLCmd(s *session) *Command {
	return &Command{
		Usage: "sql <query>",
		Short: "Run a raw query against item_view",
		Long: `Run a query against item_view, which has the columns id, creation,
last_update, update_count, deadline, title, description, completion,
priority and tags (comma-joined). A fragment such as
"WHERE completion < 100 ORDER BY deadline" is appended to
"SELECT * FROM item_view"; a full SELECT or WITH query runs as is and must
return at least id and title. Dates are unix seconds.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				return usageErrorf("query is required")
			}

			p, err := s.itemPrinter()
			if err != nil {
				return err
			}
			store, err := s.store(ctx)
			if err != nil {
				return err
			}

			items, err := store.RawQuery(query)
			if err != nil {
				return err
			}
			p.PrintItems(o, items)
			return nil
		},
	}
}
