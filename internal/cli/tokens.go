package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/dori/getitdone/internal/model"
)

// Tokens is a tokenized command line. Item carries the value tokens
// (%, !, @ and their negations); tags and free words are kept apart because
// each command uses them differently.
type Tokens struct {
	Item       *model.Item
	Words      []string
	AddTags    []string
	RemoveTags []string
}

// Title joins the free words
func (t Tokens) Title() string {
	return strings.Join(t.Words, " ")
}

// ParseTokens splits every argument on whitespace and classifies the parts:
//
//	#tag   add tag          -#tag  remove tag
//	%N     completion       -%     clear completion
//	!N     priority         -!     clear priority
//	@date  deadline         -@     clear deadline
//
// Anything else is a word of the title.
func ParseTokens(args []string, now time.Time) (Tokens, error) {
	t := Tokens{Item: model.NewItem()}

	for _, arg := range splitArgs(args) {
		switch {
		case arg == "#" || arg == "-#":
			return Tokens{}, model.Validationf("empty tag")
		case strings.HasPrefix(arg, "#"):
			t.AddTags = appendUnique(t.AddTags, arg)
		case strings.HasPrefix(arg, "-#"):
			t.RemoveTags = appendUnique(t.RemoveTags, arg[1:])
		case arg == "-%":
			t.Item.Completion.Unset()
		case arg == "-!":
			t.Item.Priority.Unset()
		case arg == "-@":
			t.Item.Deadline.Unset()
		case strings.HasPrefix(arg, "%"):
			n, err := strconv.Atoi(arg[1:])
			if err != nil {
				return Tokens{}, model.Validationf("invalid completion: %s", arg)
			}
			t.Item.Completion.Set(n)
		case strings.HasPrefix(arg, "!"):
			n, err := strconv.Atoi(arg[1:])
			if err != nil {
				return Tokens{}, model.Validationf("invalid priority: %s", arg)
			}
			t.Item.Priority.Set(n)
		case strings.HasPrefix(arg, "@"):
			d, err := ParseDate(arg[1:], now)
			if err != nil {
				return Tokens{}, err
			}
			t.Item.Deadline.Set(d)
		default:
			t.Words = append(t.Words, arg)
		}
	}

	if err := model.ValidateTags(t.AddTags); err != nil {
		return Tokens{}, err
	}
	if err := model.ValidateTags(t.RemoveTags); err != nil {
		return Tokens{}, err
	}
	return t, nil
}

func splitArgs(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, strings.Fields(a)...)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// parseIDs converts every argument to an item id
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range splitArgs(args) {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, model.Validationf("invalid item id: %s", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// templateParams converts template run arguments: integers bind as
// integers, everything else as text.
func templateParams(args []string) []any {
	params := make([]any, 0, len(args))
	for _, a := range splitArgs(args) {
		if n, err := strconv.ParseInt(a, 10, 64); err == nil {
			params = append(params, n)
			continue
		}
		params = append(params, a)
	}
	return params
}
