package db

import (
	"strings"

	"github.com/dori/getitdone/internal/model"
)

// viewQuery selects from the item/tag join every item query goes through
const viewQuery = `SELECT * FROM item_view`

// Predicate collects WHERE clauses and their bound arguments.
// Values are always passed as placeholders.
type Predicate struct {
	clauses []string
	args    []any
}

// Add appends a clause joined with AND
func (p *Predicate) Add(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

// Glob matches column against *value*
func (p *Predicate) Glob(column, value string) {
	p.Add(column+" GLOB ?", "*"+value+"*")
}

// Equal matches column exactly; a nil value matches NULL
func (p *Predicate) Equal(column string, value any) {
	if value == nil {
		p.Add(column + " IS NULL")
		return
	}
	p.Add(column+" = ?", value)
}

// In matches column against any of values
func (p *Predicate) In(column string, values ...string) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	p.Add(column+" IN ("+Placeholders(len(values))+")", args...)
}

// Empty reports whether no clause was added
func (p *Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// SQL renders "WHERE a AND b", or "" when empty
func (p *Predicate) SQL() string {
	if p.Empty() {
		return ""
	}
	return "WHERE " + strings.Join(p.clauses, " AND ")
}

// Args returns the bound arguments in clause order
func (p *Predicate) Args() []any {
	return p.args
}

// Assignments collects the SET list of an UPDATE
type Assignments struct {
	columns []string
	args    []any
}

// Set assigns value to column; nil stores NULL
func (a *Assignments) Set(column string, value any) {
	a.columns = append(a.columns, column+" = ?")
	a.args = append(a.args, value)
}

// Len returns the number of assigned columns
func (a *Assignments) Len() int {
	return len(a.columns)
}

// SQL renders "a = ?, b = ?"
func (a *Assignments) SQL() string {
	return strings.Join(a.columns, ", ")
}

// Args returns the bound values in column order
func (a *Assignments) Args() []any {
	return a.args
}

// Placeholders returns n comma-separated placeholders
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// criteria builds the search predicate from the modified fields of item.
// Text fields match as substrings, other fields exactly, cleared fields
// match NULL. Requested tags match items carrying at least one of them; an
// empty requested set matches untagged items.
func criteria(item *model.Item) *Predicate {
	p := &Predicate{}
	for _, f := range item.ModifiedFields() {
		switch {
		case f.Value == nil:
			p.Equal(f.Column, nil)
		case f.Text:
			p.Glob(f.Column, f.Value.(string))
		default:
			p.Equal(f.Column, f.Value)
		}
	}

	if item.Tags.IsModified() {
		tags := item.Tags.Get()
		if len(tags) == 0 {
			p.Add("id NOT IN (SELECT item_id FROM tags)")
		} else {
			in := &Predicate{}
			in.In("tag", tags...)
			p.Add("id IN (SELECT DISTINCT item_id FROM tags "+in.SQL()+")", in.Args()...)
		}
	}
	return p
}

// assignments builds the SET list from the modified scalar fields of item
func assignments(item *model.Item) *Assignments {
	a := &Assignments{}
	for _, f := range item.ModifiedFields() {
		a.Set(f.Column, f.Value)
	}
	return a
}
