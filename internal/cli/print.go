package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dori/getitdone/internal/model"
	"github.com/dori/getitdone/internal/ui"
	"github.com/dori/getitdone/internal/ui/theme"
)

// Printer renders items, templates and archive records one per line.
// Colors are only emitted when the output is a terminal.
type Printer struct {
	styles theme.Styles
	now    func() time.Time
}

// NewPrinter returns a printer for w using the named theme
func NewPrinter(w io.Writer, themeName string) (*Printer, error) {
	t, ok := theme.ByName(themeName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown theme %q (available: %s)", ErrUsage, themeName, strings.Join(theme.Names(), ", "))
	}
	return &Printer{
		styles: theme.NewStyles(lipgloss.NewRenderer(w), t),
		now:    time.Now,
	}, nil
}

// ItemFields returns the plain text columns of an item line
func ItemFields(item *model.Item) (id, prio, completion, deadline, tags, title string) {
	f := ui.FormatFields(item)
	return f.ID, f.Priority, f.Completion, f.Deadline, f.Tags, f.Title
}

// FormatItem renders "[id] prio completion deadline tags title"
func (p *Printer) FormatItem(item *model.Item) string {
	id, prio, completion, deadline, tags, title := ItemFields(item)
	s := p.styles

	overdue := item.IsOverdue(p.now())

	prio = s.PriorityStyle(item.Priority.Value()).Render(fmt.Sprintf("%3s", prio))

	completion = fmt.Sprintf("%-4s", completion)
	if item.IsDone() {
		completion = s.Done.Render(completion)
	} else {
		completion = s.Completion.Render(completion)
	}

	deadline = fmt.Sprintf("%-9s", deadline)
	titleStyle := s.Title
	switch {
	case item.IsDone():
		titleStyle = s.TitleDone
	case overdue:
		titleStyle = s.TitleOverdue
		deadline = s.Overdue.Render(deadline)
	default:
		deadline = s.Deadline.Render(deadline)
	}

	return fmt.Sprintf("[%s] %s %s %s %s %s",
		s.ID.Render(id), prio, completion, deadline, s.Tag.Render(tags), titleStyle.Render(title))
}

// PrintItems writes one line per item
func (p *Printer) PrintItems(o *IO, items []*model.Item) {
	for _, item := range items {
		o.Println(p.FormatItem(item))
	}
}

// PrintTemplates writes "[name] query" lines
func (p *Printer) PrintTemplates(o *IO, templates []model.Template) {
	for _, t := range templates {
		o.Printf("[%s] %s\n", p.styles.HelpKey.Render(fmt.Sprintf("%12s", t.Name)), t.Query)
	}
}

// PrintArchive writes archived items with their archive date
func (p *Printer) PrintArchive(o *IO, records []model.ArchiveRecord) {
	for _, r := range records {
		item := model.NewItem()
		item.ID = r.ItemID
		item.Title.Set(r.Title)
		if r.Completion != nil {
			item.Completion.Set(*r.Completion)
		}
		if r.Priority != nil {
			item.Priority.Set(*r.Priority)
		}
		if r.Deadline != nil {
			item.Deadline.Set(*r.Deadline)
		}
		item.Tags.Set(r.Tags...)

		archived := p.styles.Label.Render(r.ArchiveTime.Local().Format("2006-01-02"))
		o.Printf("%s %s\n", archived, p.FormatItem(item))
	}
}

// PrintTags writes "tag count" lines
func (p *Printer) PrintTags(o *IO, tags []model.TagCount) {
	for _, t := range tags {
		o.Printf("%s %d\n", p.styles.Tag.Render(fmt.Sprintf("%-20s", t.Tag)), t.Items)
	}
}
