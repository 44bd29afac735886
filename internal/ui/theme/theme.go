package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for listings and the browser
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Priority colors
	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color
	PriorityUrgent lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	// Item line components
	ID           lipgloss.Style
	Title        lipgloss.Style
	TitleDone    lipgloss.Style
	TitleOverdue lipgloss.Style
	Tag          lipgloss.Style
	Deadline     lipgloss.Style
	Overdue      lipgloss.Style
	Completion   lipgloss.Style
	Done         lipgloss.Style
	Label        lipgloss.Style

	// Priority levels, lowest first
	Priority [4]lipgloss.Style

	// Help
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	// Browser
	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style
	Panel         lipgloss.Style
	StatusBar     lipgloss.Style
	StatusError   lipgloss.Style
}

// NewStyles creates styles from a theme. The renderer decides whether
// colors are emitted; a nil renderer uses lipgloss's default.
func NewStyles(r *lipgloss.Renderer, t Theme) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	style := r.NewStyle

	return Styles{
		Header: style().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: style().
			Foreground(t.Subtle).
			Padding(0, 1),

		ID: style().
			Foreground(t.Subtle),

		Title: style().
			Foreground(t.Foreground),

		TitleDone: style().
			Foreground(t.Subtle).
			Strikethrough(true),

		TitleOverdue: style().
			Foreground(t.Error),

		Tag: style().
			Foreground(t.Info),

		Deadline: style().
			Foreground(t.Warning),

		Overdue: style().
			Foreground(t.Error).
			Bold(true),

		Completion: style().
			Foreground(t.Secondary),

		Done: style().
			Foreground(t.Success),

		Label: style().
			Foreground(t.Subtle),

		Priority: [4]lipgloss.Style{
			style().Foreground(t.PriorityLow),
			style().Foreground(t.PriorityMedium),
			style().Foreground(t.PriorityHigh).Bold(true),
			style().Foreground(t.PriorityUrgent).Bold(true),
		},

		HelpKey: style().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: style().
			Foreground(t.Subtle),

		HelpSeparator: style().
			Foreground(t.Border),

		TableHeader: style().
			Foreground(t.Primary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			BorderBottom(true),

		TableSelected: style().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Bold(true),

		Panel: style().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		StatusBar: style().
			Foreground(t.Subtle).
			Padding(0, 1),

		StatusError: style().
			Foreground(t.Error).
			Padding(0, 1),
	}
}

// PriorityStyle maps an item priority onto the four priority levels
func (s Styles) PriorityStyle(p int) lipgloss.Style {
	switch {
	case p >= 3:
		return s.Priority[3]
	case p == 2:
		return s.Priority[2]
	case p == 1:
		return s.Priority[1]
	default:
		return s.Priority[0]
	}
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// Names returns the sorted theme names
func Names() []string {
	var names []string
	for _, t := range Available() {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
