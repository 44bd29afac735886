package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/getitdone/internal/db"
	"github.com/dori/getitdone/internal/model"
	"github.com/dori/getitdone/internal/ui/theme"
)

// Store is the part of the item store the browser uses
type Store interface {
	QueryItems(criteria *model.Item) ([]*model.Item, error)
	EditItem(id int64, mod db.Modification) (*model.Item, error)
	DeleteItems(ids ...int64) error
}

// Model is the browser: a table of the items matching a criteria item
type Model struct {
	store    Store
	criteria *model.Item
	keys     KeyMap
	help     help.Model
	table    table.Model
	items    []*model.Item
	width    int
	height   int

	themeName string
	styles    theme.Styles

	confirmDelete bool
	helpVisible   bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewModel creates a browser over the items matching criteria
func NewModel(store Store, criteria *model.Item, themeName string) Model {
	if criteria == nil {
		criteria = model.NewItem()
	}
	if _, ok := theme.ByName(themeName); !ok {
		themeName = theme.Nord.Name
	}

	h := help.New()
	h.ShowAll = false

	m := Model{
		store:     store,
		criteria:  criteria,
		keys:      DefaultKeyMap(),
		help:      h,
		themeName: themeName,
		table: table.New(
			table.WithColumns(columns(80)),
			table.WithFocused(true),
			table.WithHeight(10),
		),
	}
	m.applyTheme()
	return m
}

// Browse runs the browser until the user quits
func Browse(ctx context.Context, store Store, criteria *model.Item, themeName string, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(NewModel(store, criteria, themeName),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}

func columns(width int) []table.Column {
	fixed := 5 + 4 + 5 + 10 + 16
	title := width - fixed - 12
	if title < 10 {
		title = 10
	}
	return []table.Column{
		{Title: "id", Width: 5},
		{Title: "prio", Width: 4},
		{Title: "done", Width: 5},
		{Title: "deadline", Width: 10},
		{Title: "tags", Width: 16},
		{Title: "title", Width: title},
	}
}

func (m *Model) applyTheme() {
	t, _ := theme.ByName(m.themeName)
	m.styles = theme.NewStyles(nil, t)

	s := table.DefaultStyles()
	s.Header = m.styles.TableHeader
	s.Selected = m.styles.TableSelected
	m.table.SetStyles(s)

	m.help.Styles.ShortKey = m.styles.HelpKey
	m.help.Styles.ShortDesc = m.styles.HelpDesc
	m.help.Styles.ShortSeparator = m.styles.HelpSeparator
	m.help.Styles.FullKey = m.styles.HelpKey
	m.help.Styles.FullDesc = m.styles.HelpDesc
	m.help.Styles.FullSeparator = m.styles.HelpSeparator
}

func (m *Model) cycleTheme() {
	names := theme.Names()
	for i, n := range names {
		if n == m.themeName {
			m.themeName = names[(i+1)%len(names)]
			break
		}
	}
	m.applyTheme()
	m.statusMsg = "theme: " + m.themeName
}

func (m *Model) setItems(items []*model.Item) {
	m.items = items
	rows := make([]table.Row, len(items))
	for i, item := range items {
		f := FormatFields(item)
		rows[i] = table.Row{f.ID, f.Priority, f.Completion, f.Deadline, f.Tags, f.Title}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Items returns the items currently shown
func (m Model) Items() []*model.Item {
	return m.items
}

// Selected returns the item under the cursor, nil when the table is empty
func (m Model) Selected() *model.Item {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.items) {
		return nil
	}
	return m.items[c]
}

// Init loads the items
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	store, criteria := m.store, m.criteria
	return func() tea.Msg {
		items, err := store.QueryItems(criteria)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

func (m Model) edit(id int64, patch *model.Item) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		item, err := store.EditItem(id, db.Modification{Patch: patch})
		return ItemUpdatedMsg{Item: item, Err: err}
	}
}

func (m Model) archive(id int64) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		err := store.DeleteItems(id)
		return ItemsArchivedMsg{IDs: []int64{id}, Err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (1 line) and footer (2 lines)
		m.table.SetColumns(columns(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-4, 3))
		return m, nil

	case ItemsLoadedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.setItems(msg.Items)
		return m, nil

	case ItemUpdatedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("updated [%d]", msg.Item.ID)
		items := make([]*model.Item, len(m.items))
		copy(items, m.items)
		for i, it := range items {
			if it.ID == msg.Item.ID {
				items[i] = msg.Item
			}
		}
		m.setItems(items)
		return m, nil

	case ItemsArchivedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("archived %v", msg.IDs)
		return m, m.load()

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear status/error on any keypress
	m.statusMsg = ""
	m.errorMsg = ""

	if m.confirmDelete {
		m.confirmDelete = false
		if key.Matches(msg, m.keys.Confirm) {
			if item := m.Selected(); item != nil {
				return m, m.archive(item.ID)
			}
		}
		m.statusMsg = "cancelled"
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		m.help.ShowAll = m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.ThemeCycle):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()

	case key.Matches(msg, m.keys.Toggle):
		item := m.Selected()
		if item == nil {
			return m, nil
		}
		patch := model.NewItem()
		if item.IsDone() {
			patch.Completion.Unset()
		} else {
			patch.Completion.Set(100)
		}
		return m, m.edit(item.ID, patch)

	case key.Matches(msg, m.keys.PriorityUp), key.Matches(msg, m.keys.PriorityDown):
		item := m.Selected()
		if item == nil {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, m.keys.PriorityDown) {
			delta = -1
		}
		patch := model.NewItem()
		patch.Priority.Set(item.Priority.Value() + delta)
		return m, m.edit(item.ID, patch)

	case key.Matches(msg, m.keys.Delete):
		if item := m.Selected(); item != nil {
			m.confirmDelete = true
			m.statusMsg = fmt.Sprintf("archive [%d] %s? (y/n)", item.ID, item.Title.Value())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.table.View())

	// Status line
	switch {
	case m.errorMsg != "":
		sections = append(sections, m.styles.StatusError.Render(m.errorMsg))
	case m.statusMsg != "":
		sections = append(sections, m.styles.StatusBar.Render(m.statusMsg))
	default:
		sections = append(sections, "")
	}

	sections = append(sections, m.help.View(m.keys))
	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m Model) renderHeader() string {
	title := m.styles.Header.Render("getitdone")
	count := m.styles.Footer.Render(fmt.Sprintf("%d item(s)", len(m.items)))
	themeIndicator := m.styles.Footer.Render("theme: " + m.themeName)

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, count)
	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(themeIndicator)
	if gap < 1 {
		gap = 1
	}
	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}
