// Package tui provides the interactive terminal dashboard and the forms used
// to log and update correspondence.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/registry"
	"github.com/Veraticus/moti-registry/internal/tui/themes"
)

// Source loads the register for the dashboard.
type Source interface {
	Dashboard(ctx context.Context) (registry.Summary, model.Table, error)
}

type registerLoadedMsg struct {
	table   model.Table
	summary registry.Summary
}

type loadFailedMsg struct {
	err error
}

// chromeHeight is the number of lines around the table: title, metrics,
// filter line, status line and help.
const chromeHeight = 12

// Dashboard shows the register metrics above a filterable table of records.
type Dashboard struct {
	ctx       context.Context
	source    Source
	err       error
	theme     themes.Theme
	keymap    KeyMap
	records   model.Table
	filtered  model.Table
	input     textinput.Model
	table     table.Model
	help      help.Model
	summary   registry.Summary
	width     int
	height    int
	loading   bool
	searching bool
	quitting  bool
}

// NewDashboard creates the dashboard model.
func NewDashboard(ctx context.Context, source Source, theme themes.Theme) Dashboard {
	t := table.New(
		table.WithColumns(columnsForWidth(120)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Search by Sender, Subject or Ref ID..."
	input.CharLimit = 80

	return Dashboard{
		ctx:     ctx,
		source:  source,
		theme:   theme,
		keymap:  DefaultKeyMap(),
		table:   t,
		input:   input,
		help:    help.New(),
		width:   120,
		height:  30,
		loading: true,
	}
}

// Init loads the register.
func (m Dashboard) Init() tea.Cmd {
	return m.load()
}

func (m Dashboard) load() tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		summary, table, err := source.Dashboard(ctx)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return registerLoadedMsg{summary: summary, table: table}
	}
}

// Update handles messages.
func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case registerLoadedMsg:
		m.loading = false
		m.err = nil
		m.summary = msg.summary
		m.records = msg.table
		m.applyFilter()
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}

		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Search):
			m.searching = true
			m.table.Blur()
			return m, m.input.Focus()
		case key.Matches(msg, m.keymap.ClearSearch):
			m.input.SetValue("")
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keymap.Refresh):
			m.loading = true
			return m, m.load()
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Dashboard) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ClearSearch):
		m.input.SetValue("")
		m.endSearch()
		m.applyFilter()
		return m, nil
	case key.Matches(msg, m.keymap.ApplySearch):
		m.endSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Dashboard) endSearch() {
	m.searching = false
	m.input.Blur()
	m.table.Focus()
}

// applyFilter narrows the table to records matching the current query. A
// blank query shows everything.
func (m *Dashboard) applyFilter() {
	if strings.TrimSpace(m.input.Value()) == "" {
		m.filtered = m.records
	} else {
		m.filtered = registry.Search(m.records, m.input.Value())
	}

	rows := make([]table.Row, len(m.filtered))
	for i, rec := range m.filtered {
		rows[i] = table.Row(rec.Cells())
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *Dashboard) resize() {
	m.table.SetColumns(columnsForWidth(m.width))
	m.table.SetWidth(m.width)

	chrome := chromeHeight
	if m.help.ShowAll {
		chrome += 5
	}
	m.table.SetHeight(max(5, m.height-chrome))
}

// Query returns the active filter text.
func (m Dashboard) Query() string {
	return m.input.Value()
}

// Visible returns the records currently shown.
func (m Dashboard) Visible() model.Table {
	return m.filtered
}

// SelectedRefID returns the ref id under the cursor.
func (m Dashboard) SelectedRefID() string {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// View renders the dashboard.
func (m Dashboard) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("📥 Directorate Overview"))
	b.WriteString("\n")
	b.WriteString(m.renderMetrics())
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(m.input.View())
	case m.input.Value() != "":
		b.WriteString(m.theme.StatusInfo.Render(fmt.Sprintf("Filter: %q (esc to clear)", m.input.Value())))
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(m.theme.StatusError.Render("✗ " + common.UserMessage(m.err)))
		b.WriteString("\n")
	case m.loading:
		b.WriteString(m.theme.Subtitle.Render("Loading register..."))
		b.WriteString("\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(fmt.Sprintf("Showing %d of %d records", len(m.filtered), len(m.records))))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))

	return b.String()
}

func (m Dashboard) renderMetrics() string {
	metric := func(label, value string) string {
		return m.theme.RoundedBox.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.Subtitle.Render(label),
			m.theme.MetricValue.Render(value),
		))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		metric("Total Received", strconv.Itoa(m.summary.Total)),
		metric("Pending Actions", strconv.Itoa(m.summary.Pending)),
		metric("Avg Turn Around (Days)", m.summary.AverageTATLabel()),
	)
}

// columnsForWidth sizes the register columns to the terminal.
func columnsForWidth(width int) []table.Column {
	available := max(100, width-22) // cell padding

	share := func(fraction float64, minimum int) int {
		return max(minimum, int(float64(available)*fraction))
	}

	return []table.Column{
		{Title: model.ColumnRefID, Width: share(0.11, 13)},
		{Title: model.ColumnDateReceived, Width: share(0.09, 10)},
		{Title: model.ColumnType, Width: share(0.07, 8)},
		{Title: model.ColumnClassification, Width: share(0.11, 10)},
		{Title: model.ColumnSender, Width: share(0.14, 10)},
		{Title: model.ColumnSubject, Width: share(0.18, 12)},
		{Title: model.ColumnAssignedTo, Width: share(0.1, 8)},
		{Title: model.ColumnStatus, Width: share(0.07, 11)},
		{Title: model.ColumnDateCompleted, Width: share(0.08, 10)},
		{Title: model.ColumnTATDays, Width: share(0.05, 5)},
	}
}
