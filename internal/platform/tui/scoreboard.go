package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-runner/internal/progress"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// Records layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the achievements sidebar
	sidebarWidth       = 28  // Width of the achievements sidebar
	maxRuns            = 100 // Max runs to load per tab
)

// allModes is the tab that lists runs of every mode.
const allModes = ""

// RecordsKeyMap defines the key bindings for the records view.
type RecordsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type recordsTab struct {
	mode  string
	title string
}

// RecordsModel shows the best runs per mode next to the progress record.
type RecordsModel struct {
	tabs        []recordsTab
	tabCursor   int
	store       *storage.Store
	record      progress.Record
	runs        []storage.RunEntry
	table       table.Model
	help        help.Model
	keys        RecordsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewRecordsModel creates a records view. store may be nil.
func NewRecordsModel(store *storage.Store, record progress.Record, width, height int) RecordsModel {
	tabs := []recordsTab{{mode: allModes, title: "All"}}
	for _, m := range registry.List() {
		tabs = append(tabs, recordsTab{mode: m.ID, title: m.Title})
	}

	h := help.New()
	h.ShowAll = false

	m := RecordsModel{
		tabs:        tabs,
		store:       store,
		record:      record,
		keys:        DefaultRecordsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

func (m *RecordsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Dist", Width: 7},
		{Title: "Time", Width: 6},
		{Title: "Items", Width: 5},
		{Title: "Combo", Width: 5},
		{Title: "Mode", Width: 6},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *RecordsModel) loadRuns() {
	m.runs = nil
	if m.store != nil {
		if runs, err := m.store.TopRuns(m.tabs[m.tabCursor].mode, maxRuns); err == nil {
			m.runs = runs
		}
	}
	m.updateTableRows()
}

func (m *RecordsModel) updateTableRows() {
	m.table.SetRows(runRows(m.runs))
	m.table.GotoTop()
}

// runRows formats runs as table rows, ranked in the given order.
func runRows(runs []storage.RunEntry) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%dm", int(r.Distance/10)),
			r.Duration.Round(time.Second).String(),
			fmt.Sprintf("%d", r.Items),
			fmt.Sprintf("%d", r.MaxCombo),
			r.Mode,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records view.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.tabCursor = (m.tabCursor + 1) % len(m.tabs)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.tabCursor = (m.tabCursor - 1 + len(m.tabs)) % len(m.tabs)
			m.loadRuns()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the records view.
func (m RecordsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.MarginBottom(1).Render(centerText("RECORDS", m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	runs := panel.Render(m.renderTableContent())

	if m.showSidebar {
		side := panel.Width(sidebarWidth).Render(m.renderAchievements())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, runs, "  ", side))
	} else {
		b.WriteString(centerText(runs, m.width))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m RecordsModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.tabCursor {
			tabs[i] = active.Render(tab.title)
		} else {
			tabs[i] = dimStyle.Render(" " + tab.title + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func (m RecordsModel) renderTableContent() string {
	if len(m.runs) == 0 {
		return dimStyle.Italic(true).Padding(2, 4).
			Render("No runs recorded yet.\nPlay a run to set a high score!")
	}
	return m.table.View()
}

// renderAchievements lists the persisted record: best score, lifetime
// stats and which achievements are unlocked.
func (m RecordsModel) renderAchievements() string {
	var b strings.Builder
	r := m.record

	fmt.Fprintf(&b, "Best score  %d\n", r.HighScore)
	fmt.Fprintf(&b, "Best time   %.0fs\n", r.Stats.BestTime)
	fmt.Fprintf(&b, "Top combo   %d\n", r.Stats.LongestCombo)
	fmt.Fprintf(&b, "Jumps       %d\n", r.Stats.TotalJumps)
	fmt.Fprintf(&b, "Deaths      %d\n\n", r.Stats.TotalDeaths)

	all := progress.Achievements()
	fmt.Fprintf(&b, "Achievements %d/%d\n", r.UnlockedCount(), len(all))
	for _, a := range all {
		mark := dimStyle.Render("-")
		title := dimStyle.Render(a.Title)
		if r.Unlocked(a.ID) {
			mark = titleStyle.Render("*")
			title = a.Title
		}
		fmt.Fprintf(&b, "%s %s\n", mark, title)
	}
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RecordsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RecordsModel) IsQuitting() bool {
	return m.quitting
}

// RunRecords runs the records view.
// Returns true if user wants to go back to menu, false if quitting.
func RunRecords(store *storage.Store, record progress.Record, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewRecordsModel(store, record, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := final.(RecordsModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
