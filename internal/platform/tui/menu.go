package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// MenuItem represents a selectable mode in the menu.
type MenuItem struct {
	Mode        string
	Title       string
	Description string
	Best        int
}

// MenuModel is the Bubble Tea model for the mode picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem // Set when user selects a mode
	openRecords bool      // True if user pressed Tab for records
}

// NewMenuModel creates a new menu model. store may be nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	modes := registry.List()
	items := make([]MenuItem, 0, len(modes))

	for _, mode := range modes {
		item := MenuItem{Mode: mode.ID, Title: mode.Title, Description: mode.Description}
		if store != nil {
			if best, err := store.HighScore(mode.ID); err == nil {
				item.Best = best
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionRecords:
		m.openRecords = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  R U N N E R  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a mode", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s", cursor, item.Title)
		if item.Best > 0 {
			line += fmt.Sprintf("  best %d", item.Best)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(dimStyle.Render(m.items[m.cursor].Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Up/Down: Navigate  |  Enter: Play  |  Tab: Records  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRecords returns true if user requested the records view.
func (m MenuModel) WantsRecords() bool {
	return m.openRecords
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Mode         string
	Config       core.RuntimeConfig
	WantsRecords bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsRecords():
		result.WantsRecords = true
	case m.Selected() != nil:
		result.Mode = m.Selected().Mode
	default:
		result.Quit = true
	}
	return result, nil
}
