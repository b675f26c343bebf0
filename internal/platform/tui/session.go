package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/progress"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewRecords
)

// SessionModel manages the full session flow: menu, game, records and back.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store     *storage.Store
	env       registry.Env
	config    core.RuntimeConfig
	view      sessionView
	menu      MenuModel
	gameModel *GameModel
	records   *RecordsModel
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, env registry.Env, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		store:  store,
		env:    env,
		config: cfg,
		menu:   NewMenuModel(store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewRecords:
		return m.updateRecords(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.gameModel = nil
	m.records = nil
	m.menu = NewMenuModel(m.store, m.config)
	return m, m.menu.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsRecords():
		record, err := progress.LoadRecord(m.env.Store)
		if err != nil && m.env.Logger != nil {
			m.env.Logger.Warn("could not load progress record", "error", err)
		}
		records := NewRecordsModel(m.store, record, m.config.ScreenW, m.config.ScreenH)
		m.records = &records
		m.view = viewRecords
		return m, m.records.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().Mode, m.env)
		if err != nil {
			return m, nil
		}
		m.config = m.menu.Config()
		m.config.Seed = time.Now().UnixNano()

		gameModel := NewGameModel(game, m.store, m.env.Logger, m.config)
		m.gameModel = &gameModel
		m.view = viewGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		return m.backToMenu()
	}
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.records.Update(msg)
	if records, ok := newModel.(RecordsModel); ok {
		m.records = &records
	}

	if m.records.IsGoingBack() {
		return m.backToMenu()
	}
	if m.records.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.gameModel.View()
	case viewRecords:
		return m.records.View()
	}
	return m.menu.View()
}
