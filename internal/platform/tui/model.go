package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/progress"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// toastSeconds is how long an event cue stays on screen.
const toastSeconds = 2

// progressReporter is implemented by games that expose session progress.
type progressReporter interface {
	Progress() progress.State
	RunSeed() int64
}

// abandoner is implemented by games that persist a run left unfinished.
type abandoner interface {
	Abandon() bool
}

// GameModel is the Bubble Tea model that drives one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper

	toast     string
	toastLeft int // Ticks until the toast is cleared

	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current game over has been saved
}

// NewGameModel creates a model for game. store may be nil.
func NewGameModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The viewport follows the screen size, so no reset is needed
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	back := m.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack
	if back && (m.gameState.GameOver || (m.gameState.Paused && msg.String() == "b")) {
		m.abandon()
		m.backToMenu = true
		return m, tea.Quit
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.abandon()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleTick runs one simulation step with the input gathered since the last tick.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	for _, ev := range result.Events {
		m.showEvent(ev)
	}
	if m.toastLeft > 0 {
		m.toastLeft--
		if m.toastLeft == 0 {
			m.toast = ""
		}
	}

	if m.gameState.GameOver && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}
	if !m.gameState.GameOver {
		m.runSaved = false
	}

	return m, tickCmd(m.config.TickRate)
}

// showEvent turns an outbound game event into a short on-screen cue.
func (m *GameModel) showEvent(ev core.Event) {
	var text string
	switch ev.Type {
	case core.EventAchievement:
		title := ev.Name
		if a, ok := progress.FindAchievement(ev.Name); ok {
			title = a.Title
		}
		text = fmt.Sprintf("* %s  +%d *", title, ev.Value)
	case core.EventAbility:
		text = fmt.Sprintf("%s %ds", ev.Name, ev.Value/1000)
	case core.EventShieldBreak:
		text = "Shield broken"
	default:
		return
	}
	m.toast = text
	m.toastLeft = toastSeconds * max(m.config.TickRate, 1)
}

// abandon persists the progress of a run the player walks away from.
func (m *GameModel) abandon() {
	if a, ok := m.game.(abandoner); ok && a.Abandon() {
		m.logger.Debug("unfinished run folded into progress", "mode", m.game.ID())
	}
}

// saveRun records the finished run. Failures are logged; the game goes on.
func (m *GameModel) saveRun() {
	if m.store == nil {
		return
	}

	entry := storage.RunEntry{
		Mode:     m.game.ID(),
		Seed:     m.config.Seed,
		Score:    m.gameState.Score,
		Distance: m.gameState.Distance,
	}
	if pr, ok := m.game.(progressReporter); ok {
		p := pr.Progress()
		entry.Seed = pr.RunSeed()
		entry.Duration = p.Elapsed
		entry.Items = p.ItemsCollected
		entry.MaxCombo = p.LongestCombo
	}

	id, err := m.store.SaveRun(entry)
	if err != nil {
		m.logger.Warn("could not save run", "mode", entry.Mode, "error", err)
		return
	}
	m.logger.Debug("run saved", "run", id, "mode", entry.Mode, "score", entry.Score)
}

// saveScreenshot writes the current screen as plain text under the user data directory.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.UserDataDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.toast != "" {
		x := (m.screen.Width() - len([]rune(m.toast))) / 2
		m.screen.DrawTextColored(x, 2, m.toast, core.ColorYellow)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// RunGame runs game in its own Bubble Tea program.
// Returns true if the user asked to go back to the menu.
func RunGame(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewGameModel(game, store, logger, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := final.(GameModel)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
