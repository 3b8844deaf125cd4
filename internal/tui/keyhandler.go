package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/vodfall/internal/config"
	"github.com/pders01/vodfall/internal/layout"
)

const maxFindQuery = 100

type KeyHandler struct {
	app         *App
	config      *config.Config
	keys        keyMap
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{
		app:         app,
		config:      cfg,
		keys:        newKeyMap(cfg),
		modifierKey: cfg.Keys.Modifier + "+",
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewFind && kh.app.findInput.Focused()
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		return kh.selectFindResult()
	case "down", "tab":
		kh.app.moveFindCursor(1)
		return kh.app, nil
	case "up", "shift+tab":
		kh.app.moveFindCursor(-1)
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// delegateToTextInput passes the key to the find input and schedules a
// debounced search when the query changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.findInput.Value()
	input, cmd := kh.app.findInput.Update(msg)
	kh.app.findInput = input

	if kh.app.findInput.Value() == prev {
		return kh.app, cmd
	}
	query := kh.sanitizeFindInput(kh.app.findInput.Value())
	return kh.app, tea.Batch(cmd, kh.app.scheduleFind(query))
}

func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, kh.keys.Help):
		kh.app.help.ShowAll = !kh.app.help.ShowAll
		kh.app.resize(kh.app.width, kh.app.height)
		return kh.app, nil, true
	case key.Matches(msg, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewGrid:
		return kh.handleGridCustomKeys(msg)
	case ViewDetail:
		return kh.handleDetailCustomKeys(msg)
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleGridCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Find):
		model, cmd := kh.enterFindMode()
		return model, cmd, true
	case key.Matches(msg, kh.keys.Reload):
		return kh.app, kh.app.reload(), true
	case key.Matches(msg, kh.keys.More):
		return kh.app, kh.app.requestMore(), true
	case key.Matches(msg, kh.keys.Details):
		return kh.app, kh.app.activateSelected(), true
	case key.Matches(msg, kh.keys.Open):
		return kh.app, kh.app.playSelected(), true
	case key.Matches(msg, kh.keys.Up):
		return kh.app, kh.app.moveCursor(layout.Up), true
	case key.Matches(msg, kh.keys.Down):
		return kh.app, kh.app.moveCursor(layout.Down), true
	case key.Matches(msg, kh.keys.Left):
		return kh.app, kh.app.moveCursor(layout.Left), true
	case key.Matches(msg, kh.keys.Right):
		return kh.app, kh.app.moveCursor(layout.Right), true
	case key.Matches(msg, kh.keys.Top):
		kh.app.viewport.GotoTop()
		return kh.app, kh.app.scheduleScrollCheck(), true
	case key.Matches(msg, kh.keys.Bottom):
		kh.app.viewport.GotoBottom()
		return kh.app, kh.app.scheduleScrollCheck(), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Open), key.Matches(msg, kh.keys.Details):
		return kh.app, kh.app.playEpisode(), true
	case key.Matches(msg, kh.keys.NextEpisode):
		return kh.app, kh.app.stepEpisode(1), true
	case key.Matches(msg, kh.keys.PrevEpisode):
		return kh.app, kh.app.stepEpisode(-1), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch kh.app.view {
	case ViewGrid:
		before := kh.app.viewport.YOffset
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		if kh.app.viewport.YOffset != before {
			return kh.app, tea.Batch(cmd, kh.app.scheduleScrollCheck())
		}
	case ViewDetail:
		kh.app.detailViewport, cmd = kh.app.detailViewport.Update(msg)
	}
	return kh.app, cmd
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewFind:
		kh.app.findInput.Blur()
		kh.app.findInput.SetValue("")
		kh.app.clearFind()
		kh.app.view = ViewGrid
	case ViewDetail:
		kh.app.page = nil
		kh.app.view = kh.app.previousView
		if kh.app.view == ViewDetail {
			kh.app.view = ViewGrid
		}
	case ViewGrid:
		if kh.app.help.ShowAll {
			kh.app.help.ShowAll = false
			kh.app.resize(kh.app.width, kh.app.height)
		}
	}
	return kh.app, nil
}

func (kh *KeyHandler) enterFindMode() (tea.Model, tea.Cmd) {
	if kh.app.grid.Len() == 0 {
		return kh.app, kh.app.setStatus(MsgNoMatches, StatusWarn)
	}
	kh.app.previousView = kh.app.view
	kh.app.view = ViewFind
	kh.app.findInput.SetValue("")
	kh.app.clearFind()
	return kh.app, kh.app.findInput.Focus()
}

func (kh *KeyHandler) selectFindResult() (tea.Model, tea.Cmd) {
	result, ok := kh.app.currentFindResult()
	if !ok {
		return kh.app, nil
	}
	kh.app.findInput.Blur()
	kh.app.view = ViewGrid
	cmd := kh.app.selectCard(result.Card)
	kh.app.clearFind()
	return kh.app, cmd
}

// sanitizeFindInput trims whitespace, strips control characters and bounds
// the query length.
func (kh *KeyHandler) sanitizeFindInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)
	if r := []rune(input); len(r) > maxFindQuery {
		input = string(r[:maxFindQuery])
	}
	return input
}

func (kh *KeyHandler) GetHelpForCurrentView() []string {
	k := kh.keys
	switch kh.app.view {
	case ViewGrid:
		return bindingHelp(k.Details, k.Open, k.Find, k.More, k.Reload, k.Help, k.Quit)
	case ViewDetail:
		return bindingHelp(k.Open, k.PrevEpisode, k.NextEpisode, k.Back)
	case ViewFind:
		return []string{"enter: jump", "↑/↓: select", "esc: cancel"}
	default:
		return nil
	}
}
