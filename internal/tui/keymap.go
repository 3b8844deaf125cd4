package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/vodfall/internal/config"
)

// keyMap holds every binding the app reacts to. Single-letter action
// bindings are prefixed with the configured modifier.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Details     key.Binding
	Open        key.Binding
	Find        key.Binding
	Reload      key.Binding
	More        key.Binding
	Back        key.Binding
	Help        key.Binding
	Quit        key.Binding
	PrevEpisode key.Binding
	NextEpisode key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	b := cfg.Keys.Bindings
	mod := cfg.Keys.Modifier + "+"
	action := func(k string) string {
		if len(k) == 1 && cfg.Keys.Modifier != "" {
			return mod + k
		}
		return k
	}

	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),

		Details:     key.NewBinding(key.WithKeys(b.Details), key.WithHelp(b.Details, "details")),
		Open:        key.NewBinding(key.WithKeys(action(b.Open)), key.WithHelp(action(b.Open), "play")),
		Find:        key.NewBinding(key.WithKeys(action(b.Find), "/"), key.WithHelp(action(b.Find), "find")),
		Reload:      key.NewBinding(key.WithKeys(action(b.Reload)), key.WithHelp(action(b.Reload), "reload")),
		More:        key.NewBinding(key.WithKeys(action(b.More)), key.WithHelp(action(b.More), "more")),
		Back:        key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Help:        key.NewBinding(key.WithKeys(b.Help), key.WithHelp(b.Help, "help")),
		Quit:        key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
		PrevEpisode: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev episode")),
		NextEpisode: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next episode")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Details, k.Find, k.More, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Details, k.Open, k.PrevEpisode, k.NextEpisode},
		{k.Find, k.Reload, k.More, k.Back, k.Quit},
	}
}

func bindingHelp(bindings ...key.Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, strings.TrimSpace(h.Key)+": "+h.Desc)
	}
	return out
}
