package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	dragLeft  key.Binding
	dragRight key.Binding
	release   key.Binding
	love      key.Binding
	pass      key.Binding
	cancel    key.Binding
	settings  key.Binding
	history   key.Binding
	back      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		dragLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "drag left")),
		dragRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "drag right")),
		release:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "release")),
		love:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "love it")),
		pass:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "pass")),
		cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		history:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "history")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.dragLeft, k.dragRight, k.release},
		{k.love, k.pass, k.cancel},
		{k.settings, k.history, k.quit},
	}
}
