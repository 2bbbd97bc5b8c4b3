package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	left   key.Binding
	right  key.Binding
	enter  key.Binding
	remove key.Binding
	next   key.Binding
	prev   key.Binding
	back   key.Binding
	build  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "less")),
		right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		remove: key.NewBinding(key.WithKeys("x", "backspace", "delete"), key.WithHelp("x", "remove")),
		next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		build:  key.NewBinding(key.WithKeys("enter", "p"), key.WithHelp("enter", "build playlist")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.enter, k.remove, k.next, k.prev},
		{k.back, k.build, k.quit},
	}
}
