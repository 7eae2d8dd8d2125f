package tui

import "github.com/charmbracelet/bubbles/key"

// Keyboard stand-ins for the control panel.
type keyMap struct {
	Page       key.Binding
	Abort      key.Binding
	Execute    key.Binding
	SliderUp   key.Binding
	SliderDown key.Binding
	Refresh    key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Page:       key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "page keys")),
		Abort:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "abort")),
		Execute:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "execute")),
		SliderUp:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "slider up")),
		SliderDown: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "slider down")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Page, k.Abort, k.Execute, k.SliderUp, k.SliderDown, k.Quit}
}
