package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	submit  key.Binding
	history key.Binding
	back    key.Binding
	again   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create note")),
		history: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		again:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.submit, k.history, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.submit, k.history},
		{k.back, k.again, k.quit},
	}
}
