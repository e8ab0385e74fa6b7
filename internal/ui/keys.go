package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Submit  key.Binding
	Up      key.Binding
	Down    key.Binding
	Dismiss key.Binding
	NextDay key.Binding
	PrevDay key.Binding
	Debug   key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
	Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
	Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	NextDay: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next day")),
	PrevDay: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev day")),
	Debug:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "debug")),
}
