package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/kingrea/draftfield/internal/widget"
)

type appKeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Quit  key.Binding
	Clear key.Binding
	field widget.KeyMap
}

func newAppKeyMap(field widget.KeyMap) appKeyMap {
	return appKeyMap{
		Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Clear: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear cache")),
		field: field,
	}
}

func (k appKeyMap) ShortHelp() []key.Binding {
	return append(k.field.ShortHelp(), k.Next, k.Prev, k.Clear, k.Quit)
}

func (k appKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
