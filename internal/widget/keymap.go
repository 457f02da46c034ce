package widget

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the bindings the field handles before the textarea sees them.
type KeyMap struct {
	// Apply commits a pending edit without leaving the field. Most terminals
	// deliver Ctrl+Enter as ctrl+j; alt+enter is the fallback.
	Apply key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Apply: key.NewBinding(key.WithKeys("ctrl+j", "alt+enter"), key.WithHelp("ctrl+enter", "apply")),
	}
}

// KeyMapFromKeys builds a KeyMap with a custom apply binding. An empty list,
// or one equal to the default keys, keeps the default binding and its help.
func KeyMapFromKeys(apply []string) KeyMap {
	km := DefaultKeyMap()
	if len(apply) == 0 || slices.Equal(apply, km.Apply.Keys()) {
		return km
	}
	km.Apply = key.NewBinding(key.WithKeys(apply...), key.WithHelp(apply[0], "apply"))
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
