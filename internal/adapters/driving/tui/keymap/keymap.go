// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back returns to the board.
	Back key.Binding

	// Up navigates up in the board.
	Up key.Binding

	// Down navigates down in the board.
	Down key.Binding

	// Inspect opens the detail view for the selected source.
	Inspect key.Binding

	// StaleOnly toggles the stale-only board filter.
	StaleOnly key.Binding

	// Reload refreshes the active view from the stores.
	Reload key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "inspect"),
		),
		StaleOnly: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stale only"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// ShortHelp returns the minimal keybinding list shown on the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// BoardHelp returns keybindings for the source board.
func (k *KeyMap) BoardHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Inspect, k.StaleOnly, k.Reload, k.Quit}
}

// DetailHelp returns keybindings for the source detail view.
func (k *KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.Back, k.Reload, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Inspect},
		{k.StaleOnly, k.Reload, k.Back},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
