package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Filters
	Month       key.Binding
	Type        key.Binding
	Category    key.Binding
	Subcategory key.Binding
	Search      key.Binding
	Reset       key.Binding

	// Actions
	Delete  key.Binding
	Confirm key.Binding
	Cancel  key.Binding

	// View modes
	ToggleView key.Binding
	ToggleHelp key.Binding

	// Application
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Month: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "month"),
		),
		Type: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),
		Subcategory: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "subcategory"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset filters"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("f", "tab"),
			key.WithHelp("f", "farming view"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Month, k.Type, k.Category, k.ToggleView, k.ToggleHelp, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Month, k.Type, k.Category, k.Subcategory},
		{k.Search, k.Reset, k.Delete},
		{k.ToggleView, k.ToggleHelp, k.Quit},
	}
}
