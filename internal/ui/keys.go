package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the dashboard.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Data
	Refresh       key.Binding
	RefreshCities key.Binding

	// Cities
	AddCity    key.Binding
	RemoveCity key.Binding
	Left       key.Binding
	Right      key.Binding

	// City manager input
	Confirm  key.Binding
	Cancel   key.Binding
	Complete key.Binding
	Up       key.Binding
	Down     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("?", "help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "theme"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		RefreshCities: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh cities"),
		),

		AddCity: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add city"),
		),
		RemoveCity: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove city"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "select city"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "pick suggestion"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
		),
	}
}

// ShortHelp returns the footer bindings for the dashboard.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.AddCity, k.RemoveCity, k.Left, k.CycleTheme, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.RefreshCities},
		{k.AddCity, k.RemoveCity, k.Left},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

// inputKeys is the help.KeyMap shown while the city manager is open.
type inputKeys struct{ keyMap }

func (k inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Complete, k.Up, k.Cancel}
}

func (k inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
