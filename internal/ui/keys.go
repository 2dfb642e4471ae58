package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Catalog actions
	Search         key.Binding
	NextCategory   key.Binding
	PrevCategory   key.Binding
	FavouritesOnly key.Binding
	Detail         key.Binding
	Favourite      key.Binding
	Refresh        key.Binding
	Retry          key.Binding
	Logs           key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Search input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / clear"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Previous category"),
		),
		FavouritesOnly: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Favourites only"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Product detail"),
		),
		Favourite: key.NewBinding(
			key.WithKeys(" ", "f"),
			key.WithHelp("space/f", "Toggle favourite"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Retry: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Retry"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Log view"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply search"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextCategory, k.FavouritesOnly, k.Favourite, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Search, k.NextCategory, k.PrevCategory, k.FavouritesOnly, k.Detail, k.Favourite},
		{k.Refresh, k.Retry, k.Logs, k.CycleTheme, k.Escape, k.Help, k.Quit},
	}
}
