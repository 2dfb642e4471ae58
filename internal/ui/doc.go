// Package ui provides the Bubble Tea TUI for shelf.
//
// The Model is presentation only. It reads state.Snapshot values from the
// shared store and never decides between network and cache itself. User
// actions that touch the network or disk (forced refresh, retry, favourite
// toggles) run as tea.Cmds against the Synchronizer and FavouriteToggler
// interfaces. Their results come back as messages.
//
// Snapshots arrive two ways. watchCmd wakes on every store mutation, and a
// one second tick re-reads the store so relative ages like "cached 3m ago"
// stay current.
//
// # Layout
//
//	header       logo, sync status, counts, data age
//	banner       "You are offline. Showing cached products." (offline only)
//	command bar  short key help, transient notices, theme
//	content      product list | detail viewport
//
// Terminals at least LayoutSplitWidth wide show list and detail side by
// side. Narrower terminals show the detail full screen while it has focus.
//
// # Keys
//
//	/        search titles (enter applies, esc cancels)
//	c / C    next / previous category
//	v        favourites only
//	enter    focus detail
//	space/f  toggle favourite
//	r        forced refresh
//	R        retry after a failed load
//	l        tail of the log file
//	T        cycle theme (saved to prefs)
//	?        help
//	q        quit
package ui
