package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutSplitWidth is the minimum width for the side-by-side detail pane.
	LayoutSplitWidth = 110

	// LayoutCategoryWidth is the minimum list pane width for the category column.
	LayoutCategoryWidth = 56
)

// Timing constants.
const (
	// DefaultUIInterval refreshes relative timestamps such as "cached 3m ago".
	DefaultUIInterval = time.Second

	// ActionTimeout bounds a user-triggered refresh or favourite toggle.
	ActionTimeout = 30 * time.Second

	// NoticeTTL is how long a transient notice stays in the command bar.
	NoticeTTL = 4 * time.Second
)

// LogTailLines is how many lines of the log file the log view keeps.
const LogTailLines = 400

const (
	offlineBannerText = "You are offline. Showing cached products."
	heartMarker       = "♥"
	logPrefix         = "shelf"
)
