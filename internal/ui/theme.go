package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Unfocused panes
	FocusBg    string // Focused pane

	// Selection
	SelectionBg   string
	SelectionText string

	// Borders
	Border      string
	BorderFocus string

	// Text
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Favourite marker
	Heart string

	// Sync status colors keyed by catalog.SyncStatus.String()
	StatusColors map[string]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style
	HeartText   lipgloss.Style

	Header   lipgloss.Style
	Banner   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),
		HeartText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Heart)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Banner: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Warning)).
			Foreground(lipgloss.Color(t.Background)).
			Bold(true).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
	}
}

// WithBackground returns a copy of Styles whose text styles carry bgColor.
// Header, Banner and Selected keep their own backgrounds.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.HeartText = s.HeartText.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}

// StatusColor returns the color for a sync status, falling back to Muted.
func (t Theme) StatusColor(status string) string {
	if c, ok := t.StatusColors[status]; ok {
		return c
	}
	return t.Muted
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		SurfaceAlt: "#212e3f", // bg2
		FocusBg:    "#29394f", // bg3

		SelectionBg:   "#2b3b51", // sel0
		SelectionText: "#cdcecf", // fg1

		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf", // fg1
		Muted:   "#738091", // comment
		Faint:   "#71839b", // fg3
		Accent:  "#719cd6", // blue
		Success: "#81b29a", // green
		Warning: "#dbc074", // yellow
		Danger:  "#c94f6d", // red
		Info:    "#63cdcf", // cyan
		Heart:   "#d67ad2", // pink

		StatusColors: map[string]string{
			"idle":      "#738091",
			"loading":   "#63cdcf",
			"succeeded": "#81b29a",
			"failed":    "#c94f6d",
			"offline":   "#dbc074",
		},
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name: "Kanagawa",

		Background: "#16161D", // sumiInk0
		Surface:    "#1F1F28", // sumiInk3
		SurfaceAlt: "#2A2A37", // sumiInk4
		FocusBg:    "#2A2A37", // sumiInk4

		SelectionBg:   "#2D4F67", // waveBlue1
		SelectionText: "#DCD7BA", // fujiWhite

		Border:      "#54546D", // sumiInk6
		BorderFocus: "#7E9CD8", // crystalBlue

		Text:    "#DCD7BA", // fujiWhite
		Muted:   "#C8C093", // oldWhite
		Faint:   "#727169", // fujiGray
		Accent:  "#7E9CD8", // crystalBlue
		Success: "#98BB6C", // springGreen
		Warning: "#E6C384", // carpYellow
		Danger:  "#E46876", // waveRed
		Info:    "#7FB4CA", // springBlue
		Heart:   "#D27E99", // sakuraPink

		StatusColors: map[string]string{
			"idle":      "#727169",
			"loading":   "#7FB4CA",
			"succeeded": "#98BB6C",
			"failed":    "#E46876",
			"offline":   "#E6C384",
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		SurfaceAlt: "#1e293b", // slate-800
		FocusBg:    "#283548",

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50

		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Faint:   "#64748b", // slate-500
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500
		Info:    "#06b6d4", // cyan-500
		Heart:   "#f472b6", // pink-400

		StatusColors: map[string]string{
			"idle":      "#64748b",
			"loading":   "#38bdf8",
			"succeeded": "#22c55e",
			"failed":    "#dc2626",
			"offline":   "#f59e0b",
		},
	}
}
