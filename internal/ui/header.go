package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	snap := m.snapshot
	now := m.now()
	sep := styles.FaintText.Render("  ")

	statusName := snap.ProductsStatus.String()
	if snap.IsOfflineData && snap.ProductsStatus == catalog.StatusSucceeded {
		statusName = "offline"
	}
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.StatusColor(statusName))).
		Padding(0, 1)

	parts := []string{
		styles.Logo.Render("shelf"),
		statusStyle.Render(strings.ToUpper(statusName)),
		styles.Text.Render(fmt.Sprintf("%d/%d products", len(m.visible()), len(snap.Products))),
		styles.HeartText.Render(fmt.Sprintf("%s %d", heartMarker, snap.Favourites.Len())),
	}

	switch {
	case snap.IsOfflineData:
		parts = append(parts, styles.WarningText.Render("cached "+ageLabel(snap.CachedAt, now)))
	case !snap.LastFetched.IsZero():
		parts = append(parts, styles.MutedText.Render("updated "+ageLabel(snap.LastFetched, now)))
	}
	if snap.CategoriesFromCache {
		parts = append(parts, styles.FaintText.Render("categories cached"))
	}
	if m.busy {
		parts = append(parts, styles.InfoText.Render("refreshing..."))
	}
	if snap.FavouritesStatus == catalog.StatusFailed {
		parts = append(parts, styles.DangerText.Render("favourites not saved"))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderOfflineBanner returns the full-width offline notice, or "" when the
// displayed products are live.
func (m Model) renderOfflineBanner() string {
	if !m.snapshot.IsOfflineData {
		return ""
	}
	text := offlineBannerText
	if !m.snapshot.CachedAt.IsZero() {
		text += " Cached " + ageLabel(m.snapshot.CachedAt, m.now()) + "."
	}
	return m.theme.Styles().Banner.Width(m.width).Render(text)
}

// renderCommandBar renders the short key help plus any transient notice.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText

	keys := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.snapshot.NeedsRetry() {
		keys = styles.AccentText.Render("R") + styles.MutedText.Render(" retry") + styles.FaintText.Render(" • ") + keys
	}
	segments := []string{keys}
	if m.notice != "" {
		segments = append(segments, styles.WarningText.Render(m.notice))
	}
	segments = append(segments, styles.AccentText.Render("T")+styles.FaintText.Render(":"+m.theme.Name))
	return styles.Header.Width(m.width).Render(strings.Join(segments, styles.FaintText.Render("  ")))
}
