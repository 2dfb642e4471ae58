package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// visibleProducts applies search, category and favourites-only filters.
func visibleProducts(items []catalog.Product, query, category string, favs catalog.FavouriteSet, favouritesOnly bool) []catalog.Product {
	out := catalog.Filter(items, query, category)
	if !favouritesOnly {
		return out
	}
	kept := out[:0]
	for _, p := range out {
		if favs.Contains(p.ID) {
			kept = append(kept, p)
		}
	}
	return kept
}

// cycleCategory returns the category step positions away from current,
// wrapping around. Unknown categories restart from the sentinel.
func cycleCategory(list catalog.CategoryList, current string, step int) string {
	if len(list) == 0 {
		return catalog.SentinelCategory
	}
	idx := -1
	for i, c := range list {
		if c == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list[0]
	}
	n := len(list)
	return list[((idx+step)%n+n)%n]
}

// hasCategory reports whether name is one of the known categories.
func hasCategory(list catalog.CategoryList, name string) bool {
	for _, c := range list {
		if c == name {
			return true
		}
	}
	return false
}

// ageLabel renders how long ago t was, e.g. "just now", "4m ago".
func ageLabel(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// clampIndex keeps idx within [0, n).
func clampIndex(idx, n int) int {
	if n <= 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// padLeft right-aligns a string within width.
func padLeft(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(r)) + s
}

// wrapText breaks text into lines of at most width runes on word boundaries.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}
	var lines []string
	line := ""
	for _, w := range words {
		switch {
		case line == "":
			line = w
		case len([]rune(line))+1+len([]rune(w)) <= width:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	return append(lines, line)
}
