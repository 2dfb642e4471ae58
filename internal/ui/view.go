package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
)

// renderMain renders header, optional offline banner, command bar and content.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if banner := m.renderOfflineBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) chromeHeight() int {
	h := 2 // header + command bar
	if m.snapshot.IsOfflineData {
		h++
	}
	return h
}

func (m Model) contentHeight() int {
	return max(m.height-m.chromeHeight(), 3)
}

func (m Model) splitLayout() bool {
	return m.width >= LayoutSplitWidth
}

// paneWidths returns the list and detail pane widths. A zero width hides the pane.
func (m Model) paneWidths() (list, detail int) {
	switch {
	case m.splitLayout():
		list = m.width * 55 / 100
		return list, m.width - list
	case m.detailFocused:
		return 0, m.width
	default:
		return m.width, 0
	}
}

func (m Model) searchLineVisible() bool {
	return m.searching || m.query != ""
}

// listRows is the number of product rows that fit in the list pane.
func (m Model) listRows() int {
	rows := m.contentHeight() - 2
	if m.searchLineVisible() {
		rows--
	}
	return max(rows, 1)
}

// renderContent renders the list and detail panes for the current layout.
func (m Model) renderContent() string {
	if m.showLogs {
		return m.renderLogs()
	}
	height := m.contentHeight()
	listWidth, detailWidth := m.paneWidths()

	var panes []string
	if listWidth > 0 {
		panes = append(panes, m.renderTitledBox(m.listTitle(), m.renderList(listWidth-2), listWidth, height, !m.detailFocused))
	}
	if detailWidth > 0 {
		panes = append(panes, m.renderTitledBox("Details", m.detail.View(), detailWidth, height, m.detailFocused))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m Model) listTitle() string {
	parts := []string{"Products", catalog.Label(m.category)}
	if m.favouritesOnly {
		parts = append(parts, heartMarker+" only")
	}
	return strings.Join(parts, " · ")
}

// renderList renders the search line and product rows, or a status message
// when there is nothing to list.
func (m Model) renderList(width int) string {
	styles := m.theme.Styles()
	var lines []string
	if m.searching {
		lines = append(lines, m.search.View())
	} else if m.query != "" {
		lines = append(lines, styles.AccentText.Render("/ "+m.query)+styles.FaintText.Render("  (esc to clear)"))
	}

	if msg := m.listPlaceholder(); msg != "" {
		lines = append(lines, "", msg)
		return strings.Join(lines, "\n")
	}

	items := m.visible()
	rows := m.listRows()
	cursor := clampIndex(m.cursor, len(items))
	offset := 0
	if cursor >= rows {
		offset = cursor - rows + 1
	}
	end := min(offset+rows, len(items))
	for i := offset; i < end; i++ {
		lines = append(lines, m.formatProductRow(items[i], width, i == cursor))
	}
	return strings.Join(lines, "\n")
}

// listPlaceholder returns the message shown instead of rows, if any.
func (m Model) listPlaceholder() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	switch {
	case snap.NeedsRetry():
		msg := "Could not load products."
		if snap.ProductsError != nil {
			msg = fmt.Sprintf("Could not load products: %v", snap.ProductsError)
		}
		return styles.DangerText.Render(msg) + "\n\n" + styles.MutedText.Render("Press R to retry")
	case len(snap.Products) == 0 && (snap.ProductsStatus == catalog.StatusLoading || snap.ProductsStatus == catalog.StatusIdle):
		return styles.MutedText.Render("Loading products...")
	case len(snap.Products) == 0:
		return styles.MutedText.Render("No products available")
	case len(m.visible()) == 0:
		if m.favouritesOnly {
			return styles.MutedText.Render("No favourites match")
		}
		return styles.MutedText.Render("No products match")
	}
	return ""
}

// formatProductRow formats "♥ Title  Category  $12.99" to fill width.
func (m Model) formatProductRow(p catalog.Product, width int, selected bool) string {
	styles := m.theme.Styles()

	heart := "  "
	if m.snapshot.Favourites.Contains(p.ID) {
		heart = heartMarker + " "
	}
	price := p.FormattedPrice()
	priceWidth := 10

	category := ""
	categoryWidth := 0
	if width >= LayoutCategoryWidth {
		categoryWidth = 16
		category = truncate(catalog.Label(p.Category), categoryWidth)
	}

	titleWidth := max(width-2-priceWidth-categoryWidth-2, 8)
	title := truncate(p.Title, titleWidth)

	if selected {
		line := heart + padRight(title, titleWidth) + " " + padRight(category, categoryWidth) + " " + padLeft(price, priceWidth)
		return styles.Selected.Width(width).Render(line)
	}
	return styles.HeartText.Render(heart) +
		styles.Text.Render(padRight(title, titleWidth)) + " " +
		styles.FaintText.Render(padRight(category, categoryWidth)) + " " +
		styles.AccentText.Render(padLeft(price, priceWidth))
}

// updateDetailViewport resizes the detail viewport and renders the selected
// product into it.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	_, detailWidth := m.paneWidths()
	if detailWidth == 0 {
		// Narrow layout with the detail pane hidden; size it for when it opens.
		detailWidth = m.width
	}
	m.detail.Width = max(detailWidth-4, 10)
	m.detail.Height = max(m.contentHeight()-2, 1)
	m.detail.SetContent(m.renderDetailContent(m.detail.Width))
}

func (m Model) renderDetailContent(width int) string {
	styles := m.theme.Styles()
	p, ok := m.selectedProduct()
	if !ok {
		return styles.MutedText.Render("Select a product")
	}

	var b strings.Builder
	for _, line := range wrapText(p.Title, width) {
		b.WriteString(styles.Text.Bold(true).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render(p.FormattedPrice()))
	b.WriteString(styles.FaintText.Render("  ·  "))
	b.WriteString(styles.MutedText.Render(catalog.Label(p.Category)))
	b.WriteString("\n")
	if m.snapshot.Favourites.Contains(p.ID) {
		b.WriteString(styles.HeartText.Render(heartMarker + " Favourite"))
	} else {
		b.WriteString(styles.FaintText.Render("Not a favourite (space to add)"))
	}
	b.WriteString("\n\n")
	for _, line := range wrapText(p.Description, width) {
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("#%d", p.ID)))
	if p.Image != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(truncate(p.Image, width)))
	}
	return b.String()
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor)).Background(lipgloss.Color(bgColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text)).Background(lipgloss.Color(bgColor))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := borderStyle.Render("┌"+strings.Repeat("─", leftPad)) +
		titleStyle.Render(" "+title+" ") +
		borderStyle.Render(strings.Repeat("─", rightPad)+"┐")
	bottom := borderStyle.Render("└" + strings.Repeat("─", innerWidth) + "┘")

	contentStyle := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Background(lipgloss.Color(bgColor))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)
	lines := make([]string, 0, boxHeight+2)
	lines = append(lines, top)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, borderStyle.Render("│")+contentStyle.Render(line)+borderStyle.Render("│"))
	}
	lines = append(lines, bottom)
	return strings.Join(lines, "\n")
}
