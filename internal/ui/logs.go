package ui

import (
	"strings"

	"github.com/five82/shelf/internal/logtail"
)

// updateLogViewport sizes the log viewport to the content area and pins it to
// the newest line.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.Width = max(m.width-4, 10)
	m.logViewport.Height = max(m.contentHeight()-2, 1)
	m.logViewport.SetContent(m.renderLogContent())
	m.logViewport.GotoBottom()
}

func (m Model) renderLogs() string {
	title := "Log"
	if m.logPath != "" {
		title += " · " + m.logPath
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	switch {
	case m.logPath == "":
		return styles.MutedText.Render("Logging is not configured")
	case m.logErr != nil:
		return styles.DangerText.Render("Could not read log: " + m.logErr.Error())
	case len(m.logEntries) == 0:
		return styles.MutedText.Render("Log is empty")
	}

	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		var b strings.Builder
		if !e.Time.IsZero() {
			b.WriteString(styles.FaintText.Render(e.Time.Format("15:04:05")))
			b.WriteString(" ")
		}
		switch e.Level {
		case logtail.LevelError:
			b.WriteString(styles.DangerText.Render(e.Text))
		case logtail.LevelWarn:
			b.WriteString(styles.WarningText.Render(e.Text))
		default:
			b.WriteString(styles.Text.Render(e.Text))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
