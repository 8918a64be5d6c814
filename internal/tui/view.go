package tui

import (
	"errors"
	"fmt"
	"strings"

	"tasky-cli/internal/summary"

	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.loading && len(m.board.Columns) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.spinner.View()+" Loading tasks...")
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	var body string
	switch m.mode {
	case modeSummary:
		body = m.renderSummaryPane(bodyH)
	default:
		body = renderColumns(m.board, columnsView{
			sel:     m.sel,
			dragID:  m.dragID,
			dropCol: m.dropCol,
			now:     m.now(),
			compact: m.height < 20,
		}, m.width, bodyH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *appModel) renderHeader() string {
	parts := []string{titleBarStyle.Render("tasky")}
	meta := fmt.Sprintf("group: %s · sort: %s", m.groupBy, orDash(m.sortBy))
	if m.showClosed {
		meta += " · closed shown"
	}
	if m.muted {
		meta += " · alerts muted"
	}
	parts = append(parts, styleMuted().Render(meta))
	if m.loading {
		parts = append(parts, m.spinner.View())
	}
	if m.bannerActive() {
		parts = append(parts, bannerStyle.Render(m.notification))
	}
	line := strings.Join(parts, "  ")
	return normalizePane(line, m.width, 1)
}

func (m *appModel) renderFooter() string {
	var lines []string
	if m.mode == modeSearch || m.search.Value() != "" {
		lines = append(lines, m.search.View())
	}
	switch {
	case m.err != nil:
		lines = append(lines, errorStyle.Render(m.err.Error()))
	case m.status != "":
		lines = append(lines, styleMuted().Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return normalizePane(strings.Join(lines, "\n"), m.width, 0)
}

func (m *appModel) renderSummaryPane(height int) string {
	title := titleBarStyle.Render("AI Summary")
	if m.summaryView.CacheBadge != "" {
		title += " " + styleMuted().Render(m.summaryView.CacheBadge)
	}
	if label, ok := m.summary.LastUpdated(m.ctx, m.now()); ok {
		title += "  " + styleMuted().Render("Last updated: "+label)
	}
	hint := styleMuted().Render("R regenerate · esc back · ↑/↓ scroll")
	m.pane.Height = max(height-2, 1)
	return normalizePane(strings.Join([]string{title, m.pane.View(), hint}, "\n"), m.width, height)
}

func (m *appModel) resizePane() {
	m.pane.Width = max(m.width, 1)
	m.pane.Height = max(m.height-6, 1)
}

// renderSummary refreshes the pane content from the last result.
func (m *appModel) renderSummary() {
	width := max(m.width-2, 20)
	var content string
	switch {
	case m.summaryBusy && !m.summaryReady:
		content = "Generating summary..."
	case m.summaryErr != nil:
		content = summaryErrorText(m.summaryErr)
	default:
		text := m.summaryView.Summary
		if text == "" {
			text = m.summaryView.HTML
		}
		content = summary.RenderTerminal(text, width, summary.MarkdownStyle())
	}
	if m.summaryBusy && m.summaryReady {
		content = styleMuted().Render("Regenerating...") + "\n\n" + content
	}
	m.pane.SetContent(content)
}

func summaryErrorText(err error) string {
	var f *summary.Failure
	if errors.As(err, &f) {
		if f.Hint == "" {
			return summary.PlainText(f.Title)
		}
		return summary.PlainText(f.Title) + "\n\n" + summary.PlainText(f.Hint)
	}
	return "❌ Error generating summary: " + err.Error()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
