package tui

import (
	"fmt"
	"strings"
	"time"

	"tasky-cli/internal/duedate"
	"tasky-cli/internal/model"
	"tasky-cli/internal/view"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// selection is the board cursor. TaskID keeps it stable across regrouping
// and reloads; Col/Item are the fallback when the task is gone.
type selection struct {
	Col    int
	Item   int
	TaskID string
}

func clampSelection(b view.Board[model.Task], sel selection) selection {
	if len(b.Columns) == 0 {
		return selection{Item: -1}
	}
	if ci, ii := b.ColumnIndex(sel.TaskID); ci >= 0 {
		sel.Col, sel.Item = ci, ii
		return sel
	}
	sel.TaskID = ""
	sel.Col = min(max(sel.Col, 0), len(b.Columns)-1)
	items := b.Columns[sel.Col].Items
	if len(items) == 0 {
		sel.Item = -1
		return sel
	}
	sel.Item = min(max(sel.Item, 0), len(items)-1)
	sel.TaskID = items[sel.Item].ID
	return sel
}

// columnsView is everything renderColumns needs besides the board itself.
type columnsView struct {
	sel     selection
	dragID  string // card being moved, "" when idle
	dropCol int    // highlighted target column while moving
	now     time.Time
	compact bool // one line per card
}

func renderColumns(b view.Board[model.Task], cv columnsView, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := len(b.Columns)
	if n == 0 {
		return normalizePane(styleMuted().Render("(no columns)"), width, height)
	}
	sel := clampSelection(b, cv.sel)

	gap := 2
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	colW := max(avail/n, 12)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg)
	headerSelectedStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	headerDropStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorDropTargetB)
	muted := styleMuted()

	itemStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	itemSelectedStyle := itemStyle.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	itemDraggedStyle := lipgloss.NewStyle().Width(colW-2).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorDragBorder).Padding(0, 1)
	innerW := max(colW-2, 0)

	renderCard := func(t model.Task, selected, dragged bool) string {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			title = "(untitled)"
		}
		var titleLines []string
		if cv.compact {
			titleLines = []string{truncateText(title, innerW)}
		} else {
			titleLines = wrapWords(title, innerW)
		}

		titleStyle := lipgloss.NewStyle().Bold(true)
		if selected {
			titleStyle = titleStyle.Foreground(colorSelectedFg).Background(colorSelectedBg)
		} else if t.IsClosed() {
			titleStyle = faintIfDark(lipgloss.NewStyle()).Foreground(colorMuted).Strikethrough(true)
		}

		content := make([]string, 0, len(titleLines)+1)
		for _, ln := range titleLines {
			content = append(content, titleStyle.Render(ln))
		}
		if !cv.compact {
			if meta := cardMeta(t, b.GroupBy, cv.now, innerW); meta != "" {
				content = append(content, meta)
			}
		}

		inner := normalizePane(strings.Join(content, "\n"), innerW, 0)
		switch {
		case dragged:
			return itemDraggedStyle.Render(normalizePane(strings.Join(content, "\n"), max(innerW-1, 0), 0))
		case selected:
			return itemSelectedStyle.Render(inner)
		default:
			return itemStyle.Render(inner)
		}
	}

	renderCol := func(ci int, c view.Column[model.Task]) string {
		head := truncateText(fmt.Sprintf("%s (%d)", c.Label, c.Count()), colW)
		hs := headerStyle
		switch {
		case cv.dragID != "" && ci == cv.dropCol:
			hs = headerDropStyle
		case ci == sel.Col:
			hs = headerSelectedStyle
		}
		lines := []string{hs.Width(colW).Render(head)}

		if len(c.Items) == 0 {
			lines = append(lines, muted.Render("(empty)"))
			return normalizePane(strings.Join(lines, "\n"), colW, height)
		}
		lines = append(lines, "")

		// Keep the selected card on screen in tall columns.
		start := 0
		if ci == sel.Col && height > 0 && sel.Item > 0 {
			perCard := 3
			if cv.compact {
				perCard = 2
			}
			if visible := (height - 2) / perCard; visible > 0 && sel.Item >= visible {
				start = sel.Item - visible + 1
			}
		}
		if start > 0 {
			lines = append(lines, muted.Render(fmt.Sprintf(" ↑ %d more", start)))
		}

		for i := start; i < len(c.Items); i++ {
			t := c.Items[i]
			card := renderCard(t, ci == sel.Col && i == sel.Item, t.ID == cv.dragID)
			lines = append(lines, strings.Split(card, "\n")...)
			if i < len(c.Items)-1 {
				sep := " " + strings.Repeat("─", max(colW-2, 0)) + " "
				lines = append(lines, muted.Render(sep))
			}
		}
		return normalizePane(strings.Join(lines, "\n"), colW, height)
	}

	rendered := make([]string, 0, n)
	for i, c := range b.Columns {
		rendered = append(rendered, renderCol(i, c))
	}
	out := rendered[0]
	sep := strings.Repeat(" ", gap)
	for i := 1; i < len(rendered); i++ {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, rendered[i])
	}
	return normalizePane(out, width, height)
}

// cardMeta is the secondary line of a card: due label and the fields the
// board is not grouped by.
func cardMeta(t model.Task, groupBy string, now time.Time, maxW int) string {
	var parts []string
	if d := strings.TrimSpace(t.FollowUpDate); d != "" {
		c := duedate.Classify(d, t.IsClosed(), now)
		switch {
		case c.Overdue:
			parts = append(parts, overdueStyle.Render(duedate.OverdueLabel(d, now)))
		case c.DueSoon:
			parts = append(parts, dueSoonStyle.Render(fmt.Sprintf("due in %dm", int(c.MinutesUntilDue+0.5))))
		default:
			parts = append(parts, metaStyle.Render(duedate.Format(d, now.Location())))
		}
	}
	if groupBy != "priority" && t.Priority != "" {
		parts = append(parts, metaStyle.Render(t.Priority))
	}
	if groupBy != "customer" && t.CustomerName != "" {
		parts = append(parts, metaStyle.Render(t.CustomerName))
	}
	if len(parts) == 0 {
		return ""
	}
	line := strings.Join(parts, metaStyle.Render(" · "))
	if xansi.StringWidth(line) > maxW {
		line = truncateText(line, maxW)
	}
	return line
}
