package summary

import (
	"html"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
)

var (
	rendererMu sync.Mutex
	// Renderers are cached per style and width; building one is not cheap.
	renderers = map[string]*glamour.TermRenderer{}

	stripPolicy = bluemonday.StrictPolicy()
	blockEnd    = regexp.MustCompile(`(?i)</(p|h[1-6]|div|li|ul|ol)>|<br\s*/?>`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// RenderTerminal renders a summary for a terminal pane of the given width.
// Markup is reduced to plain text; plain text is rendered as markdown.
func RenderTerminal(text string, width int, style string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "No summary available"
	}
	if IsHTML(text) {
		return PlainText(text)
	}
	return renderMarkdown(text, width, style)
}

// PlainText strips markup, keeping block boundaries as line breaks.
func PlainText(markup string) string {
	s := blockEnd.ReplaceAllStringFunc(markup, func(m string) string { return m + "\n" })
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func renderMarkdown(md string, width int, style string) string {
	if width < 10 {
		width = 10
	}
	if style == "" {
		style = MarkdownStyle()
	}
	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	r := renderers[key]
	rendererMu.Unlock()
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		rendererMu.Lock()
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		rendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// MarkdownStyle picks the glamour standard style from TASKY_MD_STYLE, then
// TASKY_THEME, defaulting to dark.
func MarkdownStyle() string {
	for _, k := range []string{"TASKY_MD_STYLE", "TASKY_THEME"} {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
		case "light":
			return "light"
		case "dark":
			return "dark"
		}
	}
	return "dark"
}
