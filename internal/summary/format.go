package summary

import (
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Formatter turns summary text into display HTML.
//
// Text that already contains markup is server-generated and passes through
// Sanitize (identity when nil). Anything else is escaped first and then
// enhanced with paragraph, list-item, heading and keyword markup.
type Formatter struct {
	Sanitize func(string) string
}

// StrictSanitizer keeps user-generated-content markup plus class attributes.
func StrictSanitizer() func(string) string {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p.Sanitize
}

var (
	tagLike       = regexp.MustCompile(`(?i)</?(div|p|span|strong|em|b|i|u|ul|ol|li|h[1-6]|br|hr|a|table|thead|tbody|tr|td|th|code|pre|blockquote)(\s[^<>]*)?/?>`)
	summaryPrefix = regexp.MustCompile(`(?i)^Summary:\s*`)
	paraSplit     = regexp.MustCompile(`\n\n+`)
	bulletLine    = regexp.MustCompile(`^\s*[-*•]\s+`)
	numberedLine  = regexp.MustCompile(`^\s*\d+[.)]\s+`)

	valueUrgent    = regexp.MustCompile(`(?i)high|urgent|critical`)
	valueMedium    = regexp.MustCompile(`(?i)medium|moderate`)
	valueLow       = regexp.MustCompile(`(?i)low|minor`)
	valueCompleted = regexp.MustCompile(`(?i)completed|done|finished`)
)

type highlight struct {
	re   *regexp.Regexp
	repl string
}

// Item lines match keywords at a leading word boundary only; paragraphs at both.
var (
	itemHighlights = []highlight{
		{regexp.MustCompile(`(?i)\b(\d+)\s+(tasks?|items?|tickets?)`), `<strong>${1} ${2}</strong>`},
		{regexp.MustCompile(`(?i)\b(urgent|critical|high priority|important)`), `<span class="highlight-urgent">${1}</span>`},
		{regexp.MustCompile(`(?i)\b(completed|done|finished|resolved)`), `<span class="highlight-completed">${1}</span>`},
		{regexp.MustCompile(`(?i)\b(pending|in progress|ongoing)`), `<span class="highlight-pending">${1}</span>`},
	}
	paragraphHighlights = []highlight{
		{regexp.MustCompile(`(?i)\b(\d+)\s+(tasks?|items?|tickets?)\b`), `<strong>${1} ${2}</strong>`},
		{regexp.MustCompile(`(?i)\b(urgent|critical|high priority|important)\b`), `<span class="highlight-urgent">${1}</span>`},
		{regexp.MustCompile(`(?i)\b(completed|done|finished|resolved)\b`), `<span class="highlight-completed">${1}</span>`},
		{regexp.MustCompile(`(?i)\b(pending|in progress|ongoing)\b`), `<span class="highlight-pending">${1}</span>`},
	}
)

const (
	emptySummary  = `<p class="empty-message">No summary available</p>`
	emptyContent  = `<p class="empty-message">No summary content</p>`
	itemOpen      = `<p class="summary-item" style="margin: 8px 0;">`
	headingMaxLen = 50
)

// IsHTML reports whether text already contains a complete HTML element tag.
func IsHTML(text string) bool {
	return tagLike.MatchString(text)
}

// FormatHTML formats with the identity sanitizer.
func FormatHTML(text string) string {
	return Formatter{}.Format(text)
}

func (f Formatter) Format(text string) string {
	if text == "" {
		return emptySummary
	}
	if IsHTML(text) {
		if f.Sanitize != nil {
			return f.Sanitize(text)
		}
		return text
	}

	escaped := summaryPrefix.ReplaceAllString(template.HTMLEscapeString(text), "")
	var b strings.Builder
	for _, para := range paraSplit.Split(escaped, -1) {
		lines := strings.Split(para, "\n")
		if isList(lines) {
			for _, line := range lines {
				writeItem(&b, line)
			}
			continue
		}
		if strings.TrimSpace(para) == "" {
			continue
		}
		if isHeading(para) {
			b.WriteString(`<h4 class="summary-heading">` + para + `</h4>`)
			continue
		}
		b.WriteString(`<p class="summary-paragraph">` + apply(paragraphHighlights, para) + `</p>`)
	}
	if b.Len() == 0 {
		return emptyContent
	}
	return b.String()
}

func isList(lines []string) bool {
	for _, l := range lines {
		if bulletLine.MatchString(l) || numberedLine.MatchString(l) {
			return true
		}
	}
	return false
}

// isHeading takes escaped text; a line with escaped characters is prose.
func isHeading(para string) bool {
	if utf8.RuneCountInString(para) >= headingMaxLen || strings.ContainsAny(para, ".&") {
		return false
	}
	return para[0] >= 'A' && para[0] <= 'Z'
}

func writeItem(b *strings.Builder, line string) {
	clean := bulletLine.ReplaceAllString(line, "")
	clean = strings.TrimSpace(numberedLine.ReplaceAllString(clean, ""))
	if clean == "" {
		return
	}
	key, value, isKV := strings.Cut(clean, ":")
	if !isKV {
		b.WriteString(itemOpen + apply(itemHighlights, clean) + `</p>`)
		return
	}
	value = strings.TrimSpace(value)
	b.WriteString(itemOpen + `<strong>` + key + `:</strong> ` + highlightValue(value) + `</p>`)
}

func highlightValue(v string) string {
	class := ""
	switch {
	case valueUrgent.MatchString(v):
		class = "highlight-urgent"
	case valueMedium.MatchString(v):
		class = "highlight-medium"
	case valueLow.MatchString(v):
		class = "highlight-low"
	case valueCompleted.MatchString(v):
		class = "highlight-completed"
	default:
		return v
	}
	return `<span class="` + class + `">` + v + `</span>`
}

func apply(hs []highlight, s string) string {
	for _, h := range hs {
		s = h.re.ReplaceAllString(s, h.repl)
	}
	return s
}
