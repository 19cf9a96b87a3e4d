package projector

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// DescriptionBudget is the per-field character budget that keeps a record under
// the index's per-document size limit.
const DescriptionBudget = 2500

var (
	richPolicy  = newRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("a", "p", "ul", "li")
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	return p
}

// SanitizeDescription keeps a, p, ul, li and href. If the result is over budget it
// falls back to plain text, capped at budget characters.
func SanitizeDescription(s string, budget int) string {
	if s == "" {
		return ""
	}
	rich := strings.TrimSpace(richPolicy.Sanitize(s))
	if utf8.RuneCountInString(rich) <= budget {
		return rich
	}
	return PlainText(s, budget)
}

// PlainText strips every tag and decodes entities, capped at budget characters.
func PlainText(s string, budget int) string {
	return truncate(strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s))), budget)
}

func truncate(s string, budget int) string {
	if budget <= 0 || utf8.RuneCountInString(s) <= budget {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:budget]))
}
