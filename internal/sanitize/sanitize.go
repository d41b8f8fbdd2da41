// Package sanitize cleans user-supplied rich-text descriptions before they
// are stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var tagPattern = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)

var (
	policy = newPolicy()
	strict = bluemonday.StrictPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "b", "em", "i", "u", "h1", "h2", "h3", "ul", "ol", "li", "span")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowStandardURLs()
	return p
}

// Description returns s reduced to the rich-text allowlist. Plain text keeps
// its line breaks as <br>.
func Description(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !tagPattern.MatchString(s) {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		s = strings.Join(lines, "<br>")
	}
	return policy.Sanitize(s)
}

// HasMarkup reports whether s looks like HTML rather than plain text.
func HasMarkup(s string) bool {
	return tagPattern.MatchString(s)
}

// PlainText strips all markup from a stored description for terminal output.
// Block boundaries become spaces.
func PlainText(s string) string {
	s = tagPattern.ReplaceAllStringFunc(s, func(tag string) string { return tag + " " })
	return strings.Join(strings.Fields(html.UnescapeString(strict.Sanitize(s))), " ")
}
