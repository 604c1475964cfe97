// Package htmlsanitize strips markup from free-text fields (remarks, leave
// reasons, addresses) before they are stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every tag (and the content of script/style elements)
// and returns unescaped, trimmed text suitable for a JSON API.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextPtr applies PlainText to an optional field.
func PlainTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := PlainText(*s)
	return &out
}
