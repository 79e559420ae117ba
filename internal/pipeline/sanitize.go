package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// The only markup allowed back after escaping. Upstream calendar sources
// emit nothing else worth preserving; anything outside this set stays
// entity-escaped no matter what the description contains.
var (
	escapedBr        = regexp.MustCompile(`(?i)&lt;br/?&gt;`)
	escapedParaBreak = regexp.MustCompile(`(?i)&lt;/p&gt;\s*&lt;p&gt;`)
	escapedParaOpen  = regexp.MustCompile(`(?i)&lt;p&gt;`)
	escapedParaClose = regexp.MustCompile(`(?i)&lt;/p&gt;`)
)

// SanitizeDescription makes a free-text description safe for direct HTML
// embedding. The whole string is entity-escaped first, then the small
// whitelist of line-break and paragraph tags is un-escaped, then remaining
// newlines become <br>. Empty or all-whitespace input yields "".
func SanitizeDescription(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	out := html.EscapeString(s)
	out = escapedBr.ReplaceAllString(out, "<br>")
	out = escapedParaBreak.ReplaceAllString(out, "</p><p>")
	out = escapedParaOpen.ReplaceAllString(out, "<p>")
	out = escapedParaClose.ReplaceAllString(out, "</p>")
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\n", "<br>")
	return out
}
