package render

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

func escapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// escapeHref percent-encodes a destination for an attribute value.
func escapeHref(s string) string {
	return escapeHTML(string(util.URLEscape([]byte(s), false)))
}

var safePrefixes = []string{"http://", "https://", "ftp://", "mailto:", "/", "#"}

// IsSafeLink reports whether link uses a scheme considered safe to emit
// when safe_links_only is set.
func IsSafeLink(link string) bool {
	lower := strings.ToLower(link)
	for _, p := range safePrefixes {
		if !strings.HasPrefix(lower, p) {
			continue
		}
		if p == "/" || p == "#" {
			return true
		}
		if len(lower) > len(p) && util.IsAlphaNumeric(lower[len(p)]) {
			return true
		}
	}
	return false
}
