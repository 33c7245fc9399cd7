package render

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HeaderAnchor turns rendered header text into an id: tags are stripped,
// entities decoded, accents removed, and every run of characters other than
// letters and digits becomes a single dash.
func HeaderAnchor(text string) string {
	plain := html.UnescapeString(stripTags(text))

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, plain)
	if err != nil {
		folded = plain
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}

func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	in := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '<':
			in = true
		case c == '>' && in:
			in = false
		case !in:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// anchorSet de-duplicates ids within one document.
type anchorSet map[string]int

func (a anchorSet) unique(id string) string {
	n, seen := a[id]
	a[id] = n + 1
	if !seen {
		return id
	}
	return id + "-" + strconv.Itoa(n)
}
