package render

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/options"
)

// TOC renders only a nested list of the document's headers. Its anchors
// match the ids HTML emits with with_toc_data.
type TOC struct {
	*HTML
	current int
	offset  int
}

// NewTOC returns a table of contents renderer bound to opts.
func NewTOC(opts options.Set) *TOC {
	return &TOC{HTML: NewHTML(opts)}
}

func (t *TOC) Reset() {
	t.HTML.Reset()
	t.current, t.offset = 0, 0
}

func (t *TOC) Header(text string, level int) string {
	var b strings.Builder
	if t.current == 0 {
		t.offset = level - 1
	}
	level -= t.offset
	if level < 1 {
		level = 1
	}

	switch {
	case level > t.current:
		for level > t.current {
			b.WriteString("<ul>\n<li>\n")
			t.current++
		}
	case level < t.current:
		b.WriteString("</li>\n")
		for level < t.current {
			b.WriteString("</ul>\n</li>\n")
			t.current--
		}
		b.WriteString("<li>\n")
	default:
		b.WriteString("</li>\n<li>\n")
	}

	id := t.anchors.unique(HeaderAnchor(text))
	fmt.Fprintf(&b, "<a href=\"#%s\">%s</a>\n", escapeHTML(id), text)
	return b.String()
}

func (t *TOC) DocFooter() string {
	var b strings.Builder
	for t.current > 0 {
		b.WriteString("</li>\n</ul>\n")
		t.current--
	}
	return b.String()
}

// Links inside header text are reduced to their content.
func (t *TOC) Link(_, _, content string) (string, bool) {
	return content, true
}

func (t *TOC) BlockCode(_, _ string) string             { return "" }
func (t *TOC) BlockQuote(string) string                 { return "" }
func (t *TOC) BlockHTML(string) string                  { return "" }
func (t *TOC) HRule() string                            { return "" }
func (t *TOC) List(string, ListKind) string             { return "" }
func (t *TOC) ListItem(string, ListKind) string         { return "" }
func (t *TOC) Paragraph(string) string                  { return "" }
func (t *TOC) Table(_, _ string) string                 { return "" }
func (t *TOC) TableRow(string) string                   { return "" }
func (t *TOC) TableCell(string, Alignment, bool) string { return "" }
func (t *TOC) Footnotes(string) string                  { return "" }
func (t *TOC) FootnoteDef(string, int) string           { return "" }
