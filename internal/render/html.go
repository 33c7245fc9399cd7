package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mdrender/internal/options"
)

// HTML renders HTML fragments. It honours the render flags of its bound Set.
type HTML struct {
	*Base
	anchors anchorSet
}

// NewHTML returns an HTML renderer bound to opts.
func NewHTML(opts options.Set) *HTML {
	return &HTML{Base: NewBase(opts), anchors: anchorSet{}}
}

// Reset drops the header ids collected for the previous document.
func (h *HTML) Reset() {
	h.anchors = anchorSet{}
}

func (h *HTML) closeTag() string {
	if h.Enabled(options.XHTML) {
		return "/>"
	}
	return ">"
}

func (h *HTML) BlockCode(code, lang string) string {
	var b strings.Builder
	classes := make([]string, 0, 2)
	if h.Enabled(options.Prettify) {
		classes = append(classes, "prettyprint")
	}
	for _, l := range strings.Fields(lang) {
		l = strings.TrimPrefix(l, ".")
		if l == "" {
			continue
		}
		if h.Enabled(options.Prettify) {
			l = "lang-" + l
		}
		classes = append(classes, escapeHTML(l))
	}
	if len(classes) > 0 {
		fmt.Fprintf(&b, "<pre><code class=\"%s\">", strings.Join(classes, " "))
	} else {
		b.WriteString("<pre><code>")
	}
	b.WriteString(escapeHTML(code))
	b.WriteString("</code></pre>\n")
	return b.String()
}

func (h *HTML) BlockQuote(content string) string {
	return "<blockquote>\n" + content + "</blockquote>\n"
}

func (h *HTML) BlockHTML(raw string) string {
	switch {
	case h.Enabled(options.FilterHTML):
		return ""
	case h.Enabled(options.EscapeHTML):
		return escapeHTML(raw)
	}
	trimmed := strings.Trim(raw, "\n")
	if trimmed == "" {
		return ""
	}
	return trimmed + "\n"
}

func (h *HTML) Header(text string, level int) string {
	if h.Enabled(options.WithTOCData) {
		id := h.anchors.unique(HeaderAnchor(text))
		return fmt.Sprintf("<h%d id=\"%s\">%s</h%d>\n", level, escapeHTML(id), text, level)
	}
	return fmt.Sprintf("<h%d>%s</h%d>\n", level, text, level)
}

func (h *HTML) HRule() string {
	return "<hr" + h.closeTag() + "\n"
}

func (h *HTML) List(content string, kind ListKind) string {
	tag := "ul"
	if kind == Ordered {
		tag = "ol"
	}
	return "<" + tag + ">\n" + content + "</" + tag + ">\n"
}

func (h *HTML) ListItem(content string, _ ListKind) string {
	return "<li>" + strings.TrimRight(content, "\n") + "</li>\n"
}

func (h *HTML) Paragraph(text string) string {
	text = strings.TrimLeft(text, " \t\n")
	if text == "" {
		return ""
	}
	if h.Enabled(options.HardWrap) {
		br := "<br" + h.closeTag()
		lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
		var b strings.Builder
		for i, line := range lines {
			line = strings.TrimRight(line, " ")
			b.WriteString(line)
			if i == len(lines)-1 {
				break
			}
			// an explicit line break already ended this line
			if !strings.HasSuffix(line, br) {
				b.WriteString(br)
			}
			b.WriteByte('\n')
		}
		text = b.String()
	}
	return "<p>" + text + "</p>\n"
}

func (h *HTML) Table(header, body string) string {
	return "<table><thead>\n" + header + "</thead><tbody>\n" + body + "</tbody></table>\n"
}

func (h *HTML) TableRow(content string) string {
	return "<tr>\n" + content + "</tr>\n"
}

func (h *HTML) TableCell(content string, align Alignment, header bool) string {
	tag := "td"
	if header {
		tag = "th"
	}
	style := ""
	if align != AlignNone {
		style = fmt.Sprintf(" style=\"text-align: %s\"", align)
	}
	return "<" + tag + style + ">" + content + "</" + tag + ">\n"
}

func (h *HTML) Footnotes(content string) string {
	return "<div class=\"footnotes\">\n<hr" + h.closeTag() + "\n<ol>\n" + content + "\n</ol>\n</div>\n"
}

func (h *HTML) FootnoteDef(content string, num int) string {
	backref := fmt.Sprintf("&nbsp;<a href=\"#fnref%d\">&#8617;</a>", num)
	if i := strings.LastIndex(content, "</p>"); i >= 0 {
		content = content[:i] + backref + content[i:]
	} else {
		content += backref
	}
	return fmt.Sprintf("\n<li id=\"fn%d\">\n%s</li>\n", num, content)
}

func (h *HTML) Autolink(link string, kind AutolinkKind) (string, bool) {
	if link == "" {
		return "", false
	}
	if h.Enabled(options.NoLinks) {
		return "", false
	}
	if h.Enabled(options.SafeLinksOnly) && kind != AutolinkEmail && !IsSafeLink(link) {
		return "", false
	}

	href := link
	if kind == AutolinkEmail && !strings.HasPrefix(strings.ToLower(link), "mailto:") {
		href = "mailto:" + link
	}
	text := link
	if kind == AutolinkEmail {
		text = strings.TrimPrefix(text, "mailto:")
	}
	return "<a href=\"" + escapeHref(href) + "\">" + escapeHTML(text) + "</a>", true
}

func (h *HTML) CodeSpan(code string) (string, bool) {
	return "<code>" + escapeHTML(code) + "</code>", true
}

func (h *HTML) DoubleEmphasis(text string) (string, bool) {
	return wrap("strong", text)
}

func (h *HTML) Emphasis(text string) (string, bool) {
	return wrap("em", text)
}

func (h *HTML) TripleEmphasis(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	return "<strong><em>" + text + "</em></strong>", true
}

func (h *HTML) Strikethrough(text string) (string, bool) {
	return wrap("del", text)
}

func (h *HTML) Superscript(text string) (string, bool) {
	return wrap("sup", text)
}

func (h *HTML) Underline(text string) (string, bool) {
	return wrap("u", text)
}

func (h *HTML) Highlight(text string) (string, bool) {
	return wrap("mark", text)
}

func (h *HTML) Quote(text string) (string, bool) {
	return wrap("q", text)
}

func wrap(tag, text string) (string, bool) {
	if text == "" {
		return "", false
	}
	return "<" + tag + ">" + text + "</" + tag + ">", true
}

func (h *HTML) Image(link, title, alt string) (string, bool) {
	if link == "" || h.Enabled(options.NoImages) {
		return "", false
	}
	if h.Enabled(options.SafeLinksOnly) && !IsSafeLink(link) {
		return "", false
	}
	var b strings.Builder
	b.WriteString("<img src=\"" + escapeHref(link) + "\" alt=\"" + escapeHTML(alt) + "\"")
	if title != "" {
		b.WriteString(" title=\"" + escapeHTML(title) + "\"")
	}
	b.WriteString(h.closeTag())
	return b.String(), true
}

func (h *HTML) LineBreak() (string, bool) {
	return "<br" + h.closeTag() + "\n", true
}

func (h *HTML) Link(link, title, content string) (string, bool) {
	if h.Enabled(options.NoLinks) {
		return "", false
	}
	if link != "" && h.Enabled(options.SafeLinksOnly) && !IsSafeLink(link) {
		return "", false
	}
	var b strings.Builder
	b.WriteString("<a href=\"" + escapeHref(link) + "\"")
	if title != "" {
		b.WriteString(" title=\"" + escapeHTML(title) + "\"")
	}
	b.WriteString(">" + content + "</a>")
	return b.String(), true
}

func (h *HTML) RawHTML(tag string) (string, bool) {
	if h.Enabled(options.EscapeHTML) {
		return escapeHTML(tag), true
	}
	if h.Enabled(options.FilterHTML) {
		return "", true
	}
	name := tagName(tag)
	switch {
	case h.Enabled(options.NoStyles) && name == "style",
		h.Enabled(options.NoLinks) && name == "a",
		h.Enabled(options.NoImages) && name == "img":
		return "", true
	}
	return tag, true
}

func (h *HTML) FootnoteRef(num int) (string, bool) {
	return fmt.Sprintf("<sup id=\"fnref%d\"><a href=\"#fn%d\">%d</a></sup>", num, num, num), true
}

func (h *HTML) NormalText(text string) string {
	return escapeHTML(text)
}

// Entity passes known character references through and escapes the
// ampersand of anything html does not recognise.
func (h *HTML) Entity(entity string) string {
	if html.UnescapeString(entity) == entity {
		return escapeHTML(entity)
	}
	return entity
}

// tagName returns the lower-cased element name of a raw tag, or "" when the
// fragment is not a start or end tag.
func tagName(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	switch z.Next() {
	case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
		name, _ := z.TagName()
		return string(name)
	}
	return ""
}
