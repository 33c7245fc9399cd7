package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdrender/internal/options"
)

func TestHTMLBlockCode(t *testing.T) {
	h := NewHTML(options.Of())
	assert.Equal(t, "<pre><code>a &amp; b\n</code></pre>\n", h.BlockCode("a & b\n", ""))
	assert.Equal(t, "<pre><code class=\"go\">x\n</code></pre>\n", h.BlockCode("x\n", "go"))
	assert.Equal(t, "<pre><code class=\"go extra\">x\n</code></pre>\n", h.BlockCode("x\n", ".go extra"))

	pretty := NewHTML(options.Of(options.Prettify))
	assert.Equal(t, "<pre><code class=\"prettyprint lang-go\">x\n</code></pre>\n", pretty.BlockCode("x\n", "go"))
}

func TestHTMLHeaderIDs(t *testing.T) {
	h := NewHTML(options.Of(options.WithTOCData))
	assert.Equal(t, "<h2 id=\"cafe-au-lait\">Café <em>au</em> lait</h2>\n", h.Header("Café <em>au</em> lait", 2))
	assert.Equal(t, "<h2 id=\"cafe-au-lait-1\">Café au lait</h2>\n", h.Header("Café au lait", 2))

	h.Reset()
	assert.Equal(t, "<h1 id=\"cafe-au-lait\">Café au lait</h1>\n", h.Header("Café au lait", 1))

	plain := NewHTML(options.Of())
	assert.Equal(t, "<h3>x</h3>\n", plain.Header("x", 3))
}

func TestHTMLBlockHTML(t *testing.T) {
	assert.Equal(t, "<div>x</div>\n", NewHTML(options.Of()).BlockHTML("\n<div>x</div>\n\n"))
	assert.Equal(t, "", NewHTML(options.Of(options.FilterHTML)).BlockHTML("<div>x</div>\n"))
	assert.Equal(t, "&lt;div&gt;\n", NewHTML(options.Of(options.EscapeHTML)).BlockHTML("<div>\n"))
}

func TestHTMLParagraph(t *testing.T) {
	h := NewHTML(options.Of())
	assert.Equal(t, "<p>a\nb</p>\n", h.Paragraph("a\nb"))
	assert.Equal(t, "", h.Paragraph("  \n"))

	wrap := NewHTML(options.Of(options.HardWrap, options.XHTML))
	assert.Equal(t, "<p>a<br/>\nb<br/>\nc</p>\n", wrap.Paragraph("a  \nb<br/>\nc"))
}

func TestHTMLTableCell(t *testing.T) {
	h := NewHTML(options.Of())
	assert.Equal(t, "<th>a</th>\n", h.TableCell("a", AlignNone, true))
	assert.Equal(t, "<td style=\"text-align: center\">a</td>\n", h.TableCell("a", AlignCenter, false))
}

func TestHTMLLinks(t *testing.T) {
	tests := []struct {
		name   string
		flags  []options.Flag
		link   string
		title  string
		want   string
		wantOK bool
	}{
		{name: "plain", link: "/x", want: `<a href="/x">c</a>`, wantOK: true},
		{name: "title", link: "/x", title: `a "b"`, want: `<a href="/x" title="a &quot;b&quot;">c</a>`, wantOK: true},
		{name: "no links", flags: []options.Flag{options.NoLinks}, link: "/x"},
		{name: "unsafe", flags: []options.Flag{options.SafeLinksOnly}, link: "javascript:x"},
		{name: "safe", flags: []options.Flag{options.SafeLinksOnly}, link: "https://x.org", want: `<a href="https://x.org">c</a>`, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NewHTML(options.Of(tt.flags...)).Link(tt.link, tt.title, "c")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHTMLAutolink(t *testing.T) {
	h := NewHTML(options.Of())

	got, ok := h.Autolink("http://x.org/?a=1&b=2", AutolinkURL)
	require.True(t, ok)
	assert.Equal(t, `<a href="http://x.org/?a=1&amp;b=2">http://x.org/?a=1&amp;b=2</a>`, got)

	got, ok = h.Autolink("mailto:me@x.org", AutolinkEmail)
	require.True(t, ok)
	assert.Equal(t, `<a href="mailto:me@x.org">me@x.org</a>`, got)

	_, ok = h.Autolink("", AutolinkURL)
	assert.False(t, ok)
}

func TestHTMLRawHTML(t *testing.T) {
	tests := []struct {
		flag options.Flag
		tag  string
		want string
	}{
		{flag: options.NoStyles, tag: "<style>", want: ""},
		{flag: options.NoStyles, tag: "<b>", want: "<b>"},
		{flag: options.NoLinks, tag: `<a href="/x">`, want: ""},
		{flag: options.NoLinks, tag: "</a>", want: ""},
		{flag: options.NoImages, tag: `<img src="x">`, want: ""},
		{flag: options.EscapeHTML, tag: "<b>", want: "&lt;b&gt;"},
		{flag: options.FilterHTML, tag: "<b>", want: ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.flag)+" "+tt.tag, func(t *testing.T) {
			got, ok := NewHTML(options.Of(tt.flag)).RawHTML(tt.tag)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTMLEntity(t *testing.T) {
	h := NewHTML(options.Of())
	assert.Equal(t, "&copy;", h.Entity("&copy;"))
	assert.Equal(t, "&#169;", h.Entity("&#169;"))
	assert.Equal(t, "&amp;bogus;", h.Entity("&bogus;"))
}

func TestHTMLEmptySpansDecline(t *testing.T) {
	h := NewHTML(options.Of())
	for _, f := range []func(string) (string, bool){
		h.Emphasis, h.DoubleEmphasis, h.TripleEmphasis, h.Strikethrough,
		h.Superscript, h.Underline, h.Highlight, h.Quote,
	} {
		_, ok := f("")
		assert.False(t, ok)
	}
}

func TestHTMLFootnotes(t *testing.T) {
	h := NewHTML(options.Of())
	ref, ok := h.FootnoteRef(2)
	require.True(t, ok)
	assert.Equal(t, `<sup id="fnref2"><a href="#fn2">2</a></sup>`, ref)
	assert.Equal(t, "\n<li id=\"fn2\">\n<p>n&nbsp;<a href=\"#fnref2\">&#8617;</a></p>\n</li>\n", h.FootnoteDef("<p>n</p>\n", 2))
}

func TestIsSafeLink(t *testing.T) {
	for link, want := range map[string]bool{
		"http://x.org":    true,
		"HTTPS://x.org":   true,
		"ftp://x":         true,
		"mailto:me@x.org": true,
		"/relative":       true,
		"#anchor":         true,
		"http://":         false,
		"javascript:x":    false,
		"data:text/html":  false,
	} {
		assert.Equal(t, want, IsSafeLink(link), link)
	}
}

func TestHeaderAnchor(t *testing.T) {
	tests := map[string]string{
		"Hello World":              "hello-world",
		"  Leading and trailing  ": "leading-and-trailing",
		"Crème brûlée":             "creme-brulee",
		"<code>x</code> &amp; y":   "x-y",
		"!!!":                      "section",
		"Ünïcödé 2":                "unicode-2",
	}
	for in, want := range tests {
		assert.Equal(t, want, HeaderAnchor(in), in)
	}
}

func TestLinksReset(t *testing.T) {
	l := NewLinks(options.Of())
	_, _ = l.Link("/a", "", "")
	_, ok := l.DanglingLinkRef("x")
	assert.False(t, ok)
	require.Len(t, l.Collected(), 2)

	l.Reset()
	assert.Empty(t, l.Collected())
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		f, err := Lookup(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f(options.Of()), name)
	}

	f, err := Lookup(" HTML ")
	require.NoError(t, err)
	_, isHTML := f(options.Of()).(*HTML)
	assert.True(t, isHTML)

	f, err = Lookup("")
	require.NoError(t, err)
	_, isHTML = f(options.Of()).(*HTML)
	assert.True(t, isHTML)

	_, err = Lookup("pdf")
	require.Error(t, err)
	assert.Equal(t, []string{"base", "html", "links", "toc"}, Names())
}
