package render

import "git.home.luguber.info/inful/mdrender/internal/options"

// Alignment of a table column as declared by the delimiter row.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return ""
	}
}

// ListKind distinguishes ordered from unordered lists.
type ListKind int

const (
	Unordered ListKind = iota
	Ordered
)

func (k ListKind) String() string {
	if k == Ordered {
		return "ordered"
	}
	return "unordered"
}

// AutolinkKind tells URL autolinks from e-mail autolinks.
type AutolinkKind int

const (
	AutolinkURL AutolinkKind = iota
	AutolinkEmail
)

func (k AutolinkKind) String() string {
	if k == AutolinkEmail {
		return "email"
	}
	return "url"
}

// Renderer is the part of the capability set every renderer must provide.
// Options returns the Set the renderer was bound to; BindOptions is called
// once by the parser with the merged Set before any handler runs.
type Renderer interface {
	Options() options.Set
	BindOptions(options.Set)
}

// Factory builds a renderer for a Set. It is the "renderer type" form of the
// parse entry point.
type Factory func(options.Set) Renderer

// Block handlers. The content argument is already rendered.
type (
	BlockCodeHandler interface {
		BlockCode(code, lang string) string
	}
	BlockQuoteHandler interface {
		BlockQuote(content string) string
	}
	BlockHTMLHandler interface {
		BlockHTML(html string) string
	}
	HeaderHandler interface {
		Header(text string, level int) string
	}
	HRuleHandler interface {
		HRule() string
	}
	ListHandler interface {
		List(content string, kind ListKind) string
	}
	ListItemHandler interface {
		ListItem(content string, kind ListKind) string
	}
	ParagraphHandler interface {
		Paragraph(text string) string
	}
	TableHandler interface {
		Table(header, body string) string
	}
	TableRowHandler interface {
		TableRow(content string) string
	}
	FootnotesHandler interface {
		Footnotes(content string) string
	}
	FootnoteDefHandler interface {
		FootnoteDef(content string, num int) string
	}
)

// TableCellHandler is the two-argument table cell form.
type TableCellHandler interface {
	TableCell(content string, align Alignment) string
}

// HeaderTableCellHandler is the three-argument table cell form; header is
// true for cells of the header row. A type can only declare one of the two
// forms, so a renderer embedding *HTML that declares the two-argument form
// shadows the bundled three-argument one.
type HeaderTableCellHandler interface {
	TableCell(content string, align Alignment, header bool) string
}

// Span handlers. Returning ok == false declines the construct, which is then
// emitted as literal source text.
type (
	AutolinkHandler interface {
		Autolink(link string, kind AutolinkKind) (string, bool)
	}
	CodeSpanHandler interface {
		CodeSpan(code string) (string, bool)
	}
	DoubleEmphasisHandler interface {
		DoubleEmphasis(text string) (string, bool)
	}
	EmphasisHandler interface {
		Emphasis(text string) (string, bool)
	}
	TripleEmphasisHandler interface {
		TripleEmphasis(text string) (string, bool)
	}
	StrikethroughHandler interface {
		Strikethrough(text string) (string, bool)
	}
	SuperscriptHandler interface {
		Superscript(text string) (string, bool)
	}
	UnderlineHandler interface {
		Underline(text string) (string, bool)
	}
	HighlightHandler interface {
		Highlight(text string) (string, bool)
	}
	QuoteHandler interface {
		Quote(text string) (string, bool)
	}
	ImageHandler interface {
		Image(link, title, alt string) (string, bool)
	}
	LineBreakHandler interface {
		LineBreak() (string, bool)
	}
	LinkHandler interface {
		Link(link, title, content string) (string, bool)
	}
	RawHTMLHandler interface {
		RawHTML(tag string) (string, bool)
	}
	FootnoteRefHandler interface {
		FootnoteRef(num int) (string, bool)
	}
	// DanglingLinkRefHandler is consulted for every reference link whose
	// label has no definition. label is normalised.
	DanglingLinkRefHandler interface {
		DanglingLinkRef(label string) (string, bool)
	}
)

// Low level handlers.
type (
	NormalTextHandler interface {
		NormalText(text string) string
	}
	EntityHandler interface {
		Entity(entity string) string
	}
)

// Document hooks.
type (
	DocHeaderHandler interface {
		DocHeader() string
	}
	DocFooterHandler interface {
		DocFooter() string
	}
	// PreprocessHandler may return ok == false to make the whole render
	// produce nothing.
	PreprocessHandler interface {
		Preprocess(doc string) (string, bool)
	}
	PostprocessHandler interface {
		Postprocess(doc string) string
	}
	// Resetter is called before every document so renderers can drop state
	// collected for the previous one.
	Resetter interface {
		Reset()
	}
)
