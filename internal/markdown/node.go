package markdown

import (
	"sort"
	"strconv"
	"strings"
)

// Construct names a recognised syntactic unit.
type Construct int

const (
	// block constructs
	ConstructParagraph Construct = iota
	ConstructHeader
	ConstructList
	ConstructListItem
	ConstructBlockQuote
	ConstructBlockCode
	ConstructTable
	ConstructTableRow
	ConstructTableCell
	ConstructHRule
	ConstructBlockHTML
	ConstructFootnotes
	ConstructFootnoteDef

	// span constructs
	ConstructEmphasis
	ConstructDoubleEmphasis
	ConstructTripleEmphasis
	ConstructUnderline
	ConstructStrikethrough
	ConstructHighlight
	ConstructSuperscript
	ConstructQuote
	ConstructCodeSpan
	ConstructLink
	ConstructImage
	ConstructLineBreak
	ConstructAutolink
	ConstructRawHTML
	ConstructFootnoteRef
	ConstructDanglingRef
	ConstructEntity
	ConstructText

	constructCount
)

var constructNames = [constructCount]string{
	"paragraph", "header", "list", "list_item", "block_quote", "block_code",
	"table", "table_row", "table_cell", "hrule", "block_html", "footnotes",
	"footnote_def",
	"emphasis", "double_emphasis", "triple_emphasis", "underline",
	"strikethrough", "highlight", "superscript", "quote", "code_span", "link",
	"image", "line_break", "autolink", "raw_html", "footnote_ref",
	"dangling_ref", "entity", "text",
}

func (c Construct) String() string {
	if c < 0 || c >= constructCount {
		return "unknown"
	}
	return constructNames[c]
}

// IsBlock reports whether c is a block level construct.
func (c Construct) IsBlock() bool {
	return c <= ConstructFootnoteDef
}

// Stats counts how often each construct was handed to a renderer handler
// during one render.
type Stats struct {
	counts [constructCount]int
}

func (s *Stats) add(c Construct) {
	s.counts[c]++
}

// Count returns the number of dispatches for c.
func (s Stats) Count(c Construct) int {
	if c < 0 || c >= constructCount {
		return 0
	}
	return s.counts[c]
}

// Total returns the number of dispatches of every construct but plain text.
func (s Stats) Total() int {
	n := 0
	for c, v := range s.counts {
		if Construct(c) != ConstructText {
			n += v
		}
	}
	return n
}

// Map returns the non-zero counts keyed by construct name.
func (s Stats) Map() map[string]int {
	out := make(map[string]int)
	for c, v := range s.counts {
		if v > 0 {
			out[Construct(c).String()] = v
		}
	}
	return out
}

func (s Stats) String() string {
	m := s.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(m[k]))
	}
	return b.String()
}
