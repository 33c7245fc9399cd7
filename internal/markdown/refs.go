package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/util"
	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/mdrender/internal/options"
)

type reference struct {
	link  string
	title string
}

type footnote struct {
	text []byte
	num  int
	used bool
}

// refTable holds the link reference definitions and footnote definitions of
// one document. The first definition of a label wins.
type refTable struct {
	mode  options.LabelMode
	fold  cases.Caser
	links map[string]reference
	notes map[string]*footnote
	used  []*footnote
}

func newRefTable(mode options.LabelMode) *refTable {
	return &refTable{
		mode:  mode,
		fold:  cases.Fold(),
		links: make(map[string]reference),
		notes: make(map[string]*footnote),
	}
}

// normalize maps a label to its lookup key.
func (t *refTable) normalize(label string) string {
	switch t.mode {
	case options.LabelExact:
		return strings.TrimSpace(label)
	case options.LabelCommonMark:
		return util.ToLinkReference([]byte(label))
	default:
		return t.fold.String(strings.Join(strings.Fields(label), " "))
	}
}

func (t *refTable) addLink(label, link, title string) {
	key := t.normalize(label)
	if _, exists := t.links[key]; exists {
		return
	}
	t.links[key] = reference{link: link, title: title}
}

func (t *refTable) lookup(label string) (reference, bool) {
	ref, ok := t.links[t.normalize(label)]
	return ref, ok
}

func (t *refTable) addFootnote(label string, text []byte) {
	key := t.normalize(label)
	if _, exists := t.notes[key]; exists {
		return
	}
	t.notes[key] = &footnote{text: text}
}

// useFootnote numbers a footnote on its first reference. Later references
// reuse that number. An undefined label reports false.
func (t *refTable) useFootnote(label string) (int, bool) {
	fn, ok := t.notes[t.normalize(label)]
	if !ok {
		return 0, false
	}
	if fn.used {
		return fn.num, true
	}
	fn.used = true
	t.used = append(t.used, fn)
	fn.num = len(t.used)
	return fn.num, true
}

// firstPass strips reference and footnote definitions out of doc, records
// them, expands tabs and normalises line endings. The result always ends
// with a newline when non-empty.
func (p *parser) firstPass(doc []byte) []byte {
	out := bytes.NewBuffer(make([]byte, 0, len(doc)+len(doc)/8))
	footnotes := p.opts.Enabled(options.Footnotes)
	fences := p.opts.Enabled(options.FencedCodeBlocks)

	var fenceChar byte
	var fenceLen int
	beg := 0
	for beg < len(doc) {
		if fenceLen == 0 {
			if footnotes {
				if end := p.scanFootnoteDef(doc, beg); end > 0 {
					beg = end
					continue
				}
			}
			if end := p.scanReference(doc, beg); end > 0 {
				beg = end
				continue
			}
		}

		end := beg
		for end < len(doc) && doc[end] != '\n' && doc[end] != '\r' {
			end++
		}
		line := doc[beg:end]
		if fences {
			if c, n, _, ok := fenceLine(line); ok {
				switch {
				case fenceLen == 0:
					fenceChar, fenceLen = c, n
				case c == fenceChar && n >= fenceLen && isFenceClose(line):
					fenceLen = 0
				}
			}
		}
		expandTabs(out, line)

		for end < len(doc) && (doc[end] == '\n' || doc[end] == '\r') {
			// \r\n counts as one line ending
			if doc[end] == '\r' && end+1 < len(doc) && doc[end+1] == '\n' {
				end++
			}
			out.WriteByte('\n')
			end++
		}
		beg = end
	}

	if out.Len() > 0 && out.Bytes()[out.Len()-1] != '\n' {
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// expandTabs writes line with tabs expanded to four column stops.
func expandTabs(out *bytes.Buffer, line []byte) {
	if bytes.IndexByte(line, '\t') < 0 {
		out.Write(line)
		return
	}
	col := 0
	for _, c := range line {
		if c == '\t' {
			out.WriteByte(' ')
			col++
			for col%4 != 0 {
				out.WriteByte(' ')
				col++
			}
			continue
		}
		out.WriteByte(c)
		// count runes, not bytes
		if c&0xC0 != 0x80 {
			col++
		}
	}
}

// scanReference recognises `[label]: url "title"` at beg and returns the
// offset just past the definition, or 0.
func (p *parser) scanReference(data []byte, beg int) int {
	i := beg
	for n := 0; n < 3 && i < len(data) && data[i] == ' '; n++ {
		i++
	}
	if i >= len(data) || data[i] != '[' {
		return 0
	}
	i++
	idOffset := i
	for i < len(data) && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= len(data) || data[i] != ']' || i == idOffset {
		return 0
	}
	if data[idOffset] == '^' && p.opts.Enabled(options.Footnotes) {
		return 0
	}
	idEnd := i

	// spacer: colon (space | tab)* newline? (space | tab)*
	i++
	if i >= len(data) || data[i] != ':' {
		return 0
	}
	i++
	i = skipBlanks(data, i)
	if i < len(data) && (data[i] == '\n' || data[i] == '\r') {
		i++
		if i < len(data) && data[i] == '\n' && data[i-1] == '\r' {
			i++
		}
	}
	i = skipBlanks(data, i)
	if i >= len(data) || data[i] == '\n' || data[i] == '\r' {
		return 0
	}

	// link: whitespace-free sequence, optionally between angle brackets
	if data[i] == '<' {
		i++
	}
	linkOffset := i
	for i < len(data) && data[i] != ' ' && data[i] != '\t' && data[i] != '\n' && data[i] != '\r' {
		i++
	}
	linkEnd := i
	if linkEnd > linkOffset && data[linkEnd-1] == '>' {
		linkEnd--
	}

	// optional spacer: (space | tab)* (newline | '\'' | '"' | '(' )
	i = skipBlanks(data, i)
	if i < len(data) && data[i] != '\n' && data[i] != '\r' && data[i] != '\'' && data[i] != '"' && data[i] != '(' {
		return 0
	}

	lineEnd := -1
	if i >= len(data) || data[i] == '\r' || data[i] == '\n' {
		lineEnd = i
	}
	if i+1 < len(data) && data[i] == '\r' && data[i+1] == '\n' {
		lineEnd = i + 1
	}

	// a title may sit on the following line
	if lineEnd >= 0 {
		i = skipBlanks(data, lineEnd+1)
	}

	titleOffset, titleEnd := 0, 0
	if i+1 < len(data) && (data[i] == '\'' || data[i] == '"' || data[i] == '(') {
		closer := data[i]
		if closer == '(' {
			closer = ')'
		}
		i++
		titleOffset = i
		for i < len(data) && data[i] != '\n' && data[i] != '\r' {
			i++
		}
		eol := i
		if i+1 < len(data) && data[i] == '\r' && data[i+1] == '\n' {
			eol = i + 1
		}

		// step back over trailing blanks to the closing quote
		j := i - 1
		for j > titleOffset && (data[j] == ' ' || data[j] == '\t') {
			j--
		}
		if j >= titleOffset && data[j] == closer {
			lineEnd = eol
			titleEnd = j
		} else {
			titleOffset = 0
		}
	}
	if lineEnd < 0 {
		return 0
	}

	title := ""
	if titleEnd > titleOffset {
		title = string(data[titleOffset:titleEnd])
	}
	p.refs.addLink(string(data[idOffset:idEnd]), string(data[linkOffset:linkEnd]), title)

	if lineEnd >= len(data) {
		return len(data)
	}
	return lineEnd + 1
}

// scanFootnoteDef recognises `[^label]: text` with its indented
// continuation lines and returns the offset just past it, or 0.
func (p *parser) scanFootnoteDef(data []byte, beg int) int {
	i := beg
	for n := 0; n < 3 && i < len(data) && data[i] == ' '; n++ {
		i++
	}
	if i+1 >= len(data) || data[i] != '[' || data[i+1] != '^' {
		return 0
	}
	i += 2
	idOffset := i
	for i < len(data) && data[i] != '\n' && data[i] != '\r' && data[i] != ']' {
		i++
	}
	if i >= len(data) || data[i] != ']' || i == idOffset {
		return 0
	}
	idEnd := i
	i++
	if i >= len(data) || data[i] != ':' {
		return 0
	}
	i = skipBlanks(data, i+1)

	var contents bytes.Buffer
	start := i
	end := lineEndAt(data, start)
	contents.Write(data[start:end])
	contents.WriteByte('\n')

	inEmpty := false
	beg = nextLine(data, end)
	for beg < len(data) {
		end = lineEndAt(data, beg)
		if isEmpty(data[beg:]) > 0 {
			inEmpty = true
			beg = nextLine(data, end)
			continue
		}

		// continuation lines need at least one column of indentation
		ind := 0
		for ind < 4 && beg+ind < end && data[beg+ind] == ' ' {
			ind++
		}
		if beg+ind < end && data[beg+ind] == '\t' && ind == 0 {
			ind = 1
		}
		if ind == 0 {
			break
		}
		if inEmpty {
			contents.WriteByte('\n')
			inEmpty = false
		}
		contents.Write(data[beg+ind : end])
		contents.WriteByte('\n')
		beg = nextLine(data, end)
	}

	var text bytes.Buffer
	expandTabs(&text, contents.Bytes())
	p.refs.addFootnote(string(data[idOffset:idEnd]), text.Bytes())
	return beg
}

func skipBlanks(data []byte, i int) int {
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	return i
}

// lineEndAt returns the offset of the line terminator of the line at beg.
func lineEndAt(data []byte, beg int) int {
	for beg < len(data) && data[beg] != '\n' && data[beg] != '\r' {
		beg++
	}
	return beg
}

// nextLine returns the offset after the line terminator at end.
func nextLine(data []byte, end int) int {
	if end < len(data) && data[end] == '\r' {
		end++
	}
	if end < len(data) && data[end] == '\n' {
		end++
	}
	return end
}
