package markdown

import (
	"bytes"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/options"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// maxNesting bounds the recursion of block and inline parsing. Content
// deeper than this is emitted as plain text.
const maxNesting = 16

// parseBlock classifies data line by line and dispatches every block found.
func (p *parser) parseBlock(out *bytes.Buffer, data []byte) {
	if p.nesting >= maxNesting {
		p.text(out, data)
		return
	}
	p.nesting++

	for len(data) > 0 {
		if data[0] == '<' {
			if n := p.blockHTML(out, data, true); n > 0 {
				data = data[n:]
				continue
			}
		}
		if n := isEmpty(data); n > 0 {
			data = data[n:]
			continue
		}
		if p.opts.Enabled(options.FencedCodeBlocks) {
			if n := p.fencedCode(out, data); n > 0 {
				data = data[n:]
				continue
			}
		}
		if !p.opts.Enabled(options.DisableIndentedCodeBlocks) && codePrefix(data) > 0 {
			data = data[p.indentedCode(out, data):]
			continue
		}
		if p.isATXHeader(data) {
			data = data[p.atxHeader(out, data):]
			continue
		}
		if isHRule(data) {
			if p.d.hrule != nil {
				p.emit(out, ConstructHRule, p.d.hrule.HRule())
			}
			data = data[lineLen(data):]
			continue
		}
		if quotePrefix(data) > 0 {
			data = data[p.blockQuote(out, data):]
			continue
		}
		if uliPrefix(data) > 0 {
			data = data[p.list(out, data, render.Unordered):]
			continue
		}
		if oliPrefix(data) > 0 {
			data = data[p.list(out, data, render.Ordered):]
			continue
		}
		if p.opts.Enabled(options.Tables) {
			if n := p.table(out, data); n > 0 {
				data = data[n:]
				continue
			}
		}

		n := p.paragraph(out, data)
		if n == 0 {
			n = lineLen(data)
		}
		data = data[n:]
	}

	p.nesting--
}

// isEmpty returns the length of data's first line when it is blank, else 0.
func isEmpty(data []byte) int {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			return i + 1
		case ' ', '\t', '\r':
		default:
			return 0
		}
	}
	return len(data)
}

// lineLen returns the length of the first line including its newline.
func lineLen(data []byte) int {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1
	}
	return len(data)
}

func (p *parser) isATXHeader(data []byte) bool {
	if data[0] != '#' {
		return false
	}
	if p.opts.Enabled(options.SpaceAfterHeaders) {
		level := 0
		for level < len(data) && level < 6 && data[level] == '#' {
			level++
		}
		if level < len(data) && data[level] != ' ' && data[level] != '\t' && data[level] != '\n' {
			return false
		}
	}
	return true
}

func (p *parser) atxHeader(out *bytes.Buffer, data []byte) int {
	level := 0
	for level < len(data) && level < 6 && data[level] == '#' {
		level++
	}
	i := skipBlanks(data, level)
	end := i
	for end < len(data) && data[end] != '\n' {
		end++
	}
	skip := lineLen(data)
	for end > i && data[end-1] == '#' {
		end--
	}
	for end > i && (data[end-1] == ' ' || data[end-1] == '\t') {
		end--
	}

	var work bytes.Buffer
	if end > i {
		p.parseInline(&work, data[i:end])
	}
	if p.d.header != nil {
		p.emit(out, ConstructHeader, p.d.header.Header(work.String(), level))
	}
	return skip
}

// underlinedHeader returns 1 or 2 when data starts with a setext underline.
func underlinedHeader(data []byte) int {
	if len(data) == 0 || (data[0] != '=' && data[0] != '-') {
		return 0
	}
	c := data[0]
	i := 1
	for i < len(data) && data[i] == c {
		i++
	}
	i = skipBlanks(data, i)
	if i < len(data) && data[i] != '\n' {
		return 0
	}
	if c == '=' {
		return 1
	}
	return 2
}

func isHRule(data []byte) bool {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i+2 >= len(data) || (data[i] != '*' && data[i] != '-' && data[i] != '_') {
		return false
	}
	c := data[i]

	// the whole line must be the char or whitespace
	n := 0
	for i < len(data) && data[i] != '\n' {
		switch {
		case data[i] == c:
			n++
		case data[i] != ' ' && data[i] != '\t' && data[i] != '\r':
			return false
		}
		i++
	}
	return n >= 3
}

// fenceLine reports whether line starts with a code fence: up to three
// spaces followed by at least three backticks or tildes. lang is the first
// word of the info string, or the content of {braces}.
func fenceLine(line []byte) (c byte, n int, lang string, ok bool) {
	i := 0
	for i < 3 && i < len(line) && line[i] == ' ' {
		i++
	}
	if i >= len(line) || (line[i] != '`' && line[i] != '~') {
		return 0, 0, "", false
	}
	c = line[i]
	for i < len(line) && line[i] == c {
		n++
		i++
	}
	if n < 3 {
		return 0, 0, "", false
	}

	info := strings.TrimSpace(string(line[i:]))
	if c == '`' && strings.Contains(info, "`") {
		return 0, 0, "", false
	}
	if strings.HasPrefix(info, "{") {
		end := strings.IndexByte(info, '}')
		if end < 0 {
			return 0, 0, "", false
		}
		return c, n, strings.TrimSpace(info[1:end]), true
	}
	if f := strings.Fields(info); len(f) > 0 {
		lang = f[0]
	}
	return c, n, lang, true
}

// isFenceClose reports whether line holds nothing but a fence.
func isFenceClose(line []byte) bool {
	t := bytes.TrimSpace(line)
	return len(t) > 0 && len(bytes.Trim(t, string(t[:1]))) == 0
}

func (p *parser) fencedCode(out *bytes.Buffer, data []byte) int {
	first := lineLen(data)
	c, n, lang, ok := fenceLine(data[:first])
	if !ok {
		return 0
	}

	var work bytes.Buffer
	beg := first
	for beg < len(data) {
		end := beg + lineLen(data[beg:])
		line := data[beg:end]
		if c2, n2, _, ok := fenceLine(line); ok && c2 == c && n2 >= n && isFenceClose(line) {
			beg = end
			break
		}
		work.Write(line)
		beg = end
	}
	if work.Len() > 0 && work.Bytes()[work.Len()-1] != '\n' {
		work.WriteByte('\n')
	}

	if p.d.blockCode != nil {
		p.emit(out, ConstructBlockCode, p.d.blockCode.BlockCode(work.String(), lang))
	}
	return beg
}

// codePrefix returns the indentation length of an indented code line.
func codePrefix(data []byte) int {
	if len(data) > 0 && data[0] == '\t' {
		return 1
	}
	if len(data) > 3 && data[0] == ' ' && data[1] == ' ' && data[2] == ' ' && data[3] == ' ' {
		return 4
	}
	return 0
}

func (p *parser) indentedCode(out *bytes.Buffer, data []byte) int {
	var work bytes.Buffer

	beg := 0
	for beg < len(data) {
		end := beg + lineLen(data[beg:])
		if pre := codePrefix(data[beg:end]); pre > 0 {
			beg += pre
		} else if isEmpty(data[beg:end]) == 0 {
			// non-empty non-prefixed line breaks the pre
			break
		}

		if isEmpty(data[beg:end]) > 0 {
			work.WriteByte('\n')
		} else {
			work.Write(data[beg:end])
		}
		beg = end
	}

	code := bytes.TrimRight(work.Bytes(), "\n")
	if p.d.blockCode != nil {
		p.emit(out, ConstructBlockCode, p.d.blockCode.BlockCode(string(code)+"\n", ""))
	}
	return beg
}

// quotePrefix returns the length of a block quote marker.
func quotePrefix(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i < len(data) && data[i] == '>' {
		if i+1 < len(data) && (data[i+1] == ' ' || data[i+1] == '\t') {
			return i + 2
		}
		return i + 1
	}
	return 0
}

func (p *parser) blockQuote(out *bytes.Buffer, data []byte) int {
	var work bytes.Buffer
	beg, end := 0, 0
	for beg < len(data) {
		end = beg + lineLen(data[beg:])

		if pre := quotePrefix(data[beg:]); pre > 0 {
			beg += pre
		} else if isEmpty(data[beg:]) > 0 && (end >= len(data) || (quotePrefix(data[end:]) == 0 && isEmpty(data[end:]) == 0)) {
			// empty line followed by non-quote line
			break
		}

		work.Write(data[beg:end])
		beg = end
	}

	var inner bytes.Buffer
	p.parseBlock(&inner, work.Bytes())
	if p.d.blockQuote != nil {
		p.emit(out, ConstructBlockQuote, p.d.blockQuote.BlockQuote(inner.String()))
	}
	return end
}

// uliPrefix returns the length of an unordered list marker.
func uliPrefix(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i+1 >= len(data) || (data[i] != '*' && data[i] != '+' && data[i] != '-') || (data[i+1] != ' ' && data[i+1] != '\t') {
		return 0
	}
	return i + 2
}

// oliPrefix returns the length of an ordered list marker.
func oliPrefix(data []byte) int {
	i := 0
	for i < 3 && i < len(data) && data[i] == ' ' {
		i++
	}
	if i >= len(data) || data[i] < '0' || data[i] > '9' {
		return 0
	}
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	if i+1 >= len(data) || data[i] != '.' || (data[i+1] != ' ' && data[i+1] != '\t') {
		return 0
	}
	return i + 2
}

func (p *parser) list(out *bytes.Buffer, data []byte, kind render.ListKind) int {
	var work bytes.Buffer
	loose := false

	i := 0
	for i < len(data) {
		n, last := p.listItem(&work, data[i:], kind, &loose)
		i += n
		if n == 0 || last {
			break
		}
	}

	if p.d.list != nil {
		p.emit(out, ConstructList, p.d.list.List(work.String(), kind))
	}
	return i
}

// listItem parses one item starting at its marker. It reports the bytes
// consumed and whether the list ends after this item. loose is set once an
// item contains blank lines and stays set for the rest of the list.
func (p *parser) listItem(out *bytes.Buffer, data []byte, kind render.ListKind, loose *bool) (int, bool) {
	orgpre := 0
	for orgpre < 3 && orgpre < len(data) && data[orgpre] == ' ' {
		orgpre++
	}

	beg := uliPrefix(data)
	if beg == 0 {
		beg = oliPrefix(data)
	}
	if beg == 0 {
		return 0, false
	}
	beg = skipBlanks(data, beg)
	end := beg + lineLen(data[beg:])

	var work bytes.Buffer
	work.Write(data[beg:end])
	beg = end

	fences := p.opts.Enabled(options.FencedCodeBlocks)
	inEmpty, hasInsideEmpty, last := false, false, false
	var fenceChar byte
	fenceLen := 0
	sublist := 0

lines:
	for beg < len(data) {
		end = beg + lineLen(data[beg:])

		if fenceLen == 0 && isEmpty(data[beg:end]) > 0 {
			inEmpty = true
			beg = end
			continue
		}

		i := 0
		for i < 4 && beg+i < end && data[beg+i] == ' ' {
			i++
		}
		pre := i
		chunk := data[beg+i : end]

		if fences {
			if c, n, _, ok := fenceLine(chunk); ok && (i > 0 || !inEmpty) {
				switch {
				case fenceLen == 0:
					fenceChar, fenceLen = c, n
				case c == fenceChar && n >= fenceLen && isFenceClose(chunk):
					fenceLen = 0
				}
				if inEmpty {
					work.WriteByte('\n')
					hasInsideEmpty = true
					inEmpty = false
				}
				work.Write(chunk)
				beg = end
				continue
			}
		}
		if fenceLen > 0 {
			work.Write(chunk)
			beg = end
			continue
		}

		isUli := uliPrefix(chunk) > 0 && !isHRule(chunk)
		isOli := oliPrefix(chunk) > 0
		switch {
		case isUli || isOli:
			if inEmpty {
				hasInsideEmpty = true
			}
			if pre == orgpre {
				// a marker of the other kind at the same indentation ends the list
				if (kind == render.Ordered) != isOli {
					last = true
				}
				break lines
			}
			if sublist == 0 {
				sublist = work.Len()
			}
		case inEmpty && i < 4:
			// only indented stuff joins an item after an empty line
			last = true
			break lines
		case inEmpty:
			work.WriteByte('\n')
			hasInsideEmpty = true
		}

		inEmpty = false
		work.Write(chunk)
		beg = end
	}

	if hasInsideEmpty {
		*loose = true
	}

	var inner bytes.Buffer
	wb := work.Bytes()
	split := sublist > 0 && sublist < len(wb)
	switch {
	case *loose && split:
		p.parseBlock(&inner, wb[:sublist])
		p.parseBlock(&inner, wb[sublist:])
	case *loose:
		p.parseBlock(&inner, wb)
	case split:
		p.parseInline(&inner, wb[:sublist])
		p.parseBlock(&inner, wb[sublist:])
	default:
		p.parseInline(&inner, bytes.TrimRight(wb, "\n"))
	}

	if p.d.listItem != nil {
		p.emit(out, ConstructListItem, p.d.listItem.ListItem(inner.String(), kind))
	}
	return beg, last
}

func (p *parser) paragraph(out *bytes.Buffer, data []byte) int {
	lax := p.opts.Enabled(options.LaxSpacing)
	fences := p.opts.Enabled(options.FencedCodeBlocks)

	i, end, level := 0, 0, 0
	for i < len(data) {
		end = i + lineLen(data[i:])

		if isEmpty(data[i:]) > 0 {
			break
		}
		if i > 0 {
			if level = underlinedHeader(data[i:]); level > 0 {
				break
			}
			if p.isATXHeader(data[i:]) || isHRule(data[i:]) || quotePrefix(data[i:]) > 0 {
				end = i
				break
			}
			if fences {
				if _, _, _, ok := fenceLine(data[i:end]); ok {
					end = i
					break
				}
			}
			if lax {
				if data[i] == '<' && p.blockHTML(out, data[i:], false) > 0 {
					end = i
					break
				}
				if uliPrefix(data[i:]) > 0 || oliPrefix(data[i:]) > 0 {
					end = i
					break
				}
			}
		}
		i = end
	}

	work := data
	size := i
	for size > 0 && work[size-1] == '\n' {
		size--
	}

	if level == 0 {
		p.paragraphText(out, work[:size])
		return end
	}

	// the last line before the underline is the header text
	headerStart := bytes.LastIndexByte(work[:size], '\n') + 1
	if headerStart > 0 {
		p.paragraphText(out, bytes.TrimRight(work[:headerStart], "\n"))
	}

	var text bytes.Buffer
	p.parseInline(&text, work[headerStart:size])
	if p.d.header != nil {
		p.emit(out, ConstructHeader, p.d.header.Header(text.String(), level))
	}
	return end
}

func (p *parser) paragraphText(out *bytes.Buffer, text []byte) {
	var work bytes.Buffer
	p.parseInline(&work, text)
	if p.d.paragraph != nil {
		p.emit(out, ConstructParagraph, p.d.paragraph.Paragraph(work.String()))
	}
}
