package markdown

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/mdrender/internal/options"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// trigger handles an active character at data[offset]. It returns the
// number of bytes consumed, or 0 when the character stays literal.
type trigger func(p *parser, out *bytes.Buffer, data []byte, offset int) int

// parser carries the state of a single render.
type parser struct {
	opts  options.Set
	d     *dispatcher
	refs  *refTable
	stats Stats

	triggers     *[256]trigger
	wordTriggers bool

	nesting    int
	inLinkBody bool
}

// buildTriggers maps active characters to their handlers. A character is
// only active when its construct is enabled and the renderer handles it.
func buildTriggers(d *dispatcher, opts options.Set) (t [256]trigger, words bool) {
	if d.emphasis != nil || d.doubleEmphasis != nil || d.tripleEmphasis != nil ||
		(d.underline != nil && opts.Enabled(options.Underline)) {
		t['*'] = (*parser).charEmphasis
		t['_'] = (*parser).charEmphasis
	}
	if d.strikethrough != nil && opts.Enabled(options.Strikethrough) {
		t['~'] = (*parser).charEmphasis
	}
	if d.highlight != nil && opts.Enabled(options.Highlight) {
		t['='] = (*parser).charEmphasis
	}
	if d.superscript != nil && opts.Enabled(options.Superscript) {
		t['^'] = (*parser).charSuperscript
	}
	if d.quote != nil && opts.Enabled(options.Quote) {
		t['"'] = (*parser).charQuote
	}
	if d.codeSpan != nil {
		t['`'] = (*parser).charCodeSpan
	}
	if d.lineBreak != nil {
		t['\n'] = (*parser).charLineBreak
	}
	if d.link != nil || d.dangling != nil || (d.footnoteRef != nil && opts.Enabled(options.Footnotes)) {
		t['['] = (*parser).charLink
	}
	if d.image != nil || d.dangling != nil {
		t['!'] = (*parser).charImage
	}
	if d.autolink != nil || d.rawHTML != nil {
		t['<'] = (*parser).charLangle
	}
	t['\\'] = (*parser).charEscape
	t['&'] = (*parser).charEntity

	if opts.Enabled(options.Autolink) && (d.autolink != nil || d.link != nil) {
		for c := 0; c < 256; c++ {
			if isAlnum(byte(c)) {
				t[c] = (*parser).charAutolink
			}
		}
		words = true
	}
	return t, words
}

func (p *parser) emit(out *bytes.Buffer, c Construct, s string) {
	p.stats.add(c)
	out.WriteString(s)
}

// span writes a span handler's result. A declined span leaves out untouched.
func (p *parser) span(out *bytes.Buffer, c Construct, s string, ok bool) bool {
	if !ok {
		return false
	}
	p.emit(out, c, s)
	return true
}

// text writes literal text through the normal text handler.
func (p *parser) text(out *bytes.Buffer, data []byte) {
	if len(data) == 0 {
		return
	}
	if p.d.normalText == nil {
		out.Write(data)
		return
	}
	p.emit(out, ConstructText, p.d.normalText.NormalText(string(data)))
}

// active reports whether data[i] starts an inline construct. Alphanumeric
// triggers only fire at the start of a word and never inside link text.
func (p *parser) active(data []byte, i int) bool {
	c := data[i]
	if p.triggers[c] == nil {
		return false
	}
	if p.wordTriggers && isAlnum(c) {
		return !p.inLinkBody && (i == 0 || wordBoundary(data[i-1]))
	}
	return true
}

func wordBoundary(c byte) bool {
	if isAlnum(c) {
		return false
	}
	return strings.IndexByte(".+-_@/:&", c) < 0
}

func (p *parser) parseInline(out *bytes.Buffer, data []byte) {
	if p.nesting >= maxNesting {
		p.text(out, data)
		return
	}
	p.nesting++
	defer func() { p.nesting-- }()

	i, end := 0, 0
	for i < len(data) {
		for end < len(data) && !p.active(data, end) {
			end++
		}
		p.text(out, data[i:end])
		if end >= len(data) {
			break
		}
		i = end

		if n := p.triggers[data[end]](p, out, data, i); n == 0 {
			end = i + 1
		} else {
			i += n
			end = i
		}
	}
}

// findEmphChar looks for the next c outside code spans and links.
func findEmphChar(data []byte, c byte) int {
	i := 1
	for i < len(data) {
		for i < len(data) && data[i] != c && data[i] != '`' && data[i] != '[' {
			i++
		}
		if i >= len(data) {
			return 0
		}
		if data[i] == c {
			return i
		}

		// escaped
		if i > 0 && data[i-1] == '\\' {
			i++
			continue
		}

		if data[i] == '`' {
			// skip the code span
			var tmp int
			i++
			for i < len(data) && data[i] != '`' {
				if tmp == 0 && data[i] == c {
					tmp = i
				}
				i++
			}
			if i >= len(data) {
				return tmp
			}
			i++
			continue
		}

		// skip the link
		var tmp int
		i++
		for i < len(data) && data[i] != ']' {
			if tmp == 0 && data[i] == c {
				tmp = i
			}
			i++
		}
		i++
		for i < len(data) && (data[i] == ' ' || data[i] == '\n') {
			i++
		}
		if i >= len(data) {
			return tmp
		}
		var cc byte
		switch data[i] {
		case '[':
			cc = ']'
		case '(':
			cc = ')'
		default:
			if tmp > 0 {
				return tmp
			}
			continue
		}
		i++
		tmp = 0
		for i < len(data) && data[i] != cc {
			if tmp == 0 && data[i] == c {
				tmp = i
			}
			i++
		}
		if i >= len(data) {
			return tmp
		}
		i++
	}
	return 0
}

// closerBlocked reports whether no_intra_emphasis forbids a closing
// delimiter at data[i].
func (p *parser) closerBlocked(data []byte, i int) bool {
	if !p.opts.Enabled(options.NoIntraEmphasis) || i+1 >= len(data) {
		return false
	}
	next := data[i+1]
	return !isSpace(next) && !isPunct(next)
}

func (p *parser) charEmphasis(out *bytes.Buffer, data []byte, offset int) int {
	c := data[offset]
	if p.opts.Enabled(options.NoIntraEmphasis) && offset > 0 && isAlnum(data[offset-1]) {
		return 0
	}
	d := data[offset:]

	// strikethrough and highlight only come doubled
	pairOnly := c == '~' || c == '='

	if len(d) > 2 && d[1] != c {
		if pairOnly || isSpace(d[1]) {
			return 0
		}
		if n := p.emph1(out, d[1:], c); n > 0 {
			return n + 1
		}
		return 0
	}
	if len(d) > 3 && d[1] == c && d[2] != c {
		if isSpace(d[2]) {
			return 0
		}
		if n := p.emph2(out, d[2:], c); n > 0 {
			return n + 2
		}
		return 0
	}
	if len(d) > 4 && d[1] == c && d[2] == c && d[3] != c {
		if pairOnly || isSpace(d[3]) {
			return 0
		}
		if n := p.emph3(out, d, 3, c); n > 0 {
			return n + 3
		}
	}
	return 0
}

func (p *parser) emph1(out *bytes.Buffer, data []byte, c byte) int {
	underline := c == '_' && p.d.underline != nil && p.opts.Enabled(options.Underline)
	if !underline && p.d.emphasis == nil {
		return 0
	}

	i := 0
	// skip one symbol when coming from emph3
	if len(data) > 1 && data[0] == c && data[1] == c {
		i = 1
	}

	for i < len(data) {
		n := findEmphChar(data[i:], c)
		if n == 0 {
			return 0
		}
		i += n
		if i >= len(data) {
			return 0
		}
		if i+1 < len(data) && data[i+1] == c {
			i++
			continue
		}
		if data[i] != c || isSpace(data[i-1]) || p.closerBlocked(data, i) {
			continue
		}

		var work bytes.Buffer
		p.parseInline(&work, data[:i])
		var ok bool
		if underline {
			s, accepted := p.d.underline.Underline(work.String())
			ok = p.span(out, ConstructUnderline, s, accepted)
		} else {
			s, accepted := p.d.emphasis.Emphasis(work.String())
			ok = p.span(out, ConstructEmphasis, s, accepted)
		}
		if ok {
			return i + 1
		}
		return 0
	}
	return 0
}

func (p *parser) emph2(out *bytes.Buffer, data []byte, c byte) int {
	var call func(string) (string, bool)
	kind := ConstructDoubleEmphasis
	switch {
	case c == '~':
		call, kind = p.d.strikethrough.Strikethrough, ConstructStrikethrough
	case c == '=':
		call, kind = p.d.highlight.Highlight, ConstructHighlight
	case p.d.doubleEmphasis != nil:
		call = p.d.doubleEmphasis.DoubleEmphasis
	default:
		return 0
	}

	i := 0
	for i < len(data) {
		n := findEmphChar(data[i:], c)
		if n == 0 {
			return 0
		}
		i += n
		if i+1 < len(data) && data[i] == c && data[i+1] == c && i > 0 && !isSpace(data[i-1]) &&
			!p.closerBlocked(data, i+1) {
			var work bytes.Buffer
			p.parseInline(&work, data[:i])
			s, ok := call(work.String())
			if p.span(out, kind, s, ok) {
				return i + 2
			}
			return 0
		}
		i++
	}
	return 0
}

func (p *parser) emph3(out *bytes.Buffer, data []byte, offset int, c byte) int {
	i := 0
	orig := data
	data = data[offset:]

	for i < len(data) {
		n := findEmphChar(data[i:], c)
		if n == 0 {
			return 0
		}
		i += n

		// skip whitespace preceded symbols
		if data[i] != c || isSpace(data[i-1]) {
			continue
		}

		switch {
		case i+2 < len(data) && data[i+1] == c && data[i+2] == c && p.d.tripleEmphasis != nil:
			if p.closerBlocked(data, i+2) {
				i += 3
				continue
			}
			var work bytes.Buffer
			p.parseInline(&work, data[:i])
			s, ok := p.d.tripleEmphasis.TripleEmphasis(work.String())
			if p.span(out, ConstructTripleEmphasis, s, ok) {
				return i + 3
			}
			return 0
		case i+1 < len(data) && data[i+1] == c:
			// double symbol found, hand over to emph1
			n := p.emph1(out, orig[offset-2:], c)
			if n == 0 {
				return 0
			}
			return n - 2
		default:
			// single symbol found, hand over to emph2
			n := p.emph2(out, orig[offset-1:], c)
			if n == 0 {
				return 0
			}
			return n - 1
		}
	}
	return 0
}

// delimited finds a run of delim characters closed by a run of the same
// length. It returns the trimmed content bounds and the total length.
func delimited(data []byte, delim byte) (begin, end, total int, ok bool) {
	nb := 0
	for nb < len(data) && data[nb] == delim {
		nb++
	}

	i, stop := 0, nb
	for ; stop < len(data) && i < nb; stop++ {
		if data[stop] == delim {
			i++
		} else {
			i = 0
		}
	}
	if i < nb && stop >= len(data) {
		return 0, 0, 0, false
	}

	begin = nb
	for begin < stop && data[begin] == ' ' {
		begin++
	}
	end = stop - nb
	for end > begin && data[end-1] == ' ' {
		end--
	}
	return begin, end, stop, true
}

func (p *parser) charCodeSpan(out *bytes.Buffer, data []byte, offset int) int {
	d := data[offset:]
	begin, end, total, ok := delimited(d, '`')
	if !ok {
		return 0
	}
	s, accepted := p.d.codeSpan.CodeSpan(string(d[begin:end]))
	if !p.span(out, ConstructCodeSpan, s, accepted) {
		return 0
	}
	return total
}

func (p *parser) charQuote(out *bytes.Buffer, data []byte, offset int) int {
	d := data[offset:]
	begin, end, total, ok := delimited(d, '"')
	if !ok || begin >= end {
		return 0
	}
	var work bytes.Buffer
	p.parseInline(&work, d[begin:end])
	s, accepted := p.d.quote.Quote(work.String())
	if !p.span(out, ConstructQuote, s, accepted) {
		return 0
	}
	return total
}

// charLineBreak turns two trailing spaces before a newline into a break.
func (p *parser) charLineBreak(out *bytes.Buffer, data []byte, offset int) int {
	if offset < 2 || data[offset-1] != ' ' || data[offset-2] != ' ' {
		return 0
	}
	s, ok := p.d.lineBreak.LineBreak()
	if !ok {
		return 0
	}
	b := out.Bytes()
	n := len(b)
	for n > 0 && b[n-1] == ' ' {
		n--
	}
	out.Truncate(n)
	p.emit(out, ConstructLineBreak, s)
	return 1
}

func (p *parser) charSuperscript(out *bytes.Buffer, data []byte, offset int) int {
	d := data[offset:]
	if len(d) < 2 {
		return 0
	}

	var start, stop int
	if d[1] == '(' {
		start, stop = 2, 2
		for stop < len(d) && (d[stop] != ')' || d[stop-1] == '\\') {
			stop++
		}
		if stop == len(d) {
			return 0
		}
	} else {
		start, stop = 1, 1
		for stop < len(d) && !isSpace(d[stop]) {
			stop++
		}
	}
	if stop == start {
		return 0
	}

	var work bytes.Buffer
	p.parseInline(&work, d[start:stop])
	s, ok := p.d.superscript.Superscript(work.String())
	if !p.span(out, ConstructSuperscript, s, ok) {
		return 0
	}
	if start == 2 {
		return stop + 1
	}
	return stop
}

const escapable = "\\`*_{}[]()#+-.!:|&<>^~=\""

func (p *parser) charEscape(out *bytes.Buffer, data []byte, offset int) int {
	d := data[offset:]
	if len(d) < 2 || strings.IndexByte(escapable, d[1]) < 0 {
		return 0
	}
	p.text(out, d[1:2])
	return 2
}

// charEntity passes a character or numeric entity through untouched.
func (p *parser) charEntity(out *bytes.Buffer, data []byte, offset int) int {
	d := data[offset:]
	end := 1
	if end < len(d) && d[end] == '#' {
		end++
	}
	for end < len(d) && isAlnum(d[end]) {
		end++
	}
	if end >= len(d) || d[end] != ';' || end < 2 {
		return 0
	}
	end++

	entity := string(d[:end])
	if html.UnescapeString(entity) == entity {
		return 0
	}
	if p.d.entity != nil {
		p.emit(out, ConstructEntity, p.d.entity.Entity(entity))
	} else {
		out.WriteString(entity)
	}
	return end
}

// charLangle handles '<': an autolink in angle brackets or inline HTML.
func (p *parser) charLangle(out *bytes.Buffer, data []byte, offset int) int {
	d := data[offset:]
	n, kind, isLink := tagLength(d)
	if n <= 2 {
		return 0
	}

	if isLink && p.d.autolink != nil {
		s, ok := p.d.autolink.Autolink(unescapeText(d[1:n-1]), kind)
		if p.span(out, ConstructAutolink, s, ok) {
			return n
		}
		return 0
	}
	if p.d.rawHTML != nil {
		s, ok := p.d.rawHTML.RawHTML(string(d[:n]))
		if p.span(out, ConstructRawHTML, s, ok) {
			return n
		}
	}
	return 0
}

// tagLength measures an inline tag or angle bracket autolink.
func tagLength(data []byte) (int, render.AutolinkKind, bool) {
	if len(data) < 3 || data[0] != '<' {
		return 0, 0, false
	}
	i := 1
	if data[1] == '/' {
		i = 2
	}
	if !isAlnum(data[i]) {
		return 0, 0, false
	}

	// scheme test
	for i < len(data) && (isAlnum(data[i]) || data[i] == '.' || data[i] == '+' || data[i] == '-') {
		i++
	}
	if i > 1 && i < len(data) && data[i] == '@' {
		if j := mailAutolink(data[i:]); j > 0 {
			return i + j, render.AutolinkEmail, true
		}
	}
	if i > 2 && i < len(data) && data[i] == ':' {
		i++
	scheme:
		for i < len(data) {
			switch {
			case data[i] == '\\':
				i += 2
			case data[i] == '>' || data[i] == '\'' || data[i] == '"' || isSpace(data[i]):
				break scheme
			default:
				i++
			}
		}
		if i >= len(data) {
			return 0, 0, false
		}
		if data[i] == '>' {
			return i + 1, render.AutolinkURL, true
		}
	}

	// plain tag
	for i < len(data) && data[i] != '>' {
		i++
	}
	if i >= len(data) {
		return 0, 0, false
	}
	return i + 1, 0, false
}

// mailAutolink measures the rest of an address in angle brackets, starting
// at the '@'. It returns the length through the closing '>'.
func mailAutolink(data []byte) int {
	nb := 0
	for i, c := range data {
		if isAlnum(c) {
			continue
		}
		switch c {
		case '@':
			nb++
		case '-', '.', '_':
		case '>':
			if nb == 1 {
				return i + 1
			}
			return 0
		default:
			return 0
		}
	}
	return 0
}

func (p *parser) charLink(out *bytes.Buffer, data []byte, offset int) int {
	if p.inLinkBody {
		return 0
	}
	d := data[offset:]
	if len(d) > 1 && d[1] == '^' && p.opts.Enabled(options.Footnotes) {
		return p.footnoteRef(out, d)
	}
	return p.linkOrImage(out, d, false)
}

// charImage claims "![" so a failed image leaves only the '!' literal.
func (p *parser) charImage(out *bytes.Buffer, data []byte, offset int) int {
	d := data[offset:]
	if len(d) < 2 || d[1] != '[' {
		return 0
	}
	if n := p.linkOrImage(out, d[1:], true); n > 0 {
		return n + 1
	}
	return 0
}

func (p *parser) footnoteRef(out *bytes.Buffer, d []byte) int {
	i := 2
	for i < len(d) && d[i] != ']' && d[i] != '\n' {
		i++
	}
	if i >= len(d) || d[i] != ']' || i == 2 || p.d.footnoteRef == nil {
		return 0
	}
	num, ok := p.refs.useFootnote(string(d[2:i]))
	if !ok {
		return 0
	}
	s, ok := p.d.footnoteRef.FootnoteRef(num)
	if !p.span(out, ConstructFootnoteRef, s, ok) {
		return 0
	}
	return i + 1
}

// linkOrImage parses d starting at '['. It handles inline destinations,
// full and collapsed references and shortcut references.
func (p *parser) linkOrImage(out *bytes.Buffer, d []byte, image bool) int {
	// closing bracket of the text
	i, level := 1, 1
	for i < len(d) {
		if d[i-1] != '\\' {
			if d[i] == '[' {
				level++
			} else if d[i] == ']' {
				level--
				if level == 0 {
					break
				}
			}
		}
		i++
	}
	if i >= len(d) {
		return 0
	}
	txtE := i
	i++

	for i < len(d) && isSpace(d[i]) {
		i++
	}

	var link, title string
	switch {
	case i < len(d) && d[i] == '(':
		n, l, t, ok := inlineDestination(d, i)
		if !ok {
			return 0
		}
		link, title, i = l, t, n

	case i < len(d) && d[i] == '[':
		j := i + 1
		for j < len(d) && d[j] != ']' {
			j++
		}
		if j >= len(d) {
			return 0
		}
		label := d[i+1 : j]
		if len(bytes.TrimSpace(label)) == 0 {
			label = d[1:txtE]
		}
		ref, ok := p.refs.lookup(collapseNewlines(label))
		if !ok {
			return p.dangling(out, d, txtE)
		}
		link, title, i = ref.link, ref.title, j+1

	default:
		ref, ok := p.refs.lookup(collapseNewlines(d[1:txtE]))
		if !ok {
			return p.dangling(out, d, txtE)
		}
		link, title, i = ref.link, ref.title, txtE+1
	}

	if image {
		if p.d.image == nil {
			return 0
		}
		s, ok := p.d.image.Image(link, title, string(d[1:txtE]))
		if !p.span(out, ConstructImage, s, ok) {
			return 0
		}
		return i
	}

	if p.d.link == nil {
		return 0
	}
	var content bytes.Buffer
	if txtE > 1 {
		prev := p.inLinkBody
		p.inLinkBody = true
		p.parseInline(&content, d[1:txtE])
		p.inLinkBody = prev
	}
	s, ok := p.d.link.Link(link, title, content.String())
	if !p.span(out, ConstructLink, s, ok) {
		return 0
	}
	return i
}

// dangling offers an unresolved reference to the renderer. Only the first
// bracket pair is consumed so a following pair is tried on its own. For an
// image the caller also consumes the '!', so the hook replaces "![label]".
func (p *parser) dangling(out *bytes.Buffer, d []byte, txtE int) int {
	if p.d.dangling == nil {
		return 0
	}
	label := p.refs.normalize(collapseNewlines(d[1:txtE]))
	if label == "" {
		return 0
	}
	s, ok := p.d.dangling.DanglingLinkRef(label)
	if !p.span(out, ConstructDanglingRef, s, ok) {
		return 0
	}
	return txtE + 1
}

// inlineDestination parses "(dest "title")" starting at d[i] == '('. It
// returns the offset after the closing parenthesis.
func inlineDestination(d []byte, i int) (int, string, string, bool) {
	i++
	for i < len(d) && isSpace(d[i]) {
		i++
	}
	linkB := i

	depth := 0
dest:
	for i < len(d) {
		switch {
		case d[i] == '\\':
			i += 2
			continue
		case d[i] == '(':
			depth++
		case d[i] == ')':
			if depth == 0 {
				break dest
			}
			depth--
		case i > linkB && isSpace(d[i-1]) && (d[i] == '\'' || d[i] == '"'):
			break dest
		}
		i++
	}
	if i >= len(d) {
		return 0, "", "", false
	}
	linkE := i

	var titleB, titleE int
	if d[i] == '\'' || d[i] == '"' {
		i++
		titleB = i
		for i < len(d) {
			if d[i] == '\\' {
				i += 2
				continue
			}
			if d[i] == ')' {
				break
			}
			i++
		}
		if i >= len(d) {
			return 0, "", "", false
		}

		// the title ends at the last quote before ')'
		titleE = i - 1
		for titleE > titleB && isSpace(d[titleE]) {
			titleE--
		}
		if d[titleE] != '\'' && d[titleE] != '"' {
			titleB, titleE = 0, 0
			linkE = i
		}
	}

	for linkE > linkB && isSpace(d[linkE-1]) {
		linkE--
	}
	if linkE > linkB && d[linkB] == '<' {
		linkB++
	}
	if linkE > linkB && d[linkE-1] == '>' {
		linkE--
	}

	var title string
	if titleE > titleB {
		title = unescapeText(d[titleB:titleE])
	}
	return i + 1, unescapeText(d[linkB:linkE]), title, true
}

func collapseNewlines(b []byte) string {
	if bytes.IndexByte(b, '\n') < 0 {
		return string(b)
	}
	return strings.ReplaceAll(string(b), "\n", " ")
}

// unescapeText drops the backslash of escaped characters.
func unescapeText(b []byte) string {
	if bytes.IndexByte(b, '\\') < 0 {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) {
			i++
		}
		sb.WriteByte(b[i])
	}
	return sb.String()
}
