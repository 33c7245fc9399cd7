package markdown

import (
	"bytes"

	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/mdrender/internal/options"
)

var blockTags = map[atom.Atom]bool{
	atom.Blockquote: true,
	atom.Del:        true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Fieldset:   true,
	atom.Figure:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Iframe:     true,
	atom.Ins:        true,
	atom.Math:       true,
	atom.Noscript:   true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Script:     true,
	atom.Style:      true,
	atom.Table:      true,
	atom.Ul:         true,
}

// blockTagName returns the lower-cased block tag data opens, if any.
func blockTagName(data []byte) (string, bool) {
	i := 0
	for i < len(data) && isAlnum(data[i]) {
		i++
	}
	if i == 0 || i >= len(data) {
		return "", false
	}
	name := bytes.ToLower(data[:i])
	if !blockTags[atom.Lookup(name)] {
		return "", false
	}
	return string(name), true
}

// blockHTML recognises a raw HTML block at the start of data: a block tag
// up to its closing tag followed by a blank line, a comment, or an <hr>.
// With dispatch false it only measures.
func (p *parser) blockHTML(out *bytes.Buffer, data []byte, dispatch bool) int {
	if len(data) < 2 || data[0] != '<' {
		return 0
	}

	size := 0
	if tag, ok := blockTagName(data[1:]); ok {
		size = p.htmlBlockEnd(tag, data)
	} else {
		size = htmlSpecialBlock(data)
	}
	if size == 0 {
		return 0
	}

	if dispatch && p.d.blockHTML != nil {
		p.emit(out, ConstructBlockHTML, p.d.blockHTML.BlockHTML(string(data[:size])))
	}
	return size
}

// htmlSpecialBlock handles comments and <hr> that are followed by the end
// of their line.
func htmlSpecialBlock(data []byte) int {
	if bytes.HasPrefix(data, []byte("<!--")) {
		end := bytes.Index(data[4:], []byte("-->"))
		if end < 0 {
			return 0
		}
		i := 4 + end + 3
		if w := isEmpty(data[i:]); w > 0 || i == len(data) {
			return i + w
		}
		return 0
	}

	if len(data) > 3 && (data[1] == 'h' || data[1] == 'H') && (data[2] == 'r' || data[2] == 'R') {
		if len(data) > 3 && isAlnum(data[3]) {
			return 0
		}
		end := bytes.IndexByte(data, '>')
		if end < 0 || bytes.IndexByte(data[:end], '\n') >= 0 {
			return 0
		}
		i := end + 1
		if w := isEmpty(data[i:]); w > 0 || i == len(data) {
			return i + w
		}
	}
	return 0
}

// htmlBlockEnd finds the closing tag of tag that ends its line, and unless
// lax_spacing is set, is followed by a blank line or the end of data.
func (p *parser) htmlBlockEnd(tag string, data []byte) int {
	lax := p.opts.Enabled(options.LaxSpacing)
	i := 1
	for i < len(data) {
		j := bytes.Index(data[i:], []byte("</"))
		if j < 0 {
			return 0
		}
		i += j
		if end := closingTagEnd(tag, data[i:], lax); end > 0 {
			return i + end
		}
		i += 2
	}
	return 0
}

func closingTagEnd(tag string, data []byte, lax bool) int {
	n := len(tag)
	if len(data) < n+3 || !bytes.EqualFold(data[2:2+n], []byte(tag)) || data[2+n] != '>' {
		return 0
	}
	i := n + 3
	if i == len(data) {
		return i
	}
	w := isEmpty(data[i:])
	if w == 0 {
		return 0 // non-blank after tag
	}
	i += w
	if i >= len(data) {
		return i
	}
	w = isEmpty(data[i:])
	if w == 0 && !lax {
		return 0 // non-blank line after tag line
	}
	return i + w
}
