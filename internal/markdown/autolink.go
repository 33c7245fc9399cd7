package markdown

import (
	"bytes"
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/render"
)

var autolinkSchemes = []string{"http://", "https://", "ftp://"}

// charAutolink recognises bare URLs, www. hosts and email addresses at the
// start of a word.
func (p *parser) charAutolink(out *bytes.Buffer, data []byte, offset int) int {
	d := data[offset:]

	if p.d.autolink != nil {
		if n := scanURL(d); n > 0 {
			s, ok := p.d.autolink.Autolink(string(d[:n]), render.AutolinkURL)
			if p.span(out, ConstructAutolink, s, ok) {
				return n
			}
			return 0
		}
		if n := scanEmail(d); n > 0 {
			s, ok := p.d.autolink.Autolink(string(d[:n]), render.AutolinkEmail)
			if p.span(out, ConstructAutolink, s, ok) {
				return n
			}
			return 0
		}
	}

	if p.d.link != nil {
		if n := scanWWW(d); n > 0 {
			var content bytes.Buffer
			p.text(&content, d[:n])
			s, ok := p.d.link.Link("http://"+string(d[:n]), "", content.String())
			if p.span(out, ConstructLink, s, ok) {
				return n
			}
		}
	}
	return 0
}

func scanURL(data []byte) int {
	for _, scheme := range autolinkSchemes {
		if !hasPrefixFold(data, scheme) {
			continue
		}
		n := len(scheme)
		domain := checkDomain(data[n:], true)
		if domain == 0 {
			return 0
		}
		return autolinkEnd(data, n+domain)
	}
	return 0
}

func scanWWW(data []byte) int {
	if !hasPrefixFold(data, "www.") {
		return 0
	}
	domain := checkDomain(data, false)
	if domain == 0 {
		return 0
	}
	return autolinkEnd(data, domain)
}

func scanEmail(data []byte) int {
	i := 0
	for i < len(data) && (isAlnum(data[i]) || strings.IndexByte(".+-_", data[i]) >= 0) {
		i++
	}
	if i == 0 || i >= len(data) || data[i] != '@' {
		return 0
	}
	i++

	start, dots := i, 0
	for i < len(data) {
		c := data[i]
		switch {
		case isAlnum(c) || c == '-' || c == '_':
		case c == '.' && i+1 < len(data) && isAlnum(data[i+1]):
			dots++
		default:
			return emailEnd(data, start, i, dots)
		}
		i++
	}
	return emailEnd(data, start, i, dots)
}

func emailEnd(data []byte, start, end, dots int) int {
	if end == start || dots == 0 || !isAlpha(data[end-1]) {
		return 0
	}
	return end
}

// checkDomain measures a host name. Unless short is set it needs a dot.
func checkDomain(data []byte, short bool) int {
	if len(data) == 0 || !isAlnum(data[0]) {
		return 0
	}
	i, dots := 1, 0
	for ; i < len(data)-1; i++ {
		switch c := data[i]; {
		case c == '.' || c == '_':
			dots++
		case isAlnum(c) || c == '-':
		default:
			return domainLen(i, dots, short)
		}
	}
	return domainLen(i, dots, short)
}

func domainLen(i, dots int, short bool) int {
	if dots == 0 && !short {
		return 0
	}
	return i
}

// autolinkEnd extends a link from its host to the next space, then trims
// trailing punctuation and unbalanced closing delimiters.
func autolinkEnd(data []byte, end int) int {
	for end < len(data) && !isSpace(data[end]) && data[end] != '<' {
		end++
	}

	for end > 0 {
		c := data[end-1]
		if strings.IndexByte("?!.,:", c) >= 0 {
			end--
			continue
		}
		if c == ';' {
			// a trailing entity is not part of the link
			j := end - 2
			for j > 0 && isAlpha(data[j]) {
				j--
			}
			if j < end-2 && data[j] == '&' {
				end = j
			} else {
				end--
			}
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}

	var open byte
	switch data[end-1] {
	case ')':
		open = '('
	case ']':
		open = '['
	case '}':
		open = '{'
	case '"', '\'':
		open = data[end-1]
	default:
		return end
	}
	closer := data[end-1]
	opens := bytes.Count(data[:end], []byte{open})
	closes := bytes.Count(data[:end], []byte{closer})
	if open == closer {
		if closes%2 == 1 {
			end--
		}
	} else if closes > opens {
		end--
	}
	return end
}
