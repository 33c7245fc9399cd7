package render

import "git.home.luguber.info/inful/mdrender/internal/options"

type LinkKind string

const (
	LinkKindInline   LinkKind = "link"
	LinkKindImage    LinkKind = "image"
	LinkKindAuto     LinkKind = "auto"
	LinkKindEmail    LinkKind = "email"
	LinkKindDangling LinkKind = "dangling"
)

type Link struct {
	Kind        LinkKind
	Destination string
	Title       string
}

// Links records every link destination of a document and renders nothing.
// Dangling references are recorded with their label as destination and
// left as literal text.
type Links struct {
	*Base
	links []Link
}

// NewLinks returns a link collector bound to opts.
func NewLinks(opts options.Set) *Links {
	return &Links{Base: NewBase(opts)}
}

// Collected returns the links seen since the last Reset, in document order.
func (l *Links) Collected() []Link {
	out := make([]Link, len(l.links))
	copy(out, l.links)
	return out
}

func (l *Links) Reset() {
	l.links = nil
}

func (l *Links) Link(link, title, _ string) (string, bool) {
	l.links = append(l.links, Link{Kind: LinkKindInline, Destination: link, Title: title})
	return "", true
}

func (l *Links) Image(link, title, _ string) (string, bool) {
	l.links = append(l.links, Link{Kind: LinkKindImage, Destination: link, Title: title})
	return "", true
}

func (l *Links) Autolink(link string, kind AutolinkKind) (string, bool) {
	k := LinkKindAuto
	if kind == AutolinkEmail {
		k = LinkKindEmail
	}
	l.links = append(l.links, Link{Kind: k, Destination: link})
	return "", true
}

func (l *Links) DanglingLinkRef(label string) (string, bool) {
	l.links = append(l.links, Link{Kind: LinkKindDangling, Destination: label})
	return "", false
}
