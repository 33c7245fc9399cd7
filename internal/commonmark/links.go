// Package commonmark extracts link destinations with goldmark, a strict
// CommonMark parser. `mdrender links --commonmark` uses it to cross-check
// the native scanner's view of a document.
package commonmark

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdrender/internal/options"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// newMarkdown maps the parse flags goldmark has equivalents for.
func newMarkdown(set options.Set) goldmark.Markdown {
	var exts []goldmark.Extender
	if set.Enabled(options.Tables) {
		exts = append(exts, extension.Table)
	}
	if set.Enabled(options.Strikethrough) {
		exts = append(exts, extension.Strikethrough)
	}
	if set.Enabled(options.Autolink) {
		exts = append(exts, extension.Linkify)
	}
	if set.Enabled(options.Footnotes) {
		exts = append(exts, extension.Footnote)
	}
	return goldmark.New(goldmark.WithExtensions(exts...))
}

// ExtractLinks parses body (front matter already removed) and returns its
// links, images and autolinks in document order. Reference links are
// reported with their resolved destination.
func ExtractLinks(body []byte, set options.Set) []render.Link {
	md := newMarkdown(set)
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(parser.NewContext()))

	links := make([]render.Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			kind := render.LinkKindAuto
			dest := string(node.URL(body))
			if node.AutoLinkType == gmast.AutoLinkEmail {
				kind = render.LinkKindEmail
				dest = string(node.Label(body))
			}
			links = append(links, render.Link{Kind: kind, Destination: dest})
		case *gmast.Image:
			links = append(links, render.Link{Kind: render.LinkKindImage, Destination: string(node.Destination), Title: string(node.Title)})
		case *gmast.Link:
			links = append(links, render.Link{Kind: render.LinkKindInline, Destination: string(node.Destination), Title: string(node.Title)})
		}
		return gmast.WalkContinue, nil
	})
	return links
}
