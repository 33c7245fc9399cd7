package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/mdrender/internal/commonmark"
	"git.home.luguber.info/inful/mdrender/internal/frontmatter"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/options"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	Ext        []string `short:"e" name:"ext" help:"Enable an extension (repeatable)" sep:","`
	NoExt      []string `name:"no-ext" help:"Disable an extension (repeatable)" sep:","`
	CommonMark bool     `name:"commonmark" help:"Extract with the CommonMark parser instead of the native scanner"`
	JSON       bool     `name:"json" help:"Print JSON instead of a table"`
	File       string   `arg:"" name:"file" help:"Markdown file; - reads stdin"`
}

type linkJSON struct {
	Kind        string `json:"kind"`
	Destination string `json:"destination"`
	Title       string `json:"title,omitempty"`
}

func (l *LinksCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	flags := RenderFlags{Renderer: string(render.NameLinks), Ext: l.Ext, NoExt: l.NoExt}

	src, err := readSource(g, l.File)
	if err != nil {
		return err
	}

	var links []render.Link
	if l.CommonMark {
		links, err = commonMarkLinks(flags, cfg.Options(), src)
	} else {
		svc, serr := flags.service(cfg, metrics.NoopRecorder{})
		if serr != nil {
			return serr
		}
		res, rerr := svc.RenderAs(g.Context, string(render.NameLinks), l.File, src)
		if rerr != nil {
			return rerr
		}
		links = res.Links
	}
	if err != nil {
		return err
	}

	if l.JSON {
		out := make([]linkJSON, 0, len(links))
		for _, link := range links {
			out = append(out, linkJSON{Kind: string(link.Kind), Destination: link.Destination, Title: link.Title})
		}
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	for _, link := range links {
		fmt.Fprintf(tw, "%s\t%s\n", link.Kind, link.Destination)
	}
	return tw.Flush()
}

func commonMarkLinks(flags RenderFlags, base options.Set, src []byte) ([]render.Link, error) {
	set, err := flags.options(base)
	if err != nil {
		return nil, err
	}
	doc, err := frontmatter.Parse(src)
	if err != nil {
		return nil, err
	}
	if len(doc.Meta.Markdown) > 0 {
		overrides, err := options.New(doc.Meta.Markdown)
		if err != nil {
			return nil, err
		}
		set = set.Merge(overrides)
	}
	return commonmark.ExtractLinks(doc.Body, set), nil
}
