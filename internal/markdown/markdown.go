package markdown

import (
	"bytes"
	"fmt"
	"log/slog"
	"reflect"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
	"git.home.luguber.info/inful/mdrender/internal/options"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// Markdown renders documents through one renderer. The renderer is bound to
// the merged option set at construction and every handler it implements is
// resolved once.
//
// Render is not safe for concurrent use when the renderer keeps per-document
// state; use one Markdown per goroutine in that case.
type Markdown struct {
	renderer render.Renderer
	opts     options.Set
	d        *dispatcher
	triggers [256]trigger
	words    bool
}

// New binds r to the union of its own options and set, with set taking
// precedence, and validates the renderer's handler signatures.
func New(r render.Renderer, set options.Set) (*Markdown, error) {
	if r == nil || isNilPointer(r) {
		return nil, errors.ConfigError("renderer is required").Build()
	}

	merged := r.Options().Merge(set)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	r.BindOptions(merged)

	d, err := newDispatcher(r)
	if err != nil {
		return nil, err
	}

	m := &Markdown{renderer: r, opts: merged, d: d}
	m.triggers, m.words = buildTriggers(d, merged)

	slog.Debug("Markdown parser ready",
		logfields.Renderer(fmt.Sprintf("%T", r)),
		logfields.Flags(merged.String()))
	return m, nil
}

// NewFromFactory builds the renderer from f and the given options.
func NewFromFactory(f render.Factory, set options.Set) (*Markdown, error) {
	if f == nil {
		return nil, errors.ConfigError("renderer factory is required").Build()
	}
	return New(f(set), set)
}

func isNilPointer(r render.Renderer) bool {
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Options returns the merged option set the renderer was bound to.
func (m *Markdown) Options() options.Set { return m.opts }

// Renderer returns the bound renderer.
func (m *Markdown) Renderer() render.Renderer { return m.renderer }

// Render converts doc. It reports false, with no output, when the
// renderer's Preprocess hook declined the document.
func (m *Markdown) Render(doc string) (string, bool) {
	out, ok, _ := m.RenderStats(doc)
	return out, ok
}

// RenderStats is Render plus the number of times each construct was
// dispatched to the renderer.
func (m *Markdown) RenderStats(doc string) (string, bool, Stats) {
	d := m.d
	if d.resetter != nil {
		d.resetter.Reset()
	}

	if d.preprocess != nil {
		var ok bool
		if doc, ok = d.preprocess.Preprocess(doc); !ok {
			return "", false, Stats{}
		}
	}

	p := &parser{
		opts:         m.opts,
		d:            d,
		refs:         newRefTable(m.opts.LabelMode()),
		triggers:     &m.triggers,
		wordTriggers: m.words,
	}
	text := p.firstPass([]byte(doc))

	var out bytes.Buffer
	out.Grow(len(text) + len(text)/2)

	if d.docHeader != nil {
		out.WriteString(d.docHeader.DocHeader())
	}
	p.parseBlock(&out, text)
	p.footnotes(&out)
	if d.docFooter != nil {
		out.WriteString(d.docFooter.DocFooter())
	}

	result := out.String()
	if d.postprocess != nil {
		result = d.postprocess.Postprocess(result)
	}
	return result, true, p.stats
}

// footnotes renders the referenced footnotes in the order they were first
// used. Footnotes referenced from inside other footnotes are appended.
func (p *parser) footnotes(out *bytes.Buffer) {
	if len(p.refs.used) == 0 {
		return
	}

	var defs bytes.Buffer
	for i := 0; i < len(p.refs.used); i++ {
		fn := p.refs.used[i]
		var body bytes.Buffer
		p.parseBlock(&body, fn.text)
		if p.d.footnoteDef != nil {
			p.emit(&defs, ConstructFootnoteDef, p.d.footnoteDef.FootnoteDef(body.String(), fn.num))
		}
	}
	if p.d.footnotes != nil {
		p.emit(out, ConstructFootnotes, p.d.footnotes.Footnotes(defs.String()))
	}
}
