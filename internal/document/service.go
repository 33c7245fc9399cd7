package document

import (
	"context"
	"log/slog"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/frontmatter"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
	"git.home.luguber.info/inful/mdrender/internal/markdown"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/options"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// unknownRenderer labels failures for names outside the registry.
const unknownRenderer = "unknown"

// Config holds the service defaults. Documents may override Renderer and
// individual extensions through their front matter.
type Config struct {
	Renderer    string
	Extensions  options.Set
	FrontMatter bool
}

// Result is one rendered document.
type Result struct {
	Name        string
	Renderer    render.Name
	Title       string
	HTML        string
	Rendered    bool
	Fingerprint string
	Stats       markdown.Stats
	Links       []render.Link
	Duration    time.Duration
}

// Service renders documents. It is safe for concurrent use: every call builds
// its own renderer.
type Service struct {
	cfg      Config
	recorder metrics.Recorder
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService validates cfg and returns a Service.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	name, err := render.ParseName(cfg.Renderer)
	if err != nil {
		return nil, err
	}
	if err := cfg.Extensions.Validate(); err != nil {
		return nil, err
	}
	cfg.Renderer = string(name)

	s := &Service{cfg: cfg, recorder: metrics.NoopRecorder{}, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Render renders src with the renderer named by its front matter or the
// configured default.
func (s *Service) Render(ctx context.Context, name string, src []byte) (*Result, error) {
	return s.RenderAs(ctx, "", name, src)
}

// RenderAs renders src with the named renderer. An empty rendererName falls
// back to the front matter and then to the configured default.
func (s *Service) RenderAs(ctx context.Context, rendererName, name string, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()
	s.recorder.ObserveDocumentSize(len(src))

	doc, err := frontmatter.Parse(src)
	if err != nil {
		s.recorder.IncRenderOutcome(s.cfg.Renderer, metrics.OutcomeFailed)
		return nil, withDocument(err, name)
	}

	if rendererName == "" {
		rendererName = doc.Meta.Renderer
	}
	if rendererName == "" {
		rendererName = s.cfg.Renderer
	}
	rname, err := render.ParseName(rendererName)
	if err != nil {
		s.recorder.IncRenderOutcome(unknownRenderer, metrics.OutcomeFailed)
		return nil, withDocument(err, name)
	}

	set := s.cfg.Extensions
	if len(doc.Meta.Markdown) > 0 {
		overrides, err := options.New(doc.Meta.Markdown)
		if err != nil {
			s.recorder.IncRenderOutcome(string(rname), metrics.OutcomeFailed)
			return nil, withDocument(err, name)
		}
		set = set.Merge(overrides)
	}

	factory, _ := render.Lookup(string(rname))
	r := factory(set)
	md, err := markdown.New(r, set)
	if err != nil {
		s.recorder.IncRenderOutcome(string(rname), metrics.OutcomeFailed)
		return nil, withDocument(err, name)
	}

	res := &Result{
		Name:        name,
		Renderer:    rname,
		Title:       doc.Meta.Title,
		Fingerprint: Fingerprint(rname, md.Options(), src),
	}
	res.HTML, res.Rendered, res.Stats = md.RenderStats(string(doc.Body))
	if links, ok := r.(*render.Links); ok {
		res.Links = links.Collected()
	}

	if res.Rendered && s.cfg.FrontMatter {
		out, err := frontmatter.Prepend(outputFields(res), []byte(res.HTML), doc.Newline)
		if err != nil {
			s.recorder.IncRenderOutcome(string(rname), metrics.OutcomeFailed)
			return nil, errors.WrapError(err, errors.CategoryRender, "failed to write output front matter").
				WithContext("document", name).
				Build()
		}
		res.HTML = string(out)
	}

	res.Duration = s.now().Sub(start)
	outcome := metrics.OutcomeRendered
	if !res.Rendered {
		outcome = metrics.OutcomeShortCircuited
	}
	s.recorder.IncRenderOutcome(string(rname), outcome)
	s.recorder.ObserveRenderDuration(string(rname), res.Duration)
	s.recorder.AddConstructs(res.Stats.Map())

	slog.Debug("Rendered document",
		logfields.Document(name),
		logfields.Renderer(string(rname)),
		logfields.Fingerprint(res.Fingerprint),
		logfields.Constructs(res.Stats.Total()),
		logfields.Bytes(len(res.HTML)),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}

// Fingerprint identifies the output of rendering src with the given renderer
// and options. Equal fingerprints imply equal output.
func Fingerprint(r render.Name, set options.Set, src []byte) string {
	return mdfp.CalculateFingerprintFromParts("renderer: "+string(r)+"\noptions: "+set.String(), string(src))
}

func outputFields(res *Result) map[string]any {
	fields := map[string]any{
		"renderer":            string(res.Renderer),
		mdfp.FingerprintField: res.Fingerprint,
	}
	if res.Title != "" {
		fields["title"] = res.Title
	}
	return fields
}

func withDocument(err error, name string) error {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.WithContext("document", name)
	}
	return errors.WrapError(err, errors.CategoryRender, "render failed").
		WithContext("document", name).
		Build()
}
