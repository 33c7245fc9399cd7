package render

import "git.home.luguber.info/inful/mdrender/internal/options"

// Base carries the bound option Set and implements no construct. A renderer
// embedding only *Base renders every block construct as nothing.
type Base struct {
	opts options.Set
}

// NewBase returns a Base bound to opts.
func NewBase(opts options.Set) *Base {
	return &Base{opts: opts}
}

func (b *Base) Options() options.Set {
	return b.opts
}

func (b *Base) BindOptions(opts options.Set) {
	b.opts = opts
}

// Enabled is shorthand for b.Options().Enabled(f).
func (b *Base) Enabled(f options.Flag) bool {
	return b.opts.Enabled(f)
}
