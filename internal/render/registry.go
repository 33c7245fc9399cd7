package render

import (
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/foundation/normalization"
	"git.home.luguber.info/inful/mdrender/internal/options"
)

// Name identifies one of the bundled renderers.
type Name string

const (
	NameHTML  Name = "html"
	NameTOC   Name = "toc"
	NameBase  Name = "base"
	NameLinks Name = "links"
)

var names = normalization.NewEnumNormalizer("renderer", map[string]Name{
	"html":  NameHTML,
	"toc":   NameTOC,
	"base":  NameBase,
	"links": NameLinks,
}, NameHTML)

var factories = map[Name]Factory{
	NameHTML:  func(o options.Set) Renderer { return NewHTML(o) },
	NameTOC:   func(o options.Set) Renderer { return NewTOC(o) },
	NameBase:  func(o options.Set) Renderer { return NewBase(o) },
	NameLinks: func(o options.Set) Renderer { return NewLinks(o) },
}

// ParseName validates a renderer name. Empty selects html.
func ParseName(raw string) (Name, error) {
	n, err := names.NormalizeWithValidation(raw)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "unknown renderer").
			WithContext("renderer", raw).
			WithContext("valid", names.ValidValues()).
			Build()
	}
	return n, nil
}

// Names lists the bundled renderer names, sorted.
func Names() []string {
	return names.ValidValues()
}

// Lookup returns the factory for a bundled renderer.
func Lookup(raw string) (Factory, error) {
	n, err := ParseName(raw)
	if err != nil {
		return nil, err
	}
	return factories[n], nil
}
