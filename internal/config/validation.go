package config

import (
	"strings"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/options"
	"git.home.luguber.info/inful/mdrender/internal/render"
)

// Validate checks every section and caches the extension Set. Renderer
// names are canonicalised in place.
func (c *Config) Validate() error {
	name, err := render.ParseName(c.Renderer)
	if err != nil {
		return err
	}
	c.Renderer = string(name)

	set, err := options.New(c.Extensions)
	if err != nil {
		return err
	}
	c.opts = set

	if !strings.HasPrefix(c.Output.Extension, ".") {
		return errors.ValidationError("output.extension must start with a dot").
			WithContext("extension", c.Output.Extension).
			Build()
	}
	if !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return errors.ValidationError("server.metrics_path must be absolute").
			WithContext("metrics_path", c.Server.MetricsPath).
			Build()
	}
	switch c.Server.MetricsPath {
	case "/render", "/health":
		return errors.ValidationError("server.metrics_path collides with a built-in route").
			WithContext("metrics_path", c.Server.MetricsPath).
			Build()
	}
	for _, ext := range c.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.ValidationError("watch.extensions entries must start with a dot").
				WithContext("extension", ext).
				Build()
		}
	}
	return nil
}
