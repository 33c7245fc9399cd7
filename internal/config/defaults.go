package config

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/mdrender/internal/render"
)

// DefaultApplier applies defaults for one configuration section.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier applies defaults across all sections.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier returns the applier for every section.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&RendererDefaultApplier{},
			&OutputDefaultApplier{},
			&ServerDefaultApplier{},
			&WatchDefaultApplier{},
			&LoggingDefaultApplier{},
		},
	}
}

func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// GetApplierByDomain returns the applier for one section, or nil.
func (c *CompositeDefaultApplier) GetApplierByDomain(domain string) DefaultApplier {
	for _, applier := range c.appliers {
		if applier.Domain() == domain {
			return applier
		}
	}
	return nil
}

type RendererDefaultApplier struct{}

func (*RendererDefaultApplier) Domain() string { return "renderer" }

func (*RendererDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Renderer == "" {
		cfg.Renderer = string(render.NameHTML)
	}
	return nil
}

type OutputDefaultApplier struct{}

func (*OutputDefaultApplier) Domain() string { return "output" }

func (*OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Extension == "" {
		cfg.Output.Extension = ".html"
	}
	return nil
}

type ServerDefaultApplier struct{}

func (*ServerDefaultApplier) Domain() string { return "server" }

func (*ServerDefaultApplier) ApplyDefaults(cfg *Config) error {
	s := &cfg.Server
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = 1 << 20
	}
	if s.MetricsPath == "" {
		s.MetricsPath = "/metrics"
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 10 * time.Second
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 5 * time.Second
	}
	return nil
}

type WatchDefaultApplier struct{}

func (*WatchDefaultApplier) Domain() string { return "watch" }

func (*WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 200 * time.Millisecond
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{".md", ".markdown"}
	}
	return nil
}

type LoggingDefaultApplier struct{}

func (*LoggingDefaultApplier) Domain() string { return "logging" }

func (*LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}
