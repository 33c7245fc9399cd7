package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdrender/internal/config"
	"git.home.luguber.info/inful/mdrender/internal/document"
	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/metrics"
	"git.home.luguber.info/inful/mdrender/internal/options"
)

// DefaultConfigFile is read when --config is not given and it exists.
const DefaultConfigFile = "mdrender.yaml"

// Global carries the process streams so commands can be driven from tests.
type Global struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Context is cancelled on SIGINT/SIGTERM for long-running commands.
	Context context.Context
}

// NewGlobal wires the real process streams.
func NewGlobal() *Global {
	return &Global{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Context: context.Background()}
}

// CLI is the root command line.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (default: ./mdrender.yaml when present)" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format: text or json (overrides logging.format)"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render markdown files to HTML"`
	Serve  ServeCmd  `cmd:"" help:"Serve the render API over HTTP"`
	Watch  WatchCmd  `cmd:"" help:"Re-render markdown files in a directory when they change"`
	Links  LinksCmd  `cmd:"" help:"List the link destinations of a markdown file"`
	Flags  FlagsCmd  `cmd:"" help:"List the available extension and render flags"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`

	cfg *config.Config
}

// AfterApply runs after flag parsing; it installs the default logger.
func (c *CLI) AfterApply() error {
	c.setupLogging(nil)
	return nil
}

func (c *CLI) setupLogging(cfg *config.Config) {
	level := config.LogLevelInfo
	format := config.NormalizeLogFormat(c.LogFormat)
	if cfg != nil {
		level = cfg.Logging.Level
		if c.LogFormat == "" {
			format = cfg.Logging.Format
		}
	}
	if c.Verbose {
		level = config.LogLevelDebug
	}

	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// LoadConfig reads the configuration once and reapplies its logging section.
func (c *CLI) LoadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	path := c.Config
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
		slog.Debug("Loaded configuration", slog.String("path", path))
	}
	c.setupLogging(cfg)
	c.cfg = cfg
	return cfg, nil
}

// RenderFlags are the per-invocation overrides shared by the rendering
// commands.
type RenderFlags struct {
	Renderer    string   `short:"r" help:"Renderer (html, toc, base, links)"`
	Ext         []string `short:"e" name:"ext" help:"Enable an extension or render flag (repeatable)" sep:","`
	NoExt       []string `name:"no-ext" help:"Disable an extension or render flag (repeatable)" sep:","`
	FrontMatter *bool    `name:"front-matter" help:"Prepend title and fingerprint front matter to the output"`
}

// service builds a document.Service from cfg with f applied on top.
func (f RenderFlags) service(cfg *config.Config, recorder metrics.Recorder) (*document.Service, error) {
	set, err := f.options(cfg.Options())
	if err != nil {
		return nil, err
	}
	dc := document.Config{
		Renderer:    cfg.Renderer,
		Extensions:  set,
		FrontMatter: cfg.Output.FrontMatter,
	}
	if f.Renderer != "" {
		dc.Renderer = f.Renderer
	}
	if f.FrontMatter != nil {
		dc.FrontMatter = *f.FrontMatter
	}
	return document.NewService(dc, document.WithRecorder(recorder))
}

func (f RenderFlags) options(base options.Set) (options.Set, error) {
	if len(f.Ext) == 0 && len(f.NoExt) == 0 {
		return base, nil
	}
	overrides := make(map[string]any, len(f.Ext)+len(f.NoExt))
	for _, name := range f.Ext {
		overrides[name] = true
	}
	for _, name := range f.NoExt {
		if _, clash := overrides[name]; clash {
			return options.Set{}, errors.ValidationError("flag both enabled and disabled").
				WithContext("flag", name).
				Build()
		}
		overrides[name] = false
	}
	set, err := options.New(overrides)
	if err != nil {
		return options.Set{}, err
	}
	merged := base.Merge(set)
	return merged, merged.Validate()
}
