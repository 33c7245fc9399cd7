package config

import (
	stdErrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/options"
)

// Config is the mdrender configuration file.
type Config struct {
	// Renderer is the default renderer name (html, toc, base, links).
	Renderer   string         `yaml:"renderer"`
	Extensions map[string]any `yaml:"extensions,omitempty"`
	Output     OutputConfig   `yaml:"output"`
	Server     ServerConfig   `yaml:"server"`
	Watch      WatchConfig    `yaml:"watch"`
	Logging    LoggingConfig  `yaml:"logging"`

	opts options.Set
}

// OutputConfig controls where rendered files go.
type OutputConfig struct {
	Dir         string `yaml:"dir"`          // empty writes to stdout
	Extension   string `yaml:"extension"`    // extension of written files
	FrontMatter bool   `yaml:"front_matter"` // prepend title and fingerprint
}

// ServerConfig configures `mdrender serve`.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	MetricsPath     string        `yaml:"metrics_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WatchConfig configures `mdrender watch`.
type WatchConfig struct {
	Debounce   time.Duration `yaml:"debounce"`
	Extensions []string      `yaml:"extensions"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Options returns the validated extension Set. It is only populated by Load,
// Default and Validate.
func (c *Config) Options() options.Set {
	return c.opts
}

// Load reads configPath. Variables from a .env file in the working directory
// are loaded first (existing environment wins) and ${VAR} references in the
// file are expanded before decoding.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes, defaults and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config").Build()
	}

	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	_ = cfg.Validate()
	return cfg
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Extensions = map[string]any{
		string(options.Tables):           true,
		string(options.FencedCodeBlocks): true,
		string(options.Autolink):         true,
		string(options.Strikethrough):    true,
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

func loadEnvFile() error {
	for _, name := range []string{".env", ".env.local"} {
		err := godotenv.Load(name)
		if err == nil {
			return nil
		}
		if !stdErrors.Is(err, fs.ErrNotExist) {
			return errors.WrapError(err, errors.CategoryConfig, "failed to load env file").
				WithContext("path", name).
				Build()
		}
	}
	return nil
}
