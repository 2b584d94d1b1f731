// Package config loads client settings from ~/.reallife/config.yaml and
// REALLIFE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/reallife-app/reallife/internal/intents"
	"github.com/reallife-app/reallife/internal/layout"
)

// EnvPrefix is prepended to every environment override, e.g. REALLIFE_API_URL.
const EnvPrefix = "REALLIFE"

// Config is the effective client configuration.
type Config struct {
	APIURL         string        `mapstructure:"api_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	Layout         Layout        `mapstructure:"layout"`
	Intents        Intents       `mapstructure:"intents"`
	Submit         Submit        `mapstructure:"submit"`
}

// Layout holds the bubble canvas parameters.
type Layout struct {
	ItemSize    float64 `mapstructure:"item_size" yaml:"item_size"`
	CanvasWidth float64 `mapstructure:"canvas_width" yaml:"canvas_width"`
	Columns     int     `mapstructure:"columns" yaml:"columns"`
	StartY      float64 `mapstructure:"start_y" yaml:"start_y"`
	MaxJitter   float64 `mapstructure:"max_jitter" yaml:"max_jitter"`
}

// Intents holds extra category→intent mappings applied over the defaults.
type Intents struct {
	Categories map[string]string `mapstructure:"categories" yaml:"categories,omitempty"`
}

// Submit tunes the submission orchestrator.
type Submit struct {
	MaxParallelJoins int `mapstructure:"max_parallel_joins" yaml:"max_parallel_joins"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := layout.Default()
	return Config{
		APIURL:         "http://localhost:4000/api",
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
		Layout: Layout{
			ItemSize:    p.ItemSize,
			CanvasWidth: p.CanvasWidth,
			Columns:     p.Columns,
			StartY:      p.StartY,
			MaxJitter:   p.MaxJitter,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("layout.item_size", d.Layout.ItemSize)
	v.SetDefault("layout.canvas_width", d.Layout.CanvasWidth)
	v.SetDefault("layout.columns", d.Layout.Columns)
	v.SetDefault("layout.start_y", d.Layout.StartY)
	v.SetDefault("layout.max_jitter", d.Layout.MaxJitter)
	v.SetDefault("intents.categories", map[string]string{})
	v.SetDefault("submit.max_parallel_joins", d.Submit.MaxParallelJoins)
}

// Load reads path (a missing file is fine), applies environment overrides
// and validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url %q must be an http(s) URL", c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.Layout.ItemSize <= 0 || c.Layout.CanvasWidth <= 0 || c.Layout.Columns <= 0 {
		return fmt.Errorf("layout.item_size, layout.canvas_width and layout.columns must be positive")
	}
	if c.Submit.MaxParallelJoins < 0 {
		return fmt.Errorf("submit.max_parallel_joins cannot be negative")
	}
	if _, err := c.Table(); err != nil {
		return fmt.Errorf("intents.categories: %w", err)
	}
	return nil
}

// Table returns the category→intent table with configured overrides.
func (c Config) Table() (intents.Table, error) {
	return intents.DefaultTable().WithOverrides(c.Intents.Categories)
}

// LayoutParams converts the layout section.
func (c Config) LayoutParams() layout.Params {
	return layout.Params{
		ItemSize:    c.Layout.ItemSize,
		CanvasWidth: c.Layout.CanvasWidth,
		Columns:     c.Layout.Columns,
		StartY:      c.Layout.StartY,
		MaxJitter:   c.Layout.MaxJitter,
	}
}

// document is the on-disk YAML shape; durations are written as strings.
type document struct {
	APIURL         string  `yaml:"api_url"`
	RequestTimeout string  `yaml:"request_timeout"`
	LogLevel       string  `yaml:"log_level"`
	Layout         Layout  `yaml:"layout"`
	Intents        Intents `yaml:"intents,omitempty"`
	Submit         Submit  `yaml:"submit"`
}

// Marshal serializes a Config to YAML bytes readable by Load.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(document{
		APIURL:         cfg.APIURL,
		RequestTimeout: cfg.RequestTimeout.String(),
		LogLevel:       cfg.LogLevel,
		Layout:         cfg.Layout,
		Intents:        cfg.Intents,
		Submit:         cfg.Submit,
	})
}
