// Package config handles loading, validating, and managing configuration
// for the herogen hero image generator.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aellingwood/herogen/internal/mixedtext"
	"github.com/spf13/viper"
)

// Config is the top-level herogen configuration.
type Config struct {
	Fonts   mixedtext.FontSet `yaml:"fonts"   mapstructure:"fonts"`
	Canvas  CanvasConfig      `yaml:"canvas"  mapstructure:"canvas"`
	Output  OutputConfig      `yaml:"output"  mapstructure:"output"`
	Content ContentConfig     `yaml:"content" mapstructure:"content"`
	Server  ServerConfig      `yaml:"server"  mapstructure:"server"`
	Deploy  DeployConfig      `yaml:"deploy"  mapstructure:"deploy"`
	Workers int               `yaml:"workers" mapstructure:"workers"`
}

// CanvasConfig controls the raster every hero is drawn on.
type CanvasConfig struct {
	Width  int     `yaml:"width"  mapstructure:"width"`
	Height int     `yaml:"height" mapstructure:"height"`
	Margin int     `yaml:"margin" mapstructure:"margin"`
	Blur   float64 `yaml:"blur"   mapstructure:"blur"`
}

// OutputConfig controls where and how rendered heroes are written.
type OutputConfig struct {
	Dir      string   `yaml:"dir"      mapstructure:"dir"`
	Formats  []string `yaml:"formats"  mapstructure:"formats"`
	Quality  int      `yaml:"quality"  mapstructure:"quality"`
	Suffix   string   `yaml:"suffix"   mapstructure:"suffix"`
	CacheDir string   `yaml:"cacheDir" mapstructure:"cacheDir"`
}

// ContentConfig points at the Markdown articles that carry hero blocks.
type ContentConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig controls the local preview server.
type ServerConfig struct {
	Port       int    `yaml:"port"       mapstructure:"port"`
	Host       string `yaml:"host"       mapstructure:"host"`
	LiveReload bool   `yaml:"livereload" mapstructure:"livereload"`
}

// DeployConfig holds the S3/CloudFront publishing target.
type DeployConfig struct {
	Profile    string           `yaml:"profile"    mapstructure:"profile"`
	S3         S3Config         `yaml:"s3"         mapstructure:"s3"`
	CloudFront CloudFrontConfig `yaml:"cloudfront" mapstructure:"cloudfront"`
}

// S3Config holds the bucket heroes are uploaded to.
type S3Config struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Region string `yaml:"region" mapstructure:"region"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// CloudFrontConfig holds the distribution invalidated after an upload.
type CloudFrontConfig struct {
	DistributionID string `yaml:"distributionId" mapstructure:"distributionId"`
}

// SupportedFormats lists the output encodings herogen can write.
var SupportedFormats = []string{"png", "webp"}

// Default returns a Config for 1920x1080 heroes written as PNG and WebP
// into public/blog-images.
func Default() *Config {
	return &Config{
		Fonts: mixedtext.DefaultFontSet(),
		Canvas: CanvasConfig{
			Width:  1920,
			Height: 1080,
			Margin: 120,
			Blur:   0.5,
		},
		Output: OutputConfig{
			Dir:      filepath.Join("public", "blog-images"),
			Formats:  []string{"png", "webp"},
			Quality:  95,
			Suffix:   "-hero",
			CacheDir: filepath.Join(".herogen", "cache"),
		},
		Content: ContentConfig{
			Dir: filepath.Join("content", "blog"),
		},
		Server: ServerConfig{
			Port:       1414,
			Host:       "localhost",
			LiveReload: true,
		},
		Deploy: DeployConfig{
			S3: S3Config{Prefix: "blog-images"},
		},
	}
}

// Load reads a configuration file from configPath (YAML or TOML) and returns
// a Config with defaults applied first and file values overlaid on top.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	v := viper.New()

	ext := strings.TrimPrefix(filepath.Ext(configPath), ".")
	switch ext {
	case "toml":
		v.SetConfigType("toml")
	default:
		v.SetConfigType("yaml")
	}

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default when configPath does
// not exist, so herogen works in a bare directory.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(configPath)
}

// Validate checks the Config for values that would make rendering fail.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("config: canvas must have positive dimensions (got %dx%d)", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Margin < 0 {
		return fmt.Errorf("config: canvas margin must not be negative (got %d)", c.Canvas.Margin)
	}
	if c.Canvas.Blur < 0 {
		return fmt.Errorf("config: canvas blur must not be negative (got %g)", c.Canvas.Blur)
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("config: output quality must be between 1 and 100 (got %d)", c.Output.Quality)
	}
	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("config: at least one output format is required")
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(SupportedFormats, strings.ToLower(f)) {
			return fmt.Errorf("config: unsupported output format %q (supported: %s)", f, strings.Join(SupportedFormats, ", "))
		}
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("config: output dir is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative (got %d)", c.Workers)
	}
	return nil
}

// WithOverrides applies CLI flag overrides to the config. Known keys are
// mapped to their corresponding struct fields. The modified config is returned
// for convenient chaining.
func (c *Config) WithOverrides(overrides map[string]any) *Config {
	for key, val := range overrides {
		switch key {
		case "destination":
			if s, ok := val.(string); ok && s != "" {
				c.Output.Dir = s
			}
		case "formats":
			if f, ok := val.([]string); ok && len(f) > 0 {
				c.Output.Formats = f
			}
		case "quality":
			if n, ok := val.(int); ok && n > 0 {
				c.Output.Quality = n
			}
		case "content":
			if s, ok := val.(string); ok && s != "" {
				c.Content.Dir = s
			}
		case "fontBasic":
			if s, ok := val.(string); ok && s != "" {
				c.Fonts.Basic = s
			}
		case "fontExtended":
			if s, ok := val.(string); ok && s != "" {
				c.Fonts.Extended = s
			}
		case "workers":
			if n, ok := val.(int); ok {
				c.Workers = n
			}
		case "port":
			if n, ok := val.(int); ok {
				c.Server.Port = n
			}
		case "host":
			if s, ok := val.(string); ok {
				c.Server.Host = s
			}
		case "livereload":
			if b, ok := val.(bool); ok {
				c.Server.LiveReload = b
			}
		}
	}
	return c
}
