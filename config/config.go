// Package config loads the rendering settings from an optional
// YAML file and PRINTLAYOUT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/benoitkugler/printlayout/backend"
	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/html/document"
	"github.com/benoitkugler/printlayout/html/layout"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/logger"
)

// EnvPrefix is the prefix of the environment variables overriding
// the settings, like PRINTLAYOUT_PAGE_WIDTH for page.width.
const EnvPrefix = "PRINTLAYOUT"

// PageConfig overrides the size and margins given by
// the @page rules of the documents.
type PageConfig struct {
	// Width and Height, in CSS pixels. Zero values keep the page context size.
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	// Margins has one to four values, as the CSS margin shorthand.
	// Empty keeps the page context margins.
	Margins []float64 `mapstructure:"margins"`
}

// Config holds the settings of the command line tool.
type Config struct {
	Logger logger.Config `mapstructure:"logger"`
	Page   PageConfig    `mapstructure:"page"`

	// MaxPages bounds the number of pages of each document.
	MaxPages int `mapstructure:"max_pages"`
	// Medium selects the <style> elements applying.
	Medium string `mapstructure:"medium"`
	// Format is the output format, png or pdf.
	Format string `mapstructure:"format"`
	// Scale is the number of device pixels per CSS pixel in PNG output.
	Scale float64 `mapstructure:"scale"`
	// UserCSS lists the files of user stylesheets.
	UserCSS []string `mapstructure:"user_css"`
	// Concurrency is the number of documents laid out in parallel.
	Concurrency int `mapstructure:"concurrency"`
}

// SetDefaults registers the default value of every setting,
// which also enables their environment variables.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)
	v.SetDefault("logger.compress", false)

	v.SetDefault("page.width", 0)
	v.SetDefault("page.height", 0)
	v.SetDefault("page.margins", []float64{})

	v.SetDefault("max_pages", layout.DefaultMaxPages)
	v.SetDefault("medium", "print")
	v.SetDefault("format", "pdf")
	v.SetDefault("scale", 1)
	v.SetDefault("user_css", []string{})
	v.SetDefault("concurrency", 4)
}

// NewDefaultConfig returns the settings used when nothing is configured.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads the settings into `v`: defaults, then the YAML file `file`
// (optional, ./printlayout.yaml is tried when empty), then the environment.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("printlayout")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper decodes and validates the settings of `v`.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values which can't be clamped.
func (c *Config) Validate() error {
	switch c.Format {
	case "png", "pdf":
	default:
		return fmt.Errorf("format %q: %w", c.Format, backend.ErrUnknownFormat)
	}
	if c.Scale <= 0 {
		return errors.New("scale must be positive")
	}
	if c.MaxPages < 0 {
		return errors.New("max_pages must not be negative")
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	if (c.Page.Width == 0) != (c.Page.Height == 0) || c.Page.Width < 0 || c.Page.Height < 0 {
		return fmt.Errorf("page size %gx%g: width and height must be both set and positive", c.Page.Width, c.Page.Height)
	}
	if len(c.Page.Margins) > 4 {
		return fmt.Errorf("page.margins has %d values, at most 4 are expected", len(c.Page.Margins))
	}
	return nil
}

// expandMargins applies the CSS shorthand rules.
func expandMargins(values []float64) [4]pr.Float {
	var top, right, bottom, left float64
	switch len(values) {
	case 1:
		top, right, bottom, left = values[0], values[0], values[0], values[0]
	case 2:
		top, right, bottom, left = values[0], values[1], values[0], values[1]
	case 3:
		top, right, bottom, left = values[0], values[1], values[2], values[1]
	case 4:
		top, right, bottom, left = values[0], values[1], values[2], values[3]
	}
	return [4]pr.Float{pr.Float(top), pr.Float(right), pr.Float(bottom), pr.Float(left)}
}

// LayoutOptions returns the page settings.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.Options{MaxPages: c.MaxPages}
	if c.Page.Width > 0 {
		opts.PageSize = [2]pr.Float{pr.Float(c.Page.Width), pr.Float(c.Page.Height)}
	}
	if len(c.Page.Margins) != 0 {
		margins := expandMargins(c.Page.Margins)
		opts.PageMargins = &margins
	}
	return opts
}

// UserStylesheets reads and parses the files of [Config.UserCSS].
func (c *Config) UserStylesheets() ([]tree.Stylesheet, error) {
	var out []tree.Stylesheet
	for _, file := range c.UserCSS {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading user stylesheet: %w", err)
		}
		out = append(out, tree.Stylesheet{
			Origin:  tree.OriginUser,
			Matcher: tree.ParseStylesheet(string(content), c.Medium),
		})
	}
	return out, nil
}

// DocumentOptions turns the settings into options for [document.NewDocument].
func (c *Config) DocumentOptions() ([]document.Option, error) {
	sheets, err := c.UserStylesheets()
	if err != nil {
		return nil, err
	}
	return []document.Option{
		document.WithMedium(c.Medium),
		document.WithLayoutOptions(c.LayoutOptions()),
		document.WithUserStylesheets(sheets...),
	}, nil
}
