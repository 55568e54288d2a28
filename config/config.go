// Package config loads lexdraw settings from, lowest to highest priority:
// built-in defaults, a YAML file, a .env file, the environment and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"lexdraw/ai"
	"lexdraw/export"
	"lexdraw/layout"
	"lexdraw/render"
)

// DefaultFile is the configuration file read when none is named.
const DefaultFile = "lexdraw.yaml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// AI configures the language model endpoint.
type AI struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Log configures logging. Format is "pretty" or "json".
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete lexdraw configuration.
type Config struct {
	AI            AI      `yaml:"ai"`
	TemplateDir   string  `yaml:"template_dir"`
	OutputDir     string  `yaml:"output_dir"`
	FontPath      string  `yaml:"font_path"`
	Palette       string  `yaml:"palette"`
	Scale         float64 `yaml:"scale"`
	DPI           float64 `yaml:"dpi"`
	Network       string  `yaml:"network"`
	FlowDirection string  `yaml:"flow_direction"`
	Log           Log     `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AI: AI{
			Enabled: true,
			BaseURL: ai.DefaultBaseURL,
			Model:   ai.DefaultModel,
			Timeout: ai.DefaultTimeout,
		},
		TemplateDir:   "templates",
		OutputDir:     "output",
		Palette:       "default",
		Scale:         100,
		DPI:           100,
		Network:       string(layout.NetworkRing),
		FlowDirection: string(layout.FlowVertical),
		Log:           Log{Level: "info", Format: "pretty"},
	}
}

// Sources names where Load reads from.
type Sources struct {
	// File is the YAML file. A missing file is an error only when FileRequired is set.
	File         string
	FileRequired bool
	// EnvFile is a .env file. Its values never replace variables already set.
	EnvFile string
	// Getenv reads the environment; nil uses os.Getenv.
	Getenv func(string) string
}

// Load builds the configuration from defaults, the YAML file, the .env file
// and the environment, then validates it.
func Load(src Sources) (Config, error) {
	cfg := Default()

	if src.File != "" {
		data, err := os.ReadFile(src.File)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !src.FileRequired:
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", src.File, err)
			}
		}
	}

	getenv := src.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if src.EnvFile != "" {
		dotenv, err := godotenv.Read(src.EnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("read %s: %w", src.EnvFile, err)
		}
		getenv = layered(getenv, dotenv)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// layered looks a key up in the environment first and the .env values second.
func layered(getenv func(string) string, dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, key, v)
		}
		*dst = f
		return nil
	}

	for _, key := range []string{"OPENAI_API_KEY", "DASHSCOPE_API_KEY", "LEXDRAW_API_KEY"} {
		str(key, &c.AI.APIKey)
	}
	str("LEXDRAW_AI_BASE_URL", &c.AI.BaseURL)
	str("LEXDRAW_AI_MODEL", &c.AI.Model)
	if v := strings.TrimSpace(getenv("LEXDRAW_AI_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: LEXDRAW_AI_ENABLED=%q", ErrInvalid, v)
		}
		c.AI.Enabled = b
	}
	if v := strings.TrimSpace(getenv("LEXDRAW_AI_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: LEXDRAW_AI_TIMEOUT=%q", ErrInvalid, v)
		}
		c.AI.Timeout = d
	}

	str("LEXDRAW_TEMPLATE_DIR", &c.TemplateDir)
	str("LEXDRAW_OUTPUT_DIR", &c.OutputDir)
	str("LEXDRAW_FONT", &c.FontPath)
	str("LEXDRAW_PALETTE", &c.Palette)
	str("LEXDRAW_NETWORK", &c.Network)
	str("LEXDRAW_FLOW", &c.FlowDirection)
	str("LEXDRAW_LOG_LEVEL", &c.Log.Level)
	str("LEXDRAW_LOG_FORMAT", &c.Log.Format)
	if err := num("LEXDRAW_SCALE", &c.Scale); err != nil {
		return err
	}
	return num("LEXDRAW_DPI", &c.DPI)
}

// Validate checks values that would otherwise fail late or silently.
func (c Config) Validate() error {
	if c.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %g", ErrInvalid, c.Scale)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %g", ErrInvalid, c.DPI)
	}
	if _, ok := render.Palette(c.Palette); !ok {
		return fmt.Errorf("%w: unknown palette %q (known: %s)", ErrInvalid, c.Palette, strings.Join(render.PaletteNames(), ", "))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("%w: log format must be pretty or json, got %q", ErrInvalid, c.Log.Format)
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("%w: negative AI timeout", ErrInvalid)
	}
	return nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
	return level, nil
}

// AIReady reports whether the AI collaborator can be used.
func (c Config) AIReady() bool {
	return c.AI.Enabled && strings.TrimSpace(c.AI.APIKey) != ""
}

// ClientOptions returns the options for the AI client.
func (c Config) ClientOptions() ai.ClientOptions {
	return ai.ClientOptions{
		APIKey:  c.AI.APIKey,
		BaseURL: c.AI.BaseURL,
		Model:   c.AI.Model,
	}
}

// RenderConfig returns the render configuration with the palette and font applied.
func (c Config) RenderConfig() render.Config {
	rc := render.DefaultConfig()
	rc.Palette = c.Palette
	rc.FontPath = c.FontPath
	return rc
}

// ExportOptions returns image export options at the configured scale and DPI.
func (c Config) ExportOptions() export.Options {
	opts := export.DefaultOptions()
	opts.Scale = c.Scale
	opts.DPI = c.DPI
	return opts
}

// LayoutOptions returns the configured layout variants.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Network:       layout.ParseNetworkVariant(c.Network),
		FlowDirection: layout.ParseDirection(c.FlowDirection),
	}
}
