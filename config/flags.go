package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagConfig      = "config"
	FlagTemplateDir = "template-dir"
	FlagOutputDir   = "output-dir"
	FlagFont        = "font"
	FlagPalette     = "palette"
	FlagScale       = "scale"
	FlagDPI         = "dpi"
	FlagNetwork     = "network"
	FlagFlow        = "flow"
	FlagModel       = "model"
	FlagNoAI        = "no-ai"
	FlagLogLevel    = "log-level"
	FlagLogFormat   = "log-format"
)

// RegisterFlags adds the configuration flags to fs. Defaults shown in help
// are the built-in ones; unset flags never override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(FlagConfig, DefaultFile, "YAML configuration file")
	fs.String(FlagTemplateDir, def.TemplateDir, "directory holding template files")
	fs.String(FlagOutputDir, def.OutputDir, "directory for quick saves")
	fs.String(FlagFont, "", "TrueType font for PNG, JPEG and PDF output")
	fs.String(FlagPalette, def.Palette, "hierarchy color palette")
	fs.Float64(FlagScale, def.Scale, "pixels per layout unit")
	fs.Float64(FlagDPI, def.DPI, "dots per inch for text and line widths")
	fs.String(FlagNetwork, def.Network, "network layout: ring or grid")
	fs.String(FlagFlow, def.FlowDirection, "flowchart direction: vertical or horizontal")
	fs.String(FlagModel, def.AI.Model, "language model name")
	fs.Bool(FlagNoAI, false, "never contact the language model")
	fs.String(FlagLogLevel, def.Log.Level, "log level: debug, info, warn or error")
	fs.String(FlagLogFormat, def.Log.Format, "log format: pretty or json")
}

// ApplyFlags copies every flag the user set onto c and validates the result.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	num := func(name string, dst *float64) {
		if fs.Changed(name) {
			*dst, _ = fs.GetFloat64(name)
		}
	}

	str(FlagTemplateDir, &c.TemplateDir)
	str(FlagOutputDir, &c.OutputDir)
	str(FlagFont, &c.FontPath)
	str(FlagPalette, &c.Palette)
	str(FlagNetwork, &c.Network)
	str(FlagFlow, &c.FlowDirection)
	str(FlagModel, &c.AI.Model)
	str(FlagLogLevel, &c.Log.Level)
	str(FlagLogFormat, &c.Log.Format)
	num(FlagScale, &c.Scale)
	num(FlagDPI, &c.DPI)
	if fs.Changed(FlagNoAI) {
		if off, _ := fs.GetBool(FlagNoAI); off {
			c.AI.Enabled = false
		}
	}
	return c.Validate()
}
