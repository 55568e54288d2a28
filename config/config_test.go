package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdraw/layout"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Sources{File: filepath.Join(t.TempDir(), DefaultFile), Getenv: env(nil)})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.AIReady(), "no key configured")
}

func TestLoadRequiredFileMissing(t *testing.T) {
	_, err := Load(Sources{File: filepath.Join(t.TempDir(), "nope.yaml"), FileRequired: true, Getenv: env(nil)})
	assert.Error(t, err)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(file, []byte(`
ai:
  model: qwen-plus
  timeout: 10s
template_dir: /srv/templates
palette: legal
scale: 150
network: grid
log:
  level: debug
`), 0o644))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DASHSCOPE_API_KEY=from-dotenv\nLEXDRAW_DPI=200\nLEXDRAW_PALETTE=pastel\n"), 0o644))

	cfg, err := Load(Sources{
		File:    file,
		EnvFile: envFile,
		Getenv:  env(map[string]string{"LEXDRAW_PALETTE": "professional"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "qwen-plus", cfg.AI.Model)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "from-dotenv", cfg.AI.APIKey)
	assert.Equal(t, "/srv/templates", cfg.TemplateDir)
	assert.Equal(t, "professional", cfg.Palette, "environment beats .env")
	assert.Equal(t, 150.0, cfg.Scale)
	assert.Equal(t, 200.0, cfg.DPI)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.True(t, cfg.AIReady())

	assert.Equal(t, layout.NetworkGrid, cfg.LayoutOptions().Network)
	assert.Equal(t, layout.FlowVertical, cfg.LayoutOptions().FlowDirection)
	assert.Equal(t, "professional", cfg.RenderConfig().Palette)
	assert.Equal(t, 150.0, cfg.ExportOptions().Scale)
	assert.Equal(t, "from-dotenv", cfg.ClientOptions().APIKey)
}

func TestAPIKeyPrecedence(t *testing.T) {
	cfg, err := Load(Sources{Getenv: env(map[string]string{
		"OPENAI_API_KEY":    "openai",
		"DASHSCOPE_API_KEY": "dashscope",
	})})
	require.NoError(t, err)
	assert.Equal(t, "dashscope", cfg.AI.APIKey)

	cfg, err = Load(Sources{Getenv: env(map[string]string{
		"OPENAI_API_KEY":  "openai",
		"LEXDRAW_API_KEY": "lexdraw",
	})})
	require.NoError(t, err)
	assert.Equal(t, "lexdraw", cfg.AI.APIKey)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad scale", map[string]string{"LEXDRAW_SCALE": "big"}},
		{"zero dpi", map[string]string{"LEXDRAW_DPI": "0"}},
		{"bad palette", map[string]string{"LEXDRAW_PALETTE": "neon"}},
		{"bad level", map[string]string{"LEXDRAW_LOG_LEVEL": "loud"}},
		{"bad format", map[string]string{"LEXDRAW_LOG_FORMAT": "xml"}},
		{"bad enabled", map[string]string{"LEXDRAW_AI_ENABLED": "maybe"}},
		{"bad timeout", map[string]string{"LEXDRAW_AI_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Sources{Getenv: env(tt.env)})
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(file, []byte("scale: [1, 2"), 0o644))
	_, err := Load(Sources{File: file, Getenv: env(nil)})
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--palette", "legal", "--scale", "250", "--no-ai", "--flow", "horizontal"}))

	cfg := Default()
	cfg.AI.APIKey = "key"
	cfg.TemplateDir = "from-file"
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, "legal", cfg.Palette)
	assert.Equal(t, 250.0, cfg.Scale)
	assert.Equal(t, "from-file", cfg.TemplateDir, "unset flags keep earlier values")
	assert.False(t, cfg.AIReady())
	assert.Equal(t, layout.FlowHorizontal, cfg.LayoutOptions().FlowDirection)

	bad := pflag.NewFlagSet("bad", pflag.ContinueOnError)
	RegisterFlags(bad)
	require.NoError(t, bad.Parse([]string{"--scale=-1"}))
	c := Default()
	assert.ErrorIs(t, c.ApplyFlags(bad), ErrInvalid)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("")
	assert.ErrorIs(t, err, ErrInvalid)
}
