package render

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"lexdraw/layout"
)

// Config is the complete rendering configuration. It is passed explicitly to
// the renderer and the surfaces; nothing is read from process-wide state.
type Config struct {
	// Palette names the level colors used by hierarchy diagrams.
	Palette string
	// FontPath is a TrueType font used by raster and PDF surfaces. Leave it
	// empty for the built-in Latin font; CJK text needs a font that covers it.
	FontPath string

	NodeFontSize    float64
	SmallFontSize   float64
	LabelFontSize   float64
	TitleFontSize   float64
	CaptionFontSize float64

	// Line widths in points.
	OutlineWidth float64
	EdgeWidth    float64
	NetworkWidth float64

	// Geometry in world units.
	CornerRadius float64
	ArrowSize    float64
	Margin       float64
	TitleGap     float64

	// WrapLength wraps node text on word boundaries; 0 disables wrapping.
	WrapLength int

	Ink               color.NRGBA
	Background        color.NRGBA
	LabelBackground   color.NRGBA
	CaptionBackground color.NRGBA

	FlowStart   color.NRGBA
	FlowProcess color.NRGBA
	FlowEnd     color.NRGBA
	Network     color.NRGBA
	Decision    color.NRGBA
	Result      color.NRGBA
	Framework   color.NRGBA
}

// DefaultConfig returns the standard lexdraw look.
func DefaultConfig() Config {
	return Config{
		Palette: "default",

		NodeFontSize:    10,
		SmallFontSize:   9,
		LabelFontSize:   8,
		TitleFontSize:   16,
		CaptionFontSize: 10,

		OutlineWidth: 2,
		EdgeWidth:    2,
		NetworkWidth: 1,

		CornerRadius: 0.1,
		ArrowSize:    0.25,
		Margin:       0.5,
		TitleGap:     0.8,

		WrapLength: 20,

		Ink:               MustHex("#000000"),
		Background:        MustHex("#FFFFFF"),
		LabelBackground:   withAlpha(MustHex("#FFFFFF"), 0.8),
		CaptionBackground: withAlpha(MustHex("#ADD8E6"), 0.7),

		FlowStart:   MustHex("#90EE90"),
		FlowProcess: MustHex("#87CEEB"),
		FlowEnd:     MustHex("#FFB6C1"),
		Network:     MustHex("#FFD700"),
		Decision:    MustHex("#FFA07A"),
		Result:      MustHex("#98FB98"),
		Framework:   MustHex("#E6E6FA"),
	}
}

var palettes = map[string][]string{
	"default":      {"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7"},
	"legal":        {"#2E86AB", "#A23B72", "#F18F01", "#C73E1D", "#592E83"},
	"professional": {"#34495E", "#3498DB", "#E74C3C", "#2ECC71", "#F39C12"},
	"pastel":       {"#FFB3BA", "#BAFFC9", "#BAE1FF", "#FFFFBA", "#FFB3F7"},
}

// PaletteNames returns the known palette names, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Palette returns the colors of a named palette. Unknown names return the
// default palette and false.
func Palette(name string) ([]color.NRGBA, bool) {
	hexes, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		hexes = palettes["default"]
	}
	out := make([]color.NRGBA, len(hexes))
	for i, h := range hexes {
		out[i] = MustHex(h)
	}
	return out, ok
}

// LevelColor returns the fill color for a hierarchy level.
func (c Config) LevelColor(level int) color.NRGBA {
	colors, _ := Palette(c.Palette)
	if level < 0 {
		level = -level
	}
	return colors[level%len(colors)]
}

// NodeColor returns the fill color of a node with the given layout role.
func (c Config) NodeColor(role layout.Role, level int) color.NRGBA {
	switch role {
	case layout.RoleStart:
		return c.FlowStart
	case layout.RoleEnd:
		return c.FlowEnd
	case layout.RoleProcess:
		return c.FlowProcess
	case layout.RoleMember:
		return c.Network
	case layout.RoleDecision:
		return c.Decision
	case layout.RoleResult:
		return c.Result
	case layout.RoleComponent:
		return c.Framework
	default:
		return c.LevelColor(level)
	}
}

// ParseHex parses "#RRGGBB" or "#RRGGBBAA".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xFF
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is like ParseHex but panics on malformed input. It is meant for constants.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats a color as "#RRGGBB", ignoring alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Opacity returns the alpha channel as a fraction.
func Opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(a*255 + 0.5)
	return c
}
