package export

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"lexdraw/canvas"
	"lexdraw/render"
)

// Surface is a render target that can encode what was drawn on it.
type Surface interface {
	render.Surface
	Encode(w io.Writer) error
}

// Options control image export.
type Options struct {
	// Scale is the number of pixels per world unit.
	Scale float64
	// DPI converts font sizes and line widths from points to pixels.
	DPI float64
	// Quality is the JPEG quality, 1 to 100.
	Quality int
	// Text configures the character grid of text exports.
	Text canvas.TextOptions
	// Image is the picture shown by image templates.
	Image image.Image
	// Logger receives render diagnostics; nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns 100 px per unit at 100 DPI.
func DefaultOptions() Options {
	return Options{
		Scale:   100,
		DPI:     100,
		Quality: 95,
		Text:    canvas.TextOptions{Capabilities: canvas.DetectCapabilities()},
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = def.Scale
	}
	if o.DPI <= 0 {
		o.DPI = def.DPI
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = def.Quality
	}
	return o
}

// pointsToPixels returns how many pixels one typographic point covers.
func (o Options) pointsToPixels() float64 {
	return o.DPI / 72
}

// NewSurface creates the surface that renders the given image format.
func NewSurface(format Format, cfg render.Config, opts Options) (Surface, error) {
	opts = opts.withDefaults()
	switch format {
	case FormatPNG, FormatJPEG:
		return NewRasterSurface(format, cfg, opts)
	case FormatSVG:
		return NewSVGSurface(cfg, opts), nil
	case FormatPDF:
		return NewPDFSurface(cfg, opts)
	case FormatText:
		return &textSurface{TextSurface: canvas.NewTextSurface(opts.Text)}, nil
	default:
		return nil, fmt.Errorf("%w: %s is not an image format", ErrUnsupportedFormat, format)
	}
}

// textSurface adds encoding to the character-cell surface.
type textSurface struct {
	*canvas.TextSurface
}

func (s *textSurface) Encode(w io.Writer) error {
	_, err := io.WriteString(w, s.String()+"\n")
	return err
}
