package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"lexdraw/diagram"
	"lexdraw/render"
)

// lineSpacing is the distance between text lines as a multiple of the font height.
const lineSpacing = 1.2

type faceKey struct {
	size float64
	bold bool
}

// fontSet parses the regular and bold fonts once and caches faces per size.
type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
	dpi     float64
	faces   map[faceKey]font.Face
}

// loadFonts uses the TTF at path for both weights, or the Go fonts when path is empty.
func loadFonts(path string, dpi float64) (*fontSet, error) {
	regularTTF, boldTTF := goregular.TTF, gobold.TTF
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		regularTTF, boldTTF = data, data
	}

	regular, err := truetype.Parse(regularTTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	bold, err := truetype.Parse(boldTTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &fontSet{regular: regular, bold: bold, dpi: dpi, faces: make(map[faceKey]font.Face)}, nil
}

func (fs *fontSet) face(size float64, bold bool) font.Face {
	key := faceKey{size, bold}
	if f, ok := fs.faces[key]; ok {
		return f
	}
	ttf := fs.regular
	if bold {
		ttf = fs.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     fs.dpi,
		Hinting: font.HintingFull,
	})
	fs.faces[key] = f
	return f
}

// RasterSurface renders into a bitmap with fogleman/gg.
type RasterSurface struct {
	format Format
	cfg    render.Config
	opts   Options
	fonts  *fontSet
	tr     render.Transform
	dc     *gg.Context
	err    error
}

// NewRasterSurface creates a PNG or JPEG surface.
func NewRasterSurface(format Format, cfg render.Config, opts Options) (*RasterSurface, error) {
	if format != FormatPNG && format != FormatJPEG {
		return nil, fmt.Errorf("%w: %s is not a raster format", ErrUnsupportedFormat, format)
	}
	opts = opts.withDefaults()
	fonts, err := loadFonts(cfg.FontPath, opts.DPI)
	if err != nil {
		return nil, err
	}
	return &RasterSurface{format: format, cfg: cfg, opts: opts, fonts: fonts}, nil
}

// Bitmaps larger than this are refused rather than allocated.
const (
	maxImageSide   = 1 << 15
	maxImagePixels = 1 << 26
)

// ErrImageTooLarge is reported by End when the view does not fit a bitmap.
var ErrImageTooLarge = errors.New("image too large")

// Begin implements render.Surface.
func (s *RasterSurface) Begin(view diagram.Bounds, _ string) {
	s.tr = render.NewTransform(view, s.opts.Scale)
	fw, fh := s.tr.Length(view.Width()), s.tr.Length(view.Height())
	if !(fw <= maxImageSide && fh <= maxImageSide && fw*fh <= maxImagePixels) {
		s.err = fmt.Errorf("%w: %.0fx%.0f pixels", ErrImageTooLarge, fw, fh)
		return
	}
	w, h := s.tr.Size()
	if w <= 0 || h <= 0 {
		s.err = fmt.Errorf("invalid image size %dx%d", w, h)
		return
	}
	s.dc = gg.NewContext(w, h)
	s.dc.SetColor(s.cfg.Background)
	s.dc.Clear()
}

func (s *RasterSurface) ready() bool {
	if s.dc == nil && s.err == nil {
		s.err = fmt.Errorf("raster surface used before Begin")
	}
	return s.dc != nil
}

func (s *RasterSurface) px(pt float64) float64 {
	return pt * s.opts.pointsToPixels()
}

func (s *RasterSurface) setStroke(st render.Stroke) {
	w := s.px(st.Width)
	s.dc.SetColor(st.Color)
	s.dc.SetLineWidth(w)
	switch st.Dash {
	case render.DashDashed:
		s.dc.SetDash(4*w, 2*w)
	case render.DashDotted:
		s.dc.SetDash(w, 1.5*w)
	default:
		s.dc.SetDash()
	}
}

// fillAndStroke paints the current path.
func (s *RasterSurface) fillAndStroke(fill color.NRGBA, st render.Stroke) {
	if fill.A > 0 {
		s.dc.SetColor(fill)
		s.dc.FillPreserve()
	}
	if st.Width > 0 && st.Color.A > 0 {
		s.setStroke(st)
		s.dc.StrokePreserve()
	}
	s.dc.ClearPath()
}

// RoundedRect implements render.Surface.
func (s *RasterSurface) RoundedRect(b diagram.Bounds, radius float64, fill color.NRGBA, st render.Stroke) {
	if !s.ready() {
		return
	}
	x, y, w, h := s.tr.Rect(b)
	s.dc.DrawRoundedRectangle(x, y, w, h, s.tr.Length(radius))
	s.fillAndStroke(fill, st)
}

// Polygon implements render.Surface.
func (s *RasterSurface) Polygon(pts []diagram.Point, fill color.NRGBA, st render.Stroke) {
	if !s.ready() || len(pts) == 0 {
		return
	}
	for i, p := range pts {
		x, y := s.tr.Apply(p)
		if i == 0 {
			s.dc.MoveTo(x, y)
		} else {
			s.dc.LineTo(x, y)
		}
	}
	s.dc.ClosePath()
	s.fillAndStroke(fill, st)
}

// Circle implements render.Surface.
func (s *RasterSurface) Circle(c diagram.Point, radius float64, fill color.NRGBA, st render.Stroke) {
	if !s.ready() {
		return
	}
	x, y := s.tr.Apply(c)
	s.dc.DrawCircle(x, y, s.tr.Length(radius))
	s.fillAndStroke(fill, st)
}

// Line implements render.Surface.
func (s *RasterSurface) Line(p1, p2 diagram.Point, st render.Stroke) {
	if !s.ready() {
		return
	}
	x1, y1 := s.tr.Apply(p1)
	x2, y2 := s.tr.Apply(p2)
	s.setStroke(st)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

// Curve implements render.Surface.
func (s *RasterSurface) Curve(p1, ctrl, p2 diagram.Point, st render.Stroke) {
	if !s.ready() {
		return
	}
	x1, y1 := s.tr.Apply(p1)
	cx, cy := s.tr.Apply(ctrl)
	x2, y2 := s.tr.Apply(p2)
	s.setStroke(st)
	s.dc.MoveTo(x1, y1)
	s.dc.QuadraticTo(cx, cy, x2, y2)
	s.dc.Stroke()
}

// Arrowhead implements render.Surface.
func (s *RasterSurface) Arrowhead(tip, from diagram.Point, size float64, st render.Stroke) {
	if !s.ready() {
		return
	}
	w1, w2 := render.ArrowPoints(tip, from, size)
	tx, ty := s.tr.Apply(tip)
	x1, y1 := s.tr.Apply(w1)
	x2, y2 := s.tr.Apply(w2)
	s.dc.SetColor(st.Color)
	s.dc.MoveTo(tx, ty)
	s.dc.LineTo(x1, y1)
	s.dc.LineTo(x2, y2)
	s.dc.ClosePath()
	s.dc.Fill()
}

func (s *RasterSurface) drawLines(x, y float64, text string, f render.Font, ax float64) {
	s.dc.SetFontFace(s.fonts.face(f.Size, f.Bold))
	s.dc.SetColor(f.Color)
	lines := strings.Split(text, "\n")
	lh := s.dc.FontHeight() * lineSpacing
	top := y - lh*float64(len(lines)-1)/2
	for i, line := range lines {
		s.dc.DrawStringAnchored(line, x, top+float64(i)*lh, ax, 0.35)
	}
}

// Text implements render.Surface.
func (s *RasterSurface) Text(p diagram.Point, text string, f render.Font, align render.Align) {
	if !s.ready() {
		return
	}
	x, y := s.tr.Apply(p)
	ax := 0.5
	switch align {
	case render.AlignLeft:
		ax = 0
	case render.AlignRight:
		ax = 1
	}
	s.drawLines(x, y, text, f, ax)
}

// LabelBox implements render.Surface.
func (s *RasterSurface) LabelBox(p diagram.Point, text string, f render.Font, bg color.NRGBA) {
	if !s.ready() {
		return
	}
	x, y := s.tr.Apply(p)
	s.dc.SetFontFace(s.fonts.face(f.Size, f.Bold))
	lines := strings.Split(text, "\n")
	w := 0.0
	for _, line := range lines {
		if lw, _ := s.dc.MeasureString(line); lw > w {
			w = lw
		}
	}
	lh := s.dc.FontHeight() * lineSpacing
	h := lh * float64(len(lines))
	pad := s.dc.FontHeight() * 0.3

	s.dc.SetColor(bg)
	s.dc.DrawRoundedRectangle(x-w/2-pad, y-h/2-pad, w+2*pad, h+2*pad, pad)
	s.dc.Fill()
	s.drawLines(x, y, text, f, 0.5)
}

// Image implements render.Surface, scaling the picture into b.
func (s *RasterSurface) Image(img image.Image, b diagram.Bounds) {
	if !s.ready() || img == nil {
		return
	}
	x, y, w, h := s.tr.Rect(b)
	dst, ok := s.dc.Image().(draw.Image)
	if !ok {
		s.err = fmt.Errorf("raster surface is not drawable")
		return
	}
	rect := image.Rect(int(x), int(y), int(x+w), int(y+h))
	draw.CatmullRom.Scale(dst, rect, img, img.Bounds(), draw.Over, nil)
}

// End implements render.Surface.
func (s *RasterSurface) End() error {
	return s.err
}

// Bitmap returns the rendered image, or nil before Begin.
func (s *RasterSurface) Bitmap() image.Image {
	if s.dc == nil {
		return nil
	}
	return s.dc.Image()
}

// Encode writes the image as PNG or JPEG.
func (s *RasterSurface) Encode(w io.Writer) error {
	if s.dc == nil {
		return fmt.Errorf("raster surface has nothing to encode")
	}
	if s.format == FormatJPEG {
		// JPEG has no alpha channel; flatten onto the background.
		src := s.dc.Image()
		flat := image.NewRGBA(src.Bounds())
		draw.Draw(flat, flat.Bounds(), image.NewUniform(s.cfg.Background), image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), src, src.Bounds().Min, draw.Over)
		return jpeg.Encode(w, flat, &jpeg.Options{Quality: s.opts.Quality})
	}
	return s.dc.EncodePNG(w)
}
