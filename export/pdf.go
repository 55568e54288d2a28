package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"lexdraw/diagram"
	"lexdraw/render"
)

// A4 landscape in points.
const (
	pageWidth  = 841.89
	pageHeight = 595.28
	pageMargin = 24.0
)

const pdfFont = "lexdraw"

// PDFSurface renders a single landscape A4 page with go-pdf/fpdf. The view is
// scaled to fit the page and centered.
type PDFSurface struct {
	cfg    render.Config
	opts   Options
	pdf    *fpdf.Fpdf
	scale  float64 // points per world unit
	origin diagram.Point
	view   diagram.Bounds
	images int
	err    error
}

// NewPDFSurface creates a PDF surface. Text uses the configured TTF, or the
// Go fonts when none is set.
func NewPDFSurface(cfg render.Config, opts Options) (*PDFSurface, error) {
	pdf := fpdf.New("L", "pt", "A4", "")
	if cfg.FontPath != "" {
		data, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		pdf.AddUTF8FontFromBytes(pdfFont, "", data)
		pdf.AddUTF8FontFromBytes(pdfFont, "B", data)
	} else {
		pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
		pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load PDF font: %w", err)
	}
	pdf.SetAutoPageBreak(false, 0)
	return &PDFSurface{cfg: cfg, opts: opts.withDefaults(), pdf: pdf}, nil
}

// Begin implements render.Surface.
func (s *PDFSurface) Begin(view diagram.Bounds, title string) {
	s.view = view
	s.pdf.SetTitle(title, true)
	s.pdf.SetCreator("lexdraw", true)
	s.pdf.AddPage()

	availW, availH := pageWidth-2*pageMargin, pageHeight-2*pageMargin
	s.scale = math.Min(availW/view.Width(), availH/view.Height())
	s.origin = diagram.Point{
		X: (pageWidth - view.Width()*s.scale) / 2,
		Y: (pageHeight - view.Height()*s.scale) / 2,
	}

	s.pdf.SetFillColor(rgb(s.cfg.Background))
	s.pdf.Rect(0, 0, pageWidth, pageHeight, "F")
}

func (s *PDFSurface) xy(p diagram.Point) (float64, float64) {
	return s.origin.X + (p.X-s.view.Min.X)*s.scale, s.origin.Y + (s.view.Max.Y-p.Y)*s.scale
}

// pt scales a width given in points at the raster scale to the page scale.
func (s *PDFSurface) pt(w float64) float64 {
	return w * s.scale / s.opts.Scale * s.opts.pointsToPixels()
}

func (s *PDFSurface) setStroke(st render.Stroke) {
	w := s.pt(st.Width)
	s.pdf.SetDrawColor(rgb(st.Color))
	s.pdf.SetLineWidth(w)
	switch st.Dash {
	case render.DashDashed:
		s.pdf.SetDashPattern([]float64{4 * w, 2 * w}, 0)
	case render.DashDotted:
		s.pdf.SetDashPattern([]float64{w, 1.5 * w}, 0)
	default:
		s.pdf.SetDashPattern([]float64{}, 0)
	}
}

// style prepares fill and stroke state and returns the fpdf style string.
func (s *PDFSurface) style(fill color.NRGBA, st render.Stroke) string {
	var style string
	if fill.A > 0 {
		s.pdf.SetFillColor(rgb(fill))
		s.pdf.SetAlpha(render.Opacity(fill), "Normal")
		style += "F"
	}
	if st.Width > 0 && st.Color.A > 0 {
		s.setStroke(st)
		style += "D"
	}
	return style
}

func (s *PDFSurface) resetAlpha() {
	s.pdf.SetAlpha(1, "Normal")
}

// RoundedRect implements render.Surface.
func (s *PDFSurface) RoundedRect(b diagram.Bounds, radius float64, fill color.NRGBA, st render.Stroke) {
	x, y := s.xy(diagram.Point{X: b.Min.X, Y: b.Max.Y})
	if style := s.style(fill, st); style != "" {
		s.pdf.RoundedRect(x, y, b.Width()*s.scale, b.Height()*s.scale, radius*s.scale, "1234", style)
	}
	s.resetAlpha()
}

// Polygon implements render.Surface.
func (s *PDFSurface) Polygon(pts []diagram.Point, fill color.NRGBA, st render.Stroke) {
	points := make([]fpdf.PointType, len(pts))
	for i, p := range pts {
		x, y := s.xy(p)
		points[i] = fpdf.PointType{X: x, Y: y}
	}
	if style := s.style(fill, st); style != "" {
		s.pdf.Polygon(points, style)
	}
	s.resetAlpha()
}

// Circle implements render.Surface.
func (s *PDFSurface) Circle(c diagram.Point, radius float64, fill color.NRGBA, st render.Stroke) {
	x, y := s.xy(c)
	if style := s.style(fill, st); style != "" {
		s.pdf.Circle(x, y, radius*s.scale, style)
	}
	s.resetAlpha()
}

// Line implements render.Surface.
func (s *PDFSurface) Line(p1, p2 diagram.Point, st render.Stroke) {
	x1, y1 := s.xy(p1)
	x2, y2 := s.xy(p2)
	s.setStroke(st)
	s.pdf.Line(x1, y1, x2, y2)
}

// Curve implements render.Surface.
func (s *PDFSurface) Curve(p1, ctrl, p2 diagram.Point, st render.Stroke) {
	x1, y1 := s.xy(p1)
	cx, cy := s.xy(ctrl)
	x2, y2 := s.xy(p2)
	s.setStroke(st)
	s.pdf.Curve(x1, y1, cx, cy, x2, y2, "D")
}

// Arrowhead implements render.Surface.
func (s *PDFSurface) Arrowhead(tip, from diagram.Point, size float64, st render.Stroke) {
	w1, w2 := render.ArrowPoints(tip, from, size)
	s.Polygon([]diagram.Point{tip, w1, w2}, st.Color, render.Stroke{})
}

func (s *PDFSurface) setFont(f render.Font) float64 {
	style := ""
	if f.Bold {
		style = "B"
	}
	size := s.pt(f.Size)
	s.pdf.SetFont(pdfFont, style, size)
	s.pdf.SetTextColor(rgb(f.Color))
	return size
}

func (s *PDFSurface) drawLines(x, y float64, text string, size float64, align render.Align) {
	lines := strings.Split(text, "\n")
	lh := size * lineSpacing
	top := y - lh*float64(len(lines)-1)/2
	for i, line := range lines {
		w := s.pdf.GetStringWidth(line)
		lx := x - w/2
		switch align {
		case render.AlignLeft:
			lx = x
		case render.AlignRight:
			lx = x - w
		}
		// Text is placed by its baseline.
		s.pdf.Text(lx, top+float64(i)*lh+size*0.35, line)
	}
}

// Text implements render.Surface.
func (s *PDFSurface) Text(p diagram.Point, text string, f render.Font, align render.Align) {
	x, y := s.xy(p)
	s.drawLines(x, y, text, s.setFont(f), align)
}

// LabelBox implements render.Surface.
func (s *PDFSurface) LabelBox(p diagram.Point, text string, f render.Font, bg color.NRGBA) {
	x, y := s.xy(p)
	size := s.setFont(f)
	lines := strings.Split(text, "\n")
	w := 0.0
	for _, line := range lines {
		w = math.Max(w, s.pdf.GetStringWidth(line))
	}
	h := size * lineSpacing * float64(len(lines))
	pad := size * 0.3

	s.pdf.SetFillColor(rgb(bg))
	s.pdf.SetAlpha(render.Opacity(bg), "Normal")
	s.pdf.RoundedRect(x-w/2-pad, y-h/2-pad, w+2*pad, h+2*pad, pad, "1234", "F")
	s.resetAlpha()
	s.drawLines(x, y, text, size, render.AlignCenter)
}

// Image implements render.Surface.
func (s *PDFSurface) Image(img image.Image, b diagram.Bounds) {
	if img == nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.err = fmt.Errorf("encode template image: %w", err)
		return
	}
	s.images++
	name := fmt.Sprintf("template-%d", s.images)
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	s.pdf.RegisterImageOptionsReader(name, opts, &buf)

	x, y := s.xy(diagram.Point{X: b.Min.X, Y: b.Max.Y})
	s.pdf.ImageOptions(name, x, y, b.Width()*s.scale, b.Height()*s.scale, false, opts, 0, "")
}

// End implements render.Surface.
func (s *PDFSurface) End() error {
	if s.err != nil {
		return s.err
	}
	return s.pdf.Error()
}

// Encode writes the PDF document.
func (s *PDFSurface) Encode(w io.Writer) error {
	return s.pdf.Output(w)
}

func rgb(c color.NRGBA) (int, int, int) {
	return int(c.R), int(c.G), int(c.B)
}
