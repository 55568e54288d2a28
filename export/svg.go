package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"lexdraw/diagram"
	"lexdraw/render"
)

// SVGSurface renders into a standalone SVG document.
type SVGSurface struct {
	cfg     render.Config
	opts    Options
	tr      render.Transform
	title   string
	body    bytes.Buffer
	markers map[string]bool
	order   []string
	err     error
}

// NewSVGSurface creates an SVG surface.
func NewSVGSurface(cfg render.Config, opts Options) *SVGSurface {
	return &SVGSurface{cfg: cfg, opts: opts.withDefaults(), markers: make(map[string]bool)}
}

// Begin implements render.Surface.
func (s *SVGSurface) Begin(view diagram.Bounds, title string) {
	s.tr = render.NewTransform(view, s.opts.Scale)
	s.title = title
	s.body.Reset()
}

func (s *SVGSurface) px(pt float64) float64 {
	return pt * s.opts.pointsToPixels()
}

func (s *SVGSurface) xy(p diagram.Point) (float64, float64) {
	return s.tr.Apply(p)
}

func paint(c color.NRGBA) string {
	if c.A == 0 {
		return `"none"`
	}
	if c.A == 255 {
		return fmt.Sprintf(`"%s"`, render.Hex(c))
	}
	return fmt.Sprintf(`"%s" fill-opacity="%.2f"`, render.Hex(c), render.Opacity(c))
}

func (s *SVGSurface) strokeAttrs(st render.Stroke) string {
	attrs := fmt.Sprintf(`stroke="%s" stroke-width="%.2f"`, render.Hex(st.Color), s.px(st.Width))
	switch st.Dash {
	case render.DashDashed:
		attrs += fmt.Sprintf(` stroke-dasharray="%.1f,%.1f"`, 4*s.px(st.Width), 2*s.px(st.Width))
	case render.DashDotted:
		attrs += fmt.Sprintf(` stroke-dasharray="%.1f,%.1f"`, s.px(st.Width), 1.5*s.px(st.Width))
	}
	return attrs
}

// RoundedRect implements render.Surface.
func (s *SVGSurface) RoundedRect(b diagram.Bounds, radius float64, fill color.NRGBA, st render.Stroke) {
	x, y, w, h := s.tr.Rect(b)
	r := s.tr.Length(radius)
	s.body.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill=%s %s/>`+"\n",
		x, y, w, h, r, paint(fill), s.strokeAttrs(st)))
}

// Polygon implements render.Surface.
func (s *SVGSurface) Polygon(pts []diagram.Point, fill color.NRGBA, st render.Stroke) {
	coords := make([]string, len(pts))
	for i, p := range pts {
		x, y := s.xy(p)
		coords[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	s.body.WriteString(fmt.Sprintf(`<polygon points="%s" fill=%s %s/>`+"\n",
		strings.Join(coords, " "), paint(fill), s.strokeAttrs(st)))
}

// Circle implements render.Surface.
func (s *SVGSurface) Circle(c diagram.Point, radius float64, fill color.NRGBA, st render.Stroke) {
	x, y := s.xy(c)
	s.body.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill=%s %s/>`+"\n",
		x, y, s.tr.Length(radius), paint(fill), s.strokeAttrs(st)))
}

// Line implements render.Surface.
func (s *SVGSurface) Line(p1, p2 diagram.Point, st render.Stroke) {
	x1, y1 := s.xy(p1)
	x2, y2 := s.xy(p2)
	s.body.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" %s/>`+"\n",
		x1, y1, x2, y2, s.strokeAttrs(st)))
}

// Curve implements render.Surface.
func (s *SVGSurface) Curve(p1, ctrl, p2 diagram.Point, st render.Stroke) {
	x1, y1 := s.xy(p1)
	cx, cy := s.xy(ctrl)
	x2, y2 := s.xy(p2)
	s.body.WriteString(fmt.Sprintf(`<path d="M %.2f %.2f Q %.2f %.2f %.2f %.2f" fill="none" %s/>`+"\n",
		x1, y1, cx, cy, x2, y2, s.strokeAttrs(st)))
}

// marker returns the id of the arrowhead marker for a color, defining it on first use.
func (s *SVGSurface) marker(c color.NRGBA) string {
	id := "arrowhead-" + strings.TrimPrefix(render.Hex(c), "#")
	if !s.markers[id] {
		s.markers[id] = true
		s.order = append(s.order, id)
	}
	return id
}

// Arrowhead implements render.Surface with a marker on a short invisible segment.
func (s *SVGSurface) Arrowhead(tip, from diagram.Point, size float64, st render.Stroke) {
	d := tip.Sub(from)
	l := d.Len()
	if l == 0 {
		return
	}
	base := tip.Sub(d.Scale(size / l))
	x1, y1 := s.xy(base)
	x2, y2 := s.xy(tip)
	s.body.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="none" stroke-width="%.2f" marker-end="url(#%s)"/>`+"\n",
		x1, y1, x2, y2, s.tr.Length(size), s.marker(st.Color)))
}

func (s *SVGSurface) fontPx(f render.Font) float64 {
	return s.px(f.Size)
}

func (s *SVGSurface) writeText(x, y float64, text string, f render.Font, anchor string) {
	size := s.fontPx(f)
	weight := "normal"
	if f.Bold {
		weight = "bold"
	}
	lines := strings.Split(text, "\n")
	lh := size * 1.2
	s.body.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" font-weight="%s" fill="%s" text-anchor="%s" dominant-baseline="central">`,
		x, y-lh*float64(len(lines)-1)/2, size, weight, render.Hex(f.Color), anchor))
	for i, line := range lines {
		dy := 0.0
		if i > 0 {
			dy = lh
		}
		s.body.WriteString(fmt.Sprintf(`<tspan x="%.2f" dy="%.2f">%s</tspan>`, x, dy, html.EscapeString(line)))
	}
	s.body.WriteString("</text>\n")
}

// Text implements render.Surface.
func (s *SVGSurface) Text(p diagram.Point, text string, f render.Font, align render.Align) {
	x, y := s.xy(p)
	anchor := "middle"
	switch align {
	case render.AlignLeft:
		anchor = "start"
	case render.AlignRight:
		anchor = "end"
	}
	s.writeText(x, y, text, f, anchor)
}

// estimateWidth approximates the rendered width of text in pixels.
func estimateWidth(text string, sizePx float64) float64 {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > widest {
			widest = w
		}
	}
	return float64(widest) * sizePx * 0.6
}

// LabelBox implements render.Surface.
func (s *SVGSurface) LabelBox(p diagram.Point, text string, f render.Font, bg color.NRGBA) {
	x, y := s.xy(p)
	size := s.fontPx(f)
	pad := size * 0.3
	w := estimateWidth(text, size) + 2*pad
	h := size*1.2*float64(strings.Count(text, "\n")+1) + 2*pad
	s.body.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill=%s stroke="none"/>`+"\n",
		x-w/2, y-h/2, w, h, pad, paint(bg)))
	s.writeText(x, y, text, f, "middle")
}

// Image implements render.Surface by embedding the picture as a PNG data URI.
func (s *SVGSurface) Image(img image.Image, b diagram.Bounds) {
	if img == nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.err = fmt.Errorf("encode template image: %w", err)
		return
	}
	x, y, w, h := s.tr.Rect(b)
	s.body.WriteString(fmt.Sprintf(`<image x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="none" href="data:image/png;base64,%s"/>`+"\n",
		x, y, w, h, base64.StdEncoding.EncodeToString(buf.Bytes())))
}

// End implements render.Surface.
func (s *SVGSurface) End() error {
	return s.err
}

// Encode writes the SVG document.
func (s *SVGSurface) Encode(w io.Writer) error {
	width, height := s.tr.Size()

	var doc bytes.Buffer
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	doc.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height))
	if s.title != "" {
		doc.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(s.title)))
	}
	if len(s.order) > 0 {
		doc.WriteString("<defs>\n")
		for _, id := range s.order {
			hex := "#" + strings.TrimPrefix(id, "arrowhead-")
			doc.WriteString(fmt.Sprintf(`<marker id="%s" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="1" markerHeight="1" orient="auto">`, id))
			doc.WriteString(fmt.Sprintf(`<path d="M 0 1 L 10 5 L 0 9 z" fill="%s"/></marker>`+"\n", hex))
		}
		doc.WriteString("</defs>\n")
	}
	doc.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill=%s/>`+"\n", paint(s.cfg.Background)))
	doc.Write(s.body.Bytes())
	doc.WriteString("</svg>\n")

	_, err := w.Write(doc.Bytes())
	return err
}
