package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"lexdraw/diagram"
	"lexdraw/render"
)

// Ellipsis marks text cut to fit a shape.
const Ellipsis = "…"

// Views needing more cells than this are refused rather than allocated.
const (
	maxCanvasSide  = 1 << 14
	maxCanvasCells = 1 << 22
)

// TextOptions control how world units map to character cells.
type TextOptions struct {
	CellsPerUnitX float64
	CellsPerUnitY float64
	Style         Style
	Capabilities  TerminalCapabilities
}

// DefaultTextOptions returns a mapping where a 3x1 box becomes 18x3 cells.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		CellsPerUnitX: 6,
		CellsPerUnitY: 3,
		Style:         UnicodeStyle,
		Capabilities:  ForceUnicode(),
	}
}

// TextSurface renders a diagram as box-drawing characters. It implements render.Surface.
type TextSurface struct {
	opts   TextOptions
	view   diagram.Bounds
	title  string
	canvas *MatrixCanvas
	shapes []Rect
	err    error
}

// NewTextSurface creates a text surface. Zero scale values take the defaults.
func NewTextSurface(opts TextOptions) *TextSurface {
	def := DefaultTextOptions()
	if opts.CellsPerUnitX <= 0 {
		opts.CellsPerUnitX = def.CellsPerUnitX
	}
	if opts.CellsPerUnitY <= 0 {
		opts.CellsPerUnitY = def.CellsPerUnitY
	}
	if opts.Style.Box.Horizontal == 0 {
		opts.Style = StyleFor(opts.Capabilities)
	}
	return &TextSurface{opts: opts}
}

// Canvas returns the underlying matrix, or nil before Begin.
func (s *TextSurface) Canvas() *MatrixCanvas {
	return s.canvas
}

// Title returns the title passed to Begin.
func (s *TextSurface) Title() string {
	return s.title
}

// String returns the rendered text.
func (s *TextSurface) String() string {
	if s.canvas == nil {
		return ""
	}
	return s.canvas.String()
}

// Begin implements render.Surface.
func (s *TextSurface) Begin(view diagram.Bounds, title string) {
	s.view, s.title = view, title
	s.canvas = nil
	fw := math.Ceil(view.Width()*s.opts.CellsPerUnitX) + 1
	fh := math.Ceil(view.Height()*s.opts.CellsPerUnitY) + 1
	if !(fw <= maxCanvasSide && fh <= maxCanvasSide && fw*fh <= maxCanvasCells) {
		s.err = fmt.Errorf("%w: %.0fx%.0f cells", ErrTooLarge, fw, fh)
		return
	}
	s.canvas = NewMatrixCanvas(int(fw), int(fh))
	if s.canvas == nil {
		s.err = ErrInvalidSize
		return
	}
	s.canvas.SetWidthCondition(s.opts.Capabilities.WidthCondition())
	s.shapes = s.shapes[:0]
}

func (s *TextSurface) ready() bool {
	if s.canvas == nil {
		if s.err == nil {
			s.err = ErrNotBegun
		}
		return false
	}
	return true
}

// cell maps a world point to its cell.
func (s *TextSurface) cell(p diagram.Point) Point {
	return Point{
		X: int(math.Round((p.X - s.view.Min.X) * s.opts.CellsPerUnitX)),
		Y: int(math.Round((s.view.Max.Y - p.Y) * s.opts.CellsPerUnitY)),
	}
}

func (s *TextSurface) rect(b diagram.Bounds) Rect {
	tl := s.cell(diagram.Point{X: b.Min.X, Y: b.Max.Y})
	br := s.cell(diagram.Point{X: b.Max.X, Y: b.Min.Y})
	return Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X + 1, H: br.Y - tl.Y + 1}
}

func (s *TextSurface) drawShape(b diagram.Bounds, fill color.NRGBA, style BoxStyle) {
	if !s.ready() {
		return
	}
	r := s.rect(b)
	if r.H < 3 {
		r.H = 3
		r.Y = s.cell(b.Center()).Y - 1
	}
	s.canvas.Fill(r, fill)
	s.canvas.DrawBox(r, style)
	s.shapes = append(s.shapes, r)
}

// RoundedRect implements render.Surface.
func (s *TextSurface) RoundedRect(b diagram.Bounds, _ float64, fill color.NRGBA, _ render.Stroke) {
	s.drawShape(b, fill, s.opts.Style.Box)
}

// Polygon implements render.Surface. Polygons are drawn in their bounding box.
func (s *TextSurface) Polygon(pts []diagram.Point, fill color.NRGBA, _ render.Stroke) {
	if len(pts) == 0 {
		return
	}
	b := diagram.Bounds{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b = b.Union(diagram.Bounds{Min: p, Max: p})
	}
	s.drawShape(b, fill, s.opts.Style.Diamond)
}

// Circle implements render.Surface.
func (s *TextSurface) Circle(c diagram.Point, radius float64, fill color.NRGBA, _ render.Stroke) {
	s.drawShape(diagram.Around(c, radius, radius*0.6), fill, s.opts.Style.Circle)
}

func (s *TextSurface) lineRune(a, b Point, dash render.Dash) rune {
	ls := s.opts.Style.Line
	horizontal := abs(b.X-a.X) >= 2*abs(b.Y-a.Y)
	vertical := abs(b.Y-a.Y) >= 2*abs(b.X-a.X)

	idx := -1
	switch {
	case horizontal:
		idx = 0
	case vertical:
		idx = 1
	}
	if idx >= 0 {
		switch dash {
		case render.DashDashed:
			return ls.Dashed[idx]
		case render.DashDotted:
			return ls.Dotted[idx]
		}
		if idx == 0 {
			return ls.Horizontal
		}
		return ls.Vertical
	}

	// Cell rows grow downward.
	if (b.X-a.X)*(b.Y-a.Y) > 0 {
		return ls.Falling
	}
	return ls.Rising
}

// Line implements render.Surface.
func (s *TextSurface) Line(p1, p2 diagram.Point, stroke render.Stroke) {
	if !s.ready() {
		return
	}
	a, b := s.cell(p1), s.cell(p2)
	s.canvas.DrawLine(a, b, s.lineRune(a, b, stroke.Dash))
}

// Curve implements render.Surface by sampling the curve.
func (s *TextSurface) Curve(p1, ctrl, p2 diagram.Point, _ render.Stroke) {
	if !s.ready() {
		return
	}
	const steps = 24
	prev := s.cell(p1)
	for i := 1; i <= steps; i++ {
		next := s.cell(render.QuadPoint(p1, ctrl, p2, float64(i)/steps))
		s.canvas.DrawLine(prev, next, s.opts.Style.Line.Curve)
		prev = next
	}
}

// Arrowhead implements render.Surface. The head sits one cell before the tip
// so it does not cover the target's outline.
func (s *TextSurface) Arrowhead(tip, from diagram.Point, _ float64, _ render.Stroke) {
	if !s.ready() {
		return
	}
	t, f := s.cell(tip), s.cell(from)
	dx, dy := t.X-f.X, t.Y-f.Y
	if dx == 0 && dy == 0 {
		return
	}

	arrows := s.opts.Style.Arrows
	var head rune
	at := t
	if abs(dx)*int(s.opts.CellsPerUnitY) >= abs(dy)*int(s.opts.CellsPerUnitX) {
		head = arrows.Right
		at.X--
		if dx < 0 {
			head = arrows.Left
			at.X += 2
		}
	} else {
		head = arrows.Down
		at.Y--
		if dy < 0 {
			head = arrows.Up
			at.Y += 2
		}
	}
	s.canvas.Put(at, head)
}

// Text implements render.Surface. Text anchored inside a shape is fitted to
// the shape's interior.
func (s *TextSurface) Text(p diagram.Point, text string, _ render.Font, align render.Align) {
	if !s.ready() {
		return
	}
	at := s.cell(p)
	w, h := 0, 0
	for i := len(s.shapes) - 1; i >= 0; i-- {
		if r := s.shapes[i]; r.Contains(at) {
			w, h = r.W-2, r.H-2
			break
		}
	}

	var lines []string
	if w > 0 {
		lines = FitLines(text, w, h, Ellipsis)
	} else {
		lines = strings.Split(text, "\n")
	}
	s.drawLines(at, lines, align)
}

// LabelBox implements render.Surface. The label is written over a cleared strip.
func (s *TextSurface) LabelBox(p diagram.Point, text string, _ render.Font, bg color.NRGBA) {
	if !s.ready() {
		return
	}
	at := s.cell(p)
	lines := strings.Split(text, "\n")
	top := at.Y - (len(lines)-1)/2
	for i, line := range lines {
		lw := s.canvas.MeasureText(line)
		s.canvas.Fill(Rect{X: at.X - lw/2 - 1, Y: top + i, W: lw + 2, H: 1}, bg)
	}
	s.drawLines(at, lines, render.AlignCenter)
}

func (s *TextSurface) drawLines(at Point, lines []string, align render.Align) {
	top := at.Y - (len(lines)-1)/2
	for i, line := range lines {
		lw := s.canvas.MeasureText(line)
		x := at.X - lw/2
		switch align {
		case render.AlignLeft:
			x = at.X
		case render.AlignRight:
			x = at.X - lw
		}
		s.canvas.DrawText(x, top+i, line)
	}
}

// Image implements render.Surface with a framed placeholder.
func (s *TextSurface) Image(img image.Image, b diagram.Bounds) {
	if !s.ready() {
		return
	}
	r := s.rect(b)
	s.canvas.Fill(r, color.NRGBA{})
	s.canvas.DrawBox(r, s.opts.Style.Box)
	label := "[image]"
	if img != nil {
		size := img.Bounds().Size()
		label = fmt.Sprintf("[image %dx%d]", size.X, size.Y)
	}
	s.drawLines(s.cell(b.Center()), []string{label}, render.AlignCenter)
}

// End implements render.Surface.
func (s *TextSurface) End() error {
	return s.err
}
