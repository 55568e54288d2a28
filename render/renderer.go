package render

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"lexdraw/diagram"
	"lexdraw/layout"
	"lexdraw/parser"
)

// ErrNoLayout is returned when Render is called without a layout result.
var ErrNoLayout = errors.New("no layout result")

// Stats summarizes one render.
type Stats struct {
	Nodes   int
	Edges   int
	Links   int
	Dropped int
}

// Option customizes a single Render call.
type Option func(*options)

type options struct {
	image image.Image
}

// WithImage supplies the picture shown by an image template.
func WithImage(img image.Image) Option {
	return func(o *options) { o.image = img }
}

// Renderer draws diagrams onto surfaces.
type Renderer struct {
	cfg Config
	log *slog.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(cfg Config, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{cfg: cfg, log: log}
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// View returns the world rectangle a render of res covers, including the title strip.
func (r *Renderer) View(res *layout.Result) diagram.Bounds {
	view := res.Bounds().Expand(r.cfg.Margin)
	view.Max.Y += 2 * r.cfg.TitleGap
	return view
}

// Render draws d, positioned by res, onto s.
//
// Explicit edges whose endpoints cannot be resolved are dropped and counted.
// Network and decision tree diagrams only show the connectors their layout
// imposes.
func (r *Renderer) Render(d *diagram.Diagram, res *layout.Result, s Surface, opts ...Option) (Stats, error) {
	if res == nil {
		return Stats{}, ErrNoLayout
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	view := r.View(res)
	s.Begin(view, d.Title)

	var stats Stats
	if res.Type == diagram.TypeImageTemplate {
		r.drawImageTemplate(d, s, o.image)
	} else {
		var labels []pendingLabel
		stats.Links = r.drawLinks(res, s)
		if drawsEdges(res.Type) {
			stats.Edges, stats.Dropped, labels = r.drawEdges(d, res, s)
		}
		stats.Nodes = r.drawNodes(d, res, s)
		for _, l := range labels {
			s.LabelBox(l.at, l.text, r.labelFont(), r.cfg.LabelBackground)
		}
	}

	titleAt := diagram.Point{X: view.Center().X, Y: view.Max.Y - r.cfg.TitleGap}
	s.Text(titleAt, d.Title, Font{Size: r.cfg.TitleFontSize, Bold: true, Color: r.cfg.Ink}, AlignCenter)

	if stats.Dropped > 0 {
		r.log.Debug("Dropped unresolved edges", "count", stats.Dropped, "title", d.Title)
	}
	return stats, s.End()
}

func drawsEdges(t diagram.Type) bool {
	return t != diagram.TypeNetwork && t != diagram.TypeDecisionTree
}

func (r *Renderer) drawNodes(d *diagram.Diagram, res *layout.Result, s Surface) int {
	drawn := 0
	for _, n := range d.Nodes {
		p, ok := res.Positions[n.ID]
		if !ok {
			continue
		}
		size := res.Sizes[n.ID]
		fill := r.cfg.NodeColor(res.Roles[n.ID], n.Level)
		stroke := Stroke{Color: r.cfg.Ink, Width: r.cfg.OutlineWidth}

		shape := res.Shapes[n.ID]
		if n.Shape != diagram.ShapeNone {
			shape = n.Shape
		}

		switch shape {
		case diagram.ShapeDiamond:
			hw, hh := size.W/2, size.H/2
			s.Polygon([]diagram.Point{
				{X: p.X - hw, Y: p.Y},
				{X: p.X, Y: p.Y + hh},
				{X: p.X + hw, Y: p.Y},
				{X: p.X, Y: p.Y - hh},
			}, fill, stroke)
		case diagram.ShapeCircle:
			s.Circle(p, size.H/2, fill, stroke)
		default:
			s.RoundedRect(diagram.Around(p, size.W/2, size.H/2), r.cfg.CornerRadius, fill, stroke)
		}

		s.Text(p, r.nodeText(n.Text), r.nodeFont(res.Type), AlignCenter)
		drawn++
	}
	return drawn
}

func (r *Renderer) nodeText(text string) string {
	if r.cfg.WrapLength <= 0 {
		return text
	}
	return parser.FormatText(text, r.cfg.WrapLength)
}

func (r *Renderer) nodeFont(t diagram.Type) Font {
	size := r.cfg.NodeFontSize
	switch t {
	case diagram.TypeNetwork, diagram.TypeDecisionTree, diagram.TypeFramework:
		size = r.cfg.SmallFontSize
	}
	return Font{Size: size, Bold: true, Color: r.cfg.Ink}
}

func (r *Renderer) labelFont() Font {
	return Font{Size: r.cfg.LabelFontSize, Color: r.cfg.Ink}
}

func (r *Renderer) drawImageTemplate(d *diagram.Diagram, s Surface, img image.Image) {
	if img != nil {
		b := img.Bounds()
		s.Image(img, FitImage(b.Dx(), b.Dy(), layout.ImageArea))
	} else {
		s.RoundedRect(layout.ImageArea, 0, color.NRGBA{}, Stroke{Color: r.cfg.Ink, Width: 1, Dash: DashDashed})
	}

	if len(d.Nodes) == 0 {
		return
	}
	caption := strings.Join(d.NodeTexts(), "\n")
	s.LabelBox(layout.CaptionAt, caption, Font{Size: r.cfg.CaptionFontSize, Color: r.cfg.Ink}, r.cfg.CaptionBackground)
}
