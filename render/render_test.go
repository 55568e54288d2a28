package render

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"lexdraw/diagram"
	"lexdraw/layout"
	"lexdraw/parser"
)

// recorder is a Surface that logs every call.
type recorder struct {
	view   diagram.Bounds
	title  string
	calls  []string
	texts  []string
	labels []string
	lines  []Stroke
	heads  int
	images []diagram.Bounds
	ended  bool
}

func (r *recorder) Begin(view diagram.Bounds, title string) {
	r.view, r.title = view, title
}

func (r *recorder) RoundedRect(diagram.Bounds, float64, color.NRGBA, Stroke) {
	r.calls = append(r.calls, "rect")
}

func (r *recorder) Polygon([]diagram.Point, color.NRGBA, Stroke) {
	r.calls = append(r.calls, "polygon")
}

func (r *recorder) Circle(diagram.Point, float64, color.NRGBA, Stroke) {
	r.calls = append(r.calls, "circle")
}

func (r *recorder) Line(_, _ diagram.Point, s Stroke) {
	r.calls = append(r.calls, "line")
	r.lines = append(r.lines, s)
}

func (r *recorder) Curve(_, _, _ diagram.Point, s Stroke) {
	r.calls = append(r.calls, "curve")
	r.lines = append(r.lines, s)
}

func (r *recorder) Arrowhead(diagram.Point, diagram.Point, float64, Stroke) {
	r.heads++
}

func (r *recorder) Text(_ diagram.Point, s string, _ Font, _ Align) {
	r.texts = append(r.texts, s)
}

func (r *recorder) LabelBox(_ diagram.Point, s string, _ Font, _ color.NRGBA) {
	r.labels = append(r.labels, s)
}

func (r *recorder) Image(_ image.Image, b diagram.Bounds) {
	r.images = append(r.images, b)
}

func (r *recorder) End() error {
	r.ended = true
	return nil
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, c := range r.calls {
		if c == kind {
			n++
		}
	}
	return n
}

func render(t *testing.T, d *diagram.Diagram) (*recorder, Stats) {
	t.Helper()
	rec := &recorder{}
	stats, err := NewRenderer(DefaultConfig(), nil).Render(d, layout.Compute(d, layout.Options{}), rec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !rec.ended {
		t.Fatal("End was not called")
	}
	return rec, stats
}

func TestRenderHierarchyWithoutEdges(t *testing.T) {
	d := parser.ParseText("Law\nConstitution\nStatute\nRegulation")
	rec, stats := render(t, d)

	if stats.Nodes != 3 || stats.Links != 2 || stats.Edges != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if rec.count("rect") != 3 {
		t.Errorf("Expected 3 boxes, got %d", rec.count("rect"))
	}
	// One node per level: the elbows collapse to straight drops.
	if rec.count("line") != 2 || rec.heads != 2 {
		t.Errorf("Expected 2 lines and 2 heads, got %d and %d", rec.count("line"), rec.heads)
	}
	if rec.title != "Law" || rec.texts[len(rec.texts)-1] != "Law" {
		t.Errorf("Title not drawn: %q", rec.title)
	}
}

func TestRenderElbowLinks(t *testing.T) {
	d := &diagram.Diagram{Title: "Elbows", Nodes: []diagram.Node{
		{ID: "a", Text: "A", Level: 1},
		{ID: "b", Text: "B", Level: 2},
		{ID: "c", Text: "C", Level: 2},
	}}
	rec, stats := render(t, d)

	if stats.Links != 2 {
		t.Fatalf("Expected 2 links, got %d", stats.Links)
	}
	// a -> b turns a corner; b -> c shares a row and is straight.
	if rec.count("line") != 3 || rec.heads != 2 {
		t.Errorf("Expected 3 lines and 2 heads, got %d and %d", rec.count("line"), rec.heads)
	}
}

func TestRenderDropsUnresolvedEdges(t *testing.T) {
	d := parser.ParseText("T\nA\nB\nA -> B\nA -> Missing\nB -> B")
	_, stats := render(t, d)

	if stats.Edges != 1 {
		t.Errorf("Expected 1 drawn edge, got %d", stats.Edges)
	}
	if stats.Dropped != 2 {
		t.Errorf("Expected 2 dropped edges, got %d", stats.Dropped)
	}
	if stats.Links != 0 {
		t.Errorf("Explicit edges should suppress elbow links, got %d", stats.Links)
	}
}

func TestRenderEdgeStyles(t *testing.T) {
	d := &diagram.Diagram{
		Title:  "Styles",
		Type:   diagram.TypeFramework,
		Source: diagram.SourceAI,
		Nodes: []diagram.Node{
			{ID: "a", Text: "A", Level: 1},
			{ID: "b", Text: "B", Level: 1},
			{ID: "c", Text: "C", Level: 1},
		},
		Edges: []diagram.Edge{
			{From: "a", To: "b", Type: diagram.EdgeThick},
			{From: "b", To: "c", Type: diagram.EdgeDashed, Label: "next"},
			{From: "a", To: "c", Type: diagram.EdgeCurved, Label: "arc"},
			{From: "c", To: "a", Type: diagram.EdgeDouble},
		},
	}
	rec, stats := render(t, d)

	if stats.Edges != 4 || stats.Dropped != 0 {
		t.Fatalf("Unexpected stats %+v", stats)
	}
	if rec.lines[0].Width != 2*DefaultConfig().EdgeWidth {
		t.Errorf("Thick edge width = %v", rec.lines[0].Width)
	}
	if rec.lines[1].Dash != DashDashed {
		t.Errorf("Expected dashed stroke, got %v", rec.lines[1].Dash)
	}
	if rec.count("curve") != 1 {
		t.Errorf("Expected one curve, got %d", rec.count("curve"))
	}
	// One head per edge plus the second head of the double edge.
	if rec.heads != 5 {
		t.Errorf("Expected 5 arrowheads, got %d", rec.heads)
	}
	if strings.Join(rec.labels, ",") != "next,arc" {
		t.Errorf("Unexpected labels %v", rec.labels)
	}
}

func TestRenderNetworkIgnoresExplicitEdges(t *testing.T) {
	d := parser.ParseText("Net\nA\nB\nC\nA -> C")
	d.Type = diagram.TypeNetwork
	rec, stats := render(t, d)

	if stats.Edges != 0 || stats.Links != 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if rec.count("circle") != 3 {
		t.Errorf("Expected 3 circles, got %d", rec.count("circle"))
	}
	if rec.lines[0].Width != DefaultConfig().NetworkWidth {
		t.Errorf("Network links should be thin, got %v", rec.lines[0].Width)
	}
}

func TestRenderDecisionTreeShapes(t *testing.T) {
	d := parser.ParseText("Tree\nQ1\nR1\nQ2")
	d.Type = diagram.TypeDecisionTree
	rec, _ := render(t, d)

	if rec.count("polygon") != 2 || rec.count("rect") != 1 {
		t.Errorf("Expected 2 diamonds and 1 box, got %v", rec.calls)
	}
}

func TestRenderImageTemplate(t *testing.T) {
	d := &diagram.Diagram{Title: "Pic", Type: diagram.TypeImageTemplate, Nodes: []diagram.Node{
		{ID: "node_1", Text: "first", Level: 1},
		{ID: "node_2", Text: "second", Level: 2},
	}}
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))

	rec := &recorder{}
	_, err := NewRenderer(DefaultConfig(), nil).Render(d, layout.Compute(d, layout.Options{}), rec, WithImage(img))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(rec.images) != 1 {
		t.Fatalf("Expected one image, got %d", len(rec.images))
	}
	got := rec.images[0]
	if math.Abs(got.Width()-12) > 1e-9 || math.Abs(got.Height()-6) > 1e-9 {
		t.Errorf("Image not fitted: %+v", got)
	}
	if len(rec.labels) != 1 || rec.labels[0] != "first\nsecond" {
		t.Errorf("Unexpected caption %v", rec.labels)
	}
}

func TestRenderWithoutLayout(t *testing.T) {
	_, err := NewRenderer(DefaultConfig(), nil).Render(&diagram.Diagram{}, nil, &recorder{})
	if err != ErrNoLayout {
		t.Errorf("Expected ErrNoLayout, got %v", err)
	}
}

func TestNodeColors(t *testing.T) {
	cfg := DefaultConfig()
	if Hex(cfg.LevelColor(1)) != "#4ECDC4" {
		t.Errorf("Level 1 color = %s", Hex(cfg.LevelColor(1)))
	}
	if Hex(cfg.LevelColor(5)) != "#FF6B6B" {
		t.Errorf("Level 5 should wrap around, got %s", Hex(cfg.LevelColor(5)))
	}
	cfg.Palette = "legal"
	if Hex(cfg.LevelColor(0)) != "#2E86AB" {
		t.Errorf("Legal palette color = %s", Hex(cfg.LevelColor(0)))
	}
}

func TestPalette(t *testing.T) {
	if _, ok := Palette("pastel"); !ok {
		t.Error("Expected pastel palette")
	}
	colors, ok := Palette("neon")
	if ok || Hex(colors[0]) != "#FF6B6B" {
		t.Error("Unknown palette should fall back to default")
	}
	if got := strings.Join(PaletteNames(), ","); got != "default,legal,pastel,professional" {
		t.Errorf("Unexpected palette names %s", got)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff000080")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.NRGBA{R: 255, A: 128}) {
		t.Errorf("Unexpected color %+v", c)
	}
	if _, err := ParseHex("red"); err == nil {
		t.Error("Expected error for named color")
	}
}

func TestTransform(t *testing.T) {
	tr := NewTransform(diagram.NewBounds(-5, 5, 0, 10), 100)
	x, y := tr.Apply(diagram.Point{X: 0, Y: 10})
	if x != 500 || y != 0 {
		t.Errorf("Expected (500, 0), got (%v, %v)", x, y)
	}
	w, h := tr.Size()
	if w != 1000 || h != 1000 {
		t.Errorf("Expected 1000x1000, got %dx%d", w, h)
	}
}

func TestBoundaryClipsToShape(t *testing.T) {
	d := &diagram.Diagram{Type: diagram.TypeFlowchart, Nodes: []diagram.Node{
		{ID: "a", Text: "a", Level: 1},
		{ID: "b", Text: "b", Level: 2},
	}}
	res := layout.Compute(d, layout.Options{})

	got := boundary(res, "a", res.Positions["b"])
	if math.Abs(got.Y-9.5) > 1e-9 || got.X != 0 {
		t.Errorf("Expected bottom edge (0, 9.5), got %+v", got)
	}
}

func TestCurveControl(t *testing.T) {
	c := CurveControl(diagram.Point{X: 0, Y: 0}, diagram.Point{X: 10, Y: 0})
	if c.X != 5 || math.Abs(c.Y+2) > 1e-9 {
		t.Errorf("Expected (5, -2), got %+v", c)
	}
}
