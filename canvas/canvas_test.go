package canvas

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"lexdraw/diagram"
	"lexdraw/layout"
	"lexdraw/parser"
	"lexdraw/render"
)

func TestMatrixCanvas_Creation(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"Small", 10, 5},
		{"Wide", 100, 10},
		{"Tall", 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMatrixCanvas(tt.width, tt.height)

			w, h := c.Size()
			if w != tt.width || h != tt.height {
				t.Errorf("Size() = (%d, %d), want (%d, %d)", w, h, tt.width, tt.height)
			}
			for y, row := range c.Matrix() {
				for x, r := range row {
					if r != ' ' {
						t.Fatalf("Cell (%d,%d) = %c, want space", x, y, r)
					}
				}
			}
		})
	}

	if NewMatrixCanvas(0, 5) != nil {
		t.Error("Expected nil canvas for zero width")
	}
}

func TestMatrixCanvas_GetSet(t *testing.T) {
	c := NewMatrixCanvas(5, 5)

	if err := c.Set(Point{2, 2}, 'x'); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := c.Get(Point{2, 2}); got != 'x' {
		t.Errorf("Get() = %c, want x", got)
	}
	if err := c.Set(Point{5, 0}, 'x'); err != ErrOutOfBounds {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
	if got := c.Get(Point{-1, 0}); got != ' ' {
		t.Errorf("Out-of-bounds Get() = %c, want space", got)
	}
}

func TestMatrixCanvas_Merge(t *testing.T) {
	c := NewMatrixCanvas(5, 5)
	c.DrawLine(Point{0, 2}, Point{4, 2}, '─')
	c.DrawLine(Point{2, 0}, Point{2, 4}, '│')

	if got := c.Get(Point{2, 2}); got != '┼' {
		t.Errorf("Crossing = %c, want ┼", got)
	}

	c.Put(Point{0, 0}, '▶')
	c.Set(Point{0, 0}, '─')
	if got := c.Get(Point{0, 0}); got != '▶' {
		t.Errorf("Arrow was overwritten by %c", got)
	}
}

func TestMatrixCanvas_DrawBoxAndString(t *testing.T) {
	c := NewMatrixCanvas(6, 3)
	c.DrawBox(Rect{0, 0, 6, 3}, UnicodeStyle.Box)
	c.DrawText(1, 1, "abc")

	want := "╭────╮\n│abc │\n╰────╯"
	if got := c.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestMatrixCanvas_WideText(t *testing.T) {
	c := NewMatrixCanvas(6, 1)
	n := c.DrawText(0, 0, "宪法A")

	if n != 5 {
		t.Errorf("DrawText wrote %d cells, want 5", n)
	}
	if got := c.String(); got != "宪法A" {
		t.Errorf("String() = %q, want 宪法A", got)
	}

	// A wide rune that does not fit is skipped.
	narrow := NewMatrixCanvas(3, 1)
	narrow.DrawText(0, 0, "宪法")
	if got := narrow.String(); got != "宪" {
		t.Errorf("String() = %q, want 宪", got)
	}
}

func TestFitText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"Constitution", 8, "Constit…"},
		{"中华人民共和国", 6, "中华…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := FitText(tt.text, tt.width, Ellipsis); got != tt.want {
			t.Errorf("FitText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
		if MeasureText(FitText(tt.text, tt.width, Ellipsis)) > tt.width {
			t.Errorf("FitText(%q, %d) too wide", tt.text, tt.width)
		}
	}
}

func TestFitLines(t *testing.T) {
	lines := FitLines("one\ntwo\nthree", 10, 2, Ellipsis)
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two…" {
		t.Errorf("Unexpected lines %q", lines)
	}
}

func TestDetectCapabilities(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name    string
		vars    map[string]string
		unicode bool
		cjk     bool
	}{
		{"forced ascii", map[string]string{"LEXDRAW_TERMINAL_MODE": "ascii", "TERM_PROGRAM": "iTerm.app"}, false, false},
		{"iterm", map[string]string{"TERM_PROGRAM": "iTerm.app"}, true, false},
		{"dumb terminal", map[string]string{"TERM": "dumb", "LANG": "en_US.UTF-8"}, false, false},
		{"utf8 locale", map[string]string{"TERM": "xterm", "LANG": "en_US.UTF-8"}, true, false},
		{"no locale", map[string]string{"TERM": "xterm"}, false, false},
		{"chinese locale", map[string]string{"TERM": "xterm", "LANG": "zh_CN.UTF-8"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := detectCapabilities(env(tt.vars))
			if got := caps.UnicodeLevel != UnicodeNone; got != tt.unicode {
				t.Errorf("Unicode = %v, want %v", got, tt.unicode)
			}
			if caps.IsCJK != tt.cjk {
				t.Errorf("IsCJK = %v, want %v", caps.IsCJK, tt.cjk)
			}
		})
	}

	if StyleFor(ForceASCII()).Box.TopLeft != '+' {
		t.Error("ASCII capabilities should select the ASCII style")
	}
}

func renderText(t *testing.T, d *diagram.Diagram, opts TextOptions) *TextSurface {
	t.Helper()
	s := NewTextSurface(opts)
	res := layout.Compute(d, layout.Options{})
	if _, err := render.NewRenderer(render.DefaultConfig(), nil).Render(d, res, s); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return s
}

func TestTextSurfaceRendersFlowchart(t *testing.T) {
	d := parser.ParseText("Procedure\nFiling\nReview\nDecision")
	d.Type = diagram.TypeFlowchart
	s := renderText(t, d, DefaultTextOptions())
	out := s.String()

	for _, want := range []string{"Procedure", "Filing", "Review", "Decision", "▼", "╭"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}

	// Start box is painted with the start color.
	c := s.Canvas()
	found := false
	start := render.DefaultConfig().FlowStart
	for y, row := range c.Matrix() {
		for x := range row {
			if c.Paint(Point{x, y}) == start {
				found = true
			}
		}
	}
	if !found {
		t.Error("Expected cells painted with the start color")
	}
}

func TestTextSurfaceASCII(t *testing.T) {
	d := parser.ParseText("Net\nA\nB\nC")
	d.Type = diagram.TypeNetwork
	s := renderText(t, d, TextOptions{Capabilities: ForceASCII()})
	out := s.String()

	for _, r := range out {
		if r > 127 {
			t.Fatalf("Non-ASCII rune %q in ASCII output:\n%s", r, out)
		}
	}
	if !strings.Contains(out, "(") || !strings.Contains(out, ")") {
		t.Errorf("Expected circle sides in output:\n%s", out)
	}
}

func TestTextSurfaceTruncatesLongText(t *testing.T) {
	d := parser.ParseText("T\nA very long provision name that cannot fit")
	s := renderText(t, d, DefaultTextOptions())
	if !strings.Contains(s.String(), Ellipsis) {
		t.Errorf("Expected truncated text:\n%s", s.String())
	}
}

func TestTextSurfaceBeforeBegin(t *testing.T) {
	s := NewTextSurface(DefaultTextOptions())
	s.Line(diagram.Point{}, diagram.Point{X: 1}, render.Stroke{})
	if err := s.End(); err != ErrNotBegun {
		t.Errorf("Expected ErrNotBegun, got %v", err)
	}
}

func TestTextSurfaceSizeLimit(t *testing.T) {
	s := NewTextSurface(DefaultTextOptions())
	s.Begin(diagram.NewBounds(0, 4, -2e9, 2), "")
	s.RoundedRect(diagram.NewBounds(0, 2, 0, 1), 0, color.NRGBA{}, render.Stroke{})
	if err := s.End(); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
	if s.Canvas() != nil || s.String() != "" {
		t.Error("Expected no canvas for a refused view")
	}
}

func TestTextSurfaceLabel(t *testing.T) {
	s := NewTextSurface(DefaultTextOptions())
	s.Begin(diagram.NewBounds(0, 4, 0, 2), "")
	s.Line(diagram.Point{X: 0, Y: 1}, diagram.Point{X: 4, Y: 1}, render.Stroke{})
	s.LabelBox(diagram.Point{X: 2, Y: 1}, "why", render.Font{}, color.NRGBA{A: 255})

	if !strings.Contains(s.String(), "─ why ─") {
		t.Errorf("Expected label over cleared line:\n%s", s.String())
	}
}
