// Package terminal shows rendered diagrams in an interactive, scrollable
// terminal view.
package terminal

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"lexdraw/canvas"
)

// Page is the content of the viewer: a grid of cells with optional
// background colors and a status line. A zero rune marks the second cell
// of a wide character.
type Page struct {
	Cells      [][]rune
	Background [][]color.NRGBA
	Status     string
}

// PageFromCanvas copies a rendered canvas into a page.
func PageFromCanvas(c *canvas.MatrixCanvas, status string) Page {
	p := Page{Status: status}
	if c == nil {
		return p
	}
	w, h := c.Size()
	p.Cells = make([][]rune, h)
	p.Background = make([][]color.NRGBA, h)
	for y := 0; y < h; y++ {
		p.Cells[y] = make([]rune, w)
		p.Background[y] = make([]color.NRGBA, w)
		for x := 0; x < w; x++ {
			pt := canvas.Point{X: x, Y: y}
			p.Cells[y][x] = c.Get(pt)
			p.Background[y][x] = c.Paint(pt)
		}
	}
	return p
}

// PageFromText builds an uncolored page from plain text.
func PageFromText(text, status string) Page {
	p := Page{Status: status}
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		var row []rune
		for _, r := range line {
			row = append(row, r)
			if runewidth.RuneWidth(r) == 2 {
				row = append(row, 0)
			}
		}
		p.Cells = append(p.Cells, row)
	}
	return p
}

// Size returns the page width and height in cells.
func (p Page) Size() (w, h int) {
	for _, row := range p.Cells {
		if len(row) > w {
			w = len(row)
		}
	}
	return w, len(p.Cells)
}

func (p Page) background(x, y int) color.NRGBA {
	if y < 0 || y >= len(p.Background) || x < 0 || x >= len(p.Background[y]) {
		return color.NRGBA{}
	}
	return p.Background[y][x]
}

// scrollStep is how many columns a horizontal pan moves.
const scrollStep = 4

var helpLines = []string{
	"lexdraw preview",
	"",
	"  ← ↓ ↑ →  h j k l   pan",
	"  J K  PgDn PgUp     half page",
	"  g G  Home End      top, bottom",
	"  ?                  toggle help",
	"  q  Esc             quit",
}

// Viewer draws a page on a screen and handles navigation keys.
type Viewer struct {
	screen tcell.Screen
	page   Page
	x, y   int
	help   bool
}

// NewViewer creates a viewer on an initialized screen.
func NewViewer(screen tcell.Screen, page Page) *Viewer {
	return &Viewer{screen: screen, page: page}
}

// Offset returns the page cell shown in the top-left corner.
func (v *Viewer) Offset() (x, y int) {
	return v.x, v.y
}

// viewport returns the cells available for the page, excluding the status line.
func (v *Viewer) viewport() (w, h int) {
	w, h = v.screen.Size()
	if h > 0 {
		h--
	}
	return w, h
}

func (v *Viewer) scroll(dx, dy int) {
	pw, ph := v.page.Size()
	vw, vh := v.viewport()
	v.x = clamp(v.x+dx, 0, max(0, pw-vw))
	v.y = clamp(v.y+dy, 0, max(0, ph-vh))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HandleKey applies a key press. It reports whether the viewer should close.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	_, vh := v.viewport()
	half := max(1, vh/2)

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		v.scroll(-scrollStep, 0)
	case tcell.KeyRight:
		v.scroll(scrollStep, 0)
	case tcell.KeyUp:
		v.scroll(0, -1)
	case tcell.KeyDown:
		v.scroll(0, 1)
	case tcell.KeyPgDn, tcell.KeyCtrlD:
		v.scroll(0, half)
	case tcell.KeyPgUp, tcell.KeyCtrlU:
		v.scroll(0, -half)
	case tcell.KeyHome:
		v.x, v.y = 0, 0
	case tcell.KeyEnd:
		v.scroll(0, len(v.page.Cells))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'h':
			v.scroll(-scrollStep, 0)
		case 'l':
			v.scroll(scrollStep, 0)
		case 'k':
			v.scroll(0, -1)
		case 'j':
			v.scroll(0, 1)
		case 'J':
			v.scroll(0, half)
		case 'K':
			v.scroll(0, -half)
		case 'g':
			v.x, v.y = 0, 0
		case 'G':
			v.scroll(0, len(v.page.Cells))
		case '?':
			v.help = !v.help
		}
	}
	return false
}

// Draw paints the visible part of the page and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	vw, vh := v.viewport()

	if v.help {
		for i, line := range helpLines {
			v.drawString(0, i, line, tcell.StyleDefault)
		}
	} else {
		for sy := 0; sy < vh; sy++ {
			py := v.y + sy
			if py >= len(v.page.Cells) {
				break
			}
			row := v.page.Cells[py]
			for sx := 0; sx < vw; sx++ {
				px := v.x + sx
				if px >= len(row) {
					break
				}
				r := row[px]
				if r == 0 {
					continue
				}
				v.screen.SetContent(sx, sy, r, nil, cellStyle(v.page.background(px, py)))
			}
		}
	}

	pw, ph := v.page.Size()
	status := fmt.Sprintf(" %s │ %d,%d of %dx%d │ ? help  q quit ", v.page.Status, v.x, v.y, pw, ph)
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < vw; x++ {
		v.screen.SetContent(x, vh, ' ', nil, style)
	}
	v.drawString(0, vh, status, style)
	v.screen.Show()
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

func cellStyle(bg color.NRGBA) tcell.Style {
	if bg.A == 0 {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B))).
		Foreground(tcell.ColorBlack)
}

// Run draws the page and handles events until the user quits or ctx ends.
func (v *Viewer) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			v.scroll(0, 0)
			v.screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return nil
			}
		}
		v.Draw()
	}
}

// Preview opens the terminal, shows page until the user quits, and restores
// the terminal.
func Preview(ctx context.Context, page Page) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return NewViewer(screen, page).Run(ctx)
}
