package canvas

import (
	"image/color"
	"strings"

	"github.com/mattn/go-runewidth"
)

// continuation marks the second cell of a wide character.
const continuation = '\x00'

// MatrixCanvas implements a rune matrix with simple drawing primitives and an
// optional background color per cell.
//
// MatrixCanvas is NOT thread-safe for writes.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
//
// Wide characters (CJK, emoji) occupy two cells; the second holds a
// continuation marker that String renders as nothing.
type MatrixCanvas struct {
	matrix [][]rune
	paint  [][]color.NRGBA
	width  int
	height int
	merger *CharacterMerger
	widths *runewidth.Condition
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
// It returns nil for non-positive sizes.
func NewMatrixCanvas(width, height int) *MatrixCanvas {
	if width <= 0 || height <= 0 {
		return nil
	}

	matrix := make([][]rune, height)
	paint := make([][]color.NRGBA, height)
	for y := 0; y < height; y++ {
		matrix[y] = make([]rune, width)
		paint[y] = make([]color.NRGBA, width)
		for x := 0; x < width; x++ {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		paint:  paint,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
		widths: runewidth.NewCondition(),
	}
}

// SetWidthCondition replaces the rune width rules, e.g. for East Asian terminals.
func (c *MatrixCanvas) SetWidthCondition(cond *runewidth.Condition) {
	if cond != nil {
		c.widths = cond
	}
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Matrix returns direct access to the underlying rune matrix.
func (c *MatrixCanvas) Matrix() [][]rune {
	return c.matrix
}

func (c *MatrixCanvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the character at the given position.
// Returns ' ' (space) if position is out of bounds.
func (c *MatrixCanvas) Get(p Point) rune {
	if !c.inBounds(p.X, p.Y) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Paint returns the background color of a cell. A zero alpha means none.
func (c *MatrixCanvas) Paint(p Point) color.NRGBA {
	if !c.inBounds(p.X, p.Y) {
		return color.NRGBA{}
	}
	return c.paint[p.Y][p.X]
}

// Set places a character at the given position, merging box-drawing
// characters that cross.
func (c *MatrixCanvas) Set(p Point, char rune) error {
	if !c.inBounds(p.X, p.Y) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = c.merger.Merge(c.matrix[p.Y][p.X], char)
	return nil
}

// Put places a character without merging. Out-of-bounds writes are ignored.
func (c *MatrixCanvas) Put(p Point, char rune) {
	if c.inBounds(p.X, p.Y) {
		c.matrix[p.Y][p.X] = char
	}
}

// Fill clears a rectangle and paints its background.
func (c *MatrixCanvas) Fill(r Rect, bg color.NRGBA) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if c.inBounds(x, y) {
				c.matrix[y][x] = ' '
				c.paint[y][x] = bg
			}
		}
	}
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	c.Fill(Rect{0, 0, c.width, c.height}, color.NRGBA{})
}

// String returns the canvas as a string with newlines. Trailing spaces are trimmed.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		var line strings.Builder
		for x := 0; x < c.width; x++ {
			if r := c.matrix[y][x]; r != continuation {
				line.WriteRune(r)
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		if y < c.height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// DrawBox draws a rectangle outline, clipped to the canvas. Boxes smaller
// than 2x2 cells are not drawn.
func (c *MatrixCanvas) DrawBox(r Rect, style BoxStyle) {
	if r.W < 2 || r.H < 2 {
		return
	}
	x2, y2 := r.X+r.W-1, r.Y+r.H-1

	c.Put(Point{r.X, r.Y}, style.TopLeft)
	c.Put(Point{x2, r.Y}, style.TopRight)
	c.Put(Point{r.X, y2}, style.BottomLeft)
	c.Put(Point{x2, y2}, style.BottomRight)
	for x := r.X + 1; x < x2; x++ {
		c.Put(Point{x, r.Y}, style.Horizontal)
		c.Put(Point{x, y2}, style.Horizontal)
	}
	for y := r.Y + 1; y < y2; y++ {
		c.Put(Point{r.X, y}, style.Vertical)
		c.Put(Point{x2, y}, style.Right())
	}
}

// DrawLine draws a line between two points using Bresenham's algorithm.
func (c *MatrixCanvas) DrawLine(p1, p2 Point, char rune) {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)

	x, y := p1.X, p1.Y

	xInc := 1
	if p1.X > p2.X {
		xInc = -1
	}
	yInc := 1
	if p1.Y > p2.Y {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != p2.X {
			c.Set(Point{x, y}, char)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != p2.Y {
			c.Set(Point{x, y}, char)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}

	c.Set(p2, char)
}

// DrawText renders text starting at the given cell. It returns the number of
// cells written.
func (c *MatrixCanvas) DrawText(x, y int, text string) int {
	if y < 0 || y >= c.height {
		return 0
	}

	currentX := x
	for _, r := range text {
		w := c.widths.RuneWidth(r)
		if w == 0 {
			continue
		}
		// A wide character that does not fully fit is skipped.
		if w == 2 && currentX+1 >= c.width {
			break
		}
		if currentX >= 0 && currentX < c.width {
			c.matrix[y][currentX] = r
			if w == 2 {
				c.matrix[y][currentX+1] = continuation
			}
		}
		currentX += w
		if currentX >= c.width {
			break
		}
	}

	return currentX - x
}

// MeasureText returns the display width of a string in cells.
func (c *MatrixCanvas) MeasureText(text string) int {
	return c.widths.StringWidth(text)
}
