package validation

import (
	"fmt"
	"strings"
)

type direction uint8

const (
	north direction = 1 << iota
	east
	south
	west
)

func (d direction) opposite() direction {
	switch d {
	case north:
		return south
	case south:
		return north
	case east:
		return west
	default:
		return east
	}
}

func (d direction) String() string {
	switch d {
	case north:
		return "north"
	case east:
		return "east"
	case south:
		return "south"
	default:
		return "west"
	}
}

// unicodeLinks lists the sides each box-drawing character connects to.
var unicodeLinks = map[rune]direction{
	'─': east | west,
	'━': east | west,
	'╌': east | west,
	'┈': east | west,
	'│': north | south,
	'┃': north | south,
	'╎': north | south,
	'┊': north | south,
	'╭': east | south,
	'┌': east | south,
	'╮': west | south,
	'┐': west | south,
	'╰': north | east,
	'└': north | east,
	'╯': north | west,
	'┘': north | west,
	'├': north | south | east,
	'┤': north | south | west,
	'┬': east | west | south,
	'┴': east | west | north,
	'┼': north | east | south | west,
	'▶': west,
	'◀': east,
	'▲': south,
	'▼': north,
}

// asciiLinks are only consulted when ASCII checking is on, since these
// characters also appear in ordinary text.
var asciiLinks = map[rune]direction{
	'-': east | west,
	'|': north | south,
	'+': north | east | south | west,
	'>': west,
	'<': east,
	'^': south,
	'v': north,
}

// LineIssue is a line-drawing character whose neighbour does not connect back.
type LineIssue struct {
	X, Y    int
	Char    rune
	Message string
}

// String formats the issue with its cell position.
func (e LineIssue) String() string {
	return fmt.Sprintf("(%d,%d) '%c': %s", e.X, e.Y, e.Char, e.Message)
}

// LineValidator checks that adjacent line-drawing characters in a text
// render agree on how they connect.
type LineValidator struct {
	ascii bool
}

// NewLineValidator creates a validator. With ascii set, - | + and the ASCII
// arrows are checked as well.
func NewLineValidator(ascii bool) *LineValidator {
	return &LineValidator{ascii: ascii}
}

func (v *LineValidator) links(r rune) (direction, bool) {
	if d, ok := unicodeLinks[r]; ok {
		return d, true
	}
	if v.ascii {
		d, ok := asciiLinks[r]
		return d, ok
	}
	return 0, false
}

// Validate returns an issue for every side of a line character that points
// at another line character which does not point back. Text, spaces and
// the canvas edge are not checked. Columns are counted in runes, so rows
// holding wide characters are only checked horizontally past them.
func (v *LineValidator) Validate(text string) []LineIssue {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	grid := make([][]rune, len(lines))
	for i, line := range lines {
		grid[i] = []rune(line)
	}
	at := func(x, y int) rune {
		if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
			return ' '
		}
		return grid[y][x]
	}

	var issues []LineIssue
	for y, row := range grid {
		for x, r := range row {
			links, ok := v.links(r)
			if !ok {
				continue
			}
			for _, d := range []direction{north, east, south, west} {
				if links&d == 0 {
					continue
				}
				nx, ny := x, y
				switch d {
				case north:
					ny--
				case south:
					ny++
				case east:
					nx++
				case west:
					nx--
				}
				n := at(nx, ny)
				back, isLine := v.links(n)
				if !isLine || back&d.opposite() != 0 {
					continue
				}
				issues = append(issues, LineIssue{
					X:       x,
					Y:       y,
					Char:    r,
					Message: fmt.Sprintf("connects %s but %c does not connect back", d, n),
				})
			}
		}
	}
	return issues
}
