// Package canvas provides a character-cell drawing surface used for plain-text
// export and the terminal preview.
package canvas

import "errors"

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
	ErrNotBegun    = errors.New("surface used before Begin")
	ErrTooLarge    = errors.New("canvas too large")
)

// Point is a cell position. Origin is top-left, Y increases downward.
type Point struct {
	X, Y int
}

// Rect is a cell rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
