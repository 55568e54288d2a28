package render

import (
	"math"

	"lexdraw/diagram"
)

// Transform maps world coordinates (y up) to device coordinates (y down).
type Transform struct {
	View  diagram.Bounds
	Scale float64 // device units per world unit
}

// NewTransform creates a transform for view at scale device units per world unit.
func NewTransform(view diagram.Bounds, scale float64) Transform {
	if scale <= 0 {
		scale = 1
	}
	return Transform{View: view, Scale: scale}
}

// Apply converts a world point to device coordinates.
func (t Transform) Apply(p diagram.Point) (float64, float64) {
	return (p.X - t.View.Min.X) * t.Scale, (t.View.Max.Y - p.Y) * t.Scale
}

// Length converts a world length to device units.
func (t Transform) Length(l float64) float64 {
	return l * t.Scale
}

// Rect converts world bounds to a device rectangle (x, y of the top-left corner, w, h).
func (t Transform) Rect(b diagram.Bounds) (x, y, w, h float64) {
	x, y = t.Apply(diagram.Point{X: b.Min.X, Y: b.Max.Y})
	return x, y, t.Length(b.Width()), t.Length(b.Height())
}

// Size returns the device size of the whole view, rounded up.
func (t Transform) Size() (int, int) {
	return int(math.Ceil(t.Length(t.View.Width()))), int(math.Ceil(t.Length(t.View.Height())))
}

// FitImage returns the largest rectangle with the image's aspect ratio that
// fits centered in area.
func FitImage(w, h int, area diagram.Bounds) diagram.Bounds {
	if w <= 0 || h <= 0 {
		return area
	}
	aspect := float64(w) / float64(h)
	fw, fh := area.Width(), area.Height()
	if aspect > fw/fh {
		fh = fw / aspect
	} else {
		fw = fh * aspect
	}
	return diagram.Around(area.Center(), fw/2, fh/2)
}
