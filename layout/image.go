package layout

import "lexdraw/diagram"

// Image template regions.
var (
	ImageArea = diagram.NewBounds(-6, 6, -4, 4)
	CaptionAt = diagram.Point{X: 0, Y: -5}
	ImageView = diagram.NewBounds(-6, 6, -6, 6)
)

// ImageLayout positions nothing: an image template shows its picture with
// the node texts as a caption underneath.
type ImageLayout struct{}

// NewImageLayout creates an ImageLayout.
func NewImageLayout() *ImageLayout {
	return &ImageLayout{}
}

// Layout returns an empty result with the image template view.
func (l *ImageLayout) Layout(d *diagram.Diagram) *Result {
	return newResult(diagram.TypeImageTemplate, ImageView, 0)
}

// Name returns the name of this layout algorithm.
func (l *ImageLayout) Name() string {
	return "ImageLayout"
}
