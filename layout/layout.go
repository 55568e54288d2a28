// Package layout provides the fixed geometric arrangement for each diagram type.
//
// Every layout is deterministic: the same diagram always produces the same
// positions. Coordinates are world units with y increasing upwards.
package layout

import (
	"math"
	"strings"

	"lexdraw/diagram"
)

// Layout positions the nodes of one diagram type.
type Layout interface {
	Layout(d *diagram.Diagram) *Result
	Name() string
}

// Role tells the renderer which color a node takes within its diagram type.
type Role string

// Role constants
const (
	RoleLevel     Role = "level"
	RoleStart     Role = "start"
	RoleProcess   Role = "process"
	RoleEnd       Role = "end"
	RoleMember    Role = "member"
	RoleDecision  Role = "decision"
	RoleResult    Role = "result"
	RoleComponent Role = "component"
)

// LinkStyle is the routing of a layout-imposed connector.
type LinkStyle int

const (
	// LinkStraight is a single segment with an arrowhead at the target.
	LinkStraight LinkStyle = iota
	// LinkElbow runs vertically from the source to the target's y, then horizontally.
	LinkElbow
)

// Link is a connector a layout draws by itself, independent of the diagram's edges.
type Link struct {
	From  string
	To    string
	Type  diagram.EdgeType
	Style LinkStyle
}

// Size is the extent of a node shape in world units.
type Size struct {
	W, H float64
}

// Node shape sizes.
var (
	HierarchyBox = Size{2.4, 1}
	WideBox      = Size{3, 1}
	ResultBox    = Size{2, 1}
	Diamond      = Size{2, 1}
	Circle       = Size{2, 2}
)

// NetworkVariant selects the network arrangement.
type NetworkVariant string

// Network variants
const (
	NetworkRing NetworkVariant = "ring"
	NetworkGrid NetworkVariant = "grid"
)

// Direction selects the flowchart axis.
type Direction string

// Flow directions
const (
	FlowVertical   Direction = "vertical"
	FlowHorizontal Direction = "horizontal"
)

// Options select layout variants. The zero value gives the default variants.
type Options struct {
	Network       NetworkVariant
	FlowDirection Direction
}

// ParseNetworkVariant maps a string to a variant, defaulting to ring.
func ParseNetworkVariant(s string) NetworkVariant {
	if NetworkVariant(strings.ToLower(strings.TrimSpace(s))) == NetworkGrid {
		return NetworkGrid
	}
	return NetworkRing
}

// ParseDirection maps a string to a direction, defaulting to vertical.
func ParseDirection(s string) Direction {
	if Direction(strings.ToLower(strings.TrimSpace(s))) == FlowHorizontal {
		return FlowHorizontal
	}
	return FlowVertical
}

// Result is the output of a layout pass.
type Result struct {
	Type      diagram.Type
	Positions diagram.Positions
	Roles     map[string]Role
	Shapes    map[string]diagram.Shape
	Sizes     map[string]Size
	Links     []Link
	// View is the reference viewport for the diagram type.
	View diagram.Bounds
}

func newResult(t diagram.Type, view diagram.Bounds, n int) *Result {
	return &Result{
		Type:      t,
		Positions: make(diagram.Positions, n),
		Roles:     make(map[string]Role, n),
		Shapes:    make(map[string]diagram.Shape, n),
		Sizes:     make(map[string]Size, n),
		View:      view,
	}
}

func (r *Result) place(id string, p diagram.Point, role Role, shape diagram.Shape, size Size) {
	r.Positions[id] = p
	r.Roles[id] = role
	r.Shapes[id] = shape
	r.Sizes[id] = size
}

// Extent returns the rectangle a node occupies.
func (r *Result) Extent(id string) (diagram.Bounds, bool) {
	p, ok := r.Positions[id]
	if !ok {
		return diagram.Bounds{}, false
	}
	s := r.Sizes[id]
	return diagram.Around(p, s.W/2, s.H/2), true
}

// Bounds returns the view grown to include every node so nothing is clipped.
func (r *Result) Bounds() diagram.Bounds {
	b := r.View
	for id := range r.Positions {
		if ext, ok := r.Extent(id); ok {
			b = b.Union(ext)
		}
	}
	return b
}

// ForType returns the layout for a diagram type. Unknown types use the hierarchy layout.
func ForType(t diagram.Type, opts Options) Layout {
	switch t {
	case diagram.TypeFlowchart:
		if opts.FlowDirection == FlowHorizontal {
			return NewHorizontalLayout()
		}
		return NewVerticalLayout()
	case diagram.TypeNetwork:
		if opts.Network == NetworkGrid {
			return NewGridLayout()
		}
		return NewRingLayout()
	case diagram.TypeDecisionTree:
		return NewDecisionLayout()
	case diagram.TypeFramework:
		return NewFrameworkLayout()
	case diagram.TypeImageTemplate:
		return NewImageLayout()
	default:
		return NewHierarchyLayout()
	}
}

// Compute lays out d according to its type.
func Compute(d *diagram.Diagram, opts Options) *Result {
	return ForType(d.GetType(), opts).Layout(d)
}

// chain links every node to its successor in input order.
func chain(nodes []diagram.Node, style LinkStyle) []Link {
	if len(nodes) < 2 {
		return nil
	}
	links := make([]Link, 0, len(nodes)-1)
	for i := 0; i < len(nodes)-1; i++ {
		links = append(links, Link{
			From:  nodes[i].ID,
			To:    nodes[i+1].ID,
			Type:  diagram.EdgeSimple,
			Style: style,
		})
	}
	return links
}

func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
