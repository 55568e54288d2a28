// Package diagram contains the data model shared by the lexdraw parsers, layout engine and renderer.
package diagram

import (
	"fmt"
	"strings"
)

// Type selects the fixed layout family of a diagram.
type Type string

// Diagram type constants
const (
	TypeHierarchy     Type = "hierarchy"
	TypeFlowchart     Type = "flowchart"
	TypeNetwork       Type = "network"
	TypeDecisionTree  Type = "decision_tree"
	TypeFramework     Type = "framework"
	TypeImageTemplate Type = "image_template"
)

// Types returns the known diagram types in menu order.
func Types() []Type {
	return []Type{
		TypeHierarchy,
		TypeFlowchart,
		TypeNetwork,
		TypeDecisionTree,
		TypeFramework,
		TypeImageTemplate,
	}
}

// ParseType converts a string to a Type. Matching ignores case and surrounding whitespace.
func ParseType(s string) (Type, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Types() {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// EdgeType is the visual style of a connection.
type EdgeType string

// Edge type constants
const (
	EdgeSimple EdgeType = "simple"
	EdgeThick  EdgeType = "thick"
	EdgeDouble EdgeType = "double"
	EdgeDashed EdgeType = "dashed"
	EdgeDotted EdgeType = "dotted"
	EdgeCurved EdgeType = "curved"
)

// ParseEdgeType maps a string to an EdgeType. Unknown or empty values are simple.
func ParseEdgeType(s string) EdgeType {
	switch EdgeType(strings.ToLower(strings.TrimSpace(s))) {
	case EdgeThick:
		return EdgeThick
	case EdgeDouble:
		return EdgeDouble
	case EdgeDashed:
		return EdgeDashed
	case EdgeDotted:
		return EdgeDotted
	case EdgeCurved:
		return EdgeCurved
	default:
		return EdgeSimple
	}
}

// Shape is an optional rendering hint for a node.
type Shape string

// Shape constants
const (
	ShapeNone    Shape = ""
	ShapeBox     Shape = "box"
	ShapeDiamond Shape = "diamond"
	ShapeCircle  Shape = "circle"
)

// Source records which parser built a diagram. It decides how edge endpoints resolve.
type Source int

const (
	// SourceText diagrams come from the free-text parser; edges name node text.
	SourceText Source = iota
	// SourceAI diagrams come from an analysis payload that carries node ids.
	SourceAI
	// SourceImport diagrams were read from a Mermaid, PlantUML, Graphviz or D2 definition.
	SourceImport
)

// ParseSource is the inverse of Source.String. Unknown names are SourceText.
func ParseSource(s string) Source {
	switch s {
	case "ai":
		return SourceAI
	case "import":
		return SourceImport
	default:
		return SourceText
	}
}

// String returns the string representation of a Source.
func (s Source) String() string {
	switch s {
	case SourceText:
		return "text"
	case SourceAI:
		return "ai"
	case SourceImport:
		return "import"
	default:
		return "unknown"
	}
}

// Node is a labelled box in the diagram.
type Node struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
	Shape Shape  `json:"shape,omitempty"`
}

// NodeID returns the positional id used for the node at index i.
func NodeID(i int) string {
	return fmt.Sprintf("node_%d", i)
}

// MaxLevel is the deepest level a node may be given from outside input.
const MaxLevel = 100

// NewNode creates a node, clamping the level to at least 1.
func NewNode(id, text string, level int) Node {
	if level < 1 {
		level = 1
	}
	return Node{ID: id, Text: text, Level: level}
}

// Edge is a directed relationship between two nodes.
// From and To hold node text for text-parsed diagrams and node ids (or text) for AI payloads.
type Edge struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Type  EdgeType `json:"type,omitempty"`
	Label string   `json:"label,omitempty"`
}

// Kind returns the edge type, treating an empty type as simple.
func (e Edge) Kind() EdgeType {
	if e.Type == "" {
		return EdgeSimple
	}
	return e.Type
}

// Diagram is the result of one parse pass. It is rebuilt on every generate action.
type Diagram struct {
	Title  string `json:"title"`
	Type   Type   `json:"type,omitempty"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
	Source Source `json:"-"`
}

// GetType returns the diagram type, defaulting to hierarchy.
func (d *Diagram) GetType() Type {
	if d.Type == "" {
		return TypeHierarchy
	}
	return d.Type
}

// NodeTexts returns the display text of every node in input order.
func (d *Diagram) NodeTexts() []string {
	texts := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		texts[i] = n.Text
	}
	return texts
}

// Clone creates a deep copy of the diagram
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}

	clone := &Diagram{
		Title:  d.Title,
		Type:   d.Type,
		Source: d.Source,
	}
	if d.Nodes != nil {
		clone.Nodes = make([]Node, len(d.Nodes))
		copy(clone.Nodes, d.Nodes)
	}
	if d.Edges != nil {
		clone.Edges = make([]Edge, len(d.Edges))
		copy(clone.Edges, d.Edges)
	}
	return clone
}
