package template

import "lexdraw/diagram"

// Definition is the persisted form of a diagram. Positions are never stored;
// they are recomputed from the type.
type Definition struct {
	Title  string         `json:"title" yaml:"title"`
	Type   diagram.Type   `json:"type,omitempty" yaml:"type,omitempty"`
	Source string         `json:"source,omitempty" yaml:"source,omitempty"`
	Nodes  []diagram.Node `json:"nodes" yaml:"nodes"`
	Edges  []diagram.Edge `json:"edges" yaml:"edges"`
}

// FromDiagram captures the definition of d.
func FromDiagram(d *diagram.Diagram) *Definition {
	c := d.Clone()
	return &Definition{
		Title:  c.Title,
		Type:   c.Type,
		Source: c.Source.String(),
		Nodes:  c.Nodes,
		Edges:  c.Edges,
	}
}

// ToDiagram rebuilds the diagram the definition was captured from.
func (def *Definition) ToDiagram() *diagram.Diagram {
	d := &diagram.Diagram{
		Title: def.Title,
		Type:  def.Type,
		Nodes: def.Nodes,
		Edges: def.Edges,
	}
	d.Source = diagram.ParseSource(def.Source)
	return d.Clone()
}
