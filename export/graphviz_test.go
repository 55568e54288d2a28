package export

import (
	"strings"
	"testing"

	"lexdraw/diagram"
)

func sampleDiagram(t diagram.Type) *diagram.Diagram {
	return &diagram.Diagram{
		Title:  "Procedure",
		Type:   t,
		Source: diagram.SourceAI,
		Nodes: []diagram.Node{
			{ID: "a", Text: "Filing", Level: 1},
			{ID: "b", Text: "Review", Level: 2},
			{ID: "c", Text: "Decision", Level: 3},
		},
		Edges: []diagram.Edge{
			{From: "a", To: "b", Label: "submits"},
			{From: "b", To: "c", Type: diagram.EdgeDashed},
			{From: "a", To: "missing"},
		},
	}
}

func TestGraphvizExporter_Basic(t *testing.T) {
	result, err := NewGraphvizExporter().Export(sampleDiagram(diagram.TypeFlowchart))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	expectedParts := []string{
		"digraph G {",
		"rankdir=TB;",
		`label="Procedure";`,
		`N1 [label="Filing", fillcolor="#90EE90"];`,
		`N3 [label="Decision", fillcolor="#FFB6C1"];`,
		`N1 -> N2 [label="submits"];`,
		"N2 -> N3 [style=dashed];",
	}
	for _, part := range expectedParts {
		if !strings.Contains(result, part) {
			t.Errorf("Expected result to contain %q.\nGot:\n%s", part, result)
		}
	}
	if strings.Contains(result, "missing") {
		t.Error("Unresolved edge should be left out")
	}
}

func TestGraphvizExporter_Shapes(t *testing.T) {
	d := sampleDiagram(diagram.TypeDecisionTree)
	result, err := NewGraphvizExporter().Export(d)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(result, `N1 [label="Filing", fillcolor="#FFA07A", shape=diamond];`) {
		t.Errorf("Decision node should be a diamond:\n%s", result)
	}
	if !strings.Contains(result, `N2 [label="Review", fillcolor="#98FB98"];`) {
		t.Errorf("Result node should be a box:\n%s", result)
	}
}

func TestGraphvizExporter_EscapesLabels(t *testing.T) {
	d := &diagram.Diagram{Nodes: []diagram.Node{{ID: "a", Text: "Say \"hi\"\nnow", Level: 1}}}
	result, err := NewGraphvizExporter().Export(d)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(result, `label="Say \"hi\"\nnow"`) {
		t.Errorf("Label not escaped:\n%s", result)
	}
}

func TestGraphvizExporter_Errors(t *testing.T) {
	e := NewGraphvizExporter()
	if _, err := e.Export(nil); err != ErrNilDiagram {
		t.Errorf("Expected ErrNilDiagram, got %v", err)
	}
	if _, err := e.Export(&diagram.Diagram{}); err != ErrEmptyDiagram {
		t.Errorf("Expected ErrEmptyDiagram, got %v", err)
	}
}
