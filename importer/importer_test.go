package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lexdraw/diagram"
	"lexdraw/export"
)

func contractDiagram() *diagram.Diagram {
	return &diagram.Diagram{
		Title:  "Contract law",
		Type:   diagram.TypeHierarchy,
		Source: diagram.SourceAI,
		Nodes: []diagram.Node{
			{ID: "a", Text: "Contract", Level: 1},
			{ID: "b", Text: "Offer\nAcceptance", Level: 2},
			{ID: "c", Text: `Say "yes"`, Level: 2, Shape: diagram.ShapeCircle},
			{ID: "d", Text: "Remedy", Level: 3, Shape: diagram.ShapeDiamond},
		},
		Edges: []diagram.Edge{
			{From: "a", To: "b", Type: diagram.EdgeThick, Label: "requires"},
			{From: "a", To: "c", Type: diagram.EdgeDashed},
			{From: "b", To: "d", Type: diagram.EdgeDouble},
			{From: "c", To: "d"},
		},
	}
}

type definitionExporter interface {
	Export(d *diagram.Diagram) (string, error)
}

func TestRoundTripExporters(t *testing.T) {
	tests := []struct {
		name     string
		exporter definitionExporter
		quote    string
	}{
		{"Mermaid", export.NewMermaidExporter(), `Say "yes"`},
		{"PlantUML", export.NewPlantUMLExporter(), `Say 'yes'`},
		{"Graphviz", export.NewGraphvizExporter(), `Say "yes"`},
		{"D2", export.NewD2Exporter(), `Say "yes"`},
	}

	registry := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := tt.exporter.Export(contractDiagram())
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}

			imp, err := registry.DetectFormat(src)
			if err != nil {
				t.Fatalf("DetectFormat failed: %v\n%s", err, src)
			}
			if imp.GetFormatName() != tt.name {
				t.Fatalf("Expected %s importer, got %s", tt.name, imp.GetFormatName())
			}

			d, err := registry.Import(src)
			if err != nil {
				t.Fatalf("Import failed: %v\n%s", err, src)
			}
			if d.Source != diagram.SourceImport {
				t.Errorf("Expected import source, got %v", d.Source)
			}
			if d.Title != "Contract law" {
				t.Errorf("Expected title 'Contract law', got %q", d.Title)
			}
			if d.Type != "" {
				t.Errorf("Expected no type for a top-down definition, got %q", d.Type)
			}

			wantText := []string{"Contract", "Offer\nAcceptance", tt.quote, "Remedy"}
			wantLevel := []int{1, 2, 2, 3}
			wantShape := []diagram.Shape{diagram.ShapeNone, diagram.ShapeNone, diagram.ShapeCircle, diagram.ShapeDiamond}
			if len(d.Nodes) != len(wantText) {
				t.Fatalf("Expected %d nodes, got %d: %+v", len(wantText), len(d.Nodes), d.Nodes)
			}
			for i, n := range d.Nodes {
				if n.Text != wantText[i] {
					t.Errorf("Node %d: expected text %q, got %q", i, wantText[i], n.Text)
				}
				if n.Level != wantLevel[i] {
					t.Errorf("Node %d: expected level %d, got %d", i, wantLevel[i], n.Level)
				}
				if n.Shape != wantShape[i] {
					t.Errorf("Node %d: expected shape %q, got %q", i, wantShape[i], n.Shape)
				}
			}

			wantEdges := []struct {
				from, to string
				kind     diagram.EdgeType
				label    string
			}{
				{"Contract", "Offer\nAcceptance", diagram.EdgeThick, "requires"},
				{"Contract", tt.quote, diagram.EdgeDashed, ""},
				{"Offer\nAcceptance", "Remedy", diagram.EdgeDouble, ""},
				{tt.quote, "Remedy", diagram.EdgeSimple, ""},
			}
			if len(d.Edges) != len(wantEdges) {
				t.Fatalf("Expected %d edges, got %d: %+v", len(wantEdges), len(d.Edges), d.Edges)
			}
			idx := diagram.NewIndex(d)
			for i, e := range d.Edges {
				from, to, ok := idx.ResolveEdge(e)
				if !ok {
					t.Errorf("Edge %d does not resolve: %+v", i, e)
					continue
				}
				w := wantEdges[i]
				if from.Text != w.from || to.Text != w.to {
					t.Errorf("Edge %d: expected %q -> %q, got %q -> %q", i, w.from, w.to, from.Text, to.Text)
				}
				if e.Kind() != w.kind {
					t.Errorf("Edge %d: expected %s, got %s", i, w.kind, e.Kind())
				}
				if e.Label != w.label {
					t.Errorf("Edge %d: expected label %q, got %q", i, w.label, e.Label)
				}
			}
		})
	}
}

func TestHorizontalDefinitionsImportAsFramework(t *testing.T) {
	d := contractDiagram()
	d.Type = diagram.TypeFramework

	registry := NewRegistry()
	for _, exp := range []definitionExporter{export.NewMermaidExporter(), export.NewGraphvizExporter(), export.NewD2Exporter()} {
		src, err := exp.Export(d)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		got, err := registry.Import(src)
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if got.Type != diagram.TypeFramework {
			t.Errorf("Expected framework, got %q from:\n%s", got.Type, src)
		}
	}
}

func TestMermaidHandWritten(t *testing.T) {
	src := `%% shopping
flowchart LR
    A[Cart] --> B{Paid?} -->|yes| C((Ship))
    B -.-> A
    style A fill:#fff
`
	d, err := NewMermaidImporter().Import(src)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if d.Type != diagram.TypeFramework {
		t.Errorf("Expected framework for LR, got %q", d.Type)
	}
	if got := strings.Join(d.NodeTexts(), ","); got != "Cart,Paid?,Ship" {
		t.Errorf("Expected node texts Cart,Paid?,Ship, got %s", got)
	}
	if d.Nodes[1].Shape != diagram.ShapeDiamond || d.Nodes[2].Shape != diagram.ShapeCircle {
		t.Errorf("Unexpected shapes %+v", d.Nodes)
	}
	if len(d.Edges) != 3 || d.Edges[1].Label != "yes" || d.Edges[2].Kind() != diagram.EdgeDashed {
		t.Errorf("Unexpected edges %+v", d.Edges)
	}
	// A -> B -> A is a cycle below the root A.
	if d.Nodes[0].Level != 1 || d.Nodes[2].Level != 3 {
		t.Errorf("Unexpected levels %+v", d.Nodes)
	}
}

func TestGraphvizHandWritten(t *testing.T) {
	src := `// services
digraph deps {
  graph [label="Services"];
  api [label="API"]; db [shape=circle]
  api -> cache -> db [style=dotted, label="reads; writes"];
}`
	d, err := NewGraphvizImporter().Import(src)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if d.Title != "Services" {
		t.Errorf("Expected title Services, got %q", d.Title)
	}
	if got := strings.Join(d.NodeTexts(), ","); got != "API,db,cache" {
		t.Errorf("Expected API,db,cache, got %s", got)
	}
	if len(d.Edges) != 2 || d.Edges[1].Kind() != diagram.EdgeDotted || d.Edges[1].Label != "reads; writes" {
		t.Errorf("Unexpected edges %+v", d.Edges)
	}
	if d.Nodes[2].Level != 2 || d.Nodes[1].Level != 3 {
		t.Errorf("Unexpected levels %+v", d.Nodes)
	}
}

func TestD2HandWritten(t *testing.T) {
	src := `# Pipeline
direction: right
source: {
  label: "Raw data"
  shape: oval
  style: {
    fill: red
  }
}
source -> parse -> store: "write: batch"
store <- archive
`
	d, err := NewRegistry().Import(src)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if d.Title != "Pipeline" || d.Type != diagram.TypeFramework {
		t.Errorf("Unexpected header %q %q", d.Title, d.Type)
	}
	if d.Nodes[0].Text != "Raw data" || d.Nodes[0].Shape != diagram.ShapeCircle {
		t.Errorf("Unexpected container node %+v", d.Nodes[0])
	}
	if len(d.Edges) != 3 {
		t.Fatalf("Expected 3 edges, got %+v", d.Edges)
	}
	if d.Edges[1].Label != "write: batch" {
		t.Errorf("Expected chain label on every edge, got %q", d.Edges[1].Label)
	}
	if d.Edges[2].From != "archive" || d.Edges[2].To != "store" {
		t.Errorf("Expected reversed edge archive -> store, got %+v", d.Edges[2])
	}
}

func TestPlantUMLHandWritten(t *testing.T) {
	src := `@startuml
left to right direction
component Web
database "Orders" as db #LightBlue
Web --> db : SQL
Web ..> Cache
@enduml`
	d, err := NewRegistry().Import(src)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if got := strings.Join(d.NodeTexts(), ","); got != "Web,Orders,Cache" {
		t.Errorf("Expected Web,Orders,Cache, got %s", got)
	}
	if d.Edges[0].Label != "SQL" || d.Edges[1].Kind() != diagram.EdgeDashed {
		t.Errorf("Unexpected edges %+v", d.Edges)
	}
}

func TestImportErrors(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.Import("just some prose, nothing else"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
	if _, err := registry.ImportWithFormat("a -> b", "visio"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
	if _, err := registry.ImportWithFormat("graph TD\n", "mermaid"); !errors.Is(err, ErrNoNodes) {
		t.Errorf("Expected ErrNoNodes, got %v", err)
	}
	if _, err := registry.ImportWithFormat("@startuml\nwhat is this\n@enduml", "plantuml"); err == nil {
		t.Error("Expected error for unreadable PlantUML line")
	}
}

func TestImportWithFormatByExtension(t *testing.T) {
	d, err := NewRegistry().ImportWithFormat("a -> b", "d2")
	if err != nil {
		t.Fatalf("ImportWithFormat failed: %v", err)
	}
	if len(d.Nodes) != 2 || d.Nodes[1].Level != 2 {
		t.Errorf("Unexpected nodes %+v", d.Nodes)
	}
	if _, err := NewRegistry().ImportWithFormat("digraph { a -> b }", ".gv"); err != nil {
		t.Errorf("Expected .gv to select Graphviz, got %v", err)
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deps.mmd")
	if err := os.WriteFile(path, []byte("graph TD\n  x --> y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := NewRegistry().ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if len(d.Edges) != 1 {
		t.Errorf("Expected one edge, got %+v", d.Edges)
	}

	other := filepath.Join(dir, "deps.txt")
	if err := os.WriteFile(other, []byte("@startuml\nA --> B\n@enduml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if d, err := NewRegistry().ImportFile(other); err != nil || len(d.Nodes) != 2 {
		t.Errorf("Expected detection fallback, got %v %+v", err, d)
	}

	if _, err := NewRegistry().ImportFile(filepath.Join(dir, "missing.d2")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFormats(t *testing.T) {
	got := strings.Join(NewRegistry().Formats(), ",")
	if got != "Mermaid,PlantUML,Graphviz,D2" {
		t.Errorf("Unexpected formats %s", got)
	}
}
