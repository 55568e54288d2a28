package template

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"gopkg.in/yaml.v3"

	"lexdraw/diagram"
	"lexdraw/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDirInstallsDefaults(t *testing.T) {
	s := LoadDir(t.TempDir(), nil)

	assert.Equal(t, []string{"Legal Provision Hierarchy", "Research Framework"}, s.Names())
	first, ok := s.First()
	require.True(t, ok)
	assert.Equal(t, diagram.TypeHierarchy, first.GetType())
	assert.Equal(t, "宪法\n基本法\n行政法规\n部门规章\n地方性法规", first.DefaultText)

	framework, ok := s.Get("Research Framework")
	require.True(t, ok)
	assert.Equal(t, diagram.TypeFramework, framework.Type)
}

func TestLoadDirKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LegalFile), `{
  "Zeta": {"type": "flowchart", "default_text": "a\nb"},
  "Alpha": {"type": "network"}
}`)
	writeFile(t, filepath.Join(dir, "academic_templates.yaml"), `
Thesis:
  type: framework
  description: Thesis outline
Alpha:
  type: decision_tree
`)

	s := LoadDir(dir, nil)

	assert.Equal(t, []string{"Zeta", "Alpha", "Thesis"}, s.Names())
	alpha, _ := s.Get("Alpha")
	assert.Equal(t, diagram.TypeDecisionTree, alpha.Type, "academic file overrides legal entries")
	zeta, _ := s.Get("Zeta")
	assert.Equal(t, "a\nb", zeta.DefaultText)
}

func TestLoadDirSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LegalFile), `{"broken": `)
	writeFile(t, filepath.Join(dir, AcademicFile), `{"Paper": {"type": "framework"}}`)

	s := LoadDir(dir, nil)
	assert.Equal(t, []string{"Paper"}, s.Names())
}

func TestLoadDirRejectsList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LegalFile), `[{"type": "flowchart"}]`)

	s := LoadDir(dir, nil)
	assert.Equal(t, 2, s.Len(), "defaults are installed when nothing loads")
}

func TestSaveUpserts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")
	s := NewStore(dir, nil)

	require.NoError(t, s.Save("Mine", Template{Type: diagram.TypeFlowchart, DefaultText: "x"}))
	require.NoError(t, s.Save("Other", Template{Type: diagram.TypeNetwork}))
	require.NoError(t, s.Save("Mine", Template{Type: diagram.TypeFramework, DefaultText: "研究"}))

	data, err := os.ReadFile(filepath.Join(dir, LegalFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "研究", "non-ASCII text is written as is")

	reloaded := LoadDir(dir, nil)
	assert.Equal(t, []string{"Mine", "Other"}, reloaded.Names())
	mine, _ := reloaded.Get("Mine")
	assert.Equal(t, diagram.TypeFramework, mine.Type)
	assert.Equal(t, "研究", mine.DefaultText)
}

func TestImportJSON(t *testing.T) {
	dir := t.TempDir()
	named := filepath.Join(dir, "named.json")
	writeFile(t, named, `{"name": "Court System", "type": "hierarchy", "default_text": "Supreme\nHigh"}`)
	unnamed := filepath.Join(dir, "unnamed.json")
	writeFile(t, unnamed, `{"type": "flowchart"}`)

	s := NewStore(dir, nil)
	name, err := s.Import(named)
	require.NoError(t, err)
	assert.Equal(t, "Court System", name)

	name, err = s.Import(unnamed)
	require.NoError(t, err)
	assert.Equal(t, ImportedJSONName, name)
	assert.Equal(t, []string{"Court System", ImportedJSONName}, s.Names())
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImportImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "court map.png")
	require.NoError(t, os.WriteFile(path, testPNG(t), 0o644))

	name, tpl, err := ImportFile(path)
	require.NoError(t, err)

	assert.Equal(t, "court map", name)
	assert.True(t, tpl.IsImage())
	assert.Equal(t, "png", tpl.ImageFormat)
	assert.Equal(t, "image", tpl.Layout)
	assert.Equal(t, path, tpl.ImagePath)

	img, err := tpl.Image()
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestImportBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 3))))
	path := filepath.Join(t.TempDir(), "scan.BMP")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, tpl, err := ImportFile(path)
	require.NoError(t, err)

	_, format, err := DecodeImage(tpl.ImageBase64)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
}

func TestImportUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.docx")
	writeFile(t, path, "x")

	_, _, err := ImportFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedTemplate)
}

func TestTemplateWithoutImage(t *testing.T) {
	_, err := Template{Type: diagram.TypeImageTemplate}.Image()
	assert.ErrorIs(t, err, ErrNoImage)

	_, _, err = DecodeImage("not base64!")
	assert.Error(t, err)
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	s := LoadDir(dir, nil)

	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, s.Export(jsonPath, "Research Framework"))

	var got map[string]any
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Research Framework", got["name"])
	assert.Equal(t, "framework", got["type"])

	yamlPath := filepath.Join(dir, "out.yaml")
	require.NoError(t, s.Export(yamlPath, "Legal Provision Hierarchy"))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var back Template
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "Legal Provision Hierarchy", back.Name)
	assert.Equal(t, diagram.TypeHierarchy, back.Type)

	// An exported JSON template imports under the same name.
	name, _, err := ImportFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Research Framework", name)

	assert.ErrorIs(t, s.Export(jsonPath, "Nope"), ErrNotFound)
}

func TestDefinitionRoundTrip(t *testing.T) {
	d := parser.ParseText("Title\nA\nB\nA -> B")
	d.Type = diagram.TypeFlowchart

	def := FromDiagram(d)
	assert.Equal(t, "text", def.Source)
	assert.Equal(t, d, def.ToDiagram())

	data, err := json.Marshal(def)
	require.NoError(t, err)
	var back Definition
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back.ToDiagram())

	ai := &diagram.Diagram{Title: "AI", Source: diagram.SourceAI, Nodes: []diagram.Node{{ID: "x", Text: "X", Level: 1}}}
	assert.Equal(t, ai, FromDiagram(ai).ToDiagram())
}

func TestTemplateWithDefinitionYAML(t *testing.T) {
	dir := t.TempDir()
	tpl := Template{
		Type: diagram.TypeDecisionTree,
		Diagram: &Definition{
			Title: "Tree",
			Type:  diagram.TypeDecisionTree,
			Nodes: []diagram.Node{{ID: "node_1", Text: "Q", Level: 1, Shape: diagram.ShapeDiamond}},
			Edges: []diagram.Edge{{From: "Q", To: "R", Type: diagram.EdgeDashed, Label: "no"}},
		},
	}
	path := filepath.Join(dir, "tree.yml")
	require.NoError(t, ExportFile(path, "Tree", tpl))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var back Template
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.NotNil(t, back.Diagram)
	assert.Equal(t, tpl.Diagram.Nodes, back.Diagram.Nodes)
	assert.Equal(t, tpl.Diagram.Edges, back.Diagram.Edges)
}

func TestTemplateImageFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, os.WriteFile(path, testPNG(t), 0o644))

	img, err := Template{Type: diagram.TypeImageTemplate, ImagePath: path}.Image()
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dy())

	_, err = Template{ImagePath: filepath.Join(t.TempDir(), "gone.png")}.Image()
	assert.Error(t, err)
}
