package commands

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdraw/ai"
	"lexdraw/config"
	"lexdraw/studio"
	"lexdraw/terminal"
)

const analysisReply = `{
  "concepts": [
    {"id": "c1", "text": "Constitution", "level": 1},
    {"id": "c2", "text": "Law", "level": 2}
  ],
  "connections": [{"from": "c1", "to": "c2", "type": "thick"}],
  "suggested_type": "network"
}`

type harness struct {
	dir       string
	env       map[string]string
	client    *ai.MockClient
	clipboard string
	page      *terminal.Page

	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	return &harness{
		dir:    t.TempDir(),
		env:    map[string]string{},
		client: &ai.MockClient{},
	}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

// run executes one command line against a fresh app. Output from earlier
// runs is discarded.
func (h *harness) run(stdin string, args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()

	a := newApp()
	a.getenv = func(key string) string { return h.env[key] }
	a.newClient = func(ai.ClientOptions) (ai.Client, error) { return h.client, nil }
	a.readClipboard = func() (string, error) { return h.clipboard, nil }
	a.preview = func(_ context.Context, p terminal.Page) error {
		h.page = &p
		return nil
	}

	root := newRootCmd(a)
	root.SetArgs(append(args,
		"--template-dir", h.path("templates"),
		"--output-dir", h.path("output"),
		"--log-level", "warn",
	))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)
	return root.ExecuteContext(context.Background())
}

func TestGenerateFromStdin(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("Supreme\nHigh\nDistrict\n", "generate", "-t", "Legal Provision Hierarchy"))
	assert.Contains(t, h.stdout.String(), "Supreme")
	assert.Contains(t, h.stdout.String(), "District")
}

func TestGenerateWritesFiles(t *testing.T) {
	h := newHarness(t)
	svg, mmd := h.path("plan.svg"), h.path("plan.mmd")
	require.NoError(t, h.run("", "generate", "--text", "Plan\nBuild\nShip", "-T", "flowchart", "-o", svg, "-o", mmd))

	assert.Equal(t, 2, strings.Count(h.stdout.String(), "Saved"))
	assert.NotContains(t, h.stdout.String(), "Build", "text rendering is only printed on request")
	assert.FileExists(t, svg)
	data, err := os.ReadFile(mmd)
	require.NoError(t, err)
	assert.Contains(t, string(data), "graph TD")
}

func TestGenerateQuickSaveAndPrint(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "generate", "--text", "Alpha\nBeta", "--quick-save", "--print"))
	assert.Contains(t, h.stdout.String(), "Saved")
	assert.Contains(t, h.stdout.String(), "Alpha")

	matches, err := filepath.Glob(h.path("output/*.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestGenerateInputErrors(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.run("", "generate", "--text", "a", "-t", "Missing"), studio.ErrNoTemplate)
	assert.ErrorIs(t, h.run("  \n", "generate"), studio.ErrEmptyText)

	err := h.run("", "generate", "--text", "a", "-T", "mindmap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown diagram type")

	assert.Error(t, h.run("", "generate", h.path("missing.txt")))
	assert.ErrorIs(t, h.run("", "generate", "--text", "a", "--scale=-1"), config.ErrInvalid)
}

func TestGenerateFromFileAndClipboard(t *testing.T) {
	h := newHarness(t)
	input := h.path("notes.txt")
	require.NoError(t, os.WriteFile(input, []byte("Contract\nTort\n"), 0o644))
	require.NoError(t, h.run("", "generate", input))
	assert.Contains(t, h.stdout.String(), "Tort")

	h.clipboard = "Offer\nAcceptance"
	require.NoError(t, h.run("", "generate", "--clipboard"))
	assert.Contains(t, h.stdout.String(), "Acceptance")
}

func TestGenerateWithAI(t *testing.T) {
	h := newHarness(t)
	h.env["LEXDRAW_API_KEY"] = "key"
	h.client.Reply = analysisReply

	out := h.path("law.json")
	require.NoError(t, h.run("", "generate", "--text", "the constitution authorizes law", "-o", out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"network"`)
	assert.Contains(t, string(data), "Constitution")
	assert.NotEmpty(t, h.client.Prompts())

	before := len(h.client.Prompts())
	require.NoError(t, h.run("", "generate", "--text", "A\nB", "--plain"))
	assert.Len(t, h.client.Prompts(), before, "--plain skips the model")

	h.env["LEXDRAW_AI_ENABLED"] = "false"
	require.NoError(t, h.run("", "generate", "--text", "A\nB"))
	assert.Len(t, h.client.Prompts(), before)
}

func TestPreview(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "preview", "--text", "Root\nLeaf", "-t", "Research Framework"))
	require.NotNil(t, h.page)
	w, rows := h.page.Size()
	assert.Positive(t, w)
	assert.Positive(t, rows)
	assert.Contains(t, h.page.Status, "Research Framework")
	assert.Contains(t, h.page.Status, "2 nodes")
}

func TestImportCommand(t *testing.T) {
	h := newHarness(t)
	src := h.path("flow.mmd")
	require.NoError(t, os.WriteFile(src, []byte("graph TD\n  A[Filed] --> B[Reviewed] --> C[Decided]\n"), 0o644))

	dot := h.path("flow.dot")
	require.NoError(t, h.run("", "import", src, "-o", dot, "-T", "flowchart"))
	data, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
	assert.Contains(t, string(data), "Reviewed")

	require.NoError(t, h.run("", "import", src))
	assert.Contains(t, h.stdout.String(), "Decided")

	require.NoError(t, h.run("", "import", src, "--preview"))
	require.NotNil(t, h.page)
	assert.Contains(t, h.page.Status, "3 nodes")

	assert.Error(t, h.run("", "import", h.path("none.d2")))
}

func TestSaveDefinitionAndDrawFromTemplate(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "generate", "--text", "Background\nMethods", "-t", "Research Framework", "--save-def", "Thesis"))
	assert.Contains(t, h.stdout.String(), "Stored definition in")

	out := h.path("thesis.d2")
	require.NoError(t, h.run("", "import", "Thesis", "--from-template", "-o", out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "direction: right")
	assert.Contains(t, string(data), "Methods")

	assert.ErrorIs(t, h.run("", "import", "Missing", "--from-template"), studio.ErrNoTemplate)
}

func TestEnhanceAndSuggest(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.run("", "enhance", "--text", "x"), studio.ErrAIUnavailable)
	assert.ErrorIs(t, h.run("", "suggest", "--text", "x"), studio.ErrAIUnavailable)

	h.env["DASHSCOPE_API_KEY"] = "key"
	h.client.Reply = "Background\nMethods\n"
	require.NoError(t, h.run("background and methods", "enhance", "-t", "Research Framework"))
	assert.Equal(t, "Background\nMethods\n", h.stdout.String())

	h.client.Reply = "A decision_tree fits best."
	require.NoError(t, h.run("", "suggest", "--text", "if this then that"))
	assert.Contains(t, h.stdout.String(), "decision_tree")
}

func TestAICheck(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.run("", "ai-check"), studio.ErrAIUnavailable)

	h.env["OPENAI_API_KEY"] = "key"
	h.client.Reply = "ok"
	require.NoError(t, h.run("", "ai-check"))
	assert.Contains(t, h.stdout.String(), "AI available")

	h.client.Reply = ""
	assert.ErrorIs(t, h.run("", "ai-check"), studio.ErrAIUnavailable)
}

func TestTemplatesCommands(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "templates", "list"))
	assert.Contains(t, h.stdout.String(), "Legal Provision Hierarchy")
	assert.Contains(t, h.stdout.String(), "framework")

	require.NoError(t, h.run("", "templates", "show", "Research Framework"))
	assert.Contains(t, h.stdout.String(), "type: framework")
	assert.Error(t, h.run("", "templates", "show", "Missing"))

	exported := h.path("framework.json")
	require.NoError(t, h.run("", "templates", "export", "Research Framework", exported))
	require.NoError(t, h.run("", "templates", "import", exported))
	assert.Contains(t, h.stdout.String(), "Imported")
	assert.Contains(t, h.stdout.String(), "Research Framework")

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	picture := h.path("court map.png")
	require.NoError(t, os.WriteFile(picture, buf.Bytes(), 0o644))
	require.NoError(t, h.run("", "templates", "import", picture))

	require.NoError(t, h.run("", "templates", "show", "court map"))
	assert.Contains(t, h.stdout.String(), "image_template")
	assert.Contains(t, h.stdout.String(), "base64 characters")

	assert.Error(t, h.run("", "templates", "import", h.path("notes.docx")))
}

func TestFormats(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("", "formats"))
	out := h.stdout.String()
	for _, want := range []string{"png", "svg", "mermaid", "dot", "D2, Graphviz, Mermaid, PlantUML"} {
		assert.Contains(t, out, want)
	}
}
