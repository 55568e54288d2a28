// Package studio runs the user-facing actions of lexdraw: generating a
// diagram from text and a template, exporting it, and the AI helpers.
package studio

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"lexdraw/ai"
	"lexdraw/analysis"
	"lexdraw/canvas"
	"lexdraw/diagram"
	"lexdraw/export"
	"lexdraw/importer"
	"lexdraw/layout"
	"lexdraw/parser"
	"lexdraw/render"
	"lexdraw/template"
	"lexdraw/validation"
)

// Input errors. Nothing is generated or written when one is returned.
var (
	ErrNoTemplate    = errors.New("no template selected")
	ErrEmptyText     = errors.New("no text to draw")
	ErrAIUnavailable = errors.New("AI service unavailable")
	ErrNoResult      = errors.New("no diagram to save")
	ErrEmptyDiagram  = errors.New("diagram has no nodes")
	ErrNoDefinition  = errors.New("template has no saved diagram")
)

// QuickSaveName is used in quick save file names when the result has no template.
const QuickSaveName = "diagram"

// Request describes one generate action. A non-empty Type overrides the
// template's diagram type.
type Request struct {
	Template string
	Text     string
	UseAI    bool
	Type     diagram.Type
}

// Result is a generated diagram, ready to export. Text is the input after
// AI enhancement, Image the picture of an image template. FromAI is set
// when the diagram was built from a model reply rather than the fallback.
type Result struct {
	ID       ulid.ULID
	Diagram  *diagram.Diagram
	Layout   *layout.Result
	Text     string
	Type     diagram.Type
	Template string
	Issues   []validation.Issue
	Image    image.Image
	FromAI   bool
}

// Options configure a Studio.
type Options struct {
	Render    render.Config
	Export    export.Options
	Layout    layout.Options
	OutputDir string
	Logger    *slog.Logger
}

// DefaultOptions returns the standard look, PNG export at 100 px per unit
// and the "output" quick save directory.
func DefaultOptions() Options {
	return Options{
		Render:    render.DefaultConfig(),
		Export:    export.DefaultOptions(),
		OutputDir: "output",
	}
}

// Studio ties the template store, the AI service, layout and export together.
type Studio struct {
	templates *template.Store
	ai        *ai.Service
	importers *importer.Registry
	opts      Options
	log       *slog.Logger
	now       func() time.Time
}

// New creates a studio. A nil service disables the AI path.
func New(templates *template.Store, svc *ai.Service, opts Options) *Studio {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	if svc == nil {
		svc = ai.NewService(nil, 0, opts.Logger)
	}
	return &Studio{
		templates: templates,
		ai:        svc,
		importers: importer.NewRegistry(),
		opts:      opts,
		log:       opts.Logger,
		now:       time.Now,
	}
}

// Templates returns the template store.
func (s *Studio) Templates() *template.Store {
	return s.templates
}

// AIEnabled reports whether an AI client is configured.
func (s *Studio) AIEnabled() bool {
	return s.ai.Enabled()
}

// AIAvailable probes the AI service.
func (s *Studio) AIAvailable(ctx context.Context) bool {
	return s.ai.Available(ctx)
}

func (s *Studio) template(name string) (template.Template, error) {
	if name == "" {
		return template.Template{}, ErrNoTemplate
	}
	t, ok := s.templates.Get(name)
	if !ok {
		return template.Template{}, fmt.Errorf("%w: %q", ErrNoTemplate, name)
	}
	return t, nil
}

// Generate builds and lays out a diagram.
//
// With UseAI and a configured service the text is analyzed by the model: a
// known suggested type replaces the template type and the enhanced text
// replaces the input. Otherwise, including when the model fails, the text
// parser builds the diagram with the template type. An explicit Request.Type wins over both.
func (s *Studio) Generate(ctx context.Context, req Request) (*Result, error) {
	tpl, err := s.template(req.Template)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	dt := tpl.GetType()
	override, hasOverride := diagram.ParseType(string(req.Type))

	res := &Result{Template: req.Template, Text: text}
	var d *diagram.Diagram

	if req.UseAI && s.ai.Enabled() {
		s.log.Info("Analyzing text with AI", "template", req.Template, "chars", len(text))
		a := <-s.ai.AnalyzeAsync(ctx, text)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if a.FromAI {
			if enhanced := strings.TrimSpace(a.Payload.Enhanced(text)); enhanced != "" {
				res.Text = enhanced
			}
			d = analysis.Normalize(a.Payload)
			if d.Type == "" {
				d.Type = dt
			}
			res.FromAI = true
		} else {
			s.log.Warn("AI analysis failed, using text parser", "template", req.Template)
			d = parser.ParseText(text)
			d.Type = dt
		}
	} else {
		if req.UseAI {
			s.log.Warn("AI requested but not configured, using text parser")
		}
		d = parser.ParseText(text)
		d.Type = dt
	}
	if hasOverride {
		d.Type = override
	}
	return s.finish(res, d, tpl), nil
}

// Open lays out an existing diagram such as an imported definition. The
// template is optional and only supplies the picture of image templates;
// a non-empty typ replaces the diagram's own type.
func (s *Studio) Open(d *diagram.Diagram, templateName string, typ diagram.Type) (*Result, error) {
	if d == nil || len(d.Nodes) == 0 {
		return nil, ErrEmptyDiagram
	}
	var tpl template.Template
	if templateName != "" {
		t, err := s.template(templateName)
		if err != nil {
			return nil, err
		}
		tpl = t
	}
	d = d.Clone()
	if dt, ok := diagram.ParseType(string(typ)); ok {
		d.Type = dt
	}
	res := &Result{Template: templateName, Text: strings.Join(d.NodeTexts(), "\n")}
	return s.finish(res, d, tpl), nil
}

// OpenTemplate lays out the diagram saved in the named template.
func (s *Studio) OpenTemplate(name string, typ diagram.Type) (*Result, error) {
	tpl, err := s.template(name)
	if err != nil {
		return nil, err
	}
	if tpl.Diagram == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoDefinition, name)
	}
	d := tpl.Diagram.ToDiagram()
	if d.Type == "" {
		d.Type = tpl.GetType()
	}
	return s.Open(d, name, typ)
}

// Import reads a Mermaid, PlantUML, Graphviz or D2 file and lays it out.
func (s *Studio) Import(path, templateName string, typ diagram.Type) (*Result, error) {
	d, err := s.importers.ImportFile(path)
	if err != nil {
		return nil, err
	}
	s.log.Info("Imported definition", "path", path, "nodes", len(d.Nodes), "edges", len(d.Edges))
	return s.Open(d, templateName, typ)
}

// ImportFormats returns the definition languages Import understands.
func (s *Studio) ImportFormats() []string {
	return s.importers.Formats()
}

// SaveDefinition stores the result's diagram in the named template,
// creating the template with the result's type when it does not exist.
func (s *Studio) SaveDefinition(r *Result, name string) error {
	if r == nil || r.Diagram == nil {
		return ErrNoResult
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNoTemplate
	}
	tpl, ok := s.templates.Get(name)
	if !ok {
		tpl = template.Template{Type: r.Type}
	}
	tpl.Diagram = template.FromDiagram(r.Diagram)
	if err := s.templates.Save(name, tpl); err != nil {
		return err
	}
	s.log.Info("Saved diagram definition", "id", r.ID.String(), "template", name)
	return nil
}

// finish attaches the template picture, lays d out and checks it.
func (s *Studio) finish(res *Result, d *diagram.Diagram, tpl template.Template) *Result {
	if tpl.IsImage() {
		img, err := tpl.Image()
		if err != nil {
			s.log.Warn("Template image unavailable", "template", res.Template, "error", err)
		}
		res.Image = img
	}

	res.ID = ulid.MustNew(ulid.Now(), rand.Reader)
	res.Diagram = d
	res.Type = d.GetType()
	res.Layout = layout.Compute(d, s.opts.Layout)
	res.Issues = validation.Check(d)
	for _, issue := range res.Issues {
		s.log.Debug("Diagram issue", "kind", issue.Kind, "message", issue.Message)
	}

	s.log.Info("Generated diagram",
		"id", res.ID.String(),
		"type", res.Type,
		"nodes", len(d.Nodes),
		"edges", len(d.Edges),
		"issues", len(res.Issues),
		"ai", res.FromAI)
	return res
}

func (s *Studio) exportOptions(r *Result) export.Options {
	opts := s.opts.Export
	opts.Image = r.Image
	opts.Logger = s.log
	return opts
}

// Export writes the result to path in the format its extension names.
func (s *Studio) Export(r *Result, path string) error {
	if r == nil || r.Diagram == nil {
		return ErrNoResult
	}
	if err := export.Export(path, r.Diagram, r.Layout, s.opts.Render, s.exportOptions(r)); err != nil {
		return err
	}
	s.log.Info("Exported diagram", "id", r.ID.String(), "path", path)
	return nil
}

// QuickSave writes the result as a PNG named after its template and the
// current time into the output directory, returning the path.
func (s *Studio) QuickSave(r *Result) (string, error) {
	if r == nil || r.Diagram == nil {
		return "", ErrNoResult
	}
	name := strings.TrimSpace(r.Template)
	if name == "" {
		name = QuickSaveName
	}
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)

	path := filepath.Join(s.opts.OutputDir, fmt.Sprintf("%s_%s.png", name, s.now().Format("20060102_150405")))
	if err := s.Export(r, path); err != nil {
		return "", err
	}
	return path, nil
}

// Text renders the result on the character grid.
func (s *Studio) Text(r *Result) (string, error) {
	if r == nil || r.Diagram == nil {
		return "", ErrNoResult
	}
	var buf bytes.Buffer
	opts := s.exportOptions(r)
	if err := export.Encode(&buf, export.FormatText, r.Diagram, r.Layout, s.opts.Render, opts); err != nil {
		return "", err
	}
	text := buf.String()

	ascii := opts.Text.Capabilities.UnicodeLevel == canvas.UnicodeNone
	if issues := validation.NewLineValidator(ascii).Validate(text); len(issues) > 0 {
		s.log.Debug("Text render has unjoined lines", "count", len(issues), "first", issues[0].String())
	}
	return text, nil
}

// Canvas renders the result onto a character grid, keeping the cell
// background colors for the terminal preview.
func (s *Studio) Canvas(r *Result) (*canvas.MatrixCanvas, error) {
	if r == nil || r.Diagram == nil {
		return nil, ErrNoResult
	}
	surface := canvas.NewTextSurface(s.opts.Export.Text)
	var opts []render.Option
	if r.Image != nil {
		opts = append(opts, render.WithImage(r.Image))
	}
	if _, err := render.NewRenderer(s.opts.Render, s.log).Render(r.Diagram, r.Layout, surface, opts...); err != nil {
		return nil, err
	}
	return surface.Canvas(), nil
}

// Enhance asks the model to rewrite text for the named template's type.
func (s *Studio) Enhance(ctx context.Context, text, templateName string) (string, error) {
	if !s.ai.Enabled() {
		return "", ErrAIUnavailable
	}
	tpl, err := s.template(templateName)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return s.ai.Enhance(ctx, text, tpl.GetType()), nil
}

// Suggest asks the model which diagram type suits text.
func (s *Studio) Suggest(ctx context.Context, text string) (diagram.Type, error) {
	if !s.ai.Enabled() {
		return "", ErrAIUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return s.ai.Suggest(ctx, text), nil
}
