package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lexdraw/diagram"
	"lexdraw/studio"
	"lexdraw/terminal"
)

// outputFlags say what happens to a finished diagram.
type outputFlags struct {
	paths     []string
	quickSave bool
	saveDef   string
	print     bool
}

func (out *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&out.paths, "out", "o", nil, "write the diagram to these files; the extension picks the format")
	cmd.Flags().BoolVar(&out.quickSave, "quick-save", false, "save a timestamped PNG into the output directory")
	cmd.Flags().StringVar(&out.saveDef, "save-def", "", "store the diagram definition in the named template")
	cmd.Flags().BoolVarP(&out.print, "print", "p", false, "print the diagram as text even when writing files")
}

// emit writes, saves and prints r as the output flags ask. With no files
// and no quick save the text rendering is printed.
func (a *app) emit(cmd *cobra.Command, r *studio.Result, out outputFlags) error {
	w := cmd.OutOrStdout()
	for _, issue := range r.Issues {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("warning:"), issue.String())
	}

	for _, path := range out.paths {
		if err := a.studio.Export(r, path); err != nil {
			return err
		}
		fmt.Fprintln(w, successStyle.Render("Saved"), path)
	}
	if out.quickSave {
		path, err := a.studio.QuickSave(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, successStyle.Render("Saved"), path)
	}
	if out.saveDef != "" {
		if err := a.studio.SaveDefinition(r, out.saveDef); err != nil {
			return err
		}
		fmt.Fprintln(w, successStyle.Render("Stored definition in"), out.saveDef)
	}

	if out.print || (len(out.paths) == 0 && !out.quickSave) {
		text, err := a.studio.Text(r)
		if err != nil {
			return err
		}
		fmt.Fprint(w, text)
	}
	return nil
}

// generateFlags are shared by generate and preview.
type generateFlags struct {
	input    inputFlags
	template string
	typ      string
	noAI     bool
}

func (g *generateFlags) register(cmd *cobra.Command) {
	g.input.register(cmd)
	cmd.Flags().StringVarP(&g.template, "template", "t", "", "template name (default: the first template)")
	cmd.Flags().StringVarP(&g.typ, "type", "T", "", "diagram type, overriding the template and the AI suggestion")
	cmd.Flags().BoolVar(&g.noAI, "plain", false, "use the text parser even when AI is configured")
}

func (g *generateFlags) run(a *app, cmd *cobra.Command, args []string) (*studio.Result, error) {
	text, err := g.input.read(a, cmd, args)
	if err != nil {
		return nil, err
	}
	req := studio.Request{
		Template: a.templateName(g.template),
		Text:     text,
		UseAI:    a.studio.AIEnabled() && !g.noAI,
	}
	if g.typ != "" {
		dt, ok := diagram.ParseType(g.typ)
		if !ok {
			return nil, fmt.Errorf("unknown diagram type %q (known: %s)", g.typ, typeNames())
		}
		req.Type = dt
	}
	return a.studio.Generate(cmd.Context(), req)
}

func typeNames() string {
	names := make([]string, 0, len(diagram.Types()))
	for _, t := range diagram.Types() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		gen generateFlags
		out outputFlags
	)
	cmd := &cobra.Command{
		Use:   "generate [file|-]",
		Short: "Draw a diagram from text",
		Long: `Draw a diagram from text read from --text, the clipboard, a file or
standard input. Without --out or --quick-save the diagram is printed
with box-drawing characters.`,
		Example: `  lexdraw generate notes.txt -t "Legal Provision Hierarchy" -o court.png
  printf 'Plan\nBuild\nShip\n' | lexdraw generate -T flowchart -o plan.svg -o plan.mmd`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := gen.run(a, cmd, args)
			if err != nil {
				return err
			}
			return a.emit(cmd, r, out)
		},
	}
	gen.register(cmd)
	out.register(cmd)
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var gen generateFlags
	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Draw a diagram and browse it in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := gen.run(a, cmd, args)
			if err != nil {
				return err
			}
			return a.show(cmd, r)
		},
	}
	gen.register(cmd)
	return cmd
}

// show opens the terminal viewer on r.
func (a *app) show(cmd *cobra.Command, r *studio.Result) error {
	c, err := a.studio.Canvas(r)
	if err != nil {
		return err
	}
	status := fmt.Sprintf("%s | %s | %d nodes | ? help, q quit", r.Template, r.Type, len(r.Diagram.Nodes))
	if r.Template == "" {
		status = fmt.Sprintf("%s | %d nodes | ? help, q quit", r.Type, len(r.Diagram.Nodes))
	}
	return a.preview(cmd.Context(), terminal.PageFromCanvas(c, status))
}
