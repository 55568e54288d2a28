package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lexdraw/diagram"
	"lexdraw/studio"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		out     outputFlags
		tpl     string
		typ     string
		preview bool
		fromTpl bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Draw a Mermaid, PlantUML, Graphviz or D2 definition",
		Long: `Read a diagram definition and draw it with lexdraw's layouts. The
extension picks the language (.mmd, .puml, .dot, .gv, .d2); other files
are detected from their content. With --from-template the argument names
a template whose stored definition is drawn instead.`,
		Example: `  lexdraw import services.dot -o services.png
  lexdraw import flow.mmd -T flowchart --preview
  lexdraw import --from-template "Research Framework" -o framework.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dt diagram.Type
			if typ != "" {
				parsed, ok := diagram.ParseType(typ)
				if !ok {
					return fmt.Errorf("unknown diagram type %q (known: %s)", typ, typeNames())
				}
				dt = parsed
			}

			var (
				r   *studio.Result
				err error
			)
			if fromTpl {
				r, err = a.studio.OpenTemplate(args[0], dt)
			} else {
				r, err = a.studio.Import(args[0], tpl, dt)
			}
			if err != nil {
				return err
			}
			if preview {
				return a.show(cmd, r)
			}
			return a.emit(cmd, r, out)
		},
	}
	cmd.Flags().StringVarP(&tpl, "template", "t", "", "template supplying the picture of image templates")
	cmd.Flags().StringVarP(&typ, "type", "T", "", "diagram type (default: framework for left-to-right definitions, else hierarchy)")
	cmd.Flags().BoolVar(&preview, "preview", false, "browse the diagram in the terminal instead of writing it")
	cmd.Flags().BoolVar(&fromTpl, "from-template", false, "draw the definition stored in the named template")
	out.register(cmd)
	return cmd
}
