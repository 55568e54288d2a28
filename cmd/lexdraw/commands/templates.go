package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lexdraw/export"
	"lexdraw/template"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template", "tpl"},
		Short:   "List, show, import and export templates",
	}
	cmd.AddCommand(
		newTemplatesListCmd(a),
		newTemplatesShowCmd(a),
		newTemplatesImportCmd(a),
		newTemplatesExportCmd(a),
	)
	return cmd
}

func newTemplatesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the loaded templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := a.studio.Templates()
			names := store.Names()
			width := 0
			for _, name := range names {
				width = max(width, lipgloss.Width(name))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Templates in %s", store.Dir())))
			for _, name := range names {
				t, _ := store.Get(name)
				row := lipgloss.JoinHorizontal(lipgloss.Top,
					nameStyle.Width(width+2).Render(name),
					typeStyle.Width(16).Render(string(t.GetType())),
					dimStyle.Render(t.Description),
				)
				fmt.Fprintln(w, row)
			}
			return nil
		},
	}
}

func newTemplatesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a template as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := a.studio.Templates().Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", template.ErrNotFound, args[0])
			}
			t.Name = args[0]
			if n := len(t.ImageBase64); n > 0 {
				t.ImageBase64 = fmt.Sprintf("<%d base64 characters>", n)
			}
			data, err := yaml.Marshal(t)
			if err != nil {
				return fmt.Errorf("show template: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newTemplatesImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add a JSON template or an image to the template file",
		Long: `Add a template to the template directory. A JSON file holds one
template; an image (png, jpg, gif, bmp, tiff) becomes an image
template named after the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.studio.Templates()
			name, err := store.Import(args[0])
			if err != nil {
				return err
			}
			t, _ := store.Get(name)
			if err := store.Save(name, t); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Imported"), name)
			return nil
		},
	}
}

func newTemplatesExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <file>",
		Short: "Write a template to a JSON or YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.studio.Templates().Export(args[1], args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Saved"), args[1])
			return nil
		},
	}
}

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the output and import formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			desc := export.GetFormatDescriptions()

			fmt.Fprintln(w, titleStyle.Render("Images"))
			for _, f := range export.ImageFormats() {
				fmt.Fprintln(w, " ", nameStyle.Width(10).Render(string(f)), dimStyle.Render(desc[f]))
			}
			fmt.Fprintln(w, titleStyle.Render("Definitions"))
			for _, f := range export.DefinitionFormats() {
				fmt.Fprintln(w, " ", nameStyle.Width(10).Render(string(f)), dimStyle.Render(desc[f]))
			}

			imports := a.studio.ImportFormats()
			sort.Strings(imports)
			fmt.Fprintln(w, titleStyle.Render("Import"))
			fmt.Fprintln(w, " ", strings.Join(imports, ", "))
			return nil
		},
	}
}
