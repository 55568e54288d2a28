// Package commands implements the lexdraw command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"lexdraw/ai"
	"lexdraw/config"
	"lexdraw/logging"
	"lexdraw/studio"
	"lexdraw/template"
	"lexdraw/terminal"
)

// envFile is read from the working directory when present.
const envFile = ".env"

// app is the state shared by every command. It is filled in by setup once
// flags are parsed.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	studio *studio.Studio

	getenv        func(string) string
	newClient     func(ai.ClientOptions) (ai.Client, error)
	readClipboard func() (string, error)
	preview       func(context.Context, terminal.Page) error
}

func newApp() *app {
	return &app{
		getenv: os.Getenv,
		newClient: func(opts ai.ClientOptions) (ai.Client, error) {
			return ai.NewOpenAIClient(opts)
		},
		readClipboard: clipboard.ReadAll,
		preview:       terminal.Preview,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "lexdraw",
		Short: "lexdraw turns structured text into diagrams",
		Long: `lexdraw draws hierarchies, flowcharts, networks, decision trees and
frameworks from plain text, one concept per line. Templates pick the
diagram type; an optional language model can restructure the text first.
Diagrams are saved as PNG, JPEG, PDF, SVG or text, and as JSON, Mermaid,
PlantUML, D2 or Graphviz definitions.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newGenerateCmd(a),
		newPreviewCmd(a),
		newImportCmd(a),
		newEnhanceCmd(a),
		newSuggestCmd(a),
		newAICheckCmd(a),
		newTemplatesCmd(a),
		newFormatsCmd(a),
	)
	return root
}

// Execute runs the command line and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(newApp()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and builds the studio.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	fs := cmd.Flags()
	file, _ := fs.GetString(config.FlagConfig)
	cfg, err := config.Load(config.Sources{
		File:         file,
		FileRequired: fs.Changed(config.FlagConfig),
		EnvFile:      envFile,
		Getenv:       a.getenv,
	})
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(fs); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.log = logging.New(cmd.ErrOrStderr(), level, cfg.Log.Format)

	store := template.LoadDir(cfg.TemplateDir, a.log)

	var svc *ai.Service
	if cfg.AIReady() {
		client, err := a.newClient(cfg.ClientOptions())
		if err != nil {
			return fmt.Errorf("create AI client: %w", err)
		}
		svc = ai.NewService(client, cfg.AI.Timeout, a.log)
		a.log.Debug("AI enabled", "model", cfg.AI.Model, "base_url", cfg.AI.BaseURL)
	}

	a.studio = studio.New(store, svc, studio.Options{
		Render:    cfg.RenderConfig(),
		Export:    cfg.ExportOptions(),
		Layout:    cfg.LayoutOptions(),
		OutputDir: cfg.OutputDir,
		Logger:    a.log,
	})
	return nil
}

// inputFlags select where the diagram text comes from.
type inputFlags struct {
	text      string
	clipboard bool
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.text, "text", "", "diagram text, one concept per line")
	cmd.Flags().BoolVar(&in.clipboard, "clipboard", false, "read the text from the clipboard")
}

// read returns the text from --text, the clipboard, the file argument or
// standard input, in that order.
func (in *inputFlags) read(a *app, cmd *cobra.Command, args []string) (string, error) {
	switch {
	case in.text != "":
		return in.text, nil
	case in.clipboard:
		text, err := a.readClipboard()
		if err != nil {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		return text, nil
	case len(args) > 0 && args[0] != "-":
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

// templateName returns name, or the first loaded template when name is empty.
func (a *app) templateName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if names := a.studio.Templates().Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}
