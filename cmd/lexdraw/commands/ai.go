package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lexdraw/studio"
)

func newEnhanceCmd(a *app) *cobra.Command {
	var (
		in  inputFlags
		tpl string
	)
	cmd := &cobra.Command{
		Use:   "enhance [file|-]",
		Short: "Rewrite text into one concept per line with the language model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(a, cmd, args)
			if err != nil {
				return err
			}
			out, err := a.studio.Enhance(cmd.Context(), text, a.templateName(tpl))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&tpl, "template", "t", "", "template whose diagram type guides the rewrite")
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "suggest [file|-]",
		Short: "Ask the language model which diagram type suits the text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(a, cmd, args)
			if err != nil {
				return err
			}
			dt, err := a.studio.Suggest(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), typeStyle.Render(string(dt)))
			return nil
		},
	}
	in.register(cmd)
	return cmd
}

func newAICheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ai-check",
		Short: "Check that the language model answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.studio.AIEnabled() {
				return fmt.Errorf("%w: set LEXDRAW_API_KEY, DASHSCOPE_API_KEY or OPENAI_API_KEY", studio.ErrAIUnavailable)
			}
			if !a.studio.AIAvailable(cmd.Context()) {
				return fmt.Errorf("%w: %s at %s did not answer", studio.ErrAIUnavailable, a.cfg.AI.Model, a.cfg.AI.BaseURL)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("AI available:"), a.cfg.AI.Model)
			return nil
		},
	}
}
