package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	langfuse "github.com/curacel/langfuse-go"
)

type promptOptions struct {
	label    string
	version  int
	vars     []string
	fallback string
	raw      bool
}

func newPromptCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Work with managed prompts",
	}
	cmd.AddCommand(newPromptGetCmd(g))
	return cmd
}

func newPromptGetCmd(g *globalOptions) *cobra.Command {
	o := &promptOptions{}
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Fetch a prompt and print it compiled with --var values",
		Example: `  langfuse-trace prompt get support-reply --label production --var question="Where is my order?"
  langfuse-trace prompt get support-reply --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := parseVars(o.vars)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()

			client, cleanup, err := g.client(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var opts []langfuse.PromptOption
			if o.label != "" {
				opts = append(opts, langfuse.WithLabel(o.label))
			}
			if o.version > 0 {
				opts = append(opts, langfuse.WithPromptVersion(o.version))
			}
			if o.fallback != "" {
				opts = append(opts, langfuse.WithFallbackText(o.fallback))
			}

			p, err := client.Prompts().Get(ctx, args[0], opts...)
			if err != nil {
				return err
			}

			if o.raw {
				if g.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), p)
				}
				fmt.Fprintln(cmd.OutOrStdout(), p.Raw())
				return nil
			}

			rendered, err := p.Render(vars)
			if err != nil {
				return err
			}
			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), rendered)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&o.label, "label", "", "Fetch the version carrying this label")
	cmd.Flags().IntVar(&o.version, "version", 0, "Fetch a specific version")
	cmd.Flags().StringArrayVar(&o.vars, "var", nil, "Template variable as key=value (repeatable)")
	cmd.Flags().StringVar(&o.fallback, "fallback", "", "Text prompt used when the fetch fails")
	cmd.Flags().BoolVar(&o.raw, "raw", false, "Print the template without substituting variables")
	return cmd
}

// parseVars turns key=value pairs into template variables.
func parseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --var %q, want key=value", pair)
		}
		vars[k] = v
	}
	return vars, nil
}
