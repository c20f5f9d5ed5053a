package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curacel/langfuse-go/pkg/config"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or check the SDK configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with credentials masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			cfg.PublicKey = config.MaskCredential(cfg.PublicKey)
			cfg.SecretKey = config.MaskCredential(cfg.SecretKey)
			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}
			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the resolved base URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n", cfg.BaseURL())
			return nil
		},
	}

	env := &cobra.Command{
		Use:   "env",
		Short: "List the supported LANGFUSE_* environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Usage()
		},
	}

	cmd.AddCommand(show, validate, env)
	return cmd
}
