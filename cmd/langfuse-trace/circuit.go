package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	langfuse "github.com/curacel/langfuse-go"
)

func newCircuitCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circuit",
		Short: "Exercise the per-service circuit breaker",
	}
	cmd.AddCommand(newCircuitCheckCmd(g))
	return cmd
}

func newCircuitCheckCmd(g *globalOptions) *cobra.Command {
	var attempts int
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Send small traces until the ingestion circuit opens or attempts run out",
		Long: `check flushes one minimal trace per attempt with failures returned rather
than logged, then prints the breaker state of every service key it touched.
Point --host at an unreachable address to watch the circuit open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if attempts < 1 {
				return fmt.Errorf("--attempts must be at least 1")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()

			client, cleanup, err := g.client(cmd, langfuse.WithFailOnError(true))
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			for i := 1; i <= attempts; i++ {
				cfg, err := langfuse.NewTraceConfig("circuit-check")
				if err != nil {
					return err
				}
				client.Trace(cfg).End()
				err = client.Flush(ctx)
				if !g.jsonOutput {
					switch {
					case err == nil:
						fmt.Fprintf(out, "attempt %d: ok\n", i)
					case langfuse.IsCircuitOpen(err):
						fmt.Fprintf(out, "attempt %d: circuit open\n", i)
					default:
						fmt.Fprintf(out, "attempt %d: %v\n", i, err)
					}
				}
				if ctx.Err() != nil {
					break
				}
			}

			status := client.CircuitBreakerStatus()
			if g.jsonOutput {
				return writeJSON(out, status)
			}
			keys := make([]string, 0, len(status))
			for k := range status {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SERVICE\tSTATE\tFAILURES\tLAST FAILURE")
			for _, k := range keys {
				s := status[k]
				last := "-"
				if !s.LastFailureAt.IsZero() {
					last = s.LastFailureAt.Format("15:04:05")
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", k, s.Status, s.FailureCount, last)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&attempts, "attempts", "n", 5, "Number of flushes to attempt")
	return cmd
}
