package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	langfuse "github.com/curacel/langfuse-go"
	"github.com/curacel/langfuse-go/pkg/builders"
	"github.com/curacel/langfuse-go/pkg/types"
)

type demoOptions struct {
	name     string
	userID   string
	tags     []string
	dryRun   bool
	async    bool
	failHard bool
}

func newDemoCmd(g *globalOptions) *cobra.Command {
	o := &demoOptions{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Record a sample retrieval-augmented trace and flush it",
		Long: `demo builds a trace with a retrieval span, a nested generation, an event
and a score, then sends it as one ingestion batch.

With --dry-run the batch is printed instead of sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()

			var extra []langfuse.Option
			if o.failHard {
				extra = append(extra, langfuse.WithFailOnError(true))
			}
			client, cleanup, err := g.client(cmd, extra...)
			if err != nil {
				return err
			}
			defer cleanup()

			trace, err := buildDemoTrace(client.Tracing(), o)
			if err != nil {
				return err
			}

			if o.dryRun {
				return writeJSON(cmd.OutOrStdout(), client.Tracing().Batch())
			}

			events := len(client.Tracing().Batch())
			if o.async {
				err = client.FlushAsync(ctx)
				if err == nil {
					err = client.Tracing().Wait(ctx)
				}
			} else {
				err = client.Flush(ctx)
			}
			if err != nil {
				return fmt.Errorf("flush: %w", err)
			}

			if g.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"traceId": trace.ID(), "events": events})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent trace %s (%d events)\n", trace.ID(), events)
			return nil
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "langfuse-trace-demo", "Trace name")
	cmd.Flags().StringVar(&o.userID, "user", "", "User ID recorded on the trace")
	cmd.Flags().StringSliceVar(&o.tags, "tag", nil, "Tag to add (repeatable)")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Print the ingestion batch instead of sending it")
	cmd.Flags().BoolVar(&o.async, "async", false, "Send with FlushAsync and wait for it")
	cmd.Flags().BoolVar(&o.failHard, "fail-on-error", false, "Return ingestion failures instead of logging them")
	return cmd
}

// buildDemoTrace records a small RAG-style execution on the collector.
func buildDemoTrace(tracing *langfuse.Tracing, o *demoOptions) (*langfuse.Trace, error) {
	md, err := builders.BuildMetadata().
		String("source", "langfuse-trace").
		Bool("demo", true).
		BuildChecked().
		Unwrap()
	if err != nil {
		return nil, err
	}
	cfg, err := langfuse.NewTraceConfig(o.name,
		langfuse.WithUserID(o.userID),
		langfuse.WithTags(builders.NewTags().Add(o.tags...).Add("demo").Build()...),
		langfuse.WithTraceMetadata(md),
		langfuse.WithTraceInput("What is a circuit breaker?"),
	)
	if err != nil {
		return nil, err
	}
	trace := tracing.Trace(cfg)

	retrieval := trace.Span("retrieve-documents", langfuse.WithInput(map[string]any{"k": 3}))
	retrieval.Event("cache-miss", langfuse.WithLevel(types.ObservationLevelWarning))

	params, err := builders.NewModelParameters().Temperature(0.2).MaxTokens(256).Build().Unwrap()
	if err != nil {
		return nil, err
	}
	gen := retrieval.Generation("answer", "gpt-4o-mini",
		langfuse.WithModelParameters(params),
		langfuse.WithInput("What is a circuit breaker?"),
	)
	gen.StartCompletion()
	usage := builders.NewUsage().Input(42).Output(96).Build()
	cost, err := builders.NewCost().Input(0.0001).Output(0.0004).Build().Unwrap()
	if err != nil {
		return nil, err
	}
	gen.EndWith(langfuse.UpdateData{
		Output:       "A circuit breaker stops calls to a failing dependency for a while.",
		UsageDetails: usage,
		CostDetails:  cost,
	})
	retrieval.EndAt(time.Now())

	trace.Score("helpfulness", 0.9, langfuse.WithComment("demo score"), langfuse.ForObservation(gen))
	trace.EndWith(langfuse.UpdateData{Output: "answered"})
	return trace, nil
}
