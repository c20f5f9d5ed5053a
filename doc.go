// Package langfuse records hierarchical execution traces of LLM
// applications in process memory and ships them to the Langfuse ingestion
// API as one batch.
//
// # Quick Start
//
//	client, err := langfuse.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Shutdown(context.Background())
//
//	cfg, err := langfuse.NewTraceConfig("checkout", langfuse.WithUserID("user-123"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trace := client.Trace(cfg)
//
//	retrieval := trace.Span("retrieve-docs")
//	gen := retrieval.Generation("answer", "gpt-4o",
//	    langfuse.WithInput("What is Go?"))
//	// ... call the model ...
//	gen.WithUsageDetails(map[string]int{"input": 12, "output": 80})
//	gen.EndWith(langfuse.UpdateData{Output: "Go is a programming language..."})
//	retrieval.End()
//
//	trace.Score("helpfulness", 0.9)
//	if err := client.Flush(ctx); err != nil {
//	    log.Printf("flush: %v", err)
//	}
//
// # Trace Trees
//
// A [Trace] owns its root observations and every [Span] owns its children.
// Observations only point back to their trace and parent by ID. Ending a
// span ends its unended children at the same instant, and a parent's end
// time is extended to cover the latest child. Trees are not locked; build
// one tree from one goroutine at a time.
//
// The [Tracing] collector keeps traces in creation order plus an active
// trace that the collector's Span, Generation, Event and Score methods act
// on. Flush drains the collector, flattens every tree in pre-order and
// posts the envelopes as a single batch.
//
// # Failure Handling
//
// Requests are retried with the configured strategy and guarded by a
// circuit breaker per service key ("ingestion", "prompts"). While a key's
// circuit is open, calls fail immediately with an error matching
// [ErrCircuitOpen].
//
// By default Flush never returns ingestion failures: they are logged and
// published to [Client.OnError] callbacks and the [Client.Errors] channel.
// Set FailOnError in the configuration to have Flush return them.
// Configuration errors and misuse such as [ErrNoActiveTrace] are always
// returned.
//
// # Shutdown
//
// [Client.Shutdown] waits for FlushAsync sends still in flight and then
// refuses new ones with [ErrClientClosed]. It does not flush collected
// traces by itself.
//
// # Subpackages
//
//   - pkg/config: configuration from environment variables or YAML.
//   - pkg/http: transport, retry policy and circuit breaker.
//   - pkg/types: metadata, prompts and wire timestamps.
//   - pkg/metrics: Prometheus implementation of [Metrics].
//   - pkg/builders: fluent builders for metadata, usage, cost and model parameters.
//   - langfusetest: mock ingestion server and stub HTTP client for tests.
package langfuse

// Version is the current SDK version.
// This is used in User-Agent headers and for debugging.
const Version = "1.0.0"
