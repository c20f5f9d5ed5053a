package langfuse_test

import (
	"context"
	"fmt"
	"net/http"

	langfuse "github.com/curacel/langfuse-go"
	"github.com/curacel/langfuse-go/langfusetest"
	"github.com/curacel/langfuse-go/pkg/config"
	"github.com/curacel/langfuse-go/pkg/types"
)

func exampleConfig() config.Config {
	cfg := config.Default()
	cfg.PublicKey = "pk-lf-example"
	cfg.SecretKey = "sk-lf-example"
	return cfg
}

func ExampleNew() {
	client, err := langfuse.New(exampleConfig(),
		langfuse.WithRegion(config.RegionUS),
		langfuse.WithLogger(langfuse.NopLogger{}),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer client.Shutdown(context.Background())

	fmt.Println(client.Config().BaseURL())
	// Output: https://us.cloud.langfuse.com/
}

func ExampleNew_missingKeys() {
	_, err := langfuse.New(config.Default())
	fmt.Println(err)
	// Output: langfuse: invalid configuration for secret_key: secret key is required
}

// Children are sent as separate envelopes after their parent.
func ExampleTracing_Batch() {
	client, err := langfuse.New(exampleConfig(),
		langfuse.WithLogger(langfuse.NopLogger{}),
		langfuse.WithDoer(langfusetest.NewStubDoer()),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer client.Shutdown(context.Background())

	cfg, _ := langfuse.NewTraceConfig("chat", langfuse.WithUserID("user-123"))
	trace := client.Trace(cfg)
	retrieve := trace.Span("retrieve")
	retrieve.Generation("rerank", "gpt-4o-mini").End()
	retrieve.End()
	trace.Event("cache-hit")
	trace.Score("relevance", 0.7)

	for _, event := range client.Tracing().Batch() {
		fmt.Println(event.Type)
	}
	// Output:
	// trace-create
	// span-create
	// generation-create
	// event-create
	// score-create
}

func ExampleClient_Flush() {
	stub := langfusetest.NewStubDoer().
		Push(http.StatusMultiStatus, map[string]any{"successes": []any{}, "errors": []any{}})
	client, err := langfuse.New(exampleConfig(),
		langfuse.WithLogger(langfuse.NopLogger{}),
		langfuse.WithDoer(stub),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer client.Shutdown(context.Background())

	cfg, _ := langfuse.NewTraceConfig("nightly-job")
	client.Trace(cfg).End()

	if err := client.Flush(context.Background()); err != nil {
		fmt.Println("flush:", err)
		return
	}
	fmt.Println(len(stub.Requests()), "request,", len(client.Tracing().Traces()), "traces left")
	// Output: 1 request, 0 traces left
}

func ExamplePromptClient_Get() {
	stub := langfusetest.NewStubDoer().
		Push(http.StatusOK, types.NewTextPrompt("greeting", "Hello {{name}}!"))
	client, err := langfuse.New(exampleConfig(),
		langfuse.WithLogger(langfuse.NopLogger{}),
		langfuse.WithDoer(stub),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer client.Shutdown(context.Background())

	p, err := client.Prompts().Get(context.Background(), "greeting", langfuse.WithLabel("production"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	text, err := p.Compile(map[string]any{"name": "Ada"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(p.Variables(), text)
	// Output: [name] Hello Ada!
}

func ExampleTraceFromContext() {
	client, err := langfuse.New(exampleConfig(), langfuse.WithLogger(langfuse.NopLogger{}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer client.Shutdown(context.Background())

	cfg, _ := langfuse.NewTraceConfig("request", langfuse.WithTraceID("trace-1"))
	ctx := langfuse.ContextWithTrace(context.Background(), client.Trace(cfg))

	if trace, ok := langfuse.TraceFromContext(ctx); ok {
		fmt.Println(trace.ID())
	}
	// Output: trace-1
}
