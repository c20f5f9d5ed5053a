// Package langfusetest provides helpers for testing code that uses the
// langfuse-go SDK without a real Langfuse backend.
//
// # Mock Server
//
// MockServer records requests and decodes ingestion batches:
//
//	client, server := langfusetest.NewTestClient(t)
//	trace := client.Trace(langfuse.TraceConfig{Name: "checkout"})
//	trace.Span("load-cart").End()
//	_ = client.Flush(ctx)
//
//	events := server.Events() // trace-create, span-create
//
// Reject makes the server report an envelope as failed in its 207
// response, and SetPrompt serves prompts.
//
// # Stub Doer
//
// StubDoer replaces the HTTP client with a queue of canned responses:
//
//	client, doer := langfusetest.NewStubClient(t)
//	doer.Push(503, nil).Push(207, map[string]any{"successes": []any{}})
//
// An empty queue fails with http.ErrStubQueueEmpty, which is never retried.
//
// # Mocks
//
// MockMetrics and MockLogger capture metrics and log calls.
package langfusetest
