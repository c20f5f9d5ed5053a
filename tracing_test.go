package langfuse_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	langfuse "github.com/curacel/langfuse-go"
	"github.com/curacel/langfuse-go/langfusetest"
	"github.com/curacel/langfuse-go/pkg/config"
	"github.com/curacel/langfuse-go/pkg/ingestion"
)

func TestTracing_FlushSendsAllTracesInOrder(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)
	tracing := client.Tracing()

	first := tracing.Trace(langfuse.TraceConfig{Name: "first"})
	first.Span("a").Event("a.1")
	second := tracing.Trace(langfuse.TraceConfig{Name: "second"})
	second.Generation("g", "gpt-4o")

	require.NoError(t, tracing.Flush(context.Background()))

	batches := server.Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, []ingestion.EventType{
		ingestion.EventTypeTraceCreate, ingestion.EventTypeSpanCreate, ingestion.EventTypeEventCreate,
		ingestion.EventTypeTraceCreate, ingestion.EventTypeGenerationCreate,
	}, batches[0].Types())
	assert.Equal(t, first.ID(), batches[0].Batch[0].ID)
	assert.Equal(t, second.ID(), batches[0].Batch[3].ID)

	assert.False(t, first.EndTime().IsZero(), "flush ends open traces")
	assert.Empty(t, tracing.Traces(), "flush drains the collector")
	_, err := tracing.ActiveTrace()
	assert.ErrorIs(t, err, langfuse.ErrNoActiveTrace)

	require.NoError(t, tracing.Flush(context.Background()))
	assert.Equal(t, 1, server.RequestCount(), "nothing left to send")
}

func TestTracing_ActiveTrace(t *testing.T) {
	client, _ := langfusetest.NewTestClient(t)
	tracing := client.Tracing()

	_, err := tracing.Span("orphan")
	assert.ErrorIs(t, err, langfuse.ErrNoActiveTrace)
	_, err = tracing.Score("s", 1)
	assert.ErrorIs(t, err, langfuse.ErrNoActiveTrace)
	_, err = tracing.TraceID()
	assert.ErrorIs(t, err, langfuse.ErrNoActiveTrace)

	a := tracing.Trace(langfuse.TraceConfig{Name: "a"})
	b := tracing.Trace(langfuse.TraceConfig{Name: "b"})
	id, err := tracing.TraceID()
	require.NoError(t, err)
	assert.Equal(t, b.ID(), id, "the newest trace is active")

	require.NoError(t, tracing.SetActiveTrace(a.ID()))
	span, err := tracing.Span("on-a")
	require.NoError(t, err)
	assert.Equal(t, a.ID(), span.TraceID())
	gen, err := tracing.Generation("gen-on-a", "m")
	require.NoError(t, err)
	assert.Equal(t, a.ID(), gen.TraceID())
	ev, err := tracing.Event("ev-on-a")
	require.NoError(t, err)
	assert.Equal(t, a.ID(), ev.TraceID())
	score, err := tracing.Score("quality", 0.5)
	require.NoError(t, err)
	assert.Equal(t, a.ID(), score.TraceID)

	err = tracing.SetActiveTrace("missing")
	assert.ErrorIs(t, err, langfuse.ErrTraceNotFound)
	var notFound *langfuse.TraceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}

func TestTracing_BatchDoesNotDrain(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)
	trace := client.Trace(langfuse.TraceConfig{Name: "t"})
	trace.Span("s")

	events := client.Tracing().Batch()
	assert.Len(t, events, 2)
	assert.Len(t, client.Tracing().Traces(), 1)
	assert.Equal(t, 0, server.RequestCount())
}

func TestTracing_Disabled(t *testing.T) {
	server := langfusetest.NewMockServer()
	defer server.Close()
	cfg := langfusetest.Config(server.URL)
	cfg.Enabled = false
	client, err := langfuse.New(cfg, langfuse.WithLogger(langfuse.NopLogger{}))
	require.NoError(t, err)
	defer client.Shutdown(context.Background())

	client.Trace(langfuse.TraceConfig{Name: "ignored"})
	require.NoError(t, client.Flush(context.Background()))
	require.NoError(t, client.FlushAsync(context.Background()))
	assert.Equal(t, 0, server.RequestCount())
	assert.Len(t, client.Tracing().Traces(), 1, "disabled flush leaves traces in place")
}

func TestTracing_FlushAsync(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)
	client.Trace(langfuse.TraceConfig{Name: "async"})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, client.FlushAsync(ctx))
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, client.Tracing().Wait(waitCtx))

	assert.Len(t, server.Batches(), 1, "caller cancellation does not cancel the send")
	assert.Empty(t, client.Tracing().Traces())
}

func TestTracing_FlushAsyncFailureIsReported(t *testing.T) {
	var mu sync.Mutex
	var reported []*langfuse.AsyncError
	client, server := langfusetest.NewTestClient(t,
		langfuse.WithFailOnError(true),
		langfuse.WithOnAsyncError(func(err *langfuse.AsyncError) {
			mu.Lock()
			defer mu.Unlock()
			reported = append(reported, err)
		}),
	)
	server.RespondWithError(400, "bad batch")
	trace := client.Trace(langfuse.TraceConfig{Name: "doomed"})

	require.NoError(t, client.FlushAsync(context.Background()))
	require.NoError(t, client.Tracing().Wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reported, 1)
	assert.Equal(t, []string{trace.ID()}, reported[0].EventIDs)
	assert.False(t, langfuse.IsRetryable(reported[0]), "400 is permanent")

	select {
	case err := <-client.Errors():
		assert.Same(t, reported[0], err)
	default:
		t.Fatal("error was not published on the channel")
	}
}

func TestTracing_FlushAsyncAfterShutdown(t *testing.T) {
	cfg := langfusetest.Config("http://unused.invalid")
	client, err := langfuse.New(cfg, langfuse.WithLogger(langfuse.NopLogger{}), langfuse.WithDoer(langfusetest.NewStubDoer()))
	require.NoError(t, err)
	require.NoError(t, client.Shutdown(context.Background()))

	client.Trace(langfuse.TraceConfig{Name: "late"})
	assert.ErrorIs(t, client.FlushAsync(context.Background()), langfuse.ErrClientClosed)
	assert.Len(t, client.Tracing().Traces(), 1, "refused traces are kept")
	assert.ErrorIs(t, client.Shutdown(context.Background()), langfuse.ErrClientClosed)
}

func TestTracing_EnvironmentFromConfig(t *testing.T) {
	client, server := langfusetest.NewTestClient(t, langfuse.WithEnvironment("staging"))
	client.Trace(langfuse.TraceConfig{Name: "t"})
	require.NoError(t, client.Flush(context.Background()))

	events := server.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "staging", events[0].Body["environment"])
	assert.Equal(t, config.DefaultEnvironment, config.Default().Environment)
}

func TestTracing_FlushAsyncRacingShutdownLosesNothing(t *testing.T) {
	for i := 0; i < 25; i++ {
		client, server := langfusetest.NewTestClient(t)
		trace := client.Trace(langfuse.TraceConfig{Name: "race"})

		start := make(chan struct{})
		var wg sync.WaitGroup
		var flushErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			flushErr = client.FlushAsync(context.Background())
		}()
		go func() {
			defer wg.Done()
			<-start
			_ = client.Shutdown(context.Background())
		}()
		close(start)
		wg.Wait()
		require.NoError(t, client.Tracing().Wait(context.Background()))

		if flushErr != nil {
			require.ErrorIs(t, flushErr, langfuse.ErrClientClosed)
			held := client.Tracing().Traces()
			require.Len(t, held, 1, "iteration %d: refused trace is kept", i)
			assert.Same(t, trace, held[0])
			assert.True(t, trace.EndTime().IsZero(), "refused trace is not ended")
			assert.Equal(t, 0, server.RequestCount())
			continue
		}
		assert.Empty(t, client.Tracing().Traces())
		require.Len(t, server.Batches(), 1, "iteration %d: accepted trace is sent", i)
		assert.Equal(t, []string{trace.ID()}, server.Batches()[0].IDs())
	}
}

func TestTracing_FlushAsyncWithNothingCollected(t *testing.T) {
	client, server := langfusetest.NewTestClient(t)
	require.NoError(t, client.FlushAsync(context.Background()))
	require.NoError(t, client.Tracing().Wait(context.Background()))
	assert.Equal(t, 0, server.RequestCount())
}
