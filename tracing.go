package langfuse

import (
	"context"
	"sync"

	"github.com/curacel/langfuse-go/pkg/errors"
	"github.com/curacel/langfuse-go/pkg/ingestion"
	"github.com/curacel/langfuse-go/pkg/lifecycle"
	"github.com/curacel/langfuse-go/pkg/types"
)

// Tracing collects traces in memory and flushes them as one batch.
//
// The collector keeps traces in creation order plus a pointer to the
// active trace, which Span, Generation, Event and Score act on. Creating a
// trace makes it active. The list and the pointer are safe for concurrent
// use; the trees themselves are not.
//
// Flush and FlushAsync drain the collector: flushed traces are removed and
// the active pointer is cleared, so no trace is sent twice.
type Tracing struct {
	env         *treeEnv
	ingest      *IngestionClient
	lifecycle   *lifecycle.Manager
	errors      *errors.AsyncErrorHandler
	logger      StructuredLogger
	enabled     bool
	environment string

	mu     sync.Mutex
	traces []*Trace
	active *Trace
}

// Trace creates a trace from cfg, appends it and makes it active.
func (t *Tracing) Trace(cfg TraceConfig) *Trace {
	trace := newTrace(t.env, cfg)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.traces = append(t.traces, trace)
	t.active = trace
	return trace
}

// SetActiveTrace activates the collected trace with the given ID. It
// returns a *errors.TraceNotFoundError when no such trace is held.
func (t *Tracing) SetActiveTrace(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, trace := range t.traces {
		if trace.ID() == id {
			t.active = trace
			return nil
		}
	}
	return &errors.TraceNotFoundError{ID: id}
}

// ActiveTrace returns the active trace or errors.ErrNoActiveTrace.
func (t *Tracing) ActiveTrace() (*Trace, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return nil, errors.ErrNoActiveTrace
	}
	return t.active, nil
}

// TraceID returns the ID of the active trace.
func (t *Tracing) TraceID() (string, error) {
	trace, err := t.ActiveTrace()
	if err != nil {
		return "", err
	}
	return trace.ID(), nil
}

// Traces returns the collected traces in creation order.
func (t *Tracing) Traces() []*Trace {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Trace(nil), t.traces...)
}

// Span creates a root span on the active trace.
func (t *Tracing) Span(name string, opts ...ObservationOption) (*Span, error) {
	trace, err := t.ActiveTrace()
	if err != nil {
		return nil, err
	}
	return trace.Span(name, opts...), nil
}

// Generation creates a root generation on the active trace.
func (t *Tracing) Generation(name, model string, opts ...ObservationOption) (*Generation, error) {
	trace, err := t.ActiveTrace()
	if err != nil {
		return nil, err
	}
	return trace.Generation(name, model, opts...), nil
}

// Event creates a root event on the active trace.
func (t *Tracing) Event(name string, opts ...ObservationOption) (*Event, error) {
	trace, err := t.ActiveTrace()
	if err != nil {
		return nil, err
	}
	return trace.Event(name, opts...), nil
}

// Score records a score on the active trace.
func (t *Tracing) Score(name string, value float64, opts ...ScoreOption) (types.Score, error) {
	trace, err := t.ActiveTrace()
	if err != nil {
		return types.Score{}, err
	}
	return trace.Score(name, value, opts...), nil
}

// Batch ends every unended trace and returns the envelopes of all collected
// traces in creation order without removing them.
func (t *Tracing) Batch() []ingestion.Event {
	return t.batch(t.Traces())
}

func (t *Tracing) batch(traces []*Trace) []ingestion.Event {
	var events []ingestion.Event
	for _, trace := range traces {
		if trace.EndTime().IsZero() {
			trace.End()
		}
		events = append(events, trace.Envelopes(t.environment)...)
	}
	return events
}

// drain removes and returns the collected traces.
func (t *Tracing) drain() []*Trace {
	t.mu.Lock()
	defer t.mu.Unlock()
	traces := t.traces
	t.traces = nil
	t.active = nil
	return traces
}

// Flush sends every collected trace and waits for the result. It does
// nothing when tracing is disabled or nothing was collected. Errors are
// returned or swallowed according to the client's failure policy.
func (t *Tracing) Flush(ctx context.Context) error {
	if !t.enabled {
		return nil
	}
	traces := t.drain()
	if len(traces) == 0 {
		return nil
	}
	return t.ingest.ingest(ctx, t.batch(traces), errors.AsyncOpFlush)
}

// FlushAsync builds the batch on the calling goroutine and sends it on a
// background goroutine. The send is detached from ctx's cancellation so it
// can outlive the request that produced the traces; ctx's values are kept.
// Failures go to the async error handler. Use Wait or Client.Shutdown to
// wait for pending sends. After Shutdown it returns ErrClientClosed and
// keeps the collected traces untouched.
func (t *Tracing) FlushAsync(ctx context.Context) error {
	if !t.enabled {
		return nil
	}

	// The sender is registered before the collector is drained, so a
	// concurrent Shutdown either refuses it with the traces still held or
	// waits for it to send them.
	batches := make(chan []ingestion.Event, 1)
	err := t.lifecycle.Go(context.WithoutCancel(ctx), func(ctx context.Context) {
		events := <-batches
		if len(events) == 0 {
			return
		}
		if err := t.ingest.ingest(ctx, events, errors.AsyncOpFlushAsync); err != nil {
			t.errors.Handle(errors.NewAsyncError(errors.AsyncOpFlushAsync, err).
				WithEventIDs(ingestion.Batch{Batch: events}.IDs()...))
		}
	})
	if err != nil {
		t.logger.Warn("langfuse: async flush refused, client is shut down", "traces", len(t.Traces()))
		return ErrClientClosed
	}

	traces := t.drain()
	if len(traces) == 0 {
		close(batches)
		return nil
	}
	batches <- t.batch(traces)
	return nil
}

// Wait blocks until every pending FlushAsync send has finished or ctx is done.
func (t *Tracing) Wait(ctx context.Context) error {
	return t.lifecycle.Wait(ctx)
}
