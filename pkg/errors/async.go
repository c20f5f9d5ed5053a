package errors

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics is the subset of the SDK metrics interface the handler needs.
type Metrics interface {
	IncrementCounter(name string, value int64)
}

// AsyncErrorOperation identifies the operation whose failure was reported
// out of band.
type AsyncErrorOperation string

// Async error operations.
const (
	AsyncOpIngest     AsyncErrorOperation = "ingest"
	AsyncOpFlush      AsyncErrorOperation = "flush"
	AsyncOpFlushAsync AsyncErrorOperation = "flush_async"
	AsyncOpShutdown   AsyncErrorOperation = "shutdown"
)

// AsyncError is a failure that was not returned to a caller, either because
// it happened on a background goroutine or because the flush policy
// swallowed it.
type AsyncError struct {
	Time      time.Time
	Operation AsyncErrorOperation

	// EventIDs contains the envelope IDs of the affected batch.
	EventIDs []string

	Err error
}

// NewAsyncError creates a new async error stamped with the current time.
func NewAsyncError(op AsyncErrorOperation, err error) *AsyncError {
	return &AsyncError{
		Time:      time.Now(),
		Operation: op,
		Err:       err,
	}
}

// WithEventIDs adds affected event IDs to the error.
func (e *AsyncError) WithEventIDs(ids ...string) *AsyncError {
	e.EventIDs = ids
	return e
}

// Error implements the error interface.
func (e *AsyncError) Error() string {
	if len(e.EventIDs) > 0 {
		return fmt.Sprintf("langfuse async error [%s] at %s (%d events affected): %v",
			e.Operation, e.Time.Format(time.RFC3339), len(e.EventIDs), e.Err)
	}
	return fmt.Sprintf("langfuse async error [%s] at %s: %v",
		e.Operation, e.Time.Format(time.RFC3339), e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *AsyncError) Unwrap() error {
	return e.Err
}

// Code returns the wrapped error's code.
func (e *AsyncError) Code() ErrorCode { return CodeOf(e.Err) }

// IsRetryable defers to the wrapped error.
func (e *AsyncError) IsRetryable() bool { return IsRetryable(e.Err) }

var _ LangfuseError = (*AsyncError)(nil)

// AsyncErrorHandler is the side channel for failures the SDK does not
// return. Errors are buffered in a channel and delivered to every
// registered callback.
type AsyncErrorHandler struct {
	// Errors is a buffered channel consumers may read from. When full,
	// new errors are counted as dropped but callbacks still run.
	Errors chan *AsyncError

	bufferSize int
	metrics    Metrics

	mu        sync.RWMutex
	callbacks []func(*AsyncError)

	totalErrors  atomic.Int64
	droppedCount atomic.Int64
}

// AsyncErrorConfig configures the AsyncErrorHandler.
type AsyncErrorConfig struct {
	// BufferSize is the size of the error channel buffer.
	// Default: 100
	BufferSize int

	Metrics Metrics
}

// NewAsyncErrorHandler creates a new async error handler.
func NewAsyncErrorHandler(cfg *AsyncErrorConfig) *AsyncErrorHandler {
	if cfg == nil {
		cfg = &AsyncErrorConfig{}
	}
	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &AsyncErrorHandler{
		Errors:     make(chan *AsyncError, bufferSize),
		bufferSize: bufferSize,
		metrics:    cfg.Metrics,
	}
}

// OnError registers fn to be called for every handled error. Callbacks run
// synchronously in registration order on the goroutine that reported the error.
func (h *AsyncErrorHandler) OnError(fn func(*AsyncError)) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.callbacks = append(h.callbacks, fn)
	h.mu.Unlock()
}

// Handle records err, offers it to the channel and invokes the callbacks.
func (h *AsyncErrorHandler) Handle(err *AsyncError) {
	if err == nil {
		return
	}
	h.totalErrors.Add(1)

	select {
	case h.Errors <- err:
	default:
		h.droppedCount.Add(1)
		if h.metrics != nil {
			h.metrics.IncrementCounter("langfuse.async_errors.dropped", 1)
		}
	}

	h.mu.RLock()
	callbacks := slices.Clone(h.callbacks)
	h.mu.RUnlock()
	for _, fn := range callbacks {
		fn(err)
	}

	if h.metrics != nil {
		h.metrics.IncrementCounter("langfuse.async_errors.total", 1)
		h.metrics.IncrementCounter(fmt.Sprintf("langfuse.async_errors.%s", err.Operation), 1)
	}
}

// Drain returns all pending errors from the channel without blocking.
func (h *AsyncErrorHandler) Drain() []*AsyncError {
	var errs []*AsyncError
	for {
		select {
		case err := <-h.Errors:
			errs = append(errs, err)
		default:
			return errs
		}
	}
}

// AsyncErrorStats contains statistics about async error handling.
type AsyncErrorStats struct {
	TotalErrors  int64
	DroppedCount int64
	Pending      int
	BufferSize   int
}

// Stats returns current error handling statistics.
func (h *AsyncErrorHandler) Stats() AsyncErrorStats {
	return AsyncErrorStats{
		TotalErrors:  h.totalErrors.Load(),
		DroppedCount: h.droppedCount.Load(),
		Pending:      len(h.Errors),
		BufferSize:   h.bufferSize,
	}
}
