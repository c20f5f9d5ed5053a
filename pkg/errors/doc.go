// Package errors defines the error types returned by the Langfuse Go SDK.
//
// # Error Types
//
//   - NetworkError: every failure surfaced by the resilient transport, including
//     circuit-open rejections and exhausted retries. It wraps the cause.
//   - APIError: a non-2xx response. The transport wraps it in a NetworkError.
//   - IngestionError: a batch send that failed or was partially rejected (207).
//   - ConfigurationError: missing credentials or invalid settings at construction.
//   - MissingVariablesError: prompt rendering without all required variables.
//   - TraceNotFoundError, ErrNoActiveTrace: misuse of the trace collector.
//   - ValidationError: invalid metadata, tags, levels or other inputs.
//   - AsyncError: a failure that happened off the caller's goroutine or was
//     swallowed by the flush policy, delivered through AsyncErrorHandler.
//
// All SDK error types implement LangfuseError:
//
//	var lfErr errors.LangfuseError
//	if stdErrors.As(err, &lfErr) {
//	    log.Printf("code=%s retryable=%t", lfErr.Code(), lfErr.IsRetryable())
//	}
//
// Sentinels are compared with errors.Is:
//
//	if stdErrors.Is(err, errors.ErrCircuitOpen) {
//	    // backend is being skipped for now
//	}
package errors
