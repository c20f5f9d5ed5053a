package langfuse

import (
	stderrors "errors"

	"github.com/curacel/langfuse-go/pkg/errors"
)

// ErrClientClosed is returned by operations started after Shutdown.
var ErrClientClosed = stderrors.New("langfuse: client is closed")

// Error types live in pkg/errors. The aliases below let callers match them
// without a second import.
type (
	// ErrorCode categorizes SDK errors for metrics and logging.
	ErrorCode = errors.ErrorCode

	// LangfuseError is implemented by every SDK error type.
	LangfuseError = errors.LangfuseError

	APIError           = errors.APIError
	NetworkError       = errors.NetworkError
	IngestionError     = errors.IngestionError
	IngestionFailure   = errors.IngestionFailure
	ConfigurationError = errors.ConfigurationError
	ValidationError    = errors.ValidationError
	TraceNotFoundError = errors.TraceNotFoundError
	AsyncError         = errors.AsyncError
)

// Sentinels re-exported from pkg/errors for use with errors.Is.
var (
	ErrCircuitOpen      = errors.ErrCircuitOpen
	ErrMissingPublicKey = errors.ErrMissingPublicKey
	ErrMissingSecretKey = errors.ErrMissingSecretKey
	ErrNoActiveTrace    = errors.ErrNoActiveTrace
	ErrTraceNotFound    = errors.ErrTraceNotFound
)

// IsRetryable reports whether err is an SDK error that may succeed when
// retried.
func IsRetryable(err error) bool {
	return errors.IsRetryable(err)
}

// IsCircuitOpen reports whether err was caused by an open circuit breaker.
func IsCircuitOpen(err error) bool {
	return stderrors.Is(err, errors.ErrCircuitOpen)
}

// IsPartialFailure reports whether err is an ingestion error carrying
// per-event rejections from a multi-status response.
func IsPartialFailure(err error) bool {
	var ingErr *errors.IngestionError
	return stderrors.As(err, &ingErr) && ingErr.IsPartial()
}
