package errors

import (
	"fmt"
	"strings"
)

// IngestionFailure is one rejected envelope reported by a 207 response.
type IngestionFailure struct {
	ID           string `json:"id"`
	Status       int    `json:"status"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

// String renders the failure for logs.
func (f IngestionFailure) String() string {
	msg := f.Message
	if msg == "" {
		msg = f.ErrorMessage
	}
	if msg == "" {
		return fmt.Sprintf("%s (status %d)", f.ID, f.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", f.ID, f.Status, msg)
}

// IngestionError reports a batch that could not be delivered, or that the
// backend accepted only in part. Failures is empty when the whole request failed.
type IngestionError struct {
	Message  string
	Failures []IngestionFailure
	Err      error
}

// NewPartialFailure builds the error for a 207 response carrying failures.
func NewPartialFailure(failures []IngestionFailure) *IngestionError {
	return &IngestionError{
		Message:  fmt.Sprintf("%d event(s) rejected", len(failures)),
		Failures: failures,
	}
}

// WrapIngestion wraps a transport failure as an IngestionError.
func WrapIngestion(err error) *IngestionError {
	if err == nil {
		return nil
	}
	if ingErr, ok := err.(*IngestionError); ok {
		return ingErr
	}
	return &IngestionError{Message: err.Error(), Err: err}
}

// Error implements the error interface.
func (e *IngestionError) Error() string {
	if len(e.Failures) == 0 {
		return "langfuse: ingestion failed: " + strings.TrimPrefix(e.Message, "langfuse: ")
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("langfuse: ingestion partially failed: %s [%s]", e.Message, strings.Join(parts, "; "))
}

// Unwrap returns the underlying error for error chain support.
func (e *IngestionError) Unwrap() error {
	return e.Err
}

// IsPartial reports whether the backend accepted the request but rejected
// some of its events.
func (e *IngestionError) IsPartial() bool {
	return len(e.Failures) > 0
}

// FailedIDs returns the envelope IDs the backend rejected.
func (e *IngestionError) FailedIDs() []string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ID
	}
	return ids
}

// Code returns ErrCodeIngestion.
func (e *IngestionError) Code() ErrorCode {
	return ErrCodeIngestion
}

// IsRetryable defers to the wrapped transport error. Partial failures are
// never retried since resubmitting would duplicate the accepted events.
func (e *IngestionError) IsRetryable() bool {
	if e.IsPartial() {
		return false
	}
	return IsRetryable(e.Err)
}

var _ LangfuseError = (*IngestionError)(nil)
