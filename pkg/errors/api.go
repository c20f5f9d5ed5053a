package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrCircuitOpen is wrapped by the NetworkError returned when a service key's
// circuit is open and the request was rejected without touching the network.
var ErrCircuitOpen = errors.New("service is temporarily unavailable (circuit breaker open)")

// Sentinel APIError values for use with errors.Is().
// These match on status code only.
var (
	ErrNotFound     = &APIError{StatusCode: http.StatusNotFound}
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &APIError{StatusCode: http.StatusForbidden}
	ErrRateLimited  = &APIError{StatusCode: http.StatusTooManyRequests}
)

// RetryableStatus reports whether an HTTP status code denotes a transient
// server-side condition: 408, 429, 500, 502, 503 and 504.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// APIError represents a non-2xx response from the Langfuse API.
type APIError struct {
	StatusCode   int           `json:"statusCode"`
	Message      string        `json:"message"`
	ErrorMessage string        `json:"error"`
	RequestID    string        `json:"-"`
	RetryAfter   time.Duration `json:"-"`
	Err          error         `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorMessage
	}

	switch {
	case msg != "" && e.RequestID != "":
		return fmt.Sprintf("langfuse: API error (status %d, request %s): %s", e.StatusCode, e.RequestID, msg)
	case msg != "":
		return fmt.Sprintf("langfuse: API error (status %d): %s", e.StatusCode, msg)
	case e.RequestID != "":
		return fmt.Sprintf("langfuse: API error (status %d, request %s)", e.StatusCode, e.RequestID)
	default:
		return fmt.Sprintf("langfuse: API error (status %d)", e.StatusCode)
	}
}

// Unwrap returns the underlying error for error chain support.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches on status code, allowing comparisons like:
//
//	if errors.Is(err, errors.ErrRateLimited) { ... }
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerError returns true if the error is a 5xx server error.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsRetryable returns true for the transient statuses listed by RetryableStatus.
func (e *APIError) IsRetryable() bool {
	return RetryableStatus(e.StatusCode)
}

// Code returns the error code for the API error.
func (e *APIError) Code() ErrorCode {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrCodeAuth
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	default:
		return ErrCodeAPI
	}
}

var _ LangfuseError = (*APIError)(nil)

// transientPatterns are the message fragments that mark a connection-level
// failure as worth retrying.
var transientPatterns = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"temporary failure",
	"could not resolve host",
	"network is unreachable",
	"network unreachable",
}

// NetworkError is the single error kind surfaced by the resilient transport.
// It carries the underlying failure's message and wraps it.
type NetworkError struct {
	// Message is the human readable description, usually the cause's message.
	Message string

	// StatusCode is the HTTP status when the failure was an API response.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// NewNetworkError normalizes err into a NetworkError. A NetworkError is
// returned unchanged; the status code of a wrapped APIError is copied.
func NewNetworkError(err error) *NetworkError {
	if err == nil {
		return nil
	}
	var existing *NetworkError
	if errors.As(err, &existing) {
		return existing
	}
	netErr := &NetworkError{Message: err.Error(), Err: err}
	if apiErr, ok := AsAPIError(err); ok {
		netErr.StatusCode = apiErr.StatusCode
	}
	return netErr
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	msg := strings.TrimPrefix(e.Message, "langfuse: ")
	if e.StatusCode != 0 && !strings.Contains(msg, "status") {
		return fmt.Sprintf("langfuse: network error (status %d): %s", e.StatusCode, msg)
	}
	return "langfuse: network error: " + msg
}

// Unwrap returns the underlying error for error chain support.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Code returns ErrCodeNetwork, or the API error's code when a response was received.
func (e *NetworkError) Code() ErrorCode {
	if apiErr, ok := AsAPIError(e.Err); ok {
		return apiErr.Code()
	}
	return ErrCodeNetwork
}

// IsRetryable reports whether the failure looks transient. Responses are
// judged by status code, connection failures by their message.
func (e *NetworkError) IsRetryable() bool {
	if errors.Is(e.Err, ErrCircuitOpen) {
		return false
	}
	if e.StatusCode != 0 {
		return RetryableStatus(e.StatusCode)
	}
	msg := strings.ToLower(e.Message)
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// IsCircuitOpen reports whether the request was rejected by an open circuit.
func (e *NetworkError) IsCircuitOpen() bool {
	return errors.Is(e.Err, ErrCircuitOpen)
}

var _ LangfuseError = (*NetworkError)(nil)
