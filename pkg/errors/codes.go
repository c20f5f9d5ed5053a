package errors

import (
	"errors"
	"time"
)

// ErrorCode represents a category of error for metrics and logging.
type ErrorCode string

// Error codes for categorization.
const (
	ErrCodeConfig     ErrorCode = "CONFIG"     // Configuration errors
	ErrCodeValidation ErrorCode = "VALIDATION" // Input validation errors
	ErrCodeNetwork    ErrorCode = "NETWORK"    // Transport failures
	ErrCodeAPI        ErrorCode = "API"        // Non-2xx API responses
	ErrCodeAuth       ErrorCode = "AUTH"       // 401/403 responses
	ErrCodeRateLimit  ErrorCode = "RATE_LIMIT" // 429 responses
	ErrCodeIngestion  ErrorCode = "INGESTION"  // Batch rejected in whole or part
	ErrCodeTemplate   ErrorCode = "TEMPLATE"   // Prompt rendering errors
	ErrCodeUsage      ErrorCode = "USAGE"      // SDK misuse
	ErrCodeInternal   ErrorCode = "INTERNAL"
)

// LangfuseError is the common interface for all SDK errors.
type LangfuseError interface {
	error

	// Code returns a machine-readable error code for categorization.
	Code() ErrorCode

	// IsRetryable returns true if the operation can be retried.
	IsRetryable() bool
}

// IsRetryable returns true if err, or any error it wraps, is a LangfuseError
// that reports itself as retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var lfErr LangfuseError
	if errors.As(err, &lfErr) {
		return lfErr.IsRetryable()
	}
	return false
}

// CodeOf returns the ErrorCode of the first LangfuseError in err's chain,
// or ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var lfErr LangfuseError
	if errors.As(err, &lfErr) {
		return lfErr.Code()
	}
	return ErrCodeInternal
}

// AsAPIError extracts an APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// AsNetworkError extracts a NetworkError from err's chain.
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}
	return nil, false
}

// RetryAfter returns the server's Retry-After hint carried by err, or zero.
func RetryAfter(err error) time.Duration {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.RetryAfter
	}
	return 0
}
