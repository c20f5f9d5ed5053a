package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ConfigurationError is returned when the SDK cannot be constructed from the
// supplied settings. It is always fatal.
type ConfigurationError struct {
	Field   string
	Message string
}

// Configuration sentinels for use with errors.Is(). They match on Field.
var (
	ErrMissingPublicKey = &ConfigurationError{Field: "public_key", Message: "public key is required"}
	ErrMissingSecretKey = &ConfigurationError{Field: "secret_key", Message: "secret key is required"}
)

// NewConfigurationError creates a configuration error for field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("langfuse: invalid configuration for %s: %s", e.Field, e.Message)
}

// Is matches configuration errors on Field.
func (e *ConfigurationError) Is(target error) bool {
	t, ok := target.(*ConfigurationError)
	return ok && t.Field == e.Field
}

// Code returns ErrCodeConfig.
func (e *ConfigurationError) Code() ErrorCode { return ErrCodeConfig }

// IsRetryable returns false.
func (e *ConfigurationError) IsRetryable() bool { return false }

var _ LangfuseError = (*ConfigurationError)(nil)

// ValidationError represents an invalid input value.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("langfuse: validation error for field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Code returns ErrCodeValidation.
func (e *ValidationError) Code() ErrorCode { return ErrCodeValidation }

// IsRetryable returns false for validation errors (they should be fixed, not retried).
func (e *ValidationError) IsRetryable() bool { return false }

var _ LangfuseError = (*ValidationError)(nil)

// MissingVariablesError is returned when a prompt template references
// variables the caller did not provide.
type MissingVariablesError struct {
	Prompt   string
	Missing  []string
	Provided []string
}

// NewMissingVariablesError sorts both name lists for stable messages.
func NewMissingVariablesError(prompt string, missing, provided []string) *MissingVariablesError {
	missing = append([]string(nil), missing...)
	provided = append([]string(nil), provided...)
	sort.Strings(missing)
	sort.Strings(provided)
	return &MissingVariablesError{Prompt: prompt, Missing: missing, Provided: provided}
}

// Error implements the error interface.
func (e *MissingVariablesError) Error() string {
	provided := "none"
	if len(e.Provided) > 0 {
		provided = strings.Join(e.Provided, ", ")
	}
	name := ""
	if e.Prompt != "" {
		name = fmt.Sprintf(" for prompt %q", e.Prompt)
	}
	return fmt.Sprintf("langfuse: missing prompt variables%s: %s (provided: %s)",
		name, strings.Join(e.Missing, ", "), provided)
}

// Code returns ErrCodeTemplate.
func (e *MissingVariablesError) Code() ErrorCode { return ErrCodeTemplate }

// IsRetryable returns false.
func (e *MissingVariablesError) IsRetryable() bool { return false }

var _ LangfuseError = (*MissingVariablesError)(nil)

// Trace collector misuse.
var (
	ErrNoActiveTrace = errors.New("langfuse: no active trace")
	ErrTraceNotFound = errors.New("langfuse: trace not found")
)

// TraceNotFoundError is returned when activating a trace ID the collector
// does not hold. It matches ErrTraceNotFound.
type TraceNotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *TraceNotFoundError) Error() string {
	return fmt.Sprintf("langfuse: trace %q not found", e.ID)
}

// Is reports whether target is ErrTraceNotFound.
func (e *TraceNotFoundError) Is(target error) bool {
	return target == ErrTraceNotFound
}

// Code returns ErrCodeUsage.
func (e *TraceNotFoundError) Code() ErrorCode { return ErrCodeUsage }

// IsRetryable returns false.
func (e *TraceNotFoundError) IsRetryable() bool { return false }

var _ LangfuseError = (*TraceNotFoundError)(nil)
