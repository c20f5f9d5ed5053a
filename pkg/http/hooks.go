package http

import (
	"context"
	"strconv"
	"time"
)

// Logger is the structured logger used by the transport.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Metrics is the interface for recording transport metrics.
type Metrics interface {
	IncrementCounter(name string, value int64)
	RecordDuration(name string, duration time.Duration)
	SetGauge(name string, value float64)
}

// ============================================================================
// Attempt Hooks
// ============================================================================

// AttemptInfo describes one finished attempt.
type AttemptInfo struct {
	Request  *Request
	Attempt  int
	Response *Response
	Duration time.Duration

	// Err is the attempt's error after status checking; nil on success.
	Err error
}

// Hook observes attempts made by a Transport. Hooks cannot change or abort
// a request.
type Hook interface {
	BeforeAttempt(ctx context.Context, req *Request, attempt int)
	AfterAttempt(ctx context.Context, info AttemptInfo)
}

// HookFunc is a function adapter for simple hooks.
type HookFunc struct {
	Before func(ctx context.Context, req *Request, attempt int)
	After  func(ctx context.Context, info AttemptInfo)
}

// BeforeAttempt implements Hook.
func (f HookFunc) BeforeAttempt(ctx context.Context, req *Request, attempt int) {
	if f.Before != nil {
		f.Before(ctx, req, attempt)
	}
}

// AfterAttempt implements Hook.
func (f HookFunc) AfterAttempt(ctx context.Context, info AttemptInfo) {
	if f.After != nil {
		f.After(ctx, info)
	}
}

// LoggingHook logs every attempt at debug level and failures at warn level.
func LoggingHook(logger Logger) Hook {
	return HookFunc{
		Before: func(ctx context.Context, req *Request, attempt int) {
			logger.Debug("langfuse: sending request",
				"method", req.Method, "path", req.Path, "service", req.serviceKey(), "attempt", attempt)
		},
		After: func(ctx context.Context, info AttemptInfo) {
			args := []any{
				"method", info.Request.Method,
				"path", info.Request.Path,
				"service", info.Request.serviceKey(),
				"attempt", info.Attempt,
				"duration", info.Duration,
			}
			if info.Response != nil {
				args = append(args, "status", info.Response.StatusCode)
			}
			if info.Err != nil {
				logger.Warn("langfuse: request attempt failed", append(args, "error", info.Err)...)
				return
			}
			logger.Debug("langfuse: request completed", args...)
		},
	}
}

// MetricsHook records per-attempt metrics:
//   - langfuse.http.requests (counter)
//   - langfuse.http.duration (timing)
//   - langfuse.http.errors (counter)
//   - langfuse.http.status.{code} (counter)
func MetricsHook(m Metrics) Hook {
	if m == nil {
		return HookFunc{}
	}
	return HookFunc{
		After: func(ctx context.Context, info AttemptInfo) {
			m.IncrementCounter("langfuse.http.requests", 1)
			m.RecordDuration("langfuse.http.duration", info.Duration)
			if info.Err != nil {
				m.IncrementCounter("langfuse.http.errors", 1)
			}
			if info.Response != nil {
				m.IncrementCounter("langfuse.http.status."+strconv.Itoa(info.Response.StatusCode), 1)
			}
		},
	}
}
