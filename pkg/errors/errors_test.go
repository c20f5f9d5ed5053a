package errors

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Creation(t *testing.T) {
	tests := []struct {
		name      string
		apiErr    *APIError
		wantMsg   string
		wantCode  ErrorCode
		wantRetry bool
	}{
		{
			name:     "not found",
			apiErr:   &APIError{StatusCode: 404, Message: "Resource not found"},
			wantMsg:  "langfuse: API error (status 404): Resource not found",
			wantCode: ErrCodeAPI,
		},
		{
			name:     "unauthorized with request id",
			apiErr:   &APIError{StatusCode: 401, Message: "Invalid credentials", RequestID: "req-123"},
			wantMsg:  "langfuse: API error (status 401, request req-123): Invalid credentials",
			wantCode: ErrCodeAuth,
		},
		{
			name:      "rate limited",
			apiErr:    &APIError{StatusCode: 429},
			wantMsg:   "langfuse: API error (status 429)",
			wantCode:  ErrCodeRateLimit,
			wantRetry: true,
		},
		{
			name:      "request timeout",
			apiErr:    &APIError{StatusCode: 408},
			wantMsg:   "langfuse: API error (status 408)",
			wantCode:  ErrCodeAPI,
			wantRetry: true,
		},
		{
			name:      "error message fallback",
			apiErr:    &APIError{StatusCode: 503, ErrorMessage: "Service unavailable"},
			wantMsg:   "langfuse: API error (status 503): Service unavailable",
			wantCode:  ErrCodeAPI,
			wantRetry: true,
		},
		{
			name:     "not implemented is permanent",
			apiErr:   &APIError{StatusCode: 501},
			wantMsg:  "langfuse: API error (status 501)",
			wantCode: ErrCodeAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.apiErr.Error())
			assert.Equal(t, tt.wantCode, tt.apiErr.Code())
			assert.Equal(t, tt.wantRetry, tt.apiErr.IsRetryable())
		})
	}
}

func TestAPIError_IsMatchesStatus(t *testing.T) {
	err := fmt.Errorf("send: %w", &APIError{StatusCode: 429, Message: "slow down"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRetryableStatus(t *testing.T) {
	for code := 100; code < 600; code++ {
		want := code == 408 || code == 429 || code == 500 || code == 502 || code == 503 || code == 504
		assert.Equal(t, want, RetryableStatus(code), "status %d", code)
	}
}

func TestNewNetworkError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, NewNetworkError(nil))
	})

	t.Run("copies status from api error", func(t *testing.T) {
		apiErr := &APIError{StatusCode: 502, Message: "bad gateway"}
		netErr := NewNetworkError(apiErr)
		assert.Equal(t, 502, netErr.StatusCode)
		assert.Equal(t, "langfuse: network error: API error (status 502): bad gateway", netErr.Error())
		assert.ErrorIs(t, netErr, apiErr)
		assert.True(t, netErr.IsRetryable())
		assert.Equal(t, ErrCodeAPI, netErr.Code())
	})

	t.Run("keeps existing network error", func(t *testing.T) {
		first := NewNetworkError(errors.New("connection reset by peer"))
		again := NewNetworkError(fmt.Errorf("wrapped: %w", first))
		assert.Same(t, first, again)
	})

	t.Run("circuit open", func(t *testing.T) {
		netErr := NewNetworkError(ErrCircuitOpen)
		assert.True(t, netErr.IsCircuitOpen())
		assert.False(t, netErr.IsRetryable())
		assert.ErrorIs(t, netErr, ErrCircuitOpen)
		assert.Equal(t, ErrCodeNetwork, netErr.Code())
	})
}

func TestNetworkError_IsRetryable(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"dial tcp: i/o timeout", true},
		{"read: connection reset by peer", true},
		{"dial tcp 127.0.0.1:1: connect: connection refused", true},
		{"temporary failure in name resolution", true},
		{"Could not resolve host: example", true},
		{"connect: network is unreachable", true},
		{"x509: certificate signed by unknown authority", false},
		{"unexpected payload", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, NewNetworkError(errors.New(tt.msg)).IsRetryable())
		})
	}
}

func TestIngestionError(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		err := NewPartialFailure([]IngestionFailure{
			{ID: "evt-1", Status: 400, Message: "invalid body"},
			{ID: "evt-2", Status: 500},
		})
		assert.True(t, err.IsPartial())
		assert.False(t, err.IsRetryable())
		assert.Equal(t, []string{"evt-1", "evt-2"}, err.FailedIDs())
		assert.Contains(t, err.Error(), "evt-1 (status 400): invalid body")
		assert.Contains(t, err.Error(), "2 event(s) rejected")
	})

	t.Run("wrapped transport failure", func(t *testing.T) {
		netErr := NewNetworkError(&APIError{StatusCode: 503})
		err := WrapIngestion(netErr)
		assert.False(t, err.IsPartial())
		assert.True(t, err.IsRetryable())
		assert.ErrorIs(t, err, netErr)
		assert.Equal(t, ErrCodeIngestion, err.Code())
		assert.Same(t, err, WrapIngestion(err))
	})
}

func TestConfigurationError_Is(t *testing.T) {
	err := fmt.Errorf("new client: %w", &ConfigurationError{Field: "public_key", Message: "empty"})
	assert.ErrorIs(t, err, ErrMissingPublicKey)
	assert.NotErrorIs(t, err, ErrMissingSecretKey)
	assert.Equal(t, ErrCodeConfig, CodeOf(err))
}

func TestMissingVariablesError(t *testing.T) {
	err := NewMissingVariablesError("greeting", []string{"name", "city"}, []string{"tone"})
	assert.Equal(t, []string{"city", "name"}, err.Missing)
	assert.Equal(t, `langfuse: missing prompt variables for prompt "greeting": city, name (provided: tone)`, err.Error())

	err = NewMissingVariablesError("", []string{"x"}, nil)
	assert.Equal(t, "langfuse: missing prompt variables: x (provided: none)", err.Error())
}

func TestTraceNotFoundError(t *testing.T) {
	err := fmt.Errorf("activate: %w", &TraceNotFoundError{ID: "abc"})
	assert.ErrorIs(t, err, ErrTraceNotFound)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(context.Canceled))
	assert.True(t, IsRetryable(fmt.Errorf("x: %w", &APIError{StatusCode: 500})))
	assert.False(t, IsRetryable(NewValidationError("level", "unknown")))
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *countingMetrics) IncrementCounter(name string, value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[name] += value
}

func TestAsyncErrorHandler(t *testing.T) {
	metrics := &countingMetrics{}
	h := NewAsyncErrorHandler(&AsyncErrorConfig{BufferSize: 1, Metrics: metrics})

	var first, second []*AsyncError
	h.OnError(func(e *AsyncError) { first = append(first, e) })
	h.OnError(func(e *AsyncError) { second = append(second, e) })
	h.OnError(nil)

	e1 := NewAsyncError(AsyncOpFlush, errors.New("boom")).WithEventIDs("a", "b")
	e2 := NewAsyncError(AsyncOpIngest, errors.New("again"))
	h.Handle(e1)
	h.Handle(e2)
	h.Handle(nil)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Same(t, e1, first[0])

	stats := h.Stats()
	assert.Equal(t, int64(2), stats.TotalErrors)
	assert.Equal(t, int64(1), stats.DroppedCount)
	assert.Equal(t, 1, stats.Pending)

	drained := h.Drain()
	require.Len(t, drained, 1)
	assert.Same(t, e1, drained[0])
	assert.Contains(t, e1.Error(), "2 events affected")

	assert.Equal(t, int64(2), metrics.counts["langfuse.async_errors.total"])
	assert.Equal(t, int64(1), metrics.counts["langfuse.async_errors.dropped"])
	assert.Equal(t, int64(1), metrics.counts["langfuse.async_errors.flush"])
}

func TestAsyncErrorHandler_CallbacksRunInOrder(t *testing.T) {
	h := NewAsyncErrorHandler(nil)

	var calls []string
	h.OnError(func(e *AsyncError) { calls = append(calls, "first:"+string(e.Operation)) })
	h.OnError(func(e *AsyncError) {
		calls = append(calls, "second:"+string(e.Operation))
		// Registering from a callback must not deadlock or affect the
		// error being delivered.
		h.OnError(func(*AsyncError) { calls = append(calls, "late") })
	})

	h.Handle(NewAsyncError(AsyncOpFlushAsync, errors.New("boom")))
	assert.Equal(t, []string{"first:flush_async", "second:flush_async"}, calls)

	calls = nil
	h.Handle(NewAsyncError(AsyncOpShutdown, errors.New("timeout")))
	assert.Equal(t, []string{"first:shutdown", "second:shutdown", "late"}, calls)
}
