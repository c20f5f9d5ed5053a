package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/curacel/langfuse-go/pkg/errors"
)

func TestParseStrategy(t *testing.T) {
	tests := map[string]Strategy{
		"fixed":       StrategyFixed,
		"LINEAR":      StrategyLinear,
		" exponential": StrategyExponential,
		"":            StrategyFixed,
		"fibonacci":   StrategyFixed,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseStrategy(in), in)
	}
}

func TestRetryPolicy_DelayFor(t *testing.T) {
	d := 100 * time.Millisecond
	tests := []struct {
		strategy Strategy
		attempt  int
		want     time.Duration
	}{
		{StrategyFixed, 1, d},
		{StrategyFixed, 4, d},
		{StrategyLinear, 1, d},
		{StrategyLinear, 3, 3 * d},
		{StrategyExponential, 1, d},
		{StrategyExponential, 2, 2 * d},
		{StrategyExponential, 4, 8 * d},
		{StrategyExponential, 0, d},
		{Strategy("unknown"), 5, d},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.strategy, tt.attempt), func(t *testing.T) {
			p := RetryPolicy{BaseDelay: d, Strategy: tt.strategy}
			assert.Equal(t, tt.want, p.DelayFor(tt.attempt))
		})
	}
}

func TestRetryPolicy_MaxAttempts(t *testing.T) {
	assert.Equal(t, 4, DefaultRetryPolicy().MaxAttempts())
	assert.Equal(t, 1, RetryPolicy{MaxRetries: 0}.MaxAttempts())
	assert.Equal(t, 1, RetryPolicy{MaxRetries: -2}.MaxAttempts())
}

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	p := DefaultRetryPolicy()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"408", &pkgerrors.APIError{StatusCode: 408}, true},
		{"429", &pkgerrors.APIError{StatusCode: 429}, true},
		{"500", &pkgerrors.APIError{StatusCode: 500}, true},
		{"502", &pkgerrors.APIError{StatusCode: 502}, true},
		{"503", &pkgerrors.APIError{StatusCode: 503}, true},
		{"504", &pkgerrors.APIError{StatusCode: 504}, true},
		{"400", &pkgerrors.APIError{StatusCode: 400}, false},
		{"401", &pkgerrors.APIError{StatusCode: 401}, false},
		{"404", &pkgerrors.APIError{StatusCode: 404}, false},
		{"501", &pkgerrors.APIError{StatusCode: 501}, false},
		{"wrapped 503", fmt.Errorf("post: %w", &pkgerrors.APIError{StatusCode: 503}), true},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, true},
		{"url error", &url.Error{Op: "Post", URL: "http://x", Err: io.ErrUnexpectedEOF}, true},
		{"deadline", context.DeadlineExceeded, true},
		{"stub queue empty", ErrStubQueueEmpty, false},
		{"wrapped stub queue empty", fmt.Errorf("do: %w", ErrStubQueueEmpty), false},
		{"canceled", context.Canceled, false},
		{"plain error", errors.New("invalid json"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ShouldRetry(tt.err))
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"reset", syscall.ECONNRESET, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "nope.invalid"}, true},
		{"eof", io.EOF, true},
		{"timeout message", errors.New("Client.Timeout exceeded while awaiting headers"), true},
		{"certificate", &url.Error{Op: "Get", URL: "https://x", Err: errors.New("x509: certificate signed by unknown authority")}, false},
		{"canceled url error", &url.Error{Op: "Get", URL: "https://x", Err: context.Canceled}, false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
	assert.NoError(t, sleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
