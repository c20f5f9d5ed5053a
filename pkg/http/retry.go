package http

import (
	"context"
	"errors"
	"io"
	"math"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"

	pkgerrors "github.com/curacel/langfuse-go/pkg/errors"
)

// ErrStubQueueEmpty is returned by test doers whose queue of canned
// responses ran out. It is never retried.
var ErrStubQueueEmpty = errors.New("langfuse: stub response queue is empty")

// Strategy selects how the delay grows between attempts.
type Strategy string

// Retry strategies.
const (
	StrategyFixed       Strategy = "fixed"
	StrategyLinear      Strategy = "linear"
	StrategyExponential Strategy = "exponential"
)

// ParseStrategy maps a configuration value to a Strategy. Unknown and empty
// values select StrategyFixed.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyLinear:
		return StrategyLinear
	case StrategyExponential:
		return StrategyExponential
	default:
		return StrategyFixed
	}
}

// RetryPolicy decides whether a failed attempt is retried and how long to
// wait before the next one.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay is the delay unit every strategy scales.
	BaseDelay time.Duration

	Strategy Strategy
}

// DefaultRetryPolicy returns 3 retries with a fixed 1s delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Strategy:   StrategyFixed,
	}
}

// MaxAttempts is MaxRetries+1, never less than 1.
func (p RetryPolicy) MaxAttempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// DelayFor returns the wait after the given failed attempt (1-based):
// fixed d, linear d*attempt, exponential d*2^(attempt-1).
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	switch p.Strategy {
	case StrategyLinear:
		return p.BaseDelay * time.Duration(attempt)
	case StrategyExponential:
		factor := math.Pow(2, float64(attempt-1))
		delay := float64(p.BaseDelay) * factor
		if delay > float64(math.MaxInt64) {
			return time.Duration(math.MaxInt64)
		}
		return time.Duration(delay)
	default:
		return p.BaseDelay
	}
}

// ShouldRetry classifies err. Connection-level failures and responses with
// status 408, 429, 500, 502, 503 or 504 are retried; everything else,
// including caller cancellation and ErrStubQueueEmpty, is not.
func (p RetryPolicy) ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStubQueueEmpty) || errors.Is(err, context.Canceled) {
		return false
	}
	if apiErr, ok := pkgerrors.AsAPIError(err); ok {
		return pkgerrors.RetryableStatus(apiErr.StatusCode)
	}
	return IsConnectionError(err)
}

// IsConnectionError reports whether err is a failure to reach the server or
// to read its response: dial, DNS, reset, timeout and premature EOF errors.
// TLS certificate failures are not connection errors.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"x509:", "certificate", "tls: "} {
		if strings.Contains(errStr, pattern) {
			return false
		}
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ECONNABORTED,
			syscall.ETIMEDOUT, syscall.ENETUNREACH, syscall.EHOSTUNREACH, syscall.EPIPE:
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Err != nil && IsConnectionError(urlErr.Err) {
			return true
		}
	}

	for _, pattern := range []string{
		"timeout",
		"connection reset",
		"connection refused",
		"broken pipe",
		"no such host",
		"temporary failure",
		"network is unreachable",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
