package http

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	pkgerrors "github.com/curacel/langfuse-go/pkg/errors"
)

// TransportConfig configures a Transport.
type TransportConfig struct {
	// Doer performs single HTTP exchanges. Required.
	Doer Doer

	// Breaker guards service keys. Default: a disabled breaker.
	Breaker *CircuitBreaker

	// Policy controls retries. Default: DefaultRetryPolicy().
	Policy *RetryPolicy

	// Limiter, when set, is waited on before every attempt.
	Limiter *rate.Limiter

	Logger  Logger
	Metrics Metrics
	Hooks   []Hook

	// Sleep waits between attempts. Default: a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Transport sends requests with retries and per-service-key circuit
// breaking. It is safe for concurrent use.
type Transport struct {
	doer    Doer
	breaker *CircuitBreaker
	policy  RetryPolicy
	limiter *rate.Limiter
	logger  Logger
	metrics Metrics
	hooks   []Hook
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewTransport creates a Transport. It panics if cfg.Doer is nil.
func NewTransport(cfg TransportConfig) *Transport {
	if cfg.Doer == nil {
		panic("langfuse: http.NewTransport requires a Doer")
	}
	t := &Transport{
		doer:    cfg.Doer,
		breaker: cfg.Breaker,
		policy:  DefaultRetryPolicy(),
		limiter: cfg.Limiter,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		sleep:   cfg.Sleep,
	}
	if cfg.Policy != nil {
		t.policy = *cfg.Policy
	}
	if t.breaker == nil {
		t.breaker = NewCircuitBreaker(CircuitBreakerConfig{})
	}
	if t.sleep == nil {
		t.sleep = sleepContext
	}
	if cfg.Logger != nil {
		t.hooks = append(t.hooks, LoggingHook(cfg.Logger))
	}
	if cfg.Metrics != nil {
		t.hooks = append(t.hooks, MetricsHook(cfg.Metrics))
	}
	t.hooks = append(t.hooks, cfg.Hooks...)
	return t
}

// Breaker returns the circuit breaker guarding this transport.
func (t *Transport) Breaker() *CircuitBreaker {
	return t.breaker
}

// Policy returns the retry policy.
func (t *Transport) Policy() RetryPolicy {
	return t.policy
}

// Send performs req. An open circuit fails immediately without a network
// call. Otherwise up to Policy.MaxAttempts() attempts are made; every failed
// attempt is recorded with the breaker before the retry decision, and a
// success resets the key's failure count. An attempt that fails after ctx is
// done ends the call without touching the breaker. Non-2xx responses are
// failures.
// All returned errors are *errors.NetworkError.
func (t *Transport) Send(ctx context.Context, req *Request) (*Response, error) {
	key := req.serviceKey()

	if t.breaker.IsOpen(key) {
		t.count("langfuse.circuit.rejected")
		return nil, &pkgerrors.NetworkError{
			Message: fmt.Sprintf("%s [%s]", ErrCircuitOpen.Error(), key),
			Err:     ErrCircuitOpen,
		}
	}

	maxAttempts := t.policy.MaxAttempts()
	var lastErr error
	for attempt := 1; ; attempt++ {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				if lastErr != nil {
					err = fmt.Errorf("%w; rate limiter: %v", lastErr, err)
				}
				return nil, pkgerrors.NewNetworkError(err)
			}
		}

		resp, err := t.attempt(ctx, req, attempt)
		if err == nil {
			t.breaker.RecordSuccess(key)
			return resp, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			// The caller gave up; the service did not fail.
			break
		}
		t.breaker.RecordFailure(key)

		if attempt >= maxAttempts || !t.policy.ShouldRetry(err) {
			break
		}

		delay := t.policy.DelayFor(attempt)
		t.count("langfuse.http.retries")
		if t.logger != nil {
			t.logger.Debug("langfuse: retrying request",
				"service", key, "attempt", attempt, "delay", delay, "error", err)
		}
		if sleepErr := t.sleep(ctx, delay); sleepErr != nil {
			lastErr = fmt.Errorf("%w; retry aborted: %v", lastErr, sleepErr)
			break
		}
	}

	t.count("langfuse.http.failures")
	return nil, pkgerrors.NewNetworkError(lastErr)
}

func (t *Transport) attempt(ctx context.Context, req *Request, attempt int) (*Response, error) {
	for _, h := range t.hooks {
		h.BeforeAttempt(ctx, req, attempt)
	}

	start := time.Now()
	resp, err := t.doer.Do(ctx, req)
	if err == nil {
		err = CheckStatus(resp)
	}

	info := AttemptInfo{
		Request:  req,
		Attempt:  attempt,
		Response: resp,
		Duration: time.Since(start),
		Err:      err,
	}
	for _, h := range t.hooks {
		h.AfterAttempt(ctx, info)
	}
	return resp, err
}

func (t *Transport) count(name string) {
	if t.metrics != nil {
		t.metrics.IncrementCounter(name, 1)
	}
}
