package langfuse

import (
	"context"
	nethttp "net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/curacel/langfuse-go/pkg/config"
	"github.com/curacel/langfuse-go/pkg/http"
	"github.com/curacel/langfuse-go/pkg/id"
)

// Option configures a Client. Options that override a config field are
// applied before the configuration is validated.
type Option func(*clientOptions)

type clientOptions struct {
	config *config.Config

	logger        StructuredLogger
	metrics       Metrics
	doer          http.Doer
	roundTripper  nethttp.RoundTripper
	store         http.StateStore
	clock         func() time.Time
	idGenerator   *id.IDGenerator
	limiter       *rate.Limiter
	sleep         func(ctx context.Context, d time.Duration) error
	hooks         []http.Hook
	onStateChange func(key string, from, to http.CircuitStatus)
	onError       []func(*AsyncError)
	errorBuffer   int
	userAgent     string
}

// ============================================================================
// Configuration overrides
// ============================================================================

// WithHost overrides the configured host.
func WithHost(host string) Option {
	return func(o *clientOptions) { o.config.Host = host }
}

// WithRegion selects a cloud region. It only takes effect while the host is
// left at its default.
func WithRegion(region config.Region) Option {
	return func(o *clientOptions) { o.config.Region = region }
}

// WithEnvironment overrides the environment reported on traces.
func WithEnvironment(env string) Option {
	return func(o *clientOptions) { o.config.Environment = env }
}

// WithFailOnError makes Flush return ingestion failures instead of
// logging them.
func WithFailOnError(fail bool) Option {
	return func(o *clientOptions) { o.config.FailOnError = fail }
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) { o.config.Timeout = config.Seconds(timeout) }
}

// WithRetries sets the retry count, base delay and strategy
// ("fixed", "linear" or "exponential").
func WithRetries(maxRetries int, delay time.Duration, strategy string) Option {
	return func(o *clientOptions) {
		o.config.MaxRetries = maxRetries
		o.config.RetryDelay = config.Seconds(delay)
		o.config.RetryStrategy = strategy
	}
}

// WithCircuitBreaker enables the breaker with the given failure threshold
// and open timeout.
func WithCircuitBreaker(threshold uint, timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.config.CircuitBreakerEnabled = true
		o.config.CircuitBreakerThreshold = threshold
		o.config.CircuitBreakerTimeout = config.Seconds(timeout)
	}
}

// WithoutCircuitBreaker disables the breaker.
func WithoutCircuitBreaker() Option {
	return func(o *clientOptions) { o.config.CircuitBreakerEnabled = false }
}

// ============================================================================
// Collaborators
// ============================================================================

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger StructuredLogger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithMetrics sets the metrics sink, e.g. a *metrics.Prometheus.
func WithMetrics(m Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithDoer replaces the resty-backed HTTP client. Tests use it with
// langfusetest.StubDoer.
func WithDoer(doer http.Doer) Option {
	return func(o *clientOptions) { o.doer = doer }
}

// WithHTTPTransport sets the round tripper of the default resty client.
// It is ignored when WithDoer is used.
func WithHTTPTransport(rt nethttp.RoundTripper) Option {
	return func(o *clientOptions) { o.roundTripper = rt }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithStateStore shares circuit breaker state between clients.
func WithStateStore(store http.StateStore) Option {
	return func(o *clientOptions) { o.store = store }
}

// WithClock sets the time source of the breaker and of observation
// timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *clientOptions) { o.clock = clock }
}

// WithIDGenerator sets the generator of trace, observation and score IDs.
func WithIDGenerator(gen *id.IDGenerator) Option {
	return func(o *clientOptions) { o.idGenerator = gen }
}

// WithRateLimit caps outgoing requests at r per second with the given burst.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(o *clientOptions) { o.limiter = rate.NewLimiter(r, burst) }
}

// WithSleep replaces the wait between retry attempts. Tests pass a
// recorder so retries run instantly.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *clientOptions) { o.sleep = sleep }
}

// WithHTTPHooks adds hooks observing every request attempt.
func WithHTTPHooks(hooks ...http.Hook) Option {
	return func(o *clientOptions) { o.hooks = append(o.hooks, hooks...) }
}

// WithOnCircuitStateChange is called on every breaker transition.
func WithOnCircuitStateChange(fn func(key string, from, to http.CircuitStatus)) Option {
	return func(o *clientOptions) { o.onStateChange = fn }
}

// WithOnAsyncError registers a callback for failures that are not returned
// to a caller. It is equivalent to calling Client.OnError after New.
func WithOnAsyncError(fn func(*AsyncError)) Option {
	return func(o *clientOptions) { o.onError = append(o.onError, fn) }
}

// WithAsyncErrorBuffer sets the capacity of the Errors channel.
// Default: 100.
func WithAsyncErrorBuffer(size int) Option {
	return func(o *clientOptions) { o.errorBuffer = size }
}
