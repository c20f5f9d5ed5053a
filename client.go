package langfuse

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/curacel/langfuse-go/pkg/config"
	"github.com/curacel/langfuse-go/pkg/errors"
	"github.com/curacel/langfuse-go/pkg/http"
	"github.com/curacel/langfuse-go/pkg/id"
	"github.com/curacel/langfuse-go/pkg/lifecycle"
)

// Client is the Langfuse client. It owns the transport shared by the trace
// collector and the prompt client.
type Client struct {
	config config.Config
	logger StructuredLogger

	doer      http.Doer
	transport *http.Transport
	lifecycle *lifecycle.Manager
	errors    *errors.AsyncErrorHandler

	ingestion *IngestionClient
	tracing   *Tracing
	prompts   *PromptClient
}

// New creates a client from cfg. The configuration is validated first and
// a *ConfigurationError is returned when it is unusable.
//
// Example:
//
//	cfg := config.Default()
//	cfg.PublicKey, cfg.SecretKey = "pk-lf-...", "sk-lf-..."
//	client, err := langfuse.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Shutdown(context.Background())
func New(cfg config.Config, opts ...Option) (*Client, error) {
	o := &clientOptions{config: &cfg}
	for _, opt := range opts {
		opt(o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = NewSlogAdapter(slog.Default())
	}
	clock := o.clock
	if clock == nil {
		clock = time.Now
	}

	doer := o.doer
	if doer == nil {
		userAgent := o.userAgent
		if userAgent == "" {
			userAgent = "langfuse-go/" + Version
		}
		doer = http.NewRestyDoer(http.RestyConfig{
			BaseURL:        cfg.BaseURL(),
			PublicKey:      cfg.PublicKey,
			SecretKey:      cfg.SecretKey,
			Timeout:        cfg.TimeoutDuration(),
			ConnectTimeout: cfg.ConnectTimeoutDuration(),
			UserAgent:      userAgent,
			Logger:         logger,
			Transport:      o.roundTripper,
		})
	}

	store := o.store
	if store == nil {
		store = http.NewMemoryStateStore()
	}
	breaker := http.NewCircuitBreaker(http.CircuitBreakerConfig{
		Enabled:   cfg.CircuitBreakerEnabled,
		Threshold: cfg.CircuitBreakerThreshold,
		Timeout:   cfg.CircuitBreakerTimeoutDuration(),
		Store:     store,
		Clock:     clock,
		OnStateChange: func(key string, from, to http.CircuitStatus) {
			logger.Warn("langfuse: circuit breaker state changed", "service", key, "from", from, "to", to)
			if o.metrics != nil {
				o.metrics.SetGauge("langfuse.circuit.state."+key, circuitStateGauge(to))
			}
			if o.onStateChange != nil {
				o.onStateChange(key, from, to)
			}
		},
	})

	transport := http.NewTransport(http.TransportConfig{
		Doer:    doer,
		Breaker: breaker,
		Policy: &http.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryDelayDuration(),
			Strategy:   http.ParseStrategy(cfg.RetryStrategy),
		},
		Limiter: o.limiter,
		Logger:  logger,
		Metrics: o.metrics,
		Hooks:   o.hooks,
		Sleep:   o.sleep,
	})

	asyncErrors := errors.NewAsyncErrorHandler(&errors.AsyncErrorConfig{
		BufferSize: o.errorBuffer,
		Metrics:    o.metrics,
	})
	for _, fn := range o.onError {
		asyncErrors.OnError(fn)
	}

	manager := lifecycle.NewManager(&lifecycle.Config{
		Logger:  logger,
		Metrics: o.metrics,
		OnStateChange: func(old, new lifecycle.State) {
			logger.Debug("langfuse: client state changed", "from", old, "to", new)
		},
	})

	gen := o.idGenerator
	if gen == nil {
		gen = id.NewIDGenerator(&id.IDGeneratorConfig{
			Mode:    id.IDModeFallback,
			Metrics: o.metrics,
			Logger:  logger,
		})
	}
	env := &treeEnv{
		now: clock,
		newID: func() string {
			v, err := gen.Generate()
			if err != nil {
				logger.Warn("langfuse: id generation failed, using random id", "error", err)
				return id.New()
			}
			return v
		},
	}

	ingest := &IngestionClient{
		transport:   transport,
		failOnError: cfg.FailOnError,
		logger:      logger,
		metrics:     o.metrics,
		errors:      asyncErrors,
	}

	c := &Client{
		config:    cfg,
		logger:    logger,
		doer:      doer,
		transport: transport,
		lifecycle: manager,
		errors:    asyncErrors,
		ingestion: ingest,
		tracing: &Tracing{
			env:         env,
			ingest:      ingest,
			lifecycle:   manager,
			errors:      asyncErrors,
			logger:      logger,
			enabled:     cfg.Enabled,
			environment: cfg.Environment,
		},
		prompts: &PromptClient{
			transport: transport,
			enabled:   cfg.Enabled,
			logger:    logger,
		},
	}

	logger.Debug("langfuse: client created", "config", cfg.String())
	return c, nil
}

// NewFromEnv creates a client from LANGFUSE_* environment variables.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Config returns the validated configuration the client was built from.
func (c *Client) Config() config.Config {
	return c.config
}

// Enabled reports whether sends are performed.
func (c *Client) Enabled() bool {
	return c.config.Enabled
}

// Tracing returns the trace collector.
func (c *Client) Tracing() *Tracing {
	return c.tracing
}

// Prompts returns the prompt client.
func (c *Client) Prompts() *PromptClient {
	return c.prompts
}

// Ingestion returns the low-level batch client.
func (c *Client) Ingestion() *IngestionClient {
	return c.ingestion
}

// Trace is shorthand for Tracing().Trace.
func (c *Client) Trace(cfg TraceConfig) *Trace {
	return c.tracing.Trace(cfg)
}

// Flush is shorthand for Tracing().Flush.
func (c *Client) Flush(ctx context.Context) error {
	return c.tracing.Flush(ctx)
}

// FlushAsync is shorthand for Tracing().FlushAsync.
func (c *Client) FlushAsync(ctx context.Context) error {
	return c.tracing.FlushAsync(ctx)
}

// CircuitBreakerStatus returns a snapshot of every service key's breaker
// state.
func (c *Client) CircuitBreakerStatus() map[string]http.CircuitState {
	return c.transport.Breaker().Status()
}

// OnError registers fn for failures that are not returned to a caller:
// swallowed flush failures and every FlushAsync failure.
func (c *Client) OnError(fn func(*AsyncError)) {
	c.errors.OnError(fn)
}

// Errors returns the channel async failures are published on. When it is
// full, new errors are counted as dropped but callbacks still run.
func (c *Client) Errors() <-chan *AsyncError {
	return c.errors.Errors
}

// AsyncErrorStats returns counters of the async error handler.
func (c *Client) AsyncErrorStats() errors.AsyncErrorStats {
	return c.errors.Stats()
}

// Stats returns lifecycle statistics.
func (c *Client) Stats() lifecycle.Stats {
	return c.lifecycle.Stats()
}

// Shutdown refuses new async flushes and waits for the pending ones, then
// releases idle connections. Collected traces that were never flushed are
// not sent; call Flush first. A second call returns ErrClientClosed.
func (c *Client) Shutdown(ctx context.Context) error {
	err := c.lifecycle.Shutdown(ctx)
	if stderrors.Is(err, lifecycle.ErrAlreadyClosed) {
		return ErrClientClosed
	}
	if closer, ok := c.doer.(interface{ Close() }); ok {
		closer.Close()
	}
	if err != nil {
		c.logger.Warn("langfuse: shutdown timed out with pending sends", "pending", c.lifecycle.Pending())
		c.errors.Handle(errors.NewAsyncError(errors.AsyncOpShutdown, err))
		return err
	}
	c.logger.Debug("langfuse: client shut down", "uptime", c.lifecycle.Uptime())
	return nil
}
