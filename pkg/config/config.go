package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/curacel/langfuse-go/pkg/errors"
)

// Config is the complete SDK configuration. Every field can be set from a
// LANGFUSE_* environment variable or a YAML file.
type Config struct {
	PublicKey string `envconfig:"PUBLIC_KEY" yaml:"public_key"`
	SecretKey string `envconfig:"SECRET_KEY" yaml:"secret_key"`

	// Host is the Langfuse base URL. A missing scheme means https.
	Host string `envconfig:"HOST" default:"https://cloud.langfuse.com" yaml:"host"`

	// Region selects a cloud host when Host is left at its default.
	Region Region `envconfig:"REGION" yaml:"region"`

	// Enabled=false turns every send into a no-op.
	Enabled bool `envconfig:"ENABLED" default:"true" yaml:"enabled"`

	// Environment is reported on every trace.
	Environment string `envconfig:"ENVIRONMENT" default:"production" yaml:"environment"`

	// FailOnError makes flush return ingestion failures instead of logging them.
	FailOnError bool `envconfig:"THROW_EXCEPTION_ON_FAILURE" default:"false" yaml:"throw_exception_on_failure"`

	CircuitBreakerEnabled   bool    `envconfig:"ENABLE_CIRCUIT_BREAKER" default:"true" yaml:"circuit_breaker_enabled"`
	CircuitBreakerThreshold uint    `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5" yaml:"circuit_breaker_threshold"`
	CircuitBreakerTimeout   Seconds `envconfig:"CIRCUIT_BREAKER_TIMEOUT" default:"60" yaml:"circuit_breaker_timeout"`

	MaxRetries    int     `envconfig:"MAX_RETRIES" default:"3" yaml:"max_retries"`
	RetryDelay    Seconds `envconfig:"RETRY_DELAY" default:"1" yaml:"retry_delay"`
	RetryStrategy string  `envconfig:"RETRY_STRATEGY" default:"fixed" yaml:"retry_strategy"`

	Timeout        Seconds `envconfig:"TIMEOUT" default:"20" yaml:"timeout"`
	ConnectTimeout Seconds `envconfig:"CONNECT_TIMEOUT" default:"10" yaml:"connect_timeout"`
}

// Default returns a Config holding every default. Keys are left empty.
func Default() Config {
	return Config{
		Host:                    DefaultHost,
		Enabled:                 true,
		Environment:             DefaultEnvironment,
		CircuitBreakerEnabled:   true,
		CircuitBreakerThreshold: DefaultCircuitBreakerThreshold,
		CircuitBreakerTimeout:   Seconds(DefaultCircuitBreakerTimeout),
		MaxRetries:              DefaultMaxRetries,
		RetryDelay:              Seconds(DefaultRetryDelay),
		RetryStrategy:           DefaultRetryStrategy,
		Timeout:                 Seconds(DefaultTimeout),
		ConnectTimeout:          Seconds(DefaultConnectTimeout),
	}
}

// Validate checks the configuration. Every failure is a
// *errors.ConfigurationError; missing keys match ErrMissingSecretKey and
// ErrMissingPublicKey.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.ErrMissingSecretKey
	}
	if strings.TrimSpace(c.PublicKey) == "" {
		return errors.ErrMissingPublicKey
	}
	if _, err := url.Parse(c.BaseURL()); err != nil {
		return errors.NewConfigurationError("host", "invalid URL %q: %v", c.Host, err)
	}
	if c.CircuitBreakerEnabled && c.CircuitBreakerThreshold == 0 {
		return errors.NewConfigurationError("circuit_breaker_threshold", "must be at least 1")
	}
	if c.CircuitBreakerTimeout < 0 {
		return errors.NewConfigurationError("circuit_breaker_timeout", "must not be negative")
	}
	if c.MaxRetries < 0 || c.MaxRetries > MaxMaxRetries {
		return errors.NewConfigurationError("max_retries", "must be between 0 and %d, got %d", MaxMaxRetries, c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return errors.NewConfigurationError("retry_delay", "must not be negative")
	}
	if c.RetryStrategy != "" && !slices.Contains(RetryStrategies, strings.ToLower(c.RetryStrategy)) {
		return errors.NewConfigurationError("retry_strategy", "unknown strategy %q, want one of %s",
			c.RetryStrategy, strings.Join(RetryStrategies, ", "))
	}
	if c.Timeout < 0 || c.ConnectTimeout < 0 {
		return errors.NewConfigurationError("timeout", "must not be negative")
	}
	return nil
}

// BaseURL returns the normalized host: https:// is prepended when no scheme
// is present and a single trailing slash is kept.
func (c Config) BaseURL() string {
	host := strings.TrimSpace(c.Host)
	if c.Region != "" && (host == "" || host == DefaultHost) {
		host = c.Region.Host()
	}
	if host == "" {
		host = DefaultHost
	}
	return NormalizeBaseURL(host)
}

// NormalizeBaseURL prepends https:// to host when it has no http(s) scheme
// and ensures a trailing slash.
func NormalizeBaseURL(host string) string {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return strings.TrimRight(host, "/") + "/"
}

// CircuitBreakerTimeoutDuration returns CircuitBreakerTimeout as a time.Duration.
func (c Config) CircuitBreakerTimeoutDuration() time.Duration { return c.CircuitBreakerTimeout.Duration() }

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (c Config) RetryDelayDuration() time.Duration { return c.RetryDelay.Duration() }

// TimeoutDuration returns Timeout as a time.Duration.
func (c Config) TimeoutDuration() time.Duration { return c.Timeout.Duration() }

// ConnectTimeoutDuration returns ConnectTimeout as a time.Duration.
func (c Config) ConnectTimeoutDuration() time.Duration { return c.ConnectTimeout.Duration() }

// String renders the configuration with both keys masked.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{PublicKey: %s, SecretKey: %s, Host: %s, Enabled: %t, Environment: %s, FailOnError: %t, "+
			"CircuitBreaker: %t/%d/%s, Retries: %d/%s/%s, Timeout: %s, ConnectTimeout: %s}",
		MaskCredential(c.PublicKey), MaskCredential(c.SecretKey), c.BaseURL(), c.Enabled, c.Environment, c.FailOnError,
		c.CircuitBreakerEnabled, c.CircuitBreakerThreshold, c.CircuitBreakerTimeout,
		c.MaxRetries, c.RetryDelay, c.RetryStrategy, c.Timeout, c.ConnectTimeout,
	)
}

// MaskCredential keeps the key prefix and last four characters.
//
//	MaskCredential("sk-lf-1234567890abcdef") // "sk-lf-************cdef"
func MaskCredential(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	prefix := ""
	for _, p := range []string{"pk-lf-", "sk-lf-", "pk-", "sk-"} {
		if strings.HasPrefix(s, p) {
			prefix = p
			break
		}
	}
	rest := s[len(prefix):]
	if len(rest) <= 4 {
		return prefix + strings.Repeat("*", len(rest))
	}
	return prefix + strings.Repeat("*", len(rest)-4) + rest[len(rest)-4:]
}
