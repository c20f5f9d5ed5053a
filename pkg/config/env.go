package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "LANGFUSE"

// Environment variable names for the most used settings.
const (
	EnvPublicKey = "LANGFUSE_PUBLIC_KEY"
	EnvSecretKey = "LANGFUSE_SECRET_KEY"
	EnvHost      = "LANGFUSE_HOST"
	EnvRegion    = "LANGFUSE_REGION"
	EnvEnabled   = "LANGFUSE_ENABLED"
)

// FromEnv loads the configuration from LANGFUSE_* environment variables.
// Unset variables take their defaults. The result is not validated.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("langfuse: load config from environment: %w", err)
	}
	return cfg, nil
}

// Usage writes the list of supported environment variables to stdout.
func Usage() error {
	var cfg Config
	return envconfig.Usage(EnvPrefix, &cfg)
}
