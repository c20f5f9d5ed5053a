// Package config defines the SDK configuration surface, its defaults and
// the loaders for environment variables and YAML files.
//
//	cfg, err := config.FromEnv()           // LANGFUSE_* variables
//	cfg, err := config.LoadFile("lf.yaml") // YAML, unset keys keep defaults
//	if err := cfg.Validate(); err != nil { ... }
package config
