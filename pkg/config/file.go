package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML configuration file. Keys missing from the file keep
// their defaults. The result is not validated.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("langfuse: read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("langfuse: parse config: %w", err)
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML. Keys are written as-is.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
