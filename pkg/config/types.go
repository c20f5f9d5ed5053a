package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Region represents a Langfuse cloud region.
type Region string

const (
	// RegionEU is the European cloud region.
	RegionEU Region = "eu"
	// RegionUS is the US cloud region.
	RegionUS Region = "us"
	// RegionHIPAA is the HIPAA-compliant US region.
	RegionHIPAA Region = "hipaa"
)

// RegionHosts maps regions to their hosts.
var RegionHosts = map[Region]string{
	RegionEU:    "https://cloud.langfuse.com",
	RegionUS:    "https://us.cloud.langfuse.com",
	RegionHIPAA: "https://hipaa.cloud.langfuse.com",
}

// Host returns the host for this region, defaulting to EU.
func (r Region) Host() string {
	if host, ok := RegionHosts[Region(strings.ToLower(string(r)))]; ok {
		return host
	}
	return RegionHosts[RegionEU]
}

// String returns the string representation of the region.
func (r Region) String() string {
	return string(r)
}

// Default configuration values.
const (
	DefaultHost                    = "https://cloud.langfuse.com"
	DefaultEnvironment             = "production"
	DefaultCircuitBreakerThreshold = 5
	DefaultCircuitBreakerTimeout   = 60 * time.Second
	DefaultMaxRetries              = 3
	DefaultRetryDelay              = 1 * time.Second
	DefaultRetryStrategy           = "fixed"
	DefaultTimeout                 = 20 * time.Second
	DefaultConnectTimeout          = 10 * time.Second

	// MaxMaxRetries is the maximum allowed retry count.
	MaxMaxRetries = 100
)

// RetryStrategies lists the accepted values of Config.RetryStrategy.
var RetryStrategies = []string{"fixed", "linear", "exponential"}

// Seconds is a duration that reads a bare number as seconds and anything
// else as a Go duration string ("1500ms", "2m").
type Seconds time.Duration

// Duration returns s as a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

// String formats s as a Go duration.
func (s Seconds) String() string {
	return time.Duration(s).String()
}

// Decode implements envconfig.Decoder.
func (s *Seconds) Decode(value string) error {
	d, err := parseSeconds(value)
	if err != nil {
		return err
	}
	*s = Seconds(d)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	return s.Decode(node.Value)
}

// MarshalYAML implements yaml.Marshaler.
func (s Seconds) MarshalYAML() (any, error) {
	return s.String(), nil
}

func parseSeconds(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(f * float64(time.Second)), nil
	}
	return time.ParseDuration(value)
}
