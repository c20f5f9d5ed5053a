package id

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Logger is the warning sink of the generator.
type Logger interface {
	Warn(msg string, args ...any)
}

// Metrics interface for recording metrics within the id package.
type Metrics interface {
	IncrementCounter(name string, value int64)
}

// IDGenerationMode controls how IDs are generated when the random source fails.
type IDGenerationMode int

const (
	// IDModeFallback uses a timestamp and atomic counter when the random source fails.
	IDModeFallback IDGenerationMode = iota

	// IDModeStrict returns an error when the random source fails.
	IDModeStrict
)

// String returns a string representation of the ID generation mode.
func (m IDGenerationMode) String() string {
	switch m {
	case IDModeFallback:
		return "fallback"
	case IDModeStrict:
		return "strict"
	default:
		return "unknown"
	}
}

const fallbackPrefix = "fb-"

var (
	fallbackCounter uint64
	processID       = os.Getpid()
)

// IDGenerator generates time-ordered unique IDs.
type IDGenerator struct {
	mode    IDGenerationMode
	metrics Metrics
	logger  Logger
	source  func() (uuid.UUID, error)

	failures atomic.Int64
}

// IDGeneratorConfig configures the ID generator.
type IDGeneratorConfig struct {
	Mode    IDGenerationMode
	Metrics Metrics
	Logger  Logger

	// Source overrides the UUID source. Default: uuid.NewV7.
	Source func() (uuid.UUID, error)
}

// NewIDGenerator creates an ID generator with the specified configuration.
func NewIDGenerator(cfg *IDGeneratorConfig) *IDGenerator {
	if cfg == nil {
		cfg = &IDGeneratorConfig{}
	}
	source := cfg.Source
	if source == nil {
		source = uuid.NewV7
	}
	return &IDGenerator{
		mode:    cfg.Mode,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		source:  source,
	}
}

// Generate creates a new unique ID.
// Returns an error only in IDModeStrict when the random source fails.
func (g *IDGenerator) Generate() (string, error) {
	u, err := g.source()
	if err == nil {
		if g.metrics != nil {
			g.metrics.IncrementCounter("langfuse.id.generated", 1)
		}
		return u.String(), nil
	}

	failures := g.failures.Add(1)
	if g.metrics != nil {
		g.metrics.IncrementCounter("langfuse.id.source_failures", 1)
	}

	switch g.mode {
	case IDModeStrict:
		return "", fmt.Errorf("langfuse: id generation failed (strict mode, %d total failures): %w", failures, err)
	case IDModeFallback:
		if failures == 1 && g.logger != nil {
			g.logger.Warn("id source failed, using fallback id generation", "error", err)
		}
		if g.metrics != nil {
			g.metrics.IncrementCounter("langfuse.id.fallback_used", 1)
		}
		return fallbackID(), nil
	default:
		return "", fmt.Errorf("langfuse: unknown ID generation mode: %d", g.mode)
	}
}

// MustGenerate generates an ID or panics on failure.
func (g *IDGenerator) MustGenerate() string {
	id, err := g.Generate()
	if err != nil {
		panic(err)
	}
	return id
}

// FailureCount returns how many times the random source failed.
func (g *IDGenerator) FailureCount() int64 {
	return g.failures.Load()
}

// fallbackID keeps the timestamp first so fallback IDs still sort by time.
// Format: fb-{unixnano_hex}-{counter_hex}-{pid}
func fallbackID() string {
	counter := atomic.AddUint64(&fallbackCounter, 1)
	return fmt.Sprintf("%s%x-%08x-%d", fallbackPrefix, time.Now().UnixNano(), counter, processID)
}

// IsFallbackID reports whether id was produced by the fallback path.
func IsFallbackID(id string) bool {
	return strings.HasPrefix(id, fallbackPrefix)
}

var defaultIDGenerator = NewIDGenerator(nil)

// New generates an ID with the package default generator. It never fails.
func New() string {
	return defaultIDGenerator.MustGenerate()
}
