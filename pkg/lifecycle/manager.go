// Package lifecycle tracks the background work of a client so that shutdown
// can wait for it.
//
// The Manager moves through three states: active, shutting down and closed.
// While active it accepts tasks through Go; each task runs on its own
// goroutine and is counted until it returns. Shutdown stops accepting
// tasks and waits for the pending ones, bounded by the caller's context.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is the subset of the SDK logger the manager uses.
type Logger interface {
	Warn(msg string, args ...any)
}

// Metrics is a minimal metrics interface.
type Metrics interface {
	IncrementCounter(name string, value int64)
	SetGauge(name string, value float64)
	RecordDuration(name string, d time.Duration)
}

// ErrAlreadyClosed is returned when attempting to shutdown an already closed manager.
var ErrAlreadyClosed = errors.New("langfuse: lifecycle already closed or shutting down")

// ErrNotAccepting is returned by Go once shutdown has begun.
var ErrNotAccepting = errors.New("langfuse: lifecycle no longer accepts background work")

// State represents the current state of the client lifecycle.
type State int32

const (
	// StateActive accepts background work.
	StateActive State = iota

	// StateShuttingDown waits for pending work and refuses new work.
	StateShuttingDown

	// StateClosed has no pending work left.
	StateClosed
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Config configures the lifecycle manager.
type Config struct {
	Logger  Logger
	Metrics Metrics

	// OnStateChange is called when the state changes.
	OnStateChange func(old, new State)
}

// Stats contains lifecycle statistics.
type Stats struct {
	State     State
	CreatedAt time.Time
	Uptime    time.Duration
	Pending   int64
	Started   int64
	Completed int64
}

// Manager tracks background tasks and coordinates shutdown.
type Manager struct {
	state     atomic.Int32
	createdAt time.Time

	// mu orders Go's Add against Shutdown's Wait.
	mu sync.RWMutex
	wg sync.WaitGroup

	pending   atomic.Int64
	started   atomic.Int64
	completed atomic.Int64

	logger  Logger
	metrics Metrics

	onStateChange func(old, new State)
}

// NewManager creates a new lifecycle manager.
func NewManager(cfg *Config) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}
	m := &Manager{
		createdAt:     time.Now(),
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		onStateChange: cfg.OnStateChange,
	}
	m.state.Store(int32(StateActive))
	return m
}

// State returns the current state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// IsActive returns true if the manager accepts work.
func (m *Manager) IsActive() bool {
	return m.State() == StateActive
}

// IsClosed returns true once shutdown has completed.
func (m *Manager) IsClosed() bool {
	return m.State() == StateClosed
}

// Go runs fn on a new goroutine and tracks it until it returns. fn receives
// ctx unchanged; callers that must outlive a request pass a context detached
// with context.WithoutCancel. Go returns ErrNotAccepting after shutdown began.
func (m *Manager) Go(ctx context.Context, fn func(ctx context.Context)) error {
	m.mu.RLock()
	if !m.IsActive() {
		m.mu.RUnlock()
		return ErrNotAccepting
	}
	m.wg.Add(1)
	m.mu.RUnlock()

	m.started.Add(1)
	m.gauge(m.pending.Add(1))

	go func() {
		defer func() {
			m.completed.Add(1)
			m.gauge(m.pending.Add(-1))
			m.wg.Done()
		}()
		fn(ctx)
	}()
	return nil
}

// Pending returns the number of running tasks.
func (m *Manager) Pending() int64 {
	return m.pending.Load()
}

// Wait blocks until every task started so far has returned or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if m.logger != nil {
			m.logger.Warn("langfuse: gave up waiting for background sends",
				"pending", m.Pending(), "error", ctx.Err())
		}
		return ctx.Err()
	}
}

// Shutdown refuses new tasks and waits for the pending ones. If ctx expires
// first the manager stays in the shutting-down state and ctx's error is
// returned; tasks keep running to completion in the background.
// Returns ErrAlreadyClosed if shutdown was already requested.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	ok := m.transition(StateActive, StateShuttingDown)
	m.mu.Unlock()
	if !ok {
		return ErrAlreadyClosed
	}

	if m.metrics != nil {
		m.metrics.IncrementCounter("langfuse.client.shutdown_initiated", 1)
		m.metrics.RecordDuration("langfuse.client.uptime", m.Uptime())
	}

	if err := m.Wait(ctx); err != nil {
		return err
	}

	m.transition(StateShuttingDown, StateClosed)
	if m.metrics != nil {
		m.metrics.IncrementCounter("langfuse.client.shutdown_complete", 1)
	}
	return nil
}

// Uptime returns the duration since the manager was created.
func (m *Manager) Uptime() time.Duration {
	return time.Since(m.createdAt)
}

// Stats returns current lifecycle statistics.
func (m *Manager) Stats() Stats {
	return Stats{
		State:     m.State(),
		CreatedAt: m.createdAt,
		Uptime:    m.Uptime(),
		Pending:   m.pending.Load(),
		Started:   m.started.Load(),
		Completed: m.completed.Load(),
	}
}

// transition attempts to transition to a new state.
// Returns true if the transition was successful.
func (m *Manager) transition(from, to State) bool {
	if !m.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	if m.onStateChange != nil {
		m.onStateChange(from, to)
	}
	if m.metrics != nil {
		m.metrics.SetGauge("langfuse.client.state", float64(to))
	}
	return true
}

func (m *Manager) gauge(pending int64) {
	if m.metrics != nil {
		m.metrics.SetGauge("langfuse.async.pending", float64(pending))
	}
}
