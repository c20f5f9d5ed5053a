package http

import (
	"sort"
	"sync"
	"time"

	"github.com/curacel/langfuse-go/pkg/errors"
)

// Circuit breaker states.
const (
	// CircuitClosed allows requests to pass through normally.
	CircuitClosed CircuitStatus = iota
	// CircuitOpen blocks all requests immediately.
	CircuitOpen
	// CircuitHalfOpen lets a trial request through to test whether the service recovered.
	CircuitHalfOpen
)

// CircuitStatus represents the state of one service key's circuit.
type CircuitStatus int

// String returns the string representation of the circuit status.
func (s CircuitStatus) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s CircuitStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrCircuitOpen is wrapped by the NetworkError returned for requests
// rejected by an open circuit.
var ErrCircuitOpen = errors.ErrCircuitOpen

// CircuitState is the breaker bookkeeping for one service key.
// A zero LastFailureAt means no failure has been recorded.
type CircuitState struct {
	Status        CircuitStatus `json:"status"`
	FailureCount  uint          `json:"failureCount"`
	LastFailureAt time.Time     `json:"lastFailureAt"`
}

// StateStore holds circuit state per service key. Missing keys read as the
// zero CircuitState (closed, no failures). Implementations must apply each
// Update atomically with respect to other calls.
type StateStore interface {
	// Get returns the state for key.
	Get(key string) CircuitState

	// Update applies fn to the state for key, stores the result and returns it.
	Update(key string, fn func(*CircuitState)) CircuitState

	// Snapshot returns a copy of every stored state.
	Snapshot() map[string]CircuitState

	// Delete forgets key.
	Delete(key string)
}

// MemoryStateStore is an in-process StateStore guarded by a mutex.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]CircuitState
}

// NewMemoryStateStore creates an empty store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]CircuitState)}
}

// Get implements StateStore.
func (s *MemoryStateStore) Get(key string) CircuitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[key]
}

// Update implements StateStore.
func (s *MemoryStateStore) Update(key string, fn func(*CircuitState)) CircuitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[key]
	fn(&state)
	s.states[key] = state
	return state
}

// Snapshot implements StateStore.
func (s *MemoryStateStore) Snapshot() map[string]CircuitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]CircuitState, len(s.states))
	for k, v := range s.states {
		out[k] = v
	}
	return out
}

// Delete implements StateStore.
func (s *MemoryStateStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
}

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// Enabled turns the breaker on. A disabled breaker never opens and
	// records nothing.
	Enabled bool

	// Threshold is the number of consecutive failures that opens the circuit.
	// Default: 5
	Threshold uint

	// Timeout is how long the circuit stays open before letting a trial request through.
	// Default: 60 seconds
	Timeout time.Duration

	// Store holds the per-key state. Default: a new MemoryStateStore.
	Store StateStore

	// Clock returns the current time. Default: time.Now.
	Clock func() time.Time

	// OnStateChange is called after a key changes status, outside any lock.
	OnStateChange func(key string, from, to CircuitStatus)
}

// DefaultCircuitBreakerConfig returns an enabled configuration with the
// default threshold and timeout.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:   true,
		Threshold: 5,
		Timeout:   60 * time.Second,
	}
}

// CircuitBreaker tracks failures per service key and fails fast for keys
// whose backend looks unhealthy.
//
// States:
//   - Closed: requests pass; consecutive failures are counted
//   - Open: threshold reached; IsOpen reports true until Timeout has
//     elapsed since the last failure
//   - Half-Open: the first IsOpen after the timeout moves here and lets
//     requests through; a success closes the circuit, a failure reopens it
//     and restarts the timeout window
type CircuitBreaker struct {
	config CircuitBreakerConfig
	store  StateStore
	now    func() time.Time
}

// NewCircuitBreaker creates a circuit breaker with the given configuration.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.Threshold == 0 {
		config.Threshold = 5
	}
	if config.Timeout < 0 {
		config.Timeout = 0
	}
	store := config.Store
	if store == nil {
		store = NewMemoryStateStore()
	}
	now := config.Clock
	if now == nil {
		now = time.Now
	}
	return &CircuitBreaker{config: config, store: store, now: now}
}

// Enabled reports whether the breaker is active.
func (cb *CircuitBreaker) Enabled() bool {
	return cb.config.Enabled
}

// RecordFailure counts a failed attempt for key and opens the circuit once
// the count reaches the threshold.
func (cb *CircuitBreaker) RecordFailure(key string) {
	if !cb.config.Enabled {
		return
	}
	var from CircuitStatus
	state := cb.store.Update(key, func(s *CircuitState) {
		from = s.Status
		s.FailureCount++
		s.LastFailureAt = cb.now()
		if s.FailureCount >= cb.config.Threshold {
			s.Status = CircuitOpen
		}
	})
	cb.notify(key, from, state.Status)
}

// RecordSuccess resets the failure count for key. A half-open circuit closes.
func (cb *CircuitBreaker) RecordSuccess(key string) {
	if !cb.config.Enabled {
		return
	}
	var from CircuitStatus
	state := cb.store.Update(key, func(s *CircuitState) {
		from = s.Status
		if s.Status == CircuitHalfOpen {
			*s = CircuitState{}
			return
		}
		s.FailureCount = 0
	})
	cb.notify(key, from, state.Status)
}

// IsOpen reports whether requests for key must be rejected. An open circuit
// whose timeout has elapsed moves to half-open and reports false.
func (cb *CircuitBreaker) IsOpen(key string) bool {
	if !cb.config.Enabled {
		return false
	}
	if cb.store.Get(key).Status != CircuitOpen {
		return false
	}

	var from CircuitStatus
	state := cb.store.Update(key, func(s *CircuitState) {
		from = s.Status
		if s.Status == CircuitOpen && !cb.now().Before(s.LastFailureAt.Add(cb.config.Timeout)) {
			s.Status = CircuitHalfOpen
		}
	})
	cb.notify(key, from, state.Status)
	return state.Status == CircuitOpen
}

// State returns the current state for key.
func (cb *CircuitBreaker) State(key string) CircuitState {
	return cb.store.Get(key)
}

// Status returns a snapshot of every tracked key.
func (cb *CircuitBreaker) Status() map[string]CircuitState {
	return cb.store.Snapshot()
}

// Keys returns the tracked service keys in sorted order.
func (cb *CircuitBreaker) Keys() []string {
	snapshot := cb.store.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset returns key to the closed state with no failures.
func (cb *CircuitBreaker) Reset(key string) {
	from := cb.store.Get(key).Status
	cb.store.Delete(key)
	cb.notify(key, from, CircuitClosed)
}

func (cb *CircuitBreaker) notify(key string, from, to CircuitStatus) {
	if from == to || cb.config.OnStateChange == nil {
		return
	}
	cb.config.OnStateChange(key, from, to)
}
