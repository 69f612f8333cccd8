package health

import (
	"sync"

	"github.com/rs/zerolog"
)

// Tracker manages per-connection circuit breakers.
// It provides thread-safe access to circuit breakers and exposes
// IsHealthyFunc closures reporting whether a connection's circuit is open.
type Tracker struct {
	circuits map[string]*CircuitBreaker
	logger   *zerolog.Logger
	config   CircuitBreakerConfig
	mu       sync.RWMutex
}

// NewTracker creates a new Tracker with the given configuration.
func NewTracker(cfg CircuitBreakerConfig, logger *zerolog.Logger) *Tracker {
	return &Tracker{
		circuits: make(map[string]*CircuitBreaker),
		config:   cfg,
		logger:   logger,
	}
}

// GetOrCreateCircuit returns the circuit breaker for a connection, creating it if necessary.
// This method is thread-safe and uses lazy initialization.
func (t *Tracker) GetOrCreateCircuit(connectionName string) *CircuitBreaker {
	// Fast path: check if circuit exists with read lock
	t.mu.RLock()
	cb, exists := t.circuits[connectionName]
	t.mu.RUnlock()

	if exists {
		return cb
	}

	// Slow path: create circuit with write lock
	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if cb, exists = t.circuits[connectionName]; exists {
		return cb
	}

	// Create new circuit breaker
	cb = NewCircuitBreaker(connectionName, t.config, t.logger)
	t.circuits[connectionName] = cb

	if t.logger != nil {
		t.logger.Debug().
			Str("connection", connectionName).
			Msg("created circuit breaker")
	}

	return cb
}

// IsHealthyFunc returns a closure that checks if a connection is still
// allowed to keep sending commands.
//
// A connection is considered healthy if its circuit is:
//   - CLOSED: normal operation, commands dispatch normally
//   - HALF-OPEN: recent violations timed out, a few commands are let through to confirm recovery
//
// A connection is unhealthy only if the circuit is OPEN, the state in
// which internal/broker's action.go escalates a NotAllowed verdict to Halt.
func (t *Tracker) IsHealthyFunc(connectionName string) func() bool {
	return func() bool {
		cb := t.GetOrCreateCircuit(connectionName)
		// OPEN = unhealthy, CLOSED/HALF-OPEN = healthy
		return cb.State() != StateOpen
	}
}

// GetState returns the current state of a connection's circuit breaker.
// Returns StateClosed if no circuit exists for the connection (healthy by default).
func (t *Tracker) GetState(connectionName string) State {
	t.mu.RLock()
	cb, exists := t.circuits[connectionName]
	t.mu.RUnlock()

	if !exists {
		return StateClosed
	}
	return cb.State()
}

// RecordSuccess records a successful operation for a connection.
func (t *Tracker) RecordSuccess(connectionName string) {
	cb := t.GetOrCreateCircuit(connectionName)
	cb.ReportSuccess()

	if t.logger != nil {
		t.logger.Debug().
			Str("connection", connectionName).
			Str("state", cb.State().String()).
			Msg("recorded success")
	}
}

// RecordFailure records a failed operation for a connection.
func (t *Tracker) RecordFailure(connectionName string, err error) {
	cb := t.GetOrCreateCircuit(connectionName)
	cb.ReportFailure(err)

	if t.logger != nil {
		t.logger.Debug().
			Str("connection", connectionName).
			Str("state", cb.State().String()).
			Err(err).
			Msg("recorded failure")
	}
}

// AllStates returns a snapshot of all connection circuit states.
// Useful for debugging and monitoring.
func (t *Tracker) AllStates() map[string]State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	states := make(map[string]State, len(t.circuits))
	for name, cb := range t.circuits {
		states[name] = cb.State()
	}
	return states
}
