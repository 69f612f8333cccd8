package health

import "errors"

// Sentinel errors for connection circuit tracking.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and rejecting commands.
	ErrCircuitOpen = errors.New("health: circuit breaker is open")

	// ErrConnectionUnhealthy is returned when a connection is marked unhealthy (circuit open).
	ErrConnectionUnhealthy = errors.New("health: connection is unhealthy")
)
