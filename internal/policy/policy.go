// Package policy defines the pluggable decision surface consulted by the
// connection state machine: whether a connection may activate, publish, or
// receive a given event, how it should react to protocol violations, and a
// handful of sizing/timing parameters.
package policy

import "time"

// ConnectionInfo is the read-only view of a connection a Policy needs.
// internal/broker's Connection type satisfies it; policy never depends on
// broker, so broker is free to depend on policy.
type ConnectionInfo interface {
	Name() string
	Groups() []string
	ServerID() string
}

// EventInfo describes an event for a CanReceiveEvent query.
type EventInfo struct {
	Evt          string
	Sender       string
	SenderGroups []string
}

// Policy is the single pluggable decision surface. Spec's "filtered
// overload" dispatch (one function taking (connection, query), returning a
// typed answer) becomes one interface method per query whose result type
// differs, since Go methods can't return a caller-chosen type without one
// of them; SecurityAction stays a single dispatch point because every
// error kind shares the same Action result type. Every method answers
// exactly once: no chaining, no accumulation.
type Policy interface {
	// SecurityAction answers how the connection should react to kind.
	SecurityAction(conn ConnectionInfo, kind ErrorKind) Action

	// HeaderMessageMaxSize bounds a single header-phase message.
	HeaderMessageMaxSize(conn ConnectionInfo) uint64
	// HeaderMaxSize bounds the total bytes read across the whole Props phase.
	HeaderMaxSize(conn ConnectionInfo) uint64
	// CanActivate decides whether END may transition Props -> Active.
	CanActivate(conn ConnectionInfo) bool
	// MinimumTimeBetweenTriggers is the trigger-rate floor; triggers closer
	// together than this are TooFrequentTrigger.
	MinimumTimeBetweenTriggers(conn ConnectionInfo) time.Duration
	// CanExecuteCode always answers false in this implementation; execute*
	// commands are permanently reserved (§9 Open Questions).
	CanExecuteCode(conn ConnectionInfo) bool
	// FreezeDuration answers how long a connection should freeze after ec,
	// when the corresponding SecurityAction included Freeze.
	FreezeDuration(conn ConnectionInfo, ec ErrorCode) time.Duration
	// CanReceiveEvent decides whether conn may be a fanout target for event.
	CanReceiveEvent(conn ConnectionInfo, event EventInfo) bool
	// CanTriggerEvent decides whether conn may publish evt at all.
	CanTriggerEvent(conn ConnectionInfo, evt string) bool
	// KeepAlivePeriod is the idle period after which the connection should
	// be probed or dropped; zero disables the probe.
	KeepAlivePeriod(conn ConnectionInfo) time.Duration
}
