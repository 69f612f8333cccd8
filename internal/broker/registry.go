package broker

import "github.com/samber/lo"

// Registry is the live-connection set (§3's "set of weak references to
// active connections"). Go has no std::weak_ptr/shared_ptr reference
// counting, so the sweep-on-destroy design translates to explicit
// bookkeeping instead: a connection adds itself on reaching Active and
// removes itself from teardown, rather than being swept opportunistically
// by a later pass discovering an expired weak_ptr. Every method here must
// only ever be called from the Executor goroutine (connection activation,
// teardown, and Dispatch are all posted there), so the map needs no lock.
type Registry struct {
	conns map[uint64]*Connection
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[uint64]*Connection)}
}

// Add registers conn as Active. Called once, when Props -> Active.
func (r *Registry) Add(conn *Connection) {
	r.conns[conn.ID] = conn
}

// Remove unregisters conn, e.g. on close. A no-op if conn was never added
// or was already removed (mirrors the original's idempotent
// expired-weak_ptr sweep).
func (r *Registry) Remove(conn *Connection) {
	delete(r.conns, conn.ID)
}

// Len reports the number of active connections.
func (r *Registry) Len() int {
	return len(r.conns)
}

// Dispatch fans evt out to every registered connection's trigger path
// (§4.6), in an unspecified iteration order (Go map iteration is
// randomized per the language spec; spec.md §5 only requires order to be
// stable *within* one dispatch pass and consistent across multiple
// recipients of the same sender's events, which holds regardless of which
// order the map happens to enumerate in, since every target observes the
// same single pass).
func (r *Registry) Dispatch(evt *Event) {
	for _, conn := range r.conns {
		conn.trigger(evt)
	}
}

// snapshot returns the currently registered connections; used by tests and
// by administrative queries that need a stable slice rather than live map
// iteration.
func (r *Registry) snapshot() []*Connection {
	return lo.Values(r.conns)
}
