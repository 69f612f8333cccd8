// Package command parses the active-phase wire commands: subscribe,
// unsubscribe, the trigger family, pause/resume/alive/kill-me, echo, the
// reserved execute family, the store family, and release.
package command

import "github.com/canberks/riotbroker/internal/sfe"

// Command is the sum type of all active-phase commands. Concrete types are
// Subscribe, Unsubscribe, Trigger, TriggerBinary, TriggerEmpty,
// TriggerCached, TriggerCachedBinary, TriggerCachedEmpty,
// TriggerCachedCachedData, Pause, Resume, Alive, KillMe, Echo, Execute,
// ExecuteScript, ExecuteCached, Store, StoreBinary, and Release.
type Command interface {
	cmdMarker()
}

// Subscribe adds a subscription matching expr.
type Subscribe struct {
	Expr sfe.Expr
}

// Unsubscribe removes the subscription numbered N.
type Unsubscribe struct {
	N uint64
}

// Trigger publishes a line event named Evt. Expr is nil when the command
// carried no trailing filter (the event has no embedded filter).
type Trigger struct {
	Evt  string
	Expr sfe.Expr
}

// TriggerBinary publishes a binary event of Size bytes named Evt, followed
// on the wire by exactly Size bytes of payload.
type TriggerBinary struct {
	Size uint64
	Evt  string
	Expr sfe.Expr
}

// TriggerEmpty publishes an empty (payload-less) event named Evt.
type TriggerEmpty struct {
	Evt  string
	Expr sfe.Expr
}

// TriggerCached publishes a line event reusing a previously stored,
// previously cache-compiled SFE expression by ExprID instead of a trailing
// filter.
type TriggerCached struct {
	Evt    string
	ExprID uint64
}

// TriggerCachedBinary is TriggerCached's binary-payload counterpart.
type TriggerCachedBinary struct {
	Size   uint64
	Evt    string
	ExprID uint64
}

// TriggerCachedEmpty is TriggerCached's empty-payload counterpart.
type TriggerCachedEmpty struct {
	Evt    string
	ExprID uint64
}

// TriggerCachedCachedData publishes an event whose payload is also resolved
// from local storage by DataID, in addition to a cached expression by
// ExprID.
type TriggerCachedCachedData struct {
	Evt    string
	ExprID uint64
	DataID uint64
}

// Pause stops event delivery to this connection without closing it.
type Pause struct{}

// Resume resumes event delivery after Pause.
type Resume struct{}

// Alive is a liveness no-op, replied to like any other command.
type Alive struct{}

// KillMe asks the broker to close this connection.
type KillMe struct{}

// Echo gets (State == nil) or sets (State != nil) the connection's echo
// flag.
type Echo struct {
	State *bool
}

// Execute is reserved for future scripting support; always answered
// cmd_not_impl.
type Execute struct {
	Line string
}

// ExecuteScript is reserved; always answered cmd_not_impl.
type ExecuteScript struct {
	Size uint64
}

// ExecuteCached is reserved; always answered cmd_not_impl.
type ExecuteCached struct {
	ID uint64
}

// Store saves Line as a new local-storage blob, allocating its ID.
type Store struct {
	Line string
}

// StoreBinary is Store's binary-payload counterpart: Size bytes follow on
// the wire.
type StoreBinary struct {
	Size uint64
}

// Release frees the local-storage blob (and any cached expression derived
// from it) numbered ID.
type Release struct {
	ID uint64
}

func (Subscribe) cmdMarker()               {}
func (Unsubscribe) cmdMarker()             {}
func (Trigger) cmdMarker()                 {}
func (TriggerBinary) cmdMarker()           {}
func (TriggerEmpty) cmdMarker()            {}
func (TriggerCached) cmdMarker()           {}
func (TriggerCachedBinary) cmdMarker()     {}
func (TriggerCachedEmpty) cmdMarker()      {}
func (TriggerCachedCachedData) cmdMarker() {}
func (Pause) cmdMarker()                   {}
func (Resume) cmdMarker()                  {}
func (Alive) cmdMarker()                   {}
func (KillMe) cmdMarker()                  {}
func (Echo) cmdMarker()                    {}
func (Execute) cmdMarker()                 {}
func (ExecuteScript) cmdMarker()           {}
func (ExecuteCached) cmdMarker()           {}
func (Store) cmdMarker()                   {}
func (StoreBinary) cmdMarker()             {}
func (Release) cmdMarker()                 {}
