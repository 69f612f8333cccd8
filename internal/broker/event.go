package broker

import "github.com/canberks/riotbroker/internal/sfe"

// TriggerType is the payload shape of a published event, mirroring
// connection_base.hpp's event::trigger_type_t.
type TriggerType int

const (
	TriggerLine TriggerType = iota
	TriggerBinary
	TriggerEmpty
)

// Event is the ephemeral value fanned out to the registry by a trigger
// command. It exists only for the duration of one dispatch pass (§3).
type Event struct {
	Sender *Connection
	Type   TriggerType
	Evt    string
	// Expr is the event's own embedded filter; nil means AlwaysTrue.
	Expr sfe.Expr
	// Data is the payload; empty for TriggerEmpty.
	Data []byte
}

func (e *Event) expr() sfe.Expr {
	if e.Expr == nil {
		return sfe.AlwaysTrue
	}
	return e.Expr
}
