package broker

import "github.com/canberks/riotbroker/internal/sfe"

// Subscription is a (n, expr) pair: n is the unique-per-connection
// identifier returned to the client, expr is the filter evaluated against
// incoming events' (evt, sender.name, sender.groups).
type Subscription struct {
	N    uint64
	Expr sfe.Expr
}
