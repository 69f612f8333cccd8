package policy

import "time"

// Case pairs a predicate over connection attributes with the Policy that
// should handle every query for a matching connection.
type Case struct {
	Match  func(ConnectionInfo) bool
	Policy Policy
}

// ChainPolicy walks Cases in order and delegates every query for a
// connection to the first matching case's Policy, falling back to
// Fallback if none match. This is cc-relay's ChainAuthenticator shape
// (ordered cases, first match wins, explicit fallback) retargeted from
// HTTP-request authentication to per-connection policy selection, per
// spec.md §4.8's "filtered overload ... ordered list of cases with a
// fallback" description.
type ChainPolicy struct {
	Cases    []Case
	Fallback Policy
}

// NewChainPolicy builds a ChainPolicy from cases and a fallback. Passing no
// cases makes it behave exactly like fallback.
func NewChainPolicy(fallback Policy, cases ...Case) *ChainPolicy {
	return &ChainPolicy{Cases: cases, Fallback: fallback}
}

func (c *ChainPolicy) resolve(conn ConnectionInfo) Policy {
	for _, cs := range c.Cases {
		if cs.Match(conn) {
			return cs.Policy
		}
	}
	return c.Fallback
}

func (c *ChainPolicy) SecurityAction(conn ConnectionInfo, kind ErrorKind) Action {
	return c.resolve(conn).SecurityAction(conn, kind)
}

func (c *ChainPolicy) HeaderMessageMaxSize(conn ConnectionInfo) uint64 {
	return c.resolve(conn).HeaderMessageMaxSize(conn)
}

func (c *ChainPolicy) HeaderMaxSize(conn ConnectionInfo) uint64 {
	return c.resolve(conn).HeaderMaxSize(conn)
}

func (c *ChainPolicy) CanActivate(conn ConnectionInfo) bool {
	return c.resolve(conn).CanActivate(conn)
}

func (c *ChainPolicy) MinimumTimeBetweenTriggers(conn ConnectionInfo) time.Duration {
	return c.resolve(conn).MinimumTimeBetweenTriggers(conn)
}

func (c *ChainPolicy) CanExecuteCode(conn ConnectionInfo) bool {
	return c.resolve(conn).CanExecuteCode(conn)
}

func (c *ChainPolicy) FreezeDuration(conn ConnectionInfo, ec ErrorCode) time.Duration {
	return c.resolve(conn).FreezeDuration(conn, ec)
}

func (c *ChainPolicy) CanReceiveEvent(conn ConnectionInfo, event EventInfo) bool {
	return c.resolve(conn).CanReceiveEvent(conn, event)
}

func (c *ChainPolicy) CanTriggerEvent(conn ConnectionInfo, evt string) bool {
	return c.resolve(conn).CanTriggerEvent(conn, evt)
}

func (c *ChainPolicy) KeepAlivePeriod(conn ConnectionInfo) time.Duration {
	return c.resolve(conn).KeepAlivePeriod(conn)
}

var _ Policy = (*ChainPolicy)(nil)
