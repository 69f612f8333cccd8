package policy

import (
	"sync/atomic"
	"time"
)

// AtomicPolicy lets a Policy be swapped wholesale (e.g. on a config
// hot-reload) without invalidating callers that captured the AtomicPolicy
// itself as their policy.Policy at construction time: every method reads
// the current inner Policy via atomic.Pointer before delegating, mirroring
// internal/health.Tracker's own swap-the-whole-thing hot-reload discipline
// rather than mutating fields in place.
type AtomicPolicy struct {
	inner atomic.Pointer[Policy]
}

// NewAtomicPolicy wraps initial as the current policy.
func NewAtomicPolicy(initial Policy) *AtomicPolicy {
	p := &AtomicPolicy{}
	p.Store(initial)
	return p
}

// Store installs next as the current policy, visible to every subsequent
// method call on p.
func (p *AtomicPolicy) Store(next Policy) {
	p.inner.Store(&next)
}

// Load returns the current inner policy.
func (p *AtomicPolicy) Load() Policy {
	return *p.inner.Load()
}

func (p *AtomicPolicy) SecurityAction(conn ConnectionInfo, kind ErrorKind) Action {
	return p.Load().SecurityAction(conn, kind)
}

func (p *AtomicPolicy) HeaderMessageMaxSize(conn ConnectionInfo) uint64 {
	return p.Load().HeaderMessageMaxSize(conn)
}

func (p *AtomicPolicy) HeaderMaxSize(conn ConnectionInfo) uint64 {
	return p.Load().HeaderMaxSize(conn)
}

func (p *AtomicPolicy) CanActivate(conn ConnectionInfo) bool {
	return p.Load().CanActivate(conn)
}

func (p *AtomicPolicy) MinimumTimeBetweenTriggers(conn ConnectionInfo) time.Duration {
	return p.Load().MinimumTimeBetweenTriggers(conn)
}

func (p *AtomicPolicy) CanExecuteCode(conn ConnectionInfo) bool {
	return p.Load().CanExecuteCode(conn)
}

func (p *AtomicPolicy) FreezeDuration(conn ConnectionInfo, ec ErrorCode) time.Duration {
	return p.Load().FreezeDuration(conn, ec)
}

func (p *AtomicPolicy) CanReceiveEvent(conn ConnectionInfo, event EventInfo) bool {
	return p.Load().CanReceiveEvent(conn, event)
}

func (p *AtomicPolicy) CanTriggerEvent(conn ConnectionInfo, evt string) bool {
	return p.Load().CanTriggerEvent(conn, evt)
}

func (p *AtomicPolicy) KeepAlivePeriod(conn ConnectionInfo) time.Duration {
	return p.Load().KeepAlivePeriod(conn)
}

var _ Policy = (*AtomicPolicy)(nil)
