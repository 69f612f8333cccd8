package policy

import "time"

// DefaultPolicy is a conservative, connection-attribute-blind policy:
// activation and ordinary pub/sub are permitted, code execution is always
// refused, header-phase violations halt the connection, and in-phase
// command/regex errors are reported but do not terminate it.
type DefaultPolicy struct {
	// HeaderMaxMessageBytes bounds a single header-phase message.
	HeaderMaxMessageBytes uint64
	// HeaderMaxTotalBytes bounds the whole Props phase.
	HeaderMaxTotalBytes uint64
	// MinTriggerInterval is the trigger-rate floor.
	MinTriggerInterval time.Duration
	// Freeze is the duration applied when an action carries Freeze.
	Freeze time.Duration
	// KeepAlive is the idle probe period; zero disables it.
	KeepAlive time.Duration
}

// NewDefaultPolicy returns a DefaultPolicy with reasonable defaults: 4KiB
// header messages, 64KiB total header budget, a 10ms trigger floor, a 30s
// freeze duration, and a 60s keep-alive period.
func NewDefaultPolicy() *DefaultPolicy {
	return &DefaultPolicy{
		HeaderMaxMessageBytes: 4096,
		HeaderMaxTotalBytes:   65536,
		MinTriggerInterval:    10 * time.Millisecond,
		Freeze:                30 * time.Second,
		KeepAlive:             60 * time.Second,
	}
}

func (p *DefaultPolicy) SecurityAction(_ ConnectionInfo, kind ErrorKind) Action {
	switch kind.Tag {
	case HeaderWrongProtocol, HeaderNoName, HeaderMalformedHeader, HeaderSizeLimitReached:
		return ActionRaiseErrorAndHalt
	case MalformedCommand, InvalidArgument, MalformedRegex:
		return ActionRaiseError | ActionNotAllowed
	case TooFrequentTrigger:
		return ActionRaiseWarningAndIgnore
	case UnpermittedCodeExecution, MalformedCode:
		return ActionRaiseError | ActionNotAllowed
	case TriggerProhibited:
		return ActionRaiseError | ActionNotAllowed
	default:
		return ActionAllowed
	}
}

func (p *DefaultPolicy) HeaderMessageMaxSize(ConnectionInfo) uint64 { return p.HeaderMaxMessageBytes }
func (p *DefaultPolicy) HeaderMaxSize(ConnectionInfo) uint64        { return p.HeaderMaxTotalBytes }
func (p *DefaultPolicy) CanActivate(ConnectionInfo) bool            { return true }
func (p *DefaultPolicy) MinimumTimeBetweenTriggers(ConnectionInfo) time.Duration {
	return p.MinTriggerInterval
}

// CanExecuteCode always refuses: execute* commands are permanently
// reserved (SPEC_FULL.md §12, carried from spec.md's Open Questions).
func (p *DefaultPolicy) CanExecuteCode(ConnectionInfo) bool { return false }

func (p *DefaultPolicy) FreezeDuration(ConnectionInfo, ErrorCode) time.Duration { return p.Freeze }
func (p *DefaultPolicy) CanReceiveEvent(ConnectionInfo, EventInfo) bool         { return true }
func (p *DefaultPolicy) CanTriggerEvent(ConnectionInfo, string) bool            { return true }
func (p *DefaultPolicy) KeepAlivePeriod(ConnectionInfo) time.Duration           { return p.KeepAlive }

var _ Policy = (*DefaultPolicy)(nil)
