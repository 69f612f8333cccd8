package broker

import (
	"errors"

	"github.com/canberks/riotbroker/internal/audit"
	"github.com/canberks/riotbroker/internal/health"
	"github.com/canberks/riotbroker/internal/policy"
)

// errRepeatedViolation is the sentinel ReportFailure records against a
// connection's circuit breaker; the breaker only cares that a failure
// happened, not why, so one sentinel covers every ErrorKind.
var errRepeatedViolation = errors.New("broker: policy marked action NotAllowed")

// applySecurityAction is connection_base.hpp's RIOT_HANDLE_ERROR_CASE
// macro: report err/warn/ok, then halt (if set, skip freeze/block and tell
// the caller not to re-arm its next read), otherwise freeze (only if not
// halted - Action.EffectiveFreeze already encodes that) and block. Every
// step here is gated on action.NotAllowed() - an Allowed action is
// entirely inert, exactly matching the macro's literal nesting (the
// err/warn/ok/halt/freeze/block logic all live inside one
// "if (not_allowed)" block in the original).
//
// Returns true if the connection has been halted: the caller must stop
// processing and must not arm another read.
func (c *Connection) applySecurityAction(kind policy.ErrorKind, ec policy.ErrorCode) bool {
	_, halted := c.applySecurityActionEx(kind, ec)
	return halted
}

// applySecurityActionEx is applySecurityAction's variant for the call
// site (header_no_name) that needs the resolved Action itself, to decide
// whether to abort the current phase transition versus fall through with
// a default value.
func (c *Connection) applySecurityActionEx(kind policy.ErrorKind, ec policy.ErrorCode) (action policy.Action, halted bool) {
	action = c.policy.SecurityAction(c, kind)
	if !action.NotAllowed() {
		if c.breaker != nil {
			c.breaker.ReportSuccess()
		}
		return action, false
	}
	c.reportSecurityAction(action, ec)
	halted = c.finishSecurityAction(action, ec)
	if c.breaker != nil {
		c.breaker.ReportFailure(errRepeatedViolation)
		// A connection that keeps tripping NotAllowed checks gets halted
		// once its circuit opens, even for a single ErrorKind the policy
		// itself would otherwise only warn or freeze on.
		if !halted && c.breaker.State() == health.StateOpen {
			halted = true
		}
	}
	if c.auditSink != nil {
		c.auditSink.Record("security_action", map[string]any{
			"conn_id":  c.ID,
			"name":     c.name,
			"groups":   c.groups,
			"password": c.password,
			"error":    uint16(ec),
			"action":   uint32(action),
			"halted":   halted,
		})
	}
	return action, halted
}

func (c *Connection) reportSecurityAction(action policy.Action, ec policy.ErrorCode) {
	switch {
	case action.RaiseError():
		c.sendError(ec)
	case action.RaiseWarning():
		c.sendWarning(ec)
	default:
		c.sendOK()
	}
}

func (c *Connection) finishSecurityAction(action policy.Action, ec policy.ErrorCode) (halted bool) {
	if action.Halt() {
		return true
	}
	if action.EffectiveFreeze() {
		c.freeze(ec)
	}
	if action.Block() {
		_ = c.transport.BlockEndpoint()
	}
	return false
}

// handleWrongProtocol is the Protocol-phase's one deviation from the
// generic helper above: spec.md §4.5 requires the protocol identifier to
// be sent "always ... regardless of echo suppression", overriding
// connection_base.hpp's literal macro nesting (there, send_protocol sits
// inside the same "if (not_allowed)" block as the err/warn/ok report, so a
// policy that marks WrongProtocol as Allowed would silently skip it - the
// distilled spec is explicit that this must not happen, so it governs).
func (c *Connection) handleWrongProtocol() (halted bool) {
	action := c.policy.SecurityAction(c, policy.Kind(policy.HeaderWrongProtocol))
	if action.NotAllowed() {
		c.reportSecurityAction(action, policy.ErrProtocol)
	}
	c.sendProtocolUnconditional()
	if !action.NotAllowed() {
		return false
	}
	return c.finishSecurityAction(action, policy.ErrProtocol)
}

func (c *Connection) sendProtocolUnconditional() {
	c.sendRaw("info " + ProtocolName)
}
