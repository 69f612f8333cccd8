package broker

import (
	"errors"
	"strings"

	"github.com/canberks/riotbroker/internal/command"
	"github.com/canberks/riotbroker/internal/policy"
	"github.com/canberks/riotbroker/internal/protoheader"
	"github.com/canberks/riotbroker/internal/sfe"
)

// handleNextMessage is connection_base.hpp's handle_next_message: the one
// entry point every ordinary (non-payload-continuation) read feeds into.
// It accounts header-phase byte budget, then dispatches to the phase
// handler for the connection's current state.
func (c *Connection) handleNextMessage(msg string) {
	if c.state != stateActive {
		if max := c.policy.HeaderMaxSize(c); max != 0 {
			if c.headerTotalSize >= max {
				// err_header_unspecified has no entry in error_codes.hpp's
				// published table; ErrMalformedHeader is the closest
				// wire-stable code for "the header phase misbehaved".
				if c.applySecurityAction(policy.Kind(policy.HeaderSizeLimitReached), policy.ErrMalformedHeader) {
					return
				}
			}
			c.headerTotalSize += uint64(len(msg)) + 1
		}
	}

	switch c.state {
	case stateProtocol:
		c.handleProtocolPhase(msg)
	case stateProps:
		c.handlePropsPhase(msg)
	case stateActive:
		c.handleActivePhase(msg)
	}
}

func (c *Connection) handleProtocolPhase(msg string) {
	switch strings.TrimSpace(msg) {
	case ProtocolName:
		c.state = stateProps
		c.echo = true
		c.sendOK()
	case ProtocolName + "_echo_off":
		c.state = stateProps
		c.echo = false
		c.sendOK()
	default:
		if c.handleWrongProtocol() {
			return
		}
	}
	c.armReadMessage()
}

func (c *Connection) handlePropsPhase(msg string) {
	trimmed := strings.TrimSpace(msg)
	switch {
	case trimmed == "END":
		c.finishPropsPhase()
		return
	case trimmed == "":
		// blank line is not an error
	default:
		entry, err := protoheader.Parse(msg)
		if err != nil {
			if c.applySecurityAction(policy.Kind(policy.HeaderMalformedHeader), policy.ErrMalformedHeader) {
				return
			}
		} else {
			c.properties[entry.Key] = entry.Values
			c.sendOK()
		}
	}
	c.armReadMessage()
}

// finishPropsPhase handles the "END" line: name/password/groups resolution,
// the can_activate gate, and transition to Active.
func (c *Connection) finishPropsPhase() {
	if values, ok := c.properties["name"]; ok && len(values) > 0 {
		c.name = values[0]
	} else {
		action, halted := c.applySecurityActionEx(policy.Kind(policy.HeaderNoName), policy.ErrMalformedHeader)
		if halted {
			return
		}
		if action.NotAllowed() {
			c.armReadMessage()
			return
		}
	}

	if values, ok := c.properties["password"]; ok && len(values) > 0 {
		c.password = values[0]
	} else {
		c.password = ""
	}
	c.groups = c.properties["groups"]

	if !c.policy.CanActivate(c) {
		c.sendError(policy.ErrActivateSecurityFail)
		return
	}

	c.state = stateActive
	c.registry.Add(c)
	c.transport.SetMaxMessageSize(0)
	c.sendOK()
	c.armReadMessage()
}

func (c *Connection) handleActivePhase(msg string) {
	if strings.TrimSpace(msg) == "" {
		c.armReadMessage()
		return
	}

	cmd, err := command.Parse(msg)
	if err != nil {
		var regexErr *sfe.RegexError
		kind, ec := policy.Kind(policy.MalformedCommand), policy.ErrParser
		if errors.As(err, &regexErr) {
			kind, ec = policy.Kind(policy.MalformedRegex), policy.ErrParserRegex
		}
		if c.applySecurityAction(kind, ec) {
			return
		}
		c.armReadMessage()
		return
	}

	c.dispatch(cmd)
}

func (c *Connection) dispatch(cmd command.Command) {
	switch v := cmd.(type) {
	case command.Subscribe:
		c.handleSubscribe(v)
	case command.Unsubscribe:
		c.handleUnsubscribe(v)
	case command.Trigger:
		c.handleTrigger(v)
	case command.TriggerBinary:
		c.handleTriggerBinary(v)
	case command.TriggerEmpty:
		c.handleTriggerEmpty(v)
	case command.TriggerCached:
		c.handleTriggerCached(v)
	case command.TriggerCachedBinary:
		c.handleTriggerCachedBinary(v)
	case command.TriggerCachedEmpty:
		c.handleTriggerCachedEmpty(v)
	case command.TriggerCachedCachedData:
		c.handleTriggerCachedCachedData(v)
	case command.Pause:
		c.handlePause(v)
	case command.Resume:
		c.handleResume(v)
	case command.Alive:
		c.handleAlive(v)
	case command.KillMe:
		c.handleKillMe(v)
	case command.Echo:
		c.handleEcho(v)
	case command.Execute:
		c.handleExecute(v)
	case command.ExecuteScript:
		c.handleExecuteScript(v)
	case command.ExecuteCached:
		c.handleExecuteCached(v)
	case command.Store:
		c.handleStore(v)
	case command.StoreBinary:
		c.handleStoreBinary(v)
	case command.Release:
		c.handleRelease(v)
	}
}
