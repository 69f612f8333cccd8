package broker

import (
	"errors"

	"github.com/canberks/riotbroker/internal/command"
	"github.com/canberks/riotbroker/internal/policy"
	"github.com/canberks/riotbroker/internal/sfe"
)

// --- subscribe / unsubscribe ---

func (c *Connection) handleSubscribe(cmd command.Subscribe) {
	n := nextSubscriptionID(c.subscriptions)
	c.subscriptions = append(c.subscriptions, Subscription{N: n, Expr: cmd.Expr})
	c.sendOKWithID(n)
	c.armReadMessage()
}

func (c *Connection) handleUnsubscribe(cmd command.Unsubscribe) {
	idx := -1
	for i, s := range c.subscriptions {
		if s.N == cmd.N {
			idx = i
			break
		}
	}
	if idx >= 0 {
		c.subscriptions = append(c.subscriptions[:idx], c.subscriptions[idx+1:]...)
		c.sendOK()
	} else if c.applySecurityAction(policy.Kind(policy.InvalidArgument), policy.ErrCmdInvalidArg) {
		return
	}
	c.armReadMessage()
}

// --- trigger gate, shared by every trigger* command (trigger_common) ---

// triggerGate checks can_trigger_event; on denial it reports
// TriggerProhibited and, if not halted, re-arms the next read itself.
// Callers treat a false return as "already handled, stop".
func (c *Connection) triggerGate(evt string) bool {
	if c.policy.CanTriggerEvent(c, evt) {
		return true
	}
	if c.applySecurityAction(policy.KindTriggerProhibited(evt), policy.ErrTriggerProhibited) {
		return false
	}
	c.armReadMessage()
	return false
}

func (c *Connection) triggerLineCommon(evt *Event) {
	if !c.triggerGate(evt.Evt) {
		return
	}
	c.sendOK()
	c.armReadMessageFor(func(payload string) {
		c.sendOK()
		data := []byte(payload)
		if c.sendTrailingNewline {
			data = append(data, '\n')
		}
		evt.Data = data
		c.registry.Dispatch(evt)
		c.armReadMessage()
	})
}

func (c *Connection) triggerBinaryCommon(evt *Event, size uint64) {
	if !c.triggerGate(evt.Evt) {
		return
	}
	c.sendOK()
	c.armReadBinary(size, func(buf []byte) {
		c.sendOK()
		data := buf
		if c.sendTrailingNewline {
			data = append(data, '\n')
		}
		evt.Data = data
		c.registry.Dispatch(evt)
		c.armReadMessage()
	})
}

func (c *Connection) triggerEmptyCommon(evt *Event) {
	if !c.triggerGate(evt.Evt) {
		return
	}
	c.sendOK()
	c.registry.Dispatch(evt)
	c.armReadMessage()
}

// --- trigger / trigger-binary / trigger-empty ---

func (c *Connection) handleTrigger(cmd command.Trigger) {
	c.triggerLineCommon(&Event{Sender: c, Type: TriggerLine, Evt: cmd.Evt, Expr: cmd.Expr})
}

func (c *Connection) handleTriggerBinary(cmd command.TriggerBinary) {
	c.triggerBinaryCommon(&Event{Sender: c, Type: TriggerBinary, Evt: cmd.Evt, Expr: cmd.Expr}, cmd.Size)
}

func (c *Connection) handleTriggerEmpty(cmd command.TriggerEmpty) {
	c.triggerEmptyCommon(&Event{Sender: c, Type: TriggerEmpty, Evt: cmd.Evt, Expr: cmd.Expr})
}

// --- cached expression resolution, shared by the trigger-cached* family ---

// resolveCachedExpr is trigger_check_cache: resolve by ExprID from the
// expression cache first, else compile local_storage[ExprID] and memoize
// it, else report the id as unknown.
func (c *Connection) resolveCachedExpr(exprID uint64) (sfe.Expr, policy.ErrorCode, bool) {
	if expr, ok := c.expressionCache[exprID]; ok {
		return expr, policy.ErrNoError, true
	}
	raw, ok := c.localStorage[exprID]
	if !ok {
		return nil, policy.ErrCmdInvalidArg, false
	}
	expr, err := sfe.Parse(string(raw))
	if err != nil {
		var regexErr *sfe.RegexError
		if errors.As(err, &regexErr) {
			return nil, policy.ErrCmdCachedParserRegex, false
		}
		return nil, policy.ErrCmdCachedParser, false
	}
	c.expressionCache[exprID] = expr
	return expr, policy.ErrNoError, true
}

// triggerCachedGate is trigger_cached_common: on a cache miss or malformed
// cached expression it always reports InvalidArgument as the policy kind
// (matching the original's literal use of security_actions::invalid_argument
// for every failure here), but with the specific resolved ErrorCode.
func (c *Connection) triggerCachedGate(exprID uint64) (sfe.Expr, bool) {
	expr, ec, ok := c.resolveCachedExpr(exprID)
	if ok {
		return expr, true
	}
	if c.applySecurityAction(policy.Kind(policy.InvalidArgument), ec) {
		return nil, false
	}
	c.armReadMessage()
	return nil, false
}

func (c *Connection) handleTriggerCached(cmd command.TriggerCached) {
	expr, ok := c.triggerCachedGate(cmd.ExprID)
	if !ok {
		return
	}
	c.triggerLineCommon(&Event{Sender: c, Type: TriggerLine, Evt: cmd.Evt, Expr: expr})
}

func (c *Connection) handleTriggerCachedBinary(cmd command.TriggerCachedBinary) {
	expr, ok := c.triggerCachedGate(cmd.ExprID)
	if !ok {
		return
	}
	c.triggerBinaryCommon(&Event{Sender: c, Type: TriggerBinary, Evt: cmd.Evt, Expr: expr}, cmd.Size)
}

// handleTriggerCachedEmpty: the original constructs this event as
// event::trigger_binary (connection_base.hpp, cmd::trigger_cached_empty
// handler) while still routing it through trigger_empty_common, which
// would emit an "eb 0 ..." header instead of "ee ..." - an evident copy-
// paste bug, not an intentional wire behavior spec.md documents anywhere.
// riot-broker uses TriggerEmpty here, matching spec.md §4.4/§4.5's
// trigger-cached-empty semantics instead of reproducing the bug.
func (c *Connection) handleTriggerCachedEmpty(cmd command.TriggerCachedEmpty) {
	expr, ok := c.triggerCachedGate(cmd.ExprID)
	if !ok {
		return
	}
	c.triggerEmptyCommon(&Event{Sender: c, Type: TriggerEmpty, Evt: cmd.Evt, Expr: expr})
}

func (c *Connection) handleTriggerCachedCachedData(cmd command.TriggerCachedCachedData) {
	expr, ok := c.triggerCachedGate(cmd.ExprID)
	if !ok {
		return
	}
	evt := &Event{Sender: c, Type: TriggerBinary, Evt: cmd.Evt, Expr: expr}
	if !c.triggerGate(cmd.Evt) {
		return
	}

	raw, ok := c.localStorage[cmd.DataID]
	if !ok {
		if c.applySecurityAction(policy.Kind(policy.InvalidArgument), policy.ErrCmdInvalidArg) {
			return
		}
		c.armReadMessage()
		return
	}

	c.sendOK()
	data := append([]byte{}, raw...)
	if c.sendTrailingNewline {
		data = append(data, '\n')
	}
	evt.Data = data
	c.registry.Dispatch(evt)
	c.armReadMessage()
}

// --- pause / resume / alive / kill-me / echo ---

func (c *Connection) handlePause(command.Pause) {
	c.paused = true
	c.sendOK()
	c.armReadMessage()
}

func (c *Connection) handleResume(command.Resume) {
	c.paused = false
	c.sendOK()
	c.armReadMessage()
}

func (c *Connection) handleAlive(command.Alive) {
	c.sendOK()
	c.armReadMessage()
}

func (c *Connection) handleKillMe(command.KillMe) {
	c.teardown()
}

func (c *Connection) handleEcho(cmd command.Echo) {
	if cmd.State != nil {
		c.echo = *cmd.State
	} else {
		c.echo = !c.echo
	}
	c.armReadMessage()
}

// --- reserved execute family: always "not implemented" ---

func (c *Connection) handleExecute(command.Execute) {
	c.sendError(policy.ErrCmdNotImpl)
	c.armReadMessage()
}

func (c *Connection) handleExecuteScript(command.ExecuteScript) {
	c.sendError(policy.ErrCmdNotImpl)
	c.armReadMessage()
}

func (c *Connection) handleExecuteCached(command.ExecuteCached) {
	c.sendError(policy.ErrCmdNotImpl)
	c.armReadMessage()
}

// --- store / store-binary / release ---

func (c *Connection) handleStore(cmd command.Store) {
	id := c.storageIDs.Allocate()
	c.localStorage[id] = []byte(cmd.Line)
	c.sendOKWithID(id)
	c.armReadMessage()
}

func (c *Connection) handleStoreBinary(cmd command.StoreBinary) {
	id := c.storageIDs.Allocate()
	c.sendOKWithID(id)
	c.armReadBinary(cmd.Size, func(buf []byte) {
		c.localStorage[id] = buf
		c.armReadMessage()
	})
}

func (c *Connection) handleRelease(cmd command.Release) {
	if _, ok := c.localStorage[cmd.ID]; ok {
		delete(c.localStorage, cmd.ID)
		delete(c.expressionCache, cmd.ID)
		c.storageIDs.Release(cmd.ID)
		c.sendOK()
	} else if c.applySecurityAction(policy.Kind(policy.InvalidArgument), policy.ErrCmdInvalidArg) {
		return
	}
	c.armReadMessage()
}
