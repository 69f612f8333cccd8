package broker

import (
	"strconv"
	"strings"

	"github.com/canberks/riotbroker/internal/policy"
	"github.com/canberks/riotbroker/internal/sfe"
)

// trigger is a fanout target's receive path (§4.6), invoked once per
// registered connection for every dispatched event. Grounded on
// connection_base.hpp's connection_base::trigger(shared_ptr<const event>).
func (c *Connection) trigger(evt *Event) {
	if evt.Sender == c {
		return
	}
	if c.paused {
		return
	}
	if !sfe.EvaluateNoSender(evt.expr(), c.name, c.groups) {
		return
	}

	var header strings.Builder
	switch evt.Type {
	case TriggerLine:
		header.WriteString("el ")
	case TriggerBinary:
		header.WriteString("eb " + strconv.Itoa(len(evt.Data)) + " ")
	case TriggerEmpty:
		header.WriteString("ee ")
	}
	header.WriteString(evt.Evt + " " + evt.Sender.name + " ")

	anyMatch := false
	for _, sub := range c.subscriptions {
		if sfe.Evaluate(sub.Expr, evt.Evt, evt.Sender.name, evt.Sender.groups) {
			header.WriteString(strconv.FormatUint(sub.N, 10) + " ")
			anyMatch = true
		}
	}
	if !anyMatch {
		return
	}

	if !c.policy.CanReceiveEvent(c, policy.EventInfo{
		Evt:          evt.Evt,
		Sender:       evt.Sender.name,
		SenderGroups: evt.Sender.groups,
	}) {
		return
	}

	headerLine := header.String()
	if c.sendTrailingNewline {
		headerLine += "\n"
	}
	c.enqueueWrite([]byte(headerLine), false, nil)

	switch evt.Type {
	case TriggerLine:
		c.enqueueWrite(evt.Data, false, nil)
	case TriggerBinary:
		c.enqueueWrite(evt.Data, true, nil)
	case TriggerEmpty:
		// header only, never forget :/
	}
}
