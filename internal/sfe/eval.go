package sfe

// Evaluate evaluates expr against an event name, a sender name, and the
// sender's groups. This is the three-argument form used for subscription
// matching (spec.md §4.2): matcher MatcherSender consults senderName.
func Evaluate(expr Expr, eventName, senderName string, senderGroups []string) bool {
	return evalNode(expr, MatcherEvent, eventName, senderName, senderGroups, true)
}

// EvaluateNoSender evaluates expr against an event name and a set of
// groups only; any MatcherSender sub-expression evaluates to true
// unconditionally. This is the two-argument form used to test an event's
// own embedded filter against a candidate recipient's (name, groups),
// where the "sender" dimension has no meaning (spec.md §4.6 step 3).
func EvaluateNoSender(expr Expr, name string, groups []string) bool {
	return evalNode(expr, MatcherEvent, name, "", groups, false)
}

// evalNode walks expr, tracking the currently active matcher so that
// regex leaves know which string(s) to test against. haveSender controls
// whether MatcherSender nodes consult senderName or trivially pass.
func evalNode(expr Expr, current Matcher, eventName, senderName string, groups []string, haveSender bool) bool {
	switch n := expr.(type) {
	case Nil:
		return true
	case Regex:
		switch current {
		case MatcherSender:
			if !haveSender {
				return true
			}
			return n.Re.MatchString(senderName)
		case MatcherGroups:
			for _, g := range groups {
				if n.Re.MatchString(g) {
					return true
				}
			}
			return false
		default: // MatcherEvent
			return n.Re.MatchString(eventName)
		}
	case Unary:
		return !evalNode(n.Expr, current, eventName, senderName, groups, haveSender)
	case MatcherExpr:
		return evalNode(n.Expr, n.Matcher, eventName, senderName, groups, haveSender)
	case BinaryGroup:
		result := evalNode(n.First, current, eventName, senderName, groups, haveSender)
		for _, term := range n.Rest {
			next := evalNode(term.Expr, current, eventName, senderName, groups, haveSender)
			switch term.Op {
			case OpAnd:
				result = result && next
			case OpOr:
				result = result || next
			case OpXor:
				result = result != next
			}
		}
		return result
	default:
		return true
	}
}
