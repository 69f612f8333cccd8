package sfe

import "strings"

// Print renders expr back to SFE source text. The result always reparses
// to an AST equivalent to expr (spec.md §8's parse∘print∘parse property);
// regex leaves are always emitted quoted, and groups are always
// parenthesized with plain "(" ")", which both grammar layers accept,
// rather than switching bracket style by layer.
func Print(expr Expr) string {
	var b strings.Builder
	printNode(&b, expr, false)
	return b.String()
}

func printNode(b *strings.Builder, expr Expr, insideMatcher bool) {
	switch n := expr.(type) {
	case Nil:
		// AlwaysTrue prints as the empty string, which Parse treats as Nil.
	case Regex:
		b.WriteByte('\'')
		b.WriteString(n.Src)
		b.WriteByte('\'')
	case Unary:
		b.WriteString(negSymbol(insideMatcher))
		printNode(b, n.Expr, insideMatcher)
	case MatcherExpr:
		switch n.Matcher {
		case MatcherSender:
			b.WriteString("$")
		case MatcherGroups:
			b.WriteString("#")
		}
		printNode(b, n.Expr, true)
	case BinaryGroup:
		if len(n.Rest) == 0 {
			printNode(b, n.First, insideMatcher)
			return
		}
		b.WriteByte('(')
		printNode(b, n.First, insideMatcher)
		for _, term := range n.Rest {
			b.WriteString(opSymbol(term.Op, insideMatcher))
			printNode(b, term.Expr, insideMatcher)
		}
		b.WriteByte(')')
	}
}

func negSymbol(insideMatcher bool) string {
	if insideMatcher {
		return "~"
	}
	return "!"
}

func opSymbol(op Op, insideMatcher bool) string {
	if insideMatcher {
		return string(rune(op))
	}
	switch op {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpXor:
		return "^^"
	default:
		return "?"
	}
}
