// Package sfe implements the Simple Filter Expression mini-language: a
// regex-of-regexes grammar used to decide whether a device may see a
// given event, matched against the event name, the sender's name, and
// the sender's groups.
package sfe

import "regexp"

// Op identifies a binary or unary boolean operator. The same constant is
// used regardless of which textual layer (inside- or outside-matcher) the
// operator was parsed from; only the printer needs to know which symbol
// set produced it.
type Op byte

// Operators, keyed by their inside-matcher (single-regex layer) symbol.
const (
	OpOr  Op = '|'
	OpAnd Op = '&'
	OpXor Op = '^'
	OpNeg Op = '~'
)

// Matcher identifies which of the three event dimensions a regex binds to.
type Matcher byte

// Matchers. MatcherEvent is the default when no "$" or "#" is present
// before a regex; an explicit "%" prefix also selects it.
const (
	MatcherEvent  Matcher = '%' // unprefixed: event name
	MatcherSender Matcher = '$' // "$": sender name
	MatcherGroups Matcher = '#' // "#": true iff any sender group matches
)

// Expr is a node of the SFE abstract syntax tree. The concrete types are
// Nil, Regex, Unary, MatcherExpr, and BinaryGroup.
type Expr interface {
	sfeExpr()
}

// Nil is the default expression: it matches everything.
type Nil struct{}

func (Nil) sfeExpr() {}

// Regex is a leaf node: a source token or quoted literal compiled to a
// regular expression. Both the source text and the compiled form are kept
// so the printer can reproduce the original wire text.
type Regex struct {
	Src string
	Re  *regexp.Regexp
}

func (Regex) sfeExpr() {}

// Unary negates its operand. Op is always OpNeg; the field exists so the
// printer has a uniform shape to switch on alongside BinaryGroup's terms.
type Unary struct {
	Op   Op
	Expr Expr
}

func (Unary) sfeExpr() {}

// MatcherExpr binds an enclosed expression to one of the three matchers.
type MatcherExpr struct {
	Matcher Matcher
	Expr    Expr
}

func (MatcherExpr) sfeExpr() {}

// Term is one (operator, operand) pair in a BinaryGroup's tail.
type Term struct {
	Op   Op
	Expr Expr
}

// BinaryGroup is a left-associative chain: First combined with each of Rest
// in sequence, using each term's own operator. The parser has already
// bucketed operators by precedence, so evaluation over Rest is a simple
// left-to-right fold.
type BinaryGroup struct {
	First Expr
	Rest  []Term
}

func (BinaryGroup) sfeExpr() {}
