package sfe

import "fmt"

// ParseError reports a grammar failure at a byte offset into the source
// expression. It is distinguishable from RegexError so callers (and the
// connection state machine's error-code mapping) can tell a malformed
// expression from an unparseable regex within an otherwise well-formed one.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sfe: parse error at %d: %s", e.Offset, e.Msg)
}

// RegexError wraps a regexp compilation failure for a single regex token.
type RegexError struct {
	Offset int
	Src    string
	Err    error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("sfe: regex error at %d (%q): %s", e.Offset, e.Src, e.Err)
}

func (e *RegexError) Unwrap() error {
	return e.Err
}
