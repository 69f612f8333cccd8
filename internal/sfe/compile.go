package sfe

import "github.com/samber/mo"

// Compile parses s and wraps the result in a mo.Result, carrying the
// parsed expression, a ParseError or a RegexError through one value
// instead of a second return value. No other package in this module
// calls it.
func Compile(s string) mo.Result[Expr] {
	expr, err := Parse(s)
	if err != nil {
		return mo.Err[Expr](err)
	}
	return mo.Ok(expr)
}
