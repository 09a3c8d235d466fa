// Package dsl parses boolean combination expressions into filter trees.
//
// The expression language references named filters and combines them with
// '&' (AND), '|' (OR), '!' (NOT) and parentheses:
//
//	node, err := dsl.Parse("(f1 & f2) | !f3", request.Has)
//
// Operator precedence follows boolean algebra: '!' binds tightest, then
// '&', then '|'. Parentheses override precedence. The resulting tree is
// immutable; evaluation against a set of conditions is the caller's
// concern, typically a type switch over the node variants.
package dsl
