// Package sqlcond implements the filterql Condition capability as a
// parametrized SQL predicate: SQL text plus a positional argument list.
// It never executes anything; callers append the rendered clause to
// their own statements (see the postgres adapter for a pgx helper).
package sqlcond

import (
	"fmt"
	"strconv"
	"strings"

	filterql "github.com/cyfko/filter-build-sub000"
)

// Dialect selects placeholder and function syntax for the target engine.
type Dialect int

const (
	// DialectDuckDB renders '?' placeholders.
	DialectDuckDB Dialect = iota

	// DialectPostgres renders '$1', '$2', ... placeholders.
	DialectPostgres
)

// Condition is an immutable SQL predicate fragment. Combinators return
// new fragments; arguments are concatenated left to right so their
// order always matches placeholder order.
type Condition struct {
	dialect Dialect
	expr    string // rendered with '?' placeholders
	args    []any
}

// SQL returns the predicate body (without the WHERE keyword) with
// dialect-appropriate placeholders, and the matching argument list.
func (c *Condition) SQL() (string, []any) {
	if c.dialect == DialectPostgres {
		return numberPlaceholders(c.expr), c.args
	}
	return c.expr, c.args
}

// Dialect returns the dialect the condition was built for.
func (c *Condition) Dialect() Dialect { return c.dialect }

// And returns a new condition representing (this AND other).
// The other condition must come from the same adapter and dialect.
func (c *Condition) And(other filterql.Condition) filterql.Condition {
	o := mustSame(c, other, "And")
	return &Condition{
		dialect: c.dialect,
		expr:    "(" + c.expr + " AND " + o.expr + ")",
		args:    mergeArgs(c.args, o.args),
	}
}

// Or returns a new condition representing (this OR other).
func (c *Condition) Or(other filterql.Condition) filterql.Condition {
	o := mustSame(c, other, "Or")
	return &Condition{
		dialect: c.dialect,
		expr:    "(" + c.expr + " OR " + o.expr + ")",
		args:    mergeArgs(c.args, o.args),
	}
}

// Not returns a new condition representing NOT(this).
func (c *Condition) Not() filterql.Condition {
	return &Condition{
		dialect: c.dialect,
		expr:    "(NOT " + c.expr + ")",
		args:    c.args,
	}
}

func mustSame(c *Condition, other filterql.Condition, op string) *Condition {
	o, ok := other.(*Condition)
	if !ok {
		panic(fmt.Sprintf("sqlcond: %s combines conditions from different adapters (%T)", op, other))
	}
	if o.dialect != c.dialect {
		panic(fmt.Sprintf("sqlcond: %s combines conditions from different dialects", op))
	}
	return o
}

func mergeArgs(left, right []any) []any {
	out := make([]any, 0, len(left)+len(right))
	out = append(out, left...)
	return append(out, right...)
}

// numberPlaceholders rewrites '?' placeholders to '$1'..'$n'. Literal
// question marks never occur in the rendered expr: values travel as
// arguments, not inline literals.
func numberPlaceholders(expr string) string {
	var b strings.Builder
	b.Grow(len(expr) + 8)
	n := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(expr[i])
	}
	return b.String()
}
