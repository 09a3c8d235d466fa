// Package memcond evaluates filter conditions against in-memory
// records. It is the reference adapter: useful in tests, and for
// filtering data already loaded into the process.
package memcond

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/paulmach/orb"

	filterql "github.com/cyfko/filter-build-sub000"
	"github.com/cyfko/filter-build-sub000/schema"
)

// Record is a single row of data keyed by property reference.
type Record map[string]any

// Condition is a predicate over records.
type Condition struct {
	eval func(Record) bool
}

// Matches reports whether the record satisfies the condition.
func (c *Condition) Matches(rec Record) bool {
	return c.eval(rec)
}

// And implements filterql.Condition.
func (c *Condition) And(other filterql.Condition) filterql.Condition {
	o := mustMemCond(other)
	return &Condition{eval: func(rec Record) bool {
		return c.eval(rec) && o.eval(rec)
	}}
}

// Or implements filterql.Condition.
func (c *Condition) Or(other filterql.Condition) filterql.Condition {
	o := mustMemCond(other)
	return &Condition{eval: func(rec Record) bool {
		return c.eval(rec) || o.eval(rec)
	}}
}

// Not implements filterql.Condition.
func (c *Condition) Not() filterql.Condition {
	return &Condition{eval: func(rec Record) bool {
		return !c.eval(rec)
	}}
}

func mustMemCond(c filterql.Condition) *Condition {
	mc, ok := c.(*Condition)
	if !ok {
		panic(fmt.Sprintf("memcond: cannot combine with foreign condition %T", c))
	}
	return mc
}

// NewFactory returns a condition factory producing in-memory
// predicates. Definitions are validated against the schema before a
// predicate is built.
func NewFactory(s *schema.Schema) filterql.Factory {
	return func(def filterql.Filter) (filterql.Condition, error) {
		return build(s, def)
	}
}

func build(s *schema.Schema, def filterql.Filter) (*Condition, error) {
	if err := s.Validate(def.Ref, def.Op, def.Value); err != nil {
		return nil, err
	}

	ref := def.Ref

	switch def.Op {
	case schema.OpIsNull:
		return &Condition{eval: func(rec Record) bool {
			v, ok := rec[ref]
			return !ok || v == nil
		}}, nil
	case schema.OpNotNull:
		return &Condition{eval: func(rec Record) bool {
			v, ok := rec[ref]
			return ok && v != nil
		}}, nil

	case schema.OpEQ:
		return present(ref, func(v any) bool {
			eq, ok := equals(v, def.Value)
			return ok && eq
		}), nil
	case schema.OpNE:
		return present(ref, func(v any) bool {
			eq, ok := equals(v, def.Value)
			return ok && !eq
		}), nil
	case schema.OpGT:
		return present(ref, func(v any) bool {
			cmp, ok := order(v, def.Value)
			return ok && cmp > 0
		}), nil
	case schema.OpGTE:
		return present(ref, func(v any) bool {
			cmp, ok := order(v, def.Value)
			return ok && cmp >= 0
		}), nil
	case schema.OpLT:
		return present(ref, func(v any) bool {
			cmp, ok := order(v, def.Value)
			return ok && cmp < 0
		}), nil
	case schema.OpLTE:
		return present(ref, func(v any) bool {
			cmp, ok := order(v, def.Value)
			return ok && cmp <= 0
		}), nil

	case schema.OpMatches, schema.OpNotMatches:
		pattern, ok := def.Value.(string)
		if !ok {
			return nil, fmt.Errorf("memcond: pattern for %s must be a string, got %T", def.Op, def.Value)
		}
		re, err := likeRegexp(pattern)
		if err != nil {
			return nil, err
		}
		negate := def.Op == schema.OpNotMatches
		return present(ref, func(v any) bool {
			str, ok := v.(string)
			if !ok {
				return false
			}
			return re.MatchString(str) != negate
		}), nil

	case schema.OpIn, schema.OpNotIn:
		elems := elements(def.Value)
		negate := def.Op == schema.OpNotIn
		return present(ref, func(v any) bool {
			found := false
			for _, el := range elems {
				eq, ok := equals(v, el)
				if !ok {
					return false
				}
				if eq {
					found = true
					break
				}
			}
			return found != negate
		}), nil

	case schema.OpRange, schema.OpNotRange:
		elems := elements(def.Value)
		lo, hi := elems[0], elems[1]
		negate := def.Op == schema.OpNotRange
		return present(ref, func(v any) bool {
			cmpLo, okLo := order(v, lo)
			cmpHi, okHi := order(v, hi)
			if !okLo || !okHi {
				return false
			}
			inside := cmpLo >= 0 && cmpHi <= 0
			return inside != negate
		}), nil

	default:
		return nil, fmt.Errorf("memcond: operator %s has no in-memory evaluation", def.Op)
	}
}

// present wraps a predicate so that absent or nil record values never
// match. Only IS_NULL treats absence as a positive outcome.
func present(ref string, pred func(any) bool) *Condition {
	return &Condition{eval: func(rec Record) bool {
		v, ok := rec[ref]
		if !ok || v == nil {
			return false
		}
		return pred(v)
	}}
}

// equals tests two values for equality. The ok result is false when the
// pair has no meaningful equality (mismatched types); every operator,
// NE and NOT_IN included, evaluates to false for such pairs.
func equals(a, b any) (eq, ok bool) {
	if cmp, ok := order(a, b); ok {
		return cmp == 0, true
	}
	if ag, aok := a.(orb.Geometry); aok {
		if bg, bok := b.(orb.Geometry); bok {
			return orb.Equal(ag, bg), true
		}
	}
	return false, false
}

// order orders two values of compatible types. Numeric values compare
// by magnitude regardless of their Go kind, so an int64 record value
// compares cleanly against an int filter value. The ok result is false
// for pairs without a defined ordering (mismatched types, geometries);
// relational operators evaluate to false for them.
func order(a, b any) (cmp int, ok bool) {
	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			return at.Compare(bt), true
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return strings.Compare(as, bs), true
		}
	}
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0, true
			case ab:
				return 1, true
			default:
				return -1, true
			}
		}
	}
	return 0, false
}

func numeric(v any) (float64, bool) {
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// likeRegexp translates a SQL LIKE pattern into an anchored regular
// expression: % matches any run of characters, _ matches exactly one.
func likeRegexp(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("memcond: invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

func elements(value any) []any {
	if els, ok := value.([]any); ok {
		return els
	}
	rv := reflect.ValueOf(value)
	els := make([]any, rv.Len())
	for i := range els {
		els[i] = rv.Index(i).Interface()
	}
	return els
}
