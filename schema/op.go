package schema

import "strings"

// Op identifies a comparison operator from the fixed catalog.
type Op string

const (
	// OpEQ tests equality: "=".
	OpEQ Op = "EQ"

	// OpNE tests inequality: "!=".
	OpNE Op = "NE"

	// OpGT tests strict greater-than: ">".
	OpGT Op = "GT"

	// OpGTE tests greater-than-or-equal: ">=".
	OpGTE Op = "GTE"

	// OpLT tests strict less-than: "<".
	OpLT Op = "LT"

	// OpLTE tests less-than-or-equal: "<=".
	OpLTE Op = "LTE"

	// OpMatches tests pattern matching: "LIKE".
	OpMatches Op = "MATCHES"

	// OpNotMatches tests negated pattern matching: "NOT LIKE".
	OpNotMatches Op = "NOT_MATCHES"

	// OpIn tests membership in a collection: "IN".
	OpIn Op = "IN"

	// OpNotIn tests absence from a collection: "NOT IN".
	OpNotIn Op = "NOT_IN"

	// OpIsNull tests for a missing value: "IS NULL".
	OpIsNull Op = "IS_NULL"

	// OpNotNull tests for a present value: "IS NOT NULL".
	OpNotNull Op = "NOT_NULL"

	// OpRange tests inclusion in a two-value range: "BETWEEN".
	OpRange Op = "RANGE"

	// OpNotRange tests exclusion from a two-value range: "NOT BETWEEN".
	OpNotRange Op = "NOT_RANGE"
)

// Arity classifies the value shape an operator accepts.
type Arity int

const (
	// ArityNullary forbids a value (IS_NULL, NOT_NULL).
	ArityNullary Arity = iota

	// ArityUnary requires exactly one scalar value.
	ArityUnary

	// ArityCollection requires a non-empty sequence of values (IN, NOT_IN).
	ArityCollection

	// ArityRange requires exactly two values (RANGE, NOT_RANGE).
	// The core does not require the bounds to be ordered; adapters decide.
	ArityRange
)

// opSymbols maps each operator to its wire symbol.
var opSymbols = map[Op]string{
	OpEQ:         "=",
	OpNE:         "!=",
	OpGT:         ">",
	OpGTE:        ">=",
	OpLT:         "<",
	OpLTE:        "<=",
	OpMatches:    "LIKE",
	OpNotMatches: "NOT LIKE",
	OpIn:         "IN",
	OpNotIn:      "NOT IN",
	OpIsNull:     "IS NULL",
	OpNotNull:    "IS NOT NULL",
	OpRange:      "BETWEEN",
	OpNotRange:   "NOT BETWEEN",
}

// Ops returns the complete operator catalog.
func Ops() []Op {
	return []Op{
		OpEQ, OpNE, OpGT, OpGTE, OpLT, OpLTE,
		OpMatches, OpNotMatches, OpIn, OpNotIn,
		OpIsNull, OpNotNull, OpRange, OpNotRange,
	}
}

// Symbol returns the wire symbol of the operator, e.g. "=" or "NOT LIKE".
// Returns the operator code unchanged if it is not part of the catalog.
func (o Op) Symbol() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return string(o)
}

// Arity returns the value arity class of the operator.
// Total over the catalog; unknown operators report ArityUnary.
func (o Op) Arity() Arity {
	switch o {
	case OpIsNull, OpNotNull:
		return ArityNullary
	case OpIn, OpNotIn:
		return ArityCollection
	case OpRange, OpNotRange:
		return ArityRange
	default:
		return ArityUnary
	}
}

// RequiresValue reports whether the operator takes a value.
// Only IS_NULL and NOT_NULL are value-free predicates.
func (o Op) RequiresValue() bool {
	return o.Arity() != ArityNullary
}

// Multivalued reports whether the operator applies to a sequence of values.
func (o Op) Multivalued() bool {
	a := o.Arity()
	return a == ArityCollection || a == ArityRange
}

// ParseOp finds an operator by its symbol or code, ignoring case and
// surrounding whitespace. Both "=" and "EQ" resolve to OpEQ.
func ParseOp(value string) (Op, bool) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return "", false
	}
	for op, symbol := range opSymbols {
		if trimmed == symbol || trimmed == string(op) {
			return op, true
		}
	}
	return "", false
}

// Predefined operator sets for common property types. Applications may
// use them as-is when declaring properties or build their own subsets.
var (
	// TextOps are the operators applicable to textual properties.
	TextOps = []Op{
		OpEQ, OpNE, OpMatches, OpNotMatches,
		OpIn, OpNotIn, OpIsNull, OpNotNull,
	}

	// NumberOps are the operators applicable to numeric properties.
	NumberOps = []Op{
		OpEQ, OpNE, OpGT, OpGTE, OpLT, OpLTE,
		OpRange, OpNotRange, OpIn, OpNotIn, OpIsNull, OpNotNull,
	}

	// TimeOps are the operators applicable to timestamp properties.
	TimeOps = []Op{
		OpEQ, OpNE, OpGT, OpGTE, OpLT, OpLTE,
		OpRange, OpNotRange, OpIsNull, OpNotNull,
	}

	// BoolOps are the operators applicable to boolean properties.
	BoolOps = []Op{OpEQ, OpNE, OpIsNull, OpNotNull}
)
