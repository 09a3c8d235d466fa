package schema

import (
	"fmt"
	"reflect"
)

// ValidationKind identifies the rule a filter definition violated.
type ValidationKind string

const (
	UnsupportedOperator ValidationKind = "UNSUPPORTED_OPERATOR"
	MissingValue        ValidationKind = "MISSING_VALUE"
	UnexpectedValue     ValidationKind = "UNEXPECTED_VALUE"
	InvalidArity        ValidationKind = "INVALID_ARITY"
	TypeMismatch        ValidationKind = "TYPE_MISMATCH"
)

// ValidationError reports why a filter definition is inconsistent with
// the schema. Expected and Actual carry rule-specific detail: element
// counts for InvalidArity, type names for TypeMismatch.
type ValidationError struct {
	Property string
	Op       Op
	Kind     ValidationKind
	Expected string
	Actual   string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case UnsupportedOperator:
		return fmt.Sprintf("operator %s is not supported for property %s (supported: %s)",
			e.Op, e.Property, e.Expected)
	case MissingValue:
		return fmt.Sprintf("operator %s on property %s requires a value", e.Op, e.Property)
	case UnexpectedValue:
		return fmt.Sprintf("operator %s on property %s does not take a value, got %s",
			e.Op, e.Property, e.Actual)
	case InvalidArity:
		return fmt.Sprintf("operator %s on property %s requires %s values, got %s",
			e.Op, e.Property, e.Expected, e.Actual)
	case TypeMismatch:
		return fmt.Sprintf("property %s expects %s values, got %s",
			e.Property, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("invalid filter on property %s with operator %s", e.Property, e.Op)
	}
}

// UnknownPropertyError reports a filter referencing a property the
// schema does not declare.
type UnknownPropertyError struct {
	Ref string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown property reference %q", e.Ref)
}

// Validate checks that a (property, operator, value) triple is
// internally consistent. Checks run in order and fail fast:
//
//  1. the property exists in the schema,
//  2. the operator is supported by the property,
//  3. value presence matches the operator arity class,
//  4. collection and range operators receive a sequence of the right length,
//  5. every scalar matches the property type,
//  6. the property's custom check hook, if any.
//
// Validate is a pure function: validating the same triple twice yields
// the same result.
func (s *Schema) Validate(ref string, op Op, value any) error {
	prop, ok := s.props[ref]
	if !ok {
		return &UnknownPropertyError{Ref: ref}
	}

	if !prop.Supports(op) {
		return &ValidationError{
			Property: ref,
			Op:       op,
			Kind:     UnsupportedOperator,
			Expected: fmt.Sprint(prop.Ops()),
		}
	}

	switch op.Arity() {
	case ArityNullary:
		if value != nil {
			return &ValidationError{
				Property: ref,
				Op:       op,
				Kind:     UnexpectedValue,
				Actual:   describe(value),
			}
		}
		return prop.runCheck(op, value)

	case ArityUnary:
		if value == nil {
			return &ValidationError{Property: ref, Op: op, Kind: MissingValue}
		}
		if !prop.typ.Accepts(value) {
			return &ValidationError{
				Property: ref,
				Op:       op,
				Kind:     TypeMismatch,
				Expected: string(prop.typ),
				Actual:   describe(value),
			}
		}
		return prop.runCheck(op, value)

	case ArityCollection, ArityRange:
		if value == nil {
			return &ValidationError{Property: ref, Op: op, Kind: MissingValue}
		}
		elems, ok := sequence(value)
		if !ok {
			return &ValidationError{
				Property: ref,
				Op:       op,
				Kind:     InvalidArity,
				Expected: arityWant(op),
				Actual:   describe(value),
			}
		}
		if op.Arity() == ArityRange && len(elems) != 2 {
			return &ValidationError{
				Property: ref,
				Op:       op,
				Kind:     InvalidArity,
				Expected: "exactly 2",
				Actual:   fmt.Sprint(len(elems)),
			}
		}
		if op.Arity() == ArityCollection && len(elems) == 0 {
			return &ValidationError{
				Property: ref,
				Op:       op,
				Kind:     InvalidArity,
				Expected: "at least 1",
				Actual:   "0",
			}
		}
		for _, el := range elems {
			if !prop.typ.Accepts(el) {
				return &ValidationError{
					Property: ref,
					Op:       op,
					Kind:     TypeMismatch,
					Expected: string(prop.typ),
					Actual:   describe(el),
				}
			}
		}
		return prop.runCheck(op, value)
	}

	return nil
}

func (p *Property) runCheck(op Op, value any) error {
	if p.check == nil {
		return nil
	}
	return p.check(op, value)
}

func arityWant(op Op) string {
	if op.Arity() == ArityRange {
		return "a sequence of exactly 2"
	}
	return "a non-empty sequence of"
}

// sequence extracts the elements of a slice or array value.
// Returns false for scalars. Strings and byte slices are scalars here.
func sequence(value any) ([]any, bool) {
	if els, ok := value.([]any); ok {
		return els, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	els := make([]any, rv.Len())
	for i := range els {
		els[i] = rv.Index(i).Interface()
	}
	return els, true
}
