package schema

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := New().
		Property("NAME", TypeString, TextOps...).
		Property("AGE", TypeInteger, NumberOps...).
		Property("SCORE", TypeFloat, NumberOps...).
		Property("ACTIVE", TypeBoolean, BoolOps...).
		Property("CREATED", TypeTimestamp, TimeOps...).
		Build()
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}
	return s
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Schema, error)
	}{
		{
			name: "empty property name",
			build: func() (*Schema, error) {
				return New().Property("", TypeString, OpEQ).Build()
			},
		},
		{
			name: "duplicate property",
			build: func() (*Schema, error) {
				return New().
					Property("NAME", TypeString, OpEQ).
					Property("NAME", TypeString, OpNE).
					Build()
			},
		},
		{
			name: "unknown type",
			build: func() (*Schema, error) {
				return New().Property("NAME", Type("BLOB"), OpEQ).Build()
			},
		},
		{
			name: "no operators",
			build: func() (*Schema, error) {
				return New().Property("NAME", TypeString).Build()
			},
		},
		{
			name: "unknown operator",
			build: func() (*Schema, error) {
				return New().Property("NAME", TypeString, Op("CONTAINS")).Build()
			},
		},
		{
			name: "check before property",
			build: func() (*Schema, error) {
				return New().Check(func(Op, any) error { return nil }).Build()
			},
		},
		{
			name: "no properties",
			build: func() (*Schema, error) {
				return New().Build()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.build(); err == nil {
				t.Errorf("expected build error")
			}
		})
	}
}

func TestBuildOnlyOnce(t *testing.T) {
	b := New().Property("NAME", TypeString, OpEQ)
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Errorf("expected error on second Build")
	}
}

func TestSchemaLookups(t *testing.T) {
	s := testSchema(t)

	if !s.Has("NAME") {
		t.Errorf("expected schema to declare NAME")
	}
	if s.Has("UNKNOWN") {
		t.Errorf("did not expect schema to declare UNKNOWN")
	}

	p, ok := s.Property("AGE")
	if !ok {
		t.Fatalf("expected AGE property")
	}
	if p.Type() != TypeInteger {
		t.Errorf("AGE type = %s, want %s", p.Type(), TypeInteger)
	}
	if !p.Supports(OpRange) {
		t.Errorf("expected AGE to support RANGE")
	}
	if p.Supports(OpMatches) {
		t.Errorf("did not expect AGE to support MATCHES")
	}

	unsupported := s.UnsupportedOps("ACTIVE", []Op{OpEQ, OpGT, OpMatches})
	if len(unsupported) != 2 {
		t.Errorf("UnsupportedOps = %v, want [GT MATCHES]", unsupported)
	}
}

func TestValidate(t *testing.T) {
	s := testSchema(t)
	now := time.Now()

	tests := []struct {
		name     string
		ref      string
		op       Op
		value    any
		wantKind ValidationKind // empty means valid
	}{
		{"unary string", "NAME", OpEQ, "Smith", ""},
		{"like pattern", "NAME", OpMatches, "Sm%", ""},
		{"unary integer", "AGE", OpGT, 18, ""},
		{"int64 accepted", "AGE", OpGT, int64(18), ""},
		{"float accepts int", "SCORE", OpLT, 10, ""},
		{"boolean", "ACTIVE", OpEQ, true, ""},
		{"timestamp", "CREATED", OpGTE, now, ""},
		{"nullary without value", "NAME", OpIsNull, nil, ""},
		{"collection", "NAME", OpIn, []any{"a", "b"}, ""},
		{"typed slice collection", "AGE", OpIn, []int{1, 2, 3}, ""},
		{"range two elements", "AGE", OpRange, []any{18, 65}, ""},
		{"range unordered bounds allowed", "AGE", OpRange, []any{65, 18}, ""},

		{"unsupported operator", "NAME", OpGT, "x", UnsupportedOperator},
		{"nullary with value", "NAME", OpIsNull, "x", UnexpectedValue},
		{"unary without value", "NAME", OpEQ, nil, MissingValue},
		{"collection without value", "NAME", OpIn, nil, MissingValue},
		{"scalar for collection", "NAME", OpIn, "a", InvalidArity},
		{"empty collection", "NAME", OpIn, []any{}, InvalidArity},
		{"range one element", "AGE", OpRange, []any{18}, InvalidArity},
		{"range three elements", "AGE", OpRange, []any{1, 2, 3}, InvalidArity},
		{"string for integer", "AGE", OpEQ, "18", TypeMismatch},
		{"integer for string", "NAME", OpEQ, 42, TypeMismatch},
		{"float for integer", "AGE", OpEQ, 18.5, TypeMismatch},
		{"mixed collection element", "NAME", OpIn, []any{"a", 1}, TypeMismatch},
		{"string for timestamp", "CREATED", OpEQ, "2024-01-01", TypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.ref, tt.op, tt.value)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("Validate = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate = %v, want ValidationError", err)
			}
			if verr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", verr.Kind, tt.wantKind)
			}
		})
	}
}

func TestValidateUnknownProperty(t *testing.T) {
	s := testSchema(t)
	err := s.Validate("SALARY", OpEQ, 100)
	var uerr *UnknownPropertyError
	if !errors.As(err, &uerr) {
		t.Fatalf("Validate = %v, want UnknownPropertyError", err)
	}
	if uerr.Ref != "SALARY" {
		t.Errorf("Ref = %q, want SALARY", uerr.Ref)
	}
}

func TestValidateIdempotent(t *testing.T) {
	s := testSchema(t)
	for i := 0; i < 3; i++ {
		if err := s.Validate("NAME", OpEQ, "Smith"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if err := s.Validate("AGE", OpEQ, "bad"); err == nil {
			t.Fatalf("run %d: expected error", i)
		}
	}
}

func TestValidateCustomCheck(t *testing.T) {
	s, err := New().
		Property("NAME", TypeString, TextOps...).
		Check(func(op Op, value any) error {
			if op == OpMatches && value == "" {
				return fmt.Errorf("empty pattern")
			}
			return nil
		}).
		Build()
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}

	if err := s.Validate("NAME", OpMatches, "Sm%"); err != nil {
		t.Errorf("expected valid pattern, got %v", err)
	}
	if err := s.Validate("NAME", OpMatches, ""); err == nil {
		t.Errorf("expected custom check to reject empty pattern")
	}
	// The hook runs after the built-in checks.
	var verr *ValidationError
	if err := s.Validate("NAME", OpMatches, 42); !errors.As(err, &verr) {
		t.Errorf("expected TypeMismatch before custom check, got %v", err)
	}
}
