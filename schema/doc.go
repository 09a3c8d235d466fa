// Package schema defines the operator catalog and the closed whitelist of
// filterable properties against which filter definitions are validated.
//
// Applications declare their schema once at startup:
//
//	s, err := schema.New().
//	    Property("NAME", schema.TypeString, schema.TextOps...).
//	    Property("AGE", schema.TypeInteger, schema.NumberOps...).
//	    Property("STATUS", schema.TypeString, schema.OpEQ, schema.OpNE, schema.OpIn).
//	    Build()
//
// A built Schema is immutable and safe for concurrent reads. Validation
// of a (property, operator, value) triple is a pure function:
//
//	err := s.Validate("AGE", schema.OpRange, []any{18, 65})
//
// Operators carry both a stable code ("EQ", "RANGE") and a wire symbol
// ("=", "BETWEEN"); ParseOp accepts either form, ignoring case.
package schema
