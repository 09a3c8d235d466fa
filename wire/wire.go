// Package wire encodes and decodes filter requests for transport.
//
// Two codecs are provided: JSON for human-facing APIs and MessagePack
// for compact service-to-service payloads, optionally wrapped in
// ZStandard compression for batched or persisted requests. Decoding is
// schema-aware: values are coerced to the Go type the property
// declares before the request is built, so adapters always see
// properly typed values.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/vmihailenco/msgpack/v5"

	filterql "github.com/cyfko/filter-build-sub000"
	"github.com/cyfko/filter-build-sub000/schema"
)

// rawFilter is the transport shape of a single named filter.
type rawFilter struct {
	Ref      string `json:"ref" msgpack:"ref"`
	Operator string `json:"operator" msgpack:"operator"`
	Value    any    `json:"value,omitempty" msgpack:"value,omitempty"`
}

// rawRequest is the transport shape of a filter request.
type rawRequest struct {
	Filters     map[string]rawFilter `json:"filters" msgpack:"filters"`
	CombineWith string               `json:"combineWith" msgpack:"combineWith"`
}

// DecodeError reports a transport payload that could not be turned
// into a valid request.
type DecodeError struct {
	Name string // filter name, empty for envelope-level problems
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("wire: decode request: %v", e.Err)
	}
	return fmt.Sprintf("wire: decode filter %q: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeJSON parses a JSON request payload against the schema. Numbers
// are coerced to the property's declared type, timestamps accept
// RFC 3339 strings, and geometries accept WKT strings.
func DecodeJSON(data []byte, s *schema.Schema) (filterql.Request, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var raw rawRequest
	if err := dec.Decode(&raw); err != nil {
		return filterql.Request{}, &DecodeError{Err: err}
	}
	return assemble(raw, s)
}

// EncodeJSON renders a request as its JSON transport shape. Operators
// are written using their SQL-style symbols, timestamps as RFC 3339
// strings, geometries as WKT strings.
func EncodeJSON(req filterql.Request) ([]byte, error) {
	raw, err := disassemble(req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

// DecodeBinary parses a MessagePack request payload against the schema.
func DecodeBinary(data []byte, s *schema.Schema) (filterql.Request, error) {
	var raw rawRequest
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return filterql.Request{}, &DecodeError{Err: err}
	}
	return assemble(raw, s)
}

// EncodeBinary renders a request as MessagePack.
func EncodeBinary(req filterql.Request) ([]byte, error) {
	raw, err := disassemble(req)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(raw)
}

func assemble(raw rawRequest, s *schema.Schema) (filterql.Request, error) {
	b := filterql.NewRequest().CombineWith(raw.CombineWith)
	for name, rf := range raw.Filters {
		op, ok := schema.ParseOp(rf.Operator)
		if !ok {
			return filterql.Request{}, &DecodeError{
				Name: name,
				Err:  fmt.Errorf("unknown operator %q", rf.Operator),
			}
		}
		prop, ok := s.Property(rf.Ref)
		if !ok {
			return filterql.Request{}, &DecodeError{
				Name: name,
				Err:  &schema.UnknownPropertyError{Ref: rf.Ref},
			}
		}
		value, err := coerce(rf.Value, prop.Type())
		if err != nil {
			return filterql.Request{}, &DecodeError{Name: name, Err: err}
		}
		if err := s.Validate(rf.Ref, op, value); err != nil {
			return filterql.Request{}, &DecodeError{Name: name, Err: err}
		}
		b.Filter(name, rf.Ref, op, value)
	}
	req, err := b.Build()
	if err != nil {
		return filterql.Request{}, &DecodeError{Err: err}
	}
	return req, nil
}

func disassemble(req filterql.Request) (rawRequest, error) {
	raw := rawRequest{
		Filters:     make(map[string]rawFilter, len(req.Filters())),
		CombineWith: req.CombineWith(),
	}
	for name, def := range req.Filters() {
		value, err := flatten(def.Value)
		if err != nil {
			return rawRequest{}, fmt.Errorf("wire: encode filter %q: %w", name, err)
		}
		raw.Filters[name] = rawFilter{
			Ref:      def.Ref,
			Operator: def.Op.Symbol(),
			Value:    value,
		}
	}
	return raw, nil
}

// coerce converts a decoded transport value into the Go type the
// property declares. Sequences coerce element-wise; arity is checked
// later by schema validation.
func coerce(value any, typ schema.Type) (any, error) {
	if value == nil {
		return nil, nil
	}
	if seq, ok := value.([]any); ok {
		out := make([]any, len(seq))
		for i, el := range seq {
			coerced, err := coerceScalar(el, typ)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = coerced
		}
		return out, nil
	}
	return coerceScalar(value, typ)
}

func coerceScalar(value any, typ schema.Type) (any, error) {
	switch typ {
	case schema.TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return s, nil

	case schema.TypeInteger:
		switch v := value.(type) {
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v.String())
			}
			return n, nil
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case uint64:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint8:
			return int64(v), nil
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int64(v), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", value)

	case schema.TypeFloat:
		switch v := value.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", v.String())
			}
			return f, nil
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
		return nil, fmt.Errorf("expected number, got %T", value)

	case schema.TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", value)
		}
		return b, nil

	case schema.TypeTimestamp:
		switch v := value.(type) {
		case string:
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, fmt.Errorf("expected RFC 3339 timestamp: %w", err)
			}
			return t, nil
		case time.Time:
			return v, nil
		}
		return nil, fmt.Errorf("expected RFC 3339 timestamp, got %T", value)

	case schema.TypeGeometry:
		switch v := value.(type) {
		case string:
			g, err := wkt.Unmarshal(v)
			if err != nil {
				return nil, fmt.Errorf("expected WKT geometry: %w", err)
			}
			return g, nil
		case orb.Geometry:
			return v, nil
		}
		return nil, fmt.Errorf("expected WKT geometry, got %T", value)
	}

	return nil, fmt.Errorf("unsupported property type %s", typ)
}

// flatten converts a typed value back into its transport
// representation.
func flatten(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case orb.Geometry:
		return wkt.MarshalString(v), nil
	case []any:
		out := make([]any, len(v))
		for i, el := range v {
			flat, err := flatten(el)
			if err != nil {
				return nil, err
			}
			out[i] = flat
		}
		return out, nil
	default:
		return v, nil
	}
}
