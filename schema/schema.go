package schema

import (
	"fmt"
	"sort"
)

// CheckFunc is an optional per-property validation hook. It runs after
// the built-in operator/arity/type checks and may reject values that are
// structurally valid but unacceptable to the application (e.g. an empty
// LIKE pattern). Returning an error fails validation of the definition.
type CheckFunc func(op Op, value any) error

// Property describes one filterable property: its value type and the
// subset of operators it supports. Properties are immutable once their
// Schema is built.
type Property struct {
	name  string
	typ   Type
	ops   map[Op]bool
	check CheckFunc
}

// Name returns the property identifier used in filter definitions.
func (p *Property) Name() string { return p.name }

// Type returns the declared value type of the property.
func (p *Property) Type() Type { return p.typ }

// Supports reports whether the operator is allowed for this property.
func (p *Property) Supports(op Op) bool { return p.ops[op] }

// Ops returns the supported operators in a stable order.
func (p *Property) Ops() []Op {
	ops := make([]Op, 0, len(p.ops))
	for op := range p.ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Schema is the closed whitelist of filterable properties. It is built
// once at application startup and is safe for unsynchronized concurrent
// reads afterwards.
type Schema struct {
	props map[string]*Property
}

// Property looks up a property by name.
func (s *Schema) Property(name string) (*Property, bool) {
	p, ok := s.props[name]
	return p, ok
}

// Has reports whether the schema declares the named property.
func (s *Schema) Has(name string) bool {
	_, ok := s.props[name]
	return ok
}

// Names returns the declared property names in a stable order.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.props))
	for name := range s.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnsupportedOps returns the subset of ops not supported by the named
// property. Useful for building detailed error messages. Returns all
// ops when the property is unknown.
func (s *Schema) UnsupportedOps(name string, ops []Op) []Op {
	var out []Op
	p, ok := s.props[name]
	for _, op := range ops {
		if !ok || !p.Supports(op) {
			out = append(out, op)
		}
	}
	return out
}

// Builder assembles a Schema using a fluent API.
// Not thread-safe; use only during initialization.
type Builder struct {
	order []string
	props map[string]*Property
	errs  []error
	built bool
}

// New creates an empty schema builder.
//
// Example:
//
//	s, err := schema.New().
//	    Property("NAME", schema.TypeString, schema.TextOps...).
//	    Property("AGE", schema.TypeInteger, schema.NumberOps...).
//	    Build()
func New() *Builder {
	return &Builder{props: make(map[string]*Property)}
}

// Property declares a filterable property with its type and supported
// operators. Declaration errors are collected and reported by Build.
func (b *Builder) Property(name string, typ Type, ops ...Op) *Builder {
	if name == "" {
		b.errs = append(b.errs, fmt.Errorf("property name cannot be empty"))
		return b
	}
	if _, dup := b.props[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("duplicate property name: %s", name))
		return b
	}
	if !typ.Valid() {
		b.errs = append(b.errs, fmt.Errorf("property %s has unknown type %q", name, typ))
		return b
	}
	if len(ops) == 0 {
		b.errs = append(b.errs, fmt.Errorf("property %s declares no operators", name))
		return b
	}
	set := make(map[Op]bool, len(ops))
	for _, op := range ops {
		if _, known := opSymbols[op]; !known {
			b.errs = append(b.errs, fmt.Errorf("property %s declares unknown operator %q", name, op))
			return b
		}
		set[op] = true
	}
	b.order = append(b.order, name)
	b.props[name] = &Property{name: name, typ: typ, ops: set}
	return b
}

// Check attaches a custom validation hook to the most recently declared
// property.
func (b *Builder) Check(fn CheckFunc) *Builder {
	if len(b.order) == 0 {
		b.errs = append(b.errs, fmt.Errorf("Check called before any property declaration"))
		return b
	}
	b.props[b.order[len(b.order)-1]].check = fn
	return b
}

// Build finalizes the schema. Can only be called once.
// Returns the first declaration error encountered, if any.
func (b *Builder) Build() (*Schema, error) {
	if b.built {
		return nil, fmt.Errorf("schema already built")
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if len(b.props) == 0 {
		return nil, fmt.Errorf("schema declares no properties")
	}
	b.built = true

	props := make(map[string]*Property, len(b.props))
	for name, p := range b.props {
		props[name] = p
	}
	return &Schema{props: props}, nil
}
