package filterql

import (
	"fmt"
	"sort"

	"github.com/cyfko/filter-build-sub000/schema"
)

// Filter is one atomic filter definition: a property reference, an
// operator and an operator-shaped value. Values are nil for nullary
// operators, a scalar for unary ones, and a sequence for collection and
// range operators.
type Filter struct {
	Ref   string
	Op    schema.Op
	Value any
}

func (f Filter) String() string {
	return fmt.Sprintf("Filter{ref=%s, op=%s, value=%v}", f.Ref, f.Op, f.Value)
}

// Request is an immutable set of named filters plus the combination
// expression that describes how to merge them. Build one with
// NewRequest or decode one from the wire package.
type Request struct {
	filters     map[string]Filter
	combineWith string
}

// Filters returns a copy of the named filter definitions.
func (r Request) Filters() map[string]Filter {
	out := make(map[string]Filter, len(r.filters))
	for name, def := range r.filters {
		out[name] = def
	}
	return out
}

// Filter looks up a single definition by name.
func (r Request) Filter(name string) (Filter, bool) {
	def, ok := r.filters[name]
	return def, ok
}

// Has reports whether the request defines the named filter. Its method
// value is the usual name-existence callback for dsl.Parse.
func (r Request) Has(name string) bool {
	_, ok := r.filters[name]
	return ok
}

// Names returns the filter names in a stable order.
func (r Request) Names() []string {
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CombineWith returns the combination expression, e.g. "(f1 & f2) | !f3".
func (r Request) CombineWith() string {
	return r.combineWith
}

func (r Request) String() string {
	return fmt.Sprintf("Request{filters=%d, combineWith=%q}", len(r.filters), r.combineWith)
}

// RequestBuilder accumulates named filters and a combination expression
// into an immutable Request. Not thread-safe; build per call site.
type RequestBuilder struct {
	filters map[string]Filter
	combine string
	errs    []error
	built   bool
}

// NewRequest creates an empty request builder.
//
// Example:
//
//	req, err := filterql.NewRequest().
//	    Filter("f1", "NAME", schema.OpMatches, "Smith%").
//	    Filter("f2", "STATUS", schema.OpEQ, "ACTIVE").
//	    CombineWith("f1 & f2").
//	    Build()
func NewRequest() *RequestBuilder {
	return &RequestBuilder{filters: make(map[string]Filter)}
}

// Filter adds a named filter definition. Names must be unique within
// the request; duplicates are reported by Build.
func (b *RequestBuilder) Filter(name, ref string, op schema.Op, value any) *RequestBuilder {
	if name == "" {
		b.errs = append(b.errs, fmt.Errorf("filter name cannot be empty"))
		return b
	}
	if _, dup := b.filters[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("duplicate filter name: %s", name))
		return b
	}
	b.filters[name] = Filter{Ref: ref, Op: op, Value: value}
	return b
}

// CombineWith sets the combination expression. The expression is parsed
// lazily by the resolver, not here.
func (b *RequestBuilder) CombineWith(expression string) *RequestBuilder {
	b.combine = expression
	return b
}

// Build finalizes the request. Can only be called once.
func (b *RequestBuilder) Build() (Request, error) {
	if b.built {
		return Request{}, fmt.Errorf("request already built")
	}
	if len(b.errs) > 0 {
		return Request{}, b.errs[0]
	}
	if len(b.filters) == 0 {
		return Request{}, fmt.Errorf("request defines no filters")
	}
	if b.combine == "" {
		return Request{}, fmt.Errorf("request has no combination expression")
	}
	b.built = true

	filters := make(map[string]Filter, len(b.filters))
	for name, def := range b.filters {
		filters[name] = def
	}
	return Request{filters: filters, combineWith: b.combine}, nil
}
