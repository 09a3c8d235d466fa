package filterql

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cyfko/filter-build-sub000/dsl"
	"github.com/cyfko/filter-build-sub000/internal/recovery"
	"github.com/cyfko/filter-build-sub000/schema"
)

// Standard errors returned by the filterql package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid resolver config")
)

// ConditionError reports that the adapter factory failed to materialize
// the condition for a specific filter. It wraps the underlying cause.
type ConditionError struct {
	Name string
	Err  error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("building condition for filter %q: %v", e.Name, e.Err)
}

func (e *ConditionError) Unwrap() error { return e.Err }

// ParseFunc converts a combination expression into a filter tree,
// checking identifiers against the exists callback. dsl.Parse is the
// default implementation.
type ParseFunc func(expression string, exists func(name string) bool) (dsl.Node, error)

// Config configures a Resolver.
type Config struct {
	// Schema is the property whitelist used to validate definitions.
	// REQUIRED: MUST NOT be nil.
	Schema *schema.Schema

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger

	// Parser overrides the combination expression parser.
	// OPTIONAL: Uses dsl.Parse if nil.
	Parser ParseFunc
}

// Resolver orchestrates the resolution pipeline: validate every filter
// definition, parse the combination expression, materialize one
// Condition per filter through the adapter factory, and combine them
// following the parsed tree.
//
// Resolvers are immutable and safe for concurrent use; every Resolve
// call works on fresh per-call state.
type Resolver struct {
	schema *schema.Schema
	logger *slog.Logger
	parse  ParseFunc
}

// NewResolver creates a Resolver from the given config.
// Returns ErrInvalidConfig if the schema is missing.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.Schema == nil {
		return nil, fmt.Errorf("%w: schema is required", ErrInvalidConfig)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	parse := cfg.Parser
	if parse == nil {
		parse = dsl.Parse
	}
	return &Resolver{schema: cfg.Schema, logger: logger, parse: parse}, nil
}

// Resolve turns a request into one combined Condition using the
// adapter-supplied factory.
//
// Steps run in a fixed, fail-fast order:
//
//  1. validate every filter definition against the schema,
//  2. parse the combination expression, checking referenced names,
//  3. materialize a Condition for every filter (eagerly, so factory
//     errors surface with per-filter attribution),
//  4. walk the tree, combining conditions with And/Or/Not.
//
// Any failure aborts the remaining steps; no partial condition is ever
// returned. Expected failures are returned as typed errors
// (schema.ValidationError, dsl.SyntaxError, dsl.UnknownNameError,
// ConditionError) so callers can map them to client-facing responses.
func (r *Resolver) Resolve(req Request, factory Factory) (Condition, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: condition factory is required", ErrInvalidConfig)
	}

	for _, name := range req.Names() {
		def := req.filters[name]
		if err := r.schema.Validate(def.Ref, def.Op, def.Value); err != nil {
			return nil, fmt.Errorf("filter %q: %w", name, err)
		}
	}

	tree, err := r.parse(req.CombineWith(), req.Has)
	if err != nil {
		return nil, err
	}

	conditions, err := r.populate(req, factory)
	if err != nil {
		return nil, err
	}

	cond := evaluate(tree, conditions)
	r.logger.Debug("filter request resolved",
		"filters", len(req.filters),
		"tree", tree.String(),
	)
	return cond, nil
}

// populate materializes one Condition per named filter. Construction is
// eager: every entry is converted before tree evaluation begins, so
// adapter-side errors surface with per-filter attribution. A factory
// panic is recovered and reported as a ConditionError.
func (r *Resolver) populate(req Request, factory Factory) (map[string]Condition, error) {
	conditions := make(map[string]Condition, len(req.filters))
	for _, name := range req.Names() {
		def := req.filters[name]
		cond, err := recovery.Call(r.logger, name, func() (Condition, error) {
			return factory(def)
		})
		if err != nil {
			return nil, &ConditionError{Name: name, Err: err}
		}
		if cond == nil {
			return nil, &ConditionError{Name: name, Err: errors.New("factory returned nil condition")}
		}
		conditions[name] = cond
	}
	return conditions, nil
}

// evaluate walks the tree post-order, pulling leaf conditions from the
// populated map and combining siblings. Every leaf is resolved; no
// short-circuiting happens here because conditions are opaque and may
// carry adapter state that must be materialized.
//
// A leaf missing from the map means the parser's name-existence check
// was bypassed; that is a bug in this package, not a data error.
func evaluate(node dsl.Node, conditions map[string]Condition) Condition {
	switch n := node.(type) {
	case *dsl.Leaf:
		cond, ok := conditions[n.Name]
		if !ok {
			panic(fmt.Sprintf("filterql: no condition populated for filter %q", n.Name))
		}
		return cond
	case *dsl.And:
		return evaluate(n.Left, conditions).And(evaluate(n.Right, conditions))
	case *dsl.Or:
		return evaluate(n.Left, conditions).Or(evaluate(n.Right, conditions))
	case *dsl.Not:
		return evaluate(n.Operand, conditions).Not()
	default:
		panic(fmt.Sprintf("filterql: unknown tree node %T", node))
	}
}
