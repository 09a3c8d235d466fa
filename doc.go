// Package filterql compiles dynamic filter requests into composable
// backend conditions.
//
// A request names a set of atomic filters (property, operator, value)
// and a small boolean expression combining them with '&', '|', '!' and
// parentheses. The resolver validates every filter against a closed
// property schema, parses the expression, asks an adapter to turn each
// atomic filter into an opaque Condition, and combines those conditions
// following the parsed tree. The result is a single Condition the
// adapter translates into a native query: a SQL predicate, an in-memory
// match, an ORM specification.
//
// # Quick Start
//
//	s, err := schema.New().
//	    Property("NAME", schema.TypeString, schema.TextOps...).
//	    Property("STATUS", schema.TypeString, schema.OpEQ, schema.OpNE, schema.OpIn).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resolver, err := filterql.NewResolver(filterql.Config{Schema: s})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	req, err := filterql.NewRequest().
//	    Filter("f1", "NAME", schema.OpMatches, "Smith%").
//	    Filter("f2", "STATUS", schema.OpEQ, "ACTIVE").
//	    CombineWith("(f1 & f2) | !f1").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cond, err := resolver.Resolve(req, sqlcond.NewFactory(s, sqlcond.Options{
//	    Dialect: sqlcond.DialectPostgres,
//	}))
//	if err != nil {
//	    // schema.ValidationError, dsl.SyntaxError, dsl.UnknownNameError
//	    // and filterql.ConditionError are all inspectable with errors.As.
//	}
//
//	where, args := cond.(*sqlcond.Condition).SQL()
//
// # Architecture
//
// The package follows an interface-based design:
//
//   - Condition: opaque capability with And/Or/Not combinators
//   - Factory: adapter hook turning one Filter into one Condition
//   - schema.Schema: closed, immutable whitelist of filterable properties
//   - dsl.Node: parsed combination tree
//
// Adapters live under adapter/: sqlcond renders parametrized SQL
// predicates, memcond evaluates records in memory, postgres executes a
// sqlcond condition through pgx. Implementing a new adapter means
// implementing Condition and providing a Factory; the core never needs
// to know about it.
//
// # Request transport
//
// The wire package decodes requests from JSON or MessagePack (optionally
// zstd-compressed), binding property references and operator symbols
// against a Schema:
//
//	req, err := wire.DecodeJSON(body, s)
//
// # Concurrency
//
// The core holds no mutable shared state. Schemas and resolvers are
// immutable after construction; every Resolve call builds its tree and
// condition registry fresh, so independent resolutions may run
// concurrently without synchronization.
//
// # Logging
//
// The package uses log/slog. Pass a configured *slog.Logger in Config,
// or rely on slog.Default().
package filterql
