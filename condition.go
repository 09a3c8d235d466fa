package filterql

// Condition is an adapter-produced, composable boolean capability. The
// core never inspects a Condition's internals; it only combines them.
// Each adapter provides one concrete implementation (a SQL fragment, an
// in-memory predicate, an ORM specification, ...) and the combinators
// must return the same implementation.
type Condition interface {
	// And returns a new condition representing (this AND other).
	And(other Condition) Condition

	// Or returns a new condition representing (this OR other).
	Or(other Condition) Condition

	// Not returns a new condition representing NOT(this).
	Not() Condition
}

// Factory turns one atomic filter definition into an adapter Condition.
// Supplied by the adapter at resolution time. A Factory must be safe to
// call once per filter per resolution; it may be called concurrently
// for independent resolutions.
type Factory func(def Filter) (Condition, error)
