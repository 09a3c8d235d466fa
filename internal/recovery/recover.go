// Package recovery provides panic recovery around adapter-supplied
// condition factories. Ensures a panicking factory fails one resolution
// with an attributable error instead of crashing the caller.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Call wraps a factory invocation with panic recovery. If fn panics,
// the panic is logged with its stack trace and converted to an error
// naming the filter being materialized.
//
// Example:
//
//	cond, err := recovery.Call(logger, name, func() (Condition, error) {
//	    return factory(def)
//	})
func Call[T any](logger *slog.Logger, filter string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()

			logger.Error("panic recovered in condition factory",
				"filter", filter,
				"panic", r,
				"stack", string(stack),
			)

			var zero T
			result = zero
			err = fmt.Errorf("condition factory panicked: %v", r)
		}
	}()

	return fn()
}
