// Package postgres executes resolved filter conditions against
// PostgreSQL through pgx. It pairs with the sqlcond adapter configured
// for the Postgres dialect.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	filterql "github.com/cyfko/filter-build-sub000"
	"github.com/cyfko/filter-build-sub000/adapter/sqlcond"
)

// ErrForeignCondition is returned when a condition was not produced by
// the sqlcond adapter with the Postgres dialect.
var ErrForeignCondition = errors.New("postgres: condition is not a postgres sqlcond condition")

// Querier is the subset of pgx connections and pools needed to run
// filtered queries. Both *pgx.Conn and *pgxpool.Pool satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Query appends the condition as a WHERE clause to the base statement
// and executes it. The base statement must not already carry a WHERE
// clause.
func Query(ctx context.Context, q Querier, base string, cond filterql.Condition) (pgx.Rows, error) {
	stmt, args, err := Statement(base, cond)
	if err != nil {
		return nil, err
	}
	return q.Query(ctx, stmt, args...)
}

// Statement renders the final SQL text and arguments without executing
// anything. Useful for logging or passing to other drivers.
func Statement(base string, cond filterql.Condition) (string, []any, error) {
	sc, ok := cond.(*sqlcond.Condition)
	if !ok {
		return "", nil, fmt.Errorf("%w: got %T", ErrForeignCondition, cond)
	}
	if sc.Dialect() != sqlcond.DialectPostgres {
		return "", nil, fmt.Errorf("%w: condition uses dialect %v", ErrForeignCondition, sc.Dialect())
	}
	expr, args := sc.SQL()
	return base + " WHERE " + expr, args, nil
}
