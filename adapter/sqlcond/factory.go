package sqlcond

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	filterql "github.com/cyfko/filter-build-sub000"
	"github.com/cyfko/filter-build-sub000/schema"
)

// Options configures SQL rendering.
type Options struct {
	// Dialect selects placeholder syntax. Defaults to DialectDuckDB.
	Dialect Dialect

	// ColumnMapping maps property references to column names.
	// Properties not in the map use their reference as the column name.
	ColumnMapping map[string]string

	// ColumnExpressions maps property references to SQL expressions.
	// Takes precedence over ColumnMapping.
	// Use for computed columns or complex transformations.
	ColumnExpressions map[string]string
}

// NewFactory returns a condition factory rendering each filter
// definition as a parametrized SQL predicate. Definitions are
// re-validated against the schema before rendering, so the factory is
// safe to use outside the resolver as well.
func NewFactory(s *schema.Schema, opts Options) filterql.Factory {
	return func(def filterql.Filter) (filterql.Condition, error) {
		return build(s, opts, def)
	}
}

func build(s *schema.Schema, opts Options, def filterql.Filter) (*Condition, error) {
	if err := s.Validate(def.Ref, def.Op, def.Value); err != nil {
		return nil, err
	}

	column := resolveColumn(opts, def.Ref)

	switch def.Op {
	case schema.OpEQ:
		return compare(opts, column, "=", def.Value), nil
	case schema.OpNE:
		return compare(opts, column, "<>", def.Value), nil
	case schema.OpGT:
		return compare(opts, column, ">", def.Value), nil
	case schema.OpGTE:
		return compare(opts, column, ">=", def.Value), nil
	case schema.OpLT:
		return compare(opts, column, "<", def.Value), nil
	case schema.OpLTE:
		return compare(opts, column, "<=", def.Value), nil

	case schema.OpMatches:
		return compare(opts, column, "LIKE", def.Value), nil
	case schema.OpNotMatches:
		return compare(opts, column, "NOT LIKE", def.Value), nil

	case schema.OpIn:
		return membership(opts, column, "IN", def.Value), nil
	case schema.OpNotIn:
		return membership(opts, column, "NOT IN", def.Value), nil

	case schema.OpIsNull:
		return &Condition{dialect: opts.Dialect, expr: column + " IS NULL"}, nil
	case schema.OpNotNull:
		return &Condition{dialect: opts.Dialect, expr: column + " IS NOT NULL"}, nil

	case schema.OpRange:
		return between(opts, column, "BETWEEN", def.Value), nil
	case schema.OpNotRange:
		return between(opts, column, "NOT BETWEEN", def.Value), nil

	default:
		return nil, fmt.Errorf("sqlcond: operator %s has no SQL rendering", def.Op)
	}
}

// resolveColumn maps a property reference to its SQL representation:
// an explicit expression, a mapped column name, or the reference itself.
func resolveColumn(opts Options, ref string) string {
	if expr, ok := opts.ColumnExpressions[ref]; ok {
		return expr
	}
	if name, ok := opts.ColumnMapping[ref]; ok {
		return quoteIdentifier(name)
	}
	return quoteIdentifier(ref)
}

func compare(opts Options, column, op string, value any) *Condition {
	ph, arg := placeholder(value)
	return &Condition{
		dialect: opts.Dialect,
		expr:    column + " " + op + " " + ph,
		args:    []any{arg},
	}
}

func membership(opts Options, column, op string, value any) *Condition {
	elems := elements(value)
	phs := make([]string, len(elems))
	args := make([]any, len(elems))
	for i, el := range elems {
		phs[i], args[i] = placeholder(el)
	}
	return &Condition{
		dialect: opts.Dialect,
		expr:    column + " " + op + " (" + strings.Join(phs, ", ") + ")",
		args:    args,
	}
}

func between(opts Options, column, op string, value any) *Condition {
	elems := elements(value)
	loPh, lo := placeholder(elems[0])
	hiPh, hi := placeholder(elems[1])
	return &Condition{
		dialect: opts.Dialect,
		expr:    column + " " + op + " " + loPh + " AND " + hiPh,
		args:    []any{lo, hi},
	}
}

// placeholder returns the placeholder fragment and the bound argument
// for a value. Geometries bind as WKT text wrapped in ST_GeomFromText,
// understood by both PostGIS and the DuckDB spatial extension.
func placeholder(value any) (string, any) {
	if g, ok := value.(orb.Geometry); ok {
		return "ST_GeomFromText(?)", wkt.MarshalString(g)
	}
	return "?", value
}

// elements flattens a validated sequence value. Validation has already
// guaranteed the value is a slice of the right length.
func elements(value any) []any {
	if els, ok := value.([]any); ok {
		return els
	}
	rv := reflect.ValueOf(value)
	els := make([]any, rv.Len())
	for i := range els {
		els[i] = rv.Index(i).Interface()
	}
	return els
}
