package sqlcond

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/paulmach/orb"

	filterql "github.com/cyfko/filter-build-sub000"
	"github.com/cyfko/filter-build-sub000/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New().
		Property("NAME", schema.TypeString, schema.TextOps...).
		Property("AGE", schema.TypeInteger, schema.NumberOps...).
		Property("CREATED", schema.TypeTimestamp, schema.TimeOps...).
		Property("LOCATION", schema.TypeGeometry, schema.OpEQ, schema.OpIsNull, schema.OpNotNull).
		Build()
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}
	return s
}

func render(t *testing.T, opts Options, def filterql.Filter) (string, []any) {
	t.Helper()
	factory := NewFactory(testSchema(t), opts)
	cond, err := factory(def)
	if err != nil {
		t.Fatalf("factory(%v) failed: %v", def, err)
	}
	return cond.(*Condition).SQL()
}

func TestFactoryOperators(t *testing.T) {
	tests := []struct {
		name     string
		def      filterql.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "equality",
			def:      filterql.Filter{Ref: "NAME", Op: schema.OpEQ, Value: "Smith"},
			wantSQL:  `NAME = ?`,
			wantArgs: []any{"Smith"},
		},
		{
			name:     "inequality",
			def:      filterql.Filter{Ref: "NAME", Op: schema.OpNE, Value: "Smith"},
			wantSQL:  `NAME <> ?`,
			wantArgs: []any{"Smith"},
		},
		{
			name:     "greater than",
			def:      filterql.Filter{Ref: "AGE", Op: schema.OpGT, Value: 18},
			wantSQL:  `AGE > ?`,
			wantArgs: []any{18},
		},
		{
			name:     "greater or equal",
			def:      filterql.Filter{Ref: "AGE", Op: schema.OpGTE, Value: 18},
			wantSQL:  `AGE >= ?`,
			wantArgs: []any{18},
		},
		{
			name:     "less than",
			def:      filterql.Filter{Ref: "AGE", Op: schema.OpLT, Value: 65},
			wantSQL:  `AGE < ?`,
			wantArgs: []any{65},
		},
		{
			name:     "less or equal",
			def:      filterql.Filter{Ref: "AGE", Op: schema.OpLTE, Value: 65},
			wantSQL:  `AGE <= ?`,
			wantArgs: []any{65},
		},
		{
			name:     "like",
			def:      filterql.Filter{Ref: "NAME", Op: schema.OpMatches, Value: "Sm%"},
			wantSQL:  `NAME LIKE ?`,
			wantArgs: []any{"Sm%"},
		},
		{
			name:     "not like",
			def:      filterql.Filter{Ref: "NAME", Op: schema.OpNotMatches, Value: "Sm%"},
			wantSQL:  `NAME NOT LIKE ?`,
			wantArgs: []any{"Sm%"},
		},
		{
			name:     "in",
			def:      filterql.Filter{Ref: "NAME", Op: schema.OpIn, Value: []any{"a", "b", "c"}},
			wantSQL:  `NAME IN (?, ?, ?)`,
			wantArgs: []any{"a", "b", "c"},
		},
		{
			name:     "not in typed slice",
			def:      filterql.Filter{Ref: "AGE", Op: schema.OpNotIn, Value: []int{1, 2}},
			wantSQL:  `AGE NOT IN (?, ?)`,
			wantArgs: []any{1, 2},
		},
		{
			name:     "is null",
			def:      filterql.Filter{Ref: "NAME", Op: schema.OpIsNull},
			wantSQL:  `NAME IS NULL`,
			wantArgs: nil,
		},
		{
			name:     "is not null",
			def:      filterql.Filter{Ref: "NAME", Op: schema.OpNotNull},
			wantSQL:  `NAME IS NOT NULL`,
			wantArgs: nil,
		},
		{
			name:     "between",
			def:      filterql.Filter{Ref: "AGE", Op: schema.OpRange, Value: []any{18, 65}},
			wantSQL:  `AGE BETWEEN ? AND ?`,
			wantArgs: []any{18, 65},
		},
		{
			name:     "not between",
			def:      filterql.Filter{Ref: "AGE", Op: schema.OpNotRange, Value: []any{18, 65}},
			wantSQL:  `AGE NOT BETWEEN ? AND ?`,
			wantArgs: []any{18, 65},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs := render(t, Options{}, tt.def)
			if gotSQL != tt.wantSQL {
				t.Errorf("SQL = %q, want %q", gotSQL, tt.wantSQL)
			}
			if len(gotArgs) != len(tt.wantArgs) || (len(gotArgs) > 0 && !reflect.DeepEqual(gotArgs, tt.wantArgs)) {
				t.Errorf("args = %v, want %v", gotArgs, tt.wantArgs)
			}
		})
	}
}

func TestFactoryValidates(t *testing.T) {
	factory := NewFactory(testSchema(t), Options{})

	_, err := factory(filterql.Filter{Ref: "NAME", Op: schema.OpGT, Value: "x"})
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("factory = %v, want ValidationError", err)
	}

	_, err = factory(filterql.Filter{Ref: "SALARY", Op: schema.OpEQ, Value: 1})
	var uerr *schema.UnknownPropertyError
	if !errors.As(err, &uerr) {
		t.Fatalf("factory = %v, want UnknownPropertyError", err)
	}
}

func TestColumnResolution(t *testing.T) {
	opts := Options{
		ColumnMapping:     map[string]string{"NAME": "last_name"},
		ColumnExpressions: map[string]string{"AGE": "date_part('year', age(birth_date))"},
	}

	sql, _ := render(t, opts, filterql.Filter{Ref: "NAME", Op: schema.OpEQ, Value: "x"})
	if sql != "last_name = ?" {
		t.Errorf("mapped column SQL = %q", sql)
	}

	sql, _ = render(t, opts, filterql.Filter{Ref: "AGE", Op: schema.OpGT, Value: 18})
	if sql != "date_part('year', age(birth_date)) > ?" {
		t.Errorf("expression column SQL = %q", sql)
	}

	// Mapped column names that are reserved words get quoted.
	sql, _ = render(t, Options{ColumnMapping: map[string]string{"CREATED": "timestamp"}},
		filterql.Filter{Ref: "CREATED", Op: schema.OpLT, Value: time.Now()})
	if sql != `"timestamp" < ?` {
		t.Errorf("reserved word SQL = %q", sql)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "name"},
		{"last_name", "last_name"},
		{"_hidden", "_hidden"},
		{"col2", "col2"},
		{"NAME", "NAME"},
		{"select", `"select"`},
		{"TIMESTAMP", `"TIMESTAMP"`},
		{"first name", `"first name"`},
		{`we"ird`, `"we""ird"`},
		{"2fast", `"2fast"`},
		{"", `""`},
	}

	for _, tt := range tests {
		if got := quoteIdentifier(tt.in); got != tt.want {
			t.Errorf("quoteIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGeometryPlaceholder(t *testing.T) {
	pt := orb.Point{2.35, 48.85}
	sql, args := render(t, Options{}, filterql.Filter{Ref: "LOCATION", Op: schema.OpEQ, Value: pt})
	if sql != `LOCATION = ST_GeomFromText(?)` {
		t.Errorf("geometry SQL = %q", sql)
	}
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}
	if _, ok := args[0].(string); !ok {
		t.Errorf("expected WKT string arg, got %T", args[0])
	}
}

func TestCombinators(t *testing.T) {
	factory := NewFactory(testSchema(t), Options{})
	c1, err := factory(filterql.Filter{Ref: "NAME", Op: schema.OpMatches, Value: "Sm%"})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	c2, err := factory(filterql.Filter{Ref: "AGE", Op: schema.OpGTE, Value: 18})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	combined := c1.And(c2).Or(c1.Not())
	sql, args := combined.(*Condition).SQL()
	want := `((NAME LIKE ? AND AGE >= ?) OR (NOT NAME LIKE ?))`
	if sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"Sm%", 18, "Sm%"}) {
		t.Errorf("args = %v", args)
	}
}

func TestPostgresPlaceholders(t *testing.T) {
	factory := NewFactory(testSchema(t), Options{Dialect: DialectPostgres})
	c1, err := factory(filterql.Filter{Ref: "NAME", Op: schema.OpIn, Value: []any{"a", "b"}})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	c2, err := factory(filterql.Filter{Ref: "AGE", Op: schema.OpRange, Value: []any{18, 65}})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	sql, args := c1.And(c2).(*Condition).SQL()
	want := `(NAME IN ($1, $2) AND AGE BETWEEN $3 AND $4)`
	if sql != want {
		t.Errorf("SQL = %q, want %q", sql, want)
	}
	if len(args) != 4 {
		t.Errorf("expected 4 args, got %d", len(args))
	}
}

func TestCrossDialectPanics(t *testing.T) {
	duck := NewFactory(testSchema(t), Options{Dialect: DialectDuckDB})
	pg := NewFactory(testSchema(t), Options{Dialect: DialectPostgres})

	c1, _ := duck(filterql.Filter{Ref: "NAME", Op: schema.OpEQ, Value: "x"})
	c2, _ := pg(filterql.Filter{Ref: "NAME", Op: schema.OpEQ, Value: "x"})

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic combining different dialects")
		}
	}()
	c1.And(c2)
}
