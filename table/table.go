// Package table is the public entry point: build a Table from Go-native
// data or a streaming source, then run SQL SELECT statements against it.
// A Table always operates over itself — the FROM clause's table name is
// parsed but not otherwise significant, matching the single-table model
// the rest of the engine assumes.
package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/binder"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/operator"
	"github.com/dmitrykoval/govinum/parser"
	"github.com/dmitrykoval/govinum/planner"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// Table wraps an in-memory column.Table and exposes the SQL surface.
type Table struct {
	data column.Table
}

// FromBatches builds a Table from already-constructed record batches.
func FromBatches(schema column.Schema, batches []column.Batch) Table {
	return Table{data: column.NewTable(schema, batches)}
}

// FromColumns builds a single-batch Table directly from a schema and a
// matching slice of columns.
func FromColumns(schema column.Schema, columns []column.Column) (Table, error) {
	batch, err := column.NewBatch(schema, columns)
	if err != nil {
		return Table{}, err
	}
	return Table{data: column.NewTable(schema, []column.Batch{batch})}, nil
}

// FromDict builds a single-batch Table from a map of column name to its
// values. Every slice must have the same length. Column names are
// iterated in sorted order so the resulting schema is deterministic
// across calls despite Go's unordered map iteration; each column's type
// is inferred the same way column.FromValues infers it for any other
// value-at-a-time result.
func FromDict(columns map[string][]column.Value) (Table, error) {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	numRows := 0
	if len(names) > 0 {
		numRows = len(columns[names[0]])
	}
	fields := make([]column.Field, len(names))
	cols := make([]column.Column, len(names))
	for i, name := range names {
		vals := columns[name]
		if len(vals) != numRows {
			return Table{}, vnerrors.NewOperatorError(
				"from_dict: column '%s' has %d rows, expected %d", name, len(vals), numRows)
		}
		col := column.FromValues(vals)
		fields[i] = column.Field{Name: name, Type: col.Type, Unit: col.Unit}
		cols[i] = col
	}
	return FromColumns(column.NewSchema(fields...), cols)
}

// FromStream drains reader to completion and builds a Table from the
// resulting batches, so the whole source is held in memory; Table.SQL
// then runs over those buffered batches.
func FromStream(reader operator.StreamReader) (Table, error) {
	src := operator.NewStreamSource(reader)
	t, err := operator.Materialize(src)
	if err != nil {
		return Table{}, err
	}
	return Table{data: t}, nil
}

// Schema returns the table's schema.
func (t Table) Schema() column.Schema { return t.data.Schema }

// NumRows returns the total row count across all batches.
func (t Table) NumRows() int { return t.data.NumRows() }

// Head returns a new Table containing at most the first n rows.
func (t Table) Head(n int) Table { return Table{data: t.data.Head(n)} }

// Batches returns the table's underlying record batches.
func (t Table) Batches() []column.Batch { return t.data.Batches }

// SQL parses, binds, plans and executes a SELECT statement against the
// table's data, returning a new Table holding the result.
func (t Table) SQL(query string) (Table, error) {
	q, err := parser.Parse(query)
	if err != nil {
		return Table{}, err
	}
	if err := binder.Bind(q, t.data.Schema); err != nil {
		return Table{}, err
	}
	source := operator.NewTableSource(t.data)
	op, err := planner.Plan(q, source)
	if err != nil {
		return Table{}, err
	}
	result, err := operator.Materialize(op)
	if err != nil {
		return Table{}, err
	}
	return Table{data: result}, nil
}

// Parse exposes query parsing without binding or execution, useful for
// tooling that wants to inspect a query's shape before running it.
func Parse(query string) (*ast.Query, error) {
	return parser.Parse(query)
}

// Explain parses, binds and plans query against the table's schema
// without executing it, and renders the resulting physical operator
// pipeline as text, one operator per line, most-recently-applied stage
// first. When withAST is set, the bound query's SELECT list, WHERE/
// HAVING predicates and GROUP BY/ORDER BY expressions are appended
// underneath, one node per line.
func (t Table) Explain(query string, withAST bool) (string, error) {
	q, err := parser.Parse(query)
	if err != nil {
		return "", err
	}
	if err := binder.Bind(q, t.data.Schema); err != nil {
		return "", err
	}
	source := operator.NewTableSource(t.data)
	op, err := planner.Plan(q, source)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Plan:\n")
	b.WriteString(operator.Explain(op))

	if withAST {
		b.WriteString("\nAST:\n")
		for i, n := range q.Select {
			fmt.Fprintf(&b, "  select[%d]: %s\n", i, n.String())
		}
		if q.HasWhere() {
			fmt.Fprintf(&b, "  where: %s\n", q.Where.String())
		}
		for i, n := range q.GroupBy {
			fmt.Fprintf(&b, "  group_by[%d]: %s\n", i, n.String())
		}
		if q.HasHaving() {
			fmt.Fprintf(&b, "  having: %s\n", q.Having.String())
		}
		for i, n := range q.OrderBy {
			fmt.Fprintf(&b, "  order_by[%d]: %s\n", i, n.String())
		}
	}
	return b.String(), nil
}
