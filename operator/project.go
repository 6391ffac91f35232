package operator

import (
	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vector"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// ProjectColumn is one output column of a Project operator: an
// expression to evaluate and the name it is given in the output schema.
type ProjectColumn struct {
	Expr ast.Node
	Name string
}

// Project evaluates a fixed list of expressions against every input
// batch. When KeepInput is set (the planner's pre-aggregation rewrite),
// the parent batch's own columns are appended after the projected ones,
// so a downstream Aggregate can still reach raw input columns alongside
// the freshly materialized aggregate-argument columns.
type Project struct {
	parent    Operator
	columns   []ProjectColumn
	keepInput bool
	schema    column.Schema
}

func NewProject(parent Operator, columns []ProjectColumn, keepInput bool) *Project {
	fields := make([]column.Field, 0, len(columns))
	for _, c := range columns {
		fields = append(fields, column.Field{Name: c.Name})
	}
	schema := column.NewSchema(fields...)
	if keepInput {
		parentSchema := parent.Schema()
		seen := map[string]bool{}
		for _, f := range schema.Fields {
			seen[f.Name] = true
		}
		for _, f := range parentSchema.Fields {
			if !seen[f.Name] {
				schema.Fields = append(schema.Fields, f)
				seen[f.Name] = true
			}
		}
	}
	return &Project{parent: parent, columns: columns, keepInput: keepInput, schema: schema}
}

func (p *Project) Schema() column.Schema { return p.schema }

func (p *Project) Next() (*column.Batch, error) {
	batch, err := p.parent.Next()
	if err != nil {
		return nil, err
	}
	cache := vector.Cache{}
	outCols := make([]column.Column, 0, len(p.columns))
	n := batch.NumRows()
	for _, c := range p.columns {
		col, err := vector.Evaluate(c.Expr, *batch, cache)
		if err != nil {
			return nil, err
		}
		if col.Len() == 1 && n != 1 {
			col = col.Repeat(n)
		}
		if col.Len() != n {
			return nil, vnerrors.NewOperatorError(
				"Select expressions have unequal sizes: column %q has %d rows, expected %d", c.Name, col.Len(), n)
		}
		outCols = append(outCols, col)
	}
	if p.keepInput {
		seen := map[string]bool{}
		for _, c := range p.columns {
			seen[c.Name] = true
		}
		for i, f := range batch.Schema.Fields {
			if !seen[f.Name] {
				outCols = append(outCols, batch.Columns[i])
				seen[f.Name] = true
			}
		}
	}
	out, err := column.NewBatch(p.schema, outCols)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Project) Close() error { return p.parent.Close() }
