package binder

import (
	"testing"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaAB() column.Schema {
	return column.NewSchema(
		column.Field{Name: "a", Type: column.Int64},
		column.Field{Name: "b", Type: column.Int64},
	)
}

func TestBindExpandsStar(t *testing.T) {
	q := &ast.Query{Select: []ast.Node{ast.NewColumnRef("*")}}
	require.NoError(t, Bind(q, schemaAB()))
	require.Len(t, q.Select, 2)
	assert.Equal(t, "a", q.Select[0].(*ast.ColumnRef).Name)
	assert.Equal(t, "b", q.Select[1].(*ast.ColumnRef).Name)
}

func TestBindRejectsUnknownColumn(t *testing.T) {
	q := &ast.Query{Select: []ast.Node{ast.NewColumnRef("z")}}
	err := Bind(q, schemaAB())
	assert.Error(t, err)
}

func TestBindSubstitutesSelectAliasIntoWhere(t *testing.T) {
	aliased := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("a"), ast.NewLiteral(int64(1)))
	aliased.SetAlias("total")
	q := &ast.Query{
		Select: []ast.Node{aliased},
		Where:  ast.NewExpression(ast.OpGt, ast.NewColumnRef("total"), ast.NewLiteral(int64(5))),
	}
	require.NoError(t, Bind(q, schemaAB()))
	whereExpr := q.Where.(*ast.Expression)
	left := whereExpr.Args[0].(*ast.Expression)
	assert.Equal(t, ast.OpAdd, left.Op)
}

func TestBindAliasSubstitutionDoesNotMutateSelectEntry(t *testing.T) {
	aliased := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("a"), ast.NewLiteral(int64(1)))
	aliased.SetAlias("total")
	q := &ast.Query{
		Select: []ast.Node{aliased},
		Where:  ast.NewExpression(ast.OpGt, ast.NewColumnRef("total"), ast.NewLiteral(int64(5))),
	}
	require.NoError(t, Bind(q, schemaAB()))
	whereLeft := q.Where.(*ast.Expression).Args[0].(*ast.Expression)
	whereLeft.SetSharedID("mutated")
	assert.NotEqual(t, "mutated", aliased.SharedID())
}

func TestBindSetsIsAggregateForAggregateFunction(t *testing.T) {
	q := &ast.Query{Select: []ast.Node{ast.NewFunctionCall("sum", ast.NewColumnRef("a"))}}
	require.NoError(t, Bind(q, schemaAB()))
	assert.True(t, q.IsAggregate)
}

func TestBindSetsIsAggregateForDistinct(t *testing.T) {
	q := &ast.Query{Select: []ast.Node{ast.NewColumnRef("a")}, Distinct: true}
	require.NoError(t, Bind(q, schemaAB()))
	assert.True(t, q.IsAggregate)
}

func TestBindRejectsNonGroupedColumnInSelect(t *testing.T) {
	q := &ast.Query{
		Select:  []ast.Node{ast.NewColumnRef("a"), ast.NewColumnRef("b")},
		GroupBy: []ast.Node{ast.NewColumnRef("a")},
	}
	err := Bind(q, schemaAB())
	assert.Error(t, err)
}

func TestBindAllowsGroupedColumnAndAggregateTogether(t *testing.T) {
	q := &ast.Query{
		Select:  []ast.Node{ast.NewColumnRef("a"), ast.NewFunctionCall("sum", ast.NewColumnRef("b"))},
		GroupBy: []ast.Node{ast.NewColumnRef("a")},
	}
	assert.NoError(t, Bind(q, schemaAB()))
}

func TestBindRejectsLiteralInGroupBy(t *testing.T) {
	q := &ast.Query{
		Select:  []ast.Node{ast.NewFunctionCall("sum", ast.NewColumnRef("a"))},
		GroupBy: []ast.Node{ast.NewLiteral(int64(1))},
	}
	err := Bind(q, schemaAB())
	assert.Error(t, err)
}

func TestBindRejectsHavingNotReferencingGroupByOrAggregate(t *testing.T) {
	q := &ast.Query{
		Select:  []ast.Node{ast.NewColumnRef("a"), ast.NewFunctionCall("sum", ast.NewColumnRef("b"))},
		GroupBy: []ast.Node{ast.NewColumnRef("a")},
		Having:  ast.NewExpression(ast.OpGt, ast.NewColumnRef("b"), ast.NewLiteral(int64(1))),
	}
	err := Bind(q, schemaAB())
	assert.Error(t, err)
}

func TestBindAllowsHavingOnAggregate(t *testing.T) {
	sum := ast.NewFunctionCall("sum", ast.NewColumnRef("b"))
	q := &ast.Query{
		Select:  []ast.Node{ast.NewColumnRef("a"), sum},
		GroupBy: []ast.Node{ast.NewColumnRef("a")},
		Having:  ast.NewExpression(ast.OpGt, ast.NewFunctionCall("sum", ast.NewColumnRef("b")), ast.NewLiteral(int64(1))),
	}
	assert.NoError(t, Bind(q, schemaAB()))
}

func TestMarkSharedExpressionsStampsStructurallyEqualNodes(t *testing.T) {
	e1 := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("a"), ast.NewLiteral(int64(1)))
	e2 := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("a"), ast.NewLiteral(int64(1)))
	q := &ast.Query{Select: []ast.Node{e1, e2}}
	require.NoError(t, Bind(q, schemaAB()))
	require.True(t, e1.IsShared())
	require.True(t, e2.IsShared())
	assert.Equal(t, e1.SharedID(), e2.SharedID())
}

func TestMarkSharedExpressionsLeavesDistinctExpressionsUnshared(t *testing.T) {
	e1 := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("a"), ast.NewLiteral(int64(1)))
	e2 := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("b"), ast.NewLiteral(int64(1)))
	q := &ast.Query{Select: []ast.Node{e1, e2}}
	require.NoError(t, Bind(q, schemaAB()))
	assert.False(t, e1.IsShared())
	assert.False(t, e2.IsShared())
}
