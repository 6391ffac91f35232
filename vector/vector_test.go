package vector

import (
	"testing"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intBatch(name string, values []int64, valid []bool) column.Batch {
	schema := column.NewSchema(column.Field{Name: name, Type: column.Int64})
	return column.MustNewBatch(schema, []column.Column{column.NewInt64Column(values, valid)})
}

func TestEvaluateLiteral(t *testing.T) {
	b := intBatch("x", []int64{1, 2, 3}, nil)
	col, err := Evaluate(ast.NewLiteral(int64(5)), b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, 1, col.Len())
	assert.Equal(t, column.IntValue(5), col.Get(0))
}

func TestEvaluateColumnRefMissingErrors(t *testing.T) {
	b := intBatch("x", []int64{1}, nil)
	_, err := Evaluate(ast.NewColumnRef("missing"), b, Cache{})
	assert.Error(t, err)
}

func TestEvaluateArithmeticAddBroadcastsLiteral(t *testing.T) {
	b := intBatch("x", []int64{1, 2, 3}, nil)
	expr := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("x"), ast.NewLiteral(int64(10)))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	require.Equal(t, 3, col.Len())
	assert.Equal(t, column.IntValue(11), col.Get(0))
	assert.Equal(t, column.IntValue(13), col.Get(2))
}

func TestEvaluateDivisionByZeroProducesNull(t *testing.T) {
	b := intBatch("x", []int64{10}, nil)
	expr := ast.NewExpression(ast.OpDiv, ast.NewColumnRef("x"), ast.NewLiteral(int64(0)))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	assert.False(t, col.IsValid(0))
}

func TestEvaluateArithmeticFoldsLeftToRight(t *testing.T) {
	b := intBatch("x", []int64{1}, nil)
	// x - 1 - 1 == -1, not x - (1 - 1) == 1
	expr := ast.NewExpression(ast.OpSub, ast.NewColumnRef("x"), ast.NewLiteral(int64(1)), ast.NewLiteral(int64(1)))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, column.IntValue(-1), col.Get(0))
}

func TestEvaluateNullPropagatesThroughArithmetic(t *testing.T) {
	b := intBatch("x", []int64{1, 2}, []bool{true, false})
	expr := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("x"), ast.NewLiteral(int64(1)))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	assert.True(t, col.IsValid(0))
	assert.False(t, col.IsValid(1))
}

func TestEvaluateComparison(t *testing.T) {
	b := intBatch("x", []int64{1, 5, 10}, nil)
	expr := ast.NewExpression(ast.OpGt, ast.NewColumnRef("x"), ast.NewLiteral(int64(4)))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true}, col.Bools)
}

func TestThreeValuedAndWithNull(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "a", Type: column.Bool}, column.Field{Name: "b", Type: column.Bool})
	batch := column.MustNewBatch(schema, []column.Column{
		column.NewBoolColumn([]bool{false, true, true}, nil),
		column.NewBoolColumn([]bool{true, true, false}, []bool{true, false, true}),
	})
	expr := ast.NewExpression(ast.OpAnd, ast.NewColumnRef("a"), ast.NewColumnRef("b"))
	col, err := Evaluate(expr, batch, Cache{})
	require.NoError(t, err)
	// row0: false AND <anything> = false (decided, not null)
	assert.True(t, col.IsValid(0))
	assert.False(t, col.Bools[0])
	// row1: true AND null = null (undecided)
	assert.False(t, col.IsValid(1))
	// row2: true AND false = false
	assert.True(t, col.IsValid(2))
	assert.False(t, col.Bools[2])
}

func TestThreeValuedOrWithNull(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "a", Type: column.Bool}, column.Field{Name: "b", Type: column.Bool})
	batch := column.MustNewBatch(schema, []column.Column{
		column.NewBoolColumn([]bool{true, false, false}, nil),
		column.NewBoolColumn([]bool{false, false, false}, []bool{true, false, true}),
	})
	expr := ast.NewExpression(ast.OpOr, ast.NewColumnRef("a"), ast.NewColumnRef("b"))
	col, err := Evaluate(expr, batch, Cache{})
	require.NoError(t, err)
	// row0: true OR null = true (decided)
	assert.True(t, col.IsValid(0))
	assert.True(t, col.Bools[0])
	// row1: false OR null = null
	assert.False(t, col.IsValid(1))
}

func TestIsNullAndIsNotNull(t *testing.T) {
	b := intBatch("x", []int64{1, 2}, []bool{true, false})
	isNull, err := Evaluate(ast.NewExpression(ast.OpIsNull, ast.NewColumnRef("x")), b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, isNull.Bools)

	isNotNull, err := Evaluate(ast.NewExpression(ast.OpIsNotNull, ast.NewColumnRef("x")), b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, isNotNull.Bools)
}

func TestEvaluateIn(t *testing.T) {
	b := intBatch("x", []int64{1, 2, 3}, nil)
	expr := ast.NewExpression(ast.OpIn, ast.NewColumnRef("x"), ast.NewLiteral(int64(1)), ast.NewLiteral(int64(3)))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, col.Bools)
}

func TestEvaluateBetweenInclusive(t *testing.T) {
	b := intBatch("x", []int64{1, 5, 10}, nil)
	expr := ast.NewExpression(ast.OpBetween, ast.NewColumnRef("x"), ast.NewLiteral(int64(1)), ast.NewLiteral(int64(5)))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, col.Bools)
}

func TestEvaluateLike(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "s", Type: column.String})
	b := column.MustNewBatch(schema, []column.Column{column.NewStringColumn([]string{"hello", "world", "help"}, nil)})
	expr := ast.NewExpression(ast.OpLike, ast.NewColumnRef("s"), ast.NewLiteral("hel%"))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, col.Bools)
}

func TestEvaluateFunctionCall(t *testing.T) {
	b := intBatch("x", []int64{-4}, nil)
	expr := ast.NewFunctionCall("abs", ast.NewColumnRef("x"))
	col, err := Evaluate(expr, b, Cache{})
	require.NoError(t, err)
	assert.Equal(t, column.FloatValue(4), col.Get(0))
}

func TestSharedSubexpressionIsOnlyComputedOnce(t *testing.T) {
	b := intBatch("x", []int64{1, 2, 3}, nil)
	shared := ast.NewExpression(ast.OpAdd, ast.NewColumnRef("x"), ast.NewLiteral(int64(1)))
	shared.SetSharedID("grp_1")

	cache := Cache{}
	first, err := Evaluate(shared, b, cache)
	require.NoError(t, err)
	assert.Contains(t, cache, "grp_1")

	// Mutate the batch's backing array; a second Evaluate call on a node
	// with the same shared id must come from cache, not recompute.
	b.Columns[0].Ints[0] = 999
	second, err := Evaluate(shared, b, cache)
	require.NoError(t, err)
	assert.Equal(t, first.Get(0), second.Get(0))
}

func TestCountStarAggregateRejectedByRowWiseEvaluator(t *testing.T) {
	b := intBatch("x", []int64{1}, nil)
	expr := ast.NewFunctionCall("count_star")
	_, err := Evaluate(expr, b, Cache{})
	assert.Error(t, err, "aggregates must be lowered by the planner before reaching the evaluator")
}
