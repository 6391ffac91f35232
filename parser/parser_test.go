package parser

import (
	"testing"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsNonSelect(t *testing.T) {
	_, err := Parse("DELETE FROM t")
	assert.Error(t, err)
}

func TestParseSimpleSelectCapturesSourceAndColumns(t *testing.T) {
	q, err := Parse("SELECT a, b FROM t")
	require.NoError(t, err)
	assert.Equal(t, "t", q.Source)
	require.Len(t, q.Select, 2)
	assert.Equal(t, "a", q.Select[0].(*ast.ColumnRef).Name)
	assert.Equal(t, "b", q.Select[1].(*ast.ColumnRef).Name)
}

func TestParseStarSentinel(t *testing.T) {
	q, err := Parse("SELECT * FROM t")
	require.NoError(t, err)
	require.Len(t, q.Select, 1)
	assert.Equal(t, "*", q.Select[0].(*ast.ColumnRef).Name)
}

func TestParseDistinct(t *testing.T) {
	q, err := Parse("SELECT DISTINCT a FROM t")
	require.NoError(t, err)
	assert.True(t, q.Distinct)
}

func TestParseAliasOnSelectExpr(t *testing.T) {
	q, err := Parse("SELECT a AS foo FROM t")
	require.NoError(t, err)
	assert.Equal(t, "foo", q.Select[0].Alias())
}

func TestParseWhereComparison(t *testing.T) {
	q, err := Parse("SELECT a FROM t WHERE a > 5")
	require.NoError(t, err)
	require.NotNil(t, q.Where)
	e := q.Where.(*ast.Expression)
	assert.Equal(t, ast.OpGt, e.Op)
}

func TestParseWhereEqualNullBecomesIsNull(t *testing.T) {
	q, err := Parse("SELECT a FROM t WHERE a = NULL")
	require.NoError(t, err)
	e := q.Where.(*ast.Expression)
	assert.Equal(t, ast.OpIsNull, e.Op)
}

func TestParseWhereNotEqualNullBecomesIsNotNull(t *testing.T) {
	q, err := Parse("SELECT a FROM t WHERE a != NULL")
	require.NoError(t, err)
	e := q.Where.(*ast.Expression)
	assert.Equal(t, ast.OpIsNotNull, e.Op)
}

func TestParseInList(t *testing.T) {
	q, err := Parse("SELECT a FROM t WHERE a IN (1, 2, 3)")
	require.NoError(t, err)
	e := q.Where.(*ast.Expression)
	assert.Equal(t, ast.OpIn, e.Op)
	assert.Len(t, e.Args, 4)
}

func TestParseBetween(t *testing.T) {
	q, err := Parse("SELECT a FROM t WHERE a BETWEEN 1 AND 10")
	require.NoError(t, err)
	e := q.Where.(*ast.Expression)
	assert.Equal(t, ast.OpBetween, e.Op)
}

func TestParseLike(t *testing.T) {
	q, err := Parse("SELECT a FROM t WHERE a LIKE 'h%'")
	require.NoError(t, err)
	e := q.Where.(*ast.Expression)
	assert.Equal(t, ast.OpLike, e.Op)
}

func TestParseAndOrNot(t *testing.T) {
	q, err := Parse("SELECT a FROM t WHERE NOT (a > 1 AND a < 10) OR a = 5")
	require.NoError(t, err)
	e := q.Where.(*ast.Expression)
	assert.Equal(t, ast.OpOr, e.Op)
}

func TestParseArithmetic(t *testing.T) {
	q, err := Parse("SELECT a + b * 2 FROM t")
	require.NoError(t, err)
	e := q.Select[0].(*ast.Expression)
	assert.Equal(t, ast.OpAdd, e.Op)
	right := e.Args[1].(*ast.Expression)
	assert.Equal(t, ast.OpMul, right.Op)
}

func TestParseUnaryMinus(t *testing.T) {
	q, err := Parse("SELECT -a FROM t")
	require.NoError(t, err)
	e := q.Select[0].(*ast.Expression)
	assert.Equal(t, ast.OpNeg, e.Op)
}

func TestParseCountStar(t *testing.T) {
	q, err := Parse("SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	e := q.Select[0].(*ast.Expression)
	assert.Equal(t, "count_star", e.FunctionName)
	assert.Empty(t, e.Args)
}

func TestParseFunctionCallWithArgs(t *testing.T) {
	q, err := Parse("SELECT sum(a) FROM t")
	require.NoError(t, err)
	e := q.Select[0].(*ast.Expression)
	assert.Equal(t, "sum", e.FunctionName)
	require.Len(t, e.Args, 1)
}

func TestParseGroupByHavingOrderBy(t *testing.T) {
	q, err := Parse("SELECT a, sum(b) FROM t GROUP BY a HAVING sum(b) > 10 ORDER BY a DESC")
	require.NoError(t, err)
	require.Len(t, q.GroupBy, 1)
	require.NotNil(t, q.Having)
	require.Len(t, q.OrderBy, 1)
	require.Len(t, q.SortOrder, 1)
	assert.Equal(t, ast.Desc, q.SortOrder[0])
}

func TestParseOrderByDefaultsAscending(t *testing.T) {
	q, err := Parse("SELECT a FROM t ORDER BY a")
	require.NoError(t, err)
	require.Len(t, q.SortOrder, 1)
	assert.Equal(t, ast.Asc, q.SortOrder[0])
}

func TestParseLimitOffset(t *testing.T) {
	q, err := Parse("SELECT a FROM t LIMIT 10 OFFSET 5")
	require.NoError(t, err)
	assert.True(t, q.HasLimit)
	assert.Equal(t, int64(10), q.Limit)
	assert.True(t, q.HasOffset)
	assert.Equal(t, int64(5), q.Offset)
}

func TestParseStringAndFloatLiterals(t *testing.T) {
	q, err := Parse("SELECT 'hi', 3.5 FROM t")
	require.NoError(t, err)
	assert.Equal(t, "hi", q.Select[0].(*ast.Literal).Value)
	assert.Equal(t, 3.5, q.Select[1].(*ast.Literal).Value)
}

func TestParseRejectsSubquery(t *testing.T) {
	_, err := Parse("SELECT a FROM t WHERE a IN (SELECT b FROM u)")
	assert.Error(t, err)
}

func TestParseInvalidSQLErrors(t *testing.T) {
	_, err := Parse("SELEKT a FROM t")
	assert.Error(t, err)
}
