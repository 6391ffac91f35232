package planner

import (
	"io"
	"testing"

	"github.com/dmitrykoval/govinum/binder"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/operator"
	"github.com/dmitrykoval/govinum/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kvSchema() column.Schema {
	return column.NewSchema(
		column.Field{Name: "k", Type: column.Int64},
		column.Field{Name: "v", Type: column.Int64},
	)
}

func kvSource() operator.Operator {
	batch := column.MustNewBatch(kvSchema(), []column.Column{
		column.NewInt64Column([]int64{1, 1, 2, 2}, nil),
		column.NewInt64Column([]int64{10, 20, 30, 40}, nil),
	})
	return operator.NewTableSource(column.NewTable(kvSchema(), []column.Batch{batch}))
}

func planQuery(t *testing.T, sql string) operator.Operator {
	t.Helper()
	parsed, err := parser.Parse(sql)
	require.NoError(t, err)
	require.NoError(t, binder.Bind(parsed, kvSchema()))
	op, err := Plan(parsed, kvSource())
	require.NoError(t, err)
	return op
}

func drainOp(t *testing.T, op operator.Operator) column.Table {
	t.Helper()
	tbl, err := operator.Materialize(op)
	require.NoError(t, err)
	return tbl
}

func TestPlanSimpleProjection(t *testing.T) {
	op := planQuery(t, "SELECT k FROM t")
	tbl := drainOp(t, op)
	assert.Equal(t, 4, tbl.NumRows())
	assert.Equal(t, []string{"k"}, tbl.Schema.Names())
}

func TestPlanWhereFiltersRows(t *testing.T) {
	op := planQuery(t, "SELECT k FROM t WHERE v > 20")
	tbl := drainOp(t, op)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestPlanAggregateNoGroupBy(t *testing.T) {
	op := planQuery(t, "SELECT sum(v) AS total FROM t")
	tbl := drainOp(t, op)
	require.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, []string{"total"}, tbl.Schema.Names())
	col, _ := tbl.Batches[0].Column("total")
	assert.Equal(t, column.IntValue(100), col.Get(0))
}

func TestPlanAggregateWithGroupBy(t *testing.T) {
	op := planQuery(t, "SELECT k, sum(v) AS total FROM t GROUP BY k")
	tbl := drainOp(t, op)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestPlanHavingFiltersGroups(t *testing.T) {
	op := planQuery(t, "SELECT k, sum(v) AS total FROM t GROUP BY k HAVING sum(v) > 35")
	tbl := drainOp(t, op)
	require.Equal(t, 1, tbl.NumRows())
	col, _ := tbl.Batches[0].Column("k")
	assert.Equal(t, column.IntValue(2), col.Get(0))
}

func TestPlanOrderByAndLimit(t *testing.T) {
	op := planQuery(t, "SELECT k, v FROM t ORDER BY v DESC LIMIT 1")
	tbl := drainOp(t, op)
	require.Equal(t, 1, tbl.NumRows())
	col, _ := tbl.Batches[0].Column("v")
	assert.Equal(t, column.IntValue(40), col.Get(0))
}

func TestPlanLiteralOnlyQueryUsesOneRowSource(t *testing.T) {
	op := planQuery(t, "SELECT 1 AS one FROM t")
	tbl := drainOp(t, op)
	assert.Equal(t, 1, tbl.NumRows())
}

func TestPlanCountStarWithoutGroupByFiresOnce(t *testing.T) {
	op := planQuery(t, "SELECT count(*) AS n FROM t")
	tbl := drainOp(t, op)
	require.Equal(t, 1, tbl.NumRows())
	col, _ := tbl.Batches[0].Column("n")
	assert.Equal(t, column.IntValue(4), col.Get(0))
}

func TestPlanDuplicateOutputNamesAreDeduped(t *testing.T) {
	op := planQuery(t, "SELECT k, k FROM t LIMIT 1")
	tbl := drainOp(t, op)
	assert.Equal(t, []string{"k", "k_1"}, tbl.Schema.Names())
}

func TestPlanExhaustsWithEOF(t *testing.T) {
	op := planQuery(t, "SELECT k FROM t LIMIT 1")
	_, err := operator.Materialize(op)
	require.NoError(t, err)
	_, err = op.Next()
	assert.Equal(t, io.EOF, err)
}
