package table

import (
	"testing"

	"github.com/dmitrykoval/govinum/column"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() (Table, error) {
	schema := column.NewSchema(
		column.Field{Name: "name", Type: column.String},
		column.Field{Name: "age", Type: column.Int64},
	)
	return FromColumns(schema, []column.Column{
		column.NewStringColumn([]string{"alice", "bob", "carol"}, nil),
		column.NewInt64Column([]int64{30, 25, 40}, nil),
	})
}

func TestFromColumnsBuildsSingleBatchTable(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"name", "age"}, tbl.Schema().Names())
}

func TestFromColumnsRejectsMismatchedLengths(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "a", Type: column.Int64}, column.Field{Name: "b", Type: column.Int64})
	_, err := FromColumns(schema, []column.Column{
		column.NewInt64Column([]int64{1, 2}, nil),
		column.NewInt64Column([]int64{1}, nil),
	})
	assert.Error(t, err)
}

func TestSQLRunsEndToEndQuery(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	out, err := tbl.SQL("SELECT name FROM people WHERE age > 28 ORDER BY age DESC")
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())
	col, ok := out.Batches()[0].Column("name")
	require.True(t, ok)
	assert.Equal(t, column.StringValue("carol"), col.Get(0))
	assert.Equal(t, column.StringValue("alice"), col.Get(1))
}

func TestSQLAggregateQuery(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	out, err := tbl.SQL("SELECT count(*) AS n FROM people")
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())
	col, _ := out.Batches()[0].Column("n")
	assert.Equal(t, column.IntValue(3), col.Get(0))
}

func TestSQLPropagatesParseError(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	_, err = tbl.SQL("NOT VALID SQL")
	assert.Error(t, err)
}

func TestSQLPropagatesBindError(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	_, err = tbl.SQL("SELECT missing_column FROM people")
	assert.Error(t, err)
}

func TestHeadTruncatesRows(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	head := tbl.Head(2)
	assert.Equal(t, 2, head.NumRows())
}

func TestParsePassthrough(t *testing.T) {
	q, err := Parse("SELECT a FROM t")
	require.NoError(t, err)
	assert.Equal(t, "t", q.Source)
}

func TestFromBatchesBuildsMultiBatchTable(t *testing.T) {
	schema := column.NewSchema(column.Field{Name: "a", Type: column.Int64})
	b1 := column.MustNewBatch(schema, []column.Column{column.NewInt64Column([]int64{1, 2}, nil)})
	b2 := column.MustNewBatch(schema, []column.Column{column.NewInt64Column([]int64{3}, nil)})
	tbl := FromBatches(schema, []column.Batch{b1, b2})
	assert.Equal(t, 3, tbl.NumRows())
	assert.Len(t, tbl.Batches(), 2)
}

func TestFromDictBuildsTableWithInferredTypes(t *testing.T) {
	tbl, err := FromDict(map[string][]column.Value{
		"name": {column.StringValue("alice"), column.StringValue("bob")},
		"age":  {column.IntValue(30), column.IntValue(25)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []string{"age", "name"}, tbl.Schema().Names())

	col, ok := tbl.Batches()[0].Column("age")
	require.True(t, ok)
	assert.Equal(t, column.Int64, col.Type)
	assert.Equal(t, column.IntValue(30), col.Get(0))
}

func TestFromDictRejectsMismatchedLengths(t *testing.T) {
	_, err := FromDict(map[string][]column.Value{
		"a": {column.IntValue(1), column.IntValue(2)},
		"b": {column.IntValue(1)},
	})
	assert.Error(t, err)
}

func TestFromDictOfEmptyMapHasZeroRows(t *testing.T) {
	tbl, err := FromDict(map[string][]column.Value{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
}

func TestExplainRendersOperatorPlan(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	plan, err := tbl.Explain("SELECT name FROM people WHERE age > 28 ORDER BY age DESC", false)
	require.NoError(t, err)
	assert.Contains(t, plan, "Plan:")
	assert.Contains(t, plan, "Project")
	assert.Contains(t, plan, "Filter")
	assert.Contains(t, plan, "Sort")
	assert.NotContains(t, plan, "AST:")
}

func TestExplainWithASTAppendsBoundQueryNodes(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	plan, err := tbl.Explain("SELECT name FROM people WHERE age > 28", true)
	require.NoError(t, err)
	assert.Contains(t, plan, "AST:")
	assert.Contains(t, plan, "where:")
}

func TestExplainPropagatesBindError(t *testing.T) {
	tbl, err := sampleTable()
	require.NoError(t, err)
	_, err = tbl.Explain("SELECT missing_column FROM people", false)
	assert.Error(t, err)
}
