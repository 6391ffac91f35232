package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt64ColumnGetAndValidity(t *testing.T) {
	col := NewInt64Column([]int64{1, 2, 3}, []bool{true, false, true})
	assert.Equal(t, 3, col.Len())
	assert.True(t, col.IsValid(0))
	assert.False(t, col.IsValid(1))
	assert.Equal(t, IntValue(1), col.Get(0))
	assert.Equal(t, NullValue(), col.Get(1))
}

func TestAllValidBitmapIsFreeOfAllocation(t *testing.T) {
	col := NewInt64Column([]int64{1, 2, 3}, nil)
	for i := 0; i < 3; i++ {
		assert.True(t, col.IsValid(i))
	}
	assert.Nil(t, col.Valid.words)
}

func TestColumnSliceIsAView(t *testing.T) {
	col := NewInt64Column([]int64{10, 20, 30, 40}, nil)
	sub := col.Slice(1, 2)
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, IntValue(20), sub.Get(0))
	assert.Equal(t, IntValue(30), sub.Get(1))
}

func TestColumnTakeGathersByIndex(t *testing.T) {
	col := NewStringColumn([]string{"a", "b", "c"}, nil)
	out := col.Take([]int{2, 0})
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, StringValue("c"), out.Get(0))
	assert.Equal(t, StringValue("a"), out.Get(1))
}

func TestFilterMaskKeepsOnlyTrueRows(t *testing.T) {
	col := NewInt64Column([]int64{1, 2, 3, 4}, nil)
	out := col.FilterMask([]bool{true, false, true, false})
	require.Equal(t, 2, out.Len())
	assert.Equal(t, IntValue(1), out.Get(0))
	assert.Equal(t, IntValue(3), out.Get(1))
}

func TestRepeatBroadcastsSingleRow(t *testing.T) {
	col := NewInt64Column([]int64{7}, nil)
	out := col.Repeat(4)
	assert.Equal(t, 4, out.Len())
	for i := 0; i < 4; i++ {
		assert.Equal(t, IntValue(7), out.Get(i))
	}
}

func TestRepeatIsNoopWhenAlreadyThatLength(t *testing.T) {
	col := NewInt64Column([]int64{1, 2}, nil)
	out := col.Repeat(2)
	assert.Equal(t, 2, out.Len())
}

func TestAppendConcatenatesPreservingNulls(t *testing.T) {
	a := NewInt64Column([]int64{1, 2}, nil)
	b := NewInt64Column([]int64{3, 4}, []bool{true, false})
	out := Append(a, b)
	require.Equal(t, 4, out.Len())
	assert.True(t, out.IsValid(0))
	assert.True(t, out.IsValid(2))
	assert.False(t, out.IsValid(3))
	assert.Equal(t, IntValue(3), out.Get(2))
}

func TestValueAsFloat64(t *testing.T) {
	v, ok := IntValue(5).AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)

	_, ok = StringValue("x").AsFloat64()
	assert.False(t, ok)

	_, ok = NullValue().AsFloat64()
	assert.False(t, ok)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "NULL", NullValue().String())
	assert.Equal(t, "5", IntValue(5).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "hi", StringValue("hi").String())
}

func TestSchemaEmptyNamesBecomeUnnamed(t *testing.T) {
	s := NewSchema(Field{Name: "a", Type: Int64}, Field{Name: "", Type: String}, Field{Name: "", Type: Bool})
	assert.Equal(t, []string{"a", "unnamed_0", "unnamed_1"}, s.Names())
}

func TestSchemaFieldIndexAndHasField(t *testing.T) {
	s := NewSchema(Field{Name: "a", Type: Int64}, Field{Name: "b", Type: String})
	assert.Equal(t, 1, s.FieldIndex("b"))
	assert.Equal(t, -1, s.FieldIndex("z"))
	assert.True(t, s.HasField("a"))
	assert.False(t, s.HasField("z"))
}

func TestSchemaSelectPreservesRequestedOrder(t *testing.T) {
	s := NewSchema(Field{Name: "a", Type: Int64}, Field{Name: "b", Type: String}, Field{Name: "c", Type: Bool})
	sub := s.Select([]string{"c", "a"})
	assert.Equal(t, []string{"c", "a"}, sub.Names())
}

func TestNewBatchRejectsMismatchedColumnCount(t *testing.T) {
	schema := NewSchema(Field{Name: "a", Type: Int64})
	_, err := NewBatch(schema, []Column{NewInt64Column([]int64{1}, nil), NewInt64Column([]int64{2}, nil)})
	assert.Error(t, err)
}

func TestNewBatchRejectsUnequalColumnLengths(t *testing.T) {
	schema := NewSchema(Field{Name: "a", Type: Int64}, Field{Name: "b", Type: Int64})
	_, err := NewBatch(schema, []Column{
		NewInt64Column([]int64{1, 2}, nil),
		NewInt64Column([]int64{1}, nil),
	})
	assert.Error(t, err)
}

func TestBatchNumRowsAndColumnLookup(t *testing.T) {
	schema := NewSchema(Field{Name: "a", Type: Int64})
	b := MustNewBatch(schema, []Column{NewInt64Column([]int64{1, 2, 3}, nil)})
	assert.Equal(t, 3, b.NumRows())
	col, ok := b.Column("a")
	require.True(t, ok)
	assert.Equal(t, 3, col.Len())
	_, ok = b.Column("missing")
	assert.False(t, ok)
}

func TestTableHeadTruncatesAcrossBatchBoundary(t *testing.T) {
	schema := NewSchema(Field{Name: "a", Type: Int64})
	b1 := MustNewBatch(schema, []Column{NewInt64Column([]int64{1, 2, 3}, nil)})
	b2 := MustNewBatch(schema, []Column{NewInt64Column([]int64{4, 5, 6}, nil)})
	tbl := NewTable(schema, []Batch{b1, b2})

	head := tbl.Head(4)
	assert.Equal(t, 4, head.NumRows())
	assert.Len(t, head.Batches, 2)
	assert.Equal(t, 1, head.Batches[1].NumRows())
}

func TestTableNumRowsSumsBatches(t *testing.T) {
	schema := NewSchema(Field{Name: "a", Type: Int64})
	b1 := MustNewBatch(schema, []Column{NewInt64Column([]int64{1, 2}, nil)})
	b2 := MustNewBatch(schema, []Column{NewInt64Column([]int64{3}, nil)})
	tbl := NewTable(schema, []Batch{b1, b2})
	assert.Equal(t, 3, tbl.NumRows())
}

func TestBatchSizeKnobDefaultsAndCanBeSet(t *testing.T) {
	orig := BatchSize()
	defer SetBatchSize(orig)

	assert.Equal(t, DefaultBatchSize, BatchSize())
	SetBatchSize(500)
	assert.Equal(t, 500, BatchSize())
	SetBatchSize(0) // ignored: must stay positive
	assert.Equal(t, 500, BatchSize())
}
