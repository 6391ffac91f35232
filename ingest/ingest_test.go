package ingest

import (
	"io"
	"strings"
	"testing"

	"github.com/dmitrykoval/govinum/column"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReaderInfersTypesFromFirstRow(t *testing.T) {
	r, err := NewCSVReader(strings.NewReader("name,age,score\nalice,30,9.5\nbob,25,8.1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "score"}, r.Schema().Names())

	batch, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, batch.NumRows())

	age, ok := batch.Column("age")
	require.True(t, ok)
	assert.Equal(t, column.IntValue(30), age.Get(0))

	score, ok := batch.Column("score")
	require.True(t, ok)
	assert.Equal(t, column.FloatValue(9.5), score.Get(0))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCSVReaderEmptyFieldIsNull(t *testing.T) {
	r, err := NewCSVReader(strings.NewReader("a,b\n1,\n2,3\n"))
	require.NoError(t, err)
	batch, err := r.Next()
	require.NoError(t, err)
	b, ok := batch.Column("b")
	require.True(t, ok)
	assert.False(t, b.IsValid(0))
	assert.True(t, b.IsValid(1))
}

func TestCSVReaderAllStringWhenNoDataRows(t *testing.T) {
	r, err := NewCSVReader(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	for _, f := range r.Schema().Fields {
		assert.Equal(t, column.String, f.Type)
	}
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCSVReaderSpansMultipleBatches(t *testing.T) {
	orig := column.BatchSize()
	defer column.SetBatchSize(orig)
	column.SetBatchSize(2)

	r, err := NewCSVReader(strings.NewReader("a\n1\n2\n3\n"))
	require.NoError(t, err)

	b1, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, b1.NumRows())

	b2, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, b2.NumRows())

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNDJSONReaderInfersSchemaAndWidensNumericTypes(t *testing.T) {
	data := `{"a": 1, "b": "x"}
{"a": 2.5, "b": "y"}
`
	r := NewNDJSONReader(strings.NewReader(data))
	batch, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, batch.NumRows())

	a, ok := batch.Column("a")
	require.True(t, ok)
	assert.Equal(t, column.Float64, r.Schema().Fields[r.Schema().FieldIndex("a")].Type)
	assert.Equal(t, column.FloatValue(1), a.Get(0))
	assert.Equal(t, column.FloatValue(2.5), a.Get(1))
}

func TestNDJSONReaderMissingKeyBecomesNull(t *testing.T) {
	data := `{"a": 1, "b": "x"}
{"a": 2}
`
	r := NewNDJSONReader(strings.NewReader(data))
	batch, err := r.Next()
	require.NoError(t, err)
	b, ok := batch.Column("b")
	require.True(t, ok)
	assert.True(t, b.IsValid(0))
	assert.False(t, b.IsValid(1))
}

func TestNDJSONReaderSkipsBlankLines(t *testing.T) {
	data := "{\"a\": 1}\n\n{\"a\": 2}\n"
	r := NewNDJSONReader(strings.NewReader(data))
	batch, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, batch.NumRows())
}

func TestNDJSONReaderRejectsMalformedLine(t *testing.T) {
	r := NewNDJSONReader(strings.NewReader("not json\n"))
	_, err := r.Next()
	assert.Error(t, err)
}

func TestNDJSONReaderBoolAndStringTypes(t *testing.T) {
	data := `{"flag": true, "label": "x"}
{"flag": false, "label": "y"}
`
	r := NewNDJSONReader(strings.NewReader(data))
	batch, err := r.Next()
	require.NoError(t, err)
	flag, ok := batch.Column("flag")
	require.True(t, ok)
	assert.Equal(t, column.BoolValue(true), flag.Get(0))
	assert.Equal(t, column.BoolValue(false), flag.Get(1))
}
