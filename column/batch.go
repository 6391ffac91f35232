package column

import "github.com/dmitrykoval/govinum/vnerrors"

// Batch is a RecordBatch: a schema plus equal-length columns.
type Batch struct {
	Schema  Schema
	Columns []Column
}

// NewBatch validates and constructs a Batch. All columns must share the
// same length; this is one of the data model's core invariants.
func NewBatch(schema Schema, columns []Column) (Batch, error) {
	if len(columns) != len(schema.Fields) {
		return Batch{}, vnerrors.NewOperatorError(
			"batch has %d columns but schema declares %d fields",
			len(columns), len(schema.Fields))
	}
	if len(columns) > 0 {
		n := columns[0].Len()
		for i, c := range columns {
			if c.Len() != n {
				return Batch{}, vnerrors.NewOperatorError(
					"unequal column sizes in batch: column 0 has %d rows, column %d has %d",
					n, i, c.Len())
			}
		}
	}
	return Batch{Schema: schema, Columns: columns}, nil
}

// MustNewBatch panics on shape violation; used only where the caller has
// already established the invariant (e.g. tests, builders).
func MustNewBatch(schema Schema, columns []Column) Batch {
	b, err := NewBatch(schema, columns)
	if err != nil {
		panic(err)
	}
	return b
}

// NumRows returns the batch's row count.
func (b Batch) NumRows() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return b.Columns[0].Len()
}

// HasColumn reports whether the batch carries a column with the given
// name in its schema.
func (b Batch) HasColumn(name string) bool {
	return b.Schema.FieldIndex(name) >= 0
}

// Column returns the named column.
func (b Batch) Column(name string) (Column, bool) {
	i := b.Schema.FieldIndex(name)
	if i < 0 {
		return Column{}, false
	}
	return b.Columns[i], true
}

// Slice returns the row window [offset, offset+length) of the batch.
func (b Batch) Slice(offset, length int) Batch {
	cols := make([]Column, len(b.Columns))
	for i, c := range b.Columns {
		cols[i] = c.Slice(offset, length)
	}
	return Batch{Schema: b.Schema, Columns: cols}
}

// EmptyBatch returns a zero-row batch with a single unnamed_0 string
// field; operator.EmptySource yields it exactly once.
func EmptyBatch() Batch {
	schema := NewSchema(Field{Name: "unnamed_0", Type: String})
	return Batch{Schema: schema, Columns: []Column{NewStringColumn(nil, nil)}}
}

// OneRowBatch returns a single-row batch with one unnamed string field,
// the synthetic source the planner substitutes for a query that
// references no column at all.
func OneRowBatch() Batch {
	schema := NewSchema(Field{Name: "unnamed_0", Type: String})
	return Batch{Schema: schema, Columns: []Column{NewStringColumn([]string{""}, nil)}}
}
