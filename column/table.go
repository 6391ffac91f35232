package column

// Table is a finite ordered sequence of batches sharing one schema.
type Table struct {
	Schema  Schema
	Batches []Batch
}

// NewTable constructs a Table from batches that must already share the
// given schema.
func NewTable(schema Schema, batches []Batch) Table {
	return Table{Schema: schema, Batches: batches}
}

// NumRows returns the sum of all batch row counts.
func (t Table) NumRows() int {
	n := 0
	for _, b := range t.Batches {
		n += b.NumRows()
	}
	return n
}

// Head returns a new Table containing at most the first n rows.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	var batches []Batch
	remaining := n
	for _, b := range t.Batches {
		if remaining <= 0 {
			break
		}
		if b.NumRows() <= remaining {
			batches = append(batches, b)
			remaining -= b.NumRows()
		} else {
			batches = append(batches, b.Slice(0, remaining))
			remaining = 0
		}
	}
	return Table{Schema: t.Schema, Batches: batches}
}
