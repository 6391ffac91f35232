package operator

import (
	"io"

	"github.com/dmitrykoval/govinum/column"
)

// Materialize drains op to completion and collects every batch into a
// column.Table, closing op afterward regardless of outcome. This is the
// terminal stage of every query plan: the point where the pull-based
// pipeline is finally driven to exhaustion.
func Materialize(op Operator) (column.Table, error) {
	defer op.Close()
	var batches []column.Batch
	for {
		b, err := op.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return column.Table{}, err
		}
		batches = append(batches, *b)
	}
	return column.NewTable(op.Schema(), batches), nil
}
