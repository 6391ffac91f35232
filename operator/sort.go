package operator

import (
	"io"
	"sort"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vector"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// SortKey is one ORDER BY key: an expression and its direction.
type SortKey struct {
	Expr  ast.Node
	Order ast.SortOrder
}

// Sort buffers its entire input, then emits it as a single stable-sorted
// batch. Nulls sort last regardless of direction. Sorting by a boolean
// column is rejected, matching the reference engine's restriction.
type Sort struct {
	parent   Operator
	keys     []SortKey
	buffered bool
	out      *column.Batch
	sent     bool
}

func NewSort(parent Operator, keys []SortKey) *Sort {
	return &Sort{parent: parent, keys: keys}
}

func (s *Sort) Schema() column.Schema { return s.parent.Schema() }

func (s *Sort) Next() (*column.Batch, error) {
	if !s.buffered {
		if err := s.bufferAndSort(); err != nil {
			return nil, err
		}
		s.buffered = true
	}
	if s.sent {
		return nil, io.EOF
	}
	s.sent = true
	return s.out, nil
}

func (s *Sort) bufferAndSort() error {
	var batches []column.Batch
	for {
		b, err := s.parent.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		batches = append(batches, *b)
	}
	schema := s.parent.Schema()
	if len(batches) == 0 {
		empty := column.MustNewBatch(schema, emptyColumnsFor(schema))
		s.out = &empty
		return nil
	}

	n := len(schema.Fields)
	merged := make([]column.Column, n)
	for i := 0; i < n; i++ {
		cols := make([]column.Column, len(batches))
		for j, b := range batches {
			cols[j] = b.Columns[i]
		}
		merged[i] = column.Append(cols...)
	}
	mergedBatch := column.MustNewBatch(schema, merged)

	keyCols := make([]column.Column, len(s.keys))
	cache := vector.Cache{}
	for i, k := range s.keys {
		col, err := vector.Evaluate(k.Expr, mergedBatch, cache)
		if err != nil {
			return err
		}
		if col.Type == column.Bool {
			return vnerrors.NewOperatorError(
				"Sorting by boolean column is not supported yet. Please remove the column from the ORDER BY clause.")
		}
		if col.Len() == 1 {
			col = col.Repeat(mergedBatch.NumRows())
		}
		keyCols[i] = col
	}

	nRows := mergedBatch.NumRows()
	indices := make([]int, nRows)
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		ia, ib := indices[a], indices[b]
		for k, col := range keyCols {
			less, ok := lessWithNullsLast(col, ia, ib, s.keys[k].Order)
			if ok {
				return less
			}
		}
		return false
	})

	cols := make([]column.Column, n)
	for i := range cols {
		cols[i] = merged[i].Take(indices)
	}
	out := column.MustNewBatch(schema, cols)
	s.out = &out
	return nil
}

// lessWithNullsLast returns (less, decided): decided is false when the
// two rows tie on this key and the next key must break the tie.
func lessWithNullsLast(col column.Column, a, b int, order ast.SortOrder) (bool, bool) {
	av, bv := col.IsValid(a), col.IsValid(b)
	if !av && !bv {
		return false, false
	}
	if !av {
		return false, true // a (null) sorts after b regardless of direction
	}
	if !bv {
		return true, true
	}
	cmp := compareColumnValues(col, a, b)
	if cmp == 0 {
		return false, false
	}
	if order == ast.Desc {
		return cmp > 0, true
	}
	return cmp < 0, true
}

func compareColumnValues(col column.Column, a, b int) int {
	switch col.Type {
	case column.Int64, column.Timestamp, column.Date:
		ai, bi := col.Ints[a], col.Ints[b]
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	case column.Float64:
		af, bf := col.Floats[a], col.Floats[b]
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case column.String:
		as, bs := col.Strs[a], col.Strs[b]
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func emptyColumnsFor(schema column.Schema) []column.Column {
	cols := make([]column.Column, len(schema.Fields))
	for i, f := range schema.Fields {
		switch f.Type {
		case column.Int64:
			cols[i] = column.NewInt64Column(nil, nil)
		case column.Float64:
			cols[i] = column.NewFloat64Column(nil, nil)
		case column.Bool:
			cols[i] = column.NewBoolColumn(nil, nil)
		case column.Timestamp:
			cols[i] = column.NewTimestampColumn(nil, f.Unit, nil)
		case column.Date:
			cols[i] = column.NewDateColumn(nil, nil)
		default:
			cols[i] = column.NewStringColumn(nil, nil)
		}
	}
	return cols
}

func (s *Sort) Close() error { return s.parent.Close() }
