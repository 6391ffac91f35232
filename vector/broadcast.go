// Package vector implements the vectorized expression evaluator: it
// walks an ast.Node tree against a column.Batch and produces a single
// column.Column, reusing the result of any node the binder stamped with
// a shared subexpression id so a common subexpression is computed once
// per batch no matter how many times it appears in the SELECT list.
package vector

import (
	"github.com/dmitrykoval/govinum/column"
)

// maxLen returns the largest Len() among cols, the target length every
// scalar argument is broadcast up to before a kernel runs.
func maxLen(cols []column.Column) int {
	n := 0
	for _, c := range cols {
		if c.Len() > n {
			n = c.Len()
		}
	}
	return n
}

// broadcastAll repeats every length-1 column among cols up to n,
// leaving already-length-n columns untouched. Columns of any other
// length are a caller bug (unequal sibling sizes), surfaced by the
// operator layer's own shape check rather than here.
func broadcastAll(cols []column.Column, n int) []column.Column {
	out := make([]column.Column, len(cols))
	for i, c := range cols {
		if c.Len() == 1 && n > 1 {
			out[i] = c.Repeat(n)
		} else {
			out[i] = c
		}
	}
	return out
}

// literalColumn wraps a single ast.Literal value as a length-1 Column so
// it can flow through the same broadcast path as any other argument.
func literalColumn(value interface{}) column.Column {
	switch v := value.(type) {
	case nil:
		return column.NewNullColumn(1)
	case bool:
		return column.NewBoolColumn([]bool{v}, nil)
	case int64:
		return column.NewInt64Column([]int64{v}, nil)
	case int:
		return column.NewInt64Column([]int64{int64(v)}, nil)
	case float64:
		return column.NewFloat64Column([]float64{v}, nil)
	case string:
		return column.NewStringColumn([]string{v}, nil)
	default:
		return column.NewNullColumn(1)
	}
}
