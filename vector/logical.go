package vector

import (
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// evalLogicalFold left-folds AND/OR over two or more boolean columns
// using three-valued (SQL) logic: AND is false if any operand is false
// even when another operand is null; OR is true if any operand is true
// even when another operand is null; otherwise a null operand makes the
// result null.
func evalLogicalFold(isAnd bool, args []column.Column) (column.Column, error) {
	if len(args) < 2 {
		return column.Column{}, vnerrors.NewOperatorError("logical operator takes at least 2 arguments")
	}
	n := maxLen(args)
	bArgs := broadcastAll(args, n)

	out := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		sawNull := false
		decided := false
		result := false
		for _, c := range bArgs {
			if !c.IsValid(i) {
				sawNull = true
				continue
			}
			v := c.Bools[i]
			if isAnd && !v {
				decided, result = true, false
				break
			}
			if !isAnd && v {
				decided, result = true, true
				break
			}
		}
		if decided {
			out[i] = result
			valid[i] = true
		} else if !sawNull {
			out[i] = isAnd
			valid[i] = true
		}
	}
	return column.NewBoolColumn(out, valid), nil
}

func evalNot(c column.Column) (column.Column, error) {
	n := c.Len()
	out := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if c.IsValid(i) {
			out[i] = !c.Bools[i]
			valid[i] = true
		}
	}
	return column.NewBoolColumn(out, valid), nil
}

// evalIsNull implements IS_NULL (negate=false) and IS_NOT_NULL
// (negate=true); unlike every other predicate, these inspect validity
// directly rather than returning null-on-null-input.
func evalIsNull(c column.Column, negate bool) column.Column {
	n := c.Len()
	out := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		isNull := !c.IsValid(i)
		out[i] = isNull != negate
		valid[i] = true
	}
	return column.NewBoolColumn(out, valid)
}
