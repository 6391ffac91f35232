package vector

import (
	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
)

func evalComparison(op ast.OpTag, a, b column.Column) (column.Column, error) {
	n := a.Len()
	if b.Len() > n {
		n = b.Len()
	}
	a = a.Repeat(n)
	b = b.Repeat(n)

	out := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if !a.IsValid(i) || !b.IsValid(i) {
			continue
		}
		r, ok := compareValues(op, a.Get(i), b.Get(i))
		if !ok {
			continue
		}
		out[i] = r
		valid[i] = true
	}
	return column.NewBoolColumn(out, valid), nil
}

func compareValues(op ast.OpTag, a, b column.Value) (bool, bool) {
	if a.Type == column.String || b.Type == column.String {
		as, bs := a.Str, b.Str
		if a.Type != column.String || b.Type != column.String {
			return false, false
		}
		switch op {
		case ast.OpEq:
			return as == bs, true
		case ast.OpNeq:
			return as != bs, true
		case ast.OpGt:
			return as > bs, true
		case ast.OpGte:
			return as >= bs, true
		case ast.OpLt:
			return as < bs, true
		case ast.OpLte:
			return as <= bs, true
		}
		return false, false
	}
	if a.Type == column.Bool || b.Type == column.Bool {
		ab, bb := a.Bool, b.Bool
		switch op {
		case ast.OpEq:
			return ab == bb, true
		case ast.OpNeq:
			return ab != bb, true
		}
		return false, false
	}
	af, ok1 := a.AsFloat64()
	bf, ok2 := b.AsFloat64()
	if !ok1 || !ok2 {
		return false, false
	}
	switch op {
	case ast.OpEq:
		return af == bf, true
	case ast.OpNeq:
		return af != bf, true
	case ast.OpGt:
		return af > bf, true
	case ast.OpGte:
		return af >= bf, true
	case ast.OpLt:
		return af < bf, true
	case ast.OpLte:
		return af <= bf, true
	}
	return false, false
}
