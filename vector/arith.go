package vector

import (
	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// evalArithmeticFold left-folds a binary arithmetic kernel over two or
// more arguments, broadcasting scalars as it goes: arg[0] op arg[1],
// then that result op arg[2], and so on.
func evalArithmeticFold(opTag ast.OpTag, args []column.Column) (column.Column, error) {
	if len(args) < 2 {
		return column.Column{}, vnerrors.NewOperatorError("arithmetic operator takes at least 2 arguments")
	}
	op, ok := arithTagFor(opTag)
	if !ok {
		return column.Column{}, vnerrors.NewPlannerError("unsupported arithmetic operator %s", opTag)
	}
	acc := args[0]
	for _, next := range args[1:] {
		var err error
		acc, err = applyBinaryArith(op, acc, next)
		if err != nil {
			return column.Column{}, err
		}
	}
	return acc, nil
}

func arithTagFor(opTag ast.OpTag) (arithTag, bool) {
	switch opTag {
	case ast.OpAdd:
		return arithAdd, true
	case ast.OpSub:
		return arithSub, true
	case ast.OpMul:
		return arithMul, true
	case ast.OpDiv:
		return arithDiv, true
	case ast.OpMod:
		return arithMod, true
	case ast.OpBitAnd:
		return arithBitAnd, true
	case ast.OpBitOr:
		return arithBitOr, true
	case ast.OpBitXor:
		return arithBitXor, true
	default:
		return 0, false
	}
}

func applyBinaryArith(op arithTag, a, b column.Column) (column.Column, error) {
	n := a.Len()
	if b.Len() > n {
		n = b.Len()
	}
	a = a.Repeat(n)
	b = b.Repeat(n)

	useFloat := a.Type == column.Float64 || b.Type == column.Float64
	if isBitwise(op) {
		useFloat = false
	}

	valid := make([]bool, n)
	if useFloat {
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			if !a.IsValid(i) || !b.IsValid(i) {
				continue
			}
			af, _ := a.Get(i).AsFloat64()
			bf, _ := b.Get(i).AsFloat64()
			r, ok := floatArith(op, af, bf)
			if !ok {
				continue
			}
			out[i] = r
			valid[i] = true
		}
		return column.NewFloat64Column(out, valid), nil
	}

	out := make([]int64, n)
	for i := 0; i < n; i++ {
		if !a.IsValid(i) || !b.IsValid(i) {
			continue
		}
		ai := a.Get(i).Int
		bi := b.Get(i).Int
		r, ok := intArith(op, ai, bi)
		if !ok {
			continue
		}
		out[i] = r
		valid[i] = true
	}
	return column.NewInt64Column(out, valid), nil
}

type arithTag int

const (
	arithAdd arithTag = iota
	arithSub
	arithMul
	arithDiv
	arithMod
	arithBitAnd
	arithBitOr
	arithBitXor
)

func isBitwise(op arithTag) bool {
	return op == arithBitAnd || op == arithBitOr || op == arithBitXor
}

func floatArith(op arithTag, a, b float64) (float64, bool) {
	switch op {
	case arithAdd:
		return a + b, true
	case arithSub:
		return a - b, true
	case arithMul:
		return a * b, true
	case arithDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case arithMod:
		if b == 0 {
			return 0, false
		}
		return float64(int64(a) % int64(b)), true
	default:
		return 0, false
	}
}

func intArith(op arithTag, a, b int64) (int64, bool) {
	switch op {
	case arithAdd:
		return a + b, true
	case arithSub:
		return a - b, true
	case arithMul:
		return a * b, true
	case arithDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case arithMod:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case arithBitAnd:
		return a & b, true
	case arithBitOr:
		return a | b, true
	case arithBitXor:
		return a ^ b, true
	default:
		return 0, false
	}
}

func evalNeg(args []column.Column) (column.Column, error) {
	if len(args) != 1 {
		return column.Column{}, vnerrors.NewOperatorError("unary minus takes exactly 1 argument")
	}
	c := args[0]
	n := c.Len()
	valid := make([]bool, n)
	if c.Type == column.Float64 {
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			if c.IsValid(i) {
				out[i] = -c.Floats[i]
				valid[i] = true
			}
		}
		return column.NewFloat64Column(out, valid), nil
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		if c.IsValid(i) {
			out[i] = -c.Ints[i]
			valid[i] = true
		}
	}
	return column.NewInt64Column(out, valid), nil
}

func evalBitNot(args []column.Column) (column.Column, error) {
	if len(args) != 1 {
		return column.Column{}, vnerrors.NewOperatorError("bitwise NOT takes exactly 1 argument")
	}
	c := args[0]
	n := c.Len()
	valid := make([]bool, n)
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		if c.IsValid(i) {
			out[i] = ^c.Ints[i]
			valid[i] = true
		}
	}
	return column.NewInt64Column(out, valid), nil
}

func evalConcatFold(args []column.Column) (column.Column, error) {
	if len(args) < 2 {
		return column.Column{}, vnerrors.NewOperatorError("CONCAT takes at least 2 arguments")
	}
	n := maxLen(args)
	bArgs := broadcastAll(args, n)
	valid := make([]bool, n)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		ok := true
		s := ""
		for _, c := range bArgs {
			if !c.IsValid(i) {
				ok = false
				break
			}
			s += toStringValue(c, i)
		}
		if ok {
			out[i] = s
			valid[i] = true
		}
	}
	return column.NewStringColumn(out, valid), nil
}

func toStringValue(c column.Column, i int) string {
	return c.Get(i).String()
}
