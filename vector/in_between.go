package vector

import (
	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// evalIn implements IN/NOT_IN: args[0] is the probe column, args[1:] the
// set of candidate columns (each broadcastable, typically literals).
func evalIn(negate bool, args []column.Column) (column.Column, error) {
	if len(args) < 2 {
		return column.Column{}, vnerrors.NewOperatorError("IN takes a probe value and at least one candidate")
	}
	probe := args[0]
	candidates := args[1:]
	n := probe.Len()
	out := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if !probe.IsValid(i) {
			continue
		}
		found := false
		for _, cand := range candidates {
			j := i
			if cand.Len() == 1 {
				j = 0
			}
			if j >= cand.Len() || !cand.IsValid(j) {
				continue
			}
			if eq, ok := compareValues(ast.OpEq, probe.Get(i), cand.Get(j)); ok && eq {
				found = true
				break
			}
		}
		out[i] = found != negate
		valid[i] = true
	}
	return column.NewBoolColumn(out, valid), nil
}

// evalBetween implements BETWEEN/NOT_BETWEEN: args[0] probe, args[1]
// lower bound, args[2] upper bound, inclusive.
func evalBetween(negate bool, args []column.Column) (column.Column, error) {
	if len(args) != 3 {
		return column.Column{}, vnerrors.NewOperatorError("BETWEEN takes exactly 3 arguments")
	}
	n := args[0].Len()
	probe := args[0]
	lo := args[1].Repeat(n)
	hi := args[2].Repeat(n)
	out := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if !probe.IsValid(i) || !lo.IsValid(i) || !hi.IsValid(i) {
			continue
		}
		geLo, ok1 := compareValues(ast.OpGte, probe.Get(i), lo.Get(i))
		leHi, ok2 := compareValues(ast.OpLte, probe.Get(i), hi.Get(i))
		if !ok1 || !ok2 {
			continue
		}
		out[i] = (geLo && leHi) != negate
		valid[i] = true
	}
	return column.NewBoolColumn(out, valid), nil
}
