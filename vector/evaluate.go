package vector

import (
	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/function"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// Cache memoizes the result of every shared-subexpression node for the
// lifetime of a single batch evaluation; the binder's shared_id
// stamping guarantees structurally identical nodes present the same id,
// so a cache hit here is exactly the common-subexpression elimination
// the binder set up.
type Cache map[string]column.Column

// Evaluate computes node against batch, returning a Column whose length
// is either batch.NumRows() or 1 (a length-1 result is a pure scalar
// expression the caller is responsible for broadcasting if it needs to
// sit alongside row-length siblings in a Batch).
func Evaluate(node ast.Node, batch column.Batch, cache Cache) (column.Column, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return literalColumn(n.Value), nil

	case *ast.ColumnRef:
		col, ok := batch.Column(n.Name)
		if !ok {
			return column.Column{}, vnerrors.NewOperatorError("column '%s' not found in batch", n.Name)
		}
		return col, nil

	case *ast.Expression:
		if n.IsShared() {
			if cached, ok := cache[n.SharedID()]; ok {
				return cached, nil
			}
		}
		col, err := evaluateExpression(n, batch, cache)
		if err != nil {
			return column.Column{}, err
		}
		if n.IsShared() {
			cache[n.SharedID()] = col
		}
		return col, nil

	default:
		return column.Column{}, vnerrors.NewPlannerError("unknown expression node type %T", node)
	}
}

func evaluateExpression(e *ast.Expression, batch column.Batch, cache Cache) (column.Column, error) {
	args := make([]column.Column, len(e.Args))
	for i, a := range e.Args {
		col, err := Evaluate(a, batch, cache)
		if err != nil {
			return column.Column{}, err
		}
		args[i] = col
	}

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
		ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		return evalArithmeticFold(e.Op, args)
	case ast.OpNeg:
		return evalNeg(args)
	case ast.OpBitNot:
		return evalBitNot(args)
	case ast.OpConcat:
		return evalConcatFold(args)

	case ast.OpEq, ast.OpNeq, ast.OpGt, ast.OpGte, ast.OpLt, ast.OpLte:
		if len(args) != 2 {
			return column.Column{}, vnerrors.NewOperatorError("comparison operator takes exactly 2 arguments")
		}
		return evalComparison(e.Op, args[0], args[1])

	case ast.OpAnd:
		return evalLogicalFold(true, args)
	case ast.OpOr:
		return evalLogicalFold(false, args)
	case ast.OpNot:
		if len(args) != 1 {
			return column.Column{}, vnerrors.NewOperatorError("NOT takes exactly 1 argument")
		}
		return evalNot(args[0])

	case ast.OpIsNull:
		return evalIsNull(args[0], false), nil
	case ast.OpIsNotNull:
		return evalIsNull(args[0], true), nil

	case ast.OpIn, ast.OpNotIn:
		return evalIn(e.Op == ast.OpNotIn, args)

	case ast.OpBetween, ast.OpNotBetween:
		return evalBetween(e.Op == ast.OpNotBetween, args)

	case ast.OpLike, ast.OpNotLike:
		if len(args) != 2 {
			return column.Column{}, vnerrors.NewOperatorError("LIKE takes exactly 2 arguments")
		}
		return evalLike(e.Op == ast.OpNotLike, args[0], args[1])

	case ast.OpFunction:
		return evalFunctionCall(e.FunctionName, args)

	default:
		return column.Column{}, vnerrors.NewPlannerError("unsupported operator tag %s", e.Op)
	}
}

func evalFunctionCall(name string, args []column.Column) (column.Column, error) {
	desc, err := function.Resolve(name)
	if err != nil {
		return column.Column{}, err
	}
	switch desc.Kind {
	case function.KindVector:
		if desc.Vector == nil {
			return column.Column{}, vnerrors.NewFunctionError("function '%s' has no vector kernel", name)
		}
		return desc.Vector(args)
	case function.KindScalar:
		if desc.Scalar == nil {
			return column.Column{}, vnerrors.NewFunctionError("function '%s' has no scalar kernel", name)
		}
		return applyScalarRowWise(desc.Scalar, args)
	case function.KindAggregate:
		return column.Column{}, vnerrors.NewPlannerError(
			"aggregate function '%s' reached the row-wise evaluator; it must be lowered by the planner", name)
	default:
		return column.Column{}, vnerrors.NewFunctionError("function '%s' has unknown kind", name)
	}
}

// applyScalarRowWise broadcasts scalar args to a common length and
// invokes the scalar kernel once per row.
func applyScalarRowWise(fn function.ScalarKernel, args []column.Column) (column.Column, error) {
	n := maxLen(args)
	if n == 0 {
		n = 1
	}
	bArgs := broadcastAll(args, n)
	results := make([]column.Value, n)
	for i := 0; i < n; i++ {
		rowArgs := make([]column.Value, len(bArgs))
		for j, c := range bArgs {
			if i < c.Len() {
				rowArgs[j] = c.Get(i)
			} else {
				rowArgs[j] = column.NullValue()
			}
		}
		v, err := fn(rowArgs)
		if err != nil {
			return column.Column{}, err
		}
		results[i] = v
	}
	return valuesToColumn(results), nil
}

// valuesToColumn packs scalar Values produced by a row-wise kernel into
// a single typed Column, inferring the type from the first valid value.
func valuesToColumn(values []column.Value) column.Column {
	return column.FromValues(values)
}
