package operator

import (
	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/metadata"
	"github.com/dmitrykoval/govinum/vector"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// Filter keeps only the rows for which Predicate evaluates true; a null
// predicate result drops the row, matching SQL's three-valued WHERE
// semantics. Empty result batches are skipped over transparently so
// downstream operators never see a zero-row batch mid-stream.
type Filter struct {
	parent    Operator
	predicate ast.Node
}

func NewFilter(parent Operator, predicate ast.Node) *Filter {
	return &Filter{parent: parent, predicate: predicate}
}

func (f *Filter) Schema() column.Schema { return f.parent.Schema() }

func (f *Filter) Next() (*column.Batch, error) {
	for {
		batch, err := f.parent.Next()
		if err != nil {
			return nil, err
		}
		if col, op, value, ok := simpleZonePredicate(f.predicate); ok {
			zm := metadata.Build(*batch)
			if zm.CanPrune(col, op, value) {
				continue
			}
		}
		cache := vector.Cache{}
		maskCol, err := vector.Evaluate(f.predicate, *batch, cache)
		if err != nil {
			return nil, err
		}
		if maskCol.Type != column.Bool {
			return nil, vnerrors.NewOperatorError("WHERE/HAVING predicate did not evaluate to a boolean column")
		}
		mask := make([]bool, maskCol.Len())
		for i := range mask {
			mask[i] = maskCol.IsValid(i) && maskCol.Bools[i]
		}
		cols := make([]column.Column, len(batch.Columns))
		for i, c := range batch.Columns {
			cols[i] = c.FilterMask(mask)
		}
		out, err := column.NewBatch(batch.Schema, cols)
		if err != nil {
			return nil, err
		}
		if out.NumRows() == 0 {
			continue
		}
		return &out, nil
	}
}

func (f *Filter) Close() error { return f.parent.Close() }

var zoneOpNames = map[ast.OpTag]string{
	ast.OpEq: "=", ast.OpNeq: "!=",
	ast.OpGt: ">", ast.OpGte: ">=",
	ast.OpLt: "<", ast.OpLte: "<=",
}

var zoneOpFlipped = map[ast.OpTag]string{
	ast.OpEq: "=", ast.OpNeq: "!=",
	ast.OpGt: "<", ast.OpGte: "<=",
	ast.OpLt: ">", ast.OpLte: ">=",
}

// simpleZonePredicate recognizes a "column OP literal" or "literal OP
// column" comparison against a numeric literal, the only shape a zone
// map can prune against. Anything else, including compound predicates,
// reports ok=false and is always evaluated row-by-row.
func simpleZonePredicate(n ast.Node) (col string, op string, value float64, ok bool) {
	e, isExpr := n.(*ast.Expression)
	if !isExpr || len(e.Args) != 2 {
		return "", "", 0, false
	}
	if ref, isRef := e.Args[0].(*ast.ColumnRef); isRef {
		if lit, isLit := e.Args[1].(*ast.Literal); isLit {
			if v, ok := numericLiteral(lit); ok {
				if name, ok := zoneOpNames[e.Op]; ok {
					return ref.Name, name, v, true
				}
			}
		}
	}
	if lit, isLit := e.Args[0].(*ast.Literal); isLit {
		if ref, isRef := e.Args[1].(*ast.ColumnRef); isRef {
			if v, ok := numericLiteral(lit); ok {
				if name, ok := zoneOpFlipped[e.Op]; ok {
					return ref.Name, name, v, true
				}
			}
		}
	}
	return "", "", 0, false
}

func numericLiteral(lit *ast.Literal) (float64, bool) {
	switch v := lit.Value.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
