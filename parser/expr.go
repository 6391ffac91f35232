package parser

import (
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// exprToNode recursively translates a sqlparser.Expr into an ast.Node.
func exprToNode(expr sqlparser.Expr) (ast.Node, error) {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		left, err := exprToNode(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprToNode(e.Right)
		if err != nil {
			return nil, err
		}
		return ast.NewExpression(ast.OpAnd, left, right), nil

	case *sqlparser.OrExpr:
		left, err := exprToNode(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprToNode(e.Right)
		if err != nil {
			return nil, err
		}
		return ast.NewExpression(ast.OpOr, left, right), nil

	case *sqlparser.NotExpr:
		inner, err := exprToNode(e.Expr)
		if err != nil {
			return nil, err
		}
		return ast.NewExpression(ast.OpNot, inner), nil

	case *sqlparser.ParenExpr:
		return exprToNode(e.Expr)

	case *sqlparser.ComparisonExpr:
		return comparisonToNode(e)

	case *sqlparser.RangeCond:
		return rangeCondToNode(e)

	case *sqlparser.IsExpr:
		inner, err := exprToNode(e.Expr)
		if err != nil {
			return nil, err
		}
		switch e.Operator {
		case sqlparser.IsNullStr:
			return ast.NewExpression(ast.OpIsNull, inner), nil
		case sqlparser.IsNotNullStr:
			return ast.NewExpression(ast.OpIsNotNull, inner), nil
		default:
			return nil, vnerrors.NewParserError("unsupported IS predicate %q", e.Operator)
		}

	case *sqlparser.BinaryExpr:
		return binaryExprToNode(e)

	case *sqlparser.UnaryExpr:
		return unaryExprToNode(e)

	case *sqlparser.FuncExpr:
		return funcExprToNode(e)

	case *sqlparser.ColName:
		name := strings.Trim(e.Name.String(), "`\"")
		return ast.NewColumnRef(name), nil

	case *sqlparser.SQLVal:
		return sqlValToLiteral(e)

	case *sqlparser.NullVal:
		return ast.NewLiteral(nil), nil

	case sqlparser.BoolVal:
		return ast.NewLiteral(bool(e)), nil

	case *sqlparser.ParenSelect:
		return nil, vnerrors.NewParserError("subqueries are not supported")

	default:
		return nil, vnerrors.NewParserError("unsupported expression type %T", expr)
	}
}

// comparisonToNode handles =, !=/<>, <, <=, >, >=, IN, NOT IN, LIKE, NOT LIKE.
func comparisonToNode(e *sqlparser.ComparisonExpr) (ast.Node, error) {
	left, err := exprToNode(e.Left)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case sqlparser.EqualStr, sqlparser.NotEqualStr, sqlparser.NullSafeEqualStr,
		sqlparser.LessThanStr, sqlparser.LessEqualStr, sqlparser.GreaterThanStr, sqlparser.GreaterEqualStr:
		right, err := exprToNode(e.Right)
		if err != nil {
			return nil, err
		}
		// A null-equality comparison is rewritten to an explicit null test,
		// since SQL's three-valued logic makes "x = NULL" always unknown
		// rather than a useful predicate.
		if isNullLiteral(right) {
			if e.Operator == sqlparser.EqualStr {
				return ast.NewExpression(ast.OpIsNull, left), nil
			}
			if e.Operator == sqlparser.NotEqualStr {
				return ast.NewExpression(ast.OpIsNotNull, left), nil
			}
		}
		op, err := comparisonOpTag(e.Operator)
		if err != nil {
			return nil, err
		}
		return ast.NewExpression(op, left, right), nil

	case sqlparser.InStr, sqlparser.NotInStr:
		tuple, ok := e.Right.(sqlparser.ValTuple)
		if !ok {
			return nil, vnerrors.NewParserError("IN requires a value list")
		}
		args := []ast.Node{left}
		for _, ve := range tuple {
			n, err := exprToNode(ve)
			if err != nil {
				return nil, err
			}
			args = append(args, n)
		}
		op := ast.OpIn
		if e.Operator == sqlparser.NotInStr {
			op = ast.OpNotIn
		}
		return ast.NewExpression(op, args...), nil

	case sqlparser.LikeStr, sqlparser.NotLikeStr:
		right, err := exprToNode(e.Right)
		if err != nil {
			return nil, err
		}
		op := ast.OpLike
		if e.Operator == sqlparser.NotLikeStr {
			op = ast.OpNotLike
		}
		return ast.NewExpression(op, left, right), nil

	default:
		return nil, vnerrors.NewParserError("unsupported comparison operator %q", e.Operator)
	}
}

func isNullLiteral(n ast.Node) bool {
	l, ok := n.(*ast.Literal)
	return ok && l.Value == nil
}

func comparisonOpTag(op string) (ast.OpTag, error) {
	switch op {
	case sqlparser.EqualStr, sqlparser.NullSafeEqualStr:
		return ast.OpEq, nil
	case sqlparser.NotEqualStr:
		return ast.OpNeq, nil
	case sqlparser.LessThanStr:
		return ast.OpLt, nil
	case sqlparser.LessEqualStr:
		return ast.OpLte, nil
	case sqlparser.GreaterThanStr:
		return ast.OpGt, nil
	case sqlparser.GreaterEqualStr:
		return ast.OpGte, nil
	default:
		return ast.OpInvalid, vnerrors.NewParserError("unsupported comparison operator %q", op)
	}
}

func rangeCondToNode(e *sqlparser.RangeCond) (ast.Node, error) {
	left, err := exprToNode(e.Left)
	if err != nil {
		return nil, err
	}
	from, err := exprToNode(e.From)
	if err != nil {
		return nil, err
	}
	to, err := exprToNode(e.To)
	if err != nil {
		return nil, err
	}
	op := ast.OpBetween
	if e.Operator == sqlparser.NotBetweenStr {
		op = ast.OpNotBetween
	}
	return ast.NewExpression(op, left, from, to), nil
}

func binaryExprToNode(e *sqlparser.BinaryExpr) (ast.Node, error) {
	left, err := exprToNode(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := exprToNode(e.Right)
	if err != nil {
		return nil, err
	}
	var op ast.OpTag
	switch e.Operator {
	case sqlparser.PlusStr:
		op = ast.OpAdd
	case sqlparser.MinusStr:
		op = ast.OpSub
	case sqlparser.MultStr:
		op = ast.OpMul
	case sqlparser.DivStr:
		op = ast.OpDiv
	case sqlparser.ModStr:
		op = ast.OpMod
	case sqlparser.BitAndStr:
		op = ast.OpBitAnd
	case sqlparser.BitOrStr:
		op = ast.OpBitOr
	case sqlparser.BitXorStr:
		op = ast.OpBitXor
	default:
		return nil, vnerrors.NewParserError("unsupported binary operator %q", e.Operator)
	}
	return ast.NewExpression(op, left, right), nil
}

func unaryExprToNode(e *sqlparser.UnaryExpr) (ast.Node, error) {
	inner, err := exprToNode(e.Expr)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case sqlparser.UMinusStr:
		return ast.NewExpression(ast.OpNeg, inner), nil
	case sqlparser.TildaStr:
		return ast.NewExpression(ast.OpBitNot, inner), nil
	case sqlparser.UPlusStr:
		return inner, nil
	default:
		return nil, vnerrors.NewParserError("unsupported unary operator %q", e.Operator)
	}
}

func funcExprToNode(e *sqlparser.FuncExpr) (ast.Node, error) {
	name := strings.ToLower(e.Name.String())

	// COUNT(*) is rewritten to the zero-arg count_star function, the one
	// function call allowed to carry no arguments.
	if name == "count" && len(e.Exprs) == 1 {
		if _, ok := e.Exprs[0].(*sqlparser.StarExpr); ok {
			return ast.NewFunctionCall("count_star"), nil
		}
	}

	var args []ast.Node
	for _, se := range e.Exprs {
		aliased, ok := se.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, vnerrors.NewParserError("unsupported function argument in %s()", name)
		}
		n, err := exprToNode(aliased.Expr)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
	}
	return ast.NewFunctionCall(name, args...), nil
}

func sqlValToLiteral(v *sqlparser.SQLVal) (ast.Node, error) {
	switch v.Type {
	case sqlparser.IntVal:
		i, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return nil, vnerrors.NewParserError("invalid integer literal %q", string(v.Val))
		}
		return ast.NewLiteral(i), nil
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, vnerrors.NewParserError("invalid float literal %q", string(v.Val))
		}
		return ast.NewLiteral(f), nil
	case sqlparser.StrVal:
		return ast.NewLiteral(string(v.Val)), nil
	default:
		return ast.NewLiteral(string(v.Val)), nil
	}
}
