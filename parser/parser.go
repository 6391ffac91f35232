// Package parser turns SQL SELECT text into an unbound ast.Query, built
// on top of github.com/xwb1989/sqlparser's grammar and AST.
package parser

import (
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// Parse parses a single SQL SELECT statement into an unbound ast.Query.
// The FROM clause's table name is carried through as Query.Source; the
// table package runs the query against its own data and does not
// resolve that name.
func Parse(sql string) (*ast.Query, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, vnerrors.NewParserError("SQL parse error: %v", err)
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, vnerrors.NewParserError("only SELECT statements are supported")
	}
	return parseSelect(sel)
}

func parseSelect(sel *sqlparser.Select) (*ast.Query, error) {
	q := &ast.Query{}

	if len(sel.From) > 0 {
		name, err := tableName(sel.From[0])
		if err == nil {
			q.Source = name
		}
	}

	selectNodes, err := parseSelectExprs(sel.SelectExprs)
	if err != nil {
		return nil, err
	}
	q.Select = selectNodes
	q.Distinct = strings.EqualFold(sel.Distinct, sqlparser.DistinctStr)

	if sel.Where != nil {
		where, err := exprToNode(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		q.Where = where
	}

	for _, expr := range sel.GroupBy {
		n, err := exprToNode(expr)
		if err != nil {
			return nil, err
		}
		q.GroupBy = append(q.GroupBy, n)
	}

	if sel.Having != nil {
		having, err := exprToNode(sel.Having.Expr)
		if err != nil {
			return nil, err
		}
		q.Having = having
	}

	for _, o := range sel.OrderBy {
		n, err := exprToNode(o.Expr)
		if err != nil {
			return nil, err
		}
		q.OrderBy = append(q.OrderBy, n)
		if o.Direction == sqlparser.DescScr {
			q.SortOrder = append(q.SortOrder, ast.Desc)
		} else {
			q.SortOrder = append(q.SortOrder, ast.Asc)
		}
	}

	if sel.Limit != nil {
		if sel.Limit.Rowcount != nil {
			n, err := intLiteralValue(sel.Limit.Rowcount)
			if err != nil {
				return nil, vnerrors.NewParserError("LIMIT must be an integer: %v", err)
			}
			q.Limit = n
			q.HasLimit = true
		}
		if sel.Limit.Offset != nil {
			n, err := intLiteralValue(sel.Limit.Offset)
			if err != nil {
				return nil, vnerrors.NewParserError("OFFSET must be an integer: %v", err)
			}
			q.Offset = n
			q.HasOffset = true
		}
	}

	return q, nil
}

func tableName(expr sqlparser.TableExpr) (string, error) {
	aliased, ok := expr.(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", vnerrors.NewParserError("unsupported FROM clause")
	}
	tn, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", vnerrors.NewParserError("unsupported FROM clause")
	}
	return strings.Trim(tn.Name.String(), "`\""), nil
}

func intLiteralValue(expr sqlparser.Expr) (int64, error) {
	v, ok := expr.(*sqlparser.SQLVal)
	if !ok || v.Type != sqlparser.IntVal {
		return 0, vnerrors.NewParserError("expected an integer literal")
	}
	return strconv.ParseInt(string(v.Val), 10, 64)
}

// parseSelectExprs translates the SELECT list. Expanding SELECT * into
// one ColumnRef per schema field is deferred to the binder, which has
// the schema in hand; here a bare
// '*' is represented as a single ColumnRef("*") sentinel the binder
// recognizes and expands.
func parseSelectExprs(exprs sqlparser.SelectExprs) ([]ast.Node, error) {
	var out []ast.Node
	for _, e := range exprs {
		switch se := e.(type) {
		case *sqlparser.StarExpr:
			out = append(out, ast.NewColumnRef("*"))
		case *sqlparser.AliasedExpr:
			n, err := exprToNode(se.Expr)
			if err != nil {
				return nil, err
			}
			if alias := strings.Trim(se.As.String(), "`\""); alias != "" {
				n.SetAlias(alias)
			}
			out = append(out, n)
		default:
			return nil, vnerrors.NewParserError("unsupported SELECT expression type %T", e)
		}
	}
	return out, nil
}
