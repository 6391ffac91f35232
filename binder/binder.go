// Package binder resolves an unbound ast.Query against a known schema:
// substituting SELECT aliases into WHERE/GROUP BY/HAVING/ORDER BY,
// validating that every referenced column exists, recomputing whether
// the query is an aggregate query, enforcing GROUP BY/HAVING legality,
// and stamping shared subexpression identifiers for common-subexpression
// elimination during evaluation.
package binder

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/function"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// Bind mutates and validates q in place against schema, returning an
// error for any unknown column or GROUP BY/HAVING legality violation.
func Bind(q *ast.Query, schema column.Schema) error {
	expandStar(q, schema)

	aliases := buildAliasMap(q.Select)
	substituteAliases(q, aliases)

	if err := ensureColumnsExist(q, schema); err != nil {
		return err
	}

	// A DISTINCT query without GROUP BY groups by its non-aggregate SELECT
	// entries, so each distinct combination of them yields one row.
	if q.Distinct && !q.HasGroupBy() {
		for _, n := range q.Select {
			if !isAggregateExpr(n) {
				q.GroupBy = append(q.GroupBy, copyNode(n))
			}
		}
	}

	q.IsAggregate = isAggregateQuery(q) || q.HasGroupBy() || q.Distinct

	if q.HasGroupBy() || (q.IsAggregate && hasNonAggregateSelectColumn(q)) {
		if err := ensureGroupBySelectCorrectness(q); err != nil {
			return err
		}
	}

	markSharedExpressions(q)

	return nil
}

// expandStar replaces a bare '*' SELECT entry with one ColumnRef per
// schema field, in schema order.
func expandStar(q *ast.Query, schema column.Schema) {
	var out []ast.Node
	for _, n := range q.Select {
		if c, ok := n.(*ast.ColumnRef); ok && c.Name == "*" {
			for _, f := range schema.Fields {
				out = append(out, ast.NewColumnRef(f.Name))
			}
			continue
		}
		out = append(out, n)
	}
	q.Select = out
}

// buildAliasMap maps each SELECT entry's alias to the expression it
// names, for entries that declare one.
func buildAliasMap(selectList []ast.Node) map[string]ast.Node {
	aliases := map[string]ast.Node{}
	for _, n := range selectList {
		if n.HasAlias() {
			aliases[n.Alias()] = n
		}
	}
	return aliases
}

// substituteAliases replaces any ColumnRef in WHERE/GROUP BY/HAVING/
// ORDER BY that names a SELECT alias with a deep copy of the aliased
// expression, so the SELECT list itself is never mutated by a
// downstream substitution.
func substituteAliases(q *ast.Query, aliases map[string]ast.Node) {
	q.Where = substituteNode(q.Where, aliases)
	for i, n := range q.GroupBy {
		q.GroupBy[i] = substituteNode(n, aliases)
	}
	q.Having = substituteNode(q.Having, aliases)
	for i, n := range q.OrderBy {
		q.OrderBy[i] = substituteNode(n, aliases)
	}
}

func substituteNode(n ast.Node, aliases map[string]ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	if c, ok := n.(*ast.ColumnRef); ok {
		if aliased, ok := aliases[c.Name]; ok {
			return copyNode(aliased)
		}
		return n
	}
	if e, ok := n.(*ast.Expression); ok {
		args := make([]ast.Node, len(e.Args))
		for i, a := range e.Args {
			args[i] = substituteNode(a, aliases)
		}
		e.SetArgs(args)
	}
	return n
}

// copyNode returns a deep copy of n (every Expression argument is copied
// recursively) so that a subsequent shared-id stamp or argument rewrite
// does not retroactively mutate the original SELECT entry.
func copyNode(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Expression:
		cp := v.Copy()
		for i, a := range cp.Args {
			cp.Args[i] = copyNode(a)
		}
		return cp
	case *ast.Literal:
		cp := *v
		return &cp
	case *ast.ColumnRef:
		cp := *v
		return &cp
	default:
		return n
	}
}

func ensureColumnsExist(q *ast.Query, schema column.Schema) error {
	check := func(n ast.Node) error {
		var err error
		ast.Walk(n, func(w ast.Node) {
			if err != nil {
				return
			}
			if c, ok := w.(*ast.ColumnRef); ok {
				if !schema.HasField(c.Name) {
					err = vnerrors.NewParserError("Column '%s' is not found.", c.Name)
				}
			}
		})
		return err
	}
	for _, n := range q.Select {
		if err := check(n); err != nil {
			return err
		}
	}
	if err := check(q.Where); err != nil {
		return err
	}
	for _, n := range q.GroupBy {
		if err := check(n); err != nil {
			return err
		}
	}
	if err := check(q.Having); err != nil {
		return err
	}
	for _, n := range q.OrderBy {
		if err := check(n); err != nil {
			return err
		}
	}
	return nil
}

func isAggregateQuery(q *ast.Query) bool {
	nodes := append([]ast.Node{}, q.Select...)
	nodes = append(nodes, q.OrderBy...)
	if q.Having != nil {
		nodes = append(nodes, q.Having)
	}
	for _, n := range nodes {
		found := false
		ast.Walk(n, func(w ast.Node) {
			if found {
				return
			}
			if e, ok := w.(*ast.Expression); ok && e.Op == ast.OpFunction {
				if function.IsAggregateFunc(e.FunctionName) {
					found = true
				}
			}
		})
		if found {
			return true
		}
	}
	return false
}

func hasNonAggregateSelectColumn(q *ast.Query) bool {
	for _, n := range q.Select {
		if !isAggregateExpr(n) {
			return true
		}
	}
	return false
}

func isAggregateExpr(n ast.Node) bool {
	found := false
	ast.Walk(n, func(w ast.Node) {
		if e, ok := w.(*ast.Expression); ok && e.Op == ast.OpFunction && function.IsAggregateFunc(e.FunctionName) {
			found = true
		}
	})
	return found
}

func containsAggregate(n ast.Node) bool { return isAggregateExpr(n) }

// ensureGroupBySelectCorrectness enforces the rule that every SELECT
// entry must either be an aggregate expression or match one of the
// GROUP BY key expressions exactly, and that HAVING is an aggregate, a
// GROUP BY key, or references only GROUP BY columns; ORDER BY is not
// checked. A bare Literal in GROUP BY mode is rejected outright.
func ensureGroupBySelectCorrectness(q *ast.Query) error {
	for _, gb := range q.GroupBy {
		if _, ok := gb.(*ast.Literal); ok {
			return vnerrors.NewParserError("Literal expressions are not allowed in GROUP BY.")
		}
	}
	inGroupBy := func(n ast.Node) bool {
		for _, gb := range q.GroupBy {
			if ast.Equal(gb, n) {
				return true
			}
		}
		return false
	}
	for _, n := range q.Select {
		if isAggregateExpr(n) {
			continue
		}
		if c, ok := n.(*ast.ColumnRef); ok {
			if !inGroupBy(c) {
				return vnerrors.NewParserError(
					"Column '%s' must appear in the GROUP BY clause or be used in an aggregate function.", c.Name)
			}
			continue
		}
		if inGroupBy(n) || containsAggregate(n) {
			continue
		}
		return vnerrors.NewParserError(
			"Expression '%s' must appear in the GROUP BY clause or be used in an aggregate function.", n.String())
	}
	if q.Having != nil && !isAggregateExpr(q.Having) && !inGroupBy(q.Having) {
		if !containsOnlyGroupByColumns(q.Having, inGroupBy) {
			return vnerrors.NewParserError("HAVING clause must reference an aggregate or a GROUP BY column.")
		}
	}
	return nil
}

func containsOnlyGroupByColumns(n ast.Node, inGroupBy func(ast.Node) bool) bool {
	ok := true
	ast.Walk(n, func(w ast.Node) {
		if c, isCol := w.(*ast.ColumnRef); isCol {
			if !inGroupBy(c) {
				ok = false
			}
		}
	})
	return ok
}

// markSharedExpressions flattens SELECT/GROUP BY/HAVING/ORDER BY into
// one list and stamps every pair of structurally-equal Expression nodes
// with a shared identifier, so the evaluator computes a common
// subexpression exactly once per batch.
func markSharedExpressions(q *ast.Query) {
	nodes := ast.Flatten(append(append(append([]ast.Node{}, q.Select...), q.GroupBy...), orHaving(q.Having)...)...)
	nodes = append(nodes, ast.Flatten(q.OrderBy...)...)

	exprs := make([]*ast.Expression, 0, len(nodes))
	for _, n := range nodes {
		if e, ok := n.(*ast.Expression); ok {
			exprs = append(exprs, e)
		}
	}
	for i := 0; i < len(exprs); i++ {
		if exprs[i].IsShared() {
			continue
		}
		var group []*ast.Expression
		for j := i + 1; j < len(exprs); j++ {
			if !exprs[j].IsShared() && exprs[i].Equal(exprs[j]) {
				group = append(group, exprs[j])
			}
		}
		if len(group) == 0 {
			continue
		}
		prefix := exprs[i].FunctionName
		if prefix == "" {
			prefix = fmt.Sprintf("%s", exprs[i].Op)
		}
		id := fmt.Sprintf("%s_%s", prefix, uuid.NewString())
		exprs[i].SetSharedID(id)
		for _, g := range group {
			g.SetSharedID(id)
		}
	}
}

func orHaving(h ast.Node) []ast.Node {
	if h == nil {
		return nil
	}
	return []ast.Node{h}
}
