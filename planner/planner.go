// Package planner lowers a bound ast.Query into a physical operator
// pipeline: column pruning, WHERE filtering, aggregate-argument and
// GROUP BY rewriting into a pre-aggregation projection, hash
// aggregation, HAVING filtering, sorting, final projection with output
// column naming, and LIMIT/OFFSET slicing.
package planner

import (
	"fmt"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/function"
	"github.com/dmitrykoval/govinum/operator"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// Plan lowers q into an executable operator pipeline reading from
// source. source's schema must match the schema q was bound against.
func Plan(q *ast.Query, source operator.Operator) (operator.Operator, error) {
	op := planSource(q, source)

	if q.HasWhere() {
		op = operator.NewFilter(op, q.Where)
	}

	selectList := append([]ast.Node{}, q.Select...)
	having := q.Having
	orderBy := append([]ast.Node{}, q.OrderBy...)

	if q.IsAggregate {
		var err error
		op, selectList, having, orderBy, err = planAggregate(q, op, selectList, having, orderBy)
		if err != nil {
			return nil, err
		}
	}

	if having != nil {
		op = operator.NewFilter(op, having)
	}

	if len(orderBy) > 0 {
		keys := make([]operator.SortKey, len(orderBy))
		for i, n := range orderBy {
			order := ast.Asc
			if i < len(q.SortOrder) {
				order = q.SortOrder[i]
			}
			keys[i] = operator.SortKey{Expr: n, Order: order}
		}
		op = operator.NewSort(op, keys)
	}

	names := outputColumnNames(q.Select)
	cols := make([]operator.ProjectColumn, len(selectList))
	for i, n := range selectList {
		cols[i] = operator.ProjectColumn{Expr: n, Name: names[i]}
	}
	op = operator.NewProject(op, cols, false)

	if q.HasLimit || q.HasOffset {
		op = operator.NewSlice(op, q.Offset, q.Limit, q.HasLimit)
	}

	return op, nil
}

// planSource applies column pruning: a non-aggregate query that
// references no column at all (a literal-only SELECT) is rebased onto a
// synthetic single-row source so its projection has a row to broadcast
// against. A bare COUNT(*)-style aggregate also references no column,
// but it still needs the real row count of the underlying source, which
// a column.Batch with zero columns cannot carry (Batch.NumRows reads
// off column 0), so an aggregate query is left on the unpruned source
// instead of being rebased. Any other column reference is pruned down
// to the columns actually used anywhere in the query.
func planSource(q *ast.Query, source operator.Operator) operator.Operator {
	used := q.AllUsedColumnNames()
	if len(used) == 0 {
		if q.IsAggregate {
			return source
		}
		return operator.NewOneRowSource()
	}
	cols := make([]operator.ProjectColumn, len(used))
	for i, name := range used {
		cols[i] = operator.ProjectColumn{Expr: nodeColumnRef(name), Name: name}
	}
	return operator.NewProject(source, cols, false)
}

func nodeColumnRef(name string) ast.Node { return ast.NewColumnRef(name) }

// planAggregate builds the pre-aggregation Project and Aggregate
// operator, and rewrites every aggregate call and GROUP BY key
// expression occurring in the SELECT list, HAVING clause and ORDER BY
// list into a ColumnRef pointing at the Aggregate operator's output.
func planAggregate(
	q *ast.Query,
	parent operator.Operator,
	selectList []ast.Node,
	having ast.Node,
	orderBy []ast.Node,
) (operator.Operator, []ast.Node, ast.Node, []ast.Node, error) {

	aggNodes := collectAggregateCalls(q)

	var rules []rewriteRule

	preAggCols := make([]operator.ProjectColumn, 0, len(aggNodes))
	aggExprs := make([]operator.AggExpr, 0, len(aggNodes))
	for i, call := range aggNodes {
		e := call.(*ast.Expression)
		kind, ok := function.AggKindFor(e.FunctionName)
		if !ok {
			return nil, nil, nil, nil, vnerrors.NewPlannerError("'%s' is not a known aggregate function", e.FunctionName)
		}
		argInput := ""
		if len(e.Args) > 0 {
			argInput = fmt.Sprintf("__agg_arg_%d", i)
			preAggCols = append(preAggCols, operator.ProjectColumn{Expr: e.Args[0], Name: argInput})
		}
		outputName := fmt.Sprintf("__agg_%d", i)
		aggExprs = append(aggExprs, operator.AggExpr{Kind: kind, Input: argInput, Output: outputName})
		rules = append(rules, rewriteRule{match: e, repl: ast.NewColumnRef(outputName)})
	}

	groupByNames := make([]string, len(q.GroupBy))
	for i, gb := range q.GroupBy {
		name := fmt.Sprintf("__gb_%d", i)
		groupByNames[i] = name
		rules = append(rules, rewriteRule{match: gb, repl: ast.NewColumnRef(name)})
	}

	var op operator.Operator = parent
	if len(preAggCols) > 0 {
		op = operator.NewProject(op, preAggCols, true)
	}
	op = operator.NewAggregate(op, q.GroupBy, groupByNames, aggExprs)

	newSelect := make([]ast.Node, len(selectList))
	for i, n := range selectList {
		newSelect[i] = rewriteTree(n, rules)
	}
	newHaving := rewriteTree(having, rules)
	newOrderBy := make([]ast.Node, len(orderBy))
	for i, n := range orderBy {
		newOrderBy[i] = rewriteTree(n, rules)
	}

	return op, newSelect, newHaving, newOrderBy, nil
}

type rewriteRule struct {
	match ast.Node
	repl  ast.Node
}

func rewriteTree(n ast.Node, rules []rewriteRule) ast.Node {
	if n == nil {
		return nil
	}
	for _, r := range rules {
		if ast.Equal(n, r.match) {
			return r.repl
		}
	}
	if e, ok := n.(*ast.Expression); ok {
		args := make([]ast.Node, len(e.Args))
		changed := false
		for i, a := range e.Args {
			na := rewriteTree(a, rules)
			args[i] = na
			if na != a {
				changed = true
			}
		}
		if changed {
			cp := e.Copy()
			cp.SetArgs(args)
			return cp
		}
	}
	return n
}

// collectAggregateCalls walks SELECT, HAVING and ORDER BY and returns
// every distinct (by structural equality) aggregate function call node.
func collectAggregateCalls(q *ast.Query) []ast.Node {
	var out []ast.Node
	seen := func(n ast.Node) bool {
		for _, o := range out {
			if ast.Equal(o, n) {
				return true
			}
		}
		return false
	}
	visit := func(n ast.Node) {
		ast.Walk(n, func(w ast.Node) {
			if e, ok := w.(*ast.Expression); ok && e.Op == ast.OpFunction && function.IsAggregateFunc(e.FunctionName) {
				if !seen(e) {
					out = append(out, e)
				}
			}
		})
	}
	for _, n := range q.Select {
		visit(n)
	}
	visit(q.Having)
	for _, n := range q.OrderBy {
		visit(n)
	}
	return out
}

// outputColumnNames computes each SELECT entry's final output column
// name: the node's Alias() (an explicit alias, else a column reference's
// name or a function call's name), or "col_<k>" when that is empty, de-duplicated with
// "_1", "_2", ... suffixes when the same name is produced twice.
func outputColumnNames(selectList []ast.Node) []string {
	names := make([]string, len(selectList))
	index := map[string]int{}
	for i, n := range selectList {
		base := n.Alias()
		if base == "" {
			base = fmt.Sprintf("col_%d", i)
		}
		count := index[base]
		index[base] = count + 1
		if count == 0 {
			names[i] = base
		} else {
			names[i] = fmt.Sprintf("%s_%d", base, count)
		}
	}
	return names
}
