package ast

// Query is the bound/unbound representation of a single SELECT statement.
type Query struct {
	Source string // table/stream name, empty once resolved against a column.Table value directly

	Select   []Node
	Distinct bool

	Where Node

	GroupBy []Node
	Having  Node

	OrderBy   []Node
	SortOrder []SortOrder

	Limit      int64
	HasLimit   bool
	Offset     int64
	HasOffset  bool

	// IsAggregate is computed by the binder: true when any SELECT/HAVING/
	// ORDER BY expression invokes an aggregate function, GROUP BY is
	// non-empty, or Distinct is set.
	IsAggregate bool
}

// HasGroupBy reports whether the query has an explicit GROUP BY clause.
func (q *Query) HasGroupBy() bool { return len(q.GroupBy) > 0 }

// HasWhere reports whether the query has a WHERE clause.
func (q *Query) HasWhere() bool { return q.Where != nil }

// HasHaving reports whether the query has a HAVING clause.
func (q *Query) HasHaving() bool { return q.Having != nil }

// HasOrderBy reports whether the query has an ORDER BY clause.
func (q *Query) HasOrderBy() bool { return len(q.OrderBy) > 0 }

// HasCountStar reports whether the SELECT list contains a bare COUNT(*)
// call, the one function call allowed to carry zero arguments.
func (q *Query) HasCountStar() bool {
	for _, n := range q.Select {
		if isCountStar(n) {
			return true
		}
	}
	return false
}

func isCountStar(n Node) bool {
	e, ok := n.(*Expression)
	if !ok || e.Op != OpFunction {
		return false
	}
	return e.FunctionName == "count_star" || (e.FunctionName == "count" && len(e.Args) == 0)
}

// AllUsedColumnNames returns the set of distinct column names referenced
// anywhere in the query: SELECT, WHERE, GROUP BY, HAVING, ORDER BY.
func (q *Query) AllUsedColumnNames() []string {
	seen := map[string]bool{}
	var out []string
	add := func(n Node) {
		Walk(n, func(w Node) {
			if c, ok := w.(*ColumnRef); ok {
				if !seen[c.Name] {
					seen[c.Name] = true
					out = append(out, c.Name)
				}
			}
		})
	}
	for _, n := range q.Select {
		add(n)
	}
	add(q.Where)
	for _, n := range q.GroupBy {
		add(n)
	}
	add(q.Having)
	for _, n := range q.OrderBy {
		add(n)
	}
	return out
}

// SelectPlusPostAggColumns returns the SELECT list followed by any HAVING/
// ORDER BY expressions not already structurally present among the SELECT
// entries, the set the planner needs to carry through the pre-projection
// and aggregation stages.
func (q *Query) SelectPlusPostAggColumns() []Node {
	out := make([]Node, len(q.Select))
	copy(out, q.Select)
	contains := func(n Node) bool {
		for _, s := range out {
			if Equal(s, n) {
				return true
			}
		}
		return false
	}
	if q.Having != nil && !contains(q.Having) {
		out = append(out, q.Having)
	}
	for _, n := range q.OrderBy {
		if !contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Walk calls fn on n and recursively on every argument of every
// Expression reachable from n. A nil n is a no-op.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	if e, ok := n.(*Expression); ok {
		for _, a := range e.Args {
			Walk(a, fn)
		}
	}
}

// Flatten collects n and the full set of its descendant nodes into a
// single slice, in pre-order. Used by the binder's shared-subexpression
// pass, which needs to compare every node pairwise regardless of depth.
func Flatten(nodes ...Node) []Node {
	var out []Node
	for _, n := range nodes {
		Walk(n, func(w Node) { out = append(out, w) })
	}
	return out
}
