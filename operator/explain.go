package operator

import (
	"fmt"
	"strings"
)

// Explain renders op's pipeline as one line per operator, indented by
// nesting depth, root (the final output stage) first and the source at
// the deepest indent — the same top-down order table.Table.Explain
// presents a query's physical plan in.
func Explain(op Operator) string {
	var b strings.Builder
	explainNode(&b, op, 0)
	return b.String()
}

func explainNode(b *strings.Builder, op Operator, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(describeOperator(op))
	b.WriteByte('\n')
	if p := parentOf(op); p != nil {
		explainNode(b, p, depth+1)
	}
}

func parentOf(op Operator) Operator {
	switch o := op.(type) {
	case *Project:
		return o.parent
	case *Filter:
		return o.parent
	case *Sort:
		return o.parent
	case *Slice:
		return o.parent
	case *Aggregate:
		return o.parent
	default:
		return nil
	}
}

func describeOperator(op Operator) string {
	switch o := op.(type) {
	case *Project:
		names := make([]string, len(o.columns))
		for i, c := range o.columns {
			names[i] = fmt.Sprintf("%s=%s", c.Name, c.Expr.String())
		}
		return fmt.Sprintf("Project[%s]", strings.Join(names, ", "))
	case *Filter:
		return fmt.Sprintf("Filter[%s]", o.predicate.String())
	case *Sort:
		parts := make([]string, len(o.keys))
		for i, k := range o.keys {
			parts[i] = fmt.Sprintf("%s %s", k.Expr.String(), k.Order.String())
		}
		return fmt.Sprintf("Sort[%s]", strings.Join(parts, ", "))
	case *Slice:
		if o.hasLimit {
			return fmt.Sprintf("Slice[offset=%d, limit=%d]", o.offset, o.limit)
		}
		return fmt.Sprintf("Slice[offset=%d]", o.offset)
	case *Aggregate:
		groups := make([]string, len(o.groupByExprs))
		for i, g := range o.groupByExprs {
			groups[i] = fmt.Sprintf("%s=%s", o.groupByNames[i], g.String())
		}
		aggs := make([]string, len(o.aggExprs))
		for i, a := range o.aggExprs {
			input := a.Input
			if input == "" {
				input = "*"
			}
			aggs[i] = fmt.Sprintf("%s=%s(%s)", a.Output, a.Kind, input)
		}
		return fmt.Sprintf("Aggregate[group_by=[%s], aggs=[%s]]", strings.Join(groups, ", "), strings.Join(aggs, ", "))
	case *TableSource:
		return fmt.Sprintf("TableSource[rows=%d]", tableSourceRows(o))
	case *StreamSource:
		return "StreamSource"
	case *EmptySource:
		return "EmptySource"
	case *OneRowSource:
		return "OneRowSource"
	default:
		return fmt.Sprintf("Operator(%T)", op)
	}
}

func tableSourceRows(s *TableSource) int {
	n := 0
	for _, b := range s.batches {
		n += b.NumRows()
	}
	return n
}
