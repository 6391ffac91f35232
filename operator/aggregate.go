package operator

import (
	"io"
	"math"

	"github.com/dchest/siphash"

	"github.com/dmitrykoval/govinum/ast"
	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/function"
	"github.com/dmitrykoval/govinum/vector"
)

// AggExpr is one aggregate projection: a reduction kind plus the name of
// the (already materialized, possibly shared-id) input column to reduce
// over. Input is empty for COUNT(*).
type AggExpr struct {
	Kind   function.AggKind
	Input  string
	Output string
}

// Aggregate computes a hash aggregation: zero or more GROUP BY key
// expressions, plus a fixed list of aggregate reductions. With no GROUP
// BY expressions it degenerates to OneGroupAggregate: a single implicit
// group emitting exactly one output row. With GROUP BY expressions, one
// of three hash-grouping strategies is picked lazily once the input's
// actual column types are known: SingleNumericAggregate (one numeric
// key column), MultiNumericAggregate (several numeric key columns,
// packed into a fixed-width composite key) or GenericAggregate (any
// other combination, keyed by a siphash of the byte-serialized values
// with collision-checked buckets).
type Aggregate struct {
	parent       Operator
	groupByExprs []ast.Node
	groupByNames []string
	aggExprs     []AggExpr
	schema       column.Schema
	done         bool
	sent         bool
	out          *column.Batch
}

func NewAggregate(parent Operator, groupByExprs []ast.Node, groupByNames []string, aggExprs []AggExpr) *Aggregate {
	fields := make([]column.Field, 0, len(groupByNames)+len(aggExprs))
	for _, n := range groupByNames {
		fields = append(fields, column.Field{Name: n})
	}
	for _, a := range aggExprs {
		fields = append(fields, column.Field{Name: a.Output})
	}
	return &Aggregate{
		parent:       parent,
		groupByExprs: groupByExprs,
		groupByNames: groupByNames,
		aggExprs:     aggExprs,
		schema:       column.NewSchema(fields...),
	}
}

func (a *Aggregate) Schema() column.Schema { return a.schema }

func (a *Aggregate) Next() (*column.Batch, error) {
	if !a.done {
		if err := a.run(); err != nil {
			return nil, err
		}
		a.done = true
	}
	if a.sent {
		return nil, io.EOF
	}
	a.sent = true
	return a.out, nil
}

func (a *Aggregate) Close() error { return a.parent.Close() }

// groupAcc is the per-group, per-aggregate-expression running state.
// SUM/AVG keep separate integer and float accumulators rather than
// folding everything into float64: spec.md requires SUM of an
// all-integer column (and of an empty all-integer group) to come back
// as an integer, not a float, so the accumulator must remember which
// arm it has been filling. sumIsInt reflects the type of the column
// actually observed, independent of rowCount, so an empty group can
// still report the right zero kind via finalize's inputType fallback.
type groupAcc struct {
	rowCount int64
	sumSet   bool
	sumIsInt bool
	sumInt   int64
	sumFloat float64
	minSet   bool
	min      column.Value
	maxSet   bool
	max      column.Value
	keyVals  []column.Value
}

func (g *groupAcc) observe(kind function.AggKind, v column.Value) {
	if kind == function.AggCountStar || v.Valid {
		g.rowCount++
	}
	switch kind {
	case function.AggSum, function.AggAvg:
		if !v.Valid {
			return
		}
		if v.Type == column.Int64 {
			g.sumInt = function.SumInt64([]int64{g.sumInt, v.Int})
			if !g.sumSet {
				g.sumIsInt = true
			}
		} else if f, ok := v.AsFloat64(); ok {
			if g.sumIsInt {
				// a prior integer-typed row preceded a float one in the
				// same group; fold the integer total into the float arm.
				g.sumFloat += float64(g.sumInt)
				g.sumInt = 0
			}
			g.sumIsInt = false
			g.sumFloat = function.SumFloat64([]float64{g.sumFloat, f})
		} else {
			return
		}
		g.sumSet = true
	case function.AggMin:
		if v.Valid {
			g.min, g.minSet = minValue(g.min, v, g.minSet), true
		}
	case function.AggMax:
		if v.Valid {
			g.max, g.maxSet = maxValue(g.max, v, g.maxSet), true
		}
	}
}

// minValue and maxValue fold a new observation into the running extreme,
// dispatching to the typed generic reduction in the function package for
// the numeric/string types it covers, and falling back to a direct
// comparison for anything else (bool, timestamp, date).
func minValue(acc, v column.Value, accSet bool) column.Value {
	if !accSet {
		return v
	}
	switch v.Type {
	case column.Int64:
		m, _ := function.MinInt64([]int64{acc.Int, v.Int})
		return column.IntValue(m)
	case column.Float64:
		m, _ := function.MinFloat64([]float64{acc.Float, v.Float})
		return column.FloatValue(m)
	case column.String:
		m, _ := function.MinString([]string{acc.Str, v.Str})
		return column.StringValue(m)
	default:
		if lessValue(v, acc) {
			return v
		}
		return acc
	}
}

func maxValue(acc, v column.Value, accSet bool) column.Value {
	if !accSet {
		return v
	}
	switch v.Type {
	case column.Int64:
		m, _ := function.MaxInt64([]int64{acc.Int, v.Int})
		return column.IntValue(m)
	case column.Float64:
		m, _ := function.MaxFloat64([]float64{acc.Float, v.Float})
		return column.FloatValue(m)
	case column.String:
		m, _ := function.MaxString([]string{acc.Str, v.Str})
		return column.StringValue(m)
	default:
		if lessValue(acc, v) {
			return v
		}
		return acc
	}
}

func lessValue(a, b column.Value) bool {
	if a.Type == column.String || b.Type == column.String {
		return a.Str < b.Str
	}
	af, _ := a.AsFloat64()
	bf, _ := b.AsFloat64()
	return af < bf
}

// finalize reduces an accumulator to its output Value. inputType is the
// aggregate argument column's declared type, consulted only for SUM's
// empty-group zero: an integer column sums to an integer 0, a float
// column to 0.0, matching the non-empty case's type instead of always
// collapsing to float.
func finalize(kind function.AggKind, g *groupAcc, inputType column.DataType) column.Value {
	switch kind {
	case function.AggCount, function.AggCountStar:
		return column.IntValue(g.rowCount)
	case function.AggSum:
		if !g.sumSet {
			return kind.ZeroValue(inputType)
		}
		if g.sumIsInt {
			return column.IntValue(g.sumInt)
		}
		return column.FloatValue(g.sumFloat)
	case function.AggAvg:
		if g.rowCount == 0 || !g.sumSet {
			return kind.ZeroValue(inputType)
		}
		total := g.sumFloat
		if g.sumIsInt {
			total = float64(g.sumInt)
		}
		return column.FloatValue(total / float64(g.rowCount))
	case function.AggMin:
		if !g.minSet {
			return kind.ZeroValue(inputType)
		}
		return g.min
	case function.AggMax:
		if !g.maxSet {
			return kind.ZeroValue(inputType)
		}
		return g.max
	default:
		return column.NullValue()
	}
}

// run buffers the entire input, evaluates the group-by and aggregate
// argument expressions, picks a grouping strategy, accumulates, and
// finalizes the single output batch.
func (a *Aggregate) run() error {
	var batches []column.Batch
	for {
		b, err := a.parent.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		batches = append(batches, *b)
	}

	if len(a.groupByExprs) == 0 {
		return a.runOneGroup(batches)
	}

	// Evaluate group-by key columns per batch, then concatenate.
	keyCols := make([]column.Column, len(a.groupByExprs))
	for ki, expr := range a.groupByExprs {
		var parts []column.Column
		for _, b := range batches {
			cache := vector.Cache{}
			col, err := vector.Evaluate(expr, b, cache)
			if err != nil {
				return err
			}
			if col.Len() == 1 && b.NumRows() != 1 {
				col = col.Repeat(b.NumRows())
			}
			parts = append(parts, col)
		}
		if len(parts) == 0 {
			keyCols[ki] = column.NewNullColumn(0)
		} else {
			keyCols[ki] = column.Append(parts...)
		}
	}

	allNumeric := true
	for _, c := range keyCols {
		if !c.Type.IsNumeric() {
			allNumeric = false
			break
		}
	}

	var groupOf []int // row -> group id, in row order across the concatenated key columns
	var numGroups int
	var firstRowOfGroup []int

	switch {
	case len(keyCols) == 1 && allNumeric:
		groupOf, numGroups, firstRowOfGroup = groupSingleNumeric(keyCols[0])
	case allNumeric:
		groupOf, numGroups, firstRowOfGroup = groupMultiNumeric(keyCols)
	default:
		groupOf, numGroups, firstRowOfGroup = groupGeneric(keyCols)
	}

	accs := make([][]*groupAcc, numGroups)
	for g := range accs {
		accs[g] = make([]*groupAcc, len(a.aggExprs))
		for i := range accs[g] {
			accs[g][i] = &groupAcc{}
		}
	}

	// Evaluate aggregate argument columns per batch (reusing the already
	// materialized shared-id columns named by each AggExpr.Input) and fold
	// into the per-group accumulators. inputTypes records each argument
	// column's declared type the first time it is seen, even for a batch
	// with zero rows, so finalize can still pick the right empty-group
	// zero for a group that never observed a valid value.
	inputTypes := make([]column.DataType, len(a.aggExprs))
	rowOffset := 0
	for _, b := range batches {
		argCols := make([]column.Column, len(a.aggExprs))
		for ai, ae := range a.aggExprs {
			if ae.Input == "" {
				continue
			}
			col, ok := b.Column(ae.Input)
			if !ok {
				continue
			}
			argCols[ai] = col
			if inputTypes[ai] == column.Invalid {
				inputTypes[ai] = col.Type
			}
		}
		for r := 0; r < b.NumRows(); r++ {
			g := groupOf[rowOffset+r]
			for ai, ae := range a.aggExprs {
				var v column.Value
				if ae.Input == "" {
					v = column.IntValue(1)
				} else if argCols[ai].Len() > 0 {
					v = argCols[ai].Get(r)
				}
				accs[g][ai].observe(ae.Kind, v)
			}
		}
		rowOffset += b.NumRows()
	}

	outCols := make([]column.Column, 0, len(a.groupByNames)+len(a.aggExprs))
	for ki := range keyCols {
		vals := make([]column.Value, numGroups)
		for g := 0; g < numGroups; g++ {
			vals[g] = keyCols[ki].Get(firstRowOfGroup[g])
		}
		outCols = append(outCols, valuesToColumnPublic(vals))
	}
	for ai, ae := range a.aggExprs {
		vals := make([]column.Value, numGroups)
		for g := 0; g < numGroups; g++ {
			vals[g] = finalize(ae.Kind, accs[g][ai], inputTypes[ai])
		}
		outCols = append(outCols, valuesToColumnPublic(vals))
	}

	out := column.MustNewBatch(a.schema, outCols)
	a.out = &out
	return nil
}

func (a *Aggregate) runOneGroup(batches []column.Batch) error {
	accs := make([]*groupAcc, len(a.aggExprs))
	for i := range accs {
		accs[i] = &groupAcc{}
	}
	inputTypes := make([]column.DataType, len(a.aggExprs))
	for _, b := range batches {
		argCols := make([]column.Column, len(a.aggExprs))
		for ai, ae := range a.aggExprs {
			if ae.Input == "" {
				continue
			}
			col, ok := b.Column(ae.Input)
			if !ok {
				continue
			}
			argCols[ai] = col
			if inputTypes[ai] == column.Invalid {
				inputTypes[ai] = col.Type
			}
		}
		for r := 0; r < b.NumRows(); r++ {
			for ai, ae := range a.aggExprs {
				var v column.Value
				if ae.Input == "" {
					v = column.IntValue(1)
				} else if argCols[ai].Len() > 0 {
					v = argCols[ai].Get(r)
				}
				accs[ai].observe(ae.Kind, v)
			}
		}
	}
	outCols := make([]column.Column, 0, len(a.aggExprs))
	for ai, ae := range a.aggExprs {
		outCols = append(outCols, valuesToColumnPublic([]column.Value{finalize(ae.Kind, accs[ai], inputTypes[ai])}))
	}
	out := column.MustNewBatch(a.schema, outCols)
	a.out = &out
	return nil
}

// groupSingleNumeric implements SingleNumericAggregate: a single numeric
// GROUP BY key column, hashed as its own integer or float64 bit pattern;
// null keys form one group of their own.
func groupSingleNumeric(col column.Column) (groupOf []int, numGroups int, firstRow []int) {
	n := col.Len()
	groupOf = make([]int, n)
	index := map[uint64]int{}
	nullGroup := -1
	for i := 0; i < n; i++ {
		if !col.IsValid(i) {
			if nullGroup < 0 {
				nullGroup = numGroups
				firstRow = append(firstRow, i)
				numGroups++
			}
			groupOf[i] = nullGroup
			continue
		}
		key := numericBits(col, i)
		g, ok := index[key]
		if !ok {
			g = numGroups
			index[key] = g
			firstRow = append(firstRow, i)
			numGroups++
		}
		groupOf[i] = g
	}
	return
}

// groupMultiNumeric implements MultiNumericAggregate: several numeric
// GROUP BY key columns packed into one fixed-width composite key.
func groupMultiNumeric(cols []column.Column) (groupOf []int, numGroups int, firstRow []int) {
	n := cols[0].Len()
	groupOf = make([]int, n)
	index := map[string]int{}
	for i := 0; i < n; i++ {
		key := make([]byte, 0, 9*len(cols))
		for _, c := range cols {
			bits := numericBits(c, i)
			key = append(key,
				byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24),
				byte(bits>>32), byte(bits>>40), byte(bits>>48), byte(bits>>56),
				boolByte(c.IsValid(i)))
		}
		ks := string(key)
		g, ok := index[ks]
		if !ok {
			g = numGroups
			index[ks] = g
			firstRow = append(firstRow, i)
			numGroups++
		}
		groupOf[i] = g
	}
	return
}

// sipHashKey0/1 are a fixed, process-constant siphash key pair: the
// generic grouping path uses siphash purely to bucket composite keys,
// not as a security boundary, so a constant key is sufficient.
const sipHashKey0, sipHashKey1 = 0x9ae16a3b2f90404f, 0x2545f4914f6cdd1d

// groupGeneric implements GenericAggregate: an arbitrary mix of GROUP BY
// key column types, serialized to bytes and hashed with siphash into a
// bucket; each bucket keeps the actual serialized keys to resolve hash
// collisions.
func groupGeneric(cols []column.Column) (groupOf []int, numGroups int, firstRow []int) {
	n := cols[0].Len()
	groupOf = make([]int, n)
	buckets := map[uint64][]int // hash -> group ids sharing that hash
	keyOf := map[int]string{}
	for i := 0; i < n; i++ {
		ks := serializeKey(cols, i)
		h := siphash.Hash(sipHashKey0, sipHashKey1, []byte(ks))
		g := -1
		for _, cand := range buckets[h] {
			if keyOf[cand] == ks {
				g = cand
				break
			}
		}
		if g < 0 {
			g = numGroups
			buckets[h] = append(buckets[h], g)
			keyOf[g] = ks
			firstRow = append(firstRow, i)
			numGroups++
		}
		groupOf[i] = g
	}
	return
}

func serializeKey(cols []column.Column, row int) string {
	var b []byte
	for _, c := range cols {
		if !c.IsValid(row) {
			b = append(b, 0)
			continue
		}
		b = append(b, 1)
		b = append(b, []byte(c.Get(row).String())...)
		b = append(b, 0)
	}
	return string(b)
}

func numericBits(col column.Column, row int) uint64 {
	if !col.IsValid(row) {
		return 0
	}
	switch col.Type {
	case column.Float64:
		return math.Float64bits(col.Floats[row])
	default:
		return uint64(col.Ints[row])
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// valuesToColumnPublic packs per-group finalized Values (and reassembled
// group-key Values) into a column, delegating to column.FromValues so
// the packing rule lives in exactly one place.
func valuesToColumnPublic(values []column.Value) column.Column {
	return column.FromValues(values)
}
