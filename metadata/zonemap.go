// Package metadata implements per-RecordBatch zone maps: cheap min/max
// summaries that let a Filter skip a whole batch without evaluating its
// predicate row-by-row, when the predicate can be proven false for
// every row in the batch. A zone map never causes a false skip: when it
// cannot prove a batch is irrelevant, the batch is still evaluated
// normally, so correctness never depends on the zone map being present.
// Adapted from the reference engine's file-level zone map (one JSON
// sidecar per CSV file) to the in-memory, per-batch granularity this
// engine actually operates at.
package metadata

import "github.com/dmitrykoval/govinum/column"

// ZoneMap holds the numeric min/max bounds observed in each numeric
// column of one batch.
type ZoneMap struct {
	Min     map[string]float64
	Max     map[string]float64
	Tracked map[string]bool
}

// Build computes a ZoneMap for the given batch, tracking every numeric
// column that contains at least one non-null value.
func Build(batch column.Batch) ZoneMap {
	zm := ZoneMap{Min: map[string]float64{}, Max: map[string]float64{}, Tracked: map[string]bool{}}
	for i, f := range batch.Schema.Fields {
		col := batch.Columns[i]
		if !col.Type.IsNumeric() {
			continue
		}
		first := true
		for r := 0; r < col.Len(); r++ {
			if !col.IsValid(r) {
				continue
			}
			v, ok := col.Get(r).AsFloat64()
			if !ok {
				continue
			}
			if first {
				zm.Min[f.Name] = v
				zm.Max[f.Name] = v
				zm.Tracked[f.Name] = true
				first = false
				continue
			}
			if v < zm.Min[f.Name] {
				zm.Min[f.Name] = v
			}
			if v > zm.Max[f.Name] {
				zm.Max[f.Name] = v
			}
		}
	}
	return zm
}

// CanPrune reports whether every row of the batch is provably excluded
// by a "column <op> literal" predicate, where op is one of
// "=", "<", "<=", ">", ">=", "!=". An untracked column (non-numeric, or
// all-null in this batch) always returns false: no pruning decision can
// be made.
func (zm ZoneMap) CanPrune(col string, op string, value float64) bool {
	if !zm.Tracked[col] {
		return false
	}
	min, max := zm.Min[col], zm.Max[col]
	switch op {
	case "=":
		return value < min || value > max
	case "<":
		return min >= value
	case "<=":
		return min > value
	case ">":
		return max <= value
	case ">=":
		return max < value
	case "!=":
		return min == max && min == value
	default:
		return false
	}
}
