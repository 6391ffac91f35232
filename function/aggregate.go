package function

import "github.com/dmitrykoval/govinum/column"

// AggKind is the closed set of aggregate reductions the hash-aggregate
// operators know how to compute.
type AggKind int

const (
	AggCount AggKind = iota
	AggCountStar
	AggMin
	AggMax
	AggSum
	AggAvg
)

var aggKindByName = map[string]AggKind{
	"count":      AggCount,
	"count_star": AggCountStar,
	"min":        AggMin,
	"max":        AggMax,
	"sum":        AggSum,
	"avg":        AggAvg,
	"np.min":     AggMin,
	"np.max":     AggMax,
	"np.sum":     AggSum,
}

// AggKindFor resolves a (possibly np.*-namespaced) aggregate function
// name to its AggKind.
func AggKindFor(name string) (AggKind, bool) {
	k, ok := aggKindByName[normalizeName(name)]
	return k, ok
}

func (k AggKind) String() string {
	switch k {
	case AggCount:
		return "count"
	case AggCountStar:
		return "count_star"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	case AggSum:
		return "sum"
	case AggAvg:
		return "avg"
	default:
		return "unknown"
	}
}

// registerAggregateKernels marks aggregate function names as resolved in
// the default registry so IsAggregateFunc / the binder's is_aggregate
// detection see them, even though their actual reduction logic lives in
// the hash-aggregate operators rather than as a Scalar/Vector kernel
// here.
func registerAggregateKernels(r *Registry) {
	for name := range aggKindByName {
		r.Register(Descriptor{Name: name, Kind: KindAggregate})
	}
}

// IsAggregateFunc reports whether name names an aggregate function,
// consulted by the binder when recomputing Query.IsAggregate.
func IsAggregateFunc(name string) bool {
	return Default.IsAggregate(name)
}

// ZeroValue returns the aggregate's identity/empty-group result,
// matching the reference finalization rule: SUM of zero rows is 0,
// COUNT/COUNT_STAR of zero rows is 0, MIN/MAX/AVG of zero rows is null.
// inputType is the aggregate argument column's declared type and is
// consulted only for SUM: an integer column's empty sum is the integer
// 0, a float column's is 0.0, so the zero carries the same type the
// non-empty reduction would have produced.
func (k AggKind) ZeroValue(inputType column.DataType) column.Value {
	switch k {
	case AggSum:
		if inputType == column.Int64 {
			return column.IntValue(0)
		}
		return column.FloatValue(0)
	case AggCount, AggCountStar:
		return column.IntValue(0)
	default:
		return column.NullValue()
	}
}
