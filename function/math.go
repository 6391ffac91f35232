package function

import (
	"math"

	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
	"golang.org/x/exp/constraints"
)

// numericArg coerces a column.Value to float64, propagating nulls. Every
// math kernel below works in float64 regardless of the input's declared
// type, matching the reference registry's numpy ufunc behavior where
// integer inputs are promoted for transcendental functions.
func numericArg(v column.Value) (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	f, ok := v.AsFloat64()
	return f, ok
}

func unaryMathKernel(name string, fn func(float64) float64) Descriptor {
	return Descriptor{
		Name: name, Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 {
				return column.Value{}, vnerrors.NewFunctionError("%s() takes exactly 1 argument", name)
			}
			f, ok := numericArg(args[0])
			if !ok {
				return column.NullValue(), nil
			}
			return column.FloatValue(fn(f)), nil
		},
	}
}

func registerMathKernels(r *Registry) {
	r.Register(unaryMathKernel("abs", math.Abs))
	r.Register(unaryMathKernel("sqrt", math.Sqrt))
	r.Register(unaryMathKernel("cos", math.Cos))
	r.Register(unaryMathKernel("sin", math.Sin))
	r.Register(unaryMathKernel("tan", math.Tan))
	r.Register(unaryMathKernel("log", math.Log))
	r.Register(unaryMathKernel("log2", math.Log2))
	r.Register(unaryMathKernel("log10", math.Log10))

	r.Register(Descriptor{
		Name: "power", Kind: KindScalar, Arity: 2,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 2 {
				return column.Value{}, vnerrors.NewFunctionError("power() takes exactly 2 arguments")
			}
			base, ok1 := numericArg(args[0])
			exp, ok2 := numericArg(args[1])
			if !ok1 || !ok2 {
				return column.NullValue(), nil
			}
			return column.FloatValue(math.Pow(base, exp)), nil
		},
	})

	r.Register(Descriptor{
		Name: "pi", Kind: KindScalar, Arity: 0,
		Scalar: func(args []column.Value) (column.Value, error) {
			return column.FloatValue(math.Pi), nil
		},
	})
	r.Register(Descriptor{
		Name: "e", Kind: KindScalar, Arity: 0,
		Scalar: func(args []column.Value) (column.Value, error) {
			return column.FloatValue(math.E), nil
		},
	})
}

// sumNumeric is a generic reduction shared by the numeric hash-aggregate
// variants in the operator package; kept here alongside the rest of the
// numeric kernel set since it is grounded on the same constraints-based
// generic style.
func sumNumeric[T constraints.Integer | constraints.Float](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

// SumInt64 and SumFloat64 are thin, exported instantiations of
// sumNumeric used by the aggregate operators.
func SumInt64(values []int64) int64     { return sumNumeric(values) }
func SumFloat64(values []float64) float64 { return sumNumeric(values) }

func minNumeric[T constraints.Ordered](values []T) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m, true
}

func maxNumeric[T constraints.Ordered](values []T) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m, true
}

func MinInt64(values []int64) (int64, bool)     { return minNumeric(values) }
func MaxInt64(values []int64) (int64, bool)     { return maxNumeric(values) }
func MinFloat64(values []float64) (float64, bool) { return minNumeric(values) }
func MaxFloat64(values []float64) (float64, bool) { return maxNumeric(values) }
func MinString(values []string) (string, bool)  { return minNumeric(values) }
func MaxString(values []string) (string, bool)  { return maxNumeric(values) }
