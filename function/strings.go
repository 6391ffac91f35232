package function

import (
	"strings"

	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

func asString(v column.Value) (string, bool) {
	if !v.Valid {
		return "", false
	}
	if v.Type == column.String {
		return v.Str, true
	}
	return v.String(), true
}

func registerStringKernels(r *Registry) {
	// concat is variadic and left-folds over its arguments two at a time,
	// matching the evaluator's generic binary-fold rule for multi-arg
	// function calls.
	r.Register(Descriptor{
		Name: "concat", Kind: KindScalar, Arity: -1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) < 2 {
				return column.Value{}, vnerrors.NewFunctionError("concat() takes at least 2 arguments")
			}
			a, ok := asString(args[0])
			if !ok {
				return column.NullValue(), nil
			}
			for _, rest := range args[1:] {
				b, ok := asString(rest)
				if !ok {
					return column.NullValue(), nil
				}
				a = a + b
			}
			return column.StringValue(a), nil
		},
	})

	r.Register(Descriptor{
		Name: "upper", Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 {
				return column.Value{}, vnerrors.NewFunctionError("upper() takes exactly 1 argument")
			}
			s, ok := asString(args[0])
			if !ok {
				return column.NullValue(), nil
			}
			return column.StringValue(strings.ToUpper(s)), nil
		},
	})

	r.Register(Descriptor{
		Name: "lower", Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 {
				return column.Value{}, vnerrors.NewFunctionError("lower() takes exactly 1 argument")
			}
			s, ok := asString(args[0])
			if !ok {
				return column.NullValue(), nil
			}
			return column.StringValue(strings.ToLower(s)), nil
		},
	})
}
