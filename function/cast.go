package function

import (
	"strconv"

	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

func registerCastKernels(r *Registry) {
	r.Register(Descriptor{
		Name: "to_bool", Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 {
				return column.Value{}, vnerrors.NewFunctionError("to_bool() takes exactly 1 argument")
			}
			v := args[0]
			if !v.Valid {
				return column.NullValue(), nil
			}
			switch v.Type {
			case column.Bool:
				return column.BoolValue(v.Bool), nil
			case column.Int64:
				return column.BoolValue(v.Int != 0), nil
			case column.Float64:
				return column.BoolValue(v.Float != 0), nil
			case column.String:
				b, err := strconv.ParseBool(v.Str)
				if err != nil {
					return column.Value{}, vnerrors.NewFunctionError("to_bool(): cannot parse %q as bool", v.Str)
				}
				return column.BoolValue(b), nil
			default:
				return column.NullValue(), nil
			}
		},
	})

	r.Register(Descriptor{
		Name: "to_float", Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 {
				return column.Value{}, vnerrors.NewFunctionError("to_float() takes exactly 1 argument")
			}
			v := args[0]
			if !v.Valid {
				return column.NullValue(), nil
			}
			f, ok := v.AsFloat64()
			if !ok {
				return column.Value{}, vnerrors.NewFunctionError("to_float(): cannot convert %s", v.String())
			}
			return column.FloatValue(f), nil
		},
	})

	r.Register(Descriptor{
		Name: "to_int", Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 {
				return column.Value{}, vnerrors.NewFunctionError("to_int() takes exactly 1 argument")
			}
			v := args[0]
			if !v.Valid {
				return column.NullValue(), nil
			}
			switch v.Type {
			case column.Int64:
				return column.IntValue(v.Int), nil
			case column.Float64:
				return column.IntValue(int64(v.Float)), nil
			case column.Bool:
				if v.Bool {
					return column.IntValue(1), nil
				}
				return column.IntValue(0), nil
			case column.String:
				i, err := strconv.ParseInt(v.Str, 10, 64)
				if err != nil {
					return column.Value{}, vnerrors.NewFunctionError("to_int(): cannot parse %q as int", v.Str)
				}
				return column.IntValue(i), nil
			default:
				return column.NullValue(), nil
			}
		},
	})

	r.Register(Descriptor{
		Name: "to_str", Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 {
				return column.Value{}, vnerrors.NewFunctionError("to_str() takes exactly 1 argument")
			}
			v := args[0]
			if !v.Valid {
				return column.NullValue(), nil
			}
			return column.StringValue(v.String()), nil
		},
	})
}
