package function

import (
	"time"

	"github.com/dmitrykoval/govinum/column"
	"github.com/dmitrykoval/govinum/vnerrors"
)

// unitFromArg extracts and validates a time unit literal passed as the
// function's last argument, defaulting to seconds when omitted.
func unitFromArg(args []column.Value, idx int, allowed []column.TimeUnit, def column.TimeUnit) (column.TimeUnit, error) {
	if idx >= len(args) {
		return def, nil
	}
	v := args[idx]
	if v.Type != column.String {
		return 0, vnerrors.NewFunctionError("expected a unit string argument")
	}
	u, ok := column.ParseTimeUnit(v.Str)
	if !ok {
		return 0, vnerrors.NewOperatorError("unrecognized time unit %q", v.Str)
	}
	for _, a := range allowed {
		if a == u {
			return u, nil
		}
	}
	return 0, vnerrors.NewOperatorError("unit %q is not valid here", v.Str)
}

func registerDatetimeKernels(r *Registry) {
	r.Register(Descriptor{
		Name: "date", Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 || !args[0].Valid {
				return column.NullValue(), nil
			}
			switch args[0].Type {
			case column.Int64:
				return column.DateValue(args[0].Int), nil
			case column.String:
				t, err := time.Parse("2006-01-02", args[0].Str)
				if err != nil {
					return column.Value{}, vnerrors.NewFunctionError("date(): cannot parse %q", args[0].Str)
				}
				return column.DateValue(t.Unix() / 86400), nil
			default:
				return column.Value{}, vnerrors.NewFunctionError("date(): unsupported argument type")
			}
		},
	})

	r.Register(Descriptor{
		Name: "datetime", Kind: KindScalar, Arity: -1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) == 0 || !args[0].Valid {
				return column.NullValue(), nil
			}
			unit, err := unitFromArg(args, 1,
				[]column.TimeUnit{column.UnitSecond, column.UnitMillis, column.UnitMicros, column.UnitNanos},
				column.UnitSecond)
			if err != nil {
				return column.Value{}, err
			}
			switch args[0].Type {
			case column.Int64:
				return column.TimestampValue(args[0].Int, unit), nil
			case column.String:
				t, err := time.Parse(time.RFC3339, args[0].Str)
				if err != nil {
					return column.Value{}, vnerrors.NewFunctionError("datetime(): cannot parse %q", args[0].Str)
				}
				return column.TimestampValue(t.Unix(), column.UnitSecond), nil
			default:
				return column.Value{}, vnerrors.NewFunctionError("datetime(): unsupported argument type")
			}
		},
	})

	r.Register(Descriptor{
		Name: "from_timestamp", Kind: KindScalar, Arity: -1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) == 0 || !args[0].Valid {
				return column.NullValue(), nil
			}
			unit, err := unitFromArg(args, 1,
				[]column.TimeUnit{column.UnitSecond, column.UnitMillis, column.UnitMicros, column.UnitNanos},
				column.UnitSecond)
			if err != nil {
				return column.Value{}, err
			}
			i, ok := args[0].AsFloat64()
			if !ok {
				return column.Value{}, vnerrors.NewFunctionError("from_timestamp(): expected a numeric argument")
			}
			return column.TimestampValue(int64(i), unit), nil
		},
	})

	r.Register(Descriptor{
		Name: "timedelta", Kind: KindScalar, Arity: 2,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 2 {
				return column.Value{}, vnerrors.NewFunctionError("timedelta() takes exactly 2 arguments")
			}
			a, okA := args[0].AsFloat64()
			b, okB := args[1].AsFloat64()
			if !okA || !okB {
				return column.NullValue(), nil
			}
			return column.FloatValue(a - b), nil
		},
	})

	r.Register(Descriptor{
		Name: "is_busday", Kind: KindScalar, Arity: 1,
		Scalar: func(args []column.Value) (column.Value, error) {
			if len(args) != 1 || !args[0].Valid {
				return column.NullValue(), nil
			}
			days := args[0].Int
			if args[0].Type == column.Timestamp {
				days = args[0].Int / 86400
			}
			wd := time.Unix(days*86400, 0).UTC().Weekday()
			return column.BoolValue(wd != time.Saturday && wd != time.Sunday), nil
		},
	})
}
